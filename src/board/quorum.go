// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"fmt"
	"math"

	"github.com/hexya-addons/boardresolutions/src/tools/expr"
	"github.com/hexya-addons/boardresolutions/src/tools/nbutils"
)

// A QuorumEvaluation is the result of a quorum computation.
type QuorumEvaluation struct {
	// Required is the minimum number of present members
	Required int
	// Fallback is true if the custom formula of the policy could not be
	// used and half plus one was applied instead.
	Fallback bool
	// Warning describes why the fallback was applied
	Warning string
}

// RequiredQuorum returns the minimum number of members that must be
// present for a vote to be valid.
func RequiredQuorum(totalMembers int, policy *MeetingType) int {
	return EvaluateQuorum(totalMembers, policy).Required
}

// EvaluateQuorum computes the required quorum for the given roster size.
//
// The result is never greater than totalMembers, and is 0 only when
// totalMembers is 0. A nil policy means half plus one. Custom formulas
// that fail to evaluate never return an error: they fall back to half
// plus one and the evaluation carries a warning.
func EvaluateQuorum(totalMembers int, policy *MeetingType) QuorumEvaluation {
	if totalMembers <= 0 {
		return QuorumEvaluation{}
	}
	total := int64(totalMembers)
	if policy == nil {
		return QuorumEvaluation{Required: halfPlusOne(totalMembers)}
	}
	var required int64
	switch policy.QuorumType {
	case QuorumPercentage:
		required = nbutils.MaxInt64(1, nbutils.Fraction(total, policy.QuorumPercentage, 100))
	case QuorumFixed:
		required = nbutils.MinInt64(int64(policy.QuorumFixed), total)
	case QuorumHalfPlusOne:
		required = int64(halfPlusOne(totalMembers))
	case QuorumTwoThirds:
		required = nbutils.MaxInt64(1, nbutils.Fraction(total, 2, 3))
	case QuorumAll:
		required = total
	case QuorumCustom:
		return evaluateCustomQuorum(totalMembers, policy.QuorumCustomFormula)
	default:
		return fallbackQuorum(totalMembers, fmt.Sprintf("unknown quorum type %q", policy.QuorumType))
	}
	// A policy saved with invalid values must not demand more than exist
	required = nbutils.MinInt64(nbutils.MaxInt64(1, required), total)
	return QuorumEvaluation{Required: int(required)}
}

func evaluateCustomQuorum(totalMembers int, formula string) QuorumEvaluation {
	e, err := expr.Compile(formula, FormulaVariable)
	if err != nil {
		return fallbackQuorum(totalMembers, err.Error())
	}
	v, err := e.Eval(map[string]float64{FormulaVariable: float64(totalMembers)})
	if err != nil {
		return fallbackQuorum(totalMembers, err.Error())
	}
	if v.IsBool {
		return fallbackQuorum(totalMembers,
			fmt.Sprintf("custom quorum formula %q returned %s instead of a number of members", formula, v))
	}
	required, err := nbutils.CastToInteger(math.Trunc(v.Num))
	if err != nil || required < 1 {
		return fallbackQuorum(totalMembers,
			fmt.Sprintf("custom quorum formula %q returned %s for %d members", formula, v, totalMembers))
	}
	return QuorumEvaluation{Required: int(nbutils.MinInt64(required, int64(totalMembers)))}
}

func fallbackQuorum(totalMembers int, reason string) QuorumEvaluation {
	required := halfPlusOne(totalMembers)
	return QuorumEvaluation{
		Required: required,
		Fallback: true,
		Warning:  fmt.Sprintf("%s; falling back to half plus one (%d)", reason, required),
	}
}

func halfPlusOne(n int) int {
	return n/2 + 1
}

// QuorumMet returns true if present members reach the required quorum.
// It is always false for an empty roster.
func QuorumMet(present, totalMembers int, policy *MeetingType) bool {
	if totalMembers <= 0 {
		return false
	}
	return present >= RequiredQuorum(totalMembers, policy)
}
