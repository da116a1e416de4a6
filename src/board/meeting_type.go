// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"math"
	"strings"
	"time"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/hexya-addons/boardresolutions/src/tools/expr"
)

// A QuorumType selects how the required attendance of a meeting is computed
type QuorumType string

// Available quorum types
const (
	QuorumPercentage  QuorumType = "percentage"
	QuorumFixed       QuorumType = "fixed"
	QuorumHalfPlusOne QuorumType = "half_plus_one"
	QuorumTwoThirds   QuorumType = "two_thirds"
	QuorumAll         QuorumType = "all"
	QuorumCustom      QuorumType = "custom"
)

// Valid returns true if qt is a known quorum type
func (qt QuorumType) Valid() bool {
	switch qt {
	case QuorumPercentage, QuorumFixed, QuorumHalfPlusOne, QuorumTwoThirds, QuorumAll, QuorumCustom:
		return true
	}
	return false
}

// A MajorityType selects the share of cast votes needed to pass a motion
type MajorityType string

// Available majority types
const (
	MajoritySimple        MajorityType = "simple"
	MajorityTwoThirds     MajorityType = "two_thirds"
	MajorityThreeQuarters MajorityType = "three_quarters"
	MajorityUnanimous     MajorityType = "unanimous"
	MajorityCustom        MajorityType = "custom"
)

// Valid returns true if mt is a known majority type
func (mt MajorityType) Valid() bool {
	switch mt {
	case MajoritySimple, MajorityTwoThirds, MajorityThreeQuarters, MajorityUnanimous, MajorityCustom:
		return true
	}
	return false
}

// FormulaVariable is the only variable available in custom quorum formulas
const FormulaVariable = "total_members"

// Default values of a new meeting type
const (
	DefaultQuorumPercentage     = 50.0
	DefaultQuorumFixed          = 3
	DefaultVotingMajorityCustom = 60.0
	DefaultSequence             = 10
)

// A MeetingType is the policy of a class of board meetings: how quorum
// and majority are computed and which ballot styles are allowed.
type MeetingType struct {
	ID                   int64        `db:"id" json:"id"`
	Code                 string       `db:"code" json:"code"`
	Name                 string       `db:"name" json:"name"`
	Sequence             int          `db:"sequence" json:"sequence"`
	Active               bool         `db:"active" json:"active"`
	Color                int          `db:"color" json:"color"`
	Description          string       `db:"description" json:"description"`
	QuorumType           QuorumType   `db:"quorum_type" json:"quorum_type"`
	QuorumPercentage     float64      `db:"quorum_percentage" json:"quorum_percentage"`
	QuorumFixed          int          `db:"quorum_fixed" json:"quorum_fixed"`
	QuorumCustomFormula  string       `db:"quorum_custom_formula" json:"quorum_custom_formula"`
	VotingMajority       MajorityType `db:"voting_majority" json:"voting_majority"`
	VotingMajorityCustom float64      `db:"voting_majority_custom" json:"voting_majority_custom"`
	AllowProxyVoting     bool         `db:"allow_proxy_voting" json:"allow_proxy_voting"`
	AllowSecretBallot    bool         `db:"allow_secret_ballot" json:"allow_secret_ballot"`
	AllowOpenBallot      bool         `db:"allow_open_ballot" json:"allow_open_ballot"`
	// FormulaWarning is set when the custom formula had to be replaced
	// by half plus one. It is cleared when the formula is saved again.
	FormulaWarning     string     `db:"formula_warning" json:"formula_warning"`
	FormulaWarningDate *time.Time `db:"formula_warning_date" json:"formula_warning_date"`
	CompanyID          int64      `db:"company_id" json:"company_id"`
}

// NewMeetingType returns a meeting type with the default values
func NewMeetingType(code, name string) *MeetingType {
	return &MeetingType{
		Code:                 code,
		Name:                 name,
		Sequence:             DefaultSequence,
		Active:               true,
		QuorumType:           QuorumHalfPlusOne,
		QuorumPercentage:     DefaultQuorumPercentage,
		QuorumFixed:          DefaultQuorumFixed,
		VotingMajority:       MajoritySimple,
		VotingMajorityCustom: DefaultVotingMajorityCustom,
		AllowSecretBallot:    true,
		AllowOpenBallot:      true,
	}
}

// Validate checks the fields of the meeting type. It returns a
// ValidationError naming the first offending field.
//
// Custom formulas are compiled and evaluated for a sample roster so that
// syntax errors and boolean results are reported at save time.
func (mt *MeetingType) Validate() error {
	if strings.TrimSpace(mt.Code) == "" {
		return exceptions.NewValidationError("meeting type code is required")
	}
	if strings.TrimSpace(mt.Name) == "" {
		return exceptions.NewValidationError("meeting type name is required")
	}
	if !mt.QuorumType.Valid() {
		return exceptions.NewValidationError("unknown quorum type %q", mt.QuorumType)
	}
	if !mt.VotingMajority.Valid() {
		return exceptions.NewValidationError("unknown voting majority %q", mt.VotingMajority)
	}
	switch mt.QuorumType {
	case QuorumPercentage:
		if mt.QuorumPercentage <= 0 || mt.QuorumPercentage > 100 {
			return exceptions.NewValidationError("quorum percentage must be between 0 and 100, got %g", mt.QuorumPercentage)
		}
	case QuorumFixed:
		if mt.QuorumFixed <= 0 {
			return exceptions.NewValidationError("fixed quorum must be greater than 0, got %d", mt.QuorumFixed)
		}
	case QuorumCustom:
		if err := ValidateFormula(mt.QuorumCustomFormula); err != nil {
			return err
		}
	}
	if mt.VotingMajority == MajorityCustom && (mt.VotingMajorityCustom <= 0 || mt.VotingMajorityCustom > 100) {
		return exceptions.NewValidationError("custom majority percentage must be between 0 and 100, got %g", mt.VotingMajorityCustom)
	}
	if !mt.AllowOpenBallot && !mt.AllowSecretBallot {
		return exceptions.NewValidationError("meeting type %s must allow open or secret ballots", mt.Code)
	}
	return nil
}

// formulaSamples are the roster sizes a custom formula is tried with
// before it is saved.
var formulaSamples = []float64{3, 7, 25}

// ValidateFormula returns a ValidationError if the given custom quorum
// formula cannot be compiled, or if it does not return at least one
// member for each sample roster size.
func ValidateFormula(formula string) error {
	if strings.TrimSpace(formula) == "" {
		return exceptions.NewValidationError("custom quorum formula is required")
	}
	e, err := expr.Compile(formula, FormulaVariable)
	if err != nil {
		return exceptions.NewValidationError("custom quorum formula is invalid: %s", err)
	}
	for _, total := range formulaSamples {
		v, err := e.Eval(map[string]float64{FormulaVariable: total})
		if err != nil {
			return exceptions.NewValidationError("custom quorum formula fails for %g members: %s", total, err)
		}
		if v.IsBool {
			return exceptions.NewValidationError("custom quorum formula must return a number of members, not a comparison (%s for %g members)", v, total)
		}
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) || math.Trunc(v.Num) < 1 {
			return exceptions.NewValidationError("custom quorum formula must return at least one member, got %s for %g members", v, total)
		}
	}
	return nil
}

// AllowsVotingMode returns true if the given voting mode may be used
// with this meeting type.
func (mt *MeetingType) AllowsVotingMode(mode VotingMode) bool {
	switch mode {
	case VotingOpen:
		return mt.AllowOpenBallot
	case VotingSecret:
		return mt.AllowSecretBallot
	}
	return false
}

// PreferredVotingMode returns the voting mode used when none is given:
// open voting if allowed, secret voting otherwise.
func (mt *MeetingType) PreferredVotingMode() VotingMode {
	if mt.AllowOpenBallot {
		return VotingOpen
	}
	return VotingSecret
}
