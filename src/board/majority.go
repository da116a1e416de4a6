// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"github.com/hexya-addons/boardresolutions/src/tools/nbutils"
)

// A Result is the outcome of a vote
type Result string

// Possible results of a vote. ResultNone is used before voting.
const (
	ResultNone     Result = ""
	ResultPassed   Result = "passed"
	ResultRejected Result = "rejected"
	ResultTie      Result = "tie"
)

// RequiredVotesToPass returns the number of "for" votes needed to pass a
// motion for the given number of cast votes. Nothing passes with zero
// cast votes, so the result is at least 1. A nil policy means simple
// majority.
func RequiredVotesToPass(votesCast int, policy *MeetingType) int {
	if votesCast <= 0 {
		return 1
	}
	cast := int64(votesCast)
	majority := MajoritySimple
	if policy != nil {
		majority = policy.VotingMajority
	}
	switch majority {
	case MajorityTwoThirds:
		return int(nbutils.MaxInt64(1, nbutils.Fraction(cast, 2, 3)))
	case MajorityThreeQuarters:
		return int(nbutils.MaxInt64(1, nbutils.Fraction(cast, 3, 4)))
	case MajorityUnanimous:
		return votesCast
	case MajorityCustom:
		if policy.VotingMajorityCustom <= 0 {
			return votesCast/2 + 1
		}
		return int(nbutils.MaxInt64(1, nbutils.Fraction(cast, policy.VotingMajorityCustom, 100)))
	default:
		return votesCast/2 + 1
	}
}

// ClassifyResult returns the result of a vote. Abstentions are not cast
// votes.
//
// The motion passes if votesFor reaches the required majority. Otherwise
// it is a tie if votesFor equals votesAgainst and rejected in all other
// cases, i.e. when votesAgainst exceeds the share the motion could lose
// while still passing.
func ClassifyResult(votesFor, votesAgainst int, policy *MeetingType) Result {
	cast := votesFor + votesAgainst
	need := RequiredVotesToPass(cast, policy)
	switch {
	case votesFor >= need:
		return ResultPassed
	case votesFor == votesAgainst:
		return ResultTie
	default:
		return ResultRejected
	}
}
