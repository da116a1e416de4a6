// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"sort"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// A VotingMode tells whether individual votes are recorded
type VotingMode string

// Available voting modes
const (
	VotingOpen   VotingMode = "open"
	VotingSecret VotingMode = "secret"
)

// Valid returns true if vm is a known voting mode
func (vm VotingMode) Valid() bool {
	return vm == VotingOpen || vm == VotingSecret
}

// A Choice is the vote of a member in an open ballot
type Choice string

// Available choices
const (
	ChoiceFor     Choice = "for"
	ChoiceAgainst Choice = "against"
	ChoiceAbstain Choice = "abstain"
)

// Choices lists all choices in display order
var Choices = []Choice{ChoiceFor, ChoiceAgainst, ChoiceAbstain}

// A MemberSet is a set of member (partner) ids
type MemberSet map[int64]struct{}

// NewMemberSet returns a set holding the given ids
func NewMemberSet(ids ...int64) MemberSet {
	ms := make(MemberSet, len(ids))
	for _, id := range ids {
		ms[id] = struct{}{}
	}
	return ms
}

// Contains returns true if id is in the set
func (ms MemberSet) Contains(id int64) bool {
	_, ok := ms[id]
	return ok
}

// Len returns the number of members in the set
func (ms MemberSet) Len() int {
	return len(ms)
}

// IDs returns the sorted ids of the set
func (ms MemberSet) IDs() []int64 {
	res := make([]int64, 0, len(ms))
	for id := range ms {
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Equals returns true if both sets hold the same ids
func (ms MemberSet) Equals(other MemberSet) bool {
	if len(ms) != len(other) {
		return false
	}
	for id := range ms {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// A VoteSnapshot is an immutable record of a ballot.
//
// For open ballots it holds which member voted what, each member in at
// most one bucket. For secret ballots it holds counts only.
type VoteSnapshot struct {
	mode    VotingMode
	members map[Choice][]int64
	counts  map[Choice]int
}

// OpenBallot returns an empty open ballot
func OpenBallot() VoteSnapshot {
	return VoteSnapshot{mode: VotingOpen}
}

// NewSecretBallot returns a secret ballot with the given counts
func NewSecretBallot(votesFor, votesAgainst, votesAbstain int) (VoteSnapshot, error) {
	if votesFor < 0 || votesAgainst < 0 || votesAbstain < 0 {
		return VoteSnapshot{}, exceptions.NewValidationError("vote counts cannot be negative")
	}
	return VoteSnapshot{
		mode: VotingSecret,
		counts: map[Choice]int{
			ChoiceFor:     votesFor,
			ChoiceAgainst: votesAgainst,
			ChoiceAbstain: votesAbstain,
		},
	}, nil
}

// NewOpenBallot returns an open ballot with the given member sets
func NewOpenBallot(votesFor, votesAgainst, votesAbstain []int64) (VoteSnapshot, error) {
	s, err := OpenBallot().SetVotesFor(votesFor...)
	if err != nil {
		return VoteSnapshot{}, err
	}
	if s, err = s.SetVotesAgainst(votesAgainst...); err != nil {
		return VoteSnapshot{}, err
	}
	return s.SetVotesAbstain(votesAbstain...)
}

// Mode returns the voting mode of the ballot
func (s VoteSnapshot) Mode() VotingMode {
	if s.mode == "" {
		return VotingOpen
	}
	return s.mode
}

// SetVotesFor returns a copy of this open ballot where exactly the given
// members voted for the motion.
func (s VoteSnapshot) SetVotesFor(ids ...int64) (VoteSnapshot, error) {
	return s.set(ChoiceFor, ids)
}

// SetVotesAgainst returns a copy of this open ballot where exactly the
// given members voted against the motion.
func (s VoteSnapshot) SetVotesAgainst(ids ...int64) (VoteSnapshot, error) {
	return s.set(ChoiceAgainst, ids)
}

// SetVotesAbstain returns a copy of this open ballot where exactly the
// given members abstained.
func (s VoteSnapshot) SetVotesAbstain(ids ...int64) (VoteSnapshot, error) {
	return s.set(ChoiceAbstain, ids)
}

func (s VoteSnapshot) set(choice Choice, ids []int64) (VoteSnapshot, error) {
	if s.Mode() != VotingOpen {
		return VoteSnapshot{}, exceptions.NewValidationError("individual votes cannot be recorded in a secret ballot")
	}
	seen := make(MemberSet, len(ids))
	for _, id := range ids {
		if seen.Contains(id) {
			return VoteSnapshot{}, exceptions.NewValidationError("member %d is listed twice as voting %s", id, choice)
		}
		seen[id] = struct{}{}
		if other, ok := s.Choice(id); ok && other != choice {
			return VoteSnapshot{}, exceptions.NewValidationError("members cannot vote multiple ways: member %d already voted %s", id, other)
		}
	}
	res := VoteSnapshot{
		mode:    VotingOpen,
		members: make(map[Choice][]int64, len(Choices)),
	}
	for c, members := range s.members {
		res.members[c] = members
	}
	res.members[choice] = seen.IDs()
	return res, nil
}

// Choice returns the vote of the given member in an open ballot
func (s VoteSnapshot) Choice(id int64) (Choice, bool) {
	for _, c := range Choices {
		for _, m := range s.members[c] {
			if m == id {
				return c, true
			}
		}
	}
	return "", false
}

// Members returns the sorted ids of the members who made the given
// choice. It is empty for secret ballots.
func (s VoteSnapshot) Members(choice Choice) []int64 {
	res := make([]int64, len(s.members[choice]))
	copy(res, s.members[choice])
	return res
}

// Voters returns the set of all members who voted in an open ballot
func (s VoteSnapshot) Voters() MemberSet {
	res := make(MemberSet)
	for _, members := range s.members {
		for _, m := range members {
			res[m] = struct{}{}
		}
	}
	return res
}

// Count returns the number of votes for the given choice
func (s VoteSnapshot) Count(choice Choice) int {
	if s.Mode() == VotingSecret {
		return s.counts[choice]
	}
	return len(s.members[choice])
}

// Counts returns the for, against and abstain counts
func (s VoteSnapshot) Counts() (int, int, int) {
	return s.Count(ChoiceFor), s.Count(ChoiceAgainst), s.Count(ChoiceAbstain)
}

// Total returns the number of votes of all kinds, abstentions included
func (s VoteSnapshot) Total() int {
	f, a, ab := s.Counts()
	return f + a + ab
}

// CheckVoters returns a ValidationError if a voter of this open ballot
// is not present.
func (s VoteSnapshot) CheckVoters(present MemberSet) error {
	for _, id := range s.Voters().IDs() {
		if !present.Contains(id) {
			return exceptions.NewValidationError("only present members can vote: member %d is not present", id)
		}
	}
	return nil
}

// CheckComplete returns a ValidationError unless the ballot accounts for
// every present member exactly once.
func (s VoteSnapshot) CheckComplete(present MemberSet) error {
	if total := s.Total(); total != present.Len() {
		return exceptions.NewValidationError("vote count mismatch: %d votes recorded for %d present members", total, present.Len())
	}
	if s.Mode() == VotingSecret {
		return nil
	}
	if err := s.CheckVoters(present); err != nil {
		return err
	}
	voters := s.Voters()
	for _, id := range present.IDs() {
		if !voters.Contains(id) {
			return exceptions.NewValidationError("all present members must vote: member %d did not vote", id)
		}
	}
	return nil
}
