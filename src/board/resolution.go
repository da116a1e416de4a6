// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// A State is a step of the resolution lifecycle
type State string

// Resolution states
const (
	StateDraft     State = "draft"
	StateVoted     State = "voted"
	StateToApprove State = "to_approve"
	StateApproved  State = "approved"
	StateArchived  State = "archived"
)

// Valid returns true if s is a known state
func (s State) Valid() bool {
	switch s {
	case StateDraft, StateVoted, StateToApprove, StateApproved, StateArchived:
		return true
	}
	return false
}

// emptyHTML is what rich text editors send for an empty body
const emptyHTML = "<p><br></p>"

// A Resolution is one numbered decision of the board.
//
// Fields are read from and written to storage as is. Lifecycle changes
// must go through the transition methods, which check all guards before
// mutating anything.
type Resolution struct {
	ID             int64      `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Date           time.Time  `db:"date" json:"date"`
	ResolutionText string     `db:"resolution_text" json:"resolution_text"`
	MeetingTypeID  int64      `db:"meeting_type_id" json:"meeting_type_id"`
	VotingMode     VotingMode `db:"voting_mode" json:"voting_mode"`
	VotesFor       int        `db:"votes_for" json:"votes_for"`
	VotesAgainst   int        `db:"votes_against" json:"votes_against"`
	VotesAbstain   int        `db:"votes_abstain" json:"votes_abstain"`
	State          State      `db:"state" json:"state"`
	ApprovedBy     int64      `db:"approved_by" json:"approved_by"`
	ApprovedDate   *time.Time `db:"approved_date" json:"approved_date"`
	ProjectID      int64      `db:"project_id" json:"project_id"`
	TaskID         int64      `db:"task_id" json:"task_id"`
	CompanyID      int64      `db:"company_id" json:"company_id"`
	// Snapshot frozen when the vote is recorded
	TotalMembers     int    `db:"total_members" json:"total_members"`
	RequiredQuorum   int    `db:"required_quorum" json:"required_quorum"`
	RequiredMajority int    `db:"required_majority" json:"required_majority"`
	Result           Result `db:"result" json:"result"`
	// Majority rule of the meeting type when the vote was recorded
	FrozenMajority       MajorityType `db:"frozen_majority" json:"frozen_majority"`
	FrozenMajorityCustom float64      `db:"frozen_majority_custom" json:"frozen_majority_custom"`

	CreateDate time.Time `db:"create_date" json:"create_date"`
	WriteDate  time.Time `db:"write_date" json:"write_date"`

	present MemberSet
	ballot  VoteSnapshot
}

// ResolutionValues are the user supplied fields of a new resolution
type ResolutionValues struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Date           time.Time  `json:"date"`
	ResolutionText string     `json:"resolution_text"`
	MeetingTypeID  int64      `json:"meeting_type_id"`
	VotingMode     VotingMode `json:"voting_mode"`
	ProjectID      int64      `json:"project_id"`
	TaskID         int64      `json:"task_id"`
}

// NewResolution returns a draft resolution after checking the given
// values against the policy and roster of in. The resolution number is
// assigned by the caller.
func NewResolution(vals ResolutionValues, in Inputs) (*Resolution, error) {
	if err := checkBasics(vals.Title, vals.Date); err != nil {
		return nil, err
	}
	if err := checkResolutionText(vals.ResolutionText); err != nil {
		return nil, err
	}
	if err := checkPolicy(in.Policy); err != nil {
		return nil, err
	}
	if in.Roster.Len() == 0 {
		return nil, exceptions.NewConfigurationError("no board members are registered: a resolution cannot be created without an eligible roster")
	}
	mode := vals.VotingMode
	if mode == "" {
		mode = in.Policy.PreferredVotingMode()
	}
	if err := checkVotingMode(mode, in.Policy); err != nil {
		return nil, err
	}
	r := &Resolution{
		Title:          strings.TrimSpace(vals.Title),
		Description:    vals.Description,
		Date:           vals.Date,
		ResolutionText: vals.ResolutionText,
		MeetingTypeID:  in.Policy.ID,
		VotingMode:     mode,
		State:          StateDraft,
		ProjectID:      vals.ProjectID,
		TaskID:         vals.TaskID,
		present:        make(MemberSet),
	}
	r.ballot = r.emptyBallot()
	return r, nil
}

// Restore sets the attendance and ballot of a resolution read from
// storage. It does not check any invariant.
func (r *Resolution) Restore(present MemberSet, ballot VoteSnapshot) {
	r.present = present
	r.ballot = ballot
	r.VotesFor, r.VotesAgainst, r.VotesAbstain = ballot.Counts()
}

// PresentMembers returns the set of present members
func (r *Resolution) PresentMembers() MemberSet {
	res := make(MemberSet, len(r.present))
	for id := range r.present {
		res[id] = struct{}{}
	}
	return res
}

// PresentCount returns the number of present members
func (r *Resolution) PresentCount() int {
	return len(r.present)
}

// Ballot returns the current ballot
func (r *Resolution) Ballot() VoteSnapshot {
	if r.ballot.Mode() != r.VotingMode {
		return r.emptyBallot()
	}
	return r.ballot
}

// TotalVotes returns the number of votes of all kinds
func (r *Resolution) TotalVotes() int {
	return r.VotesFor + r.VotesAgainst + r.VotesAbstain
}

// IsApproved returns true once the resolution has been approved
func (r *Resolution) IsApproved() bool {
	return r.State == StateApproved || r.State == StateArchived
}

// CanEdit returns true if the resolution may be edited without override
func (r *Resolution) CanEdit() bool {
	return (r.State == StateDraft || r.State == StateVoted) && !r.IsApproved()
}

// IsFrozen returns true if the vote snapshot has been recorded
func (r *Resolution) IsFrozen() bool {
	return r.State != StateDraft
}

// QuorumMet returns true if the present members reach the quorum. In
// draft it is computed live from the policy and roster of in, afterwards
// from the frozen snapshot.
func (r *Resolution) QuorumMet(in Inputs) bool {
	if r.IsFrozen() {
		return r.TotalMembers > 0 && r.PresentCount() >= r.RequiredQuorum
	}
	return QuorumMet(r.PresentCount(), in.Roster.Len(), in.Policy)
}

// CurrentResult returns the result of the vote: the frozen one once
// voted, the live one computed with policy in draft.
func (r *Resolution) CurrentResult(policy *MeetingType) Result {
	if r.IsFrozen() {
		return r.Result
	}
	if r.TotalVotes() == 0 {
		return ResultNone
	}
	return ClassifyResult(r.VotesFor, r.VotesAgainst, policy)
}

func (r *Resolution) emptyBallot() VoteSnapshot {
	if r.VotingMode == VotingSecret {
		s, _ := NewSecretBallot(0, 0, 0)
		return s
	}
	return OpenBallot()
}

// String returns the resolution number and title
func (r *Resolution) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Title)
}

func checkBasics(title string, date time.Time) error {
	if strings.TrimSpace(title) == "" {
		return exceptions.NewValidationError("title is required")
	}
	if date.IsZero() {
		return exceptions.NewValidationError("date is required")
	}
	return nil
}

func checkResolutionText(text string) error {
	t := strings.TrimSpace(text)
	if t == "" || t == emptyHTML {
		return exceptions.NewValidationError("resolution text is required")
	}
	return nil
}

func checkPolicy(policy *MeetingType) error {
	if policy == nil {
		return exceptions.NewValidationError("meeting type is required")
	}
	if !policy.Active {
		return exceptions.NewValidationError("meeting type %s is inactive", policy.Name)
	}
	return nil
}

func checkVotingMode(mode VotingMode, policy *MeetingType) error {
	if !mode.Valid() {
		return exceptions.NewValidationError("unknown voting mode %q", mode)
	}
	if !policy.AllowsVotingMode(mode) {
		return exceptions.NewValidationError("%s voting is not allowed for meeting type %s", mode, policy.Name)
	}
	return nil
}

func checkRoster(ids MemberSet, roster MemberSet) error {
	for _, id := range ids.IDs() {
		if !roster.Contains(id) {
			return exceptions.NewValidationError("member %d is not a board member", id)
		}
	}
	return nil
}
