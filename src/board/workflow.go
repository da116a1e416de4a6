// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// DefaultApprovalDeadline is the time a secretary has to approve a
// submitted resolution
const DefaultApprovalDeadline = 7 * 24 * time.Hour

// stateLabels are the display names of the states
var stateLabels = map[State]string{
	StateDraft:     "Draft",
	StateVoted:     "Voted",
	StateToApprove: "To Approve",
	StateApproved:  "Approved",
	StateArchived:  "Archived",
}

// Label returns the display name of the state
func (s State) Label() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

// Inputs are the explicit facts a transition is evaluated against.
// They must reflect the latest committed state.
type Inputs struct {
	Caller Caller
	// Policy is the meeting type of the resolution
	Policy *MeetingType
	// Roster is the set of eligible board members
	Roster           MemberSet
	Now              time.Time
	ApprovalDeadline time.Duration
}

func (in Inputs) isAdmin() bool {
	return in.Caller != nil && in.Caller.HasCapability(CapabilityAdmin)
}

func (in Inputs) callerName() string {
	if in.Caller == nil {
		return "unknown user"
	}
	return in.Caller.UserName()
}

// An Outcome lists the side effects of a successful transition. They
// are dispatched after the new state is committed and their failure
// never undoes the transition.
type Outcome struct {
	Notes []string
	// Approval is set when a secretary approval task must be scheduled
	Approval          *ApprovalRequest
	CompleteApprovals bool
	CancelApprovals   bool
	// QuorumWarning is set when the custom quorum formula fell back
	QuorumWarning string
}

func (o *Outcome) note(format string, args ...interface{}) {
	o.Notes = append(o.Notes, fmt.Sprintf(format, args...))
}

// checkOverride fails with a PermissionError if the resolution is
// approved and the caller is not an administrator. It returns true if an
// administrator override is taking place.
func (r *Resolution) checkOverride(in Inputs, action string) (bool, error) {
	if !r.IsApproved() {
		return false, nil
	}
	if !in.isAdmin() {
		return false, exceptions.NewPermissionError("cannot %s: resolution %s is %s and only a resolution administrator may change it",
			action, r.Name, strings.ToLower(r.State.Label()))
	}
	return true, nil
}

// ResolutionChanges lists the fields to modify on a resolution. Nil
// fields are left untouched.
type ResolutionChanges struct {
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	Date           *time.Time  `json:"date"`
	ResolutionText *string     `json:"resolution_text"`
	MeetingTypeID  *int64      `json:"meeting_type_id"`
	VotingMode     *VotingMode `json:"voting_mode"`
	ProjectID      *int64      `json:"project_id"`
	TaskID         *int64      `json:"task_id"`
}

// Fields returns the sorted names of the fields set in c
func (c ResolutionChanges) Fields() []string {
	var res []string
	add := func(set bool, name string) {
		if set {
			res = append(res, name)
		}
	}
	add(c.Title != nil, "title")
	add(c.Description != nil, "description")
	add(c.Date != nil, "date")
	add(c.ResolutionText != nil, "resolution_text")
	add(c.MeetingTypeID != nil, "meeting_type_id")
	add(c.VotingMode != nil, "voting_mode")
	add(c.ProjectID != nil, "project_id")
	add(c.TaskID != nil, "task_id")
	sort.Strings(res)
	return res
}

// Update applies the given changes. On an approved or archived resolution
// only an administrator may change fields, and the change is audited.
//
// When the meeting type changes, in.Policy must be the new meeting type.
// Meeting type and voting mode can only change in draft.
func (r *Resolution) Update(c ResolutionChanges, in Inputs) (Outcome, error) {
	var out Outcome
	fields := c.Fields()
	if len(fields) == 0 {
		return out, nil
	}
	override, err := r.checkOverride(in, "modify "+strings.Join(fields, ", "))
	if err != nil {
		return out, err
	}
	title, date := r.Title, r.Date
	if c.Title != nil {
		title = *c.Title
	}
	if c.Date != nil {
		date = *c.Date
	}
	if err := checkBasics(title, date); err != nil {
		return out, err
	}
	if c.ResolutionText != nil {
		if err := checkResolutionText(*c.ResolutionText); err != nil {
			return out, err
		}
	}
	mode := r.VotingMode
	if c.VotingMode != nil {
		mode = *c.VotingMode
	}
	if c.MeetingTypeID != nil || c.VotingMode != nil {
		if r.State != StateDraft {
			return out, exceptions.NewStateError(string(r.State),
				"meeting type and voting mode can only be changed in draft, resolution %s is %s", r.Name, strings.ToLower(r.State.Label()))
		}
		if c.MeetingTypeID != nil {
			if in.Policy == nil || in.Policy.ID != *c.MeetingTypeID {
				return out, exceptions.MissingError{Model: "board.meeting.type", ID: *c.MeetingTypeID}
			}
			if err := checkPolicy(in.Policy); err != nil {
				return out, err
			}
		}
		if in.Policy == nil {
			return out, exceptions.NewValidationError("meeting type is required")
		}
		if err := checkVotingMode(mode, in.Policy); err != nil {
			return out, err
		}
	}

	r.Title = strings.TrimSpace(title)
	r.Date = date
	if c.Description != nil {
		r.Description = *c.Description
	}
	if c.ResolutionText != nil {
		r.ResolutionText = *c.ResolutionText
	}
	if c.MeetingTypeID != nil {
		r.MeetingTypeID = *c.MeetingTypeID
	}
	if c.VotingMode != nil && mode != r.VotingMode {
		// ballot data of the other mode is discarded
		r.VotingMode = mode
		r.Restore(r.present, r.emptyBallot())
	}
	if c.ProjectID != nil {
		r.ProjectID = *c.ProjectID
	}
	if c.TaskID != nil {
		r.TaskID = *c.TaskID
	}
	if override {
		out.note("Administrator override by %s: modified %s on %s resolution.",
			in.callerName(), strings.Join(fields, ", "), strings.ToLower(r.State.Label()))
	}
	return out, nil
}

// SetAttendance replaces the set of present members. Once voted, the new
// attendance must still satisfy the quorum and the recorded ballot.
func (r *Resolution) SetAttendance(ids []int64, in Inputs) (Outcome, error) {
	var out Outcome
	override, err := r.checkOverride(in, "change attendance")
	if err != nil {
		return out, err
	}
	present := NewMemberSet(ids...)
	if len(present) != len(ids) {
		return out, exceptions.NewValidationError("a member cannot be marked present twice")
	}
	if err := checkRoster(present, in.Roster); err != nil {
		return out, err
	}
	if r.IsFrozen() {
		if present.Len() < r.RequiredQuorum {
			return out, quorumError(r.RequiredQuorum, present.Len())
		}
		if err := r.Ballot().CheckComplete(present); err != nil {
			return out, err
		}
	}
	r.present = present
	if override {
		out.note("Administrator override by %s: attendance changed to %d members.", in.callerName(), present.Len())
	}
	return out, nil
}

// RecordBallot replaces the ballot of the resolution. Voters must be
// present. Once voted, the ballot must account for every present member
// and the result is recomputed with the frozen majority rule.
func (r *Resolution) RecordBallot(ballot VoteSnapshot, in Inputs) (Outcome, error) {
	var out Outcome
	override, err := r.checkOverride(in, "change votes")
	if err != nil {
		return out, err
	}
	if ballot.Mode() != r.VotingMode {
		return out, exceptions.NewValidationError("resolution %s uses %s voting, cannot record a %s ballot",
			r.Name, r.VotingMode, ballot.Mode())
	}
	if ballot.Mode() == VotingOpen {
		if err := ballot.CheckVoters(r.present); err != nil {
			return out, err
		}
	}
	if total := ballot.Total(); total > r.PresentCount() {
		return out, exceptions.NewValidationError("total votes (%d) cannot exceed present members (%d)", total, r.PresentCount())
	}
	if r.IsFrozen() {
		if err := ballot.CheckComplete(r.present); err != nil {
			return out, err
		}
	}
	r.Restore(r.present, ballot)
	if r.IsFrozen() {
		r.RequiredMajority = RequiredVotesToPass(r.VotesFor+r.VotesAgainst, r.frozenPolicy())
		r.Result = ClassifyResult(r.VotesFor, r.VotesAgainst, r.frozenPolicy())
	}
	if override {
		out.note("Administrator override by %s: votes changed to %d for, %d against, %d abstentions.",
			in.callerName(), r.VotesFor, r.VotesAgainst, r.VotesAbstain)
	}
	return out, nil
}

// RecordVote moves a draft resolution to voted. The quorum must be met,
// open ballots must hold votes, and the ballot must account for every
// present member exactly once. The roster size, quorum, majority and
// result are frozen.
func (r *Resolution) RecordVote(in Inputs) (Outcome, error) {
	var out Outcome
	if r.State != StateDraft {
		return out, exceptions.NewStateError(string(r.State),
			"only draft resolutions can be voted on, resolution %s is %s", r.Name, strings.ToLower(r.State.Label()))
	}
	total := in.Roster.Len()
	if total == 0 {
		return out, exceptions.NewConfigurationError("no board members are registered: quorum cannot be computed")
	}
	if in.Policy == nil {
		return out, exceptions.NewValidationError("meeting type is required")
	}
	quorum := EvaluateQuorum(total, in.Policy)
	if r.PresentCount() < quorum.Required {
		return out, quorumError(quorum.Required, r.PresentCount())
	}
	ballot := r.Ballot()
	if r.VotingMode == VotingOpen && ballot.Total() == 0 {
		return out, exceptions.NewValidationError("no votes recorded: record the votes before marking the resolution as voted")
	}
	if err := ballot.CheckComplete(r.present); err != nil {
		return out, err
	}
	r.Restore(r.present, ballot)
	r.TotalMembers = total
	r.RequiredQuorum = quorum.Required
	r.FrozenMajority = in.Policy.VotingMajority
	r.FrozenMajorityCustom = in.Policy.VotingMajorityCustom
	r.RequiredMajority = RequiredVotesToPass(r.VotesFor+r.VotesAgainst, r.frozenPolicy())
	r.Result = ClassifyResult(r.VotesFor, r.VotesAgainst, r.frozenPolicy())
	r.State = StateVoted
	if quorum.Fallback {
		out.QuorumWarning = quorum.Warning
		out.note("Warning: %s.", quorum.Warning)
	}
	out.note("Resolution voted on: %d for, %d against, %d abstentions (%s).",
		r.VotesFor, r.VotesAgainst, r.VotesAbstain, r.Result)
	return out, nil
}

// SubmitForApproval moves a voted resolution to to_approve and requests
// an approval task for a secretary.
func (r *Resolution) SubmitForApproval(in Inputs) (Outcome, error) {
	var out Outcome
	if r.State != StateVoted {
		return out, exceptions.NewStateError(string(r.State),
			"resolution %s must be voted on before submitting for approval, it is %s", r.Name, strings.ToLower(r.State.Label()))
	}
	deadline := in.ApprovalDeadline
	if deadline <= 0 {
		deadline = DefaultApprovalDeadline
	}
	r.State = StateToApprove
	out.Approval = &ApprovalRequest{
		Deadline: in.Now.Add(deadline),
		Summary:  "Board resolution approval required",
		Note:     fmt.Sprintf("Please review and approve board resolution: %s", r.Title),
	}
	out.note("Resolution submitted for secretary approval.")
	return out, nil
}

// Approve moves a resolution from to_approve to approved. The caller must
// be a secretary.
func (r *Resolution) Approve(in Inputs) (Outcome, error) {
	var out Outcome
	if in.Caller == nil || !in.Caller.HasCapability(CapabilitySecretary) {
		return out, exceptions.NewPermissionError("only board secretaries can approve resolutions")
	}
	if r.State != StateToApprove {
		return out, exceptions.NewStateError(string(r.State),
			"resolution %s must be in To Approve state to be approved, it is %s", r.Name, strings.ToLower(r.State.Label()))
	}
	now := in.Now
	r.State = StateApproved
	r.ApprovedBy = in.Caller.UserID()
	r.ApprovedDate = &now
	out.CompleteApprovals = true
	out.note("Resolution approved by %s.", in.callerName())
	return out, nil
}

// Archive moves an approved resolution to archived
func (r *Resolution) Archive(in Inputs) (Outcome, error) {
	var out Outcome
	if r.State != StateApproved {
		return out, exceptions.NewStateError(string(r.State),
			"only approved resolutions can be archived, resolution %s is %s", r.Name, strings.ToLower(r.State.Label()))
	}
	r.State = StateArchived
	out.note("Resolution archived.")
	return out, nil
}

// ResetToDraft moves a draft, voted or to_approve resolution back to
// draft, keeping its votes. A pending approval task is cancelled.
// Approved resolutions can only be reset by an administrator, which
// clears the approval. Archived resolutions cannot be reset.
func (r *Resolution) ResetToDraft(in Inputs) (Outcome, error) {
	var out Outcome
	if r.State == StateArchived {
		return out, exceptions.NewStateError(string(r.State), "archived resolution %s cannot be reset to draft", r.Name)
	}
	override, err := r.checkOverride(in, "reset to draft")
	if err != nil {
		return out, err
	}
	out.CancelApprovals = r.State == StateToApprove
	if override {
		out.note("Administrator override by %s: approved resolution reset to draft, approval cleared.", in.callerName())
	}
	r.unfreeze()
	out.note("Resolution reset to draft.")
	return out, nil
}

// AdminReset resets a resolution in any state but archived to draft and
// clears its votes and attendance. The caller must be an administrator.
func (r *Resolution) AdminReset(in Inputs) (Outcome, error) {
	var out Outcome
	if !in.isAdmin() {
		return out, exceptions.NewPermissionError("only resolution administrators can administratively reset resolutions")
	}
	if r.State == StateArchived {
		return out, exceptions.NewStateError(string(r.State), "archived resolution %s cannot be reset to draft", r.Name)
	}
	out.CancelApprovals = r.State == StateToApprove
	previous := r.State
	r.unfreeze()
	r.Restore(make(MemberSet), r.emptyBallot())
	out.note("Resolution administratively reset to draft by %s (was %s): votes and attendance cleared.",
		in.callerName(), strings.ToLower(previous.Label()))
	return out, nil
}

// CheckDeletion returns an error if the caller may not delete the
// resolution. Administrator deletions of approved resolutions return the
// audit note to post before removal.
func (r *Resolution) CheckDeletion(in Inputs) (Outcome, error) {
	var out Outcome
	override, err := r.checkOverride(in, "delete")
	if err != nil {
		return out, err
	}
	if override {
		out.note("Administrator override by %s: %s resolution %s deleted.",
			in.callerName(), strings.ToLower(r.State.Label()), r.Name)
	}
	return out, nil
}

func (r *Resolution) unfreeze() {
	r.State = StateDraft
	r.ApprovedBy = 0
	r.ApprovedDate = nil
	r.TotalMembers = 0
	r.RequiredQuorum = 0
	r.RequiredMajority = 0
	r.FrozenMajority = ""
	r.FrozenMajorityCustom = 0
	r.Result = ResultNone
}

// frozenPolicy returns the majority rule recorded when voting
func (r *Resolution) frozenPolicy() *MeetingType {
	return &MeetingType{
		VotingMajority:       r.FrozenMajority,
		VotingMajorityCustom: r.FrozenMajorityCustom,
	}
}

func quorumError(need, have int) error {
	return exceptions.NewValidationError("quorum not met: need %d, have %d", need, have)
}
