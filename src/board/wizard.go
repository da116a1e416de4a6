// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"time"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// A WizardStep is a page of the resolution creation wizard
type WizardStep string

// Wizard steps in order
const (
	StepBasic        WizardStep = "basic"
	StepAttendance   WizardStep = "attendance"
	StepResolution   WizardStep = "resolution"
	StepVoting       WizardStep = "voting"
	StepConfirmation WizardStep = "confirmation"
)

var wizardSteps = []WizardStep{StepBasic, StepAttendance, StepResolution, StepVoting, StepConfirmation}

func (s WizardStep) index() int {
	for i, step := range wizardSteps {
		if step == s {
			return i
		}
	}
	return 0
}

// A Wizard collects the data of a new resolution step by step. Its
// state is held by the client between calls.
type Wizard struct {
	Step          WizardStep `json:"step"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	ProjectID     int64      `json:"project_id"`
	TaskID        int64      `json:"task_id"`
	MeetingTypeID int64      `json:"meeting_type_id"`

	PresentMembers []int64 `json:"present_members"`

	ResolutionText string `json:"resolution_text"`

	VotingMode VotingMode `json:"voting_mode"`
	// secret voting
	VotesFor     int `json:"votes_for"`
	VotesAgainst int `json:"votes_against"`
	VotesAbstain int `json:"votes_abstain"`
	// open voting
	VotesForMembers     []int64 `json:"votes_for_members"`
	VotesAgainstMembers []int64 `json:"votes_against_members"`
	VotesAbstainMembers []int64 `json:"votes_abstain_members"`
}

// NewWizard returns a wizard on its first step, dated today
func NewWizard(today time.Time) *Wizard {
	return &Wizard{
		Step:       StepBasic,
		Date:       today,
		VotingMode: VotingOpen,
	}
}

// Next validates the current step and moves to the following one.
// On the confirmation step it does nothing.
func (w *Wizard) Next(in Inputs) error {
	if err := w.validateStep(w.Step, in); err != nil {
		return err
	}
	if i := w.Step.index(); i < len(wizardSteps)-1 {
		w.Step = wizardSteps[i+1]
	}
	return nil
}

// Previous moves back to the previous step without validation
func (w *Wizard) Previous() {
	if i := w.Step.index(); i > 0 {
		w.Step = wizardSteps[i-1]
	}
}

// SetVotingMode changes the voting mode and clears the votes of the
// other mode.
func (w *Wizard) SetVotingMode(mode VotingMode) {
	w.VotingMode = mode
	if mode == VotingSecret {
		w.VotesForMembers, w.VotesAgainstMembers, w.VotesAbstainMembers = nil, nil, nil
		return
	}
	w.VotesFor, w.VotesAgainst, w.VotesAbstain = 0, 0, 0
}

// ValidateAll validates all steps before creating the resolution
func (w *Wizard) ValidateAll(in Inputs) error {
	for _, step := range wizardSteps[:len(wizardSteps)-1] {
		if err := w.validateStep(step, in); err != nil {
			return err
		}
	}
	return nil
}

// Ballot returns the ballot described by the wizard
func (w *Wizard) Ballot() (VoteSnapshot, error) {
	if w.VotingMode == VotingSecret {
		return NewSecretBallot(w.VotesFor, w.VotesAgainst, w.VotesAbstain)
	}
	return NewOpenBallot(w.VotesForMembers, w.VotesAgainstMembers, w.VotesAbstainMembers)
}

// TotalVotes returns the number of votes recorded in the wizard
func (w *Wizard) TotalVotes() int {
	if w.VotingMode == VotingSecret {
		return w.VotesFor + w.VotesAgainst + w.VotesAbstain
	}
	return len(w.VotesForMembers) + len(w.VotesAgainstMembers) + len(w.VotesAbstainMembers)
}

// Complete returns true if every present member voted
func (w *Wizard) Complete() bool {
	return w.TotalVotes() == len(w.PresentMembers)
}

// Result returns the live result of the recorded votes
func (w *Wizard) Result(policy *MeetingType) Result {
	if w.TotalVotes() == 0 {
		return ResultNone
	}
	if w.VotingMode == VotingSecret {
		return ClassifyResult(w.VotesFor, w.VotesAgainst, policy)
	}
	return ClassifyResult(len(w.VotesForMembers), len(w.VotesAgainstMembers), policy)
}

// Values returns the values of the resolution to create
func (w *Wizard) Values() ResolutionValues {
	return ResolutionValues{
		Title:          w.Title,
		Description:    w.Description,
		Date:           w.Date,
		ResolutionText: w.ResolutionText,
		MeetingTypeID:  w.MeetingTypeID,
		VotingMode:     w.VotingMode,
		ProjectID:      w.ProjectID,
		TaskID:         w.TaskID,
	}
}

func (w *Wizard) validateStep(step WizardStep, in Inputs) error {
	switch step {
	case StepBasic:
		return checkBasics(w.Title, w.Date)
	case StepAttendance:
		return w.validateAttendance(in)
	case StepResolution:
		return checkResolutionText(w.ResolutionText)
	case StepVoting:
		return w.validateVoting(in)
	}
	return nil
}

func (w *Wizard) validateAttendance(in Inputs) error {
	if len(w.PresentMembers) == 0 {
		return exceptions.NewValidationError("at least one board member must be present")
	}
	if in.Roster.Len() == 0 {
		return exceptions.NewConfigurationError("no board members are registered: quorum cannot be computed")
	}
	present := NewMemberSet(w.PresentMembers...)
	if err := checkRoster(present, in.Roster); err != nil {
		return err
	}
	if need := RequiredQuorum(in.Roster.Len(), in.Policy); present.Len() < need {
		return quorumError(need, present.Len())
	}
	return nil
}

func (w *Wizard) validateVoting(in Inputs) error {
	if in.Policy != nil {
		if err := checkVotingMode(w.VotingMode, in.Policy); err != nil {
			return err
		}
	}
	present := NewMemberSet(w.PresentMembers...)
	if w.VotingMode == VotingSecret {
		total := w.TotalVotes()
		if total > present.Len() {
			return exceptions.NewValidationError("total votes (%d) cannot exceed present members (%d)", total, present.Len())
		}
		if total == 0 {
			return exceptions.NewValidationError("please record at least one vote")
		}
		_, err := w.Ballot()
		return err
	}
	ballot, err := w.Ballot()
	if err != nil {
		return err
	}
	// an incomplete open ballot is allowed, the resolution then stays in draft
	return ballot.CheckVoters(present)
}
