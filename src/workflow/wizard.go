// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package workflow

import (
	"context"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
)

// NewWizard returns a creation wizard dated today with the default
// meeting type.
func (e *Engine) NewWizard(ctx context.Context, uid int64) (*board.Wizard, error) {
	w := board.NewWizard(e.today())
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		if mt, ok := env.DefaultMeetingType(companyOf(env), e.config.DefaultMeetingType); ok {
			w.MeetingTypeID = mt.ID
			w.VotingMode = mt.PreferredVotingMode()
		}
	})
	return w, err
}

// wizardInputs returns the inputs to validate w against. The default
// meeting type is set on w if it has none.
func (e *Engine) wizardInputs(ctx context.Context, uid int64, w *board.Wizard) (board.Inputs, error) {
	var in board.Inputs
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		company := companyOf(env)
		var policy *board.MeetingType
		if w.MeetingTypeID != 0 {
			policy = meetingType(env, w.MeetingTypeID)
		} else if mt, ok := env.DefaultMeetingType(company, e.config.DefaultMeetingType); ok {
			policy = mt
			w.MeetingTypeID = mt.ID
		}
		in = e.inputs(env, env.Caller(uid), policy, company)
	})
	return in, err
}

// WizardNext validates the current step of w and moves to the next one
func (e *Engine) WizardNext(ctx context.Context, uid int64, w *board.Wizard) error {
	in, err := e.wizardInputs(ctx, uid, w)
	if err != nil {
		return err
	}
	return w.Next(in)
}

// ValidateWizard validates all steps of w
func (e *Engine) ValidateWizard(ctx context.Context, uid int64, w *board.Wizard) error {
	in, err := e.wizardInputs(ctx, uid, w)
	if err != nil {
		return err
	}
	return w.ValidateAll(in)
}
