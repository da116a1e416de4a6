// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package workflow

import (
	"context"
	"fmt"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/hexya-addons/boardresolutions/src/tools/htmlutils"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
)

// A transitionFunc applies a lifecycle change to a locked resolution
type transitionFunc func(r *board.Resolution, in board.Inputs) (board.Outcome, error)

// transition loads and locks the resolution, applies fnct with the
// latest committed policy and roster, stores the result and dispatches
// the outcome after commit.
func (e *Engine) transition(ctx context.Context, operation string, uid, id int64, fnct transitionFunc) (*board.Resolution, error) {
	var (
		res *board.Resolution
		out board.Outcome
	)
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		r := resolution(env, id, true)
		in := e.inputs(env, env.Caller(uid), meetingType(env, r.MeetingTypeID), r.CompanyID)
		var err error
		out, err = fnct(r, in)
		if err != nil {
			panic(err)
		}
		env.WriteResolution(r)
		if out.QuorumWarning != "" {
			env.SetFormulaWarning(in.Policy.ID, out.QuorumWarning, env.Now())
			metrics.FormulaFallbacks.WithLabelValues(in.Policy.Code).Inc()
			log.Warn("Custom quorum formula fell back to half plus one", "meetingType", in.Policy.Code,
				"resolution", r.Name, "warning", out.QuorumWarning)
		}
		res = r
	})
	record(operation, err)
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, uid, res, out)
	return res, nil
}

// Resolution returns the resolution with the given id
func (e *Engine) Resolution(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	var res *board.Resolution
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		res = resolution(env, id, false)
	})
	return res, err
}

// SearchResolutions returns the resolutions of the caller's company
// matching f.
func (e *Engine) SearchResolutions(ctx context.Context, uid int64, f models.ResolutionFilter) ([]*board.Resolution, error) {
	var res []*board.Resolution
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		f.CompanyID = companyOf(env)
		res = env.SearchResolutions(f)
	})
	return res, err
}

// CreateResolution creates a draft resolution from vals. The date
// defaults to today and the meeting type to the configured default.
//
// The resolution number is drawn before the creation transaction: a
// failed creation skips a number.
func (e *Engine) CreateResolution(ctx context.Context, uid int64, vals board.ResolutionValues) (*board.Resolution, error) {
	return e.create(ctx, "create", uid, vals, func(r *board.Resolution, in board.Inputs) (board.Outcome, error) {
		var out board.Outcome
		out.Notes = append(out.Notes, "Resolution created.")
		return out, nil
	})
}

// CreateFromWizard validates all steps of w and creates the resolution
// with its attendance and votes. The vote is recorded if every present
// member voted, otherwise the resolution stays in draft.
func (e *Engine) CreateFromWizard(ctx context.Context, uid int64, w *board.Wizard) (*board.Resolution, error) {
	if err := e.ValidateWizard(ctx, uid, w); err != nil {
		record("create_from_wizard", err)
		return nil, err
	}
	return e.create(ctx, "create_from_wizard", uid, w.Values(), func(r *board.Resolution, in board.Inputs) (board.Outcome, error) {
		var out board.Outcome
		out.Notes = append(out.Notes, "Resolution created with the creation wizard.")
		if _, err := r.SetAttendance(w.PresentMembers, in); err != nil {
			return out, err
		}
		ballot, err := w.Ballot()
		if err != nil {
			return out, err
		}
		if _, err := r.RecordBallot(ballot, in); err != nil {
			return out, err
		}
		if w.TotalVotes() == 0 || !w.Complete() {
			return out, nil
		}
		voted, err := r.RecordVote(in)
		if err != nil {
			return out, err
		}
		out.Notes = append(out.Notes, voted.Notes...)
		out.QuorumWarning = voted.QuorumWarning
		return out, nil
	})
}

// create builds a new resolution from vals, applies fnct to it and
// stores it. The resolution text is sanitized first.
func (e *Engine) create(ctx context.Context, operation string, uid int64, vals board.ResolutionValues, fnct transitionFunc) (*board.Resolution, error) {
	if vals.Date.IsZero() {
		vals.Date = e.today()
	}
	vals.ResolutionText = htmlutils.Sanitize(vals.ResolutionText)
	// check before drawing a number
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		if _, err := e.newResolution(env, uid, &vals); err != nil {
			panic(err)
		}
	})
	if err != nil {
		record(operation, err)
		return nil, err
	}
	number, err := e.sequence.NextResolutionNumber(ctx, vals.Date)
	if err != nil {
		record(operation, err)
		return nil, err
	}
	var (
		res *board.Resolution
		out board.Outcome
	)
	err = e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		r, err := e.newResolution(env, uid, &vals)
		if err != nil {
			panic(err)
		}
		r.Name = number
		r.CompanyID = companyOf(env)
		policy := meetingType(env, r.MeetingTypeID)
		in := e.inputs(env, env.Caller(uid), policy, r.CompanyID)
		if out, err = fnct(r, in); err != nil {
			panic(err)
		}
		env.CreateResolution(r)
		if out.QuorumWarning != "" {
			env.SetFormulaWarning(policy.ID, out.QuorumWarning, env.Now())
			metrics.FormulaFallbacks.WithLabelValues(policy.Code).Inc()
		}
		res = r
	})
	record(operation, err)
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, uid, res, out)
	return res, nil
}

// newResolution returns the draft resolution described by vals, setting
// the default meeting type in vals if it has none.
func (e *Engine) newResolution(env models.Environment, uid int64, vals *board.ResolutionValues) (*board.Resolution, error) {
	company := companyOf(env)
	var policy *board.MeetingType
	if vals.MeetingTypeID == 0 {
		mt, ok := env.DefaultMeetingType(company, e.config.DefaultMeetingType)
		if !ok {
			return nil, exceptions.NewConfigurationError("no active meeting type is configured for company %d", company)
		}
		vals.MeetingTypeID = mt.ID
		policy = mt
	} else {
		policy = meetingType(env, vals.MeetingTypeID)
	}
	return board.NewResolution(*vals, e.inputs(env, env.Caller(uid), policy, company))
}

// Update applies the given changes to the resolution. The resolution text
// is sanitized before it is stored.
func (e *Engine) Update(ctx context.Context, uid, id int64, changes board.ResolutionChanges) (*board.Resolution, error) {
	if changes.ResolutionText != nil {
		text := htmlutils.Sanitize(*changes.ResolutionText)
		changes.ResolutionText = &text
	}
	var res *board.Resolution
	var out board.Outcome
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		r := resolution(env, id, true)
		mtID := r.MeetingTypeID
		if changes.MeetingTypeID != nil {
			mtID = *changes.MeetingTypeID
		}
		in := e.inputs(env, env.Caller(uid), meetingType(env, mtID), r.CompanyID)
		var err error
		if out, err = r.Update(changes, in); err != nil {
			panic(err)
		}
		env.WriteResolution(r)
		res = r
	})
	record("update", err)
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, uid, res, out)
	return res, nil
}

// SetAttendance replaces the present members of the resolution
func (e *Engine) SetAttendance(ctx context.Context, uid, id int64, present []int64) (*board.Resolution, error) {
	return e.transition(ctx, "set_attendance", uid, id, func(r *board.Resolution, in board.Inputs) (board.Outcome, error) {
		return r.SetAttendance(present, in)
	})
}

// RecordBallot replaces the ballot of the resolution
func (e *Engine) RecordBallot(ctx context.Context, uid, id int64, ballot board.VoteSnapshot) (*board.Resolution, error) {
	return e.transition(ctx, "record_ballot", uid, id, func(r *board.Resolution, in board.Inputs) (board.Outcome, error) {
		return r.RecordBallot(ballot, in)
	})
}

// RecordVote marks the resolution as voted
func (e *Engine) RecordVote(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "record_vote", uid, id, (*board.Resolution).RecordVote)
}

// SubmitForApproval submits the resolution to the secretaries
func (e *Engine) SubmitForApproval(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "submit", uid, id, (*board.Resolution).SubmitForApproval)
}

// Approve approves the resolution
func (e *Engine) Approve(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "approve", uid, id, (*board.Resolution).Approve)
}

// Archive archives the resolution
func (e *Engine) Archive(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "archive", uid, id, (*board.Resolution).Archive)
}

// ResetToDraft moves the resolution back to draft
func (e *Engine) ResetToDraft(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "reset", uid, id, (*board.Resolution).ResetToDraft)
}

// AdminReset moves the resolution back to draft and clears its votes
func (e *Engine) AdminReset(ctx context.Context, uid, id int64) (*board.Resolution, error) {
	return e.transition(ctx, "admin_reset", uid, id, (*board.Resolution).AdminReset)
}

// Delete removes the resolution. The audit note of an administrator
// deletion is posted before the removal.
func (e *Engine) Delete(ctx context.Context, uid, id int64) error {
	var out board.Outcome
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		r := resolution(env, id, false)
		var err error
		if out, err = r.CheckDeletion(e.inputs(env, env.Caller(uid), nil, r.CompanyID)); err != nil {
			panic(err)
		}
	})
	if err != nil {
		record("delete", err)
		return err
	}
	for _, note := range out.Notes {
		if err := e.audit.PostAuditNote(ctx, id, uid, note); err != nil {
			metrics.SideEffectFailures.WithLabelValues("audit").Inc()
			log.Warn("Unable to post deletion note", "resolution", id, "error", err)
		}
	}
	err = e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		r := resolution(env, id, true)
		if _, err := r.CheckDeletion(e.inputs(env, env.Caller(uid), nil, r.CompanyID)); err != nil {
			panic(err)
		}
		env.DeleteResolution(id)
	})
	record("delete", err)
	return err
}

// Document returns the printable view of the resolution
func (e *Engine) Document(ctx context.Context, uid, id int64) (*board.Document, error) {
	var doc *board.Document
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		r := resolution(env, id, false)
		ids := r.PresentMembers()
		for id := range r.Ballot().Voters() {
			ids[id] = struct{}{}
		}
		doc = board.BuildDocument(r, meetingType(env, r.MeetingTypeID), env.PartnerNames(ids.IDs()))
		// approvers are users, not members
		if r.ApprovedBy != 0 {
			doc.ApprovedBy = fmt.Sprintf("#%d", r.ApprovedBy)
			if name, ok := env.UserName(r.ApprovedBy); ok {
				doc.ApprovedBy = name
			}
		}
	})
	return doc, err
}

// PrintReport renders the resolution document
func (e *Engine) PrintReport(ctx context.Context, uid, id int64) ([]byte, error) {
	doc, err := e.Document(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	return e.renderer.RenderResolutionDocument(doc)
}

// MemberStatistics returns the resolution counters of a board member
func (e *Engine) MemberStatistics(ctx context.Context, uid, partnerID int64) (models.MemberStatistics, error) {
	var res models.MemberStatistics
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		if p := env.Partner(partnerID); p.CompanyID != companyOf(env) {
			panic(exceptions.MissingError{Model: "res.partner", ID: partnerID})
		}
		res = env.MemberStatistics(partnerID)
	})
	return res, err
}
