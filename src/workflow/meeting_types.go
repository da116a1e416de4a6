// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package workflow

import (
	"context"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// checkManager panics with a PermissionError if the caller may not
// manage meeting types.
func checkManager(env models.Environment) {
	if !env.Caller(env.Uid()).HasCapability(board.CapabilitySecretary) {
		panic(exceptions.NewPermissionError("only board secretaries can manage meeting types"))
	}
}

// MeetingTypes returns the meeting types of the caller's company. If all
// is false, inactive types are omitted.
func (e *Engine) MeetingTypes(ctx context.Context, uid int64, all bool) ([]*board.MeetingType, error) {
	var res []*board.MeetingType
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		res = env.SearchMeetingTypes(companyOf(env), all)
	})
	return res, err
}

// MeetingType returns the meeting type with the given id
func (e *Engine) MeetingType(ctx context.Context, uid, id int64) (*board.MeetingType, error) {
	var res *board.MeetingType
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		res = meetingType(env, id)
	})
	return res, err
}

// CreateMeetingType validates and stores a new meeting type for the
// caller's company.
func (e *Engine) CreateMeetingType(ctx context.Context, uid int64, mt *board.MeetingType) (*board.MeetingType, error) {
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkManager(env)
		mt.ID = 0
		mt.CompanyID = companyOf(env)
		env.CreateMeetingType(mt)
	})
	record("create_meeting_type", err)
	if err != nil {
		return nil, err
	}
	return mt, nil
}

// UpdateMeetingType replaces the meeting type with the given id by mt.
// Resolutions already voted keep their frozen quorum and majority.
func (e *Engine) UpdateMeetingType(ctx context.Context, uid, id int64, mt *board.MeetingType) (*board.MeetingType, error) {
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkManager(env)
		old := meetingType(env, id)
		mt.ID = id
		mt.CompanyID = old.CompanyID
		env.WriteMeetingType(mt)
	})
	record("update_meeting_type", err)
	if err != nil {
		return nil, err
	}
	return mt, nil
}

// DeactivateMeetingType hides the meeting type from new resolutions
func (e *Engine) DeactivateMeetingType(ctx context.Context, uid, id int64) (*board.MeetingType, error) {
	var res *board.MeetingType
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkManager(env)
		res = meetingType(env, id)
		res.Active = false
		env.WriteMeetingType(res)
	})
	record("deactivate_meeting_type", err)
	return res, err
}

// DeleteMeetingType removes a meeting type that no resolution uses
func (e *Engine) DeleteMeetingType(ctx context.Context, uid, id int64) error {
	err := e.db.ExecuteInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkManager(env)
		mt := meetingType(env, id)
		if env.MeetingTypeInUse(id) {
			panic(exceptions.NewValidationError("meeting type %s is used by resolutions: deactivate it instead", mt.Name))
		}
		env.DeleteMeetingType(id)
	})
	record("delete_meeting_type", err)
	return err
}

// A Preview shows what a meeting type requires for a given meeting
type Preview struct {
	TotalMembers   int    `json:"total_members"`
	RequiredQuorum int    `json:"required_quorum"`
	VotesCast      int    `json:"votes_cast"`
	RequiredVotes  int    `json:"required_votes"`
	QuorumRule     string `json:"quorum_rule"`
	MajorityRule   string `json:"majority_rule"`
	Fallback       bool   `json:"fallback"`
	Warning        string `json:"warning,omitempty"`
}

// PreviewMeetingType computes the quorum for total members and the
// votes needed to pass for cast votes. A zero total uses the current
// roster size, a zero cast uses the quorum.
func (e *Engine) PreviewMeetingType(ctx context.Context, uid, id int64, total, cast int) (*Preview, error) {
	var mt *board.MeetingType
	err := e.db.SimulateInNewEnvironment(ctx, uid, func(env models.Environment) {
		checkMember(env)
		mt = meetingType(env, id)
	})
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		roster, err := e.directory.BoardMembers(ctx, mt.CompanyID)
		if err != nil {
			return nil, err
		}
		total = roster.Len()
	}
	return NewPreview(mt, total, cast), nil
}

// NewPreview returns the preview of mt for the given meeting size
func NewPreview(mt *board.MeetingType, total, cast int) *Preview {
	quorum := board.EvaluateQuorum(total, mt)
	if cast <= 0 {
		cast = quorum.Required
	}
	return &Preview{
		TotalMembers:   total,
		RequiredQuorum: quorum.Required,
		VotesCast:      cast,
		RequiredVotes:  board.RequiredVotesToPass(cast, mt),
		QuorumRule:     board.DescribeQuorum(mt),
		MajorityRule:   board.DescribeMajority(mt),
		Fallback:       quorum.Fallback,
		Warning:        quorum.Warning,
	}
}
