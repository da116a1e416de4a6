// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package workflow drives the resolution lifecycle against the database.
//
// Each operation loads the latest committed state in a transaction,
// locks the resolution, applies the transition and commits. The side
// effects listed in the transition outcome (audit notes and approval
// tasks) are dispatched after commit and their failure is only logged.
package workflow

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/reports"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
	"github.com/pkg/errors"
)

var log logging.Logger

// Config holds the settings of an Engine
type Config struct {
	// DefaultMeetingType is the code of the meeting type of new
	// resolutions. The first active type is used if empty or not found.
	DefaultMeetingType string
	// ApprovalDeadline is the time given to secretaries to approve
	ApprovalDeadline time.Duration
	// SequencePrefix is the prefix of resolution numbers
	SequencePrefix string
	// Debug dumps transition outcomes in the logs
	Debug bool
}

// An Engine runs board operations on a database
type Engine struct {
	db        *models.Database
	config    Config
	directory board.MemberDirectory
	sequence  board.SequenceGenerator
	audit     board.AuditSink
	tasks     board.TaskScheduler
	renderer  board.ReportRenderer
	clock     func() time.Time
}

// An Option changes a collaborator of an Engine
type Option func(*Engine)

// WithClock sets the clock of the engine
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithAuditSink sets where audit notes are posted
func WithAuditSink(audit board.AuditSink) Option {
	return func(e *Engine) {
		e.audit = audit
	}
}

// WithTaskScheduler sets where approval tasks are scheduled
func WithTaskScheduler(tasks board.TaskScheduler) Option {
	return func(e *Engine) {
		e.tasks = tasks
	}
}

// WithSequence sets the resolution number generator
func WithSequence(seq board.SequenceGenerator) Option {
	return func(e *Engine) {
		e.sequence = seq
	}
}

// WithRenderer sets the renderer of printed resolutions
func WithRenderer(renderer board.ReportRenderer) Option {
	return func(e *Engine) {
		e.renderer = renderer
	}
}

// NewEngine returns an Engine working on d. Collaborators default to
// their database implementations and the HTML resolution document.
func NewEngine(d *models.Database, cfg Config, opts ...Option) *Engine {
	if cfg.ApprovalDeadline <= 0 {
		cfg.ApprovalDeadline = board.DefaultApprovalDeadline
	}
	e := &Engine{
		db:        d,
		config:    cfg,
		directory: models.NewDirectory(d),
		sequence:  models.NewResolutionSequence(d, cfg.SequencePrefix),
		audit:     models.NewAuditLog(d),
		tasks:     models.NewApprovalScheduler(d),
		renderer:  reports.NewRenderer(reports.ResolutionDocumentID),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Database returns the database of the engine
func (e *Engine) Database() *models.Database {
	return e.db
}

// now returns the current time in UTC truncated to the second
func (e *Engine) now() time.Time {
	return e.clock().UTC().Truncate(time.Second)
}

// today returns the current date at midnight UTC
func (e *Engine) today() time.Time {
	y, m, d := e.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inputs returns the transition inputs for the given policy and company
// read in env.
func (e *Engine) inputs(env models.Environment, caller board.Caller, policy *board.MeetingType, companyID int64) board.Inputs {
	return board.Inputs{
		Caller:           caller,
		Policy:           policy,
		Roster:           env.BoardMembers(companyID),
		Now:              e.now(),
		ApprovalDeadline: e.config.ApprovalDeadline,
	}
}

// companyOf returns the company of the caller
func companyOf(env models.Environment) int64 {
	if c := env.Caller(env.Uid()); c.CompanyID != 0 {
		return c.CompanyID
	}
	return models.DefaultCompanyID
}

// checkMember panics with a PermissionError if the caller is not a board
// member.
func checkMember(env models.Environment) {
	if !env.Caller(env.Uid()).HasCapability(board.CapabilityMember) {
		panic(exceptions.NewPermissionError("only board members can access board resolutions"))
	}
}

// resolution returns the resolution with the given id of the caller's
// company. Resolutions of other companies are reported as missing.
func resolution(env models.Environment, id int64, lock bool) *board.Resolution {
	return env.CompanyResolution(companyOf(env), id, lock)
}

// meetingType returns the meeting type with the given id of the caller's
// company.
func meetingType(env models.Environment, id int64) *board.MeetingType {
	return env.CompanyMeetingType(companyOf(env), id)
}

// dispatch runs the side effects of out for resolution r. Failures are
// logged and counted, never returned.
func (e *Engine) dispatch(ctx context.Context, uid int64, r *board.Resolution, out board.Outcome) {
	if e.config.Debug {
		log.Debug("Transition outcome", "resolution", r.ID, "outcome", spew.Sdump(out))
	}
	for _, note := range out.Notes {
		if err := e.audit.PostAuditNote(ctx, r.ID, uid, note); err != nil {
			sideEffectFailed("audit", r, err)
		}
	}
	if out.Approval != nil {
		if _, err := e.tasks.ScheduleApprovalTask(ctx, r.ID, *out.Approval); err != nil {
			sideEffectFailed("schedule", r, err)
		}
	}
	if out.CompleteApprovals {
		if err := e.tasks.CompleteTasks(ctx, r.ID); err != nil {
			sideEffectFailed("complete", r, err)
		}
	}
	if out.CancelApprovals {
		if err := e.tasks.CancelTasks(ctx, r.ID); err != nil {
			sideEffectFailed("cancel", r, err)
		}
	}
}

func sideEffectFailed(kind string, r *board.Resolution, err error) {
	metrics.SideEffectFailures.WithLabelValues(kind).Inc()
	log.Warn("Side effect failed after commit", "kind", kind, "resolution", r.Name, "error", err)
}

// record counts the given operation in the transition metrics
func record(operation string, err error) {
	metrics.Transitions.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome returns the metrics label of the result of an operation
func Outcome(err error) string {
	var (
		validation exceptions.ValidationError
		permission exceptions.PermissionError
		state      exceptions.StateError
		config     exceptions.ConfigurationError
		missing    exceptions.MissingError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &permission):
		return "permission"
	case errors.As(err, &state):
		return "state"
	case errors.As(err, &config):
		return "configuration"
	case errors.As(err, &missing):
		return "missing"
	}
	return "error"
}

func init() {
	log = logging.GetLogger("workflow")
}
