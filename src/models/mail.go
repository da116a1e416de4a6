// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
)

// ResolutionModel is the model name of resolutions in messages and activities
const ResolutionModel = "board.resolution"

// A Message is an audit note posted on a record
type Message struct {
	ID       int64     `db:"id" json:"id"`
	ResModel string    `db:"res_model" json:"res_model"`
	ResID    int64     `db:"res_id" json:"res_id"`
	Body     string    `db:"body" json:"body"`
	AuthorID int64     `db:"author_id" json:"author_id"`
	Date     time.Time `db:"date" json:"date"`
}

// PostMessage adds a note on the given record
func (env Environment) PostMessage(resModel string, resID, authorID int64, body string) int64 {
	return insertRecord(env, "mail_message", &Message{
		ResModel: resModel,
		ResID:    resID,
		Body:     body,
		AuthorID: authorID,
		Date:     env.Now(),
	})
}

// Messages returns the notes of the given record, oldest first
func (env Environment) Messages(resModel string, resID int64) []*Message {
	var res []*Message
	env.Cr().Select(&res, "SELECT * FROM mail_message WHERE res_model = ? AND res_id = ? ORDER BY id", resModel, resID)
	return res
}

// An AuditLog posts audit notes on resolutions, each in its own
// transaction.
type AuditLog struct {
	db *Database
}

// NewAuditLog returns an AuditLog writing to d
func NewAuditLog(d *Database) *AuditLog {
	return &AuditLog{db: d}
}

// PostAuditNote stores the given note on the resolution
func (a *AuditLog) PostAuditNote(ctx context.Context, resolutionID, authorID int64, text string) error {
	return a.db.ExecuteInNewEnvironment(ctx, authorID, func(env Environment) {
		env.PostMessage(ResolutionModel, resolutionID, authorID, text)
	})
}

var _ board.AuditSink = new(AuditLog)

// Activity states
const (
	ActivityPlanned   = "planned"
	ActivityDone      = "done"
	ActivityCancelled = "cancelled"
)

// An Activity is a task assigned to a user about a record
type Activity struct {
	ID           int64     `db:"id" json:"id"`
	Handle       string    `db:"handle" json:"handle"`
	ResModel     string    `db:"res_model" json:"res_model"`
	ResID        int64     `db:"res_id" json:"res_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Summary      string    `db:"summary" json:"summary"`
	Note         string    `db:"note" json:"note"`
	DateDeadline time.Time `db:"date_deadline" json:"date_deadline"`
	State        string    `db:"state" json:"state"`
	Overdue      bool      `db:"overdue" json:"overdue"`
	CreateDate   time.Time `db:"create_date" json:"create_date"`
}

// Activities returns the activities of the given record, oldest first
func (env Environment) Activities(resModel string, resID int64) []*Activity {
	var res []*Activity
	env.Cr().Select(&res, "SELECT * FROM mail_activity WHERE res_model = ? AND res_id = ? ORDER BY id", resModel, resID)
	return res
}

// OverdueActivities returns the planned activities past their deadline
// that have not been flagged yet.
func (env Environment) OverdueActivities(now time.Time) []*Activity {
	var res []*Activity
	env.Cr().Select(&res, "SELECT * FROM mail_activity WHERE state = ? AND overdue = ? AND date_deadline < ? ORDER BY date_deadline, id",
		ActivityPlanned, false, now.UTC())
	return res
}

// FlagOverdue marks the activity as overdue
func (env Environment) FlagOverdue(id int64) {
	env.Cr().Execute("UPDATE mail_activity SET overdue = ? WHERE id = ?", true, id)
}

func (env Environment) closeActivities(resModel string, resID int64, state string) int64 {
	res := env.Cr().Execute("UPDATE mail_activity SET state = ? WHERE res_model = ? AND res_id = ? AND state = ?",
		state, resModel, resID, ActivityPlanned)
	n, _ := res.RowsAffected()
	return n
}

// An ApprovalScheduler creates approval activities for the first
// secretary. Each call runs in its own transaction.
type ApprovalScheduler struct {
	db *Database
}

// NewApprovalScheduler returns an ApprovalScheduler writing to d
func NewApprovalScheduler(d *Database) *ApprovalScheduler {
	return &ApprovalScheduler{db: d}
}

// ScheduleApprovalTask creates an approval activity on the resolution
// assigned to the first active secretary of its company. The task is
// left unassigned if there is no secretary.
func (s *ApprovalScheduler) ScheduleApprovalTask(ctx context.Context, resolutionID int64, req board.ApprovalRequest) (board.TaskHandle, error) {
	handle := uuid.New().String()
	err := s.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		res := env.Resolution(resolutionID, false)
		assignee, ok := env.FirstUserInGroup(res.CompanyID, security.GroupSecretaryID)
		if !ok {
			log.Warn("No secretary to assign the approval task to", "resolution", resolutionID)
		}
		insertRecord(env, "mail_activity", &Activity{
			Handle:       handle,
			ResModel:     ResolutionModel,
			ResID:        resolutionID,
			UserID:       assignee,
			Summary:      req.Summary,
			Note:         req.Note,
			DateDeadline: req.Deadline.UTC(),
			State:        ActivityPlanned,
			CreateDate:   env.Now(),
		})
	})
	if err != nil {
		return "", err
	}
	return board.TaskHandle(handle), nil
}

// CompleteTasks marks all pending approval tasks of the resolution done
func (s *ApprovalScheduler) CompleteTasks(ctx context.Context, resolutionID int64) error {
	return s.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		env.closeActivities(ResolutionModel, resolutionID, ActivityDone)
	})
}

// CancelTasks cancels all pending approval tasks of the resolution
func (s *ApprovalScheduler) CancelTasks(ctx context.Context, resolutionID int64) error {
	return s.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		env.closeActivities(ResolutionModel, resolutionID, ActivityCancelled)
	})
}

var _ board.TaskScheduler = new(ApprovalScheduler)
