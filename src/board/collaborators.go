// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"context"
	"time"
)

// Capabilities checked by the lifecycle transitions
const (
	// CapabilityMember allows reading and working on resolutions
	CapabilityMember = "board_member"
	// CapabilitySecretary allows approving resolutions
	CapabilitySecretary = "board_secretary"
	// CapabilityAdmin allows overriding approved resolutions
	CapabilityAdmin = "board_resolution_admin"
)

// A Caller is the identity on whose behalf a transition runs
type Caller interface {
	HasCapability(capability string) bool
	UserID() int64
	UserName() string
}

// A MemberDirectory gives the roster of eligible board members
type MemberDirectory interface {
	// BoardMembers returns the ids of all eligible members of the company
	BoardMembers(ctx context.Context, companyID int64) (MemberSet, error)
}

// A TaskHandle identifies an approval task in the scheduler
type TaskHandle string

// An ApprovalRequest describes the task to schedule for a secretary
type ApprovalRequest struct {
	Deadline time.Time
	Summary  string
	Note     string
}

// A TaskScheduler creates and closes approval tasks
type TaskScheduler interface {
	// ScheduleApprovalTask creates a task for the first secretary
	ScheduleApprovalTask(ctx context.Context, resolutionID int64, req ApprovalRequest) (TaskHandle, error)
	// CompleteTasks marks all pending approval tasks of the resolution done
	CompleteTasks(ctx context.Context, resolutionID int64) error
	// CancelTasks cancels all pending approval tasks of the resolution
	CancelTasks(ctx context.Context, resolutionID int64) error
}

// An AuditSink stores audit notes on resolutions
type AuditSink interface {
	PostAuditNote(ctx context.Context, resolutionID, authorID int64, text string) error
}

// A SequenceGenerator hands out resolution numbers
type SequenceGenerator interface {
	// NextResolutionNumber returns the next VB-YYYY-NNN number for the
	// year of date. Numbers are never reused.
	NextResolutionNumber(ctx context.Context, date time.Time) (string, error)
}

// A ReportRenderer renders the resolution document
type ReportRenderer interface {
	RenderResolutionDocument(doc *Document) ([]byte, error)
}
