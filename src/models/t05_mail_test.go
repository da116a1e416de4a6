// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"testing"
	"time"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSequences(t *testing.T) {
	Convey("Testing resolution numbers", t, func() {
		d := newTestDatabase()
		defer d.Close()
		seq := NewResolutionSequence(d, "")
		next := func(year int) string {
			res, err := seq.NextResolutionNumber(ctx, time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC))
			So(err, ShouldBeNil)
			return res
		}
		Convey("Numbers increase within a year and restart the next year", func() {
			So(next(2024), ShouldEqual, "VB-2024-001")
			So(next(2024), ShouldEqual, "VB-2024-002")
			So(next(2025), ShouldEqual, "VB-2025-001")
			So(next(2024), ShouldEqual, "VB-2024-003")
		})
		Convey("The prefix can be changed", func() {
			res, err := NewResolutionSequence(d, "BR").NextResolutionNumber(ctx, meetingDate)
			So(err, ShouldBeNil)
			So(res, ShouldEqual, "BR-2024-001")
		})
	})
}

func TestMail(t *testing.T) {
	Convey("Testing audit notes and approval tasks", t, func() {
		d := newTestDatabase()
		defer d.Close()
		var resID int64
		mustExecute(d, func(env Environment) {
			r, _ := votedFixture(env, board.VotingOpen, "VB-2024-001")
			resID = r.ID
		})
		Convey("Audit notes are posted in order", func() {
			audit := NewAuditLog(d)
			So(audit.PostAuditNote(ctx, resID, security.SuperUserID, "first"), ShouldBeNil)
			So(audit.PostAuditNote(ctx, resID, security.SuperUserID, "second"), ShouldBeNil)
			mustExecute(d, func(env Environment) {
				msgs := env.Messages(ResolutionModel, resID)
				So(msgs, ShouldHaveLength, 2)
				So(msgs[0].Body, ShouldEqual, "first")
				So(msgs[1].Body, ShouldEqual, "second")
				So(msgs[1].AuthorID, ShouldEqual, security.SuperUserID)
				So(env.Messages(ResolutionModel, resID+1), ShouldBeEmpty)
			})
		})
		Convey("Approval tasks are assigned to the first secretary", func() {
			var secretary int64
			mustExecute(d, func(env Environment) {
				env.CreateUser(&User{Login: "member", Name: "Member", Password: "x", Active: true}, security.GroupBoardMemberID)
				secretary = env.CreateUser(&User{Login: "secretary", Name: "Secretary", Password: "x", Active: true}, security.GroupSecretaryID)
			})
			sched := NewApprovalScheduler(d)
			deadline := time.Date(2024, 3, 21, 18, 30, 0, 0, time.UTC)
			handle, err := sched.ScheduleApprovalTask(ctx, resID, board.ApprovalRequest{
				Deadline: deadline,
				Summary:  "Board resolution approval required",
				Note:     "Please review",
			})
			So(err, ShouldBeNil)
			So(handle, ShouldNotBeEmpty)
			mustExecute(d, func(env Environment) {
				acts := env.Activities(ResolutionModel, resID)
				So(acts, ShouldHaveLength, 1)
				So(acts[0].Handle, ShouldEqual, string(handle))
				So(acts[0].UserID, ShouldEqual, secretary)
				So(acts[0].State, ShouldEqual, ActivityPlanned)
				So(acts[0].DateDeadline.Equal(deadline), ShouldBeTrue)
			})
			Convey("Completing closes pending tasks", func() {
				So(sched.CompleteTasks(ctx, resID), ShouldBeNil)
				mustExecute(d, func(env Environment) {
					So(env.Activities(ResolutionModel, resID)[0].State, ShouldEqual, ActivityDone)
				})
				So(sched.CancelTasks(ctx, resID), ShouldBeNil)
				mustExecute(d, func(env Environment) {
					So(env.Activities(ResolutionModel, resID)[0].State, ShouldEqual, ActivityDone)
				})
			})
			Convey("Cancelling closes pending tasks", func() {
				So(sched.CancelTasks(ctx, resID), ShouldBeNil)
				mustExecute(d, func(env Environment) {
					So(env.Activities(ResolutionModel, resID)[0].State, ShouldEqual, ActivityCancelled)
				})
			})
			Convey("Overdue tasks are found once", func() {
				mustExecute(d, func(env Environment) {
					So(env.OverdueActivities(deadline.Add(-time.Hour)), ShouldBeEmpty)
					overdue := env.OverdueActivities(deadline.Add(time.Hour))
					So(overdue, ShouldHaveLength, 1)
					env.FlagOverdue(overdue[0].ID)
					So(env.OverdueActivities(deadline.Add(time.Hour)), ShouldBeEmpty)
				})
			})
		})
		Convey("Secretaries of other companies are not assigned", func() {
			mustExecute(d, func(env Environment) {
				env.CreateUser(&User{Login: "other", Name: "Other Secretary", Password: "x", Active: true, CompanyID: 2},
					security.GroupSecretaryID)
			})
			_, err := NewApprovalScheduler(d).ScheduleApprovalTask(ctx, resID, board.ApprovalRequest{Deadline: meetingDate})
			So(err, ShouldBeNil)
			mustExecute(d, func(env Environment) {
				So(env.Activities(ResolutionModel, resID)[0].UserID, ShouldEqual, 0)
			})
		})
		Convey("Tasks are left unassigned without secretary", func() {
			_, err := NewApprovalScheduler(d).ScheduleApprovalTask(ctx, resID, board.ApprovalRequest{Deadline: meetingDate})
			So(err, ShouldBeNil)
			mustExecute(d, func(env Environment) {
				So(env.Activities(ResolutionModel, resID)[0].UserID, ShouldEqual, 0)
			})
		})
	})
}
