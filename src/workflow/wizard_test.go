// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package workflow

import (
	"testing"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/tests"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	. "github.com/smartystreets/goconvey/convey"
)

// filledWizard returns a wizard where the first five members are present
func filledWizard(e *Engine, f *tests.Fixture) *board.Wizard {
	w, err := e.NewWizard(ctx, f.MemberUID)
	if err != nil {
		panic(err)
	}
	w.Title = "Hallenmiete 2024"
	w.ResolutionText = "<p>Die Hallenmiete wird um 5% erhöht.</p>"
	w.PresentMembers = f.Members[:5]
	return w
}

func TestWizard(t *testing.T) {
	Convey("Testing the creation wizard", t, func() {
		e, f, _ := newEngine()
		defer f.Close()
		Convey("New wizards use today and the default meeting type", func() {
			w, err := e.NewWizard(ctx, f.MemberUID)
			So(err, ShouldBeNil)
			So(w.Step, ShouldEqual, board.StepBasic)
			So(w.Date.Equal(meetingDate), ShouldBeTrue)
			So(w.MeetingTypeID, ShouldEqual, f.Regular.ID)
			So(w.VotingMode, ShouldEqual, board.VotingOpen)
		})
		Convey("Steps are validated one at a time", func() {
			w, _ := e.NewWizard(ctx, f.MemberUID)
			So(e.WizardNext(ctx, f.MemberUID, w), ShouldHaveSameTypeAs, exceptions.ValidationError{})
			So(w.Step, ShouldEqual, board.StepBasic)
			w.Title = "Hallenmiete 2024"
			So(e.WizardNext(ctx, f.MemberUID, w), ShouldBeNil)
			So(w.Step, ShouldEqual, board.StepAttendance)
			w.PresentMembers = f.Members[:3]
			err := e.WizardNext(ctx, f.MemberUID, w)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "quorum not met: need 4, have 3")
			w.PresentMembers = append(f.Members[:3:3], f.Outsider)
			So(e.WizardNext(ctx, f.MemberUID, w), ShouldHaveSameTypeAs, exceptions.ValidationError{})
			w.PresentMembers = f.Members[:4]
			So(e.WizardNext(ctx, f.MemberUID, w), ShouldBeNil)
			So(w.Step, ShouldEqual, board.StepResolution)
		})
		Convey("A complete ballot creates a voted resolution", func() {
			w := filledWizard(e, f)
			w.VotesForMembers = f.Members[:4]
			w.VotesAgainstMembers = f.Members[4:5]
			r, err := e.CreateFromWizard(ctx, f.MemberUID, w)
			So(err, ShouldBeNil)
			So(r.Name, ShouldEqual, "VB-2024-001")
			So(r.State, ShouldEqual, board.StateVoted)
			So(r.Result, ShouldEqual, board.ResultPassed)
			So(r.PresentCount(), ShouldEqual, 5)
			So(notes(f, r.ID), ShouldResemble, []string{
				"Resolution created with the creation wizard.",
				"Resolution voted on: 4 for, 1 against, 0 abstentions (passed).",
			})
		})
		Convey("An incomplete ballot leaves the resolution in draft", func() {
			w := filledWizard(e, f)
			w.VotesForMembers = f.Members[:2]
			r, err := e.CreateFromWizard(ctx, f.MemberUID, w)
			So(err, ShouldBeNil)
			So(r.State, ShouldEqual, board.StateDraft)
			So(r.VotesFor, ShouldEqual, 2)
			r, err = e.Resolution(ctx, f.MemberUID, r.ID)
			So(err, ShouldBeNil)
			So(r.Ballot().Members(board.ChoiceFor), ShouldResemble, f.Members[:2])
		})
		Convey("Secret ballots need at least one vote", func() {
			w := filledWizard(e, f)
			w.MeetingTypeID = f.Statutes.ID
			w.SetVotingMode(board.VotingSecret)
			_, err := e.CreateFromWizard(ctx, f.MemberUID, w)
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
			w.VotesFor, w.VotesAgainst = 4, 1
			r, err := e.CreateFromWizard(ctx, f.MemberUID, w)
			So(err, ShouldBeNil)
			So(r.State, ShouldEqual, board.StateVoted)
			So(r.VotingMode, ShouldEqual, board.VotingSecret)
			So(r.Result, ShouldEqual, board.ResultPassed)
		})
		Convey("Votes of absent members are rejected", func() {
			w := filledWizard(e, f)
			w.VotesForMembers = f.Members[4:6]
			_, err := e.CreateFromWizard(ctx, f.MemberUID, w)
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
			_, err = e.CreateResolution(ctx, f.MemberUID, sampleValues(f))
			So(err, ShouldBeNil)
			rs, _ := e.SearchResolutions(ctx, f.MemberUID, models.ResolutionFilter{})
			So(rs, ShouldHaveLength, 1)
			So(rs[0].Name, ShouldEqual, "VB-2024-001")
		})
	})
}
