// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"testing"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWizard(t *testing.T) {
	Convey("Testing the resolution wizard", t, func() {
		policy := policyWith(QuorumHalfPlusOne, MajoritySimple)
		in := inputs(member, policy, 7)
		w := NewWizard(testNow)
		So(w.Step, ShouldEqual, StepBasic)
		So(w.VotingMode, ShouldEqual, VotingOpen)
		Convey("The basic step needs a title", func() {
			So(w.Next(in), ShouldNotBeNil)
			So(w.Step, ShouldEqual, StepBasic)
			w.Title = "Kassenprüfung"
			So(w.Next(in), ShouldBeNil)
			So(w.Step, ShouldEqual, StepAttendance)
			w.Previous()
			So(w.Step, ShouldEqual, StepBasic)
			w.Previous()
			So(w.Step, ShouldEqual, StepBasic)
		})
		Convey("The attendance step checks the quorum", func() {
			w.Title = "Kassenprüfung"
			w.Step = StepAttendance
			err := w.Next(in)
			So(err.Error(), ShouldEqual, "at least one board member must be present")
			w.PresentMembers = ids(1, 3)
			err = w.Next(in)
			So(err.Error(), ShouldEqual, "quorum not met: need 4, have 3")
			w.PresentMembers = []int64{1, 2, 3, 42}
			err = w.Next(in)
			So(err.Error(), ShouldContainSubstring, "member 42 is not a board member")
			w.PresentMembers = ids(1, 4)
			So(w.Next(in), ShouldBeNil)
			So(w.Step, ShouldEqual, StepResolution)
		})
		Convey("An empty roster is a configuration error", func() {
			w.Step = StepAttendance
			w.PresentMembers = ids(1, 4)
			err := w.Next(inputs(member, policy, 0))
			So(err, ShouldHaveSameTypeAs, exceptions.ConfigurationError{})
		})
		Convey("The voting step checks the votes", func() {
			w.Step = StepVoting
			w.PresentMembers = ids(1, 4)
			Convey("Open votes must come from present members", func() {
				w.VotesForMembers = []int64{1, 5}
				So(w.Next(in), ShouldNotBeNil)
				w.VotesForMembers = []int64{1, 2}
				w.VotesAgainstMembers = []int64{2}
				So(w.Next(in), ShouldNotBeNil)
				w.VotesAgainstMembers = []int64{3}
				So(w.Next(in), ShouldBeNil)
				So(w.Step, ShouldEqual, StepConfirmation)
				So(w.Complete(), ShouldBeFalse)
				So(w.Result(policy), ShouldEqual, ResultPassed)
			})
			Convey("Secret votes cannot exceed attendance", func() {
				w.SetVotingMode(VotingSecret)
				So(w.Next(in).Error(), ShouldEqual, "please record at least one vote")
				w.VotesFor = 5
				So(w.Next(in), ShouldNotBeNil)
				w.VotesFor, w.VotesAgainst = 2, 2
				So(w.Next(in), ShouldBeNil)
				So(w.Complete(), ShouldBeTrue)
				So(w.Result(policy), ShouldEqual, ResultTie)
			})
			Convey("The voting mode must be allowed", func() {
				policy.AllowSecretBallot = false
				w.SetVotingMode(VotingSecret)
				w.VotesFor = 4
				So(w.Next(in).Error(), ShouldContainSubstring, "secret voting is not allowed")
			})
			Convey("Switching modes clears the other votes", func() {
				w.VotesForMembers = ids(1, 4)
				w.SetVotingMode(VotingSecret)
				So(w.VotesForMembers, ShouldBeNil)
				So(w.TotalVotes(), ShouldEqual, 0)
				w.VotesFor = 3
				w.SetVotingMode(VotingOpen)
				So(w.VotesFor, ShouldEqual, 0)
			})
		})
		Convey("A complete wizard gives valid resolution values", func() {
			w.Title = "Kassenprüfung"
			w.PresentMembers = ids(1, 4)
			w.ResolutionText = "<p>Die Kasse wurde geprüft.</p>"
			w.VotesForMembers = ids(1, 4)
			So(w.ValidateAll(in), ShouldBeNil)
			So(w.Complete(), ShouldBeTrue)
			So(w.Result(policy), ShouldEqual, ResultPassed)
			vals := w.Values()
			So(vals.Title, ShouldEqual, "Kassenprüfung")
			So(vals.VotingMode, ShouldEqual, VotingOpen)
			r, err := NewResolution(vals, in)
			So(err, ShouldBeNil)
			So(r.State, ShouldEqual, StateDraft)
			Convey("and an empty resolution text is reported", func() {
				w.ResolutionText = "<p><br></p>"
				So(w.ValidateAll(in).Error(), ShouldEqual, "resolution text is required")
			})
		})
	})
}
