// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"testing"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOpenBallot(t *testing.T) {
	Convey("Testing open ballots", t, func() {
		empty := OpenBallot()
		withFor, err := empty.SetVotesFor(3, 1, 2)
		So(err, ShouldBeNil)
		Convey("Snapshots are immutable", func() {
			So(empty.Total(), ShouldEqual, 0)
			So(withFor.Members(ChoiceFor), ShouldResemble, []int64{1, 2, 3})
			members := withFor.Members(ChoiceFor)
			members[0] = 99
			So(withFor.Members(ChoiceFor), ShouldResemble, []int64{1, 2, 3})
			withAgainst, err := withFor.SetVotesAgainst(4)
			So(err, ShouldBeNil)
			So(withFor.Count(ChoiceAgainst), ShouldEqual, 0)
			So(withAgainst.Count(ChoiceAgainst), ShouldEqual, 1)
		})
		Convey("A member votes at most once", func() {
			_, err := withFor.SetVotesAgainst(2)
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
			So(err.Error(), ShouldContainSubstring, "member 2 already voted for")
			_, err = empty.SetVotesAbstain(5, 5)
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
		})
		Convey("Replacing a bucket replaces its members", func() {
			replaced, err := withFor.SetVotesFor(1)
			So(err, ShouldBeNil)
			So(replaced.Members(ChoiceFor), ShouldResemble, []int64{1})
			moved, err := replaced.SetVotesAgainst(2, 3)
			So(err, ShouldBeNil)
			c, ok := moved.Choice(3)
			So(ok, ShouldBeTrue)
			So(c, ShouldEqual, ChoiceAgainst)
			_, ok = moved.Choice(42)
			So(ok, ShouldBeFalse)
		})
		Convey("Voters must be present", func() {
			So(withFor.CheckVoters(NewMemberSet(1, 2, 3, 4)), ShouldBeNil)
			err := withFor.CheckVoters(NewMemberSet(1, 2))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "member 3 is not present")
		})
		Convey("A complete ballot partitions the present members", func() {
			ballot, err := NewOpenBallot([]int64{1, 2}, []int64{3}, []int64{4})
			So(err, ShouldBeNil)
			So(ballot.CheckComplete(NewMemberSet(1, 2, 3, 4)), ShouldBeNil)
			err = ballot.CheckComplete(NewMemberSet(1, 2, 3, 4, 5))
			So(err.Error(), ShouldEqual, "vote count mismatch: 4 votes recorded for 5 present members")
			err = ballot.CheckComplete(NewMemberSet(1, 2, 3, 5))
			So(err.Error(), ShouldContainSubstring, "member 4 is not present")
		})
	})
}

func TestSecretBallot(t *testing.T) {
	Convey("Testing secret ballots", t, func() {
		ballot, err := NewSecretBallot(3, 1, 1)
		So(err, ShouldBeNil)
		So(ballot.Mode(), ShouldEqual, VotingSecret)
		f, a, ab := ballot.Counts()
		So([]int{f, a, ab}, ShouldResemble, []int{3, 1, 1})
		So(ballot.Voters(), ShouldBeEmpty)
		So(ballot.Members(ChoiceFor), ShouldBeEmpty)
		Convey("Individual votes cannot be linked to members", func() {
			_, err := ballot.SetVotesFor(1)
			So(err, ShouldNotBeNil)
		})
		Convey("Counts cannot be negative", func() {
			_, err := NewSecretBallot(-1, 0, 0)
			So(err, ShouldNotBeNil)
		})
		Convey("Completeness only checks the counts", func() {
			So(ballot.CheckComplete(NewMemberSet(7, 8, 9, 10, 11)), ShouldBeNil)
			So(ballot.CheckComplete(NewMemberSet(7, 8, 9, 10)), ShouldNotBeNil)
		})
	})
}

func TestMemberSet(t *testing.T) {
	Convey("Testing member sets", t, func() {
		ms := NewMemberSet(5, 1, 3, 1)
		So(ms.Len(), ShouldEqual, 3)
		So(ms.IDs(), ShouldResemble, []int64{1, 3, 5})
		So(ms.Contains(3), ShouldBeTrue)
		So(ms.Contains(2), ShouldBeFalse)
		So(ms.Equals(NewMemberSet(1, 3, 5)), ShouldBeTrue)
		So(ms.Equals(NewMemberSet(1, 3)), ShouldBeFalse)
		So(ms.Equals(NewMemberSet(1, 3, 4)), ShouldBeFalse)
	})
}
