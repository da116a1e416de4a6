// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequiredVotesToPass(t *testing.T) {
	Convey("Testing majority computation", t, func() {
		Convey("Nothing passes with zero cast votes", func() {
			for _, mt := range []MajorityType{MajoritySimple, MajorityTwoThirds, MajorityThreeQuarters, MajorityUnanimous, MajorityCustom} {
				So(RequiredVotesToPass(0, policyWith(QuorumHalfPlusOne, mt)), ShouldEqual, 1)
			}
		})
		Convey("Simple majority", func() {
			policy := policyWith(QuorumHalfPlusOne, MajoritySimple)
			So(RequiredVotesToPass(5, policy), ShouldEqual, 3)
			So(RequiredVotesToPass(4, policy), ShouldEqual, 3)
			So(RequiredVotesToPass(1, policy), ShouldEqual, 1)
			So(RequiredVotesToPass(5, nil), ShouldEqual, 3)
		})
		Convey("Qualified majorities are rounded half up", func() {
			So(RequiredVotesToPass(5, policyWith(QuorumHalfPlusOne, MajorityTwoThirds)), ShouldEqual, 3)
			So(RequiredVotesToPass(6, policyWith(QuorumHalfPlusOne, MajorityTwoThirds)), ShouldEqual, 4)
			So(RequiredVotesToPass(6, policyWith(QuorumHalfPlusOne, MajorityThreeQuarters)), ShouldEqual, 5)
			So(RequiredVotesToPass(2, policyWith(QuorumHalfPlusOne, MajorityThreeQuarters)), ShouldEqual, 2)
			So(RequiredVotesToPass(7, policyWith(QuorumHalfPlusOne, MajorityUnanimous)), ShouldEqual, 7)
		})
		Convey("Custom percentage", func() {
			policy := policyWith(QuorumHalfPlusOne, MajorityCustom)
			policy.VotingMajorityCustom = 60
			So(RequiredVotesToPass(10, policy), ShouldEqual, 6)
			So(RequiredVotesToPass(5, policy), ShouldEqual, 3)
			policy.VotingMajorityCustom = 1
			So(RequiredVotesToPass(10, policy), ShouldEqual, 1)
		})
	})
}

func TestClassifyResult(t *testing.T) {
	Convey("Testing result classification", t, func() {
		simple := policyWith(QuorumHalfPlusOne, MajoritySimple)
		So(ClassifyResult(3, 2, simple), ShouldEqual, ResultPassed)
		So(ClassifyResult(2, 2, simple), ShouldEqual, ResultTie)
		So(ClassifyResult(1, 3, simple), ShouldEqual, ResultRejected)
		So(ClassifyResult(0, 0, simple), ShouldEqual, ResultTie)
		Convey("A blocking minority rejects a qualified majority", func() {
			unanimous := policyWith(QuorumHalfPlusOne, MajorityUnanimous)
			So(ClassifyResult(4, 1, unanimous), ShouldEqual, ResultRejected)
			So(ClassifyResult(5, 0, unanimous), ShouldEqual, ResultPassed)
			twoThirds := policyWith(QuorumHalfPlusOne, MajorityTwoThirds)
			So(ClassifyResult(3, 3, twoThirds), ShouldEqual, ResultTie)
			So(ClassifyResult(4, 2, twoThirds), ShouldEqual, ResultPassed)
			So(ClassifyResult(3, 2, twoThirds), ShouldEqual, ResultPassed)
			So(ClassifyResult(2, 3, twoThirds), ShouldEqual, ResultRejected)
		})
	})
}

func TestMajorityProperties(t *testing.T) {
	Convey("Majority computation is deterministic and results are a trichotomy", t, func() {
		var policies []*MeetingType
		for _, mt := range []MajorityType{MajoritySimple, MajorityTwoThirds, MajorityThreeQuarters, MajorityUnanimous, MajorityCustom} {
			policies = append(policies, policyWith(QuorumHalfPlusOne, mt))
		}
		for _, policy := range policies {
			for cast := 0; cast <= 40; cast++ {
				So(RequiredVotesToPass(cast, policy), ShouldEqual, RequiredVotesToPass(cast, policy))
			}
			for votesFor := 0; votesFor <= 15; votesFor++ {
				for votesAgainst := 0; votesAgainst <= 15; votesAgainst++ {
					res := ClassifyResult(votesFor, votesAgainst, policy)
					So(res, ShouldBeIn, []Result{ResultPassed, ResultRejected, ResultTie})
					So(res, ShouldEqual, ClassifyResult(votesFor, votesAgainst, policy))
					if policy.VotingMajority == MajoritySimple && votesFor == votesAgainst {
						So(res, ShouldEqual, ResultTie)
					}
				}
			}
		}
	})
}
