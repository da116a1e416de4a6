// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildDocument(t *testing.T) {
	Convey("Testing the printable resolution", t, func() {
		policy := policyWith(QuorumHalfPlusOne, MajoritySimple)
		policy.Name = "Ordentliche Vorstandssitzung"
		names := map[int64]string{
			1:  "Zoe",
			2:  "Bernd",
			3:  "Anke",
			4:  "Dora",
			5:  "Emil",
			11: "Bert Secretary",
		}
		Convey("An approved resolution lists attendance, votes and approval", func() {
			r := approvedResolution(policy)
			doc := BuildDocument(r, policy, names)
			So(doc.Number, ShouldEqual, "VB-2024-001")
			So(doc.Date, ShouldEqual, "2024-03-14")
			So(doc.MeetingType, ShouldEqual, "Ordentliche Vorstandssitzung")
			So(doc.QuorumRule, ShouldEqual, "Half + 1")
			So(doc.MajorityRule, ShouldEqual, "Simple Majority (>50%)")
			So(doc.VotingMode, ShouldEqual, "Open Voting")
			So(doc.State, ShouldEqual, "Approved")
			So(doc.TotalMembers, ShouldEqual, 7)
			So(doc.RequiredQuorum, ShouldEqual, 4)
			So(doc.PresentCount, ShouldEqual, 5)
			So(doc.Present, ShouldResemble, []string{"Anke", "Bernd", "Dora", "Emil", "Zoe"})
			So(doc.Votes, ShouldResemble, []DocumentVote{
				{Member: "Anke", Choice: "For"},
				{Member: "Bernd", Choice: "For"},
				{Member: "Dora", Choice: "Against"},
				{Member: "Emil", Choice: "Abstain"},
				{Member: "Zoe", Choice: "For"},
			})
			So(doc.Result, ShouldEqual, "Passed")
			So(doc.ApprovedBy, ShouldEqual, "Bert Secretary")
			So(doc.ApprovedDate, ShouldEqual, "2024-03-14 18:30 UTC")
			So(BuildDocument(r, policy, names), ShouldResemble, doc)
		})
		Convey("Unknown names fall back to ids and drafts are not voted", func() {
			r := newDraft(policy, 7, VotingSecret)
			r.SetAttendance([]int64{6}, inputs(member, policy, 7))
			doc := BuildDocument(r, policy, names)
			So(doc.Present, ShouldResemble, []string{"#6"})
			So(doc.Votes, ShouldBeEmpty)
			So(doc.Result, ShouldEqual, "Not voted")
			So(doc.ApprovedBy, ShouldBeEmpty)
		})
		Convey("Rules are described for every policy", func() {
			p := policyWith(QuorumPercentage, MajorityCustom)
			p.QuorumPercentage = 60
			p.VotingMajorityCustom = 55
			So(DescribeQuorum(p), ShouldEqual, "60% of members")
			So(DescribeMajority(p), ShouldEqual, "Custom (55%)")
			p.QuorumType = QuorumCustom
			p.QuorumCustomFormula = "max(3, total_members // 3)"
			So(DescribeQuorum(p), ShouldEqual, "Custom formula: max(3, total_members // 3)")
		})
	})
}
