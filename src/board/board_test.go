// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"time"
)

type testCaller struct {
	id           int64
	name         string
	capabilities []string
}

func (c testCaller) HasCapability(capability string) bool {
	for _, cap := range c.capabilities {
		if cap == capability {
			return true
		}
	}
	return false
}

func (c testCaller) UserID() int64 {
	return c.id
}

func (c testCaller) UserName() string {
	return c.name
}

var (
	member    = testCaller{id: 10, name: "Anna Member"}
	secretary = testCaller{id: 11, name: "Bert Secretary", capabilities: []string{CapabilitySecretary}}
	admin     = testCaller{id: 12, name: "Carla Admin", capabilities: []string{CapabilitySecretary, CapabilityAdmin}}
	testNow   = time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC)
)

func policyWith(quorum QuorumType, majority MajorityType) *MeetingType {
	mt := NewMeetingType("TEST", "Test Meeting")
	mt.ID = 1
	mt.QuorumType = quorum
	mt.VotingMajority = majority
	return mt
}

// roster returns a roster of n members with ids 1..n
func roster(n int) MemberSet {
	ms := make(MemberSet, n)
	for i := 1; i <= n; i++ {
		ms[int64(i)] = struct{}{}
	}
	return ms
}

func ids(from, to int) []int64 {
	var res []int64
	for i := from; i <= to; i++ {
		res = append(res, int64(i))
	}
	return res
}

func inputs(caller Caller, policy *MeetingType, total int) Inputs {
	return Inputs{
		Caller: caller,
		Policy: policy,
		Roster: roster(total),
		Now:    testNow,
	}
}

func newDraft(policy *MeetingType, total int, mode VotingMode) *Resolution {
	r, err := NewResolution(ResolutionValues{
		Title:          "Sommerfest 2024",
		Date:           testNow,
		ResolutionText: "<p>Der Vorstand beschließt das Sommerfest.</p>",
		VotingMode:     mode,
	}, inputs(member, policy, total))
	if err != nil {
		panic(err)
	}
	r.ID = 1
	r.Name = "VB-2024-001"
	return r
}

// votedResolution returns a resolution voted by members 1..5 of a
// roster of 7 with 3 for, 1 against and 1 abstention.
func votedResolution(policy *MeetingType) *Resolution {
	r := newDraft(policy, 7, VotingOpen)
	in := inputs(member, policy, 7)
	if _, err := r.SetAttendance(ids(1, 5), in); err != nil {
		panic(err)
	}
	ballot, err := NewOpenBallot(ids(1, 3), []int64{4}, []int64{5})
	if err != nil {
		panic(err)
	}
	if _, err := r.RecordBallot(ballot, in); err != nil {
		panic(err)
	}
	if _, err := r.RecordVote(in); err != nil {
		panic(err)
	}
	return r
}

func approvedResolution(policy *MeetingType) *Resolution {
	r := votedResolution(policy)
	if _, err := r.SubmitForApproval(inputs(member, policy, 7)); err != nil {
		panic(err)
	}
	if _, err := r.Approve(inputs(secretary, policy, 7)); err != nil {
		panic(err)
	}
	return r
}
