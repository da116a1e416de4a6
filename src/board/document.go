// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package board

import (
	"fmt"
	"sort"
)

// A Document is the printable view of a resolution. Building it twice
// from the same state gives the same document.
type Document struct {
	Number         string
	Title          string
	Description    string
	Date           string
	ResolutionText string
	MeetingType    string
	QuorumRule     string
	MajorityRule   string
	VotingMode     string
	State          string
	TotalMembers   int
	RequiredQuorum int
	PresentCount   int
	Present        []string
	VotesFor       int
	VotesAgainst   int
	VotesAbstain   int
	// Votes lists the individual votes of an open ballot
	Votes            []DocumentVote
	RequiredMajority int
	Result           string
	ApprovedBy       string
	ApprovedDate     string
}

// A DocumentVote is the vote of one member in a document
type DocumentVote struct {
	Member string
	Choice string
}

var resultLabels = map[Result]string{
	ResultNone:     "Not voted",
	ResultPassed:   "Passed",
	ResultRejected: "Rejected",
	ResultTie:      "Tie",
}

var votingModeLabels = map[VotingMode]string{
	VotingOpen:   "Open Voting",
	VotingSecret: "Secret Voting",
}

var choiceLabels = map[Choice]string{
	ChoiceFor:     "For",
	ChoiceAgainst: "Against",
	ChoiceAbstain: "Abstain",
}

// Label returns the display name of the result
func (r Result) Label() string {
	return resultLabels[r]
}

// BuildDocument returns the printable view of res. names maps member and
// user ids to display names. Members are listed by name.
func BuildDocument(res *Resolution, policy *MeetingType, names map[int64]string) *Document {
	nameOf := func(id int64) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return fmt.Sprintf("#%d", id)
	}
	doc := &Document{
		Number:           res.Name,
		Title:            res.Title,
		Description:      res.Description,
		Date:             res.Date.Format("2006-01-02"),
		ResolutionText:   res.ResolutionText,
		VotingMode:       votingModeLabels[res.VotingMode],
		State:            res.State.Label(),
		TotalMembers:     res.TotalMembers,
		RequiredQuorum:   res.RequiredQuorum,
		PresentCount:     res.PresentCount(),
		VotesFor:         res.VotesFor,
		VotesAgainst:     res.VotesAgainst,
		VotesAbstain:     res.VotesAbstain,
		RequiredMajority: res.RequiredMajority,
		Result:           res.CurrentResult(policy).Label(),
	}
	if policy != nil {
		doc.MeetingType = policy.Name
		doc.QuorumRule = DescribeQuorum(policy)
		doc.MajorityRule = DescribeMajority(policy)
	}
	for _, id := range res.present.IDs() {
		doc.Present = append(doc.Present, nameOf(id))
	}
	sort.Strings(doc.Present)
	if res.VotingMode == VotingOpen {
		ballot := res.Ballot()
		for _, c := range Choices {
			for _, id := range ballot.Members(c) {
				doc.Votes = append(doc.Votes, DocumentVote{Member: nameOf(id), Choice: choiceLabels[c]})
			}
		}
		sort.SliceStable(doc.Votes, func(i, j int) bool {
			return doc.Votes[i].Member < doc.Votes[j].Member
		})
	}
	if res.ApprovedBy != 0 {
		doc.ApprovedBy = nameOf(res.ApprovedBy)
	}
	if res.ApprovedDate != nil {
		doc.ApprovedDate = res.ApprovedDate.UTC().Format("2006-01-02 15:04 MST")
	}
	return doc
}

// DescribeQuorum returns a human readable quorum rule
func DescribeQuorum(policy *MeetingType) string {
	switch policy.QuorumType {
	case QuorumPercentage:
		return fmt.Sprintf("%g%% of members", policy.QuorumPercentage)
	case QuorumFixed:
		return fmt.Sprintf("%d members", policy.QuorumFixed)
	case QuorumHalfPlusOne:
		return "Half + 1"
	case QuorumTwoThirds:
		return "Two Thirds"
	case QuorumAll:
		return "All Members"
	case QuorumCustom:
		return fmt.Sprintf("Custom formula: %s", policy.QuorumCustomFormula)
	}
	return string(policy.QuorumType)
}

// DescribeMajority returns a human readable majority rule
func DescribeMajority(policy *MeetingType) string {
	switch policy.VotingMajority {
	case MajoritySimple:
		return "Simple Majority (>50%)"
	case MajorityTwoThirds:
		return "Two Thirds Majority"
	case MajorityThreeQuarters:
		return "Three Quarters Majority"
	case MajorityUnanimous:
		return "Unanimous"
	case MajorityCustom:
		return fmt.Sprintf("Custom (%g%%)", policy.VotingMajorityCustom)
	}
	return string(policy.VotingMajority)
}
