// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"strings"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/board"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleDocument() *board.Document {
	return &board.Document{
		Number:           "VB-2024-001",
		Title:            "Sommerfest & Grillen",
		Date:             "2024-03-14",
		ResolutionText:   "<p>Der Vorstand beschließt das Sommerfest.</p>",
		MeetingType:      "Ordentliche Sitzung",
		QuorumRule:       "Half + 1",
		MajorityRule:     "Simple Majority (>50%)",
		VotingMode:       "Open Voting",
		State:            "Approved",
		TotalMembers:     7,
		RequiredQuorum:   4,
		PresentCount:     5,
		Present:          []string{"Anna", "Bert", "Carla", "Dirk", "Emma"},
		VotesFor:         3,
		VotesAgainst:     1,
		VotesAbstain:     1,
		Votes:            []board.DocumentVote{{Member: "Anna", Choice: "For"}, {Member: "Bert", Choice: "Against"}},
		RequiredMajority: 3,
		Result:           "Passed",
		ApprovedBy:       "Bert",
		ApprovedDate:     "2024-03-15 10:00 UTC",
	}
}

func TestReports(t *testing.T) {
	Convey("Testing TextReport", t, func() {
		coll := NewCollection()
		report := TextReport{
			Code:     "sample_report",
			Title:    "Sample Report",
			MimeType: "text/plain",
			Filename: "{{ name }}.txt",
			Template: `Name: {{ name }}
Age: {{ age }}
`,
		}
		report2 := report
		report2.Code = "sample_html"
		report2.Filename = "sample.html"
		report2.MimeType = "text/html"
		Convey("Registering a text report", func() {
			So(func() { coll.Add(&report) }, ShouldNotPanic)
			So(func() { coll.Add(&report2) }, ShouldNotPanic)
			So(coll.IDs(), ShouldResemble, []string{"sample_html", "sample_report"})
			So(report2.String(), ShouldEqual, "Sample Report")
			Convey("Registering twice should panic", func() {
				So(func() { coll.Add(&report) }, ShouldPanic)
			})
			Convey("Reports cannot be used before bootstrap", func() {
				_, err := coll.Get("sample_report")
				So(err, ShouldNotBeNil)
				_, err = report.Render(Data{"name": "Jane"})
				So(err, ShouldNotBeNil)
			})
			Convey("Bootstrapping checks the reports", func() {
				report2.Filename = ""
				So(coll.BootStrap(), ShouldNotBeNil)
				report2.Filename = "sample.html"
				report2.MimeType = "application/pdf"
				So(coll.BootStrap(), ShouldNotBeNil)
				report2.MimeType = "text/html"
				So(coll.BootStrap(), ShouldBeNil)
				So(coll.BootStrap(), ShouldNotBeNil)
				So(func() { coll.Add(&TextReport{Code: "late"}) }, ShouldPanic)
				_, err := coll.Get("unknown")
				So(err, ShouldNotBeNil)
				Convey("Plain text is not escaped, HTML is", func() {
					rep, err := coll.Get("sample_report")
					So(err, ShouldBeNil)
					doc, err := rep.Render(Data{"name": "Jane & John", "age": 24})
					So(err, ShouldBeNil)
					So(string(doc.Content), ShouldEqual, "Name: Jane & John\nAge: 24\n")
					So(doc.Filename, ShouldEqual, "Jane & John.txt")
					So(doc.MimeType, ShouldEqual, "text/plain")
					rep, err = coll.Get("sample_html")
					So(err, ShouldBeNil)
					doc, err = rep.Render(Data{"name": "Jane & John", "age": 24})
					So(err, ShouldBeNil)
					So(string(doc.Content), ShouldEqual, "Name: Jane &amp; John\nAge: 24\n")
				})
			})
		})
		Convey("Invalid templates are rejected at bootstrap", func() {
			rep := report
			rep.Template = "{% for x in %}"
			coll.Add(&rep)
			err := coll.BootStrap()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid report sample_report")
		})
	})
	BootStrap()
	Convey("Testing the resolution reports", t, func() {
		So(BootStrap, ShouldPanic)
		doc := sampleDocument()
		Convey("The resolution document is rendered as HTML", func() {
			res, err := NewRenderer(ResolutionDocumentID).Render(doc)
			So(err, ShouldBeNil)
			So(res.Filename, ShouldEqual, "VB-2024-001.html")
			So(res.MimeType, ShouldEqual, "text/html")
			content := string(res.Content)
			So(content, ShouldContainSubstring, "<h1>Board Resolution VB-2024-001</h1>")
			So(content, ShouldContainSubstring, "<h2>Sommerfest &amp; Grillen</h2>")
			So(content, ShouldContainSubstring, "<p>Der Vorstand beschließt das Sommerfest.</p>")
			So(content, ShouldContainSubstring, "Present: 5 of 7 members. Required quorum: 4 (Half + 1).")
			So(content, ShouldContainSubstring, "<tr><td>Bert</td><td>Against</td></tr>")
			So(content, ShouldContainSubstring, "Result: <strong>Passed</strong> (required votes: 3)")
			So(content, ShouldContainSubstring, "Approved by Bert on 2024-03-15 10:00 UTC")
		})
		Convey("Scripts in the resolution text are not rendered", func() {
			doc.ResolutionText = `<p>Sommerfest</p><script>fetch("/board/resolutions/1/admin-reset", {method: "POST"})</script><img src="x" onerror="alert(1)">`
			content, err := NewRenderer(ResolutionDocumentID).RenderResolutionDocument(doc)
			So(err, ShouldBeNil)
			So(string(content), ShouldContainSubstring, "<p>Sommerfest</p>")
			So(string(content), ShouldNotContainSubstring, "<script")
			So(string(content), ShouldNotContainSubstring, "onerror")
		})
		Convey("Rendering is deterministic", func() {
			r := NewRenderer(ResolutionDocumentID)
			first, err := r.RenderResolutionDocument(doc)
			So(err, ShouldBeNil)
			second, _ := r.RenderResolutionDocument(sampleDocument())
			So(string(second), ShouldEqual, string(first))
		})
		Convey("Secret ballots and drafts omit the optional sections", func() {
			doc.Votes = nil
			doc.ApprovedBy = ""
			content, err := NewRenderer(ResolutionDocumentID).RenderResolutionDocument(doc)
			So(err, ShouldBeNil)
			So(string(content), ShouldNotContainSubstring, `class="ballot"`)
			So(string(content), ShouldNotContainSubstring, "Approved by")
		})
		Convey("The summary is plain text", func() {
			content, err := NewRenderer(ResolutionSummaryID).RenderResolutionDocument(doc)
			So(err, ShouldBeNil)
			lines := strings.Split(string(content), "\n")
			So(lines[0], ShouldEqual, "VB-2024-001: Sommerfest & Grillen")
			So(lines[3], ShouldEqual, "Votes: 3 for, 1 against, 1 abstentions")
			So(lines[7], ShouldEqual, "Der Vorstand beschließt das Sommerfest.")
		})
	})
}
