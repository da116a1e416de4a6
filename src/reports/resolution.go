// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"github.com/hexya-addons/boardresolutions/src/board"
)

// Report ids of the board resolutions
const (
	ResolutionDocumentID = "board_resolution_document"
	ResolutionSummaryID  = "board_resolution_summary"
)

// ResolutionDocument is the printable HTML document of a resolution
var ResolutionDocument = &TextReport{
	Code:     ResolutionDocumentID,
	Title:    "Board Resolution",
	MimeType: "text/html",
	Filename: "{{ doc.Number }}.html",
	Template: `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>{{ doc.Number }} - {{ doc.Title }}</title>
</head>
<body>
<h1>Board Resolution {{ doc.Number }}</h1>
<h2>{{ doc.Title }}</h2>
<table class="info">
<tr><th>Date</th><td>{{ doc.Date }}</td></tr>
<tr><th>Meeting Type</th><td>{{ doc.MeetingType }}</td></tr>
<tr><th>Status</th><td>{{ doc.State }}</td></tr>
</table>
{% if doc.Description %}<p class="description">{{ doc.Description }}</p>
{% endif %}<h3>Attendance</h3>
<p>Present: {{ doc.PresentCount }} of {{ doc.TotalMembers }} members. Required quorum: {{ doc.RequiredQuorum }} ({{ doc.QuorumRule }}).</p>
<ul class="present">
{% for name in doc.Present %}<li>{{ name }}</li>
{% endfor %}</ul>
<h3>Resolution</h3>
<div class="resolution-text">{{ doc.ResolutionText|sanitize }}</div>
<h3>Voting Result</h3>
<p>{{ doc.VotingMode }}, {{ doc.MajorityRule }}</p>
<table class="counts">
<tr><th>For</th><td>{{ doc.VotesFor }}</td></tr>
<tr><th>Against</th><td>{{ doc.VotesAgainst }}</td></tr>
<tr><th>Abstain</th><td>{{ doc.VotesAbstain }}</td></tr>
</table>
{% if doc.Votes %}<table class="ballot">
{% for vote in doc.Votes %}<tr><td>{{ vote.Member }}</td><td>{{ vote.Choice }}</td></tr>
{% endfor %}</table>
{% endif %}<p class="result">Result: <strong>{{ doc.Result }}</strong> (required votes: {{ doc.RequiredMajority }})</p>
{% if doc.ApprovedBy %}<p class="approval">Approved by {{ doc.ApprovedBy }} on {{ doc.ApprovedDate }}</p>
{% endif %}</body>
</html>
`,
}

// ResolutionSummary is a plain text summary of a resolution
var ResolutionSummary = &TextReport{
	Code:     ResolutionSummaryID,
	Title:    "Board Resolution Summary",
	MimeType: "text/plain",
	Filename: "{{ doc.Number }}.txt",
	Template: `{{ doc.Number }}: {{ doc.Title }}
Date: {{ doc.Date }} ({{ doc.MeetingType }})
Present: {{ doc.PresentCount }}/{{ doc.TotalMembers }}, quorum {{ doc.RequiredQuorum }}
Votes: {{ doc.VotesFor }} for, {{ doc.VotesAgainst }} against, {{ doc.VotesAbstain }} abstentions
Result: {{ doc.Result }}
Status: {{ doc.State }}

{{ doc.ResolutionText|markdown }}
`,
}

// A Renderer renders resolution documents with a report of a Collection
type Renderer struct {
	collection *Collection
	reportID   string
}

// NewRenderer returns a Renderer using the report with the given id of
// the Registry.
func NewRenderer(reportID string) *Renderer {
	return &Renderer{collection: Registry, reportID: reportID}
}

// Render renders doc and returns the whole rendered document
func (r *Renderer) Render(doc *board.Document) (*Document, error) {
	report, err := r.collection.Get(r.reportID)
	if err != nil {
		return nil, err
	}
	return report.Render(Data{"doc": doc})
}

// RenderResolutionDocument renders doc and returns its content
func (r *Renderer) RenderResolutionDocument(doc *board.Document) ([]byte, error) {
	res, err := r.Render(doc)
	if err != nil {
		return nil, err
	}
	return res.Content, nil
}

var _ board.ReportRenderer = new(Renderer)
