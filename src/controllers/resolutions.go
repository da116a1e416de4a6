// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/reports"
	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/hexya-addons/boardresolutions/src/workflow"
)

// A resolutionView is a resolution with its attendance and open ballot
type resolutionView struct {
	*board.Resolution
	PresentMembers      []int64 `json:"present_members"`
	VotesForMembers     []int64 `json:"votes_for_members"`
	VotesAgainstMembers []int64 `json:"votes_against_members"`
	VotesAbstainMembers []int64 `json:"votes_abstain_members"`
}

func newResolutionView(r *board.Resolution) resolutionView {
	ballot := r.Ballot()
	return resolutionView{
		Resolution:          r,
		PresentMembers:      r.PresentMembers().IDs(),
		VotesForMembers:     ballot.Members(board.ChoiceFor),
		VotesAgainstMembers: ballot.Members(board.ChoiceAgainst),
		VotesAbstainMembers: ballot.Members(board.ChoiceAbstain),
	}
}

// renderResolution writes r or err
func renderResolution(c *server.Context, code int, r *board.Resolution, err error) {
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(code, newResolutionView(r))
}

type resolutionRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Date           Date             `json:"date"`
	ResolutionText string           `json:"resolution_text"`
	MeetingTypeID  int64            `json:"meeting_type_id"`
	VotingMode     board.VotingMode `json:"voting_mode"`
	ProjectID      int64            `json:"project_id"`
	TaskID         int64            `json:"task_id"`
}

type changesRequest struct {
	board.ResolutionChanges
	Date *Date `json:"date"`
}

type attendanceRequest struct {
	Present []int64 `json:"present"`
}

type ballotRequest struct {
	VotesFor            int     `json:"votes_for"`
	VotesAgainst        int     `json:"votes_against"`
	VotesAbstain        int     `json:"votes_abstain"`
	VotesForMembers     []int64 `json:"votes_for_members"`
	VotesAgainstMembers []int64 `json:"votes_against_members"`
	VotesAbstainMembers []int64 `json:"votes_abstain_members"`
}

// snapshot returns the ballot of the request in the given mode
func (b ballotRequest) snapshot(mode board.VotingMode) (board.VoteSnapshot, error) {
	if mode == board.VotingSecret {
		return board.NewSecretBallot(b.VotesFor, b.VotesAgainst, b.VotesAbstain)
	}
	return board.NewOpenBallot(b.VotesForMembers, b.VotesAgainstMembers, b.VotesAbstainMembers)
}

// SearchResolutions lists the resolutions of the user's company. The
// state, meeting_type_id, year, limit and offset query parameters
// filter the list.
func SearchResolutions(c *server.Context) {
	f := models.ResolutionFilter{State: board.State(c.Query("state"))}
	var ok bool
	if f.Year, ok = queryInt(c, "year"); !ok {
		return
	}
	if f.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	if f.Offset, ok = queryInt(c, "offset"); !ok {
		return
	}
	mt, ok := queryInt(c, "meeting_type_id")
	if !ok {
		return
	}
	f.MeetingTypeID = int64(mt)
	rs, err := engine.SearchResolutions(c.Request.Context(), c.UID(), f)
	if err != nil {
		c.RenderError(err)
		return
	}
	res := make([]resolutionView, len(rs))
	for i, r := range rs {
		res[i] = newResolutionView(r)
	}
	c.JSON(http.StatusOK, res)
}

// CreateResolution creates a draft resolution
func CreateResolution(c *server.Context) {
	var req resolutionRequest
	if !c.BindBody(&req) {
		return
	}
	r, err := engine.CreateResolution(c.Request.Context(), c.UID(), board.ResolutionValues{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date.Time,
		ResolutionText: req.ResolutionText,
		MeetingTypeID:  req.MeetingTypeID,
		VotingMode:     req.VotingMode,
		ProjectID:      req.ProjectID,
		TaskID:         req.TaskID,
	})
	renderResolution(c, http.StatusCreated, r, err)
}

// GetResolution returns a resolution
func GetResolution(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := engine.Resolution(c.Request.Context(), c.UID(), id)
	renderResolution(c, http.StatusOK, r, err)
}

// UpdateResolution modifies the fields given in the request body
func UpdateResolution(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req changesRequest
	if !c.BindBody(&req) {
		return
	}
	changes := req.ResolutionChanges
	changes.Date = nil
	if req.Date != nil {
		changes.Date = &req.Date.Time
	}
	r, err := engine.Update(c.Request.Context(), c.UID(), id, changes)
	renderResolution(c, http.StatusOK, r, err)
}

// DeleteResolution removes a resolution
func DeleteResolution(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := engine.Delete(c.Request.Context(), c.UID(), id); err != nil {
		c.RenderError(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAttendance replaces the present members
func SetAttendance(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req attendanceRequest
	if !c.BindBody(&req) {
		return
	}
	r, err := engine.SetAttendance(c.Request.Context(), c.UID(), id, req.Present)
	renderResolution(c, http.StatusOK, r, err)
}

// RecordBallot replaces the ballot. Counts are read for secret ballots,
// member lists for open ballots.
func RecordBallot(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ballotRequest
	if !c.BindBody(&req) {
		return
	}
	r, err := engine.Resolution(c.Request.Context(), c.UID(), id)
	if err != nil {
		c.RenderError(err)
		return
	}
	ballot, err := req.snapshot(r.VotingMode)
	if err != nil {
		c.RenderError(err)
		return
	}
	r, err = engine.RecordBallot(c.Request.Context(), c.UID(), id, ballot)
	renderResolution(c, http.StatusOK, r, err)
}

// A transitionMethod is a lifecycle operation of the engine
type transitionMethod func(e *workflow.Engine, ctx context.Context, uid, id int64) (*board.Resolution, error)

// transitions are the lifecycle operations served as POST
// /board/resolutions/:id/<action>
var transitions = []struct {
	action string
	method transitionMethod
}{
	{"vote", (*workflow.Engine).RecordVote},
	{"submit", (*workflow.Engine).SubmitForApproval},
	{"approve", (*workflow.Engine).Approve},
	{"archive", (*workflow.Engine).Archive},
	{"reset", (*workflow.Engine).ResetToDraft},
	{"admin-reset", (*workflow.Engine).AdminReset},
}

// transitionHandler returns the handler running fnct
func transitionHandler(action string, fnct transitionMethod) server.HandlerFunc {
	return func(c *server.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		r, err := fnct(engine, c.Request.Context(), c.UID(), id)
		if err != nil {
			log.Debug("Transition refused", "action", action, "resolution", id, "error", err)
		}
		renderResolution(c, http.StatusOK, r, err)
	}
}

// PrintReport renders the resolution document as HTML, or as plain text
// with format=text.
func PrintReport(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := engine.Document(c.Request.Context(), c.UID(), id)
	if err != nil {
		c.RenderError(err)
		return
	}
	if c.Query("format") == "text" {
		rendered, err := reports.NewRenderer(reports.ResolutionSummaryID).Render(doc)
		if err != nil {
			c.RenderError(err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", rendered.Filename))
		c.Data(http.StatusOK, rendered.MimeType+"; charset=utf-8", rendered.Content)
		return
	}
	content, err := engine.PrintReport(c.Request.Context(), c.UID(), id)
	if err != nil {
		c.RenderError(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Number+".html"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

// MemberStatistics returns the resolution counters of a board member
func MemberStatistics(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := engine.MemberStatistics(c.Request.Context(), c.UID(), id)
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
