// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import (
	"net/http"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/server"
)

// renderMeetingType writes mt or err
func renderMeetingType(c *server.Context, code int, mt *board.MeetingType, err error) {
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(code, mt)
}

// ListMeetingTypes lists the active meeting types, or all of them with
// all=1.
func ListMeetingTypes(c *server.Context) {
	all := c.Query("all") == "1" || c.Query("all") == "true"
	mts, err := engine.MeetingTypes(c.Request.Context(), c.UID(), all)
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, mts)
}

// CreateMeetingType creates a meeting type. Omitted fields take their
// default values.
func CreateMeetingType(c *server.Context) {
	mt := board.NewMeetingType("", "")
	if !c.BindBody(mt) {
		return
	}
	mt, err := engine.CreateMeetingType(c.Request.Context(), c.UID(), mt)
	renderMeetingType(c, http.StatusCreated, mt, err)
}

// GetMeetingType returns a meeting type
func GetMeetingType(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	mt, err := engine.MeetingType(c.Request.Context(), c.UID(), id)
	renderMeetingType(c, http.StatusOK, mt, err)
}

// UpdateMeetingType modifies a meeting type. Omitted fields keep their
// current values.
func UpdateMeetingType(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	mt, err := engine.MeetingType(c.Request.Context(), c.UID(), id)
	if err != nil {
		c.RenderError(err)
		return
	}
	if !c.BindBody(mt) {
		return
	}
	mt, err = engine.UpdateMeetingType(c.Request.Context(), c.UID(), id, mt)
	renderMeetingType(c, http.StatusOK, mt, err)
}

// DeactivateMeetingType hides a meeting type from new resolutions
func DeactivateMeetingType(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	mt, err := engine.DeactivateMeetingType(c.Request.Context(), c.UID(), id)
	renderMeetingType(c, http.StatusOK, mt, err)
}

// DeleteMeetingType removes an unused meeting type
func DeleteMeetingType(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := engine.DeleteMeetingType(c.Request.Context(), c.UID(), id); err != nil {
		c.RenderError(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PreviewMeetingType returns the quorum and majority of a meeting type
// for the total and cast query parameters.
func PreviewMeetingType(c *server.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	total, ok := queryInt(c, "total")
	if !ok {
		return
	}
	cast, ok := queryInt(c, "cast")
	if !ok {
		return
	}
	p, err := engine.PreviewMeetingType(c.Request.Context(), c.UID(), id, total, cast)
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, p)
}
