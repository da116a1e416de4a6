// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import (
	"net/http"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/server"
)

// The wizard state is held by the client: each call receives the
// current wizard and returns the updated one.

// NewWizard returns a new wizard on its first step
func NewWizard(c *server.Context) {
	w, err := engine.NewWizard(c.Request.Context(), c.UID())
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// WizardNext validates the current step and moves to the next one
func WizardNext(c *server.Context) {
	var w board.Wizard
	if !c.BindBody(&w) {
		return
	}
	if err := engine.WizardNext(c.Request.Context(), c.UID(), &w); err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, &w)
}

// WizardPrevious moves back to the previous step
func WizardPrevious(c *server.Context) {
	var w board.Wizard
	if !c.BindBody(&w) {
		return
	}
	w.Previous()
	c.JSON(http.StatusOK, &w)
}

// WizardCreate validates all steps and creates the resolution
func WizardCreate(c *server.Context) {
	var w board.Wizard
	if !c.BindBody(&w) {
		return
	}
	r, err := engine.CreateFromWizard(c.Request.Context(), c.UID(), &w)
	renderResolution(c, http.StatusCreated, r, err)
}
