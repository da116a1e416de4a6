// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package controllers exposes the board operations as a JSON API.
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
	"github.com/hexya-addons/boardresolutions/src/workflow"
)

var (
	log         logging.Logger
	engine      *workflow.Engine
	authBackend security.AuthBackend
)

// BootStrap mounts the Routes on srv. Handlers run their operations on
// e and authenticate users with auth.
// This function must be called before starting the http server.
func BootStrap(srv *server.Server, e *workflow.Engine, auth security.AuthBackend) {
	engine = e
	authBackend = auth
	Routes.mount(srv.Group(""))
	srv.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func init() {
	log = logging.GetLogger("controllers")
	Routes = new(Group)

	Routes.Sub("/web/session").
		Add(http.MethodPost, "/authenticate", Authenticate).
		Add(http.MethodPost, "/logout", Logout).
		Add(http.MethodGet, "/info", SessionInfo)

	brd := Routes.Sub("/board", RequireLogin)

	brd.Sub("/meeting-types").
		Add(http.MethodGet, "", ListMeetingTypes).
		Add(http.MethodPost, "", CreateMeetingType).
		Add(http.MethodGet, "/:id", GetMeetingType).
		Add(http.MethodPut, "/:id", UpdateMeetingType).
		Add(http.MethodDelete, "/:id", DeleteMeetingType).
		Add(http.MethodPost, "/:id/deactivate", DeactivateMeetingType).
		Add(http.MethodGet, "/:id/preview", PreviewMeetingType)

	res := brd.Sub("/resolutions").
		Add(http.MethodGet, "", SearchResolutions).
		Add(http.MethodPost, "", CreateResolution).
		Add(http.MethodGet, "/:id", GetResolution).
		Add(http.MethodPatch, "/:id", UpdateResolution).
		Add(http.MethodDelete, "/:id", DeleteResolution).
		Add(http.MethodPut, "/:id/attendance", SetAttendance).
		Add(http.MethodPut, "/:id/ballot", RecordBallot).
		Add(http.MethodGet, "/:id/report", PrintReport)
	for _, t := range transitions {
		res.Add(http.MethodPost, "/:id/"+t.action, transitionHandler(t.action, t.method))
	}

	brd.Sub("/wizard").
		Add(http.MethodGet, "", NewWizard).
		Add(http.MethodPost, "/next", WizardNext).
		Add(http.MethodPost, "/previous", WizardPrevious).
		Add(http.MethodPost, "/create", WizardCreate)

	brd.Sub("/members").Add(http.MethodGet, "/:id/statistics", MemberStatistics)
}
