// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password"`
}

// A sessionUser describes the logged in user
type sessionUser struct {
	UID       int64    `json:"uid"`
	Login     string   `json:"login"`
	Name      string   `json:"name"`
	CompanyID int64    `json:"company_id"`
	Groups    []string `json:"groups"`
}

// Authenticate logs the user in and stores its id in the session cookie
func Authenticate(c *server.Context) {
	var req loginRequest
	if !c.BindBody(&req) {
		return
	}
	uid, err := authBackend.Authenticate(req.Login, req.Password)
	switch err.(type) {
	case nil:
	case security.UserNotFoundError, security.InvalidCredentialsError:
		log.Info("Failed login attempt", "login", req.Login, "error", err)
		c.RenderError(exceptions.NewPermissionError("wrong login or password"))
		return
	default:
		c.RenderError(err)
		return
	}
	if err := c.Login(uid); err != nil {
		c.RenderError(err)
		return
	}
	renderSessionUser(c, uid)
}

// Logout clears the session
func Logout(c *server.Context) {
	if err := c.Logout(); err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// SessionInfo returns the logged in user
func SessionInfo(c *server.Context) {
	uid := c.UID()
	if uid == 0 {
		c.RenderError(exceptions.NewPermissionError("not logged in"))
		return
	}
	renderSessionUser(c, uid)
}

// RequireLogin aborts requests without a logged in user
func RequireLogin(c *server.Context) {
	if c.UID() == 0 {
		c.RenderError(exceptions.NewPermissionError("you must be logged in to access the board"))
		return
	}
	c.Next()
}

func renderSessionUser(c *server.Context, uid int64) {
	var user sessionUser
	err := engine.Database().SimulateInNewEnvironment(c.Request.Context(), uid, func(env models.Environment) {
		caller := env.Caller(uid)
		user = sessionUser{
			UID:       caller.UID,
			Login:     caller.Login,
			Name:      caller.Name,
			CompanyID: caller.CompanyID,
			Groups:    caller.GroupIDs(),
		}
	})
	if err != nil {
		c.RenderError(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
