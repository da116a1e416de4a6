// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/pkg/errors"
)

// uidKey is the session key of the logged in user id
const uidKey = "uid"

// The Context allows to pass data across controller layers
// and middlewares.
type Context struct {
	*gin.Context
}

// Session returns the current Session instance
func (c *Context) Session() sessions.Session {
	return sessions.Default(c.Context)
}

// Super calls the next middleware / handler layer
// It is an alias for Next
func (c *Context) Super() {
	c.Next()
}

// UID returns the id of the logged in user, or 0 if there is none
func (c *Context) UID() int64 {
	uid, ok := c.Session().Get(uidKey).(int64)
	if !ok {
		return 0
	}
	return uid
}

// Login stores the given user id in the session
func (c *Context) Login(uid int64) error {
	sess := c.Session()
	sess.Set(uidKey, uid)
	return sess.Save()
}

// Logout clears the session
func (c *Context) Logout() error {
	sess := c.Session()
	sess.Clear()
	return sess.Save()
}

// BindBody binds the JSON body of the request to data. It writes a
// validation error response and returns false if the body is invalid.
func (c *Context) BindBody(data interface{}) bool {
	if err := c.ShouldBindJSON(data); err != nil {
		c.Error(errors.Wrap(err, "invalid request body"))
		c.RenderError(exceptions.NewValidationError("invalid request body: %s", err))
		return false
	}
	return true
}

// RenderError writes the error response for err and aborts the request.
func (c *Context) RenderError(err error) {
	code, data := ErrorStatus(err)
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error: Error{
			Code:    code,
			Message: "Board Resolutions Server Error",
			Data:    data,
		},
	})
}

// internalErrorMessage replaces the message of unexpected errors outside
// debug mode, as it may hold database details.
const internalErrorMessage = "internal server error"

// ErrorStatus returns the HTTP status code and response data for err
func ErrorStatus(err error) (int, ErrorData) {
	var (
		validation exceptions.ValidationError
		permission exceptions.PermissionError
		state      exceptions.StateError
		config     exceptions.ConfigurationError
		missing    exceptions.MissingError
		user       exceptions.UserError
	)
	data := ErrorData{Arguments: []string{err.Error()}}
	switch {
	case errors.As(err, &validation):
		data.ExceptionType = "validation_error"
		return http.StatusBadRequest, data
	case errors.As(err, &permission):
		data.ExceptionType = "access_error"
		return http.StatusForbidden, data
	case errors.As(err, &state):
		data.ExceptionType = "state_error"
		return http.StatusConflict, data
	case errors.As(err, &config):
		data.ExceptionType = "configuration_error"
		return http.StatusBadRequest, data
	case errors.As(err, &missing):
		data.ExceptionType = "missing_error"
		return http.StatusNotFound, data
	case errors.As(err, &user):
		data.ExceptionType = "user_error"
		data.Arguments = []string{internalErrorMessage}
		if gin.IsDebugging() {
			data.Arguments = []string{user.Message}
			data.Debug = user.Debug
		}
		return http.StatusInternalServerError, data
	}
	data.ExceptionType = "server_error"
	if !gin.IsDebugging() {
		data.Arguments = []string{internalErrorMessage}
	}
	return http.StatusInternalServerError, data
}

// randomSecret returns a random session secret
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Panic("Unable to generate session secret", "error", err)
	}
	return hex.EncodeToString(b)
}
