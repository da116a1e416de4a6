// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
)

// A HandlerFunc handles a board API request or acts as a middleware
type HandlerFunc func(*Context)

// A RouterGroup registers board API routes under a common prefix
type RouterGroup struct {
	gin.RouterGroup
}

// adapt returns the gin handlers running handlers on a board Context
func adapt(handlers []HandlerFunc) []gin.HandlerFunc {
	res := make([]gin.HandlerFunc, len(handlers))
	for i, h := range handlers {
		h := h
		res[i] = func(c *gin.Context) {
			h(&Context{Context: c})
		}
	}
	return res
}

// countRequests returns the gin handler counting the requests of the
// given route by status once they are served.
func countRequests(method, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.Requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Group returns the sub group of rg at prefix. Middlewares run before
// the handlers of all routes of the sub group.
func (rg *RouterGroup) Group(prefix string, middlewares ...HandlerFunc) *RouterGroup {
	return &RouterGroup{RouterGroup: *rg.RouterGroup.Group(prefix, adapt(middlewares)...)}
}

// Use adds middlewares to all routes of rg
func (rg *RouterGroup) Use(middlewares ...HandlerFunc) {
	rg.RouterGroup.Use(adapt(middlewares)...)
}

// Handle registers handlers for method at path. The last handler
// should write the response.
func (rg *RouterGroup) Handle(method, path string, handlers ...HandlerFunc) {
	route := rg.BasePath()
	if path != "" {
		route = joinPath(route, path)
	}
	chain := append([]gin.HandlerFunc{countRequests(method, route)}, adapt(handlers)...)
	rg.RouterGroup.Handle(method, path, chain...)
}

func joinPath(base, path string) string {
	if base == "/" || base == "" {
		return path
	}
	if base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + path
}
