// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import "github.com/hexya-addons/boardresolutions/src/server"

// Routes is the route table of the board API
var Routes *Group

// A Route binds a handler to an HTTP method and a path relative to its
// group.
type Route struct {
	Method  string
	Path    string
	Handler server.HandlerFunc
}

// A Group holds the routes and sub groups sharing a path prefix.
// Middlewares of a group run before the handlers of all its routes,
// sub groups included.
type Group struct {
	Prefix      string
	Middlewares []server.HandlerFunc
	Routes      []Route
	Groups      []*Group
}

// Sub returns the sub group of g at prefix, creating it if needed.
// The given middlewares are added to the sub group.
func (g *Group) Sub(prefix string, middlewares ...server.HandlerFunc) *Group {
	for _, sub := range g.Groups {
		if sub.Prefix == prefix {
			sub.Middlewares = append(sub.Middlewares, middlewares...)
			return sub
		}
	}
	sub := &Group{Prefix: prefix, Middlewares: middlewares}
	g.Groups = append(g.Groups, sub)
	return sub
}

// Add registers handler for method at path and returns g.
// It panics if the route is already in the group.
func (g *Group) Add(method, path string, handler server.HandlerFunc) *Group {
	for _, r := range g.Routes {
		if r.Method == method && r.Path == path {
			log.Panic("Route already defined", "method", method, "prefix", g.Prefix, "path", path)
		}
	}
	g.Routes = append(g.Routes, Route{Method: method, Path: path, Handler: handler})
	return g
}

// mount creates the routes of g and of its sub groups under base, in
// the order they were added.
func (g *Group) mount(base *server.RouterGroup) {
	rg := base.Group(g.Prefix, g.Middlewares...)
	for _, r := range g.Routes {
		rg.Handle(r.Method, r.Path, r.Handler)
	}
	for _, sub := range g.Groups {
		sub.mount(rg)
	}
}
