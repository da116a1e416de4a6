// Copyright 2016 NDP Systèmes. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package security

import (
	"sort"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/tools/logging"
)

var log = logging.GetLogger("security")

// A Caller is the authenticated user on whose behalf an operation runs.
type Caller struct {
	UID   int64
	Login string
	Name  string
	// CompanyID is the tenant the caller works in
	CompanyID int64
	groups    map[*Group]bool
}

// NewCaller returns a Caller that belongs to the groups with the given
// ids. Unknown group ids are ignored and logged.
func NewCaller(uid int64, login, name string, groupIDs ...string) *Caller {
	c := &Caller{
		UID:    uid,
		Login:  login,
		Name:   name,
		groups: map[*Group]bool{GroupEveryone: true},
	}
	for _, id := range groupIDs {
		g := Registry.GetGroup(id)
		if g == nil {
			log.Warn("Unknown group for caller", "uid", uid, "group", id)
			continue
		}
		c.groups[g] = true
	}
	return c
}

// SuperUser returns the caller used by the system itself, e.g. for
// scheduled jobs.
func SuperUser() *Caller {
	return NewCaller(SuperUserID, "__system__", "System", GroupResolutionAdminID)
}

// HasGroup returns true if this caller is a member of the group with the
// given id, directly or through inheritance.
func (c *Caller) HasGroup(groupID string) bool {
	if c == nil {
		return false
	}
	if c.UID == SuperUserID {
		return true
	}
	target := Registry.GetGroup(groupID)
	if target == nil {
		return false
	}
	for g := range c.groups {
		if g.Implies(target) {
			return true
		}
	}
	return false
}

// HasCapability returns true if this caller holds the given capability.
// Capabilities are the ids of the groups granting them.
func (c *Caller) HasCapability(capability string) bool {
	return c.HasGroup(capability)
}

// UserID returns the id of the user
func (c *Caller) UserID() int64 {
	return c.UID
}

// UserName returns the display name of the user, or its login if it has
// no name.
func (c *Caller) UserName() string {
	if c.Name == "" {
		return c.Login
	}
	return c.Name
}

// GroupIDs returns the sorted ids of the groups the caller is directly
// a member of.
func (c *Caller) GroupIDs() []string {
	res := make([]string, 0, len(c.groups))
	for g := range c.groups {
		res = append(res, g.id)
	}
	sort.Strings(res)
	return res
}

// String returns a representation of the caller for logs
func (c *Caller) String() string {
	return c.Login + "(" + strings.Join(c.GroupIDs(), ",") + ")"
}
