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
	"fmt"
	"sort"
	"sync"
)

const (
	// SuperUserID is the uid of the administrator. It is granted every group.
	SuperUserID int64 = 1
	// GroupEveryoneID is the id of the group implied by all others
	GroupEveryoneID = "base_group_user"
	// GroupBoardMemberID is the id of the board members group
	GroupBoardMemberID = "board_member"
	// GroupSecretaryID is the id of the group allowed to approve resolutions
	GroupSecretaryID = "board_secretary"
	// GroupResolutionAdminID is the id of the group allowed to override
	// approved resolutions
	GroupResolutionAdminID = "board_resolution_admin"
)

// Registry is the group registry of the application
var Registry *GroupRegistry

var (
	// GroupEveryone is implied by all other groups
	GroupEveryone *Group
	// GroupBoardMember is the group of the members of the board
	GroupBoardMember *Group
	// GroupSecretary is the group of the board secretaries
	GroupSecretary *Group
	// GroupResolutionAdmin is the group of resolution administrators
	GroupResolutionAdmin *Group
)

// A Group defines a role which grants capabilities on resolutions.
// Groups can inherit from other groups and get their capabilities.
type Group struct {
	id       string
	name     string
	inherits map[*Group]bool
}

// ID returns the ID of the group
func (g *Group) ID() string {
	return g.id
}

// Name returns the display name of the group
func (g *Group) Name() string {
	return g.name
}

// String returns the string representation of the group
func (g *Group) String() string {
	return fmt.Sprintf("Group(%s)", g.id)
}

// Implies returns true if this group is other or inherits from it,
// directly or not.
func (g *Group) Implies(other *Group) bool {
	if g == nil || other == nil {
		return false
	}
	if g == other || other.id == GroupEveryoneID {
		return true
	}
	for parent := range g.inherits {
		if parent.Implies(other) {
			return true
		}
	}
	return false
}

// ImpliedGroups returns the groups this group directly inherits from
func (g *Group) ImpliedGroups() []*Group {
	res := make([]*Group, 0, len(g.inherits))
	for parent := range g.inherits {
		res = append(res, parent)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].id < res[j].id
	})
	return res
}

// A GroupRegistry holds all the groups of the application
type GroupRegistry struct {
	sync.RWMutex
	groups map[string]*Group
}

// NewGroup creates and registers a new group. It panics if a group
// with the same id already exists.
func (gr *GroupRegistry) NewGroup(id, name string, inherits ...*Group) *Group {
	gr.Lock()
	defer gr.Unlock()
	if _, exists := gr.groups[id]; exists {
		log.Panic("Trying to add already existing group", "groupID", id)
	}
	g := &Group{
		id:       id,
		name:     name,
		inherits: make(map[*Group]bool),
	}
	for _, parent := range inherits {
		g.inherits[parent] = true
	}
	gr.groups[id] = g
	return g
}

// GetGroup returns the group with the given id or nil if not found
func (gr *GroupRegistry) GetGroup(id string) *Group {
	gr.RLock()
	defer gr.RUnlock()
	return gr.groups[id]
}

// AllGroups returns all the groups of the registry sorted by id
func (gr *GroupRegistry) AllGroups() []*Group {
	gr.RLock()
	defer gr.RUnlock()
	res := make([]*Group, 0, len(gr.groups))
	for _, g := range gr.groups {
		res = append(res, g)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].id < res[j].id
	})
	return res
}

// UnregisterGroup removes the given group from the registry and from
// the inheritance of all other groups.
func (gr *GroupRegistry) UnregisterGroup(group *Group) {
	gr.Lock()
	defer gr.Unlock()
	delete(gr.groups, group.id)
	for _, g := range gr.groups {
		delete(g.inherits, group)
	}
}

// NewGroupRegistry returns a registry holding only the group everyone.
func NewGroupRegistry() *GroupRegistry {
	gr := &GroupRegistry{
		groups: make(map[string]*Group),
	}
	return gr
}

func init() {
	Registry = NewGroupRegistry()
	GroupEveryone = Registry.NewGroup(GroupEveryoneID, "Everyone")
	GroupBoardMember = Registry.NewGroup(GroupBoardMemberID, "Board Member", GroupEveryone)
	GroupSecretary = Registry.NewGroup(GroupSecretaryID, "Board Secretary", GroupBoardMember)
	GroupResolutionAdmin = Registry.NewGroup(GroupResolutionAdminID, "Resolution Administrator", GroupSecretary)
	AuthenticationRegistry = new(AuthBackendRegistry)
}
