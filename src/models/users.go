// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/tools/password"
)

// A User can log in and act on resolutions according to its groups
type User struct {
	ID        int64  `db:"id" json:"id"`
	Login     string `db:"login" json:"login"`
	Name      string `db:"name" json:"name"`
	Password  string `db:"password" json:"-"`
	PartnerID int64  `db:"partner_id" json:"partner_id"`
	Active    bool   `db:"active" json:"active"`
	CompanyID int64  `db:"company_id" json:"company_id"`
}

// CreateUser inserts the given user with the given groups and sets its
// ID. A clear text password is hashed before storage.
func (env Environment) CreateUser(u *User, groupIDs ...string) int64 {
	if u.CompanyID == 0 {
		u.CompanyID = DefaultCompanyID
	}
	if u.Password != "" && !strings.HasPrefix(u.Password, "$") {
		hash, err := password.Hash(u.Password)
		if err != nil {
			panic(err)
		}
		u.Password = hash
	}
	u.ID = insertRecord(env, "res_users", u)
	env.SetUserGroups(u.ID, groupIDs...)
	return u.ID
}

// User returns the user with the given id
func (env Environment) User(id int64) *User {
	var u User
	if !env.Cr().Find(&u, "SELECT * FROM res_users WHERE id = ?", id) {
		panic(missingError("res_users", id))
	}
	return &u
}

// UserByLogin returns the active user with the given login
func (env Environment) UserByLogin(login string) (*User, bool) {
	var u User
	if !env.Cr().Find(&u, "SELECT * FROM res_users WHERE login = ? AND active = ?", login, true) {
		return nil, false
	}
	return &u, true
}

// UserName returns the display name of the user with the given id, or
// its login if it has no name.
func (env Environment) UserName(id int64) (string, bool) {
	var u User
	if !env.Cr().Find(&u, "SELECT * FROM res_users WHERE id = ?", id) {
		return "", false
	}
	if u.Name == "" {
		return u.Login, true
	}
	return u.Name, true
}

// SetUserPassword stores the hash of the given clear text password
func (env Environment) SetUserPassword(id int64, secret string) {
	hash, err := password.Hash(secret)
	if err != nil {
		panic(err)
	}
	env.Cr().Execute("UPDATE res_users SET password = ? WHERE id = ?", hash, id)
}

// UserGroups returns the sorted ids of the groups the user belongs to
func (env Environment) UserGroups(id int64) []string {
	var res []string
	env.Cr().Select(&res, "SELECT group_id FROM res_groups_users_rel WHERE user_id = ? ORDER BY group_id", id)
	return res
}

// SetUserGroups replaces the groups of the user
func (env Environment) SetUserGroups(id int64, groupIDs ...string) {
	env.Cr().Execute("DELETE FROM res_groups_users_rel WHERE user_id = ?", id)
	for _, gid := range groupIDs {
		if security.Registry.GetGroup(gid) == nil {
			log.Panic("Unknown group", "group", gid, "user", id)
		}
		env.Cr().Execute("INSERT INTO res_groups_users_rel (user_id, group_id) VALUES (?, ?)", id, gid)
	}
}

// Caller returns the caller for the user with the given id
func (env Environment) Caller(uid int64) *security.Caller {
	var u User
	if !env.Cr().Find(&u, "SELECT * FROM res_users WHERE id = ? AND active = ?", uid, true) {
		if uid == security.SuperUserID {
			return security.SuperUser()
		}
		panic(missingError("res_users", uid))
	}
	c := security.NewCaller(u.ID, u.Login, u.Name, env.UserGroups(u.ID)...)
	c.CompanyID = u.CompanyID
	return c
}

// FirstUserInGroup returns the id of the first active user of the company
// belonging to the given group, directly or through an inheriting group.
func (env Environment) FirstUserInGroup(companyID int64, groupID string) (int64, bool) {
	target := security.Registry.GetGroup(groupID)
	if target == nil {
		return 0, false
	}
	var rels []struct {
		UserID  int64  `db:"user_id"`
		GroupID string `db:"group_id"`
	}
	env.Cr().Select(&rels, `
		SELECT r.user_id, r.group_id
		FROM res_groups_users_rel r
		JOIN res_users u ON u.id = r.user_id
		WHERE u.active = ? AND u.company_id = ?
		ORDER BY r.user_id, r.group_id`, true, companyID)
	for _, rel := range rels {
		if g := security.Registry.GetGroup(rel.GroupID); g != nil && g.Implies(target) {
			return rel.UserID, true
		}
	}
	return 0, false
}

// A DBAuthBackend authenticates users against the res_users table
type DBAuthBackend struct {
	db *Database
}

// NewDBAuthBackend returns an authentication backend reading from d
func NewDBAuthBackend(d *Database) *DBAuthBackend {
	return &DBAuthBackend{db: d}
}

// Authenticate returns the id of the user with the given login if the
// secret matches its password. Outdated hashes are upgraded.
func (b *DBAuthBackend) Authenticate(login, secret string) (int64, error) {
	var (
		uid     int64
		authErr error
	)
	err := b.db.ExecuteInNewEnvironment(context.Background(), security.SuperUserID, func(env Environment) {
		u, ok := env.UserByLogin(login)
		if !ok {
			authErr = security.UserNotFoundError(login)
			return
		}
		if !password.Verify(secret, u.Password) {
			authErr = security.InvalidCredentialsError(login)
			return
		}
		if password.NeedsRehash(u.Password) {
			env.SetUserPassword(u.ID, secret)
		}
		uid = u.ID
	})
	if err != nil {
		return 0, err
	}
	return uid, authErr
}

var _ security.AuthBackend = new(DBAuthBackend)
