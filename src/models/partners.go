// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
)

// DefaultCompanyID is the company of records created without one
const DefaultCompanyID int64 = 1

// A Partner is a person known to the association. Board members are the
// partners with the BoardMember flag.
type Partner struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Email       string `db:"email" json:"email"`
	BoardMember bool   `db:"board_member" json:"board_member"`
	Active      bool   `db:"active" json:"active"`
	CompanyID   int64  `db:"company_id" json:"company_id"`
}

// CreatePartner inserts the given partner and sets its ID
func (env Environment) CreatePartner(p *Partner) int64 {
	if p.CompanyID == 0 {
		p.CompanyID = DefaultCompanyID
	}
	p.ID = insertRecord(env, "res_partner", p)
	return p.ID
}

// WritePartner updates the given partner
func (env Environment) WritePartner(p *Partner) {
	updateRecord(env, "res_partner", p.ID, p)
}

// Partner returns the partner with the given id
func (env Environment) Partner(id int64) *Partner {
	var p Partner
	if !env.Cr().Find(&p, "SELECT * FROM res_partner WHERE id = ?", id) {
		panic(missingError("res_partner", id))
	}
	return &p
}

// BoardMembers returns the ids of the active board members of the company
func (env Environment) BoardMembers(companyID int64) board.MemberSet {
	var ids []int64
	env.Cr().Select(&ids, "SELECT id FROM res_partner WHERE board_member = ? AND active = ? AND company_id = ?", true, true, companyID)
	return board.NewMemberSet(ids...)
}

// BoardMemberList returns the active board members of the company by name
func (env Environment) BoardMemberList(companyID int64) []*Partner {
	var res []*Partner
	env.Cr().Select(&res, "SELECT * FROM res_partner WHERE board_member = ? AND active = ? AND company_id = ? ORDER BY name, id", true, true, companyID)
	return res
}

// PartnerNames returns the names of the given partners
func (env Environment) PartnerNames(ids []int64) map[int64]string {
	res := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return res
	}
	var partners []*Partner
	env.Cr().Select(&partners, "SELECT * FROM res_partner WHERE id IN (?)", ids)
	for _, p := range partners {
		res[p.ID] = p.Name
	}
	return res
}

// A Directory gives the roster of board members from the database
type Directory struct {
	db *Database
}

// NewDirectory returns a Directory reading from d
func NewDirectory(d *Database) *Directory {
	return &Directory{db: d}
}

// BoardMembers returns the ids of all eligible members of the company
func (dir *Directory) BoardMembers(ctx context.Context, companyID int64) (board.MemberSet, error) {
	var res board.MemberSet
	err := dir.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		res = env.BoardMembers(companyID)
	})
	return res, err
}

var _ board.MemberDirectory = new(Directory)
