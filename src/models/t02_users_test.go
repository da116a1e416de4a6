// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"testing"

	"github.com/hexya-addons/boardresolutions/src/models/security"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPartnersAndUsers(t *testing.T) {
	Convey("Testing partners, users and authentication", t, func() {
		d := newTestDatabase()
		defer d.Close()
		var anna, bert, outsider int64
		mustExecute(d, func(env Environment) {
			anna = env.CreatePartner(&Partner{Name: "Anna", BoardMember: true, Active: true})
			bert = env.CreatePartner(&Partner{Name: "Bert", BoardMember: true, Active: true})
			env.CreatePartner(&Partner{Name: "Former", BoardMember: true, Active: false})
			outsider = env.CreatePartner(&Partner{Name: "Outsider", Active: true})
			env.CreatePartner(&Partner{Name: "Other Company", BoardMember: true, Active: true, CompanyID: 2})
			env.CreateUser(&User{Login: "admin", Name: "Administrator", Password: "admin", Active: true}, security.GroupResolutionAdminID)
			env.CreateUser(&User{Login: "anna", Name: "Anna", Password: "secret", PartnerID: anna, Active: true}, security.GroupBoardMemberID)
		})
		Convey("Only active board members of the company are on the roster", func() {
			roster, err := NewDirectory(d).BoardMembers(ctx, DefaultCompanyID)
			So(err, ShouldBeNil)
			So(roster.IDs(), ShouldResemble, []int64{anna, bert})
			So(roster.Contains(outsider), ShouldBeFalse)
			mustExecute(d, func(env Environment) {
				names := env.PartnerNames([]int64{anna, outsider})
				So(names, ShouldResemble, map[int64]string{anna: "Anna", outsider: "Outsider"})
				So(env.PartnerNames(nil), ShouldBeEmpty)
				list := env.BoardMemberList(DefaultCompanyID)
				So(list, ShouldHaveLength, 2)
				So(list[0].Name, ShouldEqual, "Anna")
				p := env.Partner(bert)
				p.BoardMember = false
				env.WritePartner(p)
				So(env.BoardMembers(DefaultCompanyID).IDs(), ShouldResemble, []int64{anna})
			})
		})
		Convey("Callers carry the groups of their user", func() {
			mustExecute(d, func(env Environment) {
				admin, ok := env.UserByLogin("admin")
				So(ok, ShouldBeTrue)
				So(admin.ID, ShouldEqual, security.SuperUserID)
				So(admin.Password, ShouldStartWith, "$pbkdf2-sha256$")
				c := env.Caller(2)
				So(c.Login, ShouldEqual, "anna")
				So(c.CompanyID, ShouldEqual, DefaultCompanyID)
				So(c.HasCapability(security.GroupBoardMemberID), ShouldBeTrue)
				So(c.HasCapability(security.GroupSecretaryID), ShouldBeFalse)
				So(env.UserGroups(2), ShouldResemble, []string{security.GroupBoardMemberID})
			})
		})
		Convey("The first secretary is found through group inheritance", func() {
			mustExecute(d, func(env Environment) {
				uid, ok := env.FirstUserInGroup(DefaultCompanyID, security.GroupSecretaryID)
				So(ok, ShouldBeTrue)
				So(uid, ShouldEqual, 1)
				env.Cr().Execute("UPDATE res_users SET active = ? WHERE id = ?", false, 1)
				_, ok = env.FirstUserInGroup(DefaultCompanyID, security.GroupSecretaryID)
				So(ok, ShouldBeFalse)
				uid, ok = env.FirstUserInGroup(DefaultCompanyID, security.GroupBoardMemberID)
				So(ok, ShouldBeTrue)
				So(uid, ShouldEqual, 2)
			})
		})
		Convey("Users authenticate with their password", func() {
			backend := NewDBAuthBackend(d)
			uid, err := backend.Authenticate("anna", "secret")
			So(err, ShouldBeNil)
			So(uid, ShouldEqual, 2)
			_, err = backend.Authenticate("anna", "wrong")
			So(err, ShouldEqual, security.InvalidCredentialsError("anna"))
			_, err = backend.Authenticate("nobody", "secret")
			So(err, ShouldEqual, security.UserNotFoundError("nobody"))
		})
	})
}
