// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	. "github.com/smartystreets/goconvey/convey"
)

const meetingTypesXML = `<?xml version="1.0" encoding="utf-8"?>
<hexya>
    <data>
        <record id="meeting_type_regular" model="BoardMeetingType">
            <field name="code">ORD</field>
            <field name="name">Ordentliche Sitzung</field>
            <field name="sequence">1</field>
            <field name="quorum_type">half_plus_one</field>
        </record>
        <record id="meeting_type_statutes" model="BoardMeetingType">
            <field name="code">SAT</field>
            <field name="name">Satzungsänderung</field>
            <field name="quorum_type">two_thirds</field>
            <field name="voting_majority">custom</field>
            <field name="voting_majority_custom">75</field>
            <field name="allow_secret_ballot">false</field>
        </record>
    </data>
</hexya>
`

const partnersCSV = `name,email,board_member,active
Anna Vorsitz,anna@example.org,true,
Bert Kasse,bert@example.org,1,true
Gast,,false,
`

const usersCSV = `login,name,password,partner,groups
anna,Anna Vorsitz,secret,Anna Vorsitz,board_secretary
bert,Bert Kasse,secret,Bert Kasse,board_member|board_resolution_admin
`

func writeDataFile(dir, name, content string) string {
	fileName := filepath.Join(dir, name)
	if err := os.WriteFile(fileName, []byte(content), 0644); err != nil {
		panic(err)
	}
	return fileName
}

func TestDataFiles(t *testing.T) {
	Convey("Testing data file loading", t, func() {
		d := newTestDatabase()
		defer d.Close()
		dir := t.TempDir()
		writeDataFile(dir, "board_meeting_types.xml", meetingTypesXML)
		writeDataFile(dir, "010_res_partner.csv", partnersCSV)
		writeDataFile(dir, "020_res_users.csv", usersCSV)
		So(d.LoadDataDir(ctx, dir), ShouldBeNil)
		Convey("Meeting types are created from XML records", func() {
			mustExecute(d, func(env Environment) {
				types := env.SearchMeetingTypes(DefaultCompanyID, true)
				So(types, ShouldHaveLength, 2)
				So(types[0].Code, ShouldEqual, "ORD")
				sat, ok := env.MeetingTypeByCode(DefaultCompanyID, "SAT")
				So(ok, ShouldBeTrue)
				So(sat.QuorumType, ShouldEqual, board.QuorumTwoThirds)
				So(sat.VotingMajority, ShouldEqual, board.MajorityCustom)
				So(sat.VotingMajorityCustom, ShouldEqual, 75)
				So(sat.AllowSecretBallot, ShouldBeFalse)
				So(sat.AllowOpenBallot, ShouldBeTrue)
			})
		})
		Convey("Partners and users are created from CSV files", func() {
			mustExecute(d, func(env Environment) {
				So(env.BoardMemberList(DefaultCompanyID), ShouldHaveLength, 2)
				anna, ok := env.UserByLogin("anna")
				So(ok, ShouldBeTrue)
				So(env.Partner(anna.PartnerID).Name, ShouldEqual, "Anna Vorsitz")
				So(env.Caller(anna.ID).HasGroup(security.GroupSecretaryID), ShouldBeTrue)
				bert, _ := env.UserByLogin("bert")
				So(env.UserGroups(bert.ID), ShouldResemble, []string{security.GroupBoardMemberID, security.GroupResolutionAdminID})
			})
			uid, err := NewDBAuthBackend(d).Authenticate("bert", "secret")
			So(err, ShouldBeNil)
			So(uid, ShouldBeGreaterThan, 0)
		})
		Convey("Loading twice does not duplicate records", func() {
			So(d.LoadDataDir(ctx, dir), ShouldBeNil)
			mustExecute(d, func(env Environment) {
				So(env.SearchMeetingTypes(DefaultCompanyID, true), ShouldHaveLength, 2)
				var cnt int
				env.Cr().Get(&cnt, "SELECT COUNT(*) FROM res_partner")
				So(cnt, ShouldEqual, 3)
			})
		})
		Convey("Data files of subdirectories are loaded", func() {
			sub := filepath.Join(dir, "extra")
			So(os.Mkdir(sub, 0755), ShouldBeNil)
			writeDataFile(sub, "general_assembly.xml",
				`<hexya><data><record id="meeting_type_assembly" model="BoardMeetingType"><field name="code">AO</field><field name="name">Außerordentliche Sitzung</field></record></data></hexya>`)
			So(d.LoadDataDir(ctx, dir), ShouldBeNil)
			mustExecute(d, func(env Environment) {
				_, ok := env.MeetingTypeByCode(DefaultCompanyID, "AO")
				So(ok, ShouldBeTrue)
			})
		})
		Convey("Unknown fields are reported", func() {
			fileName := writeDataFile(t.TempDir(), "bad.xml",
				`<hexya><data><record id="x" model="BoardMeetingType"><field name="colour">1</field></record></data></hexya>`)
			So(d.LoadXMLDataFile(ctx, fileName), ShouldNotBeNil)
		})
	})
}
