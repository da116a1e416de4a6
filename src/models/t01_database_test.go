// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"errors"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/models/fieldtype"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDatabase(t *testing.T) {
	Convey("Testing database schema and transactions", t, func() {
		d := newTestDatabase()
		defer d.Close()
		So(d.DriverName(), ShouldEqual, "sqlite")
		So(d.Ping(), ShouldBeNil)
		Convey("Every column type has a SQL type in all adapters", func() {
			for _, typ := range fieldtype.All {
				So(sqliteTypes, ShouldContainKey, typ)
				So(pgTypes, ShouldContainKey, typ)
			}
		})
		Convey("All tables are created and synchronizing again is a no-op", func() {
			mustExecute(d, func(env Environment) {
				tables := d.adapter.tables(env.Cr())
				for _, t := range schema {
					So(tables[t.name], ShouldBeTrue)
				}
				cols := d.adapter.columns(env.Cr(), "board_resolution")
				So(cols, ShouldContainKey, "frozen_majority")
				So(cols["title"].IsNullable, ShouldEqual, "NO")
			})
			So(d.SyncDatabase(ctx), ShouldBeNil)
		})
		Convey("Panics roll back and user facing errors are returned as is", func() {
			err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
				env.CreatePartner(&Partner{Name: "Rolled Back", Active: true})
				panic(exceptions.NewValidationError("stop here"))
			})
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
			So(err.Error(), ShouldEqual, "stop here")
			mustExecute(d, func(env Environment) {
				var cnt int
				env.Cr().Get(&cnt, "SELECT COUNT(*) FROM res_partner")
				So(cnt, ShouldEqual, 0)
			})
		})
		Convey("Other panics become user errors", func() {
			err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
				env.Cr().Execute("SELECT * FROM no_such_table")
			})
			So(err, ShouldHaveSameTypeAs, exceptions.UserError{})
		})
		Convey("Missing records give a MissingError", func() {
			err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
				env.Partner(42)
			})
			var missing exceptions.MissingError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Model, ShouldEqual, "res.partner")
			So(missing.ID, ShouldEqual, 42)
		})
		Convey("Simulated environments always roll back", func() {
			err := d.SimulateInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
				env.CreatePartner(&Partner{Name: "Simulated", Active: true})
			})
			So(err, ShouldBeNil)
			mustExecute(d, func(env Environment) {
				So(env.BoardMemberList(DefaultCompanyID), ShouldBeEmpty)
				var cnt int
				env.Cr().Get(&cnt, "SELECT COUNT(*) FROM res_partner")
				So(cnt, ShouldEqual, 0)
			})
		})
		Convey("Unique violations are validation errors", func() {
			mustExecute(d, func(env Environment) {
				env.CreateUser(&User{Login: "anna", Active: true})
			})
			err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
				env.CreateUser(&User{Login: "anna", Active: true})
			})
			So(err, ShouldHaveSameTypeAs, exceptions.ValidationError{})
		})
	})
}

func TestConnectionString(t *testing.T) {
	Convey("Testing connection strings", t, func() {
		pg := new(postgresAdapter)
		So(pg.connectionString(ConnectionParams{DBName: "board", User: "hexya", Password: "secret", Host: "localhost"}),
			ShouldEqual, "dbname=board host=localhost user=hexya password=secret sslmode=disable")
		lite := new(sqliteAdapter)
		So(lite.connectionString(ConnectionParams{}), ShouldStartWith, "file::memory:?_pragma=")
		So(lite.connectionString(ConnectionParams{DBName: "/var/lib/board.db"}), ShouldStartWith, "file:/var/lib/board.db?")
		_, err := DBConnect("oracle", ConnectionParams{})
		So(err, ShouldNotBeNil)
	})
}
