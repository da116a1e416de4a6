// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package tests provides databases and fixtures for the tests of the
// packages working on the board database.
package tests

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

var (
	driver, user, password, prefix string
	createdDBs                     []string
)

// RunTests initializes logging, runs the tests given by m and drops the
// PostgreSQL databases created for them.
//
// It is meant to be used in the TestMain of packages testing with a
// database:
//
//	func TestMain(m *testing.M) {
//	    tests.RunTests(m, "workflow")
//	}
func RunTests(m *testing.M, packageName string) {
	var res int
	defer func() {
		TearDownTests(packageName)
		if r := recover(); r != nil {
			panic(r)
		}
		os.Exit(res)
	}()
	InitializeTests(packageName)
	res = m.Run()
}

// InitializeTests reads the test settings from the environment and
// initializes logging. You probably want to use RunTests instead.
//
// Tests run on in-memory SQLite databases unless BOARD_DB_DRIVER is set
// to postgres.
func InitializeTests(packageName string) {
	driver = os.Getenv("BOARD_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	user = os.Getenv("BOARD_DB_USER")
	if user == "" {
		user = "board"
	}
	password = os.Getenv("BOARD_DB_PASSWORD")
	if password == "" {
		password = "board"
	}
	prefix = os.Getenv("BOARD_DB_PREFIX")
	if prefix == "" {
		prefix = "board"
	}
	viper.Set("LogLevel", "panic")
	if os.Getenv("BOARD_LOG") != "" {
		viper.Set("LogLevel", "info")
		viper.Set("LogStdout", true)
	}
	if os.Getenv("BOARD_DEBUG") != "" {
		viper.Set("Debug", true)
		viper.Set("LogLevel", "debug")
		viper.Set("LogStdout", true)
	}
	logging.Initialize()
	if driver != "sqlite" {
		fmt.Printf("Initializing %s tests for package %s\n", driver, packageName)
	}
}

// NewDatabase returns a new empty database with an up to date schema
func NewDatabase() *models.Database {
	params := models.ConnectionParams{}
	if driver == "postgres" {
		dbName := fmt.Sprintf("%s_tests_%d", prefix, len(createdDBs)+1)
		db := sqlx.MustConnect(driver, fmt.Sprintf("dbname=postgres sslmode=disable user=%s password=%s", user, password))
		db.MustExec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
		db.MustExec(fmt.Sprintf("CREATE DATABASE %s", dbName))
		db.Close()
		createdDBs = append(createdDBs, dbName)
		params = models.ConnectionParams{
			DBName:   dbName,
			User:     user,
			Password: password,
			SSLMode:  "disable",
		}
	}
	d, err := models.DBConnect(driver, params)
	if err != nil {
		panic(err)
	}
	if err := d.SyncDatabase(context.Background()); err != nil {
		panic(err)
	}
	return d
}

// TearDownTests drops the databases created for the given package
func TearDownTests(packageName string) {
	if len(createdDBs) == 0 || os.Getenv("BOARD_KEEP_TEST_DB") != "" {
		return
	}
	fmt.Printf("Tearing down databases for package %s...", packageName)
	db := sqlx.MustConnect(driver, fmt.Sprintf("dbname=postgres sslmode=disable user=%s password=%s", user, password))
	for _, dbName := range createdDBs {
		db.MustExec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	}
	db.Close()
	createdDBs = nil
	fmt.Println("Ok")
}

// A Fixture is a database holding a board of seven members, one
// outsider, three users and three meeting types.
type Fixture struct {
	DB *models.Database
	// Members are the partner ids of the board members
	Members  []int64
	Outsider int64
	// AdminUID is the super user, member of the resolution administrators
	AdminUID     int64
	SecretaryUID int64
	MemberUID    int64
	// Regular is half plus one with simple majority
	Regular *board.MeetingType
	// Statutes is two thirds with two thirds majority, secret ballots only
	Statutes *board.MeetingType
	// Custom uses a custom quorum formula and a 55% majority
	Custom *board.MeetingType
}

// memberNames are the names of the board members of a Fixture
var memberNames = []string{"Anna Albers", "Bert Brandt", "Carla Claus", "Dirk Dammann", "Emma Ernst", "Frank Fuchs", "Greta Graf"}

// NewFixture returns a new database filled with the fixture records
func NewFixture() *Fixture {
	f := &Fixture{DB: NewDatabase()}
	err := f.DB.ExecuteInNewEnvironment(context.Background(), security.SuperUserID, func(env models.Environment) {
		f.AdminUID = env.CreateUser(&models.User{Login: "admin", Name: "Administrator", Password: "admin", Active: true},
			security.GroupResolutionAdminID)
		for _, name := range memberNames {
			f.Members = append(f.Members, env.CreatePartner(&models.Partner{Name: name, BoardMember: true, Active: true}))
		}
		f.Outsider = env.CreatePartner(&models.Partner{Name: "Otto Outsider", Active: true})
		f.SecretaryUID = env.CreateUser(&models.User{Login: "bert", Name: "Bert Brandt", Password: "secret",
			PartnerID: f.Members[1], Active: true}, security.GroupSecretaryID)
		f.MemberUID = env.CreateUser(&models.User{Login: "anna", Name: "Anna Albers", Password: "secret",
			PartnerID: f.Members[0], Active: true}, security.GroupBoardMemberID)

		f.Regular = board.NewMeetingType("ORD", "Ordentliche Vorstandssitzung")
		f.Regular.Sequence = 1
		env.CreateMeetingType(f.Regular)

		f.Statutes = board.NewMeetingType("SAT", "Satzungsänderung")
		f.Statutes.Sequence = 2
		f.Statutes.QuorumType = board.QuorumTwoThirds
		f.Statutes.VotingMajority = board.MajorityTwoThirds
		f.Statutes.AllowOpenBallot = false
		env.CreateMeetingType(f.Statutes)

		f.Custom = board.NewMeetingType("CUS", "Sondersitzung")
		f.Custom.Sequence = 3
		f.Custom.QuorumType = board.QuorumCustom
		f.Custom.QuorumCustomFormula = "total_members // 2"
		f.Custom.VotingMajority = board.MajorityCustom
		f.Custom.VotingMajorityCustom = 55
		env.CreateMeetingType(f.Custom)
	})
	if err != nil {
		panic(err)
	}
	return f
}

// Close closes the database of the fixture
func (f *Fixture) Close() {
	f.DB.Close()
}

// SetCustomFormula stores a new custom quorum formula without checking
// it, as if it had been saved by an older version.
func (f *Fixture) SetCustomFormula(formula string) {
	err := f.DB.ExecuteInNewEnvironment(context.Background(), security.SuperUserID, func(env models.Environment) {
		env.Cr().Execute("UPDATE board_meeting_type SET quorum_custom_formula = ? WHERE id = ?", formula, f.Custom.ID)
	})
	if err != nil {
		panic(err)
	}
	f.Custom.QuorumCustomFormula = formula
}
