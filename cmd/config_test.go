// Copyright 2018 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package cmd

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestConfigShow(t *testing.T) {
	Convey("Testing config show", t, func() {
		viper.Set("DB.Password", "hunter2")
		viper.Set("Board.SessionSecret", "s3cr3t")
		viper.Set("Board.SequencePrefix", "VB")
		defer viper.Reset()
		var buf bytes.Buffer
		showCmd.SetOut(&buf)
		So(showCmd.RunE(showCmd, nil), ShouldBeNil)
		out := buf.String()
		So(out, ShouldContainSubstring, "sequenceprefix: VB")
		So(out, ShouldContainSubstring, "********")
		So(out, ShouldNotContainSubstring, "hunter2")
		So(out, ShouldNotContainSubstring, "s3cr3t")
	})
}

func TestEnvironmentSettings(t *testing.T) {
	Convey("Testing settings from the environment", t, func() {
		t.Setenv("BOARD_DB_DRIVER", "sqlite3")
		t.Setenv("BOARD_BOARD_SESSIONSECRET", "from-env")
		t.Setenv("BOARD_LOGLEVEL", "debug")
		defer viper.Reset()
		bindEnv()
		So(viper.GetString("DB.Driver"), ShouldEqual, "sqlite3")
		So(viper.GetString("Board.SessionSecret"), ShouldEqual, "from-env")
		So(viper.GetString("LogLevel"), ShouldEqual, "debug")
	})
}
