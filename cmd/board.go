// Copyright 2017 NDP Systèmes. All Rights Reserved.
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

// Package cmd holds the commands of the board command line tool.
package cmd

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log logging.Logger

// BoardCmd is the base 'board' command of the commander
var BoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Board resolutions of Kulturhaus Bortfeld e.V.",
	Long: `Board manages the resolutions of the board of Kulturhaus Bortfeld e.V.
It numbers resolutions, checks quorum and majority and keeps the approval trail.`,
}

// Execute runs the command given on the command line
func Execute() {
	if err := BoardCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log = logging.GetLogger("init")
	cobra.OnInitialize(initConfig)

	BoardCmd.PersistentFlags().StringP("config", "c", "", "Alternate configuration file to read. Defaults to $HOME/.board/")
	viper.BindPFlag("ConfigFileName", BoardCmd.PersistentFlags().Lookup("config"))

	BoardCmd.PersistentFlags().StringP("log-level", "L", "info", "Log level. Should be one of 'debug', 'info', 'warn', 'error' or 'panic'")
	viper.BindPFlag("LogLevel", BoardCmd.PersistentFlags().Lookup("log-level"))
	BoardCmd.PersistentFlags().String("log-file", "", "File to which the log will be written")
	viper.BindPFlag("LogFile", BoardCmd.PersistentFlags().Lookup("log-file"))
	BoardCmd.PersistentFlags().BoolP("log-stdout", "o", false, "Enable stdout logging. Use for development or debugging.")
	viper.BindPFlag("LogStdout", BoardCmd.PersistentFlags().Lookup("log-stdout"))
	BoardCmd.PersistentFlags().Bool("debug", false, "Enable server debug mode for development")
	viper.BindPFlag("Debug", BoardCmd.PersistentFlags().Lookup("debug"))

	BoardCmd.PersistentFlags().String("data-dir", "", "Path to the directory where the server should store its data")
	viper.BindPFlag("DataDir", BoardCmd.PersistentFlags().Lookup("data-dir"))
	BoardCmd.PersistentFlags().String("resource-dir", "./resources", "Path to the directory holding the data and demo records")
	viper.BindPFlag("ResourceDir", BoardCmd.PersistentFlags().Lookup("resource-dir"))

	BoardCmd.PersistentFlags().String("db-driver", "postgres", "Database driver to use: 'postgres' or 'sqlite'")
	viper.BindPFlag("DB.Driver", BoardCmd.PersistentFlags().Lookup("db-driver"))
	BoardCmd.PersistentFlags().String("db-sslmode", "disable", "Database driver sslmode")
	viper.BindPFlag("DB.SSLMode", BoardCmd.PersistentFlags().Lookup("db-sslmode"))
	BoardCmd.PersistentFlags().String("db-host", "/var/run/postgresql",
		"The database host to connect to. Values that start with / are for unix domain sockets directory")
	viper.BindPFlag("DB.Host", BoardCmd.PersistentFlags().Lookup("db-host"))
	BoardCmd.PersistentFlags().String("db-port", "5432", "Database port. Value is ignored if db-host is not set")
	viper.BindPFlag("DB.Port", BoardCmd.PersistentFlags().Lookup("db-port"))
	BoardCmd.PersistentFlags().String("db-user", "", "Database user. Defaults to current user")
	viper.BindPFlag("DB.User", BoardCmd.PersistentFlags().Lookup("db-user"))
	BoardCmd.PersistentFlags().String("db-password", "", "Database password. Leave empty when connecting through socket")
	viper.BindPFlag("DB.Password", BoardCmd.PersistentFlags().Lookup("db-password"))
	BoardCmd.PersistentFlags().String("db-name", "board", "Database name, or file path for sqlite")
	viper.BindPFlag("DB.Name", BoardCmd.PersistentFlags().Lookup("db-name"))

	BoardCmd.PersistentFlags().String("default-meeting-type", "", "Code of the meeting type of new resolutions")
	viper.BindPFlag("Board.DefaultMeetingType", BoardCmd.PersistentFlags().Lookup("default-meeting-type"))
	BoardCmd.PersistentFlags().Int("approval-deadline", 7, "Number of days given to secretaries to approve a resolution")
	viper.BindPFlag("Board.ApprovalDeadlineDays", BoardCmd.PersistentFlags().Lookup("approval-deadline"))
	BoardCmd.PersistentFlags().String("sequence-prefix", "VB", "Prefix of resolution numbers")
	viper.BindPFlag("Board.SequencePrefix", BoardCmd.PersistentFlags().Lookup("sequence-prefix"))
}

// bindEnv reads settings from BOARD_ prefixed environment variables. The
// dots of nested keys become underscores, e.g. BOARD_DB_DRIVER.
func bindEnv() {
	viper.SetEnvPrefix("board")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Error while loading .env file", "error", err)
	}
	bindEnv()

	cfgFile := viper.GetString("ConfigFileName")
	if runtime.GOOS != "windows" {
		viper.AddConfigPath("/etc/board")
	}

	osUser, err := user.Current()
	if err != nil {
		log.Panic("Unable to retrieve current user", "error", err)
	}
	defaultBoardDir := filepath.Join(osUser.HomeDir, ".board")
	viper.SetDefault("DataDir", defaultBoardDir)
	viper.AddConfigPath(defaultBoardDir)
	viper.AddConfigPath(".")

	viper.SetConfigName("board")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	err = viper.ReadInConfig()
	if err != nil {
		log.Warn("Error while loading configuration file", "error", err)
	}
}
