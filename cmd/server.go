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

package cmd

import (
	"fmt"
	"time"

	"github.com/hexya-addons/boardresolutions/src/controllers"
	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/reports"
	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/hexya-addons/boardresolutions/src/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the board resolutions server",
	Long:  `Start the board resolutions server with the JSON API and the overdue approval reminder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return StartServer()
	},
}

// StartServer connects to the database and serves the board API until
// the server stops.
func StartServer() error {
	setupLogger()
	server.PreInit()
	d, err := connectToDB()
	if err != nil {
		return err
	}
	defer d.Close()
	reports.BootStrap()
	security.AuthenticationRegistry.RegisterBackend(models.NewDBAuthBackend(d))
	engine := newEngine(d)
	srv := server.GetServer()
	controllers.BootStrap(srv, engine, security.AuthenticationRegistry)

	reminder, err := engine.StartReminder(viper.GetString("Board.ReminderSchedule"))
	if err != nil {
		return err
	}
	defer reminder.Stop()

	address := fmt.Sprintf("%s:%s", viper.GetString("Server.Interface"), viper.GetString("Server.Port"))
	cert := viper.GetString("Server.Certificate")
	key := viper.GetString("Server.PrivateKey")
	domain := viper.GetString("Server.Domain")
	switch {
	case cert != "":
		return srv.RunTLS(address, cert, key)
	case domain != "":
		return srv.RunAutoTLS(domain)
	default:
		return srv.Run(address)
	}
}

// setupLogger initializes the logger
func setupLogger() {
	logging.Initialize()
	log = logging.GetLogger("init")
}

// connectToDB creates the connection to the database
func connectToDB() (*models.Database, error) {
	return models.DBConnect(viper.GetString("DB.Driver"), models.ConnectionParams{
		Host:     viper.GetString("DB.Host"),
		Port:     viper.GetString("DB.Port"),
		User:     viper.GetString("DB.User"),
		Password: viper.GetString("DB.Password"),
		DBName:   viper.GetString("DB.Name"),
		SSLMode:  viper.GetString("DB.SSLMode"),
	})
}

// newEngine returns the workflow engine configured from the Board keys
func newEngine(d *models.Database) *workflow.Engine {
	return workflow.NewEngine(d, workflow.Config{
		DefaultMeetingType: viper.GetString("Board.DefaultMeetingType"),
		ApprovalDeadline:   time.Duration(viper.GetInt("Board.ApprovalDeadlineDays")) * 24 * time.Hour,
		SequencePrefix:     viper.GetString("Board.SequencePrefix"),
		Debug:              viper.GetBool("Debug"),
	})
}

func init() {
	serverCmd.PersistentFlags().StringP("interface", "i", "", "Interface on which the server should listen. Empty string is all interfaces")
	viper.BindPFlag("Server.Interface", serverCmd.PersistentFlags().Lookup("interface"))
	serverCmd.PersistentFlags().StringP("port", "p", "8080", "Port on which the server should listen.")
	viper.BindPFlag("Server.Port", serverCmd.PersistentFlags().Lookup("port"))
	serverCmd.PersistentFlags().StringP("domain", "d", "", "Domain name of the server. When set, interface and port are set to 0.0.0.0:443 and it will automatically get an HTTPS certificate from Letsencrypt")
	viper.BindPFlag("Server.Domain", serverCmd.PersistentFlags().Lookup("domain"))
	serverCmd.PersistentFlags().StringP("certificate", "C", "", "Certificate file for HTTPS. If neither certificate nor domain is set, the server will run on plain HTTP. When certificate is set, private-key must also be set.")
	viper.BindPFlag("Server.Certificate", serverCmd.PersistentFlags().Lookup("certificate"))
	serverCmd.PersistentFlags().StringP("private-key", "K", "", "Private key file for HTTPS.")
	viper.BindPFlag("Server.PrivateKey", serverCmd.PersistentFlags().Lookup("private-key"))
	serverCmd.PersistentFlags().String("reminder", workflow.DefaultReminderSchedule, "Cron schedule of the overdue approval reminder")
	viper.BindPFlag("Board.ReminderSchedule", serverCmd.PersistentFlags().Lookup("reminder"))
	serverCmd.PersistentFlags().String("session-secret", "", "Secret used to sign session cookies")
	viper.BindPFlag("Board.SessionSecret", serverCmd.PersistentFlags().Lookup("session-secret"))
	BoardCmd.AddCommand(serverCmd)
}
