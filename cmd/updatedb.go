// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package cmd

import (
	"context"
	"path/filepath"

	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var updateDBCmd = &cobra.Command{
	Use:   "updatedb",
	Short: "Update the database schema",
	Long: `Synchronize the database schema and load the data records of the resource directory.
With --demo, the demo board members and users are loaded too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return UpdateDB(context.Background())
	},
}

// UpdateDB updates the database schema and loads the data records
func UpdateDB(ctx context.Context) error {
	setupLogger()
	d, err := connectToDB()
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.SyncDatabase(ctx); err != nil {
		return err
	}
	resourceDir, err := filepath.Abs(viper.GetString("ResourceDir"))
	if err != nil {
		return errors.Wrap(err, "unable to find resource directory")
	}
	if err := server.LoadDataRecords(ctx, d, resourceDir); err != nil {
		return err
	}
	if viper.GetBool("Demo") {
		log.Info("Demo mode detected: loading demo data")
		if err := server.LoadDemoRecords(ctx, d, resourceDir); err != nil {
			return err
		}
	}
	log.Info("Database updated successfully")
	return nil
}

func init() {
	updateDBCmd.PersistentFlags().Bool("demo", false, "Load the demo records")
	viper.BindPFlag("Demo", updateDBCmd.PersistentFlags().Lookup("demo"))
	BoardCmd.AddCommand(updateDBCmd)
}
