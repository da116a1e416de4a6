// Copyright 2018 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file utilities",
	Long:  `Utilities for the board configuration file (board.toml).`,
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Write the current configuration to board.toml",
	Long: `Write the current configuration to board.toml in the current directory, or to the file given with -c.
Values passed as flags, environment variables or in a .env file are written too.
An existing file is kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgFile := viper.GetString("ConfigFileName")
		if cfgFile == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfgFile = filepath.Join(cwd, "board.toml")
		}
		viper.Set("ConfigFileName", "")
		if force, _ := cmd.Flags().GetBool("force"); force {
			return viper.WriteConfigAs(cfgFile)
		}
		return viper.SafeWriteConfigAs(cfgFile)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the effective configuration as YAML. Passwords and secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := viper.AllSettings()
		maskSecrets(settings)
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return err
		}
		return enc.Close()
	},
}

// secretKeys are the lower cased configuration keys whose values are
// never printed.
var secretKeys = map[string]bool{
	"password":      true,
	"sessionsecret": true,
}

// maskSecrets replaces the non empty values of secretKeys in settings
// and its nested maps.
func maskSecrets(settings map[string]interface{}) {
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]interface{}:
			maskSecrets(v)
		default:
			if secretKeys[key] && v != "" {
				settings[key] = "********"
			}
		}
	}
}

func init() {
	scaffoldCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
	BoardCmd.AddCommand(configCmd)
	configCmd.AddCommand(scaffoldCmd)
	configCmd.AddCommand(showCmd)
}
