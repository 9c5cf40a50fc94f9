package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/xmlctx/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Loads configuration from --file, or from the environment and .env when no file is given, and prints it as YAML.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	configCmd.Flags().String("file", "", "YAML configuration file")
	rootCmd.AddCommand(configCmd)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
