package main

import (
	"github.com/spf13/cobra"

	"github.com/swarajpanmand/encode-ai-native-health/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "List the environment variables the commands read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Usage(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
