package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/config"
	"github.com/swarajpanmand/encode-ai-native-health/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "healthcopilot",
	Short: "Health copilot chat server and clients",
	Long: `healthcopilot answers food and product health questions with model-generated
UI. It runs the chat server and the terminal and Telegram clients that render
the answers.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and builds the logger every command
// shares.
func loadConfig() (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
