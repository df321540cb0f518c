package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/swarajpanmand/encode-ai-native-health/internal/client"
	"github.com/swarajpanmand/encode-ai-native-health/internal/surface/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the server in an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		serverURL, _ := cmd.Flags().GetString("server")
		if serverURL == "" {
			serverURL = cfg.ServerURL
		}
		convID, _ := cmd.Flags().GetString("conversation")
		markdown, _ := cmd.Flags().GetBool("markdown")

		c := client.New(serverURL)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if _, err := c.Health(ctx); err != nil {
			return fmt.Errorf("chat server at %s: %w", serverURL, err)
		}

		m := tui.New(c, tui.Options{ConversationID: convID, Markdown: markdown})
		logger.Debugw("starting chat", "server", serverURL, "conversation", m.ConversationID())
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("server", "", "Chat server URL (overrides CHAT_SERVER_URL)")
	chatCmd.Flags().String("conversation", "", "Conversation id to resume; a new one is generated when empty")
	chatCmd.Flags().Bool("markdown", false, "Render text blocks through glamour")
}
