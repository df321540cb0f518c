package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/swarajpanmand/encode-ai-native-health/internal/client"
	"github.com/swarajpanmand/encode-ai-native-health/internal/surface/telegram"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot against the chat server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if cfg.TelegramBotToken == "" {
			return errors.New("TELEGRAM_BOT_TOKEN is not set")
		}

		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return err
		}
		bot.Debug = cfg.Debug
		logger.Infow("telegram bot authorized", "account", bot.Self.UserName, "server", cfg.ServerURL)

		router := telegram.NewRouter(bot, client.New(cfg.ServerURL), telegram.WithLogger(logger.Named("telegram")))
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return router.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}
