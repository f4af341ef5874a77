package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/mintin/internal/bot"
	"github.com/example/mintin/internal/catalog"
	"github.com/example/mintin/internal/database"
	"github.com/example/mintin/internal/scheduler"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve the drill as a Telegram bot",
	Long: `Serve CATALOG_PATH as a Telegram bot. Every chat drills its own copy of
the progress table, stored in the database selected by DB_TYPE.

Requires TELEGRAM_BOT_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	items, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return errors.Wrap(err, "unable to create bot")
	}
	logger.Info("authorized", zap.String("account", api.Self.UserName))

	b := bot.New(api, db, items, bot.Options{
		AssessBatch:             cfg.AssessSessions,
		LearnBatch:              cfg.LearnSessions,
		Classic:                 cfg.ClassicMode,
		DefaultNotificationHour: cfg.NotificationStartHour,
	}, logger)

	sched := scheduler.New(database.NewChatRepository(db), b, b, scheduler.Window{
		StartHour: cfg.NotificationStartHour,
		EndHour:   cfg.NotificationEndHour,
	}, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	if err := b.Start(ctx, updates); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("bot stopped")
	return nil
}
