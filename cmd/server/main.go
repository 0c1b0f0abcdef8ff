package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/cache"
	"github.com/example/topupadmin/internal/config"
	"github.com/example/topupadmin/internal/database"
	"github.com/example/topupadmin/internal/handlers"
	"github.com/example/topupadmin/internal/routes"
	"github.com/example/topupadmin/internal/services"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	auditor := services.NopAuditor()
	var auditLister handlers.AuditLister
	if cfg.AuditEnabled {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open audit database")
		}
		auditService := services.NewAuditService(db)
		auditor = auditService
		auditLister = auditService
	}

	var notifier services.Notifier
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat).WithAPIBase(cfg.TelegramAPIURL)
	if telegram.Enabled() {
		notifier = telegram
	} else {
		log.Info().Msg("telegram notifications disabled")
	}

	client := services.NewPlatformClient(cfg.PlatformAPIURL, cfg.PlatformAPIToken, cfg.PlatformTimeout)
	queryCache := cache.New()

	deps := routes.Deps{
		Orders:       services.NewOrderService(client, queryCache, auditor),
		Topups:       services.NewTopupQueueService(client, queryCache),
		Transactions: services.NewTransactionService(client, queryCache, auditor, notifier),
		Audit:        auditLister,
	}

	if cfg.QueueWatchEvery > 0 && notifier != nil {
		watcher := services.NewQueueWatcher(deps.Topups, notifier)
		scheduler, err := watcher.Start(ctx, cfg.QueueWatchEvery)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start queue watcher")
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				log.Error().Err(err).Msg("queue watcher shutdown failed")
			}
		}()
		log.Info().Dur("interval", cfg.QueueWatchEvery).Msg("queue watcher started")
	}

	app := routes.NewApp()
	routes.Register(app, cfg, deps)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}

	deps.Transactions.Wait()
}

func setupLogger(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
