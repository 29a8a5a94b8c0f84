package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/discord"
	"portfolio-backend/internal/handler"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.IsProduction(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database (optional)
	var db *pgxpool.Pool
	var store service.ContactStore
	if cfg.HasDatabase() {
		var err error
		db, err = database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations applied successfully")
		store = repository.NewContactRepository(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, contact messages will not be stored")
	}

	// Discord (optional)
	var notifier service.ContactNotifier
	dn, err := discord.NewNotifier(cfg.DiscordWebhookURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid Discord webhook")
	}
	if dn != nil {
		notifier = dn
	}

	// Services
	contactSvc := service.NewContactService(store, notifier)
	authSvc, err := service.NewAuthService(cfg.JWTSecret, cfg.AdminKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up admin auth")
	}
	hub := service.NewHub(service.NewRegistry())
	bot := service.NewBotResponder(hub, cfg.BotName, cfg.BotTypingDelay, cfg.BotReplyDelay)

	deps := handler.Deps{
		Config:   cfg,
		Hub:      hub,
		Bot:      bot,
		Auth:     authSvc,
		Contacts: contactSvc,
	}
	if db != nil {
		deps.DB = db
	}
	app := handler.NewApp(deps)

	go hub.Run()

	opsBot, err := discord.NewBot(cfg.DiscordBotToken, cfg.DiscordChannelID, service.NewOperator(hub, bot, contactSvc))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord bot")
	}
	if err := opsBot.Start(); err != nil {
		log.Error().Err(err).Msg("Discord bot failed to connect")
	}

	if store != nil && cfg.ContactRetention > 0 {
		go pruneContacts(ctx, contactSvc, cfg.ContactRetention)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Portfolio backend running")

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	opsBot.Stop()
	bot.Shutdown()

	// Close sockets with a normal close frame before Fiber drops them.
	hub.Shutdown()
	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := hub.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Chat sockets did not close in time")
	}
	cancel()

	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Info().Msg("Server stopped")
}

func pruneContacts(ctx context.Context, contacts *service.ContactService, days int) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	for {
		if _, err := contacts.Prune(ctx, days); err != nil {
			log.Error().Err(err).Msg("Failed to prune contact messages")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
