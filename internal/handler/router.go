package handler

import (
	"time"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Deps are the long-lived services the routes are wired to. DB is nil when
// no database is configured.
type Deps struct {
	Config   *config.Config
	Hub      *service.Hub
	Bot      *service.BotResponder
	Auth     *service.AuthService
	Contacts *service.ContactService
	DB       Pinger
}

func NewApp(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:               "portfolio-backend",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             64 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(logging.Writer(zerolog.InfoLevel), cfg.SlowRequest))
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	healthH := NewHealthHandler(d.DB)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	api := app.Group("/api")

	contactH := NewContactHandler(d.Contacts)
	api.Post("/contact", middleware.RateLimit(cfg.ContactRateLimit, time.Minute), contactH.Submit)

	adminH := NewAdminHandler(d.Auth, d.Contacts, service.NewOperator(d.Hub, d.Bot, d.Contacts))
	api.Post("/admin/token", middleware.RateLimit(10, time.Minute), middleware.AdminKey(d.Auth), adminH.Token)
	admin := api.Group("/admin", middleware.Auth(d.Auth))
	admin.Get("/stats", adminH.Stats)
	admin.Post("/announce", adminH.Announce)
	admin.Get("/contacts", adminH.Contacts)

	wsH := NewWSHandler(d.Hub, d.Bot, cfg.AllowedOrigins)
	app.Get("/ws", wsH.Upgrade)

	return app
}
