package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env               string
	Port              string
	LogLevel          string
	DatabaseURL       string
	MigrationsDir     string
	JWTSecret         string
	AdminKey          string
	DiscordWebhookURL string
	DiscordBotToken   string
	DiscordChannelID  string
	AllowedOrigins    []string

	BotName          string
	BotTypingDelay   time.Duration
	BotReplyDelay    time.Duration
	ContactRateLimit int
	ContactRetention int
	SlowRequest      time.Duration
}

func Load() *Config {
	return &Config{
		Env:               getEnv("ENV", "development"),
		Port:              getEnv("PORT", "5000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", ""),
		JWTSecret:         getEnv("JWT_SECRET", "dev-jwt-secret-not-for-production-use-64-chars-minimum-padding"),
		AdminKey:          getEnv("ADMIN_KEY", "dev-admin-key"),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		DiscordBotToken:   getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID:  getEnv("DISCORD_CHANNEL_ID", ""),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		BotName:          getEnv("BOT_NAME", "Bot"),
		BotTypingDelay:   getEnvMillis("BOT_TYPING_DELAY_MS", 500*time.Millisecond),
		BotReplyDelay:    getEnvMillis("BOT_REPLY_DELAY_MS", 2000*time.Millisecond),
		ContactRateLimit: getEnvInt("CONTACT_RATE_LIMIT", 5),
		ContactRetention: getEnvInt("CONTACT_RETENTION_DAYS", 0),
		SlowRequest:      getEnvMillis("SLOW_REQUEST_MS", 500*time.Millisecond),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// HasDatabase reports whether contact submissions should be stored.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvMillis(key string, fallback time.Duration) time.Duration {
	ms := getEnvInt(key, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
