package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config keeps runtime settings for the dashboard process.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	SummaryTime    string
	MetricsAddr    string
	Location       *time.Location
	Logger         LoggerConfig
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables (and an optional .env) with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		TelegramToken:  strings.TrimSpace(v.GetString("TELEGRAM_TOKEN")),
		TelegramChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
		SummaryTime:    strings.TrimSpace(v.GetString("SUMMARY_TIME")),
		MetricsAddr:    strings.TrimSpace(v.GetString("METRICS_ADDR")),
		Logger: LoggerConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		},
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "life_dashboard.db"
	}

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString("TIMEZONE")))
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return cfg, fmt.Errorf("invalid LOG_FORMAT %q, expected json or console", cfg.Logger.Format)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "life_dashboard.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)
	v.SetDefault("SUMMARY_TIME", "")
	v.SetDefault("METRICS_ADDR", "")
}
