package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "life_dashboard.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Empty(t, cfg.TelegramToken)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadTelegramNeedsChat(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("METRICS_ADDR", " :9090 ")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "4242")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(4242), cfg.TelegramChatID)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("TIMEZONE", "UTC")

	_, err := Load()
	assert.Error(t, err)
}
