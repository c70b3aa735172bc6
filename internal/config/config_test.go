package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mariolympics.db", cfg.DatabasePath)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.True(t, cfg.BronzeMedalMatch)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)

	games, err := cfg.GameList()
	require.NoError(t, err)
	assert.Equal(t, roster.Games, games)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("SESSION_LIFETIME", "90m")
	t.Setenv("BRONZE_MEDAL_MATCH", "false")
	t.Setenv("GAMES", "kart,Tennis")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 90*time.Minute, cfg.SessionLifetime)
	assert.False(t, cfg.BronzeMedalMatch)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	games, err := cfg.GameList()
	require.NoError(t, err)
	assert.Equal(t, []roster.Game{roster.Kart, roster.Tennis}, games)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_PATH=from-file.db\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATABASE_PATH") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DatabasePath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown game", key: "GAMES", value: "Tennis,Chess"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad duration", key: "SESSION_LIFETIME", value: "soon"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
