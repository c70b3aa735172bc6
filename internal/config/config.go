package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string        `env:"ADDR" envDefault:":8080"`
	DatabasePath     string        `env:"DATABASE_PATH" envDefault:"mariolympics.db"`
	SessionLifetime  time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	BronzeMedalMatch bool          `env:"BRONZE_MEDAL_MATCH" envDefault:"true"`
	Games            []string      `env:"GAMES" envSeparator:","`
	LogLevel         slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}
	if _, err := cfg.GameList(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GameList resolves GAMES, falling back to every known game.
func (c Config) GameList() ([]roster.Game, error) {
	if len(c.Games) == 0 {
		return roster.Games, nil
	}
	games := make([]roster.Game, 0, len(c.Games))
	for _, name := range c.Games {
		g, err := roster.ParseGame(name)
		if err != nil {
			return nil, fmt.Errorf("parse GAMES: %w", err)
		}
		games = append(games, g)
	}
	return games, nil
}

// Logger builds the process logger for the configured level and format.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
