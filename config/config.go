// Package config loads the settings of the neolithic commands: an optional
// YAML file first, then NEOLITHIC_* environment variables on top.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "NEOLITHIC_"

type Config struct {
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL"`
	Locale   string         `yaml:"locale" env:"LOCALE"`
	Catalog  string         `yaml:"catalog" env:"CATALOG"` // Tile catalog file, embedded one if empty
	Players  int            `yaml:"players" env:"PLAYERS"` // Default number of players of a new game
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Journal  JournalConfig  `yaml:"journal" envPrefix:"JOURNAL_"`
	SelfPlay SelfPlayConfig `yaml:"selfplay" envPrefix:"SELFPLAY_"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

type JournalConfig struct {
	Path string `yaml:"path" env:"PATH"` // Empty disables the journal
}

type SelfPlayConfig struct {
	Experiment string `yaml:"experiment" env:"EXPERIMENT"`
	Games      int    `yaml:"games" env:"GAMES"`
	Seed       uint64 `yaml:"seed" env:"SEED"`
	Dir        string `yaml:"dir" env:"DIR"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Locale:   "en",
		Players:  2,
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Journal: JournalConfig{Path: "neolithic.db"},
		SelfPlay: SelfPlayConfig{
			Experiment: "strength",
			Games:      10,
			Seed:       1,
			Dir:        "experiments",
		},
	}
}

// Load returns the defaults overridden by the file at path, if any, then by
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Locale == "" {
		return fmt.Errorf("locale is required")
	}
	if c.Players < 2 || c.Players > 5 {
		return fmt.Errorf("players must be between 2 and 5, got %d", c.Players)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.SelfPlay.Games < 0 {
		return fmt.Errorf("selfplay games cannot be negative, got %d", c.SelfPlay.Games)
	}
	return nil
}

// Level returns the zerolog level of the config. It is valid after Load.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
