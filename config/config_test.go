package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neolithic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg, "no file and no environment should keep the defaults")
		require.Equal(t, zerolog.InfoLevel, cfg.Level())
	})

	t.Run("file", func(t *testing.T) {
		path := writeFile(t, `
log_level: debug
locale: fr
players: 4
server:
  addr: 127.0.0.1:9000
  read_timeout: 2s
journal:
  path: /tmp/games.db
selfplay:
  experiment: cutoff
  games: 3
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())
		require.Equal(t, "fr", cfg.Locale)
		require.Equal(t, 4, cfg.Players)
		require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		require.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
		require.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset keys should keep their default")
		require.Equal(t, "/tmp/games.db", cfg.Journal.Path)
		require.Equal(t, "cutoff", cfg.SelfPlay.Experiment)
		require.Equal(t, 3, cfg.SelfPlay.Games)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeFile(t, "locale: fr\nserver:\n  addr: :9000\n")
		t.Setenv("NEOLITHIC_SERVER_ADDR", ":7000")
		t.Setenv("NEOLITHIC_SELFPLAY_SEED", "99")

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "fr", cfg.Locale, "file value should stay when not overridden")
		require.Equal(t, ":7000", cfg.Server.Addr)
		require.Equal(t, uint64(99), cfg.SelfPlay.Seed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeFile(t, "players: [\n"))
		require.Error(t, err)
	})

	t.Run("malformed environment", func(t *testing.T) {
		t.Setenv("NEOLITHIC_PLAYERS", "many")
		_, err := Load("")
		require.ErrorContains(t, err, "parse env:")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"locale", func(c *Config) { c.Locale = "" }},
		{"too few players", func(c *Config) { c.Players = 1 }},
		{"too many players", func(c *Config) { c.Players = 6 }},
		{"server address", func(c *Config) { c.Server.Addr = "" }},
		{"negative games", func(c *Config) { c.SelfPlay.Games = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			require.Error(t, cfg.Validate(), "invalid %s should be rejected", tt.name)
		})
	}
}
