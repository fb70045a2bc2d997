package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokertable.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "memory", cfg.HistoryDSN())
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, TableConfig{Name: "main", MinBet: 40, MaxPlayers: 6}, cfg.Tables[0])
	assert.Equal(t, "main", cfg.Server.DefaultTable)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  address      = "0.0.0.0"
  port         = 9000
  log_level    = "debug"
  cors_origins = ["*"]
}

history {
  backend = "sqlite"
  path    = "/var/lib/pokertable/hands.db"
}

table "low" {
  min_bet              = 20
  turn_timeout_seconds = 30
}

table "high" {
  min_bet     = 400
  max_players = 9
}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite:///var/lib/pokertable/hands.db", cfg.HistoryDSN())
	assert.Equal(t, "low", cfg.Server.DefaultTable)

	require.Len(t, cfg.Tables, 2)
	assert.Equal(t, 6, cfg.Tables[0].MaxPlayers)
	assert.Equal(t, 30*time.Second, cfg.Tables[0].TurnTimeout())
	assert.Equal(t, 9, cfg.Tables[1].MaxPlayers)
	assert.Zero(t, cfg.Tables[1].TurnTimeout())
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(writeConfig(t, `server { port = "eighty" `))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `table "main" { seats = 4 }`))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"unknown backend", func(c *Config) { c.History.Backend = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.History.Backend = "postgres" }},
		{"sqlite without path", func(c *Config) { c.History.Backend = "sqlite" }},
		{"duplicate table", func(c *Config) { c.Tables = append(c.Tables, c.Tables[0]) }},
		{"min bet too small", func(c *Config) { c.Tables[0].MinBet = 1 }},
		{"too many seats", func(c *Config) { c.Tables[0].MaxPlayers = 11 }},
		{"negative timeout", func(c *Config) { c.Tables[0].TurnTimeoutSeconds = -1 }},
		{"unknown default table", func(c *Config) { c.Server.DefaultTable = "side" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigDatabaseURLOverride(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "postgres://poker@localhost/hands")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres", cfg.History.Backend)
	assert.Equal(t, "postgres://poker@localhost/hands", cfg.HistoryDSN())
}
