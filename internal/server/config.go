package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertable/internal/game"
)

// DatabaseURLEnv overrides the history store DSN when set.
const DatabaseURLEnv = "POKERTABLE_DATABASE_URL"

// Config is the complete server configuration.
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	History *HistorySettings `hcl:"history,block"`
	Tables  []TableConfig    `hcl:"table,block"`
}

// ServerSettings contains listener and logging configuration.
type ServerSettings struct {
	Address      string   `hcl:"address,optional"`
	Port         int      `hcl:"port,optional"`
	LogLevel     string   `hcl:"log_level,optional"`
	CORSOrigins  []string `hcl:"cors_origins,optional"`
	DefaultTable string   `hcl:"default_table,optional"`
}

// HistorySettings selects where completed hands are recorded.
type HistorySettings struct {
	Backend string `hcl:"backend,optional"` // memory, sqlite or postgres
	Path    string `hcl:"path,optional"`
	DSN     string `hcl:"dsn,optional"`
}

// TableConfig defines one table.
type TableConfig struct {
	Name               string `hcl:"name,label"`
	MinBet             int    `hcl:"min_bet,optional"`
	MaxPlayers         int    `hcl:"max_players,optional"`
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
}

// TurnTimeout is the auto-fold delay, zero when disabled.
func (t TableConfig) TurnTimeout() time.Duration {
	return time.Duration(t.TurnTimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.CORSOrigins == nil {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	if c.History == nil {
		c.History = &HistorySettings{}
	}
	if c.History.Backend == "" {
		c.History.Backend = "memory"
	}
	if c.History.Backend == "sqlite" && c.History.Path == "" {
		c.History.Path = "pokertable.db"
	}

	if len(c.Tables) == 0 {
		c.Tables = []TableConfig{{Name: "main"}}
	}
	for i := range c.Tables {
		if c.Tables[i].MinBet == 0 {
			c.Tables[i].MinBet = 40
		}
		if c.Tables[i].MaxPlayers == 0 {
			c.Tables[i].MaxPlayers = 6
		}
	}
	if c.Server.DefaultTable == "" {
		c.Server.DefaultTable = c.Tables[0].Name
	}
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if dsn := os.Getenv(DatabaseURLEnv); dsn != "" {
		c.History.Backend = "postgres"
		c.History.DSN = dsn
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}

	switch c.History.Backend {
	case "memory":
	case "sqlite":
		if c.History.Path == "" {
			return errors.New("history path is required for the sqlite backend")
		}
	case "postgres":
		if c.History.DSN == "" {
			return fmt.Errorf("history dsn (or %s) is required for the postgres backend", DatabaseURLEnv)
		}
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}

	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if t.Name == "" {
			return errors.New("table name cannot be empty")
		}
		if names[t.Name] {
			return fmt.Errorf("duplicate table name: %s", t.Name)
		}
		names[t.Name] = true

		if t.MinBet < 2 {
			return fmt.Errorf("table %s: min_bet must be at least 2", t.Name)
		}
		if t.MaxPlayers < game.MinPlayers || t.MaxPlayers > game.MaxSeats {
			return fmt.Errorf("table %s: max_players must be between %d and %d", t.Name, game.MinPlayers, game.MaxSeats)
		}
		if t.TurnTimeoutSeconds < 0 {
			return fmt.Errorf("table %s: turn_timeout_seconds cannot be negative", t.Name)
		}
	}
	if !names[c.Server.DefaultTable] {
		return fmt.Errorf("default table %q is not configured", c.Server.DefaultTable)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// HistoryDSN is the DSN handed to handhistory.Open.
func (c *Config) HistoryDSN() string {
	switch c.History.Backend {
	case "sqlite":
		return "sqlite://" + c.History.Path
	case "postgres":
		return c.History.DSN
	default:
		return "memory"
	}
}
