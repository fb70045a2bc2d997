package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/server"
)

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `short:"a" help:"Address to bind to, host:port (overrides config)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := server.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.HistoryDSN()
	if cli.DB != "" {
		dsn = cli.DB
	}
	store, err := handhistory.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open hand history: %w", err)
	}
	defer store.Close()

	tables, err := server.NewRegistry(cfg, store, logger, quartz.NewReal())
	if err != nil {
		return err
	}
	defer tables.Close()

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	logger.Info("Starting pokertable server",
		"version", version,
		"addr", addr,
		"tables", len(cfg.Tables),
		"default_table", cfg.Server.DefaultTable,
		"history", cfg.History.Backend)

	srv := server.New(tables, store, logger, server.WithCORSOrigins(cfg.Server.CORSOrigins...))
	return srv.ListenAndServe(ctx, addr)
}
