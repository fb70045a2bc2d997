package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lox/pokertable/internal/server"
)

// HealthCmd waits for a running server to report healthy.
type HealthCmd struct {
	URL     string        `short:"u" help:"Server base URL (default from config)"`
	Timeout time.Duration `short:"t" default:"30s" help:"How long to wait for the server"`
}

func (c *HealthCmd) Run(cli *CLI) error {
	url := c.URL
	if url == "" {
		cfg, err := server.LoadConfig(cli.Config)
		if err != nil {
			return err
		}
		url = "http://" + cfg.Addr()
	}
	url = strings.TrimSuffix(url, "/")

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	tables, err := server.WaitForHealthy(ctx, url)
	if err != nil {
		fmt.Println(errorStyle.Render("Unhealthy"), url)
		return fmt.Errorf("server at %s not healthy after %s: %w", url, c.Timeout, err)
	}
	fmt.Println(successStyle.Render("Healthy"), url, "tables:", strings.Join(tables, ", "))
	return nil
}
