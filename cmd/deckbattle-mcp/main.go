// Command deckbattle-mcp serves battles to an MCP client over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/app"
	"github.com/l1jgo/deckbattle/internal/config"
	"github.com/l1jgo/deckbattle/internal/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/deckbattle.toml"
	if p := os.Getenv("DECKBATTLE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout carries the protocol.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "stderr"
	}
	log, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a, err := app.New(ctx, cfg, app.Options{}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Encounter.Close(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	var history mcp.History
	if a.Journal != nil {
		history = a.Journal
	}
	log.Info("mcp server ready", zap.Bool("journal", history != nil))
	return mcp.NewServer(a.Encounter, history, log).Serve()
}
