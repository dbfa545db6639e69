// Command deckbattle plays battles in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/app"
	"github.com/l1jgo/deckbattle/internal/config"
	"github.com/l1jgo/deckbattle/internal/encounter"
	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/render"
	"github.com/l1jgo/deckbattle/internal/turn"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/deckbattle.toml"
	if p := os.Getenv("DECKBATTLE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger. The screen owns the terminal, so logs go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "deckbattle.log"
	}
	log, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Open the screen
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	term := render.NewTerminal(screen, render.DefaultGlyphs)

	// 4. Wire the encounter
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(ctx, cfg, app.Options{Presenter: term}, log)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Encounter.Close(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	enc := a.Encounter
	if err := enc.Advance(); err != nil {
		return fmt.Errorf("first turn: %w", err)
	}
	log.Info("battle started", zap.Stringer("state", enc.State()))

	// 5. Input loop
	cursor := input.NewCursor()
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			redraw(a, log)
		case *tcell.EventKey:
			v := enc.View()
			events, action := cursor.Handle(ev.Key(), ev.Rune(), v.HandIDs(), v.LivingEnemyIDs())
			switch action {
			case input.ActionQuit:
				return nil
			case input.ActionRedraw:
				screen.Sync()
				redraw(a, log)
				continue
			case input.ActionRestart:
				err := enc.Restart()
				switch {
				case errors.Is(err, encounter.ErrNotOver):
					term.SetStatus("the battle is still on")
					redraw(a, log)
				case err != nil:
					return fmt.Errorf("restart: %w", err)
				default:
					term.SetStatus("")
				}
				continue
			}
			if len(events) == 0 || enc.State().Kind != turn.KindPlayerTurn {
				continue
			}
			for _, e := range events {
				if !enc.Queue().Push(e) {
					log.Warn("input queue full, key dropped")
				}
			}
			if err := enc.Advance(); err != nil {
				return err
			}
			term.SetStatus("")
		}
	}
}

func redraw(a *app.App, log *zap.Logger) {
	if err := a.Redraw(); err != nil {
		log.Warn("redraw failed", zap.Error(err))
	}
}
