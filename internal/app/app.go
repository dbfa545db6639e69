// Package app assembles a runnable encounter from configuration. Both the
// terminal front end and the MCP server start from here.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/config"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/data"
	"github.com/l1jgo/deckbattle/internal/encounter"
	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/persist"
	"github.com/l1jgo/deckbattle/internal/render"
	"github.com/l1jgo/deckbattle/internal/schedule"
	"github.com/l1jgo/deckbattle/internal/scripting"
	"github.com/l1jgo/deckbattle/internal/spawn"
	"github.com/l1jgo/deckbattle/internal/system"
)

const queueSize = 64

// App is a wired encounter plus the pieces front ends reach for directly.
type App struct {
	Encounter *encounter.Encounter
	World     *battle.World
	Journal   *persist.Journal // nil when the journal is disabled

	pass []coresys.ThreadLocal
}

// Options tune assembly beyond what the config file carries.
type Options struct {
	Presenter render.Presenter // nil runs without a presentation pass
	Spawn     spawn.Policy     // nil picks random groups
}

// New loads the tables, opens the journal when a DSN is configured, builds
// every phase schedule and returns an encounter in Initializing. The
// caller must Close the encounter.
func New(ctx context.Context, cfg *config.Config, opts Options, log *zap.Logger) (*App, error) {
	rules, err := battle.RulesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	cards, err := data.LoadCardTable(cfg.Data.Cards)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	enemies, err := data.LoadEnemyTable(cfg.Data.Enemies)
	if err != nil {
		return nil, fmt.Errorf("load enemies: %w", err)
	}
	log.Info("tables loaded", zap.Int("cards", cards.Count()), zap.Int("enemies", enemies.Count()))

	seed := cfg.Combat.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	w := battle.New(rules, cards, enemies, rng, log)

	var closers []func() error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	var intents system.IntentPolicy = data.NewTablePolicy(enemies, rng)
	if cfg.Scripting.IntentScript != "" {
		eng, err := scripting.NewEngine(cfg.Scripting.IntentScript, enemies, rng, log)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() error { eng.Close(); return nil })
		intents = eng
		log.Info("intent script loaded", zap.String("script", cfg.Scripting.IntentScript))
	}

	var journal *persist.Journal
	var recorder encounter.Recorder
	if cfg.Database.DSN != "" {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() error { db.Close(); return nil })
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fail(fmt.Errorf("migrations: %w", err))
		}
		journal = persist.NewJournal(db)
		recorder = journal
	}

	sp := opts.Spawn
	if sp == nil {
		sp = spawn.NewRandom(rng)
	}
	deps := schedule.Deps{World: w, Spawn: sp, Intents: intents}
	if opts.Presenter != nil {
		deps.Render = render.NewPass(w, opts.Presenter).Steps()
	}
	runner := coresys.NewRunner(cfg.Scheduler.Workers, log)
	if err := schedule.Install(runner, deps); err != nil {
		return fail(err)
	}

	enc := encounter.New(encounter.Options{
		World:        w,
		Runner:       runner,
		Queue:        input.NewQueue(queueSize),
		Recorder:     recorder,
		WriteTimeout: cfg.Database.WriteTimeout,
		Closers:      closers,
		Log:          log,
	})
	return &App{Encounter: enc, World: w, Journal: journal, pass: deps.Render}, nil
}

// Redraw runs the presentation pass outside a phase run, e.g. after a
// terminal resize. Call it only between phase runs.
func (a *App) Redraw() error {
	var err error
	for _, s := range a.pass {
		err = multierr.Append(err, s.Draw())
	}
	return err
}

// NewLogger builds the zap logger described by cfg. An empty File keeps
// zap's default stderr output.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}
	return zapCfg.Build()
}
