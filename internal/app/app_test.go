package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/config"
	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/render"
	"github.com/l1jgo/deckbattle/internal/spawn"
	"github.com/l1jgo/deckbattle/internal/turn"
)

type countingPresenter struct {
	render.Nop
	presents int
	last     battle.View
}

func (p *countingPresenter) DrawBackground(v battle.View) error {
	p.last = v
	return nil
}

func (p *countingPresenter) Present() { p.presents++ }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Combat.Seed = 42
	return cfg
}

func TestNewWiresPresenter(t *testing.T) {
	p := &countingPresenter{}
	a, err := New(context.Background(), testConfig(t), Options{
		Presenter: p,
		Spawn:     spawn.Fixed{component.EnemySummoner},
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Encounter.Close()

	if a.Journal != nil {
		t.Fatal("journal opened without a DSN")
	}
	if err := a.Encounter.Advance(); err != nil {
		t.Fatal(err)
	}
	if a.Encounter.State() != turn.PlayerTurn() {
		t.Fatalf("state = %s", a.Encounter.State())
	}
	if p.presents == 0 || p.last.Hero == nil {
		t.Fatalf("presents=%d hero=%v", p.presents, p.last.Hero)
	}

	before := p.presents
	if err := a.Redraw(); err != nil {
		t.Fatal(err)
	}
	if p.presents != before+1 {
		t.Fatalf("Redraw presented %d times", p.presents-before)
	}
}

func TestNewHeadless(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripting.IntentScript = ""
	a, err := New(context.Background(), cfg, Options{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Encounter.Close()
	if err := a.Redraw(); err != nil {
		t.Fatalf("headless Redraw: %v", err)
	}
	if err := a.Encounter.Advance(); err != nil {
		t.Fatal(err)
	}
	if n := len(a.World.LivingEnemies()); n < 1 || n > spawn.MaxGroup {
		t.Fatalf("enemy group of %d", n)
	}
}

func TestRandomSpawnAcrossBattles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scheduler.Workers = 4
	a, err := New(context.Background(), cfg, Options{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Encounter.Close()

	enc := a.Encounter
	if err := enc.Advance(); err != nil {
		t.Fatal(err)
	}
	restarts := 0
	for range 30 {
		if enc.State().Kind == turn.KindBattleOver {
			if err := enc.Restart(); err != nil {
				t.Fatal(err)
			}
			restarts++
			if n := len(a.World.LivingEnemies()); n < 1 || n > spawn.MaxGroup {
				t.Fatalf("enemy group of %d after restart", n)
			}
			continue
		}
		if !enc.Queue().Push(input.EndTurnRequested{}) {
			t.Fatal("input queue full")
		}
		if err := enc.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := a.World.Hero(); !ok {
		t.Fatalf("no hero after %d restarts", restarts)
	}
}

func TestNewRejectsBadScript(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripting.IntentScript = filepath.Join(t.TempDir(), "absent.lua")
	if _, err := New(context.Background(), cfg, Options{}, zap.NewNop()); err == nil {
		t.Fatal("missing intent script accepted")
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	log, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hello", zap.Int("round", 3))
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"round":3`) {
		t.Fatalf("log file = %q", raw)
	}
}
