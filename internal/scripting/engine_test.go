package scripting

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/data"
)

func newEngine(t *testing.T, path string) *Engine {
	t.Helper()
	enemies, err := data.LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(path, enemies, rand.New(rand.NewPCG(1, 2)), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intent.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltinWoundedEnemyBlocks(t *testing.T) {
	e := newEngine(t, Builtin)
	got := e.ChooseIntent(data.IntentContext{
		Enemy: component.EnemyMelee, Name: "Orc", Round: 2,
		Health: 5, MaxHealth: 30, HeroHealth: 40,
	})
	if got.Type != component.IntentBlock || got.Magnitude != 6 {
		t.Fatalf("got %+v, want block 6", got)
	}
}

func TestBuiltinGoesForLethal(t *testing.T) {
	e := newEngine(t, Builtin)
	got := e.ChooseIntent(data.IntentContext{
		Enemy: component.EnemyRanged, Name: "Crow", Round: 3,
		Health: 20, MaxHealth: 20, HeroHealth: 4,
	})
	if got.Type != component.IntentDealDamage || got.Magnitude != 5 {
		t.Fatalf("got %+v, want deal_damage 5", got)
	}
}

func TestBuiltinStaysWithinTable(t *testing.T) {
	e := newEngine(t, Builtin)
	enemies, _ := data.LoadEnemyTable("")
	for _, kind := range component.EnemyKinds {
		allowed := map[component.Intent]bool{}
		for _, o := range enemies.Get(kind).Intents {
			allowed[component.Intent{Type: o.Kind, Magnitude: o.Amount}] = true
		}
		for range 50 {
			got := e.ChooseIntent(data.IntentContext{Enemy: kind, Health: 20, MaxHealth: 20, HeroHealth: 50})
			if !allowed[got] {
				t.Fatalf("%s: intent %+v not in table", kind, got)
			}
		}
	}
}

func TestScriptErrorFallsBackToTable(t *testing.T) {
	e := newEngine(t, writeScript(t, `function choose_intent(ctx) error("boom") end`))
	got := e.ChooseIntent(data.IntentContext{Enemy: component.EnemySummoner, Health: 24, MaxHealth: 24, HeroHealth: 50})
	found := false
	enemies, _ := data.LoadEnemyTable("")
	for _, o := range enemies.Get(component.EnemySummoner).Intents {
		if o.Kind == got.Type && o.Amount == got.Magnitude {
			found = true
		}
	}
	if !found {
		t.Fatalf("fallback produced %+v", got)
	}
}

func TestBadKindFallsBackToTable(t *testing.T) {
	e := newEngine(t, writeScript(t, `function choose_intent(ctx) return { kind = "dance", amount = 3 } end`))
	got := e.ChooseIntent(data.IntentContext{Enemy: component.EnemyMelee, Health: 30, MaxHealth: 30, HeroHealth: 50})
	if got.Magnitude == 3 {
		t.Fatalf("bad script result leaked through: %+v", got)
	}
}

func TestScriptWithoutEntryPointRejected(t *testing.T) {
	enemies, err := data.LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	path := writeScript(t, `x = 1`)
	if _, err := NewEngine(path, enemies, rand.New(rand.NewPCG(1, 1)), zap.NewNop()); err == nil {
		t.Fatal("script without choose_intent accepted")
	}
}
