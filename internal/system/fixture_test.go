package system

import (
	"math/rand/v2"
	"testing"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/data"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// fixture is a battle world plus a sink that commits turn requests at every
// barrier and records everything else.
type fixture struct {
	t      *testing.T
	w      *battle.World
	events []any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cards, err := data.LoadCardTable("")
	if err != nil {
		t.Fatal(err)
	}
	enemies, err := data.LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	w := battle.New(battle.DefaultRules(), cards, enemies, rand.New(rand.NewPCG(7, 11)), zap.NewNop())
	return &fixture{t: t, w: w}
}

func (f *fixture) Post(msg any) {
	if r, ok := msg.(turn.Request); ok {
		f.w.Turn.Submit(r)
		return
	}
	f.events = append(f.events, msg)
}

func (f *fixture) Settle() { f.w.Turn.Commit() }

// spawn creates an entity immediately.
func (f *fixture) spawn(cs ...ecs.Component) ecs.EntityID {
	f.t.Helper()
	buf := ecs.NewCommandBuffer()
	h := buf.Spawn(cs...)
	buf.Flush(f.w.ECS, nil)
	id, ok := buf.Resolved(h)
	if !ok {
		f.t.Fatal("spawn did not resolve")
	}
	return id
}

// set attaches components immediately.
func (f *fixture) set(id ecs.EntityID, cs ...ecs.Component) {
	buf := ecs.NewCommandBuffer()
	for _, c := range cs {
		buf.Add(id, c)
	}
	buf.Flush(f.w.ECS, nil)
}

func (f *fixture) hero() ecs.EntityID {
	return f.spawn(f.w.NewHero()...)
}

func (f *fixture) enemy(kind component.EnemyKind) ecs.EntityID {
	return f.spawn(f.w.NewEnemy(kind)...)
}

// run executes the given batches as one schedule, a flush after each.
func (f *fixture) run(batches ...[]coresys.System) coresys.Report {
	f.t.Helper()
	b := coresys.NewBuilder(f.t.Name())
	for _, batch := range batches {
		for _, s := range batch {
			b.Add(s)
		}
		b.Flush()
	}
	s, err := b.Build()
	if err != nil {
		f.t.Fatalf("build: %v", err)
	}
	r := coresys.NewRunner(2, zap.NewNop())
	r.Register(coresys.PhasePlayerTurn, s)
	rep, err := r.Run(coresys.PhasePlayerTurn, f.w.ECS, f)
	if err != nil {
		f.t.Fatalf("run: %v", err)
	}
	return rep
}

func (f *fixture) resolution() [][]coresys.System {
	w := f.w
	return [][]coresys.System{
		{NewDamageMultiplierSystem(w)},
		{NewApplyBlockSystem(w)},
		{NewDealDamageSystem(w), NewGainBlockSystem(w)},
		{NewApplyVulnerabilitySystem(w), NewApplyWeaknessSystem(w)},
	}
}

func (f *fixture) health(id ecs.EntityID) int {
	hp, ok := f.w.Health.Get(id)
	if !ok {
		f.t.Fatalf("%s has no health", id)
	}
	return hp.Current
}

func eventsOf[T any](f *fixture) []T {
	var out []T
	for _, ev := range f.events {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func batch(s ...coresys.System) []coresys.System { return s }

type fixedIntent component.Intent

func (p fixedIntent) ChooseIntent(data.IntentContext) component.Intent { return component.Intent(p) }

func expectViolation(t *testing.T) {
	t.Helper()
	r := recover()
	if _, ok := r.(*ecs.ContractViolation); !ok {
		t.Fatalf("expected contract violation, got %v", r)
	}
}
