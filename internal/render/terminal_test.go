package render

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/data"
	"github.com/l1jgo/deckbattle/internal/turn"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(100, 30)
	t.Cleanup(s.Fini)
	return s
}

func readRow(s tcell.SimulationScreen, x, y, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		r, _, _, _ := s.GetContent(x+i, y)
		b.WriteRune(r)
	}
	return b.String()
}

func sceneView() battle.View {
	return battle.View{
		State: turn.PlayerTurn(),
		Round: 2,
		Hero: &battle.CombatantView{
			ID: 1, Name: "Ironclad", Hero: true,
			Pos: component.Position{X: 4, Y: 8}, Health: 40, MaxHealth: 50, Block: 5,
		},
		Enemies: []battle.CombatantView{
			{
				ID: 2, Name: "Orc", Kind: component.EnemyMelee,
				Pos: component.Position{X: 34, Y: 4}, Health: 30, MaxHealth: 30, Vulnerable: 2,
				Intent: &component.Intent{Type: component.IntentDealDamage, Magnitude: 7},
			},
			{
				ID: 3, Name: "Spider", Kind: component.EnemySummoner,
				Pos: component.Position{X: 52, Y: 4}, Health: 24, MaxHealth: 24,
			},
		},
		Hand:      []battle.CardView{{ID: 1, Name: "Strike", Cost: 1, Playable: true}},
		DrawCount: 6, Energy: 2, MaxEnergy: 3,
		Target: &component.CardTarget{Card: 1, Target: 2},
	}
}

func drawAll(t *testing.T, term *Terminal, v battle.View) error {
	t.Helper()
	var errs []error
	for _, fn := range []func(battle.View) error{
		term.DrawBackground, term.DrawCharacters, term.DrawHealthBars, term.DrawHand,
		term.DrawIntents, term.DrawTargeting, term.DrawCardZones, term.DrawEnergy, term.DrawStatus,
	} {
		errs = append(errs, fn(v))
	}
	term.Present()
	return errors.Join(errs...)
}

func TestTerminalDrawsScene(t *testing.T) {
	s := newScreen(t)
	term := NewTerminal(s, DefaultGlyphs)
	if err := drawAll(t, term, sceneView()); err != nil {
		t.Fatalf("draw: %v", err)
	}

	if r, _, _, _ := s.GetContent(4, 8); r != '@' {
		t.Errorf("hero glyph = %q", r)
	}
	if r, _, _, _ := s.GetContent(34, 4); r != 'O' {
		t.Errorf("melee glyph = %q", r)
	}
	if r, _, _, _ := s.GetContent(52, 4); r != 'S' {
		t.Errorf("summoner glyph = %q", r)
	}
	if r, _, _, _ := s.GetContent(32, 4); r != '>' {
		t.Errorf("targeting cursor = %q", r)
	}
	if got := readRow(s, 34, 3, 5); got != "ATK 7" {
		t.Errorf("intent label = %q", got)
	}
	if got := readRow(s, 4, 9, 6); got != "40/50 " {
		t.Errorf("hero health = %q", got)
	}
	if got := readRow(s, 34, 6, 6); got != "vuln 2" {
		t.Errorf("status line = %q", got)
	}
	if got := readRow(s, 1, 27, 11); got != "1:Strike(1)" {
		t.Errorf("hand row = %q", got)
	}
	if got := readRow(s, 1, 28, 10); got != "energy 2/3" {
		t.Errorf("energy row = %q", got)
	}
	if got := readRow(s, 1, 29, 16); got != "draw 6  discard " {
		t.Errorf("zones row = %q", got)
	}
}

func TestMissingGlyphStillDrawsOthers(t *testing.T) {
	s := newScreen(t)
	term := NewTerminal(s, map[component.EnemyKind]rune{component.EnemyMelee: 'O'})

	err := drawAll(t, term, sceneView())
	if !errors.Is(err, ErrMissingGlyph) {
		t.Fatalf("expected ErrMissingGlyph, got %v", err)
	}
	if r, _, _, _ := s.GetContent(34, 4); r != 'O' {
		t.Errorf("melee enemy not drawn: %q", r)
	}
	if r, _, _, _ := s.GetContent(4, 8); r != '@' {
		t.Errorf("hero not drawn: %q", r)
	}
	// the rest of the scene still renders for the skipped enemy
	if got := readRow(s, 52, 5, 6); got != "24/24 " {
		t.Errorf("summoner health bar = %q", got)
	}
}

func TestBarClamps(t *testing.T) {
	tests := []struct {
		cur, max int
		want     string
	}{
		{0, 10, "[..........]"},
		{5, 10, "[#####.....]"},
		{1, 100, "[#.........]"},
		{30, 10, "[##########]"},
		{3, 0, "[..........]"},
	}
	for _, tt := range tests {
		if got := bar(tt.cur, tt.max); got != tt.want {
			t.Errorf("bar(%d, %d) = %q, want %q", tt.cur, tt.max, got, tt.want)
		}
	}
}

type recorder struct {
	calls []string
	fail  string
}

func (r *recorder) note(name string) error {
	r.calls = append(r.calls, name)
	if name == r.fail {
		return errors.New(name + " failed")
	}
	return nil
}

func (r *recorder) DrawBackground(battle.View) error { return r.note("background") }
func (r *recorder) DrawCharacters(battle.View) error { return r.note("characters") }
func (r *recorder) DrawHealthBars(battle.View) error { return r.note("health_bars") }
func (r *recorder) DrawHand(battle.View) error       { return r.note("hand") }
func (r *recorder) DrawIntents(battle.View) error    { return r.note("intents") }
func (r *recorder) DrawTargeting(battle.View) error  { return r.note("targeting") }
func (r *recorder) DrawCardZones(battle.View) error  { return r.note("card_zones") }
func (r *recorder) DrawEnergy(battle.View) error     { return r.note("energy") }
func (r *recorder) DrawStatus(battle.View) error     { return r.note("status") }
func (r *recorder) Present()                         { r.calls = append(r.calls, "present") }

func TestPassStepsInDrawOrder(t *testing.T) {
	cards, err := data.LoadCardTable("")
	if err != nil {
		t.Fatal(err)
	}
	enemies, err := data.LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	w := battle.New(battle.DefaultRules(), cards, enemies, rand.New(rand.NewPCG(1, 2)), zap.NewNop())
	buf := ecs.NewCommandBuffer()
	buf.Spawn(w.NewHero()...)
	buf.Flush(w.ECS, nil)

	rec := &recorder{fail: "characters"}
	pass := NewPass(w, rec)
	var errs []error
	for _, s := range pass.Steps() {
		if err := s.Draw(); err != nil {
			errs = append(errs, err)
		}
	}

	want := []string{"background", "characters", "health_bars", "hand", "intents",
		"targeting", "card_zones", "energy", "status", "present"}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one step error, got %v", errs)
	}
	if v := pass.View(); v.Hero == nil || v.Hero.Name != "Ironclad" {
		t.Fatalf("pass did not snapshot the hero: %+v", v.Hero)
	}
	if got := pass.Steps()[0].Name(); got != "background" {
		t.Fatalf("first step %q", got)
	}
}
