// Package render is the presentation collaborator. It only ever sees a
// settled battle.View and never writes combat state.
package render

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
)

// Presenter draws one layer of the battle scene per call. Calls arrive in
// the fixed order of Steps and always on the scheduler goroutine.
type Presenter interface {
	DrawBackground(v battle.View) error
	DrawCharacters(v battle.View) error
	DrawHealthBars(v battle.View) error
	DrawHand(v battle.View) error
	DrawIntents(v battle.View) error
	DrawTargeting(v battle.View) error
	DrawCardZones(v battle.View) error
	DrawEnergy(v battle.View) error
	DrawStatus(v battle.View) error
	Present()
}

// Pass adapts a Presenter into the nine thread-local schedule steps. The
// first step takes the snapshot the rest of the pass draws from.
type Pass struct {
	w    *battle.World
	p    Presenter
	view battle.View
}

func NewPass(w *battle.World, p Presenter) *Pass {
	return &Pass{w: w, p: p}
}

// Steps returns the presentation steps in draw order.
func (r *Pass) Steps() []coresys.ThreadLocal {
	return []coresys.ThreadLocal{
		step{"background", func() error {
			r.view = r.w.Snapshot()
			return r.p.DrawBackground(r.view)
		}},
		step{"characters", func() error { return r.p.DrawCharacters(r.view) }},
		step{"health_bars", func() error { return r.p.DrawHealthBars(r.view) }},
		step{"hand", func() error { return r.p.DrawHand(r.view) }},
		step{"intents", func() error { return r.p.DrawIntents(r.view) }},
		step{"targeting", func() error { return r.p.DrawTargeting(r.view) }},
		step{"card_zones", func() error { return r.p.DrawCardZones(r.view) }},
		step{"energy", func() error { return r.p.DrawEnergy(r.view) }},
		step{"status", func() error {
			err := r.p.DrawStatus(r.view)
			r.p.Present()
			return err
		}},
	}
}

// View returns the snapshot of the most recent pass.
func (r *Pass) View() battle.View { return r.view }

type step struct {
	name string
	draw func() error
}

func (s step) Name() string { return s.name }
func (s step) Draw() error  { return s.draw() }

// Nop draws nothing. Headless drivers use it.
type Nop struct{}

func (Nop) DrawBackground(battle.View) error { return nil }
func (Nop) DrawCharacters(battle.View) error { return nil }
func (Nop) DrawHealthBars(battle.View) error { return nil }
func (Nop) DrawHand(battle.View) error       { return nil }
func (Nop) DrawIntents(battle.View) error    { return nil }
func (Nop) DrawTargeting(battle.View) error  { return nil }
func (Nop) DrawCardZones(battle.View) error  { return nil }
func (Nop) DrawEnergy(battle.View) error     { return nil }
func (Nop) DrawStatus(battle.View) error     { return nil }
func (Nop) Present()                         {}
