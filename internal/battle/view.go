package battle

import (
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/data"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// CombatantView is a read-only copy of one combatant for presentation.
type CombatantView struct {
	ID         ecs.EntityID
	Name       string
	Hero       bool
	Kind       component.EnemyKind
	Pos        component.Position
	Health     int
	MaxHealth  int
	Block      int
	Vulnerable int
	Weak       int
	Intent     *component.Intent
}

type CardView struct {
	ID       int
	Name     string
	Cost     int
	Target   data.TargetKind
	Playable bool
}

// View is a settled snapshot handed to the presentation collaborator and
// to the MCP state tool. It shares no memory with the stores.
type View struct {
	State        turn.State
	Round        int
	Hero         *CombatantView
	Enemies      []CombatantView
	Hand         []CardView
	DrawCount    int
	DiscardCount int
	Energy       int
	MaxEnergy    int
	Target       *component.CardTarget
}

// Snapshot copies the presentation-relevant state. Call only between
// batches.
func (w *World) Snapshot() View {
	v := View{State: w.Turn.State(), Round: w.Turn.Round()}
	if id, ok := w.Hero(); ok {
		c := w.combatant(id)
		c.Hero = true
		if h, ok := w.Heroes.Get(id); ok {
			c.Name = h.Name
		}
		v.Hero = &c
		if en, ok := w.Energy.Get(id); ok {
			v.Energy, v.MaxEnergy = en.Current, en.Max
		}
		if d, ok := w.Decks.Get(id); ok {
			v.DrawCount, v.DiscardCount = len(d.Draw), len(d.Discard)
			for _, card := range d.Hand {
				cv := CardView{ID: card.ID, Name: card.Name, Playable: w.Playable(card, v.Energy)}
				if def := w.Cards.Get(card.Name); def != nil {
					cv.Cost, cv.Target = def.Cost, def.Target
				}
				v.Hand = append(v.Hand, cv)
			}
		}
		if t, ok := w.Targets.Get(id); ok {
			v.Target = &t
		}
	}
	w.Enemies.Each(func(id ecs.EntityID, e component.Enemy) {
		c := w.combatant(id)
		c.Name, c.Kind = e.Name, e.Type
		if in, ok := w.Intents.Get(id); ok {
			c.Intent = &in
		}
		v.Enemies = append(v.Enemies, c)
	})
	return v
}

func (w *World) combatant(id ecs.EntityID) CombatantView {
	c := CombatantView{ID: id}
	if p, ok := w.Positions.Get(id); ok {
		c.Pos = p
	}
	if hp, ok := w.Health.Get(id); ok {
		c.Health, c.MaxHealth = hp.Current, hp.Max
	}
	if b, ok := w.Blocks.Get(id); ok {
		c.Block = b.Amount
	}
	if s, ok := w.Vulnerable.Get(id); ok {
		c.Vulnerable = s.Remaining
	}
	if s, ok := w.Weak.Get(id); ok {
		c.Weak = s.Remaining
	}
	return c
}

// Enemy returns the view of enemy id, if present.
func (v View) Enemy(id ecs.EntityID) (CombatantView, bool) {
	for _, e := range v.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return CombatantView{}, false
}

// HandIDs lists card IDs in hand order.
func (v View) HandIDs() []int {
	out := make([]int, 0, len(v.Hand))
	for _, c := range v.Hand {
		out = append(out, c.ID)
	}
	return out
}

// LivingEnemyIDs lists enemies with health left in screen order.
func (v View) LivingEnemyIDs() []ecs.EntityID {
	var out []ecs.EntityID
	for _, e := range v.Enemies {
		if e.Health > 0 {
			out = append(out, e.ID)
		}
	}
	return out
}
