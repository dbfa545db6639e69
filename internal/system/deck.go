package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
)

// DiscardHandSystem moves the hero's whole hand to the discard pile.
type DiscardHandSystem struct {
	w *battle.World
}

func NewDiscardHandSystem(w *battle.World) *DiscardHandSystem {
	return &DiscardHandSystem{w: w}
}

func (s *DiscardHandSystem) Name() string { return "discard_hand" }

func (s *DiscardHandSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindHero), ecs.Write(component.KindDeck))
}

func (s *DiscardHandSystem) Run(cmd *coresys.Commands) {
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	d, ok := s.w.Decks.Get(hero)
	if !ok || len(d.Hand) == 0 {
		return
	}
	d = d.Clone()
	d.Discard = append(d.Discard, d.Hand...)
	d.Hand = nil
	cmd.Add(hero, d)
}

// DrawHandSystem draws up to the hand size, shuffling the discard pile into
// the draw pile whenever the draw pile runs out.
type DrawHandSystem struct {
	w *battle.World
}

func NewDrawHandSystem(w *battle.World) *DrawHandSystem {
	return &DrawHandSystem{w: w}
}

func (s *DrawHandSystem) Name() string { return "draw_hand" }

func (s *DrawHandSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindHero), ecs.Write(component.KindDeck, component.ResRandom))
}

func (s *DrawHandSystem) Run(cmd *coresys.Commands) {
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	d, ok := s.w.Decks.Get(hero)
	if !ok {
		return
	}
	d = d.Clone()
	for len(d.Hand) < s.w.Rules.HandSize {
		if len(d.Draw) == 0 {
			if len(d.Discard) == 0 {
				break
			}
			d.Draw, d.Discard = d.Discard, nil
			s.w.Rand.Shuffle(len(d.Draw), func(i, j int) { d.Draw[i], d.Draw[j] = d.Draw[j], d.Draw[i] })
		}
		top := d.Draw[len(d.Draw)-1]
		d.Draw = d.Draw[:len(d.Draw)-1]
		d.Hand = append(d.Hand, top)
	}
	cmd.Add(hero, d)
}

// RefillEnergySystem resets the hero's energy to its maximum.
type RefillEnergySystem struct {
	w *battle.World
}

func NewRefillEnergySystem(w *battle.World) *RefillEnergySystem {
	return &RefillEnergySystem{w: w}
}

func (s *RefillEnergySystem) Name() string { return "refill_energy" }

func (s *RefillEnergySystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindHero), ecs.Write(component.KindEnergy))
}

func (s *RefillEnergySystem) Run(cmd *coresys.Commands) {
	for _, id := range s.w.Heroes.IDs() {
		if en, ok := s.w.Energy.Get(id); ok && en.Current != en.Max {
			cmd.Add(id, component.Energy{Current: en.Max, Max: en.Max})
		}
	}
}
