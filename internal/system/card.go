package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/data"
)

// SelectTargetSystem records the player's targeting choice from the input
// frame. Invalid choices are ignored.
type SelectTargetSystem struct {
	w *battle.World
}

func NewSelectTargetSystem(w *battle.World) *SelectTargetSystem {
	return &SelectTargetSystem{w: w}
}

func (s *SelectTargetSystem) Name() string { return "select_target" }

func (s *SelectTargetSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.ResInput, component.KindHero, component.KindEnemy, component.KindHealth, component.KindDeck),
		ecs.Write(component.KindCardTarget),
	)
}

func (s *SelectTargetSystem) Run(cmd *coresys.Commands) {
	sel := s.w.Input.Target
	if sel == nil {
		return
	}
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	d, _ := s.w.Decks.Get(hero)
	if _, ok := d.InHand(sel.Card); !ok || !livingEnemy(s.w, sel.Target) {
		return
	}
	cmd.Add(hero, component.CardTarget{Card: sel.Card, Target: sel.Target})
}

// SelectCardSystem records the card the player confirmed, if it is in hand
// and affordable.
type SelectCardSystem struct {
	w *battle.World
}

func NewSelectCardSystem(w *battle.World) *SelectCardSystem {
	return &SelectCardSystem{w: w}
}

func (s *SelectCardSystem) Name() string { return "select_card" }

func (s *SelectCardSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.ResInput, component.KindHero, component.KindDeck, component.KindEnergy),
		ecs.Write(component.KindCardPlay),
	)
}

func (s *SelectCardSystem) Run(cmd *coresys.Commands) {
	conf := s.w.Input.Confirm
	if conf == nil {
		return
	}
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	d, _ := s.w.Decks.Get(hero)
	en, _ := s.w.Energy.Get(hero)
	card, ok := d.InHand(conf.Card)
	if !ok || !s.w.Playable(card, en.Current) {
		return
	}
	cmd.Add(hero, component.CardPlay{Card: conf.Card})
}

// play is a confirmed card that can actually be played right now.
type play struct {
	card   component.Card
	def    *data.CardDef
	target ecs.EntityID
}

// resolvePlay checks the hero's confirmed card against hand, energy and
// target. Both card systems use it so they agree on the same snapshot.
func resolvePlay(w *battle.World, hero ecs.EntityID) (play, bool) {
	sel, ok := w.Plays.Get(hero)
	if !ok {
		return play{}, false
	}
	d, _ := w.Decks.Get(hero)
	card, ok := d.InHand(sel.Card)
	if !ok {
		return play{}, false
	}
	def := w.Cards.Get(card.Name)
	en, _ := w.Energy.Get(hero)
	if def == nil || def.Cost > en.Current {
		return play{}, false
	}
	p := play{card: card, def: def, target: hero}
	if def.Target == data.TargetEnemy {
		t, ok := w.Targets.Get(hero)
		if !ok || t.Card != card.ID || !livingEnemy(w, t.Target) {
			return play{}, false
		}
		p.target = t.Target
	}
	return p, true
}

func livingEnemy(w *battle.World, id ecs.EntityID) bool {
	if !w.Enemies.Has(id) {
		return false
	}
	hp, ok := w.Health.Get(id)
	return ok && hp.Current > 0
}

// SendCardMessagesSystem translates the confirmed card into effect
// messages.
type SendCardMessagesSystem struct {
	w *battle.World
}

func NewSendCardMessagesSystem(w *battle.World) *SendCardMessagesSystem {
	return &SendCardMessagesSystem{w: w}
}

func (s *SendCardMessagesSystem) Name() string { return "send_card_messages" }

func (s *SendCardMessagesSystem) Access() ecs.AccessSet {
	return ecs.Read(
		component.KindHero, component.KindEnemy, component.KindHealth, component.KindDeck,
		component.KindEnergy, component.KindCardPlay, component.KindCardTarget,
	)
}

func (s *SendCardMessagesSystem) Run(cmd *coresys.Commands) {
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	p, ok := resolvePlay(s.w, hero)
	if !ok {
		return
	}
	for _, e := range p.def.Effects {
		cmd.Spawn(component.CardEffect{Type: e.Type, Amount: e.Amount, Source: hero, Target: p.target})
	}
	cmd.Post(event.CardPlayed{Card: p.card.Name, Target: p.target, Cost: p.def.Cost})
}

// PlayCardSystem pays for the confirmed card and moves it to the discard
// pile. The confirmation is always consumed, played or not.
type PlayCardSystem struct {
	w *battle.World
}

func NewPlayCardSystem(w *battle.World) *PlayCardSystem {
	return &PlayCardSystem{w: w}
}

func (s *PlayCardSystem) Name() string { return "play_card" }

func (s *PlayCardSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.KindHero, component.KindEnemy, component.KindHealth),
		ecs.Write(component.KindDeck, component.KindEnergy, component.KindCardPlay, component.KindCardTarget),
	)
}

func (s *PlayCardSystem) Run(cmd *coresys.Commands) {
	hero, ok := s.w.Hero()
	if !ok || !s.w.Plays.Has(hero) {
		return
	}
	defer cmd.Detach(hero, component.KindCardPlay)

	p, ok := resolvePlay(s.w, hero)
	if !ok {
		return
	}
	en, _ := s.w.Energy.Get(hero)
	cmd.Add(hero, component.Energy{Current: en.Current - p.def.Cost, Max: en.Max})

	d, _ := s.w.Decks.Get(hero)
	d = d.Clone()
	for i, c := range d.Hand {
		if c.ID == p.card.ID {
			d.Hand = append(d.Hand[:i], d.Hand[i+1:]...)
			break
		}
	}
	d.Discard = append(d.Discard, p.card)
	cmd.Add(hero, d)
	if s.w.Targets.Has(hero) {
		cmd.Detach(hero, component.KindCardTarget)
	}
}
