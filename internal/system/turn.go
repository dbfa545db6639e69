package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// EndTurnSystem requests the normal successor of the current state. The
// player's turn only ends on request or once nothing in hand is playable.
type EndTurnSystem struct {
	w *battle.World
}

func NewEndTurnSystem(w *battle.World) *EndTurnSystem {
	return &EndTurnSystem{w: w}
}

func (s *EndTurnSystem) Name() string { return "end_turn" }

func (s *EndTurnSystem) Access() ecs.AccessSet {
	return ecs.Read(component.ResTurnState, component.ResInput, component.KindHero,
		component.KindDeck, component.KindEnergy)
}

func (s *EndTurnSystem) Run(cmd *coresys.Commands) {
	cur := s.w.Turn.State()
	next, ok := turn.EndOfTurn(cur, s.w.Turn.Round())
	if !ok {
		return
	}
	if cur.Kind == turn.KindPlayerTurn && !s.w.Input.EndTurn && s.anyPlayable() {
		return
	}
	cmd.Post(turn.Request{To: next, Precedence: turn.PrecedenceEndOfTurn, Source: s.Name()})
}

func (s *EndTurnSystem) anyPlayable() bool {
	hero, ok := s.w.Hero()
	if !ok {
		return false
	}
	d, _ := s.w.Decks.Get(hero)
	en, _ := s.w.Energy.Get(hero)
	for _, c := range d.Hand {
		if s.w.Playable(c, en.Current) {
			return true
		}
	}
	return false
}
