package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// DeathSystem removes slain enemies and ends the battle when a side is
// wiped out. Its request outranks the end-of-turn request raised in the
// same batch. A dead hero stays in the world until restart.
type DeathSystem struct {
	w *battle.World
}

func NewDeathSystem(w *battle.World) *DeathSystem {
	return &DeathSystem{w: w}
}

func (s *DeathSystem) Name() string { return "death" }

func (s *DeathSystem) Access() ecs.AccessSet {
	return ecs.Read(component.ResTurnState, component.KindHero, component.KindEnemy, component.KindHealth)
}

func (s *DeathSystem) Run(cmd *coresys.Commands) {
	switch s.w.Turn.State().Kind {
	case turn.KindInitializing, turn.KindBattleOver:
		return
	}

	living := 0
	ecs.Each2(s.w.Enemies, s.w.Health, func(id ecs.EntityID, e component.Enemy, hp component.Health) {
		if hp.Current > 0 {
			living++
			return
		}
		cmd.Remove(id)
		cmd.Post(event.CombatantDied{Entity: id, Name: e.Name})
	})
	// an Enemy without Health cannot die but still counts
	for _, id := range s.w.Enemies.IDs() {
		if !s.w.Health.Has(id) {
			living++
		}
	}

	heroDown := true
	if hero, ok := s.w.Hero(); ok {
		if hp, ok := s.w.Health.Get(hero); !ok || hp.Current > 0 {
			heroDown = false
		} else {
			h, _ := s.w.Heroes.Get(hero)
			cmd.Post(event.CombatantDied{Entity: hero, Name: h.Name, Hero: true})
		}
	}

	switch {
	case heroDown:
		cmd.Post(turn.Request{To: turn.BattleOver(false), Precedence: turn.PrecedenceDeath, Source: s.Name()})
	case living == 0:
		cmd.Post(turn.Request{To: turn.BattleOver(true), Precedence: turn.PrecedenceDeath, Source: s.Name()})
	}
}
