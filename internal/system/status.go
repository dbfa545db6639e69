package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
)

// StatusTickSystem decrements every status duration once per start of
// turn. An entry reaching 0 is removed in the same pass.
type StatusTickSystem struct {
	w *battle.World
}

func NewStatusTickSystem(w *battle.World) *StatusTickSystem {
	return &StatusTickSystem{w: w}
}

func (s *StatusTickSystem) Name() string { return "status_tick" }

func (s *StatusTickSystem) Access() ecs.AccessSet {
	return ecs.Write(component.KindVulnerable, component.KindWeak)
}

func (s *StatusTickSystem) Run(cmd *coresys.Commands) {
	s.w.Vulnerable.Each(func(id ecs.EntityID, v component.Vulnerable) {
		if left := v.Remaining - 1; left > 0 {
			cmd.Add(id, component.Vulnerable{Remaining: left})
			return
		}
		cmd.Detach(id, component.KindVulnerable)
		cmd.Post(event.StatusExpired{Target: id, Status: "vulnerable"})
	})
	s.w.Weak.Each(func(id ecs.EntityID, v component.Weak) {
		if left := v.Remaining - 1; left > 0 {
			cmd.Add(id, component.Weak{Remaining: left})
			return
		}
		cmd.Detach(id, component.KindWeak)
		cmd.Post(event.StatusExpired{Target: id, Status: "weak"})
	})
}

// ApplyStatusSystem consumes Vulnerability or Weakness messages and sets or
// extends the target's status per the configured policy. Several messages
// aimed at one target in the same phase apply in message order.
type ApplyStatusSystem struct {
	w       *battle.World
	name    string
	effect  component.EffectKind
	out     ecs.Kind
	current func(id ecs.EntityID) int
	build   func(remaining int) ecs.Component
	label   string
}

func NewApplyVulnerabilitySystem(w *battle.World) *ApplyStatusSystem {
	return &ApplyStatusSystem{
		w:      w,
		name:   "apply_vulnerability",
		effect: component.EffectVulnerability,
		out:    component.KindVulnerable,
		current: func(id ecs.EntityID) int {
			v, _ := w.Vulnerable.Get(id)
			return v.Remaining
		},
		build: func(n int) ecs.Component { return component.Vulnerable{Remaining: n} },
		label: "vulnerable",
	}
}

func NewApplyWeaknessSystem(w *battle.World) *ApplyStatusSystem {
	return &ApplyStatusSystem{
		w:      w,
		name:   "apply_weakness",
		effect: component.EffectWeakness,
		out:    component.KindWeak,
		current: func(id ecs.EntityID) int {
			v, _ := w.Weak.Get(id)
			return v.Remaining
		},
		build: func(n int) ecs.Component { return component.Weak{Remaining: n} },
		label: "weak",
	}
}

func (s *ApplyStatusSystem) Name() string { return s.name }

func (s *ApplyStatusSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.KindCardEffect, component.KindHealth),
		ecs.Write(s.out),
	)
}

func (s *ApplyStatusSystem) Run(cmd *coresys.Commands) {
	pending := map[ecs.EntityID]int{}
	var order []ecs.EntityID
	s.w.Effects.Each(func(msg ecs.EntityID, e component.CardEffect) {
		if e.Type != s.effect {
			return
		}
		cmd.Remove(msg)
		if e.Amount <= 0 {
			return
		}
		if hp, ok := s.w.Health.Get(e.Target); !ok || hp.Current <= 0 {
			return
		}
		cur, seen := pending[e.Target]
		if !seen {
			cur = s.current(e.Target)
			order = append(order, e.Target)
		}
		pending[e.Target] = s.w.Rules.Reapply(cur, e.Amount)
	})
	for _, id := range order {
		cmd.Add(id, s.build(pending[id]))
		cmd.Post(event.StatusApplied{Target: id, Status: s.label, Remaining: pending[id]})
	}
}
