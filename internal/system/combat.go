package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
)

// Combat resolution. Damage flows through four barriers:
// multipliers -> block -> health, then statuses.

// ClearBlockSystem zeroes Block on every hero or every enemy.
type ClearBlockSystem struct {
	w    *battle.World
	name string
	role ecs.Kind
	ids  func() []ecs.EntityID
}

func NewClearHeroBlockSystem(w *battle.World) *ClearBlockSystem {
	return &ClearBlockSystem{w: w, name: "clear_hero_block", role: component.KindHero, ids: w.Heroes.IDs}
}

func NewClearEnemyBlockSystem(w *battle.World) *ClearBlockSystem {
	return &ClearBlockSystem{w: w, name: "clear_enemy_block", role: component.KindEnemy, ids: w.Enemies.IDs}
}

func (s *ClearBlockSystem) Name() string { return s.name }

func (s *ClearBlockSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(s.role), ecs.Write(component.KindBlock))
}

func (s *ClearBlockSystem) Run(cmd *coresys.Commands) {
	for _, id := range s.ids() {
		if b, ok := s.w.Blocks.Get(id); ok && b.Amount != 0 {
			cmd.Add(id, component.Block{})
		}
	}
}

// DamageMultiplierSystem scales pending damage by the source's Weak and the
// target's Vulnerable status as they stand now.
type DamageMultiplierSystem struct {
	w *battle.World
}

func NewDamageMultiplierSystem(w *battle.World) *DamageMultiplierSystem {
	return &DamageMultiplierSystem{w: w}
}

func (s *DamageMultiplierSystem) Name() string { return "damage_multipliers" }

func (s *DamageMultiplierSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.KindWeak, component.KindVulnerable),
		ecs.Write(component.KindCardEffect),
	)
}

func (s *DamageMultiplierSystem) Run(cmd *coresys.Commands) {
	s.w.Effects.Each(func(msg ecs.EntityID, e component.CardEffect) {
		if e.Type != component.EffectDamage {
			return
		}
		scaled := s.w.Rules.Scale(e.Amount, s.w.Weak.Has(e.Source), s.w.Vulnerable.Has(e.Target))
		if scaled != e.Amount {
			e.Amount = scaled
			cmd.Add(msg, e)
		}
	})
}

// ApplyBlockSystem lets the target's Block absorb pending damage. Block is
// spent by what it absorbed; the message keeps max(0, raw - block).
type ApplyBlockSystem struct {
	w *battle.World
}

func NewApplyBlockSystem(w *battle.World) *ApplyBlockSystem {
	return &ApplyBlockSystem{w: w}
}

func (s *ApplyBlockSystem) Name() string { return "apply_block" }

func (s *ApplyBlockSystem) Access() ecs.AccessSet {
	return ecs.Write(component.KindBlock, component.KindCardEffect)
}

func (s *ApplyBlockSystem) Run(cmd *coresys.Commands) {
	left := map[ecs.EntityID]int{}
	var touched []ecs.EntityID
	s.w.Effects.Each(func(msg ecs.EntityID, e component.CardEffect) {
		if e.Type != component.EffectDamage || e.Amount <= 0 {
			return
		}
		block, seen := left[e.Target]
		if !seen {
			b, ok := s.w.Blocks.Get(e.Target)
			if !ok {
				return
			}
			block = b.Amount
			touched = append(touched, e.Target)
		}
		absorbed := min(block, e.Amount)
		left[e.Target] = block - absorbed
		if absorbed > 0 {
			e.Amount -= absorbed
			cmd.Add(msg, e)
		}
	})
	for _, id := range touched {
		if b, _ := s.w.Blocks.Get(id); b.Amount != left[id] {
			cmd.Add(id, component.Block{Amount: left[id]})
		}
	}
}

// DealDamageSystem subtracts post-block damage from health, clamped at 0,
// and consumes the damage messages.
type DealDamageSystem struct {
	w *battle.World
}

func NewDealDamageSystem(w *battle.World) *DealDamageSystem {
	return &DealDamageSystem{w: w}
}

func (s *DealDamageSystem) Name() string { return "deal_damage" }

func (s *DealDamageSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindCardEffect), ecs.Write(component.KindHealth))
}

func (s *DealDamageSystem) Run(cmd *coresys.Commands) {
	health := map[ecs.EntityID]component.Health{}
	var touched []ecs.EntityID
	s.w.Effects.Each(func(msg ecs.EntityID, e component.CardEffect) {
		if e.Type != component.EffectDamage {
			return
		}
		cmd.Remove(msg)
		hp, seen := health[e.Target]
		if !seen {
			var ok bool
			if hp, ok = s.w.Health.Get(e.Target); !ok {
				return
			}
			touched = append(touched, e.Target)
		}
		hp.Current = max(0, hp.Current-max(0, e.Amount))
		health[e.Target] = hp
		cmd.Post(event.DamageDealt{Source: e.Source, Target: e.Target, Amount: e.Amount, Health: hp.Current})
	})
	for _, id := range touched {
		cmd.Add(id, health[id])
	}
}

// GainBlockSystem adds pending Block messages to their targets.
type GainBlockSystem struct {
	w *battle.World
}

func NewGainBlockSystem(w *battle.World) *GainBlockSystem {
	return &GainBlockSystem{w: w}
}

func (s *GainBlockSystem) Name() string { return "gain_block" }

func (s *GainBlockSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindCardEffect), ecs.Write(component.KindBlock))
}

func (s *GainBlockSystem) Run(cmd *coresys.Commands) {
	total := map[ecs.EntityID]int{}
	var touched []ecs.EntityID
	s.w.Effects.Each(func(msg ecs.EntityID, e component.CardEffect) {
		if e.Type != component.EffectBlock {
			return
		}
		cmd.Remove(msg)
		if e.Amount <= 0 {
			return
		}
		cur, seen := total[e.Target]
		if !seen {
			b, ok := s.w.Blocks.Get(e.Target)
			if !ok {
				return
			}
			cur = b.Amount
			touched = append(touched, e.Target)
		}
		total[e.Target] = cur + e.Amount
		cmd.Post(event.BlockGained{Target: e.Target, Amount: e.Amount, Total: total[e.Target]})
	})
	for _, id := range touched {
		cmd.Add(id, component.Block{Amount: total[id]})
	}
}
