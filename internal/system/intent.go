package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/data"
)

// IntentPolicy chooses an enemy's next action. The Lua engine and the
// weighted table policy both implement it.
type IntentPolicy interface {
	ChooseIntent(ctx data.IntentContext) component.Intent
}

// intentKinds are every component describing a pending enemy action.
var intentKinds = []ecs.Kind{
	component.KindIntent,
	component.KindDamageIntent,
	component.KindVulnerabilityIntent,
	component.KindWeaknessIntent,
	component.KindBlockIntent,
	component.KindTakeAction,
}

// ClearIntentsSystem removes all intents, derived sub-effects and
// take-action markers so intents never carry over between rounds.
type ClearIntentsSystem struct {
	w *battle.World
}

func NewClearIntentsSystem(w *battle.World) *ClearIntentsSystem {
	return &ClearIntentsSystem{w: w}
}

func (s *ClearIntentsSystem) Name() string { return "clear_intents" }

func (s *ClearIntentsSystem) Access() ecs.AccessSet {
	return ecs.Write(intentKinds...)
}

func (s *ClearIntentsSystem) Run(cmd *coresys.Commands) {
	for _, k := range intentKinds {
		st, _ := s.w.ECS.Registry().Store(k)
		ids, ok := st.(interface{ IDs() []ecs.EntityID })
		if !ok {
			continue
		}
		for _, id := range ids.IDs() {
			cmd.Detach(id, k)
		}
	}
}

// GenerateIntentsSystem gives every living enemy exactly one new intent.
type GenerateIntentsSystem struct {
	w      *battle.World
	policy IntentPolicy
}

func NewGenerateIntentsSystem(w *battle.World, policy IntentPolicy) *GenerateIntentsSystem {
	return &GenerateIntentsSystem{w: w, policy: policy}
}

func (s *GenerateIntentsSystem) Name() string { return "generate_intents" }

func (s *GenerateIntentsSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.KindEnemy, component.KindHero, component.KindHealth, component.ResTurnState),
		ecs.Write(component.KindIntent, component.ResScript, component.ResRandom),
	)
}

func (s *GenerateIntentsSystem) Run(cmd *coresys.Commands) {
	heroHP := 0
	if hero, ok := s.w.Hero(); ok {
		if hp, ok := s.w.Health.Get(hero); ok {
			heroHP = hp.Current
		}
	}
	ecs.Each2(s.w.Enemies, s.w.Health, func(id ecs.EntityID, e component.Enemy, hp component.Health) {
		if hp.Current <= 0 {
			return
		}
		in := s.policy.ChooseIntent(data.IntentContext{
			Enemy:      e.Type,
			Name:       e.Name,
			Round:      s.w.Turn.Round(),
			Health:     hp.Current,
			MaxHealth:  hp.Max,
			HeroHealth: heroHP,
		})
		cmd.Add(id, in)
		cmd.Post(event.IntentDeclared{Enemy: id, Intent: in.Type.String(), Amount: in.Magnitude})
	})
}

// DeriveIntentSystem turns one intent kind into its concrete sub-effect
// component. One instance runs per kind so all four share a batch.
type DeriveIntentSystem struct {
	w      *battle.World
	name   string
	kind   component.IntentKind
	out    ecs.Kind
	derive func(magnitude int) ecs.Component
}

func NewDeriveDamageSystem(w *battle.World) *DeriveIntentSystem {
	return &DeriveIntentSystem{w: w, name: "derive_damage", kind: component.IntentDealDamage,
		out: component.KindDamageIntent,
		derive: func(m int) ecs.Component { return component.DamageIntent{Amount: m} }}
}

func NewDeriveVulnerabilitySystem(w *battle.World) *DeriveIntentSystem {
	return &DeriveIntentSystem{w: w, name: "derive_vulnerability", kind: component.IntentInflictVulnerability,
		out: component.KindVulnerabilityIntent,
		derive: func(m int) ecs.Component { return component.VulnerabilityIntent{Duration: m} }}
}

func NewDeriveWeaknessSystem(w *battle.World) *DeriveIntentSystem {
	return &DeriveIntentSystem{w: w, name: "derive_weakness", kind: component.IntentInflictWeakness,
		out: component.KindWeaknessIntent,
		derive: func(m int) ecs.Component { return component.WeaknessIntent{Duration: m} }}
}

func NewDeriveBlockSystem(w *battle.World) *DeriveIntentSystem {
	return &DeriveIntentSystem{w: w, name: "derive_block", kind: component.IntentBlock,
		out: component.KindBlockIntent,
		derive: func(m int) ecs.Component { return component.BlockIntent{Amount: m} }}
}

func (s *DeriveIntentSystem) Name() string { return s.name }

func (s *DeriveIntentSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindIntent), ecs.Write(s.out))
}

func (s *DeriveIntentSystem) Run(cmd *coresys.Commands) {
	s.w.Intents.Each(func(id ecs.EntityID, in component.Intent) {
		if in.Type == s.kind {
			cmd.Add(id, s.derive(in.Magnitude))
		}
	})
}

// ClearTakeActionSystem drops take-action markers left by the last enemy
// turn.
type ClearTakeActionSystem struct {
	w *battle.World
}

func NewClearTakeActionSystem(w *battle.World) *ClearTakeActionSystem {
	return &ClearTakeActionSystem{w: w}
}

func (s *ClearTakeActionSystem) Name() string { return "clear_take_action" }

func (s *ClearTakeActionSystem) Access() ecs.AccessSet {
	return ecs.Write(component.KindTakeAction)
}

func (s *ClearTakeActionSystem) Run(cmd *coresys.Commands) {
	for _, id := range s.w.TakeActions.IDs() {
		cmd.Detach(id, component.KindTakeAction)
	}
}

// ResolveIntentSystem turns one derived sub-effect into effect messages
// during the enemy turn. A sub-effect on an entity without an Intent means
// clearing and derivation ran out of order.
type ResolveIntentSystem struct {
	w      *battle.World
	name   string
	in     ecs.Kind
	ids    func() []ecs.EntityID
	effect func(enemy, hero ecs.EntityID) component.CardEffect
}

func NewResolveDamageSystem(w *battle.World) *ResolveIntentSystem {
	return &ResolveIntentSystem{w: w, name: "resolve_damage", in: component.KindDamageIntent,
		ids: w.DamageInt.IDs,
		effect: func(enemy, hero ecs.EntityID) component.CardEffect {
			d, _ := w.DamageInt.Get(enemy)
			return component.CardEffect{Type: component.EffectDamage, Amount: d.Amount, Source: enemy, Target: hero}
		}}
}

func NewResolveVulnerabilitySystem(w *battle.World) *ResolveIntentSystem {
	return &ResolveIntentSystem{w: w, name: "resolve_vulnerability", in: component.KindVulnerabilityIntent,
		ids: w.VulnInt.IDs,
		effect: func(enemy, hero ecs.EntityID) component.CardEffect {
			v, _ := w.VulnInt.Get(enemy)
			return component.CardEffect{Type: component.EffectVulnerability, Amount: v.Duration, Source: enemy, Target: hero}
		}}
}

func NewResolveWeaknessSystem(w *battle.World) *ResolveIntentSystem {
	return &ResolveIntentSystem{w: w, name: "resolve_weakness", in: component.KindWeaknessIntent,
		ids: w.WeakInt.IDs,
		effect: func(enemy, hero ecs.EntityID) component.CardEffect {
			v, _ := w.WeakInt.Get(enemy)
			return component.CardEffect{Type: component.EffectWeakness, Amount: v.Duration, Source: enemy, Target: hero}
		}}
}

// NewResolveBlockSystem targets the enemy itself.
func NewResolveBlockSystem(w *battle.World) *ResolveIntentSystem {
	return &ResolveIntentSystem{w: w, name: "resolve_block", in: component.KindBlockIntent,
		ids: w.BlockInt.IDs,
		effect: func(enemy, _ ecs.EntityID) component.CardEffect {
			b, _ := w.BlockInt.Get(enemy)
			return component.CardEffect{Type: component.EffectBlock, Amount: b.Amount, Source: enemy, Target: enemy}
		}}
}

func (s *ResolveIntentSystem) Name() string { return s.name }

func (s *ResolveIntentSystem) Access() ecs.AccessSet {
	return ecs.Read(s.in, component.KindIntent, component.KindHero, component.KindHealth)
}

func (s *ResolveIntentSystem) Run(cmd *coresys.Commands) {
	hero, ok := s.w.Hero()
	if !ok {
		return
	}
	for _, id := range s.ids() {
		if !s.w.Intents.Has(id) {
			ecs.Violate(s.name, "%s carries %s without an Intent", id, s.in)
		}
		if hp, ok := s.w.Health.Get(id); !ok || hp.Current <= 0 {
			continue
		}
		cmd.Spawn(s.effect(id, hero))
	}
}

// MarkActingSystem tags every enemy resolving an intent this turn.
type MarkActingSystem struct {
	w *battle.World
}

func NewMarkActingSystem(w *battle.World) *MarkActingSystem {
	return &MarkActingSystem{w: w}
}

func (s *MarkActingSystem) Name() string { return "mark_acting" }

func (s *MarkActingSystem) Access() ecs.AccessSet {
	return ecs.Declare(ecs.Read(component.KindIntent), ecs.Write(component.KindTakeAction))
}

func (s *MarkActingSystem) Run(cmd *coresys.Commands) {
	for _, id := range s.w.Intents.IDs() {
		cmd.Add(id, component.TakeAction{})
	}
}
