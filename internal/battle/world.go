// Package battle holds the per-encounter state every system works against:
// the ECS world with one typed store per component kind, the turn machine,
// the current input frame and the static tables.
package battle

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/data"
	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// World is the explicit context threaded through every phase. Systems read
// stores directly and write only through their command buffer.
type World struct {
	ECS *ecs.World

	Positions   *ecs.Store[component.Position]
	Heroes      *ecs.Store[component.Hero]
	Enemies     *ecs.Store[component.Enemy]
	Health      *ecs.Store[component.Health]
	Blocks      *ecs.Store[component.Block]
	Energy      *ecs.Store[component.Energy]
	Vulnerable  *ecs.Store[component.Vulnerable]
	Weak        *ecs.Store[component.Weak]
	Intents     *ecs.Store[component.Intent]
	DamageInt   *ecs.Store[component.DamageIntent]
	VulnInt     *ecs.Store[component.VulnerabilityIntent]
	WeakInt     *ecs.Store[component.WeaknessIntent]
	BlockInt    *ecs.Store[component.BlockIntent]
	Effects     *ecs.Store[component.CardEffect]
	TakeActions *ecs.Store[component.TakeAction]
	Decks       *ecs.Store[component.Deck]
	Targets     *ecs.Store[component.CardTarget]
	Plays       *ecs.Store[component.CardPlay]

	Turn  *turn.Machine
	Input input.Frame // set by the encounter before each Player-Turn tick

	Rules     Rules
	Cards     *data.CardTable
	EnemyDefs *data.EnemyTable
	Rand      *rand.Rand // guarded by the Random resource
}

// New builds an empty encounter world.
func New(rules Rules, cards *data.CardTable, enemies *data.EnemyTable, rng *rand.Rand, log *zap.Logger) *World {
	w := &World{
		ECS:       ecs.NewWorld(),
		Turn:      turn.NewMachine(log),
		Rules:     rules,
		Cards:     cards,
		EnemyDefs: enemies,
		Rand:      rng,
	}
	e := w.ECS
	w.Positions = ecs.Register[component.Position](e, component.KindPosition)
	w.Heroes = ecs.Register[component.Hero](e, component.KindHero)
	w.Enemies = ecs.Register[component.Enemy](e, component.KindEnemy)
	w.Health = ecs.Register[component.Health](e, component.KindHealth)
	w.Blocks = ecs.Register[component.Block](e, component.KindBlock)
	w.Energy = ecs.Register[component.Energy](e, component.KindEnergy)
	w.Vulnerable = ecs.Register[component.Vulnerable](e, component.KindVulnerable)
	w.Weak = ecs.Register[component.Weak](e, component.KindWeak)
	w.Intents = ecs.Register[component.Intent](e, component.KindIntent)
	w.DamageInt = ecs.Register[component.DamageIntent](e, component.KindDamageIntent)
	w.VulnInt = ecs.Register[component.VulnerabilityIntent](e, component.KindVulnerabilityIntent)
	w.WeakInt = ecs.Register[component.WeaknessIntent](e, component.KindWeaknessIntent)
	w.BlockInt = ecs.Register[component.BlockIntent](e, component.KindBlockIntent)
	w.Effects = ecs.Register[component.CardEffect](e, component.KindCardEffect)
	w.TakeActions = ecs.Register[component.TakeAction](e, component.KindTakeAction)
	w.Decks = ecs.Register[component.Deck](e, component.KindDeck)
	w.Targets = ecs.Register[component.CardTarget](e, component.KindCardTarget)
	w.Plays = ecs.Register[component.CardPlay](e, component.KindCardPlay)
	return w
}

// Hero returns the hero entity, if one exists.
func (w *World) Hero() (ecs.EntityID, bool) {
	ids := w.Heroes.IDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// LivingEnemies lists enemies with health left, ascending.
func (w *World) LivingEnemies() []ecs.EntityID {
	var out []ecs.EntityID
	ecs.Each2(w.Enemies, w.Health, func(id ecs.EntityID, _ component.Enemy, hp component.Health) {
		if hp.Current > 0 {
			out = append(out, id)
		}
	})
	return out
}

// Playable reports whether c can be paid for with energy and has a
// definition.
func (w *World) Playable(c component.Card, energy int) bool {
	def := w.Cards.Get(c.Name)
	return def != nil && def.Cost <= energy
}

// NewHero returns the component set of a fresh hero with a shuffled deck.
// Callers must hold the Random resource.
func (w *World) NewHero() []ecs.Component {
	draw := w.Cards.StartingDeck()
	w.Rand.Shuffle(len(draw), func(i, j int) { draw[i], draw[j] = draw[j], draw[i] })
	return []ecs.Component{
		component.Hero{Name: w.Rules.HeroName},
		component.Position{},
		component.Health{Current: w.Rules.HeroMaxHealth, Max: w.Rules.HeroMaxHealth},
		component.Block{},
		component.Energy{Current: w.Rules.HeroMaxEnergy, Max: w.Rules.HeroMaxEnergy},
		component.Deck{Draw: draw},
	}
}

// NewEnemy returns the component set of a fresh enemy of kind.
func (w *World) NewEnemy(kind component.EnemyKind) []ecs.Component {
	name, hp := kind.String(), 1
	if def := w.EnemyDefs.Get(kind); def != nil {
		name, hp = def.Name, def.Health
	}
	return []ecs.Component{
		component.Enemy{Type: kind, Name: name},
		component.Position{},
		component.Health{Current: hp, Max: hp},
		component.Block{},
	}
}
