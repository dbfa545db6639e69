package component

import (
	"fmt"
	"strings"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Combatant components. Pure data; all mutations happen in systems through
// the command buffer.

// Position is screen-space layout, derived from combatant index every phase.
type Position struct {
	X int
	Y int
}

// Hero marks the player's combatant.
type Hero struct {
	Name string
}

// EnemyKind selects an enemy archetype.
type EnemyKind uint8

const (
	EnemyMelee EnemyKind = iota
	EnemyRanged
	EnemySummoner
)

// EnemyKinds lists every archetype in declaration order.
var EnemyKinds = []EnemyKind{EnemyMelee, EnemyRanged, EnemySummoner}

func (k EnemyKind) String() string {
	switch k {
	case EnemyMelee:
		return "melee"
	case EnemyRanged:
		return "ranged"
	case EnemySummoner:
		return "summoner"
	default:
		return fmt.Sprintf("enemy(%d)", uint8(k))
	}
}

// ParseEnemyKind is the inverse of EnemyKind.String.
func ParseEnemyKind(s string) (EnemyKind, error) {
	for _, k := range EnemyKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown enemy kind %q", s)
}

// Enemy marks an AI combatant.
type Enemy struct {
	Type EnemyKind
	Name string
}

type Health struct {
	Current int
	Max     int
}

// Block absorbs incoming damage before health.
type Block struct {
	Amount int
}

type Energy struct {
	Current int
	Max     int
}

func (Position) Kind() ecs.Kind { return KindPosition }
func (Hero) Kind() ecs.Kind     { return KindHero }
func (Enemy) Kind() ecs.Kind    { return KindEnemy }
func (Health) Kind() ecs.Kind   { return KindHealth }
func (Block) Kind() ecs.Kind    { return KindBlock }
func (Energy) Kind() ecs.Kind   { return KindEnergy }
