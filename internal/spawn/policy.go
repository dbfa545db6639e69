// Package spawn chooses enemy groups for new battles.
package spawn

import (
	"math/rand/v2"
	"sync"

	"github.com/l1jgo/deckbattle/internal/component"
)

// MaxGroup is the largest enemy group a battle starts with.
const MaxGroup = 3

// Policy picks the enemy archetypes for one battle.
type Policy interface {
	ChooseEnemyGroup() []component.EnemyKind
}

// Random picks 1..MaxGroup enemies, each archetype uniformly. It may be
// shared between goroutines.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) ChooseEnemyGroup() []component.EnemyKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 1 + r.rng.IntN(MaxGroup)
	out := make([]component.EnemyKind, n)
	for i := range out {
		out[i] = component.EnemyKinds[r.rng.IntN(len(component.EnemyKinds))]
	}
	return out
}

// Fixed returns the same group every time. Used by scenario tests and the
// MCP driver's scripted battles.
type Fixed []component.EnemyKind

func (f Fixed) ChooseEnemyGroup() []component.EnemyKind {
	return append([]component.EnemyKind(nil), f...)
}
