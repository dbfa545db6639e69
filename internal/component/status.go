package component

import "github.com/l1jgo/deckbattle/internal/core/ecs"

// Status effects. Each kind is its own component so the two appliers can
// share a batch. Remaining counts start-of-turn phases left.

// Vulnerable raises incoming damage.
type Vulnerable struct {
	Remaining int
}

// Weak lowers outgoing damage.
type Weak struct {
	Remaining int
}

func (Vulnerable) Kind() ecs.Kind { return KindVulnerable }
func (Weak) Kind() ecs.Kind       { return KindWeak }
