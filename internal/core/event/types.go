package event

import "github.com/l1jgo/deckbattle/internal/core/ecs"

// Battle events. Systems post them through their command buffer; they land
// on the bus at the flush that applies the buffer.

type CombatantSpawned struct {
	Name string
	Hero bool
}

type IntentDeclared struct {
	Enemy  ecs.EntityID
	Intent string
	Amount int
}

type CardPlayed struct {
	Card   string
	Target ecs.EntityID
	Cost   int
}

type DamageDealt struct {
	Source ecs.EntityID
	Target ecs.EntityID
	Amount int // after multipliers and block
	Health int // target health afterwards
}

type BlockGained struct {
	Target ecs.EntityID
	Amount int
	Total  int
}

type StatusApplied struct {
	Target    ecs.EntityID
	Status    string
	Remaining int
}

type StatusExpired struct {
	Target ecs.EntityID
	Status string
}

type CombatantDied struct {
	Entity ecs.EntityID
	Name   string
	Hero   bool
}

type BattleEnded struct {
	PlayerVictorious bool
	Round            int
	HeroHealth       int
}

type BattleRestarted struct {
	HeroRespawned bool
}

type TurnChanged struct {
	From  string
	To    string
	Round int
}
