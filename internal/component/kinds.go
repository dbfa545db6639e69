package component

import "github.com/l1jgo/deckbattle/internal/core/ecs"

// Component kinds.
const (
	KindPosition ecs.Kind = iota + 1
	KindHero
	KindEnemy
	KindHealth
	KindBlock
	KindEnergy
	KindVulnerable
	KindWeak
	KindIntent
	KindDamageIntent
	KindVulnerabilityIntent
	KindWeaknessIntent
	KindBlockIntent
	KindCardEffect
	KindTakeAction
	KindDeck
	KindCardTarget
	KindCardPlay
)

// Resource kinds. They never carry a store; systems declare them so the
// scheduler keeps readers and writers of shared state out of one batch.
const (
	ResTurnState ecs.Kind = iota + 100
	ResInput
	ResScript // the Lua VM is single-goroutine
	ResRandom // a shared rng is not goroutine safe
)

func init() {
	for k, name := range map[ecs.Kind]string{
		KindPosition:            "Position",
		KindHero:                "Hero",
		KindEnemy:               "Enemy",
		KindHealth:              "Health",
		KindBlock:               "Block",
		KindEnergy:              "Energy",
		KindVulnerable:          "Vulnerable",
		KindWeak:                "Weak",
		KindIntent:              "Intent",
		KindDamageIntent:        "DamageIntent",
		KindVulnerabilityIntent: "VulnerabilityIntent",
		KindWeaknessIntent:      "WeaknessIntent",
		KindBlockIntent:         "BlockIntent",
		KindCardEffect:          "CardEffectMessage",
		KindTakeAction:          "TakeActionMessage",
		KindDeck:                "Deck",
		KindCardTarget:          "CardTarget",
		KindCardPlay:            "CardPlay",
		ResTurnState:            "TurnState",
		ResInput:                "Input",
		ResScript:               "Script",
		ResRandom:               "Random",
	} {
		ecs.NameKind(k, name)
	}
}
