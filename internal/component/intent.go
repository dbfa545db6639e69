package component

import (
	"fmt"
	"strings"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// IntentKind is the declared shape of an enemy's next action.
type IntentKind uint8

const (
	IntentDealDamage IntentKind = iota
	IntentInflictVulnerability
	IntentInflictWeakness
	IntentBlock
)

func (k IntentKind) String() string {
	switch k {
	case IntentDealDamage:
		return "deal_damage"
	case IntentInflictVulnerability:
		return "inflict_vulnerability"
	case IntentInflictWeakness:
		return "inflict_weakness"
	case IntentBlock:
		return "block"
	default:
		return fmt.Sprintf("intent(%d)", uint8(k))
	}
}

// ParseIntentKind is the inverse of IntentKind.String.
func ParseIntentKind(s string) (IntentKind, error) {
	for _, k := range []IntentKind{IntentDealDamage, IntentInflictVulnerability, IntentInflictWeakness, IntentBlock} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown intent kind %q", s)
}

// Intent is an enemy's declared next action. The source is the owning
// entity. Magnitude is damage or block for those kinds, duration for the
// status kinds.
type Intent struct {
	Type      IntentKind
	Magnitude int
}

// Concrete sub-effects derived from an Intent at start of turn.

type DamageIntent struct {
	Amount int
}

type VulnerabilityIntent struct {
	Duration int
}

type WeaknessIntent struct {
	Duration int
}

type BlockIntent struct {
	Amount int
}

// TakeAction marks an enemy that is resolving its intent this turn.
type TakeAction struct{}

func (Intent) Kind() ecs.Kind              { return KindIntent }
func (DamageIntent) Kind() ecs.Kind        { return KindDamageIntent }
func (VulnerabilityIntent) Kind() ecs.Kind { return KindVulnerabilityIntent }
func (WeaknessIntent) Kind() ecs.Kind      { return KindWeaknessIntent }
func (BlockIntent) Kind() ecs.Kind         { return KindBlockIntent }
func (TakeAction) Kind() ecs.Kind          { return KindTakeAction }
