package battle

import (
	"fmt"
	"math"

	"github.com/l1jgo/deckbattle/internal/config"
)

// Rounding converts a scaled damage value back to whole points.
type Rounding uint8

const (
	RoundFloor Rounding = iota
	RoundNearest
)

// StatusPolicy says what re-applying a running status does to its duration.
type StatusPolicy uint8

const (
	StatusRefresh StatusPolicy = iota // set to the new duration
	StatusStack                       // add the new duration
)

// Rules are the combat constants one encounter runs with.
type Rules struct {
	WeakFactor       float64
	VulnerableFactor float64
	Rounding         Rounding
	Status           StatusPolicy

	HeroName      string
	HeroMaxHealth int
	HeroMaxEnergy int
	HandSize      int
}

// DefaultRules matches the shipped configuration.
func DefaultRules() Rules {
	return Rules{
		WeakFactor:       0.5,
		VulnerableFactor: 1.5,
		Rounding:         RoundFloor,
		Status:           StatusRefresh,
		HeroName:         "Ironclad",
		HeroMaxHealth:    50,
		HeroMaxEnergy:    3,
		HandSize:         5,
	}
}

// RulesFromConfig translates validated configuration.
func RulesFromConfig(cfg *config.Config) (Rules, error) {
	r := Rules{
		WeakFactor:       cfg.Combat.WeakFactor,
		VulnerableFactor: cfg.Combat.VulnerableFactor,
		HeroName:         cfg.Hero.Name,
		HeroMaxHealth:    cfg.Hero.MaxHealth,
		HeroMaxEnergy:    cfg.Hero.MaxEnergy,
		HandSize:         cfg.Hero.HandSize,
	}
	switch cfg.Combat.Rounding {
	case "floor":
		r.Rounding = RoundFloor
	case "round":
		r.Rounding = RoundNearest
	default:
		return Rules{}, fmt.Errorf("unknown rounding %q", cfg.Combat.Rounding)
	}
	switch cfg.Combat.StatusPolicy {
	case "refresh":
		r.Status = StatusRefresh
	case "stack":
		r.Status = StatusStack
	default:
		return Rules{}, fmt.Errorf("unknown status policy %q", cfg.Combat.StatusPolicy)
	}
	return r, nil
}

// Scale applies the Weak (source) and Vulnerable (target) multipliers to a
// raw damage amount. The net factor is applied once, then rounded.
func (r Rules) Scale(amount int, weak, vulnerable bool) int {
	if amount <= 0 {
		return 0
	}
	f := 1.0
	if weak {
		f *= r.WeakFactor
	}
	if vulnerable {
		f *= r.VulnerableFactor
	}
	v := float64(amount) * f
	switch r.Rounding {
	case RoundNearest:
		v = math.Round(v)
	default:
		v = math.Floor(v + 1e-9) // float error, e.g. 10 * 0.3 * 1.0
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

// Reapply returns the duration after applying add turns of a status that
// currently has cur turns left.
func (r Rules) Reapply(cur, add int) int {
	if r.Status == StatusStack {
		return cur + add
	}
	return add
}
