package data

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/deckbattle/internal/component"
)

// IntentOption is one weighted entry of an enemy's intent table.
type IntentOption struct {
	Kind   component.IntentKind
	Amount int
	Weight int
}

// EnemyDef holds static data for an enemy archetype loaded from YAML.
type EnemyDef struct {
	Kind    component.EnemyKind
	Name    string
	Health  int
	Intents []IntentOption
}

type intentEntry struct {
	Kind   string `yaml:"kind"`
	Amount int    `yaml:"amount"`
	Weight int    `yaml:"weight"`
}

type enemyEntry struct {
	Kind    string        `yaml:"kind"`
	Name    string        `yaml:"name"`
	Health  int           `yaml:"health"`
	Intents []intentEntry `yaml:"intents"`
}

type enemyListFile struct {
	Enemies []enemyEntry `yaml:"enemies"`
}

// EnemyTable holds one definition per enemy archetype.
type EnemyTable struct {
	enemies map[component.EnemyKind]*EnemyDef
}

// Get returns the definition for kind, or nil if none defined.
func (t *EnemyTable) Get(kind component.EnemyKind) *EnemyDef {
	return t.enemies[kind]
}

// Count returns the number of archetypes defined.
func (t *EnemyTable) Count() int {
	return len(t.enemies)
}

// LoadEnemyTable loads enemy data from path, or from the embedded defaults
// when path is empty. Every archetype must be defined.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := readTable(path, "defaults/enemies.yaml")
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	t := &EnemyTable{enemies: make(map[component.EnemyKind]*EnemyDef, len(f.Enemies))}
	for _, e := range f.Enemies {
		kind, err := component.ParseEnemyKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("enemy_list: %w", err)
		}
		if e.Health <= 0 {
			return nil, fmt.Errorf("enemy_list: %s has no health", e.Kind)
		}
		def := &EnemyDef{Kind: kind, Name: e.Name, Health: e.Health}
		for _, in := range e.Intents {
			ik, err := component.ParseIntentKind(in.Kind)
			if err != nil {
				return nil, fmt.Errorf("enemy_list: %s: %w", e.Kind, err)
			}
			if in.Weight <= 0 {
				continue
			}
			def.Intents = append(def.Intents, IntentOption{Kind: ik, Amount: in.Amount, Weight: in.Weight})
		}
		if len(def.Intents) == 0 {
			return nil, fmt.Errorf("enemy_list: %s has no usable intents", e.Kind)
		}
		t.enemies[kind] = def
	}
	for _, k := range component.EnemyKinds {
		if t.enemies[k] == nil {
			return nil, fmt.Errorf("enemy_list: archetype %s not defined", k)
		}
	}
	return t, nil
}

// IntentContext is what an intent policy sees when choosing for one enemy.
type IntentContext struct {
	Enemy      component.EnemyKind
	Name       string
	Round      int
	Health     int
	MaxHealth  int
	HeroHealth int
}

// TablePolicy picks intents by weight from the enemy table. Not safe for
// concurrent use; the intent generation system is its only caller.
type TablePolicy struct {
	table *EnemyTable
	rng   *rand.Rand
}

func NewTablePolicy(table *EnemyTable, rng *rand.Rand) *TablePolicy {
	return &TablePolicy{table: table, rng: rng}
}

func (p *TablePolicy) ChooseIntent(ctx IntentContext) component.Intent {
	def := p.table.Get(ctx.Enemy)
	if def == nil {
		return component.Intent{Type: component.IntentDealDamage, Magnitude: 1}
	}
	total := 0
	for _, o := range def.Intents {
		total += o.Weight
	}
	roll := p.rng.IntN(total)
	for _, o := range def.Intents {
		if roll < o.Weight {
			return component.Intent{Type: o.Kind, Magnitude: o.Amount}
		}
		roll -= o.Weight
	}
	last := def.Intents[len(def.Intents)-1]
	return component.Intent{Type: last.Kind, Magnitude: last.Amount}
}
