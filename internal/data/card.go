package data

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/deckbattle/internal/component"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// TargetKind says where a card's effects land.
type TargetKind string

const (
	TargetEnemy TargetKind = "enemy"
	TargetSelf  TargetKind = "self"
)

// CardEffect is one effect line of a card. Amount is damage, block, or a
// status duration.
type CardEffect struct {
	Type   component.EffectKind
	Amount int
}

// CardDef holds static data for a card loaded from YAML.
type CardDef struct {
	Name    string
	Cost    int
	Target  TargetKind
	Effects []CardEffect
}

type cardEffectEntry struct {
	Type   string `yaml:"type"`
	Amount int    `yaml:"amount"`
}

type cardEntry struct {
	Name    string            `yaml:"name"`
	Cost    int               `yaml:"cost"`
	Target  string            `yaml:"target"`
	Effects []cardEffectEntry `yaml:"effects"`
}

type deckEntry struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

type cardListFile struct {
	Cards        []cardEntry `yaml:"cards"`
	StartingDeck []deckEntry `yaml:"starting_deck"`
}

// CardTable holds all card definitions indexed by name, plus the starting
// deck list.
type CardTable struct {
	cards map[string]*CardDef
	deck  []string
}

// Get returns the card definition for name, or nil.
func (t *CardTable) Get(name string) *CardDef {
	return t.cards[name]
}

// Count returns the number of card definitions.
func (t *CardTable) Count() int {
	return len(t.cards)
}

// StartingDeck builds fresh card instances for a new hero. IDs are unique
// within the deck and stable in list order.
func (t *CardTable) StartingDeck() []component.Card {
	out := make([]component.Card, 0, len(t.deck))
	for i, name := range t.deck {
		out = append(out, component.Card{ID: i + 1, Name: name})
	}
	return out
}

// LoadCardTable loads card data from path, or from the embedded defaults
// when path is empty.
func LoadCardTable(path string) (*CardTable, error) {
	raw, err := readTable(path, "defaults/cards.yaml")
	if err != nil {
		return nil, fmt.Errorf("read card_list: %w", err)
	}
	var f cardListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse card_list: %w", err)
	}
	t := &CardTable{cards: make(map[string]*CardDef, len(f.Cards))}
	for _, c := range f.Cards {
		def, err := c.def()
		if err != nil {
			return nil, fmt.Errorf("card_list: %w", err)
		}
		t.cards[def.Name] = def
	}
	for _, d := range f.StartingDeck {
		if t.cards[d.Card] == nil {
			return nil, fmt.Errorf("card_list: starting deck names unknown card %q", d.Card)
		}
		for range d.Count {
			t.deck = append(t.deck, d.Card)
		}
	}
	if len(t.deck) == 0 {
		return nil, fmt.Errorf("card_list: empty starting deck")
	}
	return t, nil
}

func (c cardEntry) def() (*CardDef, error) {
	def := &CardDef{Name: c.Name, Cost: c.Cost, Target: TargetKind(strings.ToLower(c.Target))}
	if def.Name == "" {
		return nil, fmt.Errorf("card without name")
	}
	if def.Target != TargetEnemy && def.Target != TargetSelf {
		return nil, fmt.Errorf("card %s: unknown target %q", c.Name, c.Target)
	}
	if def.Cost < 0 {
		return nil, fmt.Errorf("card %s: negative cost", c.Name)
	}
	for _, e := range c.Effects {
		kind, err := parseEffectKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", c.Name, err)
		}
		def.Effects = append(def.Effects, CardEffect{Type: kind, Amount: e.Amount})
	}
	return def, nil
}

func parseEffectKind(s string) (component.EffectKind, error) {
	for _, k := range []component.EffectKind{
		component.EffectDamage, component.EffectBlock,
		component.EffectVulnerability, component.EffectWeakness,
	} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown effect type %q", s)
}

func readTable(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile(fallback)
	}
	return os.ReadFile(path)
}
