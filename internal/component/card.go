package component

import (
	"fmt"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Card is one card instance. ID is unique within its deck.
type Card struct {
	ID   int
	Name string
}

// Deck holds the hero's three card zones. Slices are shared with the stored
// value, so systems copy with Clone before changing a zone.
type Deck struct {
	Draw    []Card // top of the pile is the last element
	Hand    []Card
	Discard []Card
}

func (d Deck) Clone() Deck {
	return Deck{
		Draw:    append([]Card(nil), d.Draw...),
		Hand:    append([]Card(nil), d.Hand...),
		Discard: append([]Card(nil), d.Discard...),
	}
}

// InHand finds a card instance in hand.
func (d Deck) InHand(id int) (Card, bool) {
	for _, c := range d.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// CardTarget is the player's current targeting choice.
type CardTarget struct {
	Card   int
	Target ecs.EntityID
}

// CardPlay marks a card the player confirmed this tick.
type CardPlay struct {
	Card int
}

// EffectKind is the payload kind of a CardEffect message.
type EffectKind uint8

const (
	EffectDamage EffectKind = iota
	EffectBlock
	EffectVulnerability
	EffectWeakness
)

func (k EffectKind) String() string {
	switch k {
	case EffectDamage:
		return "damage"
	case EffectBlock:
		return "block"
	case EffectVulnerability:
		return "vulnerability"
	case EffectWeakness:
		return "weakness"
	default:
		return fmt.Sprintf("effect(%d)", uint8(k))
	}
}

// CardEffect is a transient message entity produced by a played card or a
// resolved intent and consumed by the combat resolution pipeline.
// Amount is damage, block, or status duration depending on Type.
type CardEffect struct {
	Type   EffectKind
	Amount int
	Source ecs.EntityID
	Target ecs.EntityID
}

func (Deck) Kind() ecs.Kind       { return KindDeck }
func (CardTarget) Kind() ecs.Kind { return KindCardTarget }
func (CardPlay) Kind() ecs.Kind   { return KindCardPlay }
func (CardEffect) Kind() ecs.Kind { return KindCardEffect }
