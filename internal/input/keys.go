package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Action is what a key press means outside of combat input.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionRedraw
	ActionRestart
)

// Cursor maps terminal keys to input events. It remembers the highlighted
// card and enemy between presses.
//
//	1-9        pick a card from hand and aim it at the highlighted enemy
//	left/right move the enemy highlight
//	enter      play the picked card
//	e          end turn
//	r          start the next battle once this one is over
//	q, esc     quit
type Cursor struct {
	card   int // index into hand, -1 when none picked
	target int // index into enemies
}

func NewCursor() *Cursor {
	return &Cursor{card: -1}
}

// Handle interprets one key. hand lists card IDs in hand order and enemies
// the living enemies in screen order. Events are returned in the order they
// should be pushed.
func (c *Cursor) Handle(key tcell.Key, r rune, hand []int, enemies []ecs.EntityID) ([]any, Action) {
	if c.card >= len(hand) {
		c.card = -1
	}
	if len(enemies) > 0 {
		c.target = ((c.target % len(enemies)) + len(enemies)) % len(enemies)
	}

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, ActionQuit
	case tcell.KeyCtrlL:
		return nil, ActionRedraw
	case tcell.KeyLeft:
		return c.move(-1, hand, enemies), ActionNone
	case tcell.KeyRight:
		return c.move(1, hand, enemies), ActionNone
	case tcell.KeyEnter:
		if c.card < 0 {
			return nil, ActionNone
		}
		ev := CardKindConfirmed{Card: hand[c.card]}
		c.card = -1
		return []any{ev}, ActionNone
	case tcell.KeyRune:
	default:
		return nil, ActionNone
	}

	switch {
	case r == 'q':
		return nil, ActionQuit
	case r == 'r':
		return nil, ActionRestart
	case r == 'e':
		c.card = -1
		return []any{EndTurnRequested{}}, ActionNone
	case r >= '1' && r <= '9':
		idx := int(r - '1')
		if idx >= len(hand) {
			return nil, ActionNone
		}
		c.card = idx
		return c.aim(hand, enemies), ActionNone
	}
	return nil, ActionNone
}

// Card returns the picked hand index, or -1.
func (c *Cursor) Card() int { return c.card }

// Target returns the highlighted enemy index.
func (c *Cursor) Target() int { return c.target }

func (c *Cursor) move(delta int, hand []int, enemies []ecs.EntityID) []any {
	if len(enemies) == 0 {
		return nil
	}
	c.target = (c.target + delta + len(enemies)) % len(enemies)
	return c.aim(hand, enemies)
}

func (c *Cursor) aim(hand []int, enemies []ecs.EntityID) []any {
	if c.card < 0 || len(enemies) == 0 {
		return nil
	}
	return []any{CardTargetSelected{Card: hand[c.card], Target: enemies[c.target]}}
}
