// Package input turns raw player input into the discrete events the
// Player-Turn schedule consumes.
package input

import (
	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// CardTargetSelected aims card at target.
type CardTargetSelected struct {
	Card   int
	Target ecs.EntityID
}

// CardKindConfirmed asks to play card.
type CardKindConfirmed struct {
	Card int
}

// EndTurnRequested passes the rest of the player's turn.
type EndTurnRequested struct{}

// Frame is the input visible to one Player-Turn tick. Nil fields mean the
// player did nothing of that kind; that is never an error.
type Frame struct {
	Target  *CardTargetSelected
	Confirm *CardKindConfirmed
	EndTurn bool
}

func (f Frame) Empty() bool {
	return f.Target == nil && f.Confirm == nil && !f.EndTurn
}

// Queue buffers input events between the UI goroutine and the encounter.
// Push may be called from any goroutine; Next from the encounter only.
type Queue struct {
	ch   chan any
	held []any // drained but not yet consumed by a frame
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan any, size)}
}

// Push enqueues an event. It reports false when the queue is full and the
// event was dropped.
func (q *Queue) Push(ev any) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Len reports buffered events not yet folded into a frame.
func (q *Queue) Len() int { return len(q.ch) + len(q.held) }

// Next folds queued events into one frame. Target selections accumulate
// (latest wins); the frame closes after the first confirm or end-turn
// request so each tick plays at most one card.
func (q *Queue) Next() Frame {
	q.drain()
	var f Frame
	n := 0
	for _, ev := range q.held {
		n++
		if q.apply(&f, ev) {
			break
		}
	}
	q.held = q.held[:copy(q.held, q.held[n:])]
	return f
}

func (q *Queue) drain() {
	for {
		select {
		case ev := <-q.ch:
			q.held = append(q.held, ev)
		default:
			return
		}
	}
}

// apply folds ev into f and reports whether the frame is complete.
func (q *Queue) apply(f *Frame, ev any) bool {
	switch e := ev.(type) {
	case CardTargetSelected:
		f.Target = &e
	case CardKindConfirmed:
		f.Confirm = &e
		return true
	case EndTurnRequested:
		f.EndTurn = true
		return true
	}
	return false
}
