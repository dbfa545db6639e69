package turn

import (
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Precedence orders competing transition requests raised in one flush.
type Precedence uint8

const (
	PrecedenceEndOfTurn Precedence = iota
	PrecedenceDeath                // overrides end-of-turn
	PrecedenceLifecycle            // begin battle, restart
)

// Request asks the machine to move to To. Systems post requests through
// their command buffer; the machine commits at the flush barrier.
type Request struct {
	To         State
	Precedence Precedence
	Source     string
}

// Transition records one committed state change.
type Transition struct {
	From  State
	To    State
	Round int
}

// Machine owns the encounter's single turn State. Only Commit changes it,
// and Commit only runs on the scheduler goroutine between batches.
type Machine struct {
	cur     State
	round   int
	pending []Request
	log     *zap.Logger
}

func NewMachine(log *zap.Logger) *Machine {
	return &Machine{cur: Initializing(), log: log}
}

func (m *Machine) State() State { return m.cur }

// Round is the current round number (0 before the first StartOfTurn).
func (m *Machine) Round() int { return m.round }

// Submit queues a request for the next Commit.
func (m *Machine) Submit(r Request) {
	m.pending = append(m.pending, r)
}

// Commit applies the highest-precedence pending request. Among equal
// precedence the latest submission wins. An illegal edge is a contract
// violation.
func (m *Machine) Commit() (Transition, bool) {
	if len(m.pending) == 0 {
		return Transition{}, false
	}
	best := m.pending[0]
	for _, r := range m.pending[1:] {
		if r.Precedence >= best.Precedence {
			best = r
		}
	}
	m.pending = m.pending[:0]

	if !Legal(m.cur, best.To, m.round) {
		ecs.Violate("turn", "%s requested %s -> %s", best.Source, m.cur, best.To)
	}
	t := Transition{From: m.cur, To: best.To}
	m.cur = best.To
	if m.cur.Kind == KindStartOfTurn {
		m.round = m.cur.Round
	}
	t.Round = m.round
	m.log.Info("turn transition",
		zap.Stringer("from", t.From),
		zap.Stringer("to", t.To),
		zap.Int("round", m.round),
		zap.String("source", best.Source),
	)
	return t, true
}

// Force sets the state directly. Intended for test fixtures only.
func (m *Machine) Force(s State, round int) {
	m.cur = s
	m.round = round
	m.pending = m.pending[:0]
}
