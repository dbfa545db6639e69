package turn

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/system"
)

func TestMachineSequence(t *testing.T) {
	m := NewMachine(zap.NewNop())
	expected := []struct {
		req   Request
		state State
		round int
		phase system.Phase
	}{
		{Request{To: StartOfTurn(1), Precedence: PrecedenceLifecycle}, StartOfTurn(1), 1, system.PhaseStartOfTurn},
		{Request{To: PlayerTurn()}, PlayerTurn(), 1, system.PhasePlayerTurn},
		{Request{To: EnemyTurn()}, EnemyTurn(), 1, system.PhaseEnemyTurn},
		{Request{To: StartOfTurn(2)}, StartOfTurn(2), 2, system.PhaseStartOfTurn},
		{Request{To: PlayerTurn()}, PlayerTurn(), 2, system.PhasePlayerTurn},
		{Request{To: BattleOver(true), Precedence: PrecedenceDeath}, BattleOver(true), 2, system.PhaseEndOfBattle},
		{Request{To: StartOfTurn(1), Precedence: PrecedenceLifecycle}, StartOfTurn(1), 1, system.PhaseStartOfTurn},
	}
	if m.State().Phase() != system.PhaseInitialization {
		t.Fatalf("initial phase %s", m.State().Phase())
	}
	for i, exp := range expected {
		m.Submit(exp.req)
		if _, ok := m.Commit(); !ok {
			t.Fatalf("step %d: nothing committed", i)
		}
		if m.State() != exp.state || m.Round() != exp.round || m.State().Phase() != exp.phase {
			t.Fatalf("step %d: got %s round %d phase %s", i, m.State(), m.Round(), m.State().Phase())
		}
	}
}

func TestDeathOverridesEndOfTurn(t *testing.T) {
	for _, order := range []string{"end-first", "death-first"} {
		m := NewMachine(zap.NewNop())
		m.Force(EnemyTurn(), 3)
		end := Request{To: StartOfTurn(4), Precedence: PrecedenceEndOfTurn, Source: "end"}
		death := Request{To: BattleOver(false), Precedence: PrecedenceDeath, Source: "death"}
		if order == "end-first" {
			m.Submit(end)
			m.Submit(death)
		} else {
			m.Submit(death)
			m.Submit(end)
		}
		m.Commit()
		if m.State() != BattleOver(false) {
			t.Fatalf("%s: got %s, want BattleOver", order, m.State())
		}
		if m.Round() != 3 {
			t.Fatalf("%s: round incremented to %d", order, m.Round())
		}
	}
}

func TestEndOfTurn(t *testing.T) {
	tests := []struct {
		from State
		want State
		ok   bool
	}{
		{StartOfTurn(2), PlayerTurn(), true},
		{PlayerTurn(), EnemyTurn(), true},
		{EnemyTurn(), StartOfTurn(3), true},
		{BattleOver(true), State{}, false},
		{Initializing(), State{}, false},
	}
	for _, tt := range tests {
		got, ok := EndOfTurn(tt.from, 2)
		if ok != tt.ok || got != tt.want {
			t.Errorf("EndOfTurn(%s) = %s, %v", tt.from, got, ok)
		}
	}
}

func TestIllegalTransitionViolates(t *testing.T) {
	m := NewMachine(zap.NewNop())
	m.Force(PlayerTurn(), 1)
	m.Submit(Request{To: StartOfTurn(1), Precedence: PrecedenceLifecycle, Source: "restart"})
	defer func() {
		var cv *ecs.ContractViolation
		err, _ := recover().(error)
		if !errors.As(err, &cv) {
			t.Fatalf("expected contract violation, got %v", err)
		}
	}()
	m.Commit()
}

func TestCommitWithoutRequests(t *testing.T) {
	m := NewMachine(zap.NewNop())
	if _, ok := m.Commit(); ok {
		t.Fatal("commit without requests changed state")
	}
	if m.State() != Initializing() {
		t.Fatalf("state %s", m.State())
	}
}
