package turn

import (
	"fmt"

	"github.com/l1jgo/deckbattle/internal/core/system"
)

// Kind tags a turn State.
type Kind uint8

const (
	KindInitializing Kind = iota
	KindStartOfTurn
	KindPlayerTurn
	KindEnemyTurn
	KindBattleOver
)

func (k Kind) String() string {
	switch k {
	case KindInitializing:
		return "Initializing"
	case KindStartOfTurn:
		return "StartOfTurn"
	case KindPlayerTurn:
		return "PlayerTurn"
	case KindEnemyTurn:
		return "EnemyTurn"
	case KindBattleOver:
		return "BattleOver"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// State is the tagged turn value. Round is set only for StartOfTurn and
// PlayerVictorious only for BattleOver.
type State struct {
	Kind             Kind
	Round            int
	PlayerVictorious bool
}

func Initializing() State { return State{Kind: KindInitializing} }
func StartOfTurn(n int) State { return State{Kind: KindStartOfTurn, Round: n} }
func PlayerTurn() State { return State{Kind: KindPlayerTurn} }
func EnemyTurn() State { return State{Kind: KindEnemyTurn} }
func BattleOver(won bool) State { return State{Kind: KindBattleOver, PlayerVictorious: won} }

func (s State) String() string {
	switch s.Kind {
	case KindStartOfTurn:
		return fmt.Sprintf("StartOfTurn(%d)", s.Round)
	case KindBattleOver:
		return fmt.Sprintf("BattleOver(victorious=%t)", s.PlayerVictorious)
	default:
		return s.Kind.String()
	}
}

// Phase maps a state to the schedule that runs while in it.
func (s State) Phase() system.Phase {
	switch s.Kind {
	case KindStartOfTurn:
		return system.PhaseStartOfTurn
	case KindPlayerTurn:
		return system.PhasePlayerTurn
	case KindEnemyTurn:
		return system.PhaseEnemyTurn
	case KindBattleOver:
		return system.PhaseEndOfBattle
	default:
		return system.PhaseInitialization
	}
}

// EndOfTurn returns the state the end-of-turn check moves to from s.
// round is the machine's current round.
func EndOfTurn(s State, round int) (State, bool) {
	switch s.Kind {
	case KindStartOfTurn:
		return PlayerTurn(), true
	case KindPlayerTurn:
		return EnemyTurn(), true
	case KindEnemyTurn:
		return StartOfTurn(round + 1), true
	default:
		return State{}, false
	}
}

// Legal reports whether the machine may move from one state to another.
func Legal(from, to State, round int) bool {
	if to.Kind == KindBattleOver {
		return from.Kind == KindStartOfTurn || from.Kind == KindPlayerTurn || from.Kind == KindEnemyTurn
	}
	switch from.Kind {
	case KindInitializing, KindBattleOver:
		return to == StartOfTurn(1)
	case KindStartOfTurn:
		return to.Kind == KindPlayerTurn
	case KindPlayerTurn:
		return to.Kind == KindEnemyTurn
	case KindEnemyTurn:
		return to == StartOfTurn(round+1)
	}
	return false
}
