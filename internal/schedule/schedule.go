// Package schedule builds the five hand-ordered phase schedules.
package schedule

import (
	"fmt"

	"github.com/l1jgo/deckbattle/internal/battle"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/spawn"
	"github.com/l1jgo/deckbattle/internal/system"
)

// Deps are the collaborators the schedules are wired with.
type Deps struct {
	World   *battle.World
	Spawn   spawn.Policy
	Intents system.IntentPolicy
	Render  []coresys.ThreadLocal // presentation steps in draw order; may be empty
}

// Build returns one validated schedule per phase.
func Build(d Deps) (map[coresys.Phase]*coresys.Schedule, error) {
	builders := map[coresys.Phase]func(Deps) *coresys.Builder{
		coresys.PhaseInitialization: initialization,
		coresys.PhaseStartOfTurn:    startOfTurn,
		coresys.PhasePlayerTurn:     playerTurn,
		coresys.PhaseEnemyTurn:      enemyTurn,
		coresys.PhaseEndOfBattle:    endOfBattle,
	}
	out := make(map[coresys.Phase]*coresys.Schedule, len(builders))
	for phase, build := range builders {
		b := build(d)
		render(b, d) // closing pass: every phase ends on settled state
		s, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("build %s schedule: %w", phase, err)
		}
		out[phase] = s
	}
	return out, nil
}

// Install builds every schedule and registers it on r.
func Install(r *coresys.Runner, d Deps) error {
	scheds, err := Build(d)
	if err != nil {
		return err
	}
	for phase, s := range scheds {
		r.Register(phase, s)
	}
	return nil
}

func render(b *coresys.Builder, d Deps) {
	for _, t := range d.Render {
		b.AddThreadLocal(t)
	}
}

func initialization(d Deps) *coresys.Builder {
	w := d.World
	return coresys.NewBuilder("initialization").
		Add(system.NewSpawnHeroSystem(w)).
		Flush().
		Add(system.NewSpawnEnemiesSystem(w, d.Spawn)).
		Flush().
		Add(system.NewBeginBattleSystem()).
		Flush()
}

func startOfTurn(d Deps) *coresys.Builder {
	w := d.World
	b := coresys.NewBuilder("start_of_turn").
		Add(system.NewClearIntentsSystem(w)).
		Flush().
		Add(system.NewPositionSystem(w)).
		Add(system.NewStatusTickSystem(w)).
		Add(system.NewDiscardHandSystem(w)).
		Add(system.NewGenerateIntentsSystem(w, d.Intents)).
		Flush().
		Add(system.NewDeriveDamageSystem(w)).
		Add(system.NewDeriveVulnerabilitySystem(w)).
		Add(system.NewDeriveWeaknessSystem(w)).
		Add(system.NewDeriveBlockSystem(w)).
		Add(system.NewRefillEnergySystem(w)).
		Add(system.NewClearHeroBlockSystem(w)).
		Flush().
		Add(system.NewClearTakeActionSystem(w)).
		Flush()
	render(b, d)
	b.Add(system.NewDrawHandSystem(w)).
		Flush()
	endChecks(b, w)
	return b
}

func playerTurn(d Deps) *coresys.Builder {
	w := d.World
	b := coresys.NewBuilder("player_turn").
		Add(system.NewPositionSystem(w)).
		Flush()
	render(b, d)
	b.Add(system.NewSelectTargetSystem(w)).
		Add(system.NewSelectCardSystem(w)).
		Flush().
		Add(system.NewSendCardMessagesSystem(w)).
		Flush().
		Add(system.NewPlayCardSystem(w)).
		Flush()
	resolution(b, w)
	endChecks(b, w)
	return b
}

func enemyTurn(d Deps) *coresys.Builder {
	w := d.World
	b := coresys.NewBuilder("enemy_turn").
		Add(system.NewPositionSystem(w)).
		Add(system.NewClearEnemyBlockSystem(w)).
		Flush()
	render(b, d)
	b.Add(system.NewResolveDamageSystem(w)).
		Add(system.NewResolveVulnerabilitySystem(w)).
		Add(system.NewResolveWeaknessSystem(w)).
		Add(system.NewResolveBlockSystem(w)).
		Add(system.NewMarkActingSystem(w)).
		Flush()
	resolution(b, w)
	endChecks(b, w)
	return b
}

func endOfBattle(d Deps) *coresys.Builder {
	w := d.World
	return coresys.NewBuilder("end_of_battle").
		Add(system.NewRestartSystem(w)).
		Flush().
		Add(system.NewSpawnEnemiesSystem(w, d.Spawn)).
		Flush().
		Add(system.NewBeginBattleSystem()).
		Flush()
}

// resolution is the combat resolution pipeline shared by both combat turns.
func resolution(b *coresys.Builder, w *battle.World) {
	b.Add(system.NewDamageMultiplierSystem(w)).
		Flush().
		Add(system.NewApplyBlockSystem(w)).
		Flush().
		Add(system.NewDealDamageSystem(w)).
		Add(system.NewGainBlockSystem(w)).
		Flush().
		Add(system.NewApplyVulnerabilitySystem(w)).
		Add(system.NewApplyWeaknessSystem(w)).
		Flush()
}

func endChecks(b *coresys.Builder, w *battle.World) {
	b.Add(system.NewEndTurnSystem(w)).
		Add(system.NewDeathSystem(w)).
		Flush()
}
