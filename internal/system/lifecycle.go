package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/spawn"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// SpawnHeroSystem creates the hero with a freshly shuffled starting deck.
type SpawnHeroSystem struct {
	w *battle.World
}

func NewSpawnHeroSystem(w *battle.World) *SpawnHeroSystem {
	return &SpawnHeroSystem{w: w}
}

func (s *SpawnHeroSystem) Name() string { return "spawn_hero" }

func (s *SpawnHeroSystem) Access() ecs.AccessSet {
	return ecs.Write(component.ResRandom)
}

func (s *SpawnHeroSystem) Run(cmd *coresys.Commands) {
	cmd.Spawn(s.w.NewHero()...)
	cmd.Post(event.CombatantSpawned{Name: s.w.Rules.HeroName, Hero: true})
}

// SpawnEnemiesSystem asks the spawn policy for a group and creates it.
type SpawnEnemiesSystem struct {
	w      *battle.World
	policy spawn.Policy
}

func NewSpawnEnemiesSystem(w *battle.World, policy spawn.Policy) *SpawnEnemiesSystem {
	return &SpawnEnemiesSystem{w: w, policy: policy}
}

func (s *SpawnEnemiesSystem) Name() string { return "spawn_enemies" }

// Access claims the Random resource: the random policy draws from the
// world's rng, which hero spawning and restart shuffle with.
func (s *SpawnEnemiesSystem) Access() ecs.AccessSet {
	return ecs.Write(component.ResRandom)
}

func (s *SpawnEnemiesSystem) Run(cmd *coresys.Commands) {
	for _, kind := range s.policy.ChooseEnemyGroup() {
		comps := s.w.NewEnemy(kind)
		cmd.Spawn(comps...)
		cmd.Post(event.CombatantSpawned{Name: comps[0].(component.Enemy).Name})
	}
}

// BeginBattleSystem requests the first round.
type BeginBattleSystem struct{}

func NewBeginBattleSystem() *BeginBattleSystem { return &BeginBattleSystem{} }

func (s *BeginBattleSystem) Name() string { return "begin_battle" }

func (s *BeginBattleSystem) Access() ecs.AccessSet {
	return ecs.Read(component.ResTurnState)
}

func (s *BeginBattleSystem) Run(cmd *coresys.Commands) {
	cmd.Post(turn.Request{To: turn.StartOfTurn(1), Precedence: turn.PrecedenceLifecycle, Source: s.Name()})
}

// RestartSystem tears down a finished battle. Enemies are always removed;
// the hero is replaced only when it lost, otherwise it keeps its identity
// and health. Running while the battle is not over is a contract violation.
type RestartSystem struct {
	w *battle.World
}

func NewRestartSystem(w *battle.World) *RestartSystem {
	return &RestartSystem{w: w}
}

func (s *RestartSystem) Name() string { return "restart" }

func (s *RestartSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.ResTurnState, component.KindHero, component.KindEnemy, component.KindCardEffect),
		ecs.Write(component.KindCardTarget, component.KindCardPlay, component.ResRandom),
	)
}

func (s *RestartSystem) Run(cmd *coresys.Commands) {
	st := s.w.Turn.State()
	if st.Kind != turn.KindBattleOver {
		ecs.Violate(s.Name(), "turn state is %s, not BattleOver", st)
	}
	for _, id := range s.w.Enemies.IDs() {
		cmd.Remove(id)
	}
	for _, id := range s.w.Effects.IDs() {
		cmd.Remove(id)
	}

	if st.PlayerVictorious {
		if hero, ok := s.w.Hero(); ok {
			if s.w.Targets.Has(hero) {
				cmd.Detach(hero, component.KindCardTarget)
			}
			if s.w.Plays.Has(hero) {
				cmd.Detach(hero, component.KindCardPlay)
			}
		}
	} else {
		for _, id := range s.w.Heroes.IDs() {
			cmd.Remove(id)
		}
		cmd.Spawn(s.w.NewHero()...)
		cmd.Post(event.CombatantSpawned{Name: s.w.Rules.HeroName, Hero: true})
	}
	cmd.Post(event.BattleRestarted{HeroRespawned: !st.PlayerVictorious})
}
