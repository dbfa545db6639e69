package system

import (
	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
)

// Screen layout, in terminal cells.
const (
	HeroX        = 4
	HeroY        = 8
	EnemyX       = 34
	EnemyY       = 4
	EnemySpacing = 18
)

// PositionSystem lays combatants out from their index. Layout is derived,
// so it is recomputed at the start of every phase.
type PositionSystem struct {
	w *battle.World
}

func NewPositionSystem(w *battle.World) *PositionSystem {
	return &PositionSystem{w: w}
}

func (s *PositionSystem) Name() string { return "position" }

func (s *PositionSystem) Access() ecs.AccessSet {
	return ecs.Declare(
		ecs.Read(component.KindHero, component.KindEnemy),
		ecs.Write(component.KindPosition),
	)
}

func (s *PositionSystem) Run(cmd *coresys.Commands) {
	for _, id := range s.w.Heroes.IDs() {
		s.place(cmd, id, component.Position{X: HeroX, Y: HeroY})
	}
	for i, id := range s.w.Enemies.IDs() {
		s.place(cmd, id, component.Position{X: EnemyX + i*EnemySpacing, Y: EnemyY})
	}
}

func (s *PositionSystem) place(cmd *coresys.Commands, id ecs.EntityID, want component.Position) {
	if cur, ok := s.w.Positions.Get(id); ok && cur == want {
		return
	}
	cmd.Add(id, want)
}
