package system

import (
	"fmt"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Phase names one stage of the turn cycle. Each phase owns one schedule.
type Phase int

const (
	PhaseInitialization Phase = iota // spawn combatants, begin battle
	PhaseStartOfTurn                 // clear + generate intents, refill, draw
	PhasePlayerTurn                  // card selection and play
	PhaseEnemyTurn                   // intent resolution
	PhaseEndOfBattle                 // restart
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialization:
		return "Initialization"
	case PhaseStartOfTurn:
		return "StartOfTurn"
	case PhasePlayerTurn:
		return "PlayerTurn"
	case PhaseEnemyTurn:
		return "EnemyTurn"
	case PhaseEndOfBattle:
		return "EndOfBattle"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// System is the interface every logic system implements. Run reads the
// world as it stood at the start of the batch and records every mutation on
// cmd.
type System interface {
	Name() string
	Access() ecs.AccessSet
	Run(cmd *Commands)
}

// ThreadLocal is a presentation step. It runs on the scheduler goroutine
// after the preceding batch has flushed and must not change combat state.
type ThreadLocal interface {
	Name() string
	Draw() error
}

// Commands is the per-run mutation surface handed to a System. Add and
// Detach are checked against the system's declared access. Spawn and Remove
// are structural and unchecked: a spawned entity has no id until the flush,
// so no sibling can observe it, and removals land only at the barrier.
// Systems that spawn message entities therefore declare only what they read.
type Commands struct {
	system string
	access ecs.AccessSet
	buf    *ecs.CommandBuffer
}

// NewCommands wraps buf for a system declaring access.
func NewCommands(system string, access ecs.AccessSet, buf *ecs.CommandBuffer) *Commands {
	return &Commands{system: system, access: access, buf: buf}
}

func (c *Commands) Spawn(components ...ecs.Component) ecs.PendingEntity {
	return c.buf.Spawn(components...)
}

func (c *Commands) Remove(id ecs.EntityID) {
	c.buf.Remove(id)
}

func (c *Commands) Add(id ecs.EntityID, comp ecs.Component) {
	c.require(comp.Kind())
	c.buf.Add(id, comp)
}

func (c *Commands) Detach(id ecs.EntityID, k ecs.Kind) {
	c.require(k)
	c.buf.Detach(id, k)
}

// Post forwards a record (turn request, battle event) to the flush Poster.
func (c *Commands) Post(msg any) {
	c.buf.Post(msg)
}

func (c *Commands) require(k ecs.Kind) {
	if !c.access.Allows(k, ecs.ModeWrite) {
		ecs.Violate(c.system, "write to %s without declared write access %s", k, c.access)
	}
}

// Func adapts a closure into a System.
type Func struct {
	name   string
	access ecs.AccessSet
	run    func(cmd *Commands)
}

func NewFunc(name string, access ecs.AccessSet, run func(cmd *Commands)) *Func {
	return &Func{name: name, access: access, run: run}
}

func (f *Func) Name() string          { return f.name }
func (f *Func) Access() ecs.AccessSet { return f.access }
func (f *Func) Run(cmd *Commands)     { f.run(cmd) }
