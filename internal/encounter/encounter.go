// Package encounter drives one battle: it picks the schedule for the
// current turn state, routes posted records to the turn machine and the
// event bus, and feeds queued input to the Player-Turn schedule.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/core/event"
	coresys "github.com/l1jgo/deckbattle/internal/core/system"
	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/persist"
	"github.com/l1jgo/deckbattle/internal/turn"
)

var (
	// ErrBattleOver is returned by Step once the battle has ended and is
	// waiting for Restart.
	ErrBattleOver = errors.New("battle is over")
	// ErrNotOver is returned by Restart while a battle is still running.
	ErrNotOver = errors.New("battle still in progress")
	// ErrStalled means Advance ran out of steps without reaching input.
	ErrStalled = errors.New("encounter did not reach a waiting state")
)

// maxSteps bounds one Advance. A full round is four phase runs.
const maxSteps = 64

// Recorder receives the outcome of every finished battle.
type Recorder interface {
	Record(ctx context.Context, rec persist.BattleRecord) error
}

type Options struct {
	World  *battle.World
	Runner *coresys.Runner
	Queue  *input.Queue
	Bus    *event.Bus // optional; a private bus is created when nil

	Recorder     Recorder // optional
	WriteTimeout time.Duration
	Closers      []func() error // run by Close in order

	Log *zap.Logger
}

// Encounter owns the phase loop. Its methods must be called from one
// goroutine at a time.
type Encounter struct {
	w       *battle.World
	runner  *coresys.Runner
	queue   *input.Queue
	bus     *event.Bus
	rec     Recorder
	timeout time.Duration
	closers []func() error
	log     *zap.Logger

	roster  []string
	started time.Time
	feed    *Feed
	last    coresys.Report

	rememberNames func()
}

func New(opts Options) *Encounter {
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	e := &Encounter{
		w:       opts.World,
		runner:  opts.Runner,
		queue:   opts.Queue,
		bus:     bus,
		rec:     opts.Recorder,
		timeout: timeout,
		closers: opts.Closers,
		log:     opts.Log,
		started: time.Now(),
		feed:    NewFeed(feedSize),
	}
	e.subscribe()
	return e
}

// State is the current turn state.
func (e *Encounter) State() turn.State { return e.w.Turn.State() }

// View takes a fresh snapshot of the battle.
func (e *Encounter) View() battle.View { return e.w.Snapshot() }

// Queue is the input queue the Player-Turn schedule drains.
func (e *Encounter) Queue() *input.Queue { return e.queue }

// Bus exposes the event bus for extra subscribers.
func (e *Encounter) Bus() *event.Bus { return e.bus }

// Feed returns the recent battle log lines, oldest first.
func (e *Encounter) Feed() []string { return e.feed.Lines() }

// LastReport is the report of the most recent phase run.
func (e *Encounter) LastReport() coresys.Report { return e.last }

// Step runs the schedule of the current state once. Player-Turn runs see
// the next input frame from the queue.
func (e *Encounter) Step() (coresys.Report, error) {
	st := e.w.Turn.State()
	if st.Kind == turn.KindBattleOver {
		return coresys.Report{}, ErrBattleOver
	}
	return e.run(st.Phase())
}

// Advance steps until a Player-Turn run leaves the player to act with an
// empty queue, or the battle ends.
func (e *Encounter) Advance() error {
	for range maxSteps {
		phase := e.w.Turn.State().Phase()
		if _, err := e.Step(); err != nil {
			if errors.Is(err, ErrBattleOver) {
				return nil
			}
			return err
		}
		st := e.w.Turn.State()
		if st.Kind == turn.KindBattleOver {
			return nil
		}
		if phase == coresys.PhasePlayerTurn && st.Kind == turn.KindPlayerTurn && e.queue.Len() == 0 {
			return nil
		}
	}
	return fmt.Errorf("%w after %d steps in %s", ErrStalled, maxSteps, e.w.Turn.State())
}

// Restart runs the End-of-Battle schedule, then advances into the first
// player turn of the next battle.
func (e *Encounter) Restart() error {
	if st := e.w.Turn.State(); st.Kind != turn.KindBattleOver {
		return fmt.Errorf("restart in %s: %w", st, ErrNotOver)
	}
	if _, err := e.run(coresys.PhaseEndOfBattle); err != nil {
		return err
	}
	return e.Advance()
}

func (e *Encounter) run(phase coresys.Phase) (coresys.Report, error) {
	if phase == coresys.PhasePlayerTurn {
		e.w.Input = e.queue.Next()
		defer func() { e.w.Input = input.Frame{} }()
	}
	e.rememberNames()
	rep, err := e.runner.Run(phase, e.w.ECS, sink{e})
	if err != nil {
		return rep, fmt.Errorf("run %s: %w", phase, err)
	}
	if rep.RenderErr != nil {
		e.log.Warn("render pass failed", zap.Stringer("phase", phase), zap.Error(rep.RenderErr))
	}
	e.last = rep
	e.bus.SwapBuffers()
	e.bus.DispatchAll()
	return rep, nil
}

// Close runs the registered closers and reports every failure.
func (e *Encounter) Close() error {
	var err error
	for _, c := range e.closers {
		err = multierr.Append(err, c())
	}
	return err
}

// sink is the flush-time router: turn requests go to the machine, every
// other record to the event bus. Settle commits at each barrier.
type sink struct{ e *Encounter }

func (s sink) Post(msg any) {
	if r, ok := msg.(turn.Request); ok {
		s.e.w.Turn.Submit(r)
		return
	}
	s.e.bus.Publish(msg)
}

func (s sink) Settle() {
	t, ok := s.e.w.Turn.Commit()
	if !ok {
		return
	}
	s.e.bus.Publish(event.TurnChanged{From: t.From.String(), To: t.To.String(), Round: t.Round})
	if t.To.Kind == turn.KindBattleOver {
		hp := 0
		if hero, ok := s.e.w.Hero(); ok {
			if h, ok := s.e.w.Health.Get(hero); ok {
				hp = h.Current
			}
		}
		s.e.bus.Publish(event.BattleEnded{PlayerVictorious: t.To.PlayerVictorious, Round: t.Round, HeroHealth: hp})
	}
}
