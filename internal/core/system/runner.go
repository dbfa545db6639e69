package system

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/deckbattle/internal/core/ecs"
)

// Sink receives posted records during flushes and is settled once after
// every flush barrier.
type Sink interface {
	ecs.Poster
	Settle()
}

// Report summarises one phase run.
type Report struct {
	Phase     Phase
	Batches   int
	Renders   int
	Stats     ecs.FlushStats
	RenderErr error // presentation failures; never affects logic
	Elapsed   time.Duration
}

// PanicError carries a non-contract panic out of a worker goroutine.
type PanicError struct {
	System string
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("system %s panicked: %v", e.System, e.Value)
}

// Runner owns one schedule per phase and executes them. Sequencing is
// single-threaded; systems inside a batch run on up to workers goroutines.
type Runner struct {
	schedules map[Phase]*Schedule
	workers   int
	bufs      []*ecs.CommandBuffer
	log       *zap.Logger
}

func NewRunner(workers int, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		schedules: make(map[Phase]*Schedule, 5),
		workers:   workers,
		log:       log,
	}
}

// Register installs (or swaps) the schedule for phase. Safe between phases:
// a discarded schedule leaves nothing behind since all mutation is buffered.
func (r *Runner) Register(phase Phase, s *Schedule) {
	r.schedules[phase] = s
}

func (r *Runner) Schedule(phase Phase) (*Schedule, bool) {
	s, ok := r.schedules[phase]
	return s, ok
}

// Run executes the schedule registered for phase against w. Contract
// violations raised by any system are re-panicked on the calling goroutine.
func (r *Runner) Run(phase Phase, w *ecs.World, sink Sink) (Report, error) {
	s, ok := r.schedules[phase]
	if !ok {
		return Report{}, fmt.Errorf("no schedule registered for %s", phase)
	}
	start := time.Now()
	rep := Report{Phase: phase}
	for _, st := range s.steps {
		switch st.kind {
		case stepBatch:
			bufs := r.buffers(len(st.systems))
			r.runBatch(st.systems, bufs)
			for _, buf := range bufs {
				rep.Stats.Add(buf.Flush(w, sink))
				buf.Reset()
			}
			sink.Settle()
			rep.Batches++
		case stepRender:
			for _, l := range st.locals {
				if err := l.Draw(); err != nil {
					rep.RenderErr = multierr.Append(rep.RenderErr, fmt.Errorf("%s: %w", l.Name(), err))
				}
			}
			rep.Renders++
		}
	}
	rep.Elapsed = time.Since(start)
	r.log.Debug("phase complete",
		zap.Stringer("phase", phase),
		zap.Int("batches", rep.Batches),
		zap.Int("ops", rep.Stats.Ops()),
		zap.Int("dropped", rep.Stats.Dropped),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

func (r *Runner) buffers(n int) []*ecs.CommandBuffer {
	for len(r.bufs) < n {
		r.bufs = append(r.bufs, ecs.NewCommandBuffer())
	}
	return r.bufs[:n]
}

func (r *Runner) runBatch(systems []System, bufs []*ecs.CommandBuffer) {
	if len(systems) == 1 || r.workers == 1 {
		for i, s := range systems {
			s.Run(NewCommands(s.Name(), s.Access(), bufs[i]))
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, s := range systems {
		g.Go(func() error {
			return runGuarded(s, bufs[i])
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

func runGuarded(s System, buf *ecs.CommandBuffer) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if cv, ok := rec.(*ecs.ContractViolation); ok {
			err = cv
			return
		}
		err = &PanicError{System: s.Name(), Value: rec}
	}()
	s.Run(NewCommands(s.Name(), s.Access(), buf))
	return nil
}
