package system

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAccessConflict is returned by Build when two systems in one batch
// declare overlapping write/write or write/read access.
var ErrAccessConflict = errors.New("access conflict in batch")

type stepKind uint8

const (
	stepBatch  stepKind = iota // concurrent systems followed by a flush barrier
	stepRender                 // thread-local presentation steps, in order
)

type step struct {
	kind    stepKind
	systems []System
	locals  []ThreadLocal
}

// Schedule is an immutable, validated sequence of batches and render passes.
type Schedule struct {
	name  string
	steps []step
}

func (s *Schedule) Name() string { return s.name }

// Batches reports the number of logic batches (and so flush barriers).
func (s *Schedule) Batches() int {
	n := 0
	for _, st := range s.steps {
		if st.kind == stepBatch {
			n++
		}
	}
	return n
}

// Describe renders the schedule as one line per step, e.g.
// "batch: a, b" or "render: bg, hp". Used by logs and tests.
func (s *Schedule) Describe() []string {
	out := make([]string, 0, len(s.steps))
	for _, st := range s.steps {
		var names []string
		if st.kind == stepBatch {
			for _, sys := range st.systems {
				names = append(names, sys.Name())
			}
			out = append(out, "batch: "+strings.Join(names, ", "))
			continue
		}
		for _, l := range st.locals {
			names = append(names, l.Name())
		}
		out = append(out, "render: "+strings.Join(names, ", "))
	}
	return out
}

// Builder composes a Schedule by hand: systems added between two Flush calls
// form one batch.
type Builder struct {
	name  string
	steps []step
	cur   []System
}

func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Add appends s to the open batch.
func (b *Builder) Add(s System) *Builder {
	b.cur = append(b.cur, s)
	return b
}

// Flush closes the open batch; its buffered mutations become visible to
// everything after this point.
func (b *Builder) Flush() *Builder {
	if len(b.cur) == 0 {
		return b
	}
	b.steps = append(b.steps, step{kind: stepBatch, systems: b.cur})
	b.cur = nil
	return b
}

// AddThreadLocal appends a presentation step. The open batch is flushed
// first so presentation only ever sees settled state.
func (b *Builder) AddThreadLocal(t ThreadLocal) *Builder {
	b.Flush()
	if n := len(b.steps); n > 0 && b.steps[n-1].kind == stepRender {
		b.steps[n-1].locals = append(b.steps[n-1].locals, t)
		return b
	}
	b.steps = append(b.steps, step{kind: stepRender, locals: []ThreadLocal{t}})
	return b
}

// Build closes the open batch and validates every batch for conflicts.
func (b *Builder) Build() (*Schedule, error) {
	b.Flush()
	for i, st := range b.steps {
		if st.kind != stepBatch {
			continue
		}
		for x := 0; x < len(st.systems); x++ {
			for y := x + 1; y < len(st.systems); y++ {
				sx, sy := st.systems[x], st.systems[y]
				if k, bad := sx.Access().Conflict(sy.Access()); bad {
					return nil, fmt.Errorf("%s step %d: %s and %s both touch %s: %w",
						b.name, i, sx.Name(), sy.Name(), k, ErrAccessConflict)
				}
			}
		}
	}
	return &Schedule{name: b.name, steps: b.steps}, nil
}

// MustBuild is Build for hand-written schedules known to be valid.
func (b *Builder) MustBuild() *Schedule {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
