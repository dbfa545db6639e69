package ecs

import (
	"fmt"
	"slices"
)

// Component is typed data attached to an entity.
type Component interface {
	Kind() Kind
}

// AnyStore is the type-erased view of a Store used by the Registry and by
// command application. The unexported method keeps implementations inside
// this package.
type AnyStore interface {
	Kind() Kind
	Has(id EntityID) bool
	Remove(id EntityID)
	Len() int
	attach(id EntityID, c Component)
}

// Store is a generic typed map store holding component values. Get hands out
// copies, so a system can never write through to the world; all writes go
// through a CommandBuffer.
type Store[T Component] struct {
	kind Kind
	data map[EntityID]T
}

func NewStore[T Component](kind Kind) *Store[T] {
	return &Store[T]{
		kind: kind,
		data: make(map[EntityID]T, 16),
	}
}

func (s *Store[T]) Kind() Kind { return s.kind }

func (s *Store[T]) Set(id EntityID, c T) {
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// IDs returns the entities holding this component in ascending order.
func (s *Store[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each visits every component in ascending entity order.
func (s *Store[T]) Each(fn func(EntityID, T)) {
	for _, id := range s.IDs() {
		fn(id, s.data[id])
	}
}

func (s *Store[T]) attach(id EntityID, c Component) {
	v, ok := c.(T)
	if !ok {
		Violate("attach", "component %T routed to store %s", c, s.kind)
	}
	s.data[id] = v
}

func (s *Store[T]) String() string {
	return fmt.Sprintf("store(%s, %d)", s.kind, len(s.data))
}
