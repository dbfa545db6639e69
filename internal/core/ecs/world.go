package ecs

// World is the top-level ECS container. It owns the entity pool and the
// component registry. Topology only changes through Flush of a
// CommandBuffer; systems read the world between flushes.
type World struct {
	pool     *EntityPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// Register creates and registers the store for kind on w.
func Register[T Component](w *World, kind Kind) *Store[T] {
	s := NewStore[T](kind)
	w.registry.Register(s)
	return s
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len reports the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// spawn creates an entity carrying the given components.
func (w *World) spawn(components []Component) EntityID {
	id := w.pool.Create()
	for _, c := range components {
		w.attach(id, c)
	}
	return id
}

// destroy removes the entity and its components. A dead id is a no-op.
func (w *World) destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}

// attach writes c onto a live entity. Writes onto dead entities are dropped:
// an earlier command in the same flush may have removed the target.
func (w *World) attach(id EntityID, c Component) bool {
	if !w.pool.Alive(id) {
		return false
	}
	s, ok := w.registry.Store(c.Kind())
	if !ok {
		Violate("attach", "no store registered for %s", c.Kind())
	}
	s.attach(id, c)
	return true
}

func (w *World) detach(id EntityID, k Kind) bool {
	if !w.pool.Alive(id) {
		return false
	}
	s, ok := w.registry.Store(k)
	if !ok {
		Violate("detach", "no store registered for %s", k)
	}
	if !s.Has(id) {
		return false
	}
	s.Remove(id)
	return true
}
