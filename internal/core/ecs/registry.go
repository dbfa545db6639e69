package ecs

// Registry tracks all component stores by kind and supports bulk cleanup on
// entity destroy.
type Registry struct {
	stores []AnyStore
	byKind map[Kind]AnyStore
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]AnyStore, 0, 16),
		byKind: make(map[Kind]AnyStore, 16),
	}
}

// Register adds a component store to the registry. Two stores may not share
// a kind.
func (r *Registry) Register(store AnyStore) {
	if _, dup := r.byKind[store.Kind()]; dup {
		Violate("register", "duplicate store for %s", store.Kind())
	}
	r.stores = append(r.stores, store)
	r.byKind[store.Kind()] = store
}

// Store looks up the store registered for k.
func (r *Registry) Store(k Kind) (AnyStore, bool) {
	s, ok := r.byKind[k]
	return s, ok
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Kinds lists the kinds the entity currently carries.
func (r *Registry) Kinds(id EntityID) []Kind {
	var out []Kind
	for _, s := range r.stores {
		if s.Has(id) {
			out = append(out, s.Kind())
		}
	}
	return out
}
