package ecs

// Each2 iterates over entities that have both component A and B, in
// ascending entity order. It walks the smaller store and probes the larger.
func Each2[A, B Component](sa *Store[A], sb *Store[B], fn func(EntityID, A, B)) {
	if sa.Len() <= sb.Len() {
		for _, id := range sa.IDs() {
			if b, ok := sb.data[id]; ok {
				fn(id, sa.data[id], b)
			}
		}
		return
	}
	for _, id := range sb.IDs() {
		if a, ok := sa.data[id]; ok {
			fn(id, a, sb.data[id])
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C Component](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, A, B, C)) {
	Each2(sa, sb, func(id EntityID, a A, b B) {
		if c, ok := sc.data[id]; ok {
			fn(id, a, b, c)
		}
	})
}

// With returns the entities present in every given store, ascending.
// Stores are intersected smallest first.
func With(stores ...AnyStore) []EntityID {
	if len(stores) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range stores {
		if s.Len() < stores[smallest].Len() {
			smallest = i
		}
	}
	base, ok := stores[smallest].(interface{ IDs() []EntityID })
	if !ok {
		return nil
	}
	candidates := base.IDs()
	out := candidates[:0]
	for _, id := range candidates {
		keep := true
		for i, s := range stores {
			if i != smallest && !s.Has(id) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, id)
		}
	}
	return out
}
