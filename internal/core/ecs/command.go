package ecs

// PendingEntity refers to an entity queued for spawning. It resolves to a
// real EntityID once the buffer holding it has been flushed.
type PendingEntity int32

type opKind uint8

const (
	opSpawn opKind = iota
	opRemove
	opAttach
	opDetach
	opPost
)

// op is one recorded mutation. Spawned component sets live in the buffer's
// spawn arena and are referenced by index.
type op struct {
	kind   opKind
	id     EntityID
	comp   Component
	detach Kind
	spawn  PendingEntity
	msg    any
}

type spawnRecord struct {
	components []Component
	resolved   EntityID
}

// Poster receives non-structural records (turn requests, battle events) in
// submission order while a buffer is flushed.
type Poster interface {
	Post(msg any)
}

// FlushStats summarises one applied buffer.
type FlushStats struct {
	Spawned  int
	Removed  int
	Attached int
	Detached int
	Posted   int
	Dropped  int // writes aimed at entities that were already gone
}

func (s *FlushStats) Add(o FlushStats) {
	s.Spawned += o.Spawned
	s.Removed += o.Removed
	s.Attached += o.Attached
	s.Detached += o.Detached
	s.Posted += o.Posted
	s.Dropped += o.Dropped
}

// Ops reports the total number of applied records.
func (s FlushStats) Ops() int {
	return s.Spawned + s.Removed + s.Attached + s.Detached + s.Posted
}

// CommandBuffer records mutations for deferred application. A buffer is
// owned by one system run at a time and is not safe for concurrent use.
type CommandBuffer struct {
	ops     []op
	spawns  []spawnRecord
	removed map[EntityID]struct{}
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		ops:     make([]op, 0, 16),
		removed: make(map[EntityID]struct{}),
	}
}

// Spawn queues a new entity with the given components.
func (b *CommandBuffer) Spawn(components ...Component) PendingEntity {
	h := PendingEntity(len(b.spawns))
	b.spawns = append(b.spawns, spawnRecord{components: components})
	b.ops = append(b.ops, op{kind: opSpawn, spawn: h})
	return h
}

// Remove queues the entity for destruction. Removing the same entity twice
// before a flush records a single removal.
func (b *CommandBuffer) Remove(id EntityID) {
	if _, dup := b.removed[id]; dup {
		return
	}
	b.removed[id] = struct{}{}
	b.ops = append(b.ops, op{kind: opRemove, id: id})
}

// Add queues attaching (or replacing) a component on an existing entity.
func (b *CommandBuffer) Add(id EntityID, c Component) {
	b.ops = append(b.ops, op{kind: opAttach, id: id, comp: c})
}

// Detach queues removal of one component kind from an entity.
func (b *CommandBuffer) Detach(id EntityID, k Kind) {
	b.ops = append(b.ops, op{kind: opDetach, id: id, detach: k})
}

// Post queues a non-structural record for the flush Poster.
func (b *CommandBuffer) Post(msg any) {
	b.ops = append(b.ops, op{kind: opPost, msg: msg})
}

// Len reports the number of queued records.
func (b *CommandBuffer) Len() int { return len(b.ops) }

// Resolved returns the entity created for h by the last flush.
func (b *CommandBuffer) Resolved(h PendingEntity) (EntityID, bool) {
	if int(h) < 0 || int(h) >= len(b.spawns) {
		return 0, false
	}
	id := b.spawns[h].resolved
	return id, !id.IsZero()
}

// Flush applies every queued record to w in submission order, then clears
// the record queue. Spawn handles stay resolvable until Reset.
func (b *CommandBuffer) Flush(w *World, p Poster) FlushStats {
	var st FlushStats
	for _, o := range b.ops {
		switch o.kind {
		case opSpawn:
			rec := &b.spawns[o.spawn]
			rec.resolved = w.spawn(rec.components)
			st.Spawned++
		case opRemove:
			if w.destroy(o.id) {
				st.Removed++
			} else {
				st.Dropped++
			}
		case opAttach:
			if w.attach(o.id, o.comp) {
				st.Attached++
			} else {
				st.Dropped++
			}
		case opDetach:
			if w.detach(o.id, o.detach) {
				st.Detached++
			}
		case opPost:
			if p != nil {
				p.Post(o.msg)
			}
			st.Posted++
		}
	}
	b.ops = b.ops[:0]
	clear(b.removed)
	return st
}

// Reset drops queued records and the spawn arena.
func (b *CommandBuffer) Reset() {
	b.ops = b.ops[:0]
	b.spawns = b.spawns[:0]
	clear(b.removed)
}
