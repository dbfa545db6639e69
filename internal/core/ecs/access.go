package ecs

import (
	"fmt"
	"strings"
	"sync"
)

// Kind identifies a component store or a shared resource. Values are
// assigned by the game layer; the ecs package only compares them.
type Kind uint16

var (
	kindMu    sync.RWMutex
	kindNames = map[Kind]string{}
)

// NameKind registers a human readable name used in logs and conflict errors.
func NameKind(k Kind, name string) {
	kindMu.Lock()
	kindNames[k] = name
	kindMu.Unlock()
}

func (k Kind) String() string {
	kindMu.RLock()
	name, ok := kindNames[k]
	kindMu.RUnlock()
	if ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// AccessMode indicates read or write intent on a kind.
type AccessMode uint8

const (
	ModeRead AccessMode = iota
	ModeWrite
)

func (m AccessMode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

// Access is one (kind, mode) capability declared by a system.
type Access struct {
	Kind Kind
	Mode AccessMode
}

// AccessSet is the full capability declaration of a system.
type AccessSet []Access

// Read declares read access on kinds.
func Read(kinds ...Kind) AccessSet {
	out := make(AccessSet, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Access{Kind: k, Mode: ModeRead})
	}
	return out
}

// Write declares write access on kinds. Write implies read.
func Write(kinds ...Kind) AccessSet {
	out := make(AccessSet, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Access{Kind: k, Mode: ModeWrite})
	}
	return out
}

// Declare merges capability sets. When a kind is both read and written the
// write wins.
func Declare(sets ...AccessSet) AccessSet {
	modes := make(map[Kind]AccessMode)
	order := make([]Kind, 0, 8)
	for _, set := range sets {
		for _, a := range set {
			prev, seen := modes[a.Kind]
			if !seen {
				order = append(order, a.Kind)
				modes[a.Kind] = a.Mode
				continue
			}
			if a.Mode > prev {
				modes[a.Kind] = a.Mode
			}
		}
	}
	out := make(AccessSet, 0, len(order))
	for _, k := range order {
		out = append(out, Access{Kind: k, Mode: modes[k]})
	}
	return out
}

// Allows reports whether the set grants mode on k.
func (s AccessSet) Allows(k Kind, mode AccessMode) bool {
	for _, a := range s {
		if a.Kind == k && a.Mode >= mode {
			return true
		}
	}
	return false
}

// Conflict returns the first kind on which s and other cannot run side by
// side: a write/write or write/read overlap.
func (s AccessSet) Conflict(other AccessSet) (Kind, bool) {
	for _, a := range s {
		for _, b := range other {
			if a.Kind != b.Kind {
				continue
			}
			if a.Mode == ModeWrite || b.Mode == ModeWrite {
				return a.Kind, true
			}
		}
	}
	return 0, false
}

func (s AccessSet) String() string {
	parts := make([]string, 0, len(s))
	for _, a := range s {
		parts = append(parts, a.Mode.String()+":"+a.Kind.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
