package viewer

import "sort"

type idSet map[NodeID]struct{}

// State is the set of expanded NodeIDs owned by one Viewer instance.
// It is immutable: Toggle returns a new State backed by a new set, so
// callers can detect change by identity with Identical.
type State struct {
	set *idSet
}

// NewState returns a State containing ids.
func NewState(ids ...NodeID) State {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return State{set: &s}
}

// Has reports whether id is expanded.
func (s State) Has(id NodeID) bool {
	if s.set == nil {
		return false
	}
	_, ok := (*s.set)[id]
	return ok
}

// Len is the number of expanded ids.
func (s State) Len() int {
	if s.set == nil {
		return 0
	}
	return len(*s.set)
}

// IDs returns the members in sorted order.
func (s State) IDs() []NodeID {
	if s.set == nil {
		return nil
	}
	out := make([]NodeID, 0, len(*s.set))
	for id := range *s.set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Toggle returns a copy of s with id's membership flipped. s is unchanged.
func (s State) Toggle(id NodeID) State {
	next := make(idSet, s.Len()+1)
	if s.set != nil {
		for k := range *s.set {
			next[k] = struct{}{}
		}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return State{set: &next}
}

// Identical reports whether s and o are the same state value, not merely
// equal sets.
func (s State) Identical(o State) bool {
	return s.set == o.set
}
