package crdt

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// AWSet is an add-wins observed-remove set (spec §4.5). Every Add mints
// a fresh Dot rather than reusing one, so a concurrent add and remove
// of the same element resolves in favor of the add: the new dot was
// never in the remover's tombstones and survives the merge.
//
// entries maps each element to the dots currently witnessing it; a dot
// that also appears in tombstones has been observed removed and is
// pruned out. The element type must be comparable so it can key entries
// directly — callers that need non-comparable payloads (e.g. slices)
// should key by a comparable identifier and carry the payload
// elsewhere.
type AWSet[T comparable] struct {
	entries    map[T]mapset.Set[Dot]
	tombstones mapset.Set[Dot]
}

// NewAWSet returns an empty set.
func NewAWSet[T comparable]() *AWSet[T] {
	return &AWSet[T]{
		entries:    make(map[T]mapset.Set[Dot]),
		tombstones: mapset.NewThreadUnsafeSet[Dot](),
	}
}

func (s *AWSet[T]) Type() Type { return TypeAWSet }

// Add associates element with a freshly minted dot, adding to whatever
// dots the element already carries rather than replacing them. A
// re-add of an already-present element always mints a new dot, which
// is what lets it outlive a concurrent remove.
func (s *AWSet[T]) Add(element T, dot Dot) {
	set, ok := s.entries[element]
	if !ok {
		set = mapset.NewThreadUnsafeSet[Dot]()
		s.entries[element] = set
	}
	set.Add(dot)
}

// Remove tombstones every dot currently known for element. Dots added
// concurrently elsewhere, not yet observed here, are untouched and
// will keep the element alive once merged in.
func (s *AWSet[T]) Remove(element T) {
	set, ok := s.entries[element]
	if !ok {
		return
	}
	s.tombstones = s.tombstones.Union(set)
	s.prune()
}

// Contains reports whether element carries at least one live (i.e.
// non-tombstoned) dot.
func (s *AWSet[T]) Contains(element T) bool {
	set, ok := s.entries[element]
	return ok && set.Cardinality() > 0
}

// Elements returns the set's live elements in deterministic,
// lexicographic order by their string representation (spec §4.5), so
// that two calls against the same set — or against two independently
// merged but observably-equal sets — always agree on ordering.
func (s *AWSet[T]) Elements() []T {
	out := make([]T, 0, len(s.entries))
	for e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%v", out[i]) < fmt.Sprintf("%v", out[j])
	})
	return out
}

// Merge unions both sides' dots and tombstones, then prunes any dot
// that is now tombstoned from every element's live set. Union-then-
// prune, in that order, is what makes the result independent of
// whether Add or Remove happened first on either replica.
func (s *AWSet[T]) Merge(other *AWSet[T]) {
	for element, dots := range other.entries {
		set, ok := s.entries[element]
		if !ok {
			set = mapset.NewThreadUnsafeSet[Dot]()
			s.entries[element] = set
		}
		s.entries[element] = set.Union(dots)
	}
	s.tombstones = s.tombstones.Union(other.tombstones)
	s.prune()
}

func (s *AWSet[T]) prune() {
	for element, dots := range s.entries {
		live := dots.Difference(s.tombstones)
		if live.Cardinality() == 0 {
			delete(s.entries, element)
			continue
		}
		s.entries[element] = live
	}
}

// Clone returns a deep copy.
func (s *AWSet[T]) Clone() *AWSet[T] {
	out := NewAWSet[T]()
	for e, dots := range s.entries {
		out.entries[e] = dots.Clone()
	}
	out.tombstones = s.tombstones.Clone()
	return out
}

// Equal reports observable equality: same live elements, each backed
// by the same dots, under the same tombstone set.
func (s *AWSet[T]) Equal(other *AWSet[T]) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for e, dots := range s.entries {
		od, ok := other.entries[e]
		if !ok || !dots.Equal(od) {
			return false
		}
	}
	return s.tombstones.Equal(other.tombstones)
}
