package crdt

import "math"

// PNCounter is a grow-only increment map plus a grow-only decrement
// map, one entry per node (spec §4.3). Its value is Σ P − Σ N and may
// be negative. Unlike the teacher's PNCounter, this type takes no
// internal lock: per spec §5 the core is single-threaded per instance
// and never blocks, so serializing concurrent access is the caller's
// job, not the CRDT's.
type PNCounter struct {
	P map[NodeId]uint64
	N map[NodeId]uint64
}

// NewPNCounter returns an empty counter.
func NewPNCounter() *PNCounter {
	return &PNCounter{P: make(map[NodeId]uint64), N: make(map[NodeId]uint64)}
}

func (c *PNCounter) Type() Type { return TypePNCounter }

// Increment adds δ (δ ≥ 0) to node's running increment total. It fails
// with an *OverflowError if the new total would overflow uint64.
func (c *PNCounter) Increment(node NodeId, delta uint64) error {
	return bump(c.P, node, delta)
}

// Decrement adds δ (δ ≥ 0) to node's running decrement total.
func (c *PNCounter) Decrement(node NodeId, delta uint64) error {
	return bump(c.N, node, delta)
}

func bump(m map[NodeId]uint64, node NodeId, delta uint64) error {
	cur := m[node]
	if cur > math.MaxUint64-delta {
		return &OverflowError{Node: node, Delta: int64(delta)}
	}
	m[node] = cur + delta
	return nil
}

// Value returns Σ P − Σ N as a signed integer; it may be negative.
func (c *PNCounter) Value() int64 {
	var sumP, sumN uint64
	for _, v := range c.P {
		sumP += v
	}
	for _, v := range c.N {
		sumN += v
	}
	return int64(sumP) - int64(sumN)
}

// Merge takes, for every node appearing on either side, the larger of
// the two P entries and the larger of the two N entries — the lattice
// join. Taking the larger (never the sum) is what keeps Merge
// idempotent: merging a counter with itself changes nothing.
func (c *PNCounter) Merge(other *PNCounter) {
	mergeMax(c.P, other.P)
	mergeMax(c.N, other.N)
}

func mergeMax(dst, src map[NodeId]uint64) {
	for node, v := range src {
		if v > dst[node] {
			dst[node] = v
		}
	}
}

// Clone returns a deep copy, useful for property tests that need an
// untouched baseline to compare merge orderings against.
func (c *PNCounter) Clone() *PNCounter {
	out := NewPNCounter()
	for k, v := range c.P {
		out.P[k] = v
	}
	for k, v := range c.N {
		out.N[k] = v
	}
	return out
}

// Equal reports observable equality: same P and N entries.
func (c *PNCounter) Equal(other *PNCounter) bool {
	return mapsEqual(c.P, other.P) && mapsEqual(c.N, other.N)
}

func mapsEqual(a, b map[NodeId]uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
