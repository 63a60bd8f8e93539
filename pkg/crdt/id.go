package crdt

// NodeId identifies a replica. It is opaque to the library beyond its
// total, deterministic lexicographic order.
type NodeId string

// Less reports whether n sorts before other. Dots use this as the
// tie-breaker when their clocks are equal.
func (n NodeId) Less(other NodeId) bool {
	return n < other
}

// Dot is a single local event: the (node, clock) pair that made it.
// Dots minted by one replica are unique to that replica; paired with a
// replica that never reuses a clock value, a Dot is globally unique.
type Dot struct {
	Node  NodeId
	Clock LogicalClock
}

// Less orders dots by clock first, then by node — the order spec.md
// §4.2 defines. It is never used to imply causality across replicas;
// the codec uses it to put dot sets in a canonical order.
func (d Dot) Less(other Dot) bool {
	if d.Clock != other.Clock {
		return d.Clock < other.Clock
	}
	return d.Node.Less(other.Node)
}
