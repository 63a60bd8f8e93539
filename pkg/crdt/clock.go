package crdt

import "sync"

// LogicalClock is an unsigned, per-replica monotonic counter. The
// library never compares clocks across replicas for causality — it
// only requires that, within one replica, the value never regresses.
type LogicalClock uint64

// Clock hands out strictly increasing LogicalClock values for one
// replica. It is the only piece of ambient state the library owns: the
// node id and current counter, nothing else. Callers inject it into
// mutating calls rather than reaching for a process-wide singleton, so
// every CRDT stays pure and unit-testable with a deterministic clock.
type Clock struct {
	mu   sync.Mutex
	node NodeId
	last LogicalClock
}

// NewClock creates a clock for the given replica starting at zero.
func NewClock(node NodeId) *Clock {
	return &Clock{node: node}
}

// Node returns the replica id this clock was created for.
func (c *Clock) Node() NodeId {
	return c.node
}

// Next advances the clock and returns the dot for the event it now
// names: (node, clock+1).
func (c *Clock) Next() Dot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return Dot{Node: c.node, Clock: c.last}
}

// Observe folds an externally-seen clock value into the local clock so
// that a subsequent Next() never reuses a value the replica has already
// witnessed (e.g. while replaying its own prior log). It never moves
// the clock backwards.
func (c *Clock) Observe(seen LogicalClock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seen > c.last {
		c.last = seen
	}
}

// Current returns the most recently issued clock value without
// advancing it.
func (c *Clock) Current() LogicalClock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
