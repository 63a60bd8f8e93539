package crdt

import "bytes"

// LWWRegister holds a single byte-string value alongside the
// (timestamp, writer) pair that set it (spec §3, §4.4). Merge keeps
// whichever side has the higher timestamp, breaking exact timestamp
// ties by writer NodeId, so the result is a deterministic total order
// rather than last-write-wins in the wall-clock sense.
type LWWRegister struct {
	Value     []byte
	Timestamp LogicalClock
	Writer    NodeId
}

// NewLWWRegister returns a register holding no value, timestamped at
// zero from an empty writer — the identity element a fresh Write
// replaces.
func NewLWWRegister() *LWWRegister {
	return &LWWRegister{}
}

func (r *LWWRegister) Type() Type { return TypeLWWRegister }

// Read returns the register's current value, or (nil, false) if it
// has never been written.
func (r *LWWRegister) Read() ([]byte, bool) {
	if r.Writer == "" {
		return nil, false
	}
	return r.Value, true
}

// dominates reports whether (ts, writer) would win a tie-break against
// the register's current (Timestamp, Writer).
func (r *LWWRegister) dominates(ts LogicalClock, writer NodeId) bool {
	if ts != r.Timestamp {
		return ts > r.Timestamp
	}
	return r.Writer.Less(writer)
}

// Write assigns value under (ts, writer) if that pair dominates the
// register's current tag. A write at an already-seen (ts, writer) pair
// for a different value is a clock reuse: the writer issued two
// distinct values under one timestamp, which the register rejects
// rather than silently picking one (spec §4.4 edge cases).
func (r *LWWRegister) Write(value []byte, ts LogicalClock, writer NodeId) error {
	if ts == r.Timestamp && writer == r.Writer && r.Writer != "" {
		if !valueEqual(r.Value, value) {
			return &ClockReuseError{Timestamp: ts, Writer: writer}
		}
		return nil
	}
	if r.Writer == "" || r.dominates(ts, writer) {
		r.Value = value
		r.Timestamp = ts
		r.Writer = writer
	}
	return nil
}

// Merge keeps the side with the higher (Timestamp, Writer) pair. If
// both sides carry the same pair but disagree on Value, that is a
// clock reuse surfaced as an error rather than resolved silently.
func (r *LWWRegister) Merge(other *LWWRegister) error {
	if other.Writer == "" {
		return nil
	}
	if r.Writer == "" {
		*r = *other
		return nil
	}
	if r.Timestamp == other.Timestamp && r.Writer == other.Writer {
		if !valueEqual(r.Value, other.Value) {
			return &ClockReuseError{Timestamp: r.Timestamp, Writer: r.Writer}
		}
		return nil
	}
	if !r.dominates(other.Timestamp, other.Writer) {
		return nil
	}
	r.Value = other.Value
	r.Timestamp = other.Timestamp
	r.Writer = other.Writer
	return nil
}

// Clone returns a copy of the register.
func (r *LWWRegister) Clone() *LWWRegister {
	out := *r
	return &out
}

// Equal reports observable equality: same value, timestamp and writer.
func (r *LWWRegister) Equal(other *LWWRegister) bool {
	return r.Timestamp == other.Timestamp && r.Writer == other.Writer && valueEqual(r.Value, other.Value)
}

func valueEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
