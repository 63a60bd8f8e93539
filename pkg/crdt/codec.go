package crdt

import (
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the single byte prefixed to every encoded state. Bumping
// it is a breaking wire change; Decode rejects anything else with a
// *VersionError.
const Version byte = 0x01

// Encode serializes a state to its canonical wire form: a version
// byte, a type discriminator byte, then a msgpack payload built from
// sorted slices rather than maps, so that two observably-equal states
// always encode to identical bytes regardless of map iteration order
// (spec §4.7's canonical byte equality requirement).
//
// AWSet support is limited to AWSet[string]; other element types have
// no canonical wire representation defined here.
func Encode(s State) ([]byte, error) {
	var payload []byte
	var err error

	switch v := s.(type) {
	case *PNCounter:
		payload, err = msgpack.Marshal(pnCounterWire{
			P: sortedCounterEntries(v.P),
			N: sortedCounterEntries(v.N),
		})
	case *LWWRegister:
		payload, err = msgpack.Marshal(lwwRegisterWire{
			Value:     v.Value,
			Timestamp: uint64(v.Timestamp),
			Writer:    string(v.Writer),
		})
	case *AWSet[string]:
		payload, err = msgpack.Marshal(awSetWire{
			Entries:    sortedSetEntries(v),
			Tombstones: sortedDots(v.tombstones.ToSlice()),
		})
	default:
		return nil, &DecodeError{Reason: "unsupported state type for encoding"}
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(payload)+2)
	out = append(out, Version, byte(s.Type()))
	out = append(out, payload...)
	return out, nil
}

// Decode parses bytes produced by Encode back into a concrete state.
// It rejects an unrecognized version with *VersionError and any
// structural violation of the expected payload shape with
// *DecodeError.
func Decode(data []byte) (State, error) {
	if len(data) < 2 {
		return nil, &DecodeError{Reason: "payload shorter than header"}
	}
	if data[0] != Version {
		return nil, &VersionError{Got: data[0], Want: Version}
	}

	typ := Type(data[1])
	payload := data[2:]

	switch typ {
	case TypePNCounter:
		var w pnCounterWire
		if err := msgpack.Unmarshal(payload, &w); err != nil {
			return nil, &DecodeError{Type: typ, Reason: err.Error()}
		}
		c := NewPNCounter()
		for _, e := range w.P {
			c.P[NodeId(e.Node)] = e.Value
		}
		for _, e := range w.N {
			c.N[NodeId(e.Node)] = e.Value
		}
		return c, nil

	case TypeLWWRegister:
		var w lwwRegisterWire
		if err := msgpack.Unmarshal(payload, &w); err != nil {
			return nil, &DecodeError{Type: typ, Reason: err.Error()}
		}
		return &LWWRegister{
			Value:     w.Value,
			Timestamp: LogicalClock(w.Timestamp),
			Writer:    NodeId(w.Writer),
		}, nil

	case TypeAWSet:
		var w awSetWire
		if err := msgpack.Unmarshal(payload, &w); err != nil {
			return nil, &DecodeError{Type: typ, Reason: err.Error()}
		}
		s := NewAWSet[string]()
		for _, e := range w.Entries {
			for _, d := range e.Dots {
				s.Add(e.Element, Dot{Node: NodeId(d.Node), Clock: LogicalClock(d.Clock)})
			}
		}
		for _, d := range w.Tombstones {
			s.tombstones.Add(Dot{Node: NodeId(d.Node), Clock: LogicalClock(d.Clock)})
		}
		s.prune()
		return s, nil

	default:
		return nil, &DecodeError{Type: typ, Reason: "unknown type discriminator"}
	}
}

type counterEntry struct {
	Node  string `msgpack:"node"`
	Value uint64 `msgpack:"value"`
}

type pnCounterWire struct {
	P []counterEntry `msgpack:"p"`
	N []counterEntry `msgpack:"n"`
}

type lwwRegisterWire struct {
	Value     []byte `msgpack:"value"`
	Timestamp uint64 `msgpack:"timestamp"`
	Writer    string `msgpack:"writer"`
}

type dotWire struct {
	Node  string `msgpack:"node"`
	Clock uint64 `msgpack:"clock"`
}

type setEntryWire struct {
	Element string    `msgpack:"element"`
	Dots    []dotWire `msgpack:"dots"`
}

type awSetWire struct {
	Entries    []setEntryWire `msgpack:"entries"`
	Tombstones []dotWire      `msgpack:"tombstones"`
}

func sortedCounterEntries(m map[NodeId]uint64) []counterEntry {
	out := make([]counterEntry, 0, len(m))
	for node, v := range m {
		out = append(out, counterEntry{Node: string(node), Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

func sortedDots(dots []Dot) []dotWire {
	sort.Slice(dots, func(i, j int) bool { return dots[i].Less(dots[j]) })
	out := make([]dotWire, len(dots))
	for i, d := range dots {
		out[i] = dotWire{Node: string(d.Node), Clock: uint64(d.Clock)}
	}
	return out
}

func sortedSetEntries(s *AWSet[string]) []setEntryWire {
	elements := s.Elements() // already lexicographically sorted

	out := make([]setEntryWire, 0, len(elements))
	for _, e := range elements {
		out = append(out, setEntryWire{Element: e, Dots: sortedDots(s.entries[e].ToSlice())})
	}
	return out
}
