package storage

import (
	"github.com/pkg/errors"

	"mergedb/pkg/crdt"
)

// Store is the node-facing front door onto an Engine: it adds
// merge-on-write semantics and replication bookkeeping on top of the
// engine's plain get/put/delete.
type Store struct {
	nodeID string
	engine *Engine
	vm     *VersionManager
	clock  *crdt.Clock
}

// NewStore builds a store for nodeID backed by engine.
func NewStore(nodeID string, engine *Engine) *Store {
	return &Store{
		nodeID: nodeID,
		engine: engine,
		vm:     NewVersionManager(nodeID),
		clock:  crdt.NewClock(crdt.NodeId(nodeID)),
	}
}

// Get returns the CRDT state stored at key.
func (s *Store) Get(key string) (crdt.State, bool) {
	entry, ok := s.engine.Get(key)
	if !ok {
		return nil, false
	}
	entry.Mu.Lock()
	defer entry.Mu.Unlock()
	s.engine.CountOp("get", entry.Object.Type())
	return entry.Object, true
}

// Put installs obj as key's entry outright, with no merge against
// whatever was previously there. Used for first-write and for
// restoring a snapshot.
func (s *Store) Put(key string, obj crdt.State) {
	s.engine.Put(key, obj, s.clock.Next().Clock)
	s.engine.CountOp("put", obj.Type())
	s.vm.Advance()
}

// Delete removes key's entry from the engine.
func (s *Store) Delete(key string) {
	s.engine.Delete(key)
}

// Merge decodes incoming (wire bytes produced by crdt.Encode) and
// folds it into whatever state is already stored at key, using that
// CRDT's own join — the only place outside pkg/crdt that calls Merge
// directly. If key is unset, the decoded state becomes the entry
// outright, since merging with nothing is the identity merge. Both
// sides of the merge must be the same concrete CRDT type; a mismatch
// is a caller bug, not a data condition, and is reported accordingly.
func (s *Store) Merge(key string, incoming []byte) error {
	decoded, err := crdt.Decode(incoming)
	if err != nil {
		return errors.Wrapf(err, "decoding merge payload for key %q", key)
	}

	entry, ok := s.engine.Get(key)
	if !ok {
		s.engine.Put(key, decoded, s.clock.Next().Clock)
		s.engine.CountOp("merge", decoded.Type())
		s.vm.Advance()
		return nil
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	if err := mergeInto(entry.Object, decoded); err != nil {
		return errors.Wrapf(err, "merging key %q", key)
	}
	entry.LastUpdated = s.clock.Next().Clock
	s.engine.CountOp("merge", entry.Object.Type())
	s.vm.Advance()
	return nil
}

func mergeInto(dst, src crdt.State) error {
	switch d := dst.(type) {
	case *crdt.PNCounter:
		s, ok := src.(*crdt.PNCounter)
		if !ok {
			return errors.Errorf("cannot merge %T into %T", src, dst)
		}
		d.Merge(s)
		return nil

	case *crdt.LWWRegister:
		s, ok := src.(*crdt.LWWRegister)
		if !ok {
			return errors.Errorf("cannot merge %T into %T", src, dst)
		}
		return d.Merge(s)

	case *crdt.AWSet[string]:
		s, ok := src.(*crdt.AWSet[string])
		if !ok {
			return errors.Errorf("cannot merge %T into %T", src, dst)
		}
		d.Merge(s)
		return nil

	default:
		return errors.Errorf("unmergeable state type %T", dst)
	}
}
