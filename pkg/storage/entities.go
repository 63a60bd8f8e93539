package storage

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"mergedb/pkg/crdt"
)

// CRDTEntry is what a shard actually stores under a key: a CRDT state
// plus the bookkeeping the engine needs to serve it safely under
// concurrent access. The CRDT itself stays single-threaded per spec;
// the mutex here is the engine's own serialization point around
// reading and merging into Object, not part of the CRDT contract.
type CRDTEntry struct {
	Mu          sync.Mutex
	Object      crdt.State
	LastUpdated crdt.LogicalClock
}

// Shard is one bucket of the engine's hash-partitioned keyspace. Keys
// within a shard are served by a lock-free map so that reads never
// block behind a writer touching an unrelated key in the same shard.
type Shard struct {
	data *xsync.MapOf[string, *CRDTEntry]
}

func newShard() *Shard {
	return &Shard{data: xsync.NewMapOf[string, *CRDTEntry]()}
}
