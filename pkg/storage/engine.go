package storage

import (
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"mergedb/pkg/crdt"
)

// scaleThreshold is how many keys per shard trigger doubling the shard
// count.
const scaleThreshold = 100_000

// defaultCacheSize bounds the hot-read cache independently of the
// engine's total key count.
const defaultCacheSize = 4096

// Engine is a hash-partitioned, in-memory keyspace of CRDT states. It
// holds no opinions about which CRDT a key contains; callers read,
// merge and write through Store, which does.
type Engine struct {
	nodeID     string
	shards     atomic.Pointer[[]*Shard]
	numShards  atomic.Uint32
	growthLock sync.Mutex
	countKeys  atomic.Int64

	cache *lru.Cache[string, *CRDTEntry]

	keysGauge   prometheus.Gauge
	shardsGauge prometheus.Gauge
	scaleCount  prometheus.Counter
	opsCounter  *prometheus.CounterVec
}

// NewEngine builds an engine with the given initial shard count
// (rounded up by the caller to a power of two; 64 if unset or <= 0)
// for the given replica id. Metrics are registered against reg; pass a
// fresh prometheus.NewRegistry() in tests to avoid collisions with a
// process-wide default registry.
func NewEngine(initialShards int, nodeID string, reg prometheus.Registerer) *Engine {
	if initialShards <= 0 {
		initialShards = 64
	}
	e := &Engine{nodeID: nodeID}

	shards := make([]*Shard, initialShards)
	for i := range shards {
		shards[i] = newShard()
	}
	e.shards.Store(&shards)
	e.numShards.Store(uint32(initialShards))

	cache, _ := lru.New[string, *CRDTEntry](defaultCacheSize)
	e.cache = cache

	e.keysGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mergedb_engine_keys",
		Help:        "Number of keys currently held by the engine.",
		ConstLabels: prometheus.Labels{"node": nodeID},
	})
	e.shardsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mergedb_engine_shards",
		Help:        "Number of shards the keyspace is currently split into.",
		ConstLabels: prometheus.Labels{"node": nodeID},
	})
	e.scaleCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "mergedb_engine_scale_events_total",
		Help:        "Number of times the engine has doubled its shard count.",
		ConstLabels: prometheus.Labels{"node": nodeID},
	})
	e.opsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "mergedb_engine_ops_total",
		Help:        "Number of engine operations performed, by operation and CRDT type.",
		ConstLabels: prometheus.Labels{"node": nodeID},
	}, []string{"op", "crdt_type"})
	if reg != nil {
		reg.MustRegister(e.keysGauge, e.shardsGauge, e.scaleCount, e.opsCounter)
	}
	e.shardsGauge.Set(float64(initialShards))

	return e
}

// CountOp records one occurrence of op against a CRDT type in the
// engine's operation counter. Store calls this from Get, Put and Merge;
// Delete is not counted.
func (e *Engine) CountOp(op string, typ crdt.Type) {
	e.opsCounter.WithLabelValues(op, typ.String()).Inc()
}

// Get returns the entry stored at key, consulting the hot-read cache
// before the owning shard.
func (e *Engine) Get(key string) (*CRDTEntry, bool) {
	if entry, ok := e.cache.Get(key); ok {
		return entry, true
	}
	shard := e.shardFor(key)
	entry, ok := shard.data.Load(key)
	if ok {
		e.cache.Add(key, entry)
	}
	return entry, ok
}

// Put installs obj as the entry for key, replacing whatever was
// there. Callers that want merge-on-write semantics should use
// Store.Merge instead.
func (e *Engine) Put(key string, obj crdt.State, at crdt.LogicalClock) {
	shard := e.shardFor(key)

	_, loaded := shard.data.LoadAndStore(key, &CRDTEntry{Object: obj, LastUpdated: at})
	if !loaded {
		e.countKeys.Add(1)
		e.keysGauge.Set(float64(e.countKeys.Load()))
	}
	e.cache.Remove(key)
	e.maybeScale()
}

// Delete removes key's entry entirely. This is an engine-level
// deletion of the slot, not a CRDT tombstone: MergeDB's CRDTs never
// forget state through Delete, only through their own Remove/Merge
// semantics.
func (e *Engine) Delete(key string) {
	shard := e.shardFor(key)
	if _, ok := shard.data.LoadAndDelete(key); ok {
		e.countKeys.Add(-1)
		e.keysGauge.Set(float64(e.countKeys.Load()))
	}
	e.cache.Remove(key)
}

func (e *Engine) shardFor(key string) *Shard {
	idx := hashKey(key) & (e.numShards.Load() - 1)
	arr := *e.shards.Load()
	return arr[idx]
}

func (e *Engine) maybeScale() {
	total := e.countKeys.Load()
	nShards := int64(e.numShards.Load())

	if total/nShards > scaleThreshold {
		go e.growShards()
	}
}

func (e *Engine) growShards() {
	e.growthLock.Lock()
	defer e.growthLock.Unlock()

	current := e.numShards.Load()
	if total := e.countKeys.Load(); total/int64(current) < scaleThreshold {
		return // another goroutine already grew it
	}

	newCount := current * 2
	oldArr := *e.shards.Load()
	newArr := make([]*Shard, newCount)
	for i := range newArr {
		newArr[i] = newShard()
	}

	for _, old := range oldArr {
		old.data.Range(func(k string, v *CRDTEntry) bool {
			idx := hashKey(k) & (newCount - 1)
			newArr[idx].data.Store(k, v)
			return true
		})
	}

	e.shards.Store(&newArr)
	e.numShards.Store(newCount)
	e.shardsGauge.Set(float64(newCount))
	e.scaleCount.Inc()
	slog.Info("engine scaled shard count", "node_id", e.nodeID, "shards", newCount)
}
