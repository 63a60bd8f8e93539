package storage

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergedb/pkg/crdt"
)

func newTestStore(t *testing.T, nodeID string) *Store {
	t.Helper()
	return NewStore(nodeID, NewEngine(8, nodeID, prometheus.NewRegistry()))
}

func encodeT(t *testing.T, s crdt.State) []byte {
	t.Helper()
	data, err := crdt.Encode(s)
	require.NoError(t, err)
	return data
}

func TestStore_MergeOnFirstWriteInstallsOutright(t *testing.T) {
	s := newTestStore(t, "n1")

	c := crdt.NewPNCounter()
	require.NoError(t, c.Increment("n1", 5))

	require.NoError(t, s.Merge("counter", encodeT(t, c)))

	got, ok := s.Get("counter")
	require.True(t, ok)
	assert.EqualValues(t, 5, got.(*crdt.PNCounter).Value())
}

func TestStore_MergeCombinesWithExisting(t *testing.T) {
	s := newTestStore(t, "n1")

	a := crdt.NewPNCounter()
	require.NoError(t, a.Increment("n1", 5))
	require.NoError(t, s.Merge("counter", encodeT(t, a)))

	b := crdt.NewPNCounter()
	require.NoError(t, b.Increment("n1", 3))
	require.NoError(t, b.Increment("n2", 7))
	require.NoError(t, s.Merge("counter", encodeT(t, b)))

	got, _ := s.Get("counter")
	assert.EqualValues(t, 12, got.(*crdt.PNCounter).Value())
}

func TestStore_MergeRejectsTypeMismatch(t *testing.T) {
	s := newTestStore(t, "n1")
	require.NoError(t, s.Merge("key", encodeT(t, crdt.NewPNCounter())))

	err := s.Merge("key", encodeT(t, crdt.NewLWWRegister()))
	assert.Error(t, err)
}

func TestStore_MergeRejectsMalformedPayload(t *testing.T) {
	s := newTestStore(t, "n1")
	err := s.Merge("key", []byte{0xff})
	assert.Error(t, err)
}

func TestStore_DeleteRemovesEntry(t *testing.T) {
	s := newTestStore(t, "n1")
	require.NoError(t, s.Merge("key", encodeT(t, crdt.NewPNCounter())))
	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
}

func TestVersionManager_ObserveRejectsStale(t *testing.T) {
	vm := NewVersionManager("n1")
	v := vm.Advance()

	assert.False(t, vm.Observe(Version{ReplicaID: "n1", Sequence: v.Sequence}))
	assert.True(t, vm.Observe(Version{ReplicaID: "n2", Sequence: 1}))
	assert.False(t, vm.Observe(Version{ReplicaID: "n2", Sequence: 1}))
	assert.True(t, vm.Observe(Version{ReplicaID: "n2", Sequence: 2}))
}
