package crdt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLWWRegister_HigherTimestampWins(t *testing.T) {
	r := NewLWWRegister()
	require.NoError(t, r.Write([]byte("a"), 1, "n1"))
	require.NoError(t, r.Write([]byte("b"), 2, "n2"))
	assert.Equal(t, []byte("b"), r.Value)
}

func TestLWWRegister_LowerTimestampLoses(t *testing.T) {
	r := NewLWWRegister()
	require.NoError(t, r.Write([]byte("b"), 2, "n2"))
	require.NoError(t, r.Write([]byte("a"), 1, "n1"))
	assert.Equal(t, []byte("b"), r.Value)
}

func TestLWWRegister_TieBreaksOnWriter(t *testing.T) {
	r := NewLWWRegister()
	require.NoError(t, r.Write([]byte("from-n1"), 5, "n1"))
	require.NoError(t, r.Write([]byte("from-n2"), 5, "n2"))
	assert.Equal(t, []byte("from-n2"), r.Value, "higher writer id wins an exact timestamp tie")
}

func TestLWWRegister_ClockReuseOnWriteConflict(t *testing.T) {
	r := NewLWWRegister()
	require.NoError(t, r.Write([]byte("a"), 5, "n1"))

	err := r.Write([]byte("b"), 5, "n1")
	require.Error(t, err)

	var reuse *ClockReuseError
	require.True(t, errors.As(err, &reuse))
	assert.ErrorIs(t, err, ErrClockReuse)
	assert.Equal(t, []byte("a"), r.Value, "rejected write must not mutate the register")
}

func TestLWWRegister_RepeatedWriteSameValueIsNotReuse(t *testing.T) {
	r := NewLWWRegister()
	require.NoError(t, r.Write([]byte("a"), 5, "n1"))
	require.NoError(t, r.Write([]byte("a"), 5, "n1"))
	assert.Equal(t, []byte("a"), r.Value)
}

func TestLWWRegister_ReadReportsAbsentBeforeFirstWrite(t *testing.T) {
	r := NewLWWRegister()
	_, ok := r.Read()
	assert.False(t, ok)

	require.NoError(t, r.Write([]byte("a"), 1, "n1"))
	v, ok := r.Read()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), v)
}

func TestLWWRegister_MergeIsCommutative(t *testing.T) {
	a := NewLWWRegister()
	require.NoError(t, a.Write([]byte("a"), 3, "n1"))
	b := NewLWWRegister()
	require.NoError(t, b.Write([]byte("b"), 7, "n2"))

	ab := a.Clone()
	require.NoError(t, ab.Merge(b))

	ba := b.Clone()
	require.NoError(t, ba.Merge(a))

	assert.True(t, ab.Equal(ba))
}

func TestLWWRegister_MergeIsIdempotent(t *testing.T) {
	a := NewLWWRegister()
	require.NoError(t, a.Write([]byte("a"), 3, "n1"))

	once := a.Clone()
	require.NoError(t, once.Merge(a))

	assert.True(t, a.Equal(once))
}

func TestLWWRegister_MergeDetectsClockReuse(t *testing.T) {
	a := NewLWWRegister()
	require.NoError(t, a.Write([]byte("a"), 5, "n1"))
	b := NewLWWRegister()
	require.NoError(t, b.Write([]byte("b"), 5, "n1"))

	err := a.Merge(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClockReuse)
}
