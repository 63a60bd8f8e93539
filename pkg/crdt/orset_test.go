package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAWSet_AddAndContains(t *testing.T) {
	s := NewAWSet[string]()
	s.Add("x", Dot{Node: "n1", Clock: 1})
	assert.True(t, s.Contains("x"))
	assert.False(t, s.Contains("y"))
}

func TestAWSet_RemoveThenGone(t *testing.T) {
	s := NewAWSet[string]()
	s.Add("x", Dot{Node: "n1", Clock: 1})
	s.Remove("x")
	assert.False(t, s.Contains("x"))
}

func TestAWSet_ReAddAfterRemoveSurvives(t *testing.T) {
	s := NewAWSet[string]()
	s.Add("x", Dot{Node: "n1", Clock: 1})
	s.Remove("x")
	s.Add("x", Dot{Node: "n1", Clock: 2})
	assert.True(t, s.Contains("x"))
}

func TestAWSet_ConcurrentAddBeatsRemove(t *testing.T) {
	// n1 adds x then removes it; n2 concurrently re-adds x with a dot
	// n1 never observed. After merging, the add wins.
	n1 := NewAWSet[string]()
	n1.Add("x", Dot{Node: "n1", Clock: 1})
	n1.Remove("x")

	n2 := NewAWSet[string]()
	n2.Add("x", Dot{Node: "n1", Clock: 1})
	n2.Add("x", Dot{Node: "n2", Clock: 1})

	n1.Merge(n2)
	assert.True(t, n1.Contains("x"), "add-wins: the n2 dot was never tombstoned")
}

func TestAWSet_MergeIsCommutative(t *testing.T) {
	a := NewAWSet[string]()
	a.Add("x", Dot{Node: "n1", Clock: 1})

	b := NewAWSet[string]()
	b.Add("y", Dot{Node: "n2", Clock: 1})
	b.Remove("y")

	ab := a.Clone()
	ab.Merge(b)
	ba := b.Clone()
	ba.Merge(a)

	assert.True(t, ab.Equal(ba))
}

func TestAWSet_MergeIsIdempotent(t *testing.T) {
	a := NewAWSet[string]()
	a.Add("x", Dot{Node: "n1", Clock: 1})
	a.Remove("x")
	a.Add("x", Dot{Node: "n1", Clock: 2})

	once := a.Clone()
	once.Merge(a)

	assert.True(t, a.Equal(once))
}

func TestAWSet_ElementsAreDeterministicallyOrdered(t *testing.T) {
	s := NewAWSet[string]()
	s.Add("zebra", Dot{Node: "n1", Clock: 1})
	s.Add("apple", Dot{Node: "n1", Clock: 2})
	s.Add("mango", Dot{Node: "n1", Clock: 3})

	want := []string{"apple", "mango", "zebra"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, s.Elements(), "Elements must return the same lexicographic order on every call")
	}
}

func TestAWSet_MergeIsAssociative(t *testing.T) {
	a := NewAWSet[string]()
	a.Add("x", Dot{Node: "n1", Clock: 1})
	b := NewAWSet[string]()
	b.Remove("x") // no-op, x unknown locally to b
	c := NewAWSet[string]()
	c.Add("y", Dot{Node: "n2", Clock: 1})

	left := a.Clone()
	left.Merge(b)
	left.Merge(c)

	bc := b.Clone()
	bc.Merge(c)
	right := a.Clone()
	right.Merge(bc)

	assert.True(t, left.Equal(right))
}
