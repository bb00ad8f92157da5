package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArraySparseHoles(t *testing.T) {
	a := NewArray(5)
	a.Set(1, Int32(1))
	a.Set(3, Int32(3))
	require.False(t, a.Dense())
	require.Equal(t, 2, a.Count())
	_, ok := a.Get(0)
	require.False(t, ok, "index 0 should be a hole")
	v, ok := a.Get(1)
	require.True(t, ok)
	require.Equal(t, int32(1), v.AsInt32())
}

func TestArrayDenseWhenFullyPopulated(t *testing.T) {
	a := NewArray(3)
	a.Set(0, Int32(0))
	a.Set(1, Int32(1))
	a.Set(2, Int32(2))
	require.True(t, a.Dense())
}

func TestArrayHoleVsPresentUndefined(t *testing.T) {
	a := NewArray(2)
	a.Set(0, Undefined())
	v, ok := a.Get(0)
	require.True(t, ok, "explicit undefined is present, not a hole")
	require.True(t, v.IsUndefined())
	_, ok = a.Get(1)
	require.False(t, ok)
}

func TestArraySetGrowsLength(t *testing.T) {
	a := NewArray(0)
	a.Set(4, Int32(9))
	require.Equal(t, uint32(5), a.Length)
}

func TestArrayIndicesSorted(t *testing.T) {
	a := NewArray(10)
	a.Set(7, Int32(7))
	a.Set(2, Int32(2))
	a.Set(5, Int32(5))
	require.Equal(t, []uint32{2, 5, 7}, a.Indices())
}
