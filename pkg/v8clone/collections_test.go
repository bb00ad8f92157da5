package v8clone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrderOnOverwrite(t *testing.T) {
	m := NewMap()
	m.Set(String("a"), Int32(1))
	m.Set(String("b"), Int32(2))
	m.Set(String("a"), Int32(99))
	require.Equal(t, 2, m.Len())
	require.Equal(t, "a", m.Entries()[0].Key.AsString())
	require.Equal(t, int32(99), m.Entries()[0].Value.AsInt32())
}

func TestMapKeysUseSameValueZero(t *testing.T) {
	m := NewMap()
	m.Set(Double(math.NaN()), String("nan-value"))
	m.Set(Double(math.NaN()), String("overwritten"))
	require.Equal(t, 1, m.Len())
	require.Equal(t, "overwritten", m.Entries()[0].Value.AsString())

	m.Set(Double(0), String("zero"))
	m.Set(Double(math.Copysign(0, -1)), String("neg-zero-overwrite"))
	require.Equal(t, 2, m.Len())
}

func TestSetDedupesUnderSameValueZero(t *testing.T) {
	s := NewSet()
	s.Add(Int32(1))
	s.Add(Double(1))
	s.Add(Int32(2))
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has(Double(1)))
	require.True(t, s.Has(Int32(2)))
	require.False(t, s.Has(Int32(3)))
}

func TestSetPreservesInsertionOrder(t *testing.T) {
	s := NewSet()
	s.Add(String("z"))
	s.Add(String("a"))
	vals := s.Values()
	require.Equal(t, "z", vals[0].AsString())
	require.Equal(t, "a", vals[1].AsString())
}

func TestMapAndSetKeyIdentityForComposites(t *testing.T) {
	objA := ObjectValue(NewObject())
	objB := ObjectValue(NewObject())
	s := NewSet()
	s.Add(objA)
	s.Add(objB)
	s.Add(objA)
	require.Equal(t, 2, s.Len(), "distinct object pointers are distinct set members even if both empty")
}
