package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Int32(2))
	o.Set("a", Int32(1))
	o.Set("c", Int32(3))
	require.Equal(t, []string{"b", "a", "c"}, o.Keys())
}

func TestObjectSetOverwritesKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", Int32(1))
	o.Set("b", Int32(2))
	o.Set("a", Int32(99))
	require.Equal(t, []string{"a", "b"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	require.Equal(t, int32(99), v.AsInt32())
}

func TestCanonicalIndexKey(t *testing.T) {
	cases := []struct {
		key   string
		want  uint32
		valid bool
	}{
		{"0", 0, true},
		{"1", 1, true},
		{"42", 42, true},
		{"01", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := CanonicalIndexKey(c.key)
		require.Equal(t, c.valid, ok, "key %q", c.key)
		if c.valid {
			require.Equal(t, c.want, got, "key %q", c.key)
		}
	}
}
