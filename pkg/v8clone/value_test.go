package v8clone

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameValueZeroNumbers(t *testing.T) {
	require.True(t, sameValueZero(Double(math.NaN()), Double(math.NaN())), "NaN should equal NaN")
	require.True(t, sameValueZero(Double(0), Double(math.Copysign(0, -1))), "+0 should equal -0")
	require.True(t, sameValueZero(Int32(5), Double(5)), "int32 and double should compare across kind")
	require.False(t, sameValueZero(Double(1), Double(2)))
}

func TestSameValueZeroStrings(t *testing.T) {
	require.True(t, sameValueZero(String("abc"), String("abc")))
	require.False(t, sameValueZero(String("abc"), String("abd")))
}

func TestSameValueZeroIdentity(t *testing.T) {
	obj := NewObject()
	a := ObjectValue(obj)
	b := ObjectValue(obj)
	other := ObjectValue(NewObject())
	require.True(t, sameValueZero(a, b), "same underlying pointer should compare equal")
	require.False(t, sameValueZero(a, other), "distinct objects are never content-equal")
}

func TestValueAccessorsPanicOnKindMismatch(t *testing.T) {
	require.Panics(t, func() { Undefined().AsInt32() })
	require.Panics(t, func() { String("x").AsBool() })
	require.Panics(t, func() { Int32(1).AsBigInt() })
}

func TestBigIntValue(t *testing.T) {
	n := big.NewInt(-123456789)
	v := BigIntValue(n)
	require.Equal(t, KindBigInt, v.Type())
	require.Equal(t, 0, v.AsBigInt().Cmp(n))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "undefined", KindUndefined.String())
	require.Equal(t, "Array", KindArray.String())
}
