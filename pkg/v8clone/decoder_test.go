package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeInt32(t *testing.T) {
	// ff 0f 49 54 = version 15, Int32 tag, ZigZag(42)=84
	v, err := Decode([]byte{0xff, 0x0f, 0x49, 0x54})
	require.NoError(t, err)
	require.Equal(t, KindInt32, v.Type())
	require.Equal(t, int32(42), v.AsInt32())
}

func TestDecodeObject(t *testing.T) {
	data := []byte{
		0xff, 0x0f,
		0x6f,             // 'o' begin object
		0x22, 0x01, 'a',  // one-byte string "a"
		0x49, 0x02,       // int32(1)
		0x22, 0x01, 'b',  // one-byte string "b"
		0x49, 0x04,       // int32(2)
		0x7b, 0x02, // '{' end object, 2 props
	}
	v, err := Decode(data)
	require.NoError(t, err)
	obj := v.AsObject()
	require.Equal(t, []string{"a", "b"}, obj.Keys())
	av, _ := obj.Get("a")
	require.Equal(t, int32(1), av.AsInt32())
}

func TestDecodeDenseArray(t *testing.T) {
	data := []byte{
		0xff, 0x0f,
		0x41, 0x03, // 'A' dense array length 3
		0x49, 0x02, // 1
		0x49, 0x04, // 2
		0x49, 0x06, // 3
		0x24, 0x00, 0x03, // '$' end, 0 props, length 3
	}
	v, err := Decode(data)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Equal(t, uint32(3), arr.Length)
	require.True(t, arr.Dense())
}

func TestDecodeRejectsMissingHeader(t *testing.T) {
	_, err := Decode([]byte{0x30})
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedVarint(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x0f, 0x49})
	require.Error(t, err)
}

func TestDecodeTruncatedStringYieldsShortBufferError(t *testing.T) {
	// one-byte string tag declares length 5 but only 2 bytes follow.
	data := []byte{0xff, 0x0f, 0x22, 0x05, 'h', 'i'}
	_, err := Decode(data)
	require.Error(t, err)
	var short *ShortBufferError
	require.ErrorAs(t, err, &short)
	require.Equal(t, 5, short.Need)
	require.Equal(t, 2, short.Have)
}

func TestDecodeDenseArrayCountMismatch(t *testing.T) {
	data := []byte{
		0xff, 0x0f,
		0x41, 0x02, // length 2
		0x49, 0x02,
		0x49, 0x04,
		0x24, 0x00, 0x05, // declares length 5, actual 2
	}
	_, err := Decode(data)
	require.Error(t, err)
	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestDecodeObjectReferenceOutOfRange(t *testing.T) {
	data := []byte{0xff, 0x0f, 0x5e, 0x07} // '^' reference id 7, nothing registered yet
	_, err := Decode(data)
	require.Error(t, err)
}

func TestDecodeUnhandledTag(t *testing.T) {
	data := []byte{0xff, 0x0f, 0x99}
	_, err := Decode(data)
	require.Error(t, err)
}

func TestPeekVersionAndIsValid(t *testing.T) {
	version, ok := PeekVersion([]byte{0xff, 0x0f, 0x30})
	require.True(t, ok)
	require.Equal(t, uint32(15), version)
	require.True(t, IsValid([]byte{0xff, 0x0f, 0x30}))
	require.False(t, IsValid([]byte{0x01, 0x02}))
}
