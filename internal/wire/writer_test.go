package wire

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVarint(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}

	for _, tt := range tests {
		w := NewWriter(16)
		w.WriteVarint(tt.value)
		if !bytes.Equal(w.Bytes(), tt.expected) {
			t.Errorf("WriteVarint(%d) = %v, want %v", tt.value, w.Bytes(), tt.expected)
		}
	}
}

func TestZigZagEncode(t *testing.T) {
	tests := []struct {
		signed   int64
		unsigned uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{42, 84},
		{-42, 83},
	}

	for _, tt := range tests {
		got := ZigZagEncode(tt.signed)
		if got != tt.unsigned {
			t.Errorf("ZigZagEncode(%d) = %d, want %d", tt.signed, got, tt.unsigned)
		}
		decoded := ZigZagDecode(got)
		if decoded != tt.signed {
			t.Errorf("ZigZagDecode(%d) = %d, want %d", got, decoded, tt.signed)
		}
	}
}

func TestWriteDouble(t *testing.T) {
	w := NewWriter(8)
	w.WriteDouble(42.5)

	r := NewReader(w.Bytes())
	got, err := r.ReadDouble()
	require.NoError(t, err)
	require.Equal(t, 42.5, got)
}

func TestWriteReadVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		w := NewWriter(16)
		w.WriteVarint(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadVarint()
		require.NoErrorf(t, err, "value %d", v)
		require.Equalf(t, v, got, "value %d", v)
	}
}

func TestReadVarintOverflow(t *testing.T) {
	// 11 continuation bytes, one past maxVarintBytes.
	data := bytes.Repeat([]byte{0x80}, 11)
	data = append(data, 0x01)
	r := NewReader(data)
	_, err := r.ReadVarint()
	require.ErrorIs(t, err, error(ErrVarintOverflow))
}

func TestOneByteStringRoundTrip(t *testing.T) {
	w := NewWriter(16)
	w.WriteOneByteString("café")

	r := NewReader(w.Bytes())
	got, err := r.ReadOneByteString(w.Len())
	require.NoError(t, err)
	require.Equal(t, "café", got)
}

func TestTwoByteStringRoundTrip(t *testing.T) {
	s := "Hello, 世界! \U0001F30D"
	w := NewWriter(32)
	require.NoError(t, w.WriteTwoByteString(s))

	r := NewReader(w.Bytes())
	got, err := r.ReadTwoByteString(w.Len())
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestTwoByteStringOddLengthRejected(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00})
	_, err := r.ReadTwoByteString(3)
	require.ErrorIs(t, err, error(ErrInvalidUTF16))
}

func TestReaderMarkRewind(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	_, _ = r.ReadByte()
	mark := r.SaveMark()
	_, _ = r.ReadByte()
	_, _ = r.ReadByte()
	r.Rewind(mark)
	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(2), b)
}
