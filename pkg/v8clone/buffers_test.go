package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayBufferViewValidateWithinBounds(t *testing.T) {
	buf := NewArrayBuffer(make([]byte, 16))
	view := &ArrayBufferView{
		Backing:    ArrayBufferValue(buf),
		ByteOffset: 4,
		ByteLength: 8,
		Kind:       ViewUint8,
	}
	require.NoError(t, view.validate())
}

func TestArrayBufferViewOutOfBounds(t *testing.T) {
	buf := NewArrayBuffer(make([]byte, 8))
	view := &ArrayBufferView{
		Backing:    ArrayBufferValue(buf),
		ByteOffset: 4,
		ByteLength: 8,
		Kind:       ViewUint8,
	}
	err := view.validate()
	require.Error(t, err)
	var boundsErr *BufferViewOutOfBoundsError
	require.ErrorAs(t, err, &boundsErr)
}

func TestArrayBufferViewInvalidFlagCombination(t *testing.T) {
	buf := NewArrayBuffer(make([]byte, 8))
	view := &ArrayBufferView{
		Backing:           ArrayBufferValue(buf),
		ByteLength:        8,
		Kind:              ViewUint8,
		BackedByResizable: true,
	}
	err := view.validate()
	require.Error(t, err)
}

func TestArrayBufferViewLengthTracking(t *testing.T) {
	buf := NewArrayBuffer(make([]byte, 16))
	buf.Resizable = true
	buf.MaxByteLength = 64
	view := &ArrayBufferView{
		Backing:           ArrayBufferValue(buf),
		ByteOffset:        0,
		Kind:              ViewUint8,
		LengthTracking:    true,
		BackedByResizable: true,
	}
	require.NoError(t, view.validate())
}

func TestViewKindRoundTripsThroughTag(t *testing.T) {
	for k := ViewInt8; k <= ViewBigUint64; k++ {
		tag := viewKindToTag(k)
		got, ok := viewKindFromTag(tag)
		require.True(t, ok, "kind %v", k)
		require.Equal(t, k, got)
	}
}
