package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagWriterWritesHeaderOnce(t *testing.T) {
	w := newTagWriter(Latest, defaultFeatures(), nil)
	require.NoError(t, w.writeTag(tagNull))
	require.NoError(t, w.writeTag(tagTrue))
	data := w.Bytes()
	require.Equal(t, []byte{tagVersion, byte(Latest), tagNull, tagTrue}, data)
}

func TestTagReaderRejectsMissingHeader(t *testing.T) {
	_, err := newTagReader([]byte{tagNull}, nil, nil)
	require.Error(t, err)
}

func TestTagReaderRejectsUnsupportedVersion(t *testing.T) {
	_, err := newTagReader([]byte{tagVersion, 99}, nil, nil)
	require.Error(t, err)
}

func TestTagReaderSkipsPadding(t *testing.T) {
	r, err := newTagReader([]byte{tagVersion, byte(Latest), tagPadding, tagPadding, tagNull}, nil, nil)
	require.NoError(t, err)
	tag, err := r.readTag()
	require.NoError(t, err)
	require.Equal(t, tagNull, tag)
}

func TestTagReaderPeekDoesNotConsume(t *testing.T) {
	r, err := newTagReader([]byte{tagVersion, byte(Latest), tagTrue}, nil, nil)
	require.NoError(t, err)
	peeked, err := r.peekTag()
	require.NoError(t, err)
	require.Equal(t, tagTrue, peeked)
	read, err := r.readTag()
	require.NoError(t, err)
	require.Equal(t, peeked, read)
}

func TestTagWriterRejectsResizableBufferBelowVersionFloor(t *testing.T) {
	w := newTagWriter(14, defaultFeatures(), nil)
	err := w.writeTag(tagResizableArrayBuffer)
	require.Error(t, err)
}
