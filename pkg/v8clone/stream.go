package v8clone

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/clonewire/v8clone/internal/wire"
)

// TagWriter is the tag-level writer: it owns the stream header (written
// exactly once, lazily, on the first tag) and rejects any tag the
// active version/feature set does not allow (spec.md §4.3).
type TagWriter struct {
	w             *wire.Writer
	version       uint32
	features      map[Feature]bool
	headerWritten bool
	logger        log.Logger
}

func newTagWriter(version uint32, features map[Feature]bool, logger log.Logger) *TagWriter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &TagWriter{
		w:        wire.NewWriter(256),
		version:  version,
		features: features,
		logger:   logger,
	}
}

func (w *TagWriter) writeHeader() {
	if w.headerWritten {
		return
	}
	w.w.WriteByte(tagVersion)
	w.w.WriteVarint(uint64(w.version))
	w.headerWritten = true
	level.Debug(w.logger).Log("msg", "wrote header", "version", w.version)
}

// writeTag emits the stream header if not yet written, then checks tag
// legality and writes it.
func (w *TagWriter) writeTag(tag byte) error {
	w.writeHeader()
	if !legalTag(tag, w.version, w.features) {
		return &FeatureNotEnabledError{Version: w.version}
	}
	level.Debug(w.logger).Log("msg", "write tag", "tag", tagName(tag))
	return w.w.WriteByte(tag)
}

// Bytes returns the encoded stream so far, including the header.
func (w *TagWriter) Bytes() []byte {
	w.writeHeader()
	return w.w.Bytes()
}

// TagReader is the tag-level reader: it consumes and validates the
// stream header up front, then offers padding-skipping, legality-
// checked tag reads with one-token lookahead (spec.md §4.3, used by
// container decoding to distinguish "another entry" from "closer").
type TagReader struct {
	r        *wire.Reader
	version  uint32
	features map[Feature]bool
	logger   log.Logger
}

func newTagReader(data []byte, features map[Feature]bool, logger log.Logger) (*TagReader, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	r := wire.NewReader(data)
	tag, err := r.ReadByte()
	if err != nil {
		return nil, &HeaderInvalidError{Offset: 0, Reason: "empty stream"}
	}
	if tag != tagVersion {
		return nil, &HeaderInvalidError{Offset: 0, Reason: "missing version tag"}
	}
	version, err := r.ReadVarint32()
	if err != nil {
		return nil, &HeaderInvalidError{Offset: 1, Reason: "malformed version varint"}
	}
	if version < MinVersion || version > MaxVersion {
		return nil, &HeaderInvalidError{Offset: 1, Reason: "unsupported version"}
	}
	if features == nil {
		features = defaultFeatures()
	}
	level.Debug(logger).Log("msg", "read header", "version", version)
	return &TagReader{r: r, version: version, features: features, logger: logger}, nil
}

// readTag reads the next non-padding tag and checks its legality.
func (r *TagReader) readTag() (byte, error) {
	for {
		offset := r.r.Pos()
		tag, err := r.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if tag == tagPadding {
			continue
		}
		if !legalTag(tag, r.version, r.features) {
			return 0, &UnhandledTagError{Tag: tag, Offset: offset, Version: r.version}
		}
		level.Debug(r.logger).Log("msg", "read tag", "tag", tagName(tag))
		return tag, nil
	}
}

// peekTag reads the next tag without consuming it.
func (r *TagReader) peekTag() (byte, error) {
	mark := r.r.SaveMark()
	tag, err := r.readTag()
	r.r.Rewind(mark)
	return tag, err
}

// expectTag reads the next tag and confirms it equals want.
func (r *TagReader) expectTag(want byte) error {
	offset := r.r.Pos()
	tag, err := r.readTag()
	if err != nil {
		return err
	}
	if tag != want {
		return &UnhandledTagError{Tag: tag, Offset: offset, Version: r.version}
	}
	return nil
}

// Version returns the format version the stream declared.
func (r *TagReader) Version() uint32 { return r.version }
