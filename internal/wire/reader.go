// Package wire implements low-level binary primitives for V8's value
// serialization format: varints, zig-zag integers, IEEE-754 doubles, and
// length-prefixed string/byte bodies.
//
// This package handles only the mechanical byte manipulation. Tag
// dispatch, reference tables, and the value model live in pkg/v8clone.
package wire

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Common errors returned by Reader methods.
var (
	ErrUnexpectedEOF  = &Error{Kind: "unexpected-eof"}
	ErrVarintOverflow = &Error{Kind: "varint-overflow"}
	ErrInvalidUTF16   = &Error{Kind: "invalid-utf16"}
	ErrNegativeLength = &Error{Kind: "negative-length"}
)

// Error carries the offset a read/write failed at, for the positional
// error contract in spec.md §4.1 ("all reads fail with a positional
// error carrying offset and expected-kind"). Need is the byte count
// the failing read wanted; it is only meaningful for ErrUnexpectedEOF
// and is 0 for the other sentinels.
type Error struct {
	Kind   string
	Offset int
	Need   int
}

func (e *Error) Error() string {
	return "wire: " + e.Kind
}

// Is lets errors.Is match instances created by at() against the
// package-level sentinel they were derived from, by Kind rather than
// pointer identity (each read site stamps its own Offset).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func (e *Error) at(offset int) *Error {
	return &Error{Kind: e.Kind, Offset: offset}
}

// atNeed is at, plus the byte count the read wanted but didn't get.
func (e *Error) atNeed(offset, need int) *Error {
	return &Error{Kind: e.Kind, Offset: offset, Need: need}
}

// maxVarintBytes bounds a varint at 10 bytes, matching spec.md §7's
// MalformedVarint contract. ReadVarint also rejects a tenth byte that
// would carry more than the 64th payload bit.
const maxVarintBytes = 10

// Reader reads V8 serialized data from a byte buffer.
// It tracks position for sequential reads and supports save/rewind
// lookahead, used by the tag stream reader to decide whether the next
// token is a closer or another property.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader from the given byte slice.
// The Reader does not copy the data; it reads directly from the slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, pos: 0}
}

// Pos returns the current read position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the underlying data.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of bytes left to read.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// EOF returns true if all bytes have been consumed.
func (r *Reader) EOF() bool { return r.pos >= len(r.data) }

// SaveMark returns the current position so the caller can Rewind to it.
func (r *Reader) SaveMark() int { return r.pos }

// Rewind resets the position to a mark previously returned by SaveMark.
func (r *Reader) Rewind(mark int) { r.pos = mark }

// Peek returns the next byte without advancing the position.
func (r *Reader) Peek() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF.atNeed(r.pos, 1)
	}
	return r.data[r.pos], nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF.atNeed(r.pos, 1)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes and advances the position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength.at(r.pos)
	}
	if r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEOF.atNeed(r.pos, n)
	}
	result := r.data[r.pos : r.pos+n]
	r.pos += n
	return result, nil
}

// ReadVarint reads a base-128 unsigned varint: 7 payload bits per byte,
// high bit set means "more bytes follow".
func (r *Reader) ReadVarint() (uint64, error) {
	start := r.pos
	var result uint64
	var shift uint

	for i := 0; ; i++ {
		if i >= maxVarintBytes {
			return 0, ErrVarintOverflow.at(start)
		}
		if r.pos >= len(r.data) {
			return 0, ErrUnexpectedEOF.atNeed(start, 1)
		}

		b := r.data[r.pos]
		r.pos++

		if shift >= 64 || (shift == 63 && b > 1) {
			return 0, ErrVarintOverflow.at(start)
		}

		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadVarint32 reads a varint and returns it as uint32.
func (r *Reader) ReadVarint32() (uint32, error) {
	start := r.pos
	v, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, ErrVarintOverflow.at(start)
	}
	return uint32(v), nil
}

// ZigZagDecode decodes a ZigZag-encoded unsigned integer to signed.
//
//	0 → 0, 1 → -1, 2 → 1, 3 → -2, 4 → 2, ...
func ZigZagDecode(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// ZigZagDecode32 decodes a ZigZag-encoded uint32 to int32.
func ZigZagDecode32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

// ReadZigZag reads a varint and ZigZag-decodes it to a signed int64.
func (r *Reader) ReadZigZag() (int64, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode(v), nil
}

// ReadZigZag32 reads a varint and ZigZag-decodes it to a signed int32.
func (r *Reader) ReadZigZag32() (int32, error) {
	v, err := r.ReadVarint32()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode32(v), nil
}

// ReadDouble reads an IEEE 754 double in little-endian byte order.
func (r *Reader) ReadDouble() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, ErrUnexpectedEOF.atNeed(r.pos, 8)
	}
	bits := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadOneByteString reads a Latin-1 (one-byte) encoded string of the
// given byte length, returned as a valid UTF-8 Go string (Latin-1 code
// points 0x00-0xFF map directly onto the first 256 Unicode code points).
func (r *Reader) ReadOneByteString(length int) (string, error) {
	if length < 0 {
		return "", ErrNegativeLength.at(r.pos)
	}
	if length == 0 {
		return "", nil
	}
	raw, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	runes := make([]rune, length)
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

var utf16LEDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// ReadTwoByteString reads a UTF-16LE encoded string whose wire length is
// byteLength bytes (must be even per spec.md §4.1).
func (r *Reader) ReadTwoByteString(byteLength int) (string, error) {
	if byteLength < 0 {
		return "", ErrNegativeLength.at(r.pos)
	}
	if byteLength%2 != 0 {
		return "", ErrInvalidUTF16.at(r.pos)
	}
	if byteLength == 0 {
		return "", nil
	}
	raw, err := r.ReadBytes(byteLength)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(utf16LEDecoder, raw)
	if err != nil {
		return "", ErrInvalidUTF16.at(r.pos - byteLength)
	}
	return string(decoded), nil
}

// Skip advances the position by n bytes without reading.
func (r *Reader) Skip(n int) error {
	if r.pos+n > len(r.data) {
		return ErrUnexpectedEOF.atNeed(r.pos, n)
	}
	r.pos += n
	return nil
}

// Reset resets the reader to the beginning of the data.
func (r *Reader) Reset() { r.pos = 0 }

// Data returns the underlying byte slice.
func (r *Reader) Data() []byte { return r.data }
