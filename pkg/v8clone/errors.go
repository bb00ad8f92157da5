package v8clone

import "fmt"

// HeaderInvalidError reports a missing or malformed stream header
// (spec.md §7).
type HeaderInvalidError struct {
	Offset int
	Reason string
}

func (e *HeaderInvalidError) Error() string {
	return fmt.Sprintf("v8clone: invalid header at offset %d: %s", e.Offset, e.Reason)
}

// UnhandledTagError reports a tag byte that is structurally well-formed
// but not recognized, or not legal under the active version/feature set.
type UnhandledTagError struct {
	Tag     byte
	Offset  int
	Version uint32
}

func (e *UnhandledTagError) Error() string {
	return fmt.Sprintf("v8clone: unhandled tag %s (0x%02x) at offset %d for version %d", tagName(e.Tag), e.Tag, e.Offset, e.Version)
}

// ShortBufferError reports a read that ran past the end of the input.
type ShortBufferError struct {
	Offset int
	Need   int
	Have   int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("v8clone: short buffer at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// CountMismatchError reports a container trailer count that disagrees
// with what was actually read (spec.md §4.2 dense/sparse array and
// map/set trailers).
type CountMismatchError struct {
	Context  string
	Expected int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("v8clone: %s count mismatch: trailer says %d, read %d", e.Context, e.Expected, e.Actual)
}

// IllegalCyclicReferenceError reports a back-reference to an object
// whose construction has not reached the point where identity was
// established, or a cyclic structure in a position that disallows it
// (e.g. an Error.cause without FeatureCircularErrorCause).
type IllegalCyclicReferenceError struct {
	ReferenceID uint32
	Reason      string
}

func (e *IllegalCyclicReferenceError) Error() string {
	return fmt.Sprintf("v8clone: illegal cyclic reference to id %d: %s", e.ReferenceID, e.Reason)
}

// FeatureNotEnabledError reports use of a value that requires a feature
// flag or version floor the active Codec does not have enabled.
type FeatureNotEnabledError struct {
	Feature Feature
	Version uint32
}

func (e *FeatureNotEnabledError) Error() string {
	return fmt.Sprintf("v8clone: feature %s not enabled for version %d", e.Feature, e.Version)
}

// UnhandledValueError reports a Go value Encode cannot represent, a
// Value whose Kind has no registered encode step, or a decoded value of
// the wrong kind where the decoder needs a specific one (a property key,
// a RegExp source, an Error message or stack, a String object's content).
type UnhandledValueError struct {
	Description string
}

func (e *UnhandledValueError) Error() string {
	return fmt.Sprintf("v8clone: unhandled value: %s", e.Description)
}

// BufferViewOutOfBoundsError reports an ArrayBufferView whose
// offset/length fail validation against its backing buffer, including
// the InvalidFlagCombination case (backed-by-resizable flag set on a
// non-resizable backing).
type BufferViewOutOfBoundsError struct {
	Reason       string
	Offset       uint32
	Length       uint32
	BufferLength uint32
}

func (e *BufferViewOutOfBoundsError) Error() string {
	return fmt.Sprintf("v8clone: array buffer view out of bounds: %s (offset=%d length=%d bufferLength=%d)", e.Reason, e.Offset, e.Length, e.BufferLength)
}

// BigIntTooLargeError reports a BigInt whose digit count exceeds the
// wire format's bitfield-encodable range.
type BigIntTooLargeError struct {
	BitLength int
}

func (e *BigIntTooLargeError) Error() string {
	return fmt.Sprintf("v8clone: bigint too large to encode: %d bits", e.BitLength)
}

// StringTooLongError reports a string whose encoded byte length exceeds
// what a varint-prefixed length can carry for the active implementation
// limit.
type StringTooLongError struct {
	ByteLength int
}

func (e *StringTooLongError) Error() string {
	return fmt.Sprintf("v8clone: string too long to encode: %d bytes", e.ByteLength)
}
