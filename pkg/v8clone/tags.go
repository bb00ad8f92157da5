// Package v8clone implements a bidirectional codec for V8's value
// serialization wire format — the binary structured-clone format Node.js
// emits from v8.serialize() (and Deno KV, IndexedDB-backed V8 storage,
// postMessage transfer, etc) and expects back from v8.deserialize().
//
// The package is organized in the layers spec.md describes: bitstream
// primitives live in internal/wire, the tag-level reader/writer live in
// stream.go, the reference-table-aware value decoder/encoder live in
// decoder.go/encoder.go, and the in-memory value model (Value and its
// identity-eligible payload types) lives alongside them.
package v8clone

// Wire tags. Extracted from V8's src/objects/value-serializer.cc; byte
// values are normative for the version floor this package targets (15).
const (
	tagVersion byte = 0xFF // followed by varint(version)

	tagNull      byte = '0' // 0x30
	tagUndefined byte = '_' // 0x5F
	tagTrue      byte = 'T' // 0x54
	tagFalse     byte = 'F' // 0x46
	tagInt32     byte = 'I' // 0x49 - zigzag varint
	tagUint32    byte = 'U' // 0x55 - varint
	tagDouble    byte = 'N' // 0x4E - 8-byte LE IEEE-754
	tagBigInt    byte = 'Z' // 0x5A - bitfield + digits
	tagDate      byte = 'D' // 0x44 - double, ms since epoch

	tagOneByteString byte = '"' // 0x22
	tagTwoByteString byte = 'c' // 0x63
	tagUtf8String    byte = 'S' // 0x53

	tagBeginJSObject    byte = 'o' // 0x6F
	tagEndJSObject      byte = '{' // 0x7B - trailer: varint prop-count
	tagBeginDenseArray  byte = 'A' // 0x41 - opener: varint length
	tagEndDenseArray    byte = '$' // 0x24 - trailer: varint prop-count, varint length
	tagBeginSparseArray byte = 'a' // 0x61 - opener: varint length
	tagEndSparseArray   byte = '@' // 0x40 - trailer: varint prop-count, varint length
	tagHole             byte = '-' // 0x2D

	tagObjectReference byte = '^' // 0x5E - varint id

	tagBeginMap byte = ';'  // 0x3B
	tagEndMap   byte = ':'  // 0x3A - trailer: varint count (2x entries)
	tagBeginSet byte = '\'' // 0x27
	tagEndSet   byte = ',' // 0x2C - trailer: varint count

	tagArrayBuffer          byte = 'B' // 0x42 - varint byte-length + bytes
	tagResizableArrayBuffer byte = '~' // 0x7E - varint byte-length + varint max + bytes
	tagArrayBufferTransfer  byte = 't' // 0x74 - varint transfer id
	tagSharedArrayBuffer    byte = 'u' // 0x75 - varint transfer id

	tagArrayBufferView byte = 'V' // 0x56 - subtag + varint offset + varint length + varint flags

	tagRegExp byte = 'R' // 0x52 - string + varint flags

	tagNumberObject byte = 'n' // 0x6E
	tagBigIntObject byte = 'z' // 0x7A
	tagTrueObject   byte = 'y' // 0x79
	tagFalseObject  byte = 'x' // 0x78
	tagStringObject byte = 's' // 0x73

	tagError byte = 'r' // 0x72

	tagHostObject byte = '\\' // 0x5C - handler-defined payload

	tagPadding byte = 0x00
)

// View sub-tags, written after tagArrayBufferView.
const (
	viewInt8         byte = 0
	viewUint8        byte = 1
	viewUint8Clamped byte = 2
	viewInt16        byte = 3
	viewUint16       byte = 4
	viewInt32        byte = 5
	viewUint32       byte = 6
	viewFloat32      byte = 7
	viewFloat64      byte = 8
	viewDataView     byte = 9
	viewFloat16      byte = 10
	viewBigInt64     byte = 11
	viewBigUint64    byte = 12
)

// Error sub-tags, following tagError.
const (
	errorTagMessage byte = 'm' // 0x6D
	errorTagStack   byte = 's' // 0x73
	errorTagCause   byte = 'c' // 0x63
	errorTagEnd     byte = '.' // 0x2E
)

// Error type discriminators, the byte immediately after tagError.
const (
	errorTypeErrorWithMessage byte = 'm' // 0x6D - generic Error; message follows directly
	errorTypeEvalError        byte = 'E'
	errorTypeRangeError       byte = 'R'
	errorTypeReferenceError   byte = 'F'
	errorTypeSyntaxError      byte = 'S'
	errorTypeTypeError        byte = 'T'
	errorTypeURIError         byte = 'U'
)

// RegExp flag bits, per spec.md §4.5.
const (
	regexpFlagGlobal        uint32 = 1 << 0
	regexpFlagIgnoreCase    uint32 = 1 << 1
	regexpFlagMultiline     uint32 = 1 << 2
	regexpFlagSticky        uint32 = 1 << 3
	regexpFlagUnicode       uint32 = 1 << 4
	regexpFlagDotAll        uint32 = 1 << 5
	regexpFlagUnicodeSets   uint32 = 1 << 8
)

// MinVersion and MaxVersion bound the format versions this package
// negotiates (spec.md §6.2's "compatibility floor"). Latest is the
// default declared_version for Encode.
const (
	MinVersion = 13
	MaxVersion = 15
	Latest     = MaxVersion
)

// Feature is a named, version-gated wire capability (spec.md §6.3).
type Feature string

const (
	// FeatureCircularErrorCause enables an Error.cause pointing back at
	// the error under construction.
	FeatureCircularErrorCause Feature = "CircularErrorCause"
	// FeatureRegExpUnicodeSets enables the 'v' (UnicodeSets) RegExp flag
	// bit. Requires version >= 15.
	FeatureRegExpUnicodeSets Feature = "RegExpUnicodeSets"
	// FeatureResizableArrayBuffers enables tagResizableArrayBuffer and
	// the view length-tracking/backed-by-resizable flags. Requires
	// version >= 15.
	FeatureResizableArrayBuffers Feature = "ResizableArrayBuffers"
	// FeatureFloat16Array enables the Float16Array view subtype.
	FeatureFloat16Array Feature = "Float16Array"
)

// defaultFeatures is the feature set a new Codec starts with: every
// feature enabled, whatever the declared version. A feature's version
// floor (featureMinVersion) is checked separately where it is used.
func defaultFeatures() map[Feature]bool {
	return map[Feature]bool{
		FeatureCircularErrorCause:    true,
		FeatureRegExpUnicodeSets:     true,
		FeatureResizableArrayBuffers: true,
		FeatureFloat16Array:          true,
	}
}

// featureMinVersion returns the minimum format version a feature needs,
// or 0 if it isn't version-gated (only flag-gated).
func featureMinVersion(f Feature) uint32 {
	switch f {
	case FeatureRegExpUnicodeSets, FeatureResizableArrayBuffers:
		return 15
	default:
		return 0
	}
}

// tagName returns a human-readable tag name, used in error messages and
// debug-level log entries.
func tagName(tag byte) string {
	switch tag {
	case tagVersion:
		return "Version"
	case tagNull:
		return "Null"
	case tagUndefined:
		return "Undefined"
	case tagTrue:
		return "True"
	case tagFalse:
		return "False"
	case tagInt32:
		return "Int32"
	case tagUint32:
		return "Uint32"
	case tagDouble:
		return "Double"
	case tagBigInt:
		return "BigInt"
	case tagDate:
		return "Date"
	case tagOneByteString:
		return "OneByteString"
	case tagTwoByteString:
		return "TwoByteString"
	case tagUtf8String:
		return "Utf8String"
	case tagBeginJSObject:
		return "BeginJSObject"
	case tagEndJSObject:
		return "EndJSObject"
	case tagBeginDenseArray:
		return "BeginDenseArray"
	case tagEndDenseArray:
		return "EndDenseArray"
	case tagBeginSparseArray:
		return "BeginSparseArray"
	case tagEndSparseArray:
		return "EndSparseArray"
	case tagHole:
		return "Hole"
	case tagObjectReference:
		return "ObjectReference"
	case tagBeginMap:
		return "BeginMap"
	case tagEndMap:
		return "EndMap"
	case tagBeginSet:
		return "BeginSet"
	case tagEndSet:
		return "EndSet"
	case tagArrayBuffer:
		return "ArrayBuffer"
	case tagResizableArrayBuffer:
		return "ResizableArrayBuffer"
	case tagArrayBufferTransfer:
		return "ArrayBufferTransfer"
	case tagSharedArrayBuffer:
		return "SharedArrayBuffer"
	case tagArrayBufferView:
		return "ArrayBufferView"
	case tagRegExp:
		return "RegExp"
	case tagNumberObject:
		return "NumberObject"
	case tagBigIntObject:
		return "BigIntObject"
	case tagTrueObject:
		return "TrueObject"
	case tagFalseObject:
		return "FalseObject"
	case tagStringObject:
		return "StringObject"
	case tagError:
		return "Error"
	case tagHostObject:
		return "HostObject"
	case tagPadding:
		return "Padding"
	default:
		return "Unknown"
	}
}

// legalTag reports whether tag is legal to read/write under the given
// version and feature set (spec.md §4.3/§4.4).
func legalTag(tag byte, version uint32, features map[Feature]bool) bool {
	switch tag {
	case tagResizableArrayBuffer:
		return version >= featureMinVersion(FeatureResizableArrayBuffers) && features[FeatureResizableArrayBuffers]
	default:
		return true
	}
}
