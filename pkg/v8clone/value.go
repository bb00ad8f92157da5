package v8clone

import (
	"fmt"
	"math/big"
)

// Kind identifies the JavaScript type a Value represents.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindInt32
	KindUint32
	KindDouble
	KindBigInt
	KindString
	KindDate
	KindRegExp
	KindObject
	KindArray
	KindMap
	KindSet
	KindArrayBuffer
	KindSharedArrayBuffer
	KindArrayBufferTransfer
	KindArrayBufferView
	KindError
	KindHostObject
	KindPrimitiveObject
	KindHole
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindDouble:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindDate:
		return "Date"
	case KindRegExp:
		return "RegExp"
	case KindObject:
		return "object"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindSet:
		return "Set"
	case KindArrayBuffer:
		return "ArrayBuffer"
	case KindSharedArrayBuffer:
		return "SharedArrayBuffer"
	case KindArrayBufferTransfer:
		return "ArrayBufferTransfer"
	case KindArrayBufferView:
		return "ArrayBufferView"
	case KindError:
		return "Error"
	case KindHostObject:
		return "HostObject"
	case KindPrimitiveObject:
		return "PrimitiveObject"
	case KindHole:
		return "hole"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value represents a single node of a deserialized (or to-be-serialized)
// JavaScript value graph.
//
// Primitive kinds (undefined, null, bool, int32, uint32, double, bigint,
// hole) are held inline and are never identity-eligible: two Values of
// the same primitive kind and content compare equal under SameValueZero
// but are never deduplicated via back-reference.
//
// Composite and "long-lived" kinds (string, date, object, array, map,
// set, the buffer family, regexp, error, host object, boxed primitive)
// carry a pointer in ref. That pointer IS the value's identity for the
// encoder's identity map and the decoder's reference table — see
// DESIGN.md's "identity model" entry.
type Value struct {
	kind Kind
	b    bool
	i32  int32
	u32  uint32
	f64  float64
	big  *big.Int
	ref  any
}

// Type returns the value's Kind.
func (v Value) Type() Kind { return v.kind }

// Undefined returns the JavaScript undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the JavaScript null value.
func Null() Value { return Value{kind: KindNull} }

// Hole returns a sparse-array hole marker: "absent", distinct from a
// present element whose value is Undefined.
func Hole() Value { return Value{kind: KindHole} }

// Bool returns a Value wrapping a JavaScript boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int32 returns a Value wrapping a JavaScript number that fits int32.
func Int32(n int32) Value { return Value{kind: KindInt32, i32: n} }

// Uint32 returns a Value wrapping a JavaScript number that fits uint32
// but not int32.
func Uint32(n uint32) Value { return Value{kind: KindUint32, u32: n} }

// Double returns a Value wrapping a JavaScript number requiring a
// float64 representation.
func Double(f float64) Value { return Value{kind: KindDouble, f64: f} }

// BigIntValue returns a Value wrapping a JavaScript BigInt.
func BigIntValue(n *big.Int) Value { return Value{kind: KindBigInt, big: n} }

// IsUndefined reports whether v is JavaScript undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is JavaScript null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool { return v.kind == KindNull || v.kind == KindUndefined }

// IsHole reports whether v is a sparse-array hole.
func (v Value) IsHole() bool { return v.kind == KindHole }

// IsNumber reports whether v is int32, uint32, or double.
func (v Value) IsNumber() bool {
	return v.kind == KindInt32 || v.kind == KindUint32 || v.kind == KindDouble
}

// AsBool returns the boolean payload. Panics if v is not a boolean.
func (v Value) AsBool() bool {
	if v.kind != KindBool {
		panic(fmt.Sprintf("v8clone: AsBool on %s", v.kind))
	}
	return v.b
}

// AsInt32 returns the int32 payload. Panics if v is not an int32.
func (v Value) AsInt32() int32 {
	if v.kind != KindInt32 {
		panic(fmt.Sprintf("v8clone: AsInt32 on %s", v.kind))
	}
	return v.i32
}

// AsUint32 returns the uint32 payload. Panics if v is not a uint32.
func (v Value) AsUint32() uint32 {
	if v.kind != KindUint32 {
		panic(fmt.Sprintf("v8clone: AsUint32 on %s", v.kind))
	}
	return v.u32
}

// AsDouble returns the float64 payload. Panics if v is not a double.
func (v Value) AsDouble() float64 {
	if v.kind != KindDouble {
		panic(fmt.Sprintf("v8clone: AsDouble on %s", v.kind))
	}
	return v.f64
}

// AsNumber returns the numeric payload as a float64, for int32, uint32,
// or double values.
func (v Value) AsNumber() float64 {
	switch v.kind {
	case KindInt32:
		return float64(v.i32)
	case KindUint32:
		return float64(v.u32)
	case KindDouble:
		return v.f64
	default:
		panic(fmt.Sprintf("v8clone: AsNumber on %s", v.kind))
	}
}

// AsBigInt returns the *big.Int payload. Panics if v is not a bigint.
func (v Value) AsBigInt() *big.Int {
	if v.kind != KindBigInt {
		panic(fmt.Sprintf("v8clone: AsBigInt on %s", v.kind))
	}
	return v.big
}

// identity returns the pointer used for reference-identity comparisons,
// or nil for non-identity-eligible kinds.
func (v Value) identity() any {
	switch v.kind {
	case KindString, KindDate, KindObject, KindArray, KindMap, KindSet,
		KindArrayBuffer, KindSharedArrayBuffer, KindArrayBufferTransfer,
		KindArrayBufferView, KindRegExp, KindError, KindHostObject,
		KindPrimitiveObject:
		return v.ref
	default:
		return nil
	}
}

// sameValueZero implements the SameValueZero equality predicate (GLOSSARY):
// NaN equals NaN, +0 equals -0, everything else is by-kind equality, and
// identity-eligible kinds compare by reference.
func sameValueZero(a, b Value) bool {
	if a.kind != b.kind {
		// int32/uint32/double are numerically comparable across Kind.
		if a.IsNumber() && b.IsNumber() {
			return numEqual(a.AsNumber(), b.AsNumber())
		}
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull, KindHole:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt32, KindUint32, KindDouble:
		return numEqual(a.AsNumber(), b.AsNumber())
	case KindBigInt:
		return a.big.Cmp(b.big) == 0
	case KindString:
		return a.ref.(*JSString).Value == b.ref.(*JSString).Value
	default:
		return a.identity() == b.identity()
	}
}

func numEqual(x, y float64) bool {
	if x != x && y != y {
		return true // NaN == NaN under SameValueZero
	}
	return x == y // +0 == -0 already holds under Go's ==
}
