package v8clone

// BoxedKind identifies which primitive a PrimitiveObject boxes.
type BoxedKind uint8

const (
	BoxedBool BoxedKind = iota
	BoxedNumber
	BoxedBigInt
	BoxedString
)

// PrimitiveObject is the identity-eligible payload behind a
// KindPrimitiveObject Value: a `new Boolean(...)`/`new Number(...)`/
// `new String(...)`/boxed BigInt wrapper object (spec.md §4.2 "Boxed
// primitives"). Unlike the bare primitive Values, two PrimitiveObjects
// are never SameValueZero-equal to each other by content — only by
// identity.
type PrimitiveObject struct {
	Kind BoxedKind
	Bool bool
	Num  float64
	Big  string // decimal text of the boxed BigInt
	Str  string
}

// BoxedBoolValue wraps a boxed Boolean as a Value.
func BoxedBoolValue(b bool) Value {
	return Value{kind: KindPrimitiveObject, ref: &PrimitiveObject{Kind: BoxedBool, Bool: b}}
}

// BoxedNumberValue wraps a boxed Number as a Value.
func BoxedNumberValue(n float64) Value {
	return Value{kind: KindPrimitiveObject, ref: &PrimitiveObject{Kind: BoxedNumber, Num: n}}
}

// BoxedBigIntValue wraps a boxed BigInt as a Value, decimal is the
// signed decimal text representation.
func BoxedBigIntValue(decimal string) Value {
	return Value{kind: KindPrimitiveObject, ref: &PrimitiveObject{Kind: BoxedBigInt, Big: decimal}}
}

// BoxedStringValue wraps a boxed String as a Value.
func BoxedStringValue(s string) Value {
	return Value{kind: KindPrimitiveObject, ref: &PrimitiveObject{Kind: BoxedString, Str: s}}
}

// AsPrimitiveObject returns the wrapped *PrimitiveObject. Panics if v is
// not a boxed primitive.
func (v Value) AsPrimitiveObject() *PrimitiveObject {
	if v.kind != KindPrimitiveObject {
		panic("v8clone: AsPrimitiveObject on " + v.kind.String())
	}
	return v.ref.(*PrimitiveObject)
}
