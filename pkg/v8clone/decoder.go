package v8clone

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/clonewire/v8clone/internal/wire"
)

// decodeState thread a single decode's reference table and tag reader
// through the recursive-descent value decoder. Composite values are
// appended to refs BEFORE their children are decoded, so a child that
// back-references its own ancestor (a cyclic Map, an Error.cause
// pointing at itself, etc) resolves to the same in-progress pointer
// rather than failing or recursing forever (spec.md §4.5 "identity
// preservation").
type decodeState struct {
	r    *TagReader
	refs []Value
	c    *Codec
}

func (d *decodeState) addRef(v Value) Value {
	d.refs = append(d.refs, v)
	return v
}

// decode runs the full top-level decode of one value from a fresh
// TagReader, per Codec c's configuration.
func (c *Codec) decode(data []byte) (Value, error) {
	tr, err := newTagReader(data, c.features, c.logger)
	if err != nil {
		return Value{}, err
	}
	if tr.version > c.version {
		return Value{}, &HeaderInvalidError{Offset: 1, Reason: "stream version newer than the codec's declared version"}
	}
	d := &decodeState{r: tr, c: c}
	v, err := d.decodeValueAsView()
	if err != nil {
		return Value{}, errors.Wrap(translateShortBuffer(err, tr), "v8clone: decode")
	}
	return v, nil
}

// translateShortBuffer reports a ran-past-end-of-input wire read as the
// public ShortBufferError (spec.md §7), rather than leaking the
// internal wire.Error sentinel across the package boundary.
func translateShortBuffer(err error, r *TagReader) error {
	var we *wire.Error
	if !errors.As(err, &we) || we.Kind != "unexpected-eof" {
		return err
	}
	return &ShortBufferError{Offset: we.Offset, Need: we.Need, Have: r.r.Len() - we.Offset}
}

func (d *decodeState) decodeValue() (Value, error) {
	offset := d.r.r.Pos()
	tag, err := d.r.readTag()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case tagUndefined:
		return Undefined(), nil
	case tagNull:
		return Null(), nil
	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagHole:
		return Hole(), nil
	case tagInt32:
		n, err := d.r.r.ReadZigZag32()
		if err != nil {
			return Value{}, err
		}
		return Int32(n), nil
	case tagUint32:
		n, err := d.r.r.ReadVarint32()
		if err != nil {
			return Value{}, err
		}
		return Uint32(n), nil
	case tagDouble:
		f, err := d.r.r.ReadDouble()
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	case tagBigInt:
		n, err := d.decodeBigIntDigits()
		if err != nil {
			return Value{}, err
		}
		return BigIntValue(n), nil
	case tagOneByteString:
		return d.decodeString(FormOneByte)
	case tagTwoByteString:
		return d.decodeString(FormTwoByte)
	case tagUtf8String:
		return d.decodeString(FormUtf8)
	case tagDate:
		return d.decodeDate()
	case tagRegExp:
		return d.decodeRegExp()
	case tagBeginJSObject:
		return d.decodeObject()
	case tagBeginDenseArray:
		return d.decodeDenseArray()
	case tagBeginSparseArray:
		return d.decodeSparseArray()
	case tagBeginMap:
		return d.decodeMap()
	case tagBeginSet:
		return d.decodeSet()
	case tagArrayBuffer:
		return d.decodeArrayBuffer(false)
	case tagResizableArrayBuffer:
		return d.decodeArrayBuffer(true)
	case tagArrayBufferTransfer:
		return d.decodeArrayBufferTransfer()
	case tagSharedArrayBuffer:
		return d.decodeSharedArrayBuffer()
	case tagNumberObject:
		f, err := d.r.r.ReadDouble()
		if err != nil {
			return Value{}, err
		}
		return d.addRef(BoxedNumberValue(f)), nil
	case tagBigIntObject:
		n, err := d.decodeBigIntDigits()
		if err != nil {
			return Value{}, err
		}
		return d.addRef(BoxedBigIntValue(n.String())), nil
	case tagTrueObject:
		return d.addRef(BoxedBoolValue(true)), nil
	case tagFalseObject:
		return d.addRef(BoxedBoolValue(false)), nil
	case tagStringObject:
		inner, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		if inner.kind != KindString {
			return Value{}, &UnhandledValueError{Description: "String object content is not a string"}
		}
		return d.addRef(BoxedStringValue(inner.AsString())), nil
	case tagError:
		return d.decodeError()
	case tagHostObject:
		v, err := d.c.hostHandler.Decode(d.r)
		if err != nil {
			return Value{}, err
		}
		return d.addRef(v), nil
	case tagObjectReference:
		id, err := d.r.r.ReadVarint32()
		if err != nil {
			return Value{}, err
		}
		if int(id) >= len(d.refs) {
			return Value{}, &IllegalCyclicReferenceError{ReferenceID: id, Reason: "reference id not yet assigned"}
		}
		return d.refs[id], nil
	default:
		return Value{}, &UnhandledTagError{Tag: tag, Offset: offset, Version: d.r.version}
	}
}

// decodeValueAsView decodes the next value the way decodeValue would,
// except that when the value is an ArrayBuffer/SharedArrayBuffer and
// the following tag is tagArrayBufferView, the view is built on top of
// it and returned instead (spec.md's ArrayBufferView is always written
// immediately after the buffer it describes, never as a free-standing
// value; see DESIGN.md's "ArrayBufferView framing" decision).
func (d *decodeState) decodeValueAsView() (Value, error) {
	v, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	if v.kind != KindArrayBuffer && v.kind != KindSharedArrayBuffer {
		return v, nil
	}
	tag, err := d.r.peekTag()
	if err != nil || tag != tagArrayBufferView {
		return v, nil
	}
	return d.decodeArrayBufferViewOn(v)
}

func (d *decodeState) decodeString(form StringForm) (Value, error) {
	n, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	var s string
	switch form {
	case FormOneByte:
		s, err = d.r.r.ReadOneByteString(int(n))
	case FormTwoByte:
		s, err = d.r.r.ReadTwoByteString(int(n))
	default:
		var raw []byte
		raw, err = d.r.r.ReadBytes(int(n))
		if err == nil {
			s = string(raw)
		}
	}
	if err != nil {
		return Value{}, err
	}
	return d.addRef(StringWithForm(s, form)), nil
}

func (d *decodeState) decodeDate() (Value, error) {
	ms, err := d.r.r.ReadDouble()
	if err != nil {
		return Value{}, err
	}
	return d.addRef(Date(epochMillis(ms))), nil
}

func (d *decodeState) decodeRegExp() (Value, error) {
	src, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	if src.kind != KindString {
		return Value{}, &UnhandledValueError{Description: "RegExp source is not a string"}
	}
	flags, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	re, err := NewRegExp(src.AsString(), RegExpFlags(flags), d.r.version, d.r.features)
	if err != nil {
		return Value{}, err
	}
	return d.addRef(RegExpValue(re)), nil
}

func valueToPropertyKey(v Value) (string, error) {
	switch v.kind {
	case KindString:
		return v.AsString(), nil
	case KindInt32, KindUint32, KindDouble:
		return canonicalNumericKey(v.AsNumber()), nil
	default:
		return "", &UnhandledValueError{Description: "non-string, non-numeric property key"}
	}
}

func (d *decodeState) decodeObject() (Value, error) {
	obj := NewObject()
	val := d.addRef(ObjectValue(obj))
	count := 0
	for {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagEndJSObject {
			d.r.readTag()
			declared, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			if int(declared) != count {
				return Value{}, &CountMismatchError{Context: "object", Expected: int(declared), Actual: count}
			}
			return val, nil
		}
		key, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		keyStr, err := valueToPropertyKey(key)
		if err != nil {
			return Value{}, err
		}
		v, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		obj.Set(keyStr, v)
		count++
	}
}

func (d *decodeState) decodeDenseArray() (Value, error) {
	length, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	arr := NewArray(length)
	val := d.addRef(ArrayValue(arr))
	for i := uint32(0); i < length; i++ {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagHole {
			d.r.readTag()
			continue
		}
		elem, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		arr.Set(i, elem)
	}
	props := NewObject()
	propCount := 0
	for {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagEndDenseArray {
			d.r.readTag()
			declaredProps, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			declaredLen, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			if int(declaredProps) != propCount {
				return Value{}, &CountMismatchError{Context: "dense array properties", Expected: int(declaredProps), Actual: propCount}
			}
			if declaredLen != length {
				return Value{}, &CountMismatchError{Context: "dense array length", Expected: int(declaredLen), Actual: int(length)}
			}
			if propCount > 0 {
				arr.Properties = props
			}
			return val, nil
		}
		key, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		keyStr, err := valueToPropertyKey(key)
		if err != nil {
			return Value{}, err
		}
		v, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		props.Set(keyStr, v)
		propCount++
	}
}

func (d *decodeState) decodeSparseArray() (Value, error) {
	length, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	arr := NewArray(length)
	val := d.addRef(ArrayValue(arr))
	props := NewObject()
	count := 0
	for {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagEndSparseArray {
			d.r.readTag()
			declaredCount, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			declaredLen, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			if int(declaredCount) != count {
				return Value{}, &CountMismatchError{Context: "sparse array", Expected: int(declaredCount), Actual: count}
			}
			if declaredLen > arr.Length {
				arr.Length = declaredLen
			}
			if props.Len() > 0 {
				arr.Properties = props
			}
			return val, nil
		}
		key, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		v, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		if idx, ok := CanonicalIndexKey(mustKeyString(key)); ok {
			arr.Set(idx, v)
		} else {
			keyStr, err := valueToPropertyKey(key)
			if err != nil {
				return Value{}, err
			}
			props.Set(keyStr, v)
		}
		count++
	}
}

func mustKeyString(v Value) string {
	if v.kind == KindString {
		return v.AsString()
	}
	if v.IsNumber() {
		return canonicalNumericKey(v.AsNumber())
	}
	return ""
}

func (d *decodeState) decodeMap() (Value, error) {
	m := NewMap()
	val := d.addRef(MapValue(m))
	entries := 0
	for {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagEndMap {
			d.r.readTag()
			declared, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			if int(declared) != entries*2 {
				return Value{}, &CountMismatchError{Context: "map", Expected: int(declared), Actual: entries * 2}
			}
			return val, nil
		}
		key, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		v, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		m.Set(key, v)
		entries++
	}
}

func (d *decodeState) decodeSet() (Value, error) {
	s := NewSet()
	val := d.addRef(SetValue(s))
	count := 0
	for {
		tag, err := d.r.peekTag()
		if err != nil {
			return Value{}, err
		}
		if tag == tagEndSet {
			d.r.readTag()
			declared, err := d.r.r.ReadVarint32()
			if err != nil {
				return Value{}, err
			}
			if int(declared) != count {
				return Value{}, &CountMismatchError{Context: "set", Expected: int(declared), Actual: count}
			}
			return val, nil
		}
		v, err := d.decodeValueAsView()
		if err != nil {
			return Value{}, err
		}
		s.Add(v)
		count++
	}
}

func (d *decodeState) decodeArrayBuffer(resizable bool) (Value, error) {
	length, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	var maxLength uint32
	if resizable {
		maxLength, err = d.r.r.ReadVarint32()
		if err != nil {
			return Value{}, err
		}
	}
	raw, err := d.r.r.ReadBytes(int(length))
	if err != nil {
		return Value{}, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)
	buf := &ArrayBuffer{Data: data, Resizable: resizable, MaxByteLength: maxLength}
	return d.addRef(ArrayBufferValue(buf)), nil
}

func (d *decodeState) decodeArrayBufferTransfer() (Value, error) {
	id, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	return d.addRef(ArrayBufferTransferValue(id)), nil
}

func (d *decodeState) decodeSharedArrayBuffer() (Value, error) {
	id, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	return d.addRef(SharedArrayBufferValue(id)), nil
}

func (d *decodeState) decodeArrayBufferViewOn(backing Value) (Value, error) {
	if err := d.r.expectTag(tagArrayBufferView); err != nil {
		return Value{}, err
	}
	sub, err := d.r.r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	kind, ok := viewKindFromTag(sub)
	if !ok {
		return Value{}, &UnhandledTagError{Tag: sub, Offset: d.r.r.Pos() - 1, Version: d.r.version}
	}
	if kind == ViewFloat16 && !d.r.features[FeatureFloat16Array] {
		return Value{}, &FeatureNotEnabledError{Feature: FeatureFloat16Array, Version: d.r.version}
	}
	offset, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	byteLength, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	flags, err := d.r.r.ReadVarint32()
	if err != nil {
		return Value{}, err
	}
	if flags&0x3 != 0 && (!d.r.features[FeatureResizableArrayBuffers] || d.r.version < featureMinVersion(FeatureResizableArrayBuffers)) {
		return Value{}, &FeatureNotEnabledError{Feature: FeatureResizableArrayBuffers, Version: d.r.version}
	}
	view := &ArrayBufferView{
		Backing:           backing,
		ByteOffset:        offset,
		ByteLength:        byteLength,
		Kind:              kind,
		LengthTracking:    flags&0x1 != 0,
		BackedByResizable: flags&0x2 != 0,
	}
	if err := view.validate(); err != nil {
		return Value{}, err
	}
	return d.addRef(ArrayBufferViewValue(view)), nil
}

func (d *decodeState) decodeError() (Value, error) {
	e := &JSError{Name: ErrorGeneric}
	val := d.addRef(ErrorValue(e))
	sub, err := d.r.r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	if name, ok := errorNameFromTag(sub); ok && sub != errorTypeErrorWithMessage {
		e.Name = name
		sub, err = d.r.r.ReadByte()
		if err != nil {
			return Value{}, err
		}
	}
	for {
		switch sub {
		case errorTagMessage:
			v, err := d.decodeValue()
			if err != nil {
				return Value{}, err
			}
			if v.kind != KindString {
				return Value{}, &UnhandledValueError{Description: "Error message is not a string"}
			}
			e.Message, e.HasMessage = v.AsString(), true
		case errorTagStack:
			v, err := d.decodeValue()
			if err != nil {
				return Value{}, err
			}
			if v.kind != KindString {
				return Value{}, &UnhandledValueError{Description: "Error stack is not a string"}
			}
			e.Stack, e.HasStack = v.AsString(), true
		case errorTagCause:
			v, err := d.decodeValueAsView()
			if err != nil {
				return Value{}, err
			}
			if !d.r.features[FeatureCircularErrorCause] && v.identity() == e {
				return Value{}, &IllegalCyclicReferenceError{Reason: "circular error cause without FeatureCircularErrorCause"}
			}
			e.Cause, e.HasCause = v, true
		case errorTagEnd:
			return val, nil
		default:
			return Value{}, &UnhandledTagError{Tag: sub, Offset: d.r.r.Pos() - 1, Version: d.r.version}
		}
		sub, err = d.r.r.ReadByte()
		if err != nil {
			return Value{}, err
		}
	}
}

// decodeBigIntDigits reads a V8-style bigint bitfield (bit 0: sign, rest:
// byte length of the little-endian digit run) followed by that many
// bytes, and returns the signed *big.Int.
func (d *decodeState) decodeBigIntDigits() (*big.Int, error) {
	bitfield, err := d.r.r.ReadVarint32()
	if err != nil {
		return nil, err
	}
	negative := bitfield&1 != 0
	byteLen := int(bitfield >> 1)
	digits, err := d.r.r.ReadBytes(byteLen)
	if err != nil {
		return nil, err
	}
	be := make([]byte, byteLen)
	for i, b := range digits {
		be[byteLen-1-i] = b
	}
	n := new(big.Int).SetBytes(be)
	if negative {
		n.Neg(n)
	}
	return n, nil
}
