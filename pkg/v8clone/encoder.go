package v8clone

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/clonewire/v8clone/internal/wire"
)

// encodeState threads a single encode's identity map and tag writer
// through the recursive-descent value encoder. Ids are assigned in
// exactly the order the decoder would assign them walking the same
// bytes back (spec.md §4.6 "identity preservation" mirrors §4.5): for
// self-referencing containers (Object/Array/Map/Set/Error) the id is
// claimed before any child is encoded, so a cyclic child sees itself
// already registered; for the three cases where the decoder registers a
// dependency before the dependent (an ArrayBufferView's backing buffer,
// written before the view tag; a RegExp's source string and a boxed
// String's inner string, written right after their own tag) the id is
// claimed only after that dependency is fully encoded.
type encodeState struct {
	w      *TagWriter
	ids    map[any]uint32
	nextID uint32
	c      *Codec
}

func (e *encodeState) assignID(ref any) uint32 {
	id := e.nextID
	e.nextID++
	if ref != nil {
		e.ids[ref] = id
	}
	return id
}

// encode runs the full top-level encode of v into a fresh TagWriter, per
// Codec c's configuration.
func (c *Codec) encode(v Value) ([]byte, error) {
	w := newTagWriter(c.version, c.features, c.logger)
	e := &encodeState{w: w, ids: make(map[any]uint32), c: c}
	if err := e.encodeValue(v); err != nil {
		return nil, errors.Wrap(err, "v8clone: encode")
	}
	return w.Bytes(), nil
}

func (e *encodeState) encodeValue(v Value) error {
	if ref := v.identity(); ref != nil {
		if id, ok := e.ids[ref]; ok {
			if err := e.w.writeTag(tagObjectReference); err != nil {
				return err
			}
			e.w.w.WriteVarint(uint64(id))
			return nil
		}
	}
	switch v.kind {
	case KindUndefined:
		return e.w.writeTag(tagUndefined)
	case KindNull:
		return e.w.writeTag(tagNull)
	case KindHole:
		return e.w.writeTag(tagHole)
	case KindBool:
		if v.AsBool() {
			return e.w.writeTag(tagTrue)
		}
		return e.w.writeTag(tagFalse)
	case KindInt32:
		if err := e.w.writeTag(tagInt32); err != nil {
			return err
		}
		e.w.w.WriteZigZag32(v.AsInt32())
		return nil
	case KindUint32:
		if err := e.w.writeTag(tagUint32); err != nil {
			return err
		}
		e.w.w.WriteVarint32(v.AsUint32())
		return nil
	case KindDouble:
		if err := e.w.writeTag(tagDouble); err != nil {
			return err
		}
		e.w.w.WriteDouble(v.AsDouble())
		return nil
	case KindBigInt:
		if err := e.w.writeTag(tagBigInt); err != nil {
			return err
		}
		return e.encodeBigIntDigits(v.AsBigInt())
	case KindString:
		e.assignID(v.identity())
		return e.encodeString(v.AsString())
	case KindDate:
		e.assignID(v.identity())
		if err := e.w.writeTag(tagDate); err != nil {
			return err
		}
		e.w.w.WriteDouble(millisSinceEpoch(v.AsDate()))
		return nil
	case KindRegExp:
		return e.encodeRegExp(v)
	case KindObject:
		e.assignID(v.identity())
		return e.encodeObject(v.AsObject())
	case KindArray:
		e.assignID(v.identity())
		return e.encodeArray(v.AsArray())
	case KindMap:
		e.assignID(v.identity())
		return e.encodeMap(v.AsMap())
	case KindSet:
		e.assignID(v.identity())
		return e.encodeSet(v.AsSet())
	case KindArrayBuffer:
		e.assignID(v.identity())
		return e.encodeArrayBuffer(v.AsArrayBuffer())
	case KindSharedArrayBuffer:
		e.assignID(v.identity())
		if err := e.w.writeTag(tagSharedArrayBuffer); err != nil {
			return err
		}
		e.w.w.WriteVarint(uint64(v.AsSharedArrayBuffer().TransferID))
		return nil
	case KindArrayBufferTransfer:
		e.assignID(v.identity())
		if err := e.w.writeTag(tagArrayBufferTransfer); err != nil {
			return err
		}
		e.w.w.WriteVarint(uint64(v.AsArrayBufferTransfer().TransferID))
		return nil
	case KindArrayBufferView:
		return e.encodeArrayBufferView(v)
	case KindError:
		e.assignID(v.identity())
		return e.encodeError(v.AsError())
	case KindPrimitiveObject:
		return e.encodePrimitiveObject(v)
	case KindHostObject:
		if e.c.hostHandler == nil {
			return &UnhandledValueError{Description: "HostObject with no handler configured"}
		}
		handled, err := e.c.hostHandler.Encode(v, e.w)
		if err != nil {
			return err
		}
		if !handled {
			return &UnhandledValueError{Description: "HostObjectHandler declined to encode value"}
		}
		e.assignID(v.identity())
		return nil
	default:
		return &UnhandledValueError{Description: "unknown Kind " + v.kind.String()}
	}
}

// maxStringByteLength bounds an encoded string's byte length to what
// the decoder's ReadVarint32-based length prefix (pkg/v8clone's
// decodeString) can read back; a string that encoded past this would
// round-trip as a varint overflow on decode instead of a clear error.
const maxStringByteLength = math.MaxUint32

func (e *encodeState) encodeString(s string) error {
	if wire.NeedsUTF16(s) {
		byteLength := wire.UTF16Length(s) * 2
		if byteLength > maxStringByteLength {
			return &StringTooLongError{ByteLength: byteLength}
		}
		if err := e.w.writeTag(tagTwoByteString); err != nil {
			return err
		}
		e.w.w.WriteVarint(uint64(byteLength))
		return e.w.w.WriteTwoByteString(s)
	}
	byteLength := wire.OneByteStringLength(s)
	if byteLength > maxStringByteLength {
		return &StringTooLongError{ByteLength: byteLength}
	}
	if err := e.w.writeTag(tagOneByteString); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(byteLength))
	e.w.w.WriteOneByteString(s)
	return nil
}

func (e *encodeState) encodeRegExp(v Value) error {
	re := v.AsRegExp()
	if re.Flags.Has(FlagUnicodeSets) {
		if !e.c.features[FeatureRegExpUnicodeSets] || e.c.version < featureMinVersion(FeatureRegExpUnicodeSets) {
			return &FeatureNotEnabledError{Feature: FeatureRegExpUnicodeSets, Version: e.c.version}
		}
	}
	if err := e.w.writeTag(tagRegExp); err != nil {
		return err
	}
	if err := e.encodeValue(String(re.Source)); err != nil {
		return err
	}
	e.assignID(v.identity())
	e.w.w.WriteVarint32(uint32(re.Flags))
	return nil
}

// encodePropertyKey writes k as an integer value under its canonical
// index tag when it is the canonical decimal spelling of a uint32
// (spec.md §4.2 "integer keys emit under their integer tag"), and as a
// string otherwise.
func (e *encodeState) encodePropertyKey(k string) error {
	if idx, ok := CanonicalIndexKey(k); ok {
		return e.encodeValue(Uint32(idx))
	}
	return e.encodeValue(String(k))
}

func (e *encodeState) encodeObject(o *Object) error {
	if err := e.w.writeTag(tagBeginJSObject); err != nil {
		return err
	}
	count := 0
	for _, k := range o.Keys() {
		val, _ := o.Get(k)
		if err := e.encodePropertyKey(k); err != nil {
			return err
		}
		if err := e.encodeValue(val); err != nil {
			return err
		}
		count++
	}
	if err := e.w.writeTag(tagEndJSObject); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(count))
	return nil
}

func (e *encodeState) encodeArray(a *Array) error {
	if a.Dense() {
		return e.encodeDenseArray(a)
	}
	return e.encodeSparseArray(a)
}

func (e *encodeState) encodeDenseArray(a *Array) error {
	if err := e.w.writeTag(tagBeginDenseArray); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(a.Length))
	for i := uint32(0); i < a.Length; i++ {
		v, ok := a.Get(i)
		if !ok {
			if err := e.w.writeTag(tagHole); err != nil {
				return err
			}
			continue
		}
		if err := e.encodeValue(v); err != nil {
			return err
		}
	}
	propCount := 0
	if a.Properties != nil {
		for _, k := range a.Properties.Keys() {
			val, _ := a.Properties.Get(k)
			if err := e.encodePropertyKey(k); err != nil {
				return err
			}
			if err := e.encodeValue(val); err != nil {
				return err
			}
			propCount++
		}
	}
	if err := e.w.writeTag(tagEndDenseArray); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(propCount))
	e.w.w.WriteVarint(uint64(a.Length))
	return nil
}

func (e *encodeState) encodeSparseArray(a *Array) error {
	if err := e.w.writeTag(tagBeginSparseArray); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(a.Length))
	count := 0
	for _, idx := range a.Indices() {
		v, _ := a.Get(idx)
		if err := e.encodeValue(Uint32(idx)); err != nil {
			return err
		}
		if err := e.encodeValue(v); err != nil {
			return err
		}
		count++
	}
	if a.Properties != nil {
		for _, k := range a.Properties.Keys() {
			val, _ := a.Properties.Get(k)
			if err := e.encodePropertyKey(k); err != nil {
				return err
			}
			if err := e.encodeValue(val); err != nil {
				return err
			}
			count++
		}
	}
	if err := e.w.writeTag(tagEndSparseArray); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(count))
	e.w.w.WriteVarint(uint64(a.Length))
	return nil
}

func (e *encodeState) encodeMap(m *JSMap) error {
	if err := e.w.writeTag(tagBeginMap); err != nil {
		return err
	}
	for _, entry := range m.Entries() {
		if err := e.encodeValue(entry.Key); err != nil {
			return err
		}
		if err := e.encodeValue(entry.Value); err != nil {
			return err
		}
	}
	if err := e.w.writeTag(tagEndMap); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(m.Len() * 2))
	return nil
}

func (e *encodeState) encodeSet(s *JSSet) error {
	if err := e.w.writeTag(tagBeginSet); err != nil {
		return err
	}
	for _, v := range s.Values() {
		if err := e.encodeValue(v); err != nil {
			return err
		}
	}
	if err := e.w.writeTag(tagEndSet); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(s.Len()))
	return nil
}

func (e *encodeState) encodeArrayBuffer(buf *ArrayBuffer) error {
	tag := tagArrayBuffer
	if buf.Resizable {
		tag = tagResizableArrayBuffer
	}
	if err := e.w.writeTag(tag); err != nil {
		return err
	}
	e.w.w.WriteVarint(uint64(len(buf.Data)))
	if buf.Resizable {
		e.w.w.WriteVarint(uint64(buf.MaxByteLength))
	}
	e.w.w.WriteBytes(buf.Data)
	return nil
}

func (e *encodeState) encodeArrayBufferView(v Value) error {
	view := v.AsArrayBufferView()
	if err := view.validate(); err != nil {
		return err
	}
	if view.Kind == ViewFloat16 && !e.c.features[FeatureFloat16Array] {
		return &FeatureNotEnabledError{Feature: FeatureFloat16Array, Version: e.c.version}
	}
	if (view.LengthTracking || view.BackedByResizable) && (!e.c.features[FeatureResizableArrayBuffers] || e.c.version < featureMinVersion(FeatureResizableArrayBuffers)) {
		return &FeatureNotEnabledError{Feature: FeatureResizableArrayBuffers, Version: e.c.version}
	}
	if err := e.encodeValue(view.Backing); err != nil {
		return err
	}
	e.assignID(v.identity())
	if err := e.w.writeTag(tagArrayBufferView); err != nil {
		return err
	}
	e.w.w.WriteByte(viewKindToTag(view.Kind))
	e.w.w.WriteVarint(uint64(view.ByteOffset))
	e.w.w.WriteVarint(uint64(view.ByteLength))
	var flags uint64
	if view.LengthTracking {
		flags |= 0x1
	}
	if view.BackedByResizable {
		flags |= 0x2
	}
	e.w.w.WriteVarint(flags)
	return nil
}

func (e *encodeState) encodeError(je *JSError) error {
	if err := e.w.writeTag(tagError); err != nil {
		return err
	}
	if je.Name != ErrorGeneric {
		e.w.w.WriteByte(errorNameToTag(je.Name))
	}
	if je.HasMessage {
		e.w.w.WriteByte(errorTagMessage)
		if err := e.encodeValue(String(je.Message)); err != nil {
			return err
		}
	}
	if je.HasStack {
		e.w.w.WriteByte(errorTagStack)
		if err := e.encodeValue(String(je.Stack)); err != nil {
			return err
		}
	}
	if je.HasCause {
		if !e.c.features[FeatureCircularErrorCause] && je.Cause.identity() == any(je) {
			return &IllegalCyclicReferenceError{Reason: "circular error cause without FeatureCircularErrorCause"}
		}
		e.w.w.WriteByte(errorTagCause)
		if err := e.encodeValue(je.Cause); err != nil {
			return err
		}
	}
	e.w.w.WriteByte(errorTagEnd)
	return nil
}

func (e *encodeState) encodePrimitiveObject(v Value) error {
	po := v.AsPrimitiveObject()
	switch po.Kind {
	case BoxedBool:
		e.assignID(v.identity())
		if po.Bool {
			return e.w.writeTag(tagTrueObject)
		}
		return e.w.writeTag(tagFalseObject)
	case BoxedNumber:
		e.assignID(v.identity())
		if err := e.w.writeTag(tagNumberObject); err != nil {
			return err
		}
		e.w.w.WriteDouble(po.Num)
		return nil
	case BoxedBigInt:
		e.assignID(v.identity())
		if err := e.w.writeTag(tagBigIntObject); err != nil {
			return err
		}
		n, ok := new(big.Int).SetString(po.Big, 10)
		if !ok {
			return &UnhandledValueError{Description: "malformed boxed bigint digits"}
		}
		return e.encodeBigIntDigits(n)
	case BoxedString:
		if err := e.w.writeTag(tagStringObject); err != nil {
			return err
		}
		if err := e.encodeValue(String(po.Str)); err != nil {
			return err
		}
		e.assignID(v.identity())
		return nil
	default:
		return &UnhandledValueError{Description: "unknown boxed primitive kind"}
	}
}

// encodeBigIntDigits writes n as a V8-style bigint bitfield (bit 0:
// sign, rest: byte length of the little-endian digit run) followed by
// that many bytes, the inverse of decodeState.decodeBigIntDigits.
func (e *encodeState) encodeBigIntDigits(n *big.Int) error {
	negative := n.Sign() < 0
	abs := new(big.Int).Abs(n)
	be := abs.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	bitfield := uint64(len(le)) << 1
	if negative {
		bitfield |= 1
	}
	if bitfield>>1 > 0x7FFFFFFF {
		return &BigIntTooLargeError{BitLength: abs.BitLen()}
	}
	e.w.w.WriteVarint(bitfield)
	e.w.w.WriteBytes(le)
	return nil
}
