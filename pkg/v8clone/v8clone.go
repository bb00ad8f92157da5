package v8clone

import (
	"fmt"
	"math/big"
	"time"

	"github.com/clonewire/v8clone/internal/wire"
)

// Encode serializes v using a default Codec (Latest version, every
// feature enabled).
func Encode(v Value) ([]byte, error) {
	return NewCodec().Encode(v)
}

// Decode parses data using a default Codec.
func Decode(data []byte) (Value, error) {
	return NewCodec().Decode(data)
}

// MustEncode is like Encode but panics on error, for tests and example
// code where a codec failure is a programmer error.
func MustEncode(v Value) []byte {
	data, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return data
}

// MustDecode is like Decode but panics on error.
func MustDecode(data []byte) Value {
	v, err := Decode(data)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether data begins with a structurally valid V8
// serialization header (spec.md §7's IsValid operation): a version tag
// followed by a version varint within [MinVersion, MaxVersion]. It does
// not validate anything past the header.
func IsValid(data []byte) bool {
	_, ok := PeekVersion(data)
	return ok
}

// PeekVersion reads just the header of data and returns the declared
// format version, without decoding the rest of the stream.
func PeekVersion(data []byte) (uint32, bool) {
	r := wire.NewReader(data)
	tag, err := r.ReadByte()
	if err != nil || tag != tagVersion {
		return 0, false
	}
	version, err := r.ReadVarint32()
	if err != nil || version < MinVersion || version > MaxVersion {
		return 0, false
	}
	return version, true
}

// FromGo converts a native Go value into a Value graph suitable for
// Encode. Supported inputs: nil, bool, int, int32, int64, uint32,
// float32/float64, string, []byte (as a Uint8Array
// ArrayBufferView over a fresh ArrayBuffer), time.Time (as a Date),
// *big.Int (as a BigInt), []any (as a dense Array), and map[string]any
// (as an Object, in Go's nondeterministic map iteration order — callers
// that need stable key order should build an *Object directly). A
// Value argument passes through unchanged.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return fromGoInt(int64(t)), nil
	case int32:
		return Int32(t), nil
	case int64:
		return fromGoInt(t), nil
	case uint32:
		return Uint32(t), nil
	case float32:
		return Double(float64(t)), nil
	case float64:
		return Double(t), nil
	case string:
		return String(t), nil
	case *big.Int:
		return BigIntValue(t), nil
	case time.Time:
		return Date(t), nil
	case []byte:
		buf := NewArrayBuffer(t)
		view := &ArrayBufferView{Backing: ArrayBufferValue(buf), ByteLength: uint32(len(t)), Kind: ViewUint8}
		return ArrayBufferViewValue(view), nil
	case []any:
		arr := NewArray(uint32(len(t)))
		for i, elem := range t {
			v, err := FromGo(elem)
			if err != nil {
				return Value{}, err
			}
			arr.Set(uint32(i), v)
		}
		return ArrayValue(arr), nil
	case map[string]any:
		obj := NewObject()
		for k, elem := range t {
			v, err := FromGo(elem)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, v)
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, &UnhandledValueError{Description: fmt.Sprintf("FromGo: unsupported type %T", x)}
	}
}

func fromGoInt(n int64) Value {
	if n >= -(1<<31) && n < (1<<31) {
		return Int32(int32(n))
	}
	return Double(float64(n))
}

// ToGo converts a Value graph back into native Go values: Object
// becomes map[string]any, Array becomes []any (holes become nil), Map
// becomes map[any]any keyed by the ToGo-converted key (collisions from
// keys that convert to the same Go value overwrite, matching Go map
// semantics), Set becomes []any, ArrayBuffer and ArrayBufferView become a
// copy of their bytes, RegExp becomes a "source/flags" string, Error
// becomes its *JSError, HostObject becomes its payload bytes, a boxed
// primitive becomes the primitive it boxes, and the remaining primitives
// map onto the Go type FromGo would have produced them from.
// SharedArrayBuffer and ArrayBufferTransfer values return an error, as
// do cyclic graphs, which are not representable as plain Go values.
func ToGo(v Value) (any, error) {
	return toGo(v, make(map[any]bool))
}

func toGo(v Value, visiting map[any]bool) (any, error) {
	if ref := v.identity(); ref != nil {
		if visiting[ref] {
			return nil, &UnhandledValueError{Description: "ToGo: cyclic value graph cannot convert to a plain Go value"}
		}
		visiting[ref] = true
		defer delete(visiting, ref)
	}
	switch v.kind {
	case KindUndefined, KindNull, KindHole:
		return nil, nil
	case KindBool:
		return v.AsBool(), nil
	case KindInt32:
		return v.AsInt32(), nil
	case KindUint32:
		return v.AsUint32(), nil
	case KindDouble:
		return v.AsDouble(), nil
	case KindBigInt:
		return v.AsBigInt(), nil
	case KindString:
		return v.AsString(), nil
	case KindDate:
		return v.AsDate(), nil
	case KindObject:
		o := v.AsObject()
		out := make(map[string]any, o.Len())
		for _, k := range o.Keys() {
			val, _ := o.Get(k)
			converted, err := toGo(val, visiting)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case KindArray:
		a := v.AsArray()
		out := make([]any, a.Length)
		for i := uint32(0); i < a.Length; i++ {
			elem, ok := a.Get(i)
			if !ok {
				continue
			}
			converted, err := toGo(elem, visiting)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case KindMap:
		m := v.AsMap()
		out := make(map[any]any, m.Len())
		for _, entry := range m.Entries() {
			key, err := toGo(entry.Key, visiting)
			if err != nil {
				return nil, err
			}
			val, err := toGo(entry.Value, visiting)
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case KindSet:
		s := v.AsSet()
		out := make([]any, 0, s.Len())
		for _, elem := range s.Values() {
			converted, err := toGo(elem, visiting)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case KindArrayBuffer:
		return append([]byte(nil), v.AsArrayBuffer().Data...), nil
	case KindArrayBufferView:
		return toGoView(v.AsArrayBufferView())
	case KindRegExp:
		re := v.AsRegExp()
		return re.Source + "/" + re.Flags.String(), nil
	case KindError:
		return v.AsError(), nil
	case KindHostObject:
		return v.AsHostObject().Payload, nil
	case KindPrimitiveObject:
		return toGoBoxed(v.AsPrimitiveObject())
	default:
		return nil, &UnhandledValueError{Description: "ToGo: unhandled Kind " + v.kind.String()}
	}
}

func toGoView(view *ArrayBufferView) (any, error) {
	buf, ok := backingArrayBuffer(view.Backing)
	if !ok {
		return nil, &UnhandledValueError{Description: "ToGo: ArrayBufferView backed by SharedArrayBuffer cannot convert to plain bytes"}
	}
	end := view.ByteOffset + view.ByteLength
	if end > uint32(len(buf.Data)) {
		return nil, &BufferViewOutOfBoundsError{Offset: view.ByteOffset, Length: view.ByteLength, BufferLength: uint32(len(buf.Data))}
	}
	return append([]byte(nil), buf.Data[view.ByteOffset:end]...), nil
}

func toGoBoxed(po *PrimitiveObject) (any, error) {
	switch po.Kind {
	case BoxedBool:
		return po.Bool, nil
	case BoxedNumber:
		return po.Num, nil
	case BoxedBigInt:
		n, ok := new(big.Int).SetString(po.Big, 10)
		if !ok {
			return nil, &UnhandledValueError{Description: "ToGo: malformed boxed bigint"}
		}
		return n, nil
	case BoxedString:
		return po.Str, nil
	default:
		return nil, &UnhandledValueError{Description: "ToGo: unknown boxed primitive kind"}
	}
}
