package v8clone

// HostObject is the payload behind a KindHostObject Value: an opaque,
// application-defined payload whose wire encoding the V8 host embedder
// controls rather than the serializer itself (spec.md §4.2
// "HostObject"). Payload is the raw bytes a HostObjectHandler wrote or
// will parse.
type HostObject struct {
	Payload []byte
}

// HostObjectValue wraps h as a Value.
func HostObjectValue(h *HostObject) Value {
	return Value{kind: KindHostObject, ref: h}
}

// AsHostObject returns the wrapped *HostObject. Panics if v is not a
// HostObject.
func (v Value) AsHostObject() *HostObject {
	if v.kind != KindHostObject {
		panic("v8clone: AsHostObject on " + v.kind.String())
	}
	return v.ref.(*HostObject)
}

// HostObjectHandler lets a caller plug in application-specific encoding
// for values the base wire format has no tag for, mirroring the
// embedder delegate V8 itself calls out to for tagHostObject
// (spec.md §5 "Host object delegation").
//
// Encode is offered each KindHostObject Value, the one Kind the built-in
// dispatch has no encode step for; returning handled=false makes the
// encode fail with an UnhandledValueError. Decode is called once
// tagHostObject has been consumed from the stream and must consume
// exactly its own payload from r.
type HostObjectHandler interface {
	Encode(v Value, w *TagWriter) (handled bool, err error)
	Decode(r *TagReader) (Value, error)
}

// rawHostObjectHandler is the default HostObjectHandler: it round-trips
// the exact bytes of a HostObject payload without interpreting them.
type rawHostObjectHandler struct{}

func (rawHostObjectHandler) Encode(v Value, w *TagWriter) (bool, error) {
	if v.kind != KindHostObject {
		return false, nil
	}
	h := v.AsHostObject()
	if err := w.writeTag(tagHostObject); err != nil {
		return true, err
	}
	w.w.WriteVarint(uint64(len(h.Payload)))
	w.w.WriteBytes(h.Payload)
	return true, nil
}

func (rawHostObjectHandler) Decode(r *TagReader) (Value, error) {
	n, err := r.r.ReadVarint()
	if err != nil {
		return Value{}, err
	}
	payload, err := r.r.ReadBytes(int(n))
	if err != nil {
		return Value{}, err
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return HostObjectValue(&HostObject{Payload: buf}), nil
}
