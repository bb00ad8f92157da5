package v8clone

// ArrayBuffer is the payload behind a KindArrayBuffer Value.
// Resizable marks a resizable ArrayBuffer (version 15 and
// FeatureResizableArrayBuffers); its MaxByteLength is written after the
// byte length. MaxByteLength is ignored when Resizable is false.
type ArrayBuffer struct {
	Data          []byte
	Resizable     bool
	MaxByteLength uint32
}

// NewArrayBuffer returns an ArrayBuffer wrapping data (not copied).
func NewArrayBuffer(data []byte) *ArrayBuffer {
	return &ArrayBuffer{Data: data}
}

// ArrayBufferValue wraps buf as a Value.
func ArrayBufferValue(buf *ArrayBuffer) Value {
	return Value{kind: KindArrayBuffer, ref: buf}
}

// AsArrayBuffer returns the wrapped *ArrayBuffer.
func (v Value) AsArrayBuffer() *ArrayBuffer {
	if v.kind != KindArrayBuffer {
		panic("v8clone: AsArrayBuffer on " + v.kind.String())
	}
	return v.ref.(*ArrayBuffer)
}

// SharedArrayBuffer is the payload behind a KindSharedArrayBuffer Value:
// only a transfer id travels on the wire, the memory itself is exchanged
// out-of-band via a BufferRegistry (spec.md §5).
type SharedArrayBuffer struct {
	TransferID uint32
}

// SharedArrayBufferValue wraps a transfer id as a Value.
func SharedArrayBufferValue(transferID uint32) Value {
	return Value{kind: KindSharedArrayBuffer, ref: &SharedArrayBuffer{TransferID: transferID}}
}

// AsSharedArrayBuffer returns the wrapped *SharedArrayBuffer.
func (v Value) AsSharedArrayBuffer() *SharedArrayBuffer {
	if v.kind != KindSharedArrayBuffer {
		panic("v8clone: AsSharedArrayBuffer on " + v.kind.String())
	}
	return v.ref.(*SharedArrayBuffer)
}

// ArrayBufferTransfer is the payload behind a KindArrayBufferTransfer
// Value: an ArrayBuffer detached and handed off via transfer id.
type ArrayBufferTransfer struct {
	TransferID uint32
}

// ArrayBufferTransferValue wraps a transfer id as a Value.
func ArrayBufferTransferValue(transferID uint32) Value {
	return Value{kind: KindArrayBufferTransfer, ref: &ArrayBufferTransfer{TransferID: transferID}}
}

// AsArrayBufferTransfer returns the wrapped *ArrayBufferTransfer.
func (v Value) AsArrayBufferTransfer() *ArrayBufferTransfer {
	if v.kind != KindArrayBufferTransfer {
		panic("v8clone: AsArrayBufferTransfer on " + v.kind.String())
	}
	return v.ref.(*ArrayBufferTransfer)
}

// ViewKind identifies the element type (or DataView) of an
// ArrayBufferView.
type ViewKind uint8

const (
	ViewInt8 ViewKind = iota
	ViewUint8
	ViewUint8Clamped
	ViewInt16
	ViewUint16
	ViewInt32
	ViewUint32
	ViewFloat32
	ViewFloat64
	ViewDataView
	ViewFloat16
	ViewBigInt64
	ViewBigUint64
)

func (k ViewKind) String() string {
	names := [...]string{
		"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array",
		"Uint16Array", "Int32Array", "Uint32Array", "Float32Array",
		"Float64Array", "DataView", "Float16Array", "BigInt64Array",
		"BigUint64Array",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "TypedArray"
}

func viewKindFromTag(tag byte) (ViewKind, bool) {
	switch tag {
	case viewInt8:
		return ViewInt8, true
	case viewUint8:
		return ViewUint8, true
	case viewUint8Clamped:
		return ViewUint8Clamped, true
	case viewInt16:
		return ViewInt16, true
	case viewUint16:
		return ViewUint16, true
	case viewInt32:
		return ViewInt32, true
	case viewUint32:
		return ViewUint32, true
	case viewFloat32:
		return ViewFloat32, true
	case viewFloat64:
		return ViewFloat64, true
	case viewDataView:
		return ViewDataView, true
	case viewFloat16:
		return ViewFloat16, true
	case viewBigInt64:
		return ViewBigInt64, true
	case viewBigUint64:
		return ViewBigUint64, true
	default:
		return 0, false
	}
}

func viewKindToTag(k ViewKind) byte {
	switch k {
	case ViewInt8:
		return viewInt8
	case ViewUint8:
		return viewUint8
	case ViewUint8Clamped:
		return viewUint8Clamped
	case ViewInt16:
		return viewInt16
	case ViewUint16:
		return viewUint16
	case ViewInt32:
		return viewInt32
	case ViewUint32:
		return viewUint32
	case ViewFloat32:
		return viewFloat32
	case ViewFloat64:
		return viewFloat64
	case ViewDataView:
		return viewDataView
	case ViewFloat16:
		return viewFloat16
	case ViewBigInt64:
		return viewBigInt64
	case ViewBigUint64:
		return viewBigUint64
	default:
		return viewUint8
	}
}

// ArrayBufferView is the payload behind a KindArrayBufferView Value: a
// sub-range of a backing buffer plus element kind and flags (spec.md
// §3/§4.2/§4.5).
type ArrayBufferView struct {
	Backing           Value // kind ArrayBuffer or SharedArrayBuffer
	ByteOffset        uint32
	ByteLength        uint32
	Kind              ViewKind
	LengthTracking    bool
	BackedByResizable bool
}

// ArrayBufferViewValue wraps view as a Value.
func ArrayBufferViewValue(view *ArrayBufferView) Value {
	return Value{kind: KindArrayBufferView, ref: view}
}

// AsArrayBufferView returns the wrapped *ArrayBufferView.
func (v Value) AsArrayBufferView() *ArrayBufferView {
	if v.kind != KindArrayBufferView {
		panic("v8clone: AsArrayBufferView on " + v.kind.String())
	}
	return v.ref.(*ArrayBufferView)
}

// validate checks the view's offset/length and flags against the backing
// ArrayBuffer's current length. It runs when a view is encoded and when
// one is decoded; building an ArrayBufferView value does not validate it.
// SharedArrayBuffer backings cannot be validated locally (the memory is
// external) and are accepted as-is.
func (view *ArrayBufferView) validate() error {
	buf, ok := backingArrayBuffer(view.Backing)
	if !ok {
		return nil
	}
	length := uint32(len(buf.Data))
	if view.BackedByResizable && !buf.Resizable {
		return &BufferViewOutOfBoundsError{Reason: "InvalidFlagCombination: backed-by-resizable flag on non-resizable buffer"}
	}
	if view.LengthTracking {
		if !view.BackedByResizable && buf.Resizable {
			// fine: resizable backing, tracking allowed
		}
		if view.ByteOffset > length {
			return &BufferViewOutOfBoundsError{Reason: "offset exceeds buffer length", Offset: view.ByteOffset, BufferLength: length}
		}
		return nil
	}
	if uint64(view.ByteOffset)+uint64(view.ByteLength) > uint64(length) {
		return &BufferViewOutOfBoundsError{Reason: "offset+length exceeds buffer length", Offset: view.ByteOffset, Length: view.ByteLength, BufferLength: length}
	}
	return nil
}

func backingArrayBuffer(v Value) (*ArrayBuffer, bool) {
	if v.kind != KindArrayBuffer {
		return nil, false
	}
	return v.AsArrayBuffer(), true
}
