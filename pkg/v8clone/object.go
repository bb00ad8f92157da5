package v8clone

import "strconv"

// Object is the ordered, string/integer-keyed payload behind a
// KindObject Value. Insertion order is preserved and observable
// (spec.md §3/§4.2); integer-looking keys within [0, 2^32) are stored
// under their canonical decimal spelling with no leading zeros.
type Object struct {
	order  []string
	values map[string]Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// ObjectValue wraps props (already in the caller's desired insertion
// order, via Object.Set) as a Value.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, ref: o}
}

// AsObject returns the wrapped *Object. Panics if v is not an object.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		panic("v8clone: AsObject on " + v.kind.String())
	}
	return v.ref.(*Object)
}

// CanonicalIndexKey reports whether key is the canonical decimal
// spelling (no leading zeros, "0" excepted) of a uint32, per spec.md §3's
// "Integer keys ... are the canonical decimal form with no leading
// zeros" invariant.
func CanonicalIndexKey(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if key == "0" {
		return 0, true
	}
	if key[0] == '0' || key[0] == '-' {
		return 0, false
	}
	for _, c := range key {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// Set inserts or updates key → val. The first insertion fixes the key's
// position; later Sets of the same key update the value in place.
func (o *Object) Set(key string, val Value) {
	if _, exists := o.values[key]; !exists {
		o.order = append(o.order, key)
	}
	o.values[key] = val
}

// Get returns the value stored at key, if any.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return o.order
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.order)
}
