package v8clone

import "time"

// StringForm records which wire encoding a decoded string was read with.
// Content equality never considers Form, and the encoder does not consult
// it: encoding always picks the one-byte or two-byte form from the
// content (see wire.NeedsUTF16), so a string read in UTF-8 form, or in
// two-byte form with only Latin-1 content, is written back in a
// different form.
type StringForm uint8

const (
	FormOneByte StringForm = iota
	FormTwoByte
	FormUtf8
)

// JSString is the identity-eligible payload behind a KindString Value.
type JSString struct {
	Value string
	Form  StringForm
}

// String returns a Value wrapping s with Form set to FormOneByte,
// whatever the content.
func String(s string) Value {
	return StringWithForm(s, FormOneByte)
}

// StringWithForm returns a Value wrapping s, recording form as the wire
// form it was read with.
func StringWithForm(s string, form StringForm) Value {
	return Value{kind: KindString, ref: &JSString{Value: s, Form: form}}
}

// AsString returns the decoded string content. Panics if v is not a string.
func (v Value) AsString() string {
	if v.kind != KindString {
		panic("v8clone: AsString on " + v.kind.String())
	}
	return v.ref.(*JSString).Value
}

// JSDate is the identity-eligible payload behind a KindDate Value.
type JSDate struct {
	Time time.Time
}

// Date returns a Value wrapping a JavaScript Date at instant t
// (millisecond resolution, per spec.md §3).
func Date(t time.Time) Value {
	return Value{kind: KindDate, ref: &JSDate{Time: t.Round(time.Millisecond)}}
}

// AsDate returns the wrapped time.Time. Panics if v is not a Date.
func (v Value) AsDate() time.Time {
	if v.kind != KindDate {
		panic("v8clone: AsDate on " + v.kind.String())
	}
	return v.ref.(*JSDate).Time
}
