package v8clone

import (
	"testing"
	"unicode/utf8"
)

// FuzzDecode checks that Decode never panics on arbitrary input.
func FuzzDecode(f *testing.F) {
	seeds := [][]byte{
		{0xff, 0x0f, 0x30},
		{0xff, 0x0f, 0x5f},
		{0xff, 0x0f, 0x54},
		{0xff, 0x0f, 0x49, 0x54},
		{0xff, 0x0f, 0x22, 0x05, 'h', 'e', 'l', 'l', 'o'},
		{0xff, 0x0f, 0x6f, 0x7b, 0x00},
		{0xff, 0x0f, 0x41, 0x00, 0x24, 0x00, 0x00},
		{},
		{0xff},
		{0xff, 0x0f},
		{0x00, 0x01, 0x02},
		{0xff, 0x0f, 0x49},
		{0xff, 0x0f, 0x22, 0xff, 0xff, 0xff, 0xff},
		{0xff, 0x0f, 0x5e, 0xff, 0xff, 0xff, 0xff, 0x0f},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		val, err := Decode(data)
		if err != nil {
			return
		}
		func() {
			defer func() { _ = recover() }()
			_, _ = ToGo(val)
		}()
	})
}

// FuzzEncodeDecodeString checks that any valid-UTF8 string survives an
// Encode/Decode round trip unchanged.
func FuzzEncodeDecodeString(f *testing.F) {
	f.Add("hello")
	f.Add("")
	f.Add("日本語")
	f.Add("emoji: 🎉🎊🎈")
	f.Add("café")

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}
		data, err := Encode(String(s))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.AsString() != s {
			t.Fatalf("round trip mismatch: got %q, want %q", got.AsString(), s)
		}
	})
}
