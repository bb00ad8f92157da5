package v8clone

import "strings"

// RegExpFlags is the bitfield behind a JS RegExp's flags, using V8's own
// bit assignment (spec.md §4.5 only pins UnicodeSets at 0x100; the rest
// follow V8's source ordering: global, ignoreCase, multiline, sticky,
// unicode, dotAll, then the v15+ unicodeSets bit).
type RegExpFlags uint32

const (
	FlagGlobal      RegExpFlags = regexpFlagGlobal
	FlagIgnoreCase  RegExpFlags = regexpFlagIgnoreCase
	FlagMultiline   RegExpFlags = regexpFlagMultiline
	FlagSticky      RegExpFlags = regexpFlagSticky
	FlagUnicode     RegExpFlags = regexpFlagUnicode
	FlagDotAll      RegExpFlags = regexpFlagDotAll
	FlagUnicodeSets RegExpFlags = regexpFlagUnicodeSets
)

// Has reports whether all bits in mask are set.
func (f RegExpFlags) Has(mask RegExpFlags) bool {
	return f&mask == mask
}

// String renders the flags in the canonical JS source order
// (g i m s u v y), matching RegExp.prototype.flags for these flags.
func (f RegExpFlags) String() string {
	var b strings.Builder
	if f.Has(FlagGlobal) {
		b.WriteByte('g')
	}
	if f.Has(FlagIgnoreCase) {
		b.WriteByte('i')
	}
	if f.Has(FlagMultiline) {
		b.WriteByte('m')
	}
	if f.Has(FlagDotAll) {
		b.WriteByte('s')
	}
	if f.Has(FlagUnicode) {
		b.WriteByte('u')
	}
	if f.Has(FlagUnicodeSets) {
		b.WriteByte('v')
	}
	if f.Has(FlagSticky) {
		b.WriteByte('y')
	}
	return b.String()
}

// RegExp is the identity-eligible payload behind a KindRegExp Value.
type RegExp struct {
	Source string
	Flags  RegExpFlags
}

// RegExpValue wraps re as a Value.
func RegExpValue(re *RegExp) Value {
	return Value{kind: KindRegExp, ref: re}
}

// AsRegExp returns the wrapped *RegExp. Panics if v is not a RegExp.
func (v Value) AsRegExp() *RegExp {
	if v.kind != KindRegExp {
		panic("v8clone: AsRegExp on " + v.kind.String())
	}
	return v.ref.(*RegExp)
}

// NewRegExp returns a RegExp value, rejecting a UnicodeSets flag unless
// features enables it (spec.md §8 scenario S6); pass nil to use default
// feature gating.
func NewRegExp(source string, flags RegExpFlags, version uint32, features map[Feature]bool) (*RegExp, error) {
	if features == nil {
		features = defaultFeatures()
	}
	if flags.Has(FlagUnicodeSets) {
		if !features[FeatureRegExpUnicodeSets] || version < featureMinVersion(FeatureRegExpUnicodeSets) {
			return nil, &FeatureNotEnabledError{Feature: FeatureRegExpUnicodeSets, Version: version}
		}
	}
	return &RegExp{Source: source, Flags: flags}, nil
}
