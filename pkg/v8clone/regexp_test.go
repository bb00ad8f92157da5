package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegExpFlagsString(t *testing.T) {
	f := FlagGlobal | FlagIgnoreCase | FlagMultiline
	require.Equal(t, "gim", f.String())
}

func TestRegExpFlagsStringAllBits(t *testing.T) {
	f := FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagDotAll | FlagUnicode | FlagUnicodeSets | FlagSticky
	require.Equal(t, "gimsuvy", f.String())
}

func TestNewRegExpRejectsUnicodeSetsBelowVersionFloor(t *testing.T) {
	_, err := NewRegExp("a+", FlagUnicodeSets, 14, defaultFeatures())
	require.Error(t, err)
}

func TestNewRegExpAllowsUnicodeSetsAtVersion15(t *testing.T) {
	re, err := NewRegExp("a+", FlagUnicodeSets, 15, defaultFeatures())
	require.NoError(t, err)
	require.True(t, re.Flags.Has(FlagUnicodeSets))
}

func TestNewRegExpRejectsUnicodeSetsWhenFeatureDisabled(t *testing.T) {
	features := defaultFeatures()
	features[FeatureRegExpUnicodeSets] = false
	_, err := NewRegExp("a+", FlagUnicodeSets, 15, features)
	require.Error(t, err)
}
