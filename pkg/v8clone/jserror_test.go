package v8clone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorNameString(t *testing.T) {
	require.Equal(t, "TypeError", ErrorType.String())
	require.Equal(t, "Error", ErrorGeneric.String())
}

func TestErrorNameTagRoundTrip(t *testing.T) {
	names := []ErrorName{ErrorEval, ErrorRange, ErrorReference, ErrorSyntax, ErrorType, ErrorURI}
	for _, n := range names {
		tag := errorNameToTag(n)
		got, ok := errorNameFromTag(tag)
		require.True(t, ok)
		require.Equal(t, n, got)
	}
}

func TestJSErrorOptionalFields(t *testing.T) {
	e := &JSError{Name: ErrorType, Message: "bad", HasMessage: true}
	v := ErrorValue(e)
	require.Equal(t, KindError, v.Type())
	got := v.AsError()
	require.True(t, got.HasMessage)
	require.False(t, got.HasStack)
	require.False(t, got.HasCause)
}
