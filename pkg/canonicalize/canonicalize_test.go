package canonicalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeEditorLand/tauri/pkg/canonicalize"
)

func TestCanonical_SortsKeys(t *testing.T) {
	got, err := canonicalize.Canonical(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(got))
}

func TestCanonical_Deterministic(t *testing.T) {
	v := map[string]any{
		"permissions": []string{"allow-ping"},
		"nested":      map[string]any{"z": true, "a": "x"},
	}

	first, err := canonicalize.Canonical(v)
	require.NoError(t, err)
	second, err := canonicalize.Canonical(v)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := canonicalize.Canonical(map[string]string{"url": "https://example.com/?a=1&b=2"})
	require.NoError(t, err)
	assert.Contains(t, string(got), "a=1&b=2")
	assert.NotContains(t, string(got), "\\u0026")
}

func TestHash_StableAcrossKeyOrder(t *testing.T) {
	a, err := canonicalize.Hash(map[string]int{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := canonicalize.Hash(map[string]int{"y": 2, "x": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
