package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildNamesUnmarshal(t *testing.T) {
	t.Run("objects", func(t *testing.T) {
		var n ChildNames
		require.NoError(t, json.Unmarshal([]byte(`[{"technologyName":"Go"},{"tagName":"sql"}]`), &n))
		assert.Equal(t, ChildNames{"Go", "sql"}, n)
	})

	t.Run("bare strings", func(t *testing.T) {
		var n ChildNames
		require.NoError(t, json.Unmarshal([]byte(`["Go", "Rust"]`), &n))
		assert.Equal(t, ChildNames{"Go", "Rust"}, n)
	})

	t.Run("not an array", func(t *testing.T) {
		var n ChildNames
		assert.Error(t, json.Unmarshal([]byte(`"Go"`), &n))
	})
}

func TestPatchDistinguishesOmittedFromEmpty(t *testing.T) {
	var omitted ProjectPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"X"}`), &omitted))
	assert.Nil(t, omitted.Technologies)

	var empty ProjectPatch
	require.NoError(t, json.Unmarshal([]byte(`{"technologies":[]}`), &empty))
	require.NotNil(t, empty.Technologies)
	assert.Empty(t, *empty.Technologies)
}

func TestNormalizeNames(t *testing.T) {
	got := NormalizeNames([]string{" Go ", "", "go", "PostgreSQL", "  "})
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got)
	assert.Empty(t, NormalizeNames(nil))
}
