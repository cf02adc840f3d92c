package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRow(t *testing.T) {
	got, err := EncodeRow([]string{"a", "b c", `"quoted"`})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b c","\"quoted\""]`, got)

	got, err = EncodeRow(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestDecodeRow(t *testing.T) {
	t.Run("preserves whitespace cells", func(t *testing.T) {
		row, err := DecodeRow(`["Ada"," ",""]`)
		require.NoError(t, err)
		assert.Equal(t, Row{"Ada", " ", ""}, row)
	})

	t.Run("null decodes to empty row", func(t *testing.T) {
		row, err := DecodeRow(`null`)
		require.NoError(t, err)
		assert.NotNil(t, row)
		assert.Empty(t, row)
	})

	t.Run("rejects non-array", func(t *testing.T) {
		_, err := DecodeRow(`{"a":1}`)
		assert.Error(t, err)
	})

	t.Run("rejects non-string cells", func(t *testing.T) {
		_, err := DecodeRow(`[1,2]`)
		assert.Error(t, err)
	})
}

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows([]string{`["a"]`, `["b"]`})
	require.NoError(t, err)
	assert.Equal(t, []Row{{"a"}, {"b"}}, rows)

	rows, err = DecodeRows(nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)

	_, err = DecodeRows([]string{`["a"]`, `oops`})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}
