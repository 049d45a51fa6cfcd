package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tpl, err := NewPromptTemplate("Analyze {name} in {year}: {name} again")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "year"}, tpl.Variables())

	out, err := tpl.Format(map[string]any{"name": "Mitte", "year": 1961})
	require.NoError(t, err)
	assert.Equal(t, "Analyze Mitte in 1961: Mitte again", out)
}

func TestFormatMissingVariable(t *testing.T) {
	tpl, err := NewPromptTemplate("Hello {name}")
	require.NoError(t, err)

	_, err = tpl.Format(map[string]any{})
	assert.Error(t, err)
}

func TestFormatIgnoresExtraValues(t *testing.T) {
	tpl, err := NewPromptTemplate("No placeholders here")
	require.NoError(t, err)

	out, err := tpl.Format(map[string]any{"unused": true})
	require.NoError(t, err)
	assert.Equal(t, "No placeholders here", out)
}

func TestEmptyTemplate(t *testing.T) {
	_, err := NewPromptTemplate("   ")
	assert.Error(t, err)
}
