package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	// Given: a LabError with a suggestion
	err := New(ErrCodeConfigNotFound, "site directory not found: site", nil).
		WithSuggestion("Pass the site directory with --dir")

	// When: formatting for the terminal
	out := FormatForCLI(err)

	// Then: message, hint and code are present
	assert.Equal(t, "Error: site directory not found: site\n  Hint: Pass the site directory with --dir\n  Code: ERR_101_CONFIG_NOT_FOUND\n", out)
	assert.Equal(t, "", FormatForCLI(nil))
}

func TestFormatForCLI_WrapsPlainErrorAsInternal(t *testing.T) {
	out := FormatForCLI(errors.New("unexpected"))

	assert.Contains(t, out, "Error: unexpected")
	assert.Contains(t, out, "Code: ERR_501_INTERNAL")
	assert.NotContains(t, out, "Hint:")
}

func TestFormatJSON_RoundTripsFields(t *testing.T) {
	// Given: a LabError with cause and details
	err := New(ErrCodePayloadMalformed, "index payload has no documents", errors.New("empty")).
		WithDetail("location", "search-index.json")

	// When: formatting as JSON
	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	// Then: fields are present
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ErrCodePayloadMalformed, got["code"])
	assert.Equal(t, "IO", got["category"])
	assert.Equal(t, "empty", got["cause"])
	assert.Equal(t, false, got["retryable"])
}

func TestLogAttrs_FlattensLabError(t *testing.T) {
	err := New(ErrCodeIndexFailed, "index failed", errors.New("disk")).WithDetail("docs", "3")

	attrs := LogAttrs(err)

	assert.Contains(t, attrs, "error_code")
	assert.Contains(t, attrs, ErrCodeIndexFailed)
	assert.Contains(t, attrs, "detail_docs")
	assert.Equal(t, []any{"error", "x"}, LogAttrs(errors.New("x")))
	assert.Nil(t, LogAttrs(nil))
}
