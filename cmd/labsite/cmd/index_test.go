package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laberrors "github.com/digital-finance/labsite/internal/errors"
)

func TestIndexVerify_ValidPayload(t *testing.T) {
	// Given: a generated payload
	dir := newSiteDir(t)
	_, err := execute(t, "index", "--dir", dir)
	require.NoError(t, err)

	// When: verifying it
	out, err := execute(t, "index", "verify", "--dir", dir)

	// Then: it loads
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (6 sections, 3 publications)")
}

func TestIndexVerify_Failures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	tests := []struct {
		name    string
		payload func(dir string) string
		code    string
	}{
		{
			name:    "missing file",
			payload: func(dir string) string { return filepath.Join(dir, "missing.json") },
			code:    laberrors.ErrCodeFileNotFound,
		},
		{
			name: "malformed file",
			payload: func(dir string) string {
				path := filepath.Join(dir, "empty.json")
				require.NoError(t, os.WriteFile(path, []byte(`{"sections": [], "publications": []}`), 0o644))
				return path
			},
			code: laberrors.ErrCodePayloadMalformed,
		},
		{
			name:    "server error",
			payload: func(string) string { return broken.URL + "/search-index.json" },
			code:    laberrors.ErrCodeNetworkUnavailable,
		},
		{
			name:    "slow server",
			payload: func(string) string { return slow.URL + "/search-index.json" },
			code:    laberrors.ErrCodeNetworkTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a payload location that cannot be used
			dir := newSiteDir(t)
			t.Setenv("LABSITE_INDEX_PAYLOAD", tt.payload(dir))
			t.Setenv("LABSITE_FETCH_TIMEOUT", "50ms")

			// When: verifying it
			_, err := execute(t, "index", "verify", "--dir", dir)

			// Then: the failure is classified
			require.Error(t, err)
			assert.Equal(t, tt.code, laberrors.GetCode(err))
		})
	}
}

func TestIndexStatus_BuildFailure(t *testing.T) {
	// Given: a section whose id collides with a publication document
	dir := newSiteDir(t)
	secDir := filepath.Join(dir, "sections")
	require.NoError(t, os.MkdirAll(secDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(secDir, "pub-W1.md"), []byte("# Notes\n\nDraft."), 0o644))
	t.Setenv("LABSITE_SECTIONS_DIR", secDir)

	// When: building the index
	out, err := execute(t, "index", "status", "--dir", dir, "--format", "json")

	// Then: the status is printed and the command fails
	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeIndexFailed, laberrors.GetCode(err))
	assert.Contains(t, out, `"status": "failed"`)
}

func TestSearchCmd_BlankQuery(t *testing.T) {
	dir := newSiteDir(t)

	_, err := execute(t, "search", "--dir", dir, "   ")

	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeInvalidQuery, laberrors.GetCode(err))
}

func TestLoadConfig_MissingSiteDir(t *testing.T) {
	dir := newSiteDir(t)

	_, err := execute(t, "metrics", "--dir", filepath.Join(dir, "nope"))

	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeConfigNotFound, laberrors.GetCode(err))
}
