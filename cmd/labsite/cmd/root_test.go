package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laberrors "github.com/digital-finance/labsite/internal/errors"
)

const fixturePublications = `[
  {"id": "W1", "title": "Credit risk in P2P lending", "authors": "Osterrieder, J., Chan, S.",
   "journal": "Finance Research Letters", "year": 2021, "doi": "10.1016/j.frl.2021.1",
   "citations": 10, "open_access": true, "type": "article"},
  {"id": "W2", "title": "Bitcoin volatility", "authors": "Osterrieder, J.",
   "year": "2022", "citations": "5", "open_access": "no"},
  {"id": "W3", "title": "<b>Green</b> bonds", "authors": "Zhang, Y.",
   "citations": 0, "open_access": 1}
]`

// newSiteDir creates a site directory with the fixture publications and
// isolates user config and preferences under it.
func newSiteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, key := range []string{"LABSITE_PUBLICATIONS", "LABSITE_INDEX_PAYLOAD", "LABSITE_TEAM", "LABSITE_SITE_HTML", "LABSITE_SECTIONS_DIR"} {
		t.Setenv(key, "")
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "publications.json"), []byte(fixturePublications), 0o644))
	return dir
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	out, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "labsite")
	for _, sub := range []string{"filter", "metrics", "search", "bibtex", "chart", "graph", "check", "index", "browse", "serve", "theme", "config", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCmd_UnknownFormat(t *testing.T) {
	dir := newSiteDir(t)

	_, err := execute(t, "metrics", "--dir", dir, "--format", "yaml")

	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeInvalidInput, laberrors.GetCode(err))
}

func TestOpenSite_MissingPublications(t *testing.T) {
	// Given: a site directory without publication data
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("LABSITE_PUBLICATIONS", "")

	// When: running a command that needs the catalog
	_, err := execute(t, "filter", "--dir", dir)

	// Then: the error is an IO error with a suggestion
	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeFileNotFound, laberrors.GetCode(err))
	assert.Contains(t, laberrors.FormatForCLI(err), "Hint:")
}

func TestFilterCmd_Year(t *testing.T) {
	// Given: the fixture site
	dir := newSiteDir(t)

	// When: filtering to 2021
	out, err := execute(t, "filter", "--dir", dir, "--year", "2021")

	// Then: one publication and its metrics are printed
	require.NoError(t, err)
	assert.Contains(t, out, "2021  Credit risk in P2P lending")
	assert.NotContains(t, out, "Bitcoin volatility")
	assert.Contains(t, out, "1 publications · 10 citations · 10.0 avg · 1 open access")
}

func TestFilterCmd_NoMatches(t *testing.T) {
	dir := newSiteDir(t)

	out, err := execute(t, "filter", "--dir", dir, "--year", "2022", "--access", "open")

	require.NoError(t, err)
	assert.Contains(t, out, "No publications match the selected filters.")
	assert.NotContains(t, out, "citations ·")
}

func TestFilterCmd_JSON(t *testing.T) {
	dir := newSiteDir(t)

	out, err := execute(t, "filter", "--dir", dir, "--format", "json")

	require.NoError(t, err)
	var view struct {
		Publications []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"publications"`
		Metrics struct {
			Count          int `json:"count"`
			TotalCitations int `json:"total_citations"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Publications, 3)
	assert.Equal(t, "Green bonds", view.Publications[2].Title)
	assert.Equal(t, 3, view.Metrics.Count)
	assert.Equal(t, 15, view.Metrics.TotalCitations)
}

func TestFilterCmd_InvalidYear(t *testing.T) {
	dir := newSiteDir(t)

	_, err := execute(t, "filter", "--dir", dir, "--year", "recent")

	require.Error(t, err)
	assert.Equal(t, laberrors.ErrCodeInvalidSelection, laberrors.GetCode(err))
}

func TestMetricsCmd_JSON(t *testing.T) {
	dir := newSiteDir(t)

	out, err := execute(t, "metrics", "--dir", dir, "--year", "2022", "--format", "json")

	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"total_citations":5,"average_citations":5,"open_access_count":0}`, out)
}

func TestMetricsCmd_Text(t *testing.T) {
	dir := newSiteDir(t)

	out, err := execute(t, "metrics", "--dir", dir)

	require.NoError(t, err)
	assert.Equal(t, "3 publications · 15 citations · 5.0 avg · 2 open access\n", out)
}

func TestSearchCmd_FallbackIndex(t *testing.T) {
	// Given: a site without a pre-generated payload
	dir := newSiteDir(t)

	// When: searching for a word prefix
	out, err := execute(t, "search", "--dir", dir, "volat")

	// Then: the publication is found through the fallback index
	require.NoError(t, err)
	assert.Equal(t, "1. Bitcoin volatility  [publication #publications]\n", out)
}

func TestSearchCmd_NoResults(t *testing.T) {
	dir := newSiteDir(t)

	out, err := execute(t, "search", "--dir", dir, "zzzzqx")

	require.NoError(t, err)
	assert.Equal(t, "No results found.\n", out)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	dir := newSiteDir(t)

	_, err := execute(t, "search", "--dir", dir)

	assert.Error(t, err)
}
