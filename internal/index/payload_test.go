package index

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/sections"
)

func TestFetchPayload_FromFile(t *testing.T) {
	p, err := FetchPayload(context.Background(), nil, "testdata/search-index.json")

	require.NoError(t, err)
	assert.Len(t, p.Sections, 2)
	require.Len(t, p.Publications, 2)
	assert.Equal(t, 2022, p.Publications[1].Year)
}

func TestFetchPayload_FromHTTP(t *testing.T) {
	// Given: a server publishing the payload
	data, err := os.ReadFile("testdata/search-index.json")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search-index.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	// When: fetching by URL
	p, err := FetchPayload(context.Background(), srv.Client(), srv.URL+"/search-index.json")

	// Then: the payload decodes
	require.NoError(t, err)
	assert.Len(t, p.Documents(), 4)
}

func TestFetchPayload_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := FetchPayload(context.Background(), srv.Client(), srv.URL+"/search-index.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchPayload_MissingFile(t *testing.T) {
	_, err := FetchPayload(context.Background(), nil, filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchPayload_EmptyLocation(t *testing.T) {
	_, err := FetchPayload(context.Background(), nil, "  ")
	assert.Error(t, err)
}

func TestDecodePayload_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"sections": [`},
		{"no documents", `{"sections": [], "publications": []}`},
		{"empty section id", `{"sections": [{"id": "", "title": "T"}]}`},
		{"empty publication id", `{"publications": [{"title": "T"}]}`},
		{"duplicate ids", `{"sections": [{"id": "a", "title": "A"}, {"id": "a", "title": "B"}]}`},
		{"untitled", `{"sections": [{"id": "a", "title": "  "}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestFallbackPayload_SectionsPlusCatalog(t *testing.T) {
	// Given: two sections and a catalog
	secs := []sections.Section{{ID: "about", Title: "About", Content: "Lab."}, {ID: "contact", Title: "Contact"}}
	cat := catalog.New([]catalog.Publication{
		{ID: "p1", Title: "Credit risk", Authors: "Chen, Y.", Journal: "JRFM", Year: 2021, Abstract: "Loans."},
	})

	// When: building the fallback
	p := FallbackPayload(secs, cat)

	// Then: every source document is present and valid
	require.NoError(t, p.Validate())
	docs := p.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, Document{Ref: "about", Kind: KindSection, Title: "About", Content: "Lab.", Anchor: "#about"}, docs[0])
	assert.Equal(t, Document{
		Ref:     "pub-p1",
		Kind:    KindPublication,
		Title:   "Credit risk",
		Content: "Chen, Y. JRFM 2021 Loans.",
		Anchor:  PublicationsAnchor,
	}, docs[2])
}

func TestPublicationDocument_SkipsEmptyParts(t *testing.T) {
	d := PublicationDocument(PayloadPublication{ID: "x", Title: "T", Abstract: "Only abstract"})

	assert.Equal(t, "Only abstract", d.Content)
}

func TestWritePayload_RoundTrips(t *testing.T) {
	p, err := FetchPayload(context.Background(), nil, "testdata/search-index.json")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WritePayload(&sb, p))
	again, err := DecodePayload(strings.NewReader(sb.String()))

	require.NoError(t, err)
	assert.Equal(t, p, again)
}
