package bibtex

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/catalog"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEntry_Golden(t *testing.T) {
	tests := []struct {
		name string
		pub  catalog.Publication
	}{
		{
			name: "article",
			pub: catalog.Publication{
				ID:      "W3200000001",
				Title:   "Credit risk in P2P lending",
				Authors: "Osterrieder, J., Chen, Y., et al.",
				Journal: "Journal of Risk and Financial Management",
				Year:    2021,
				DOI:     "10.3390/jrfm14010001",
				Type:    "article",
			},
		},
		{
			name: "misc_without_year",
			pub: catalog.Publication{
				ID:      "pub-defi",
				Title:   "DeFi & the 100% reserve question",
				Authors: "Baals, L. J.",
				Journal: "SSRN",
				Type:    "preprint",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newGoldie(t).Assert(t, tt.name, []byte(Entry(tt.pub)))
		})
	}
}

func TestAll_GoldenFromFixture(t *testing.T) {
	// Given: the catalog fixture
	cat, err := catalog.LoadFile("../catalog/testdata/publications.json")
	require.NoError(t, err)

	// When: exporting everything
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cat.All()))

	// Then: the bibliography matches the golden file
	newGoldie(t).Assert(t, "fixture", buf.Bytes())
}

func TestAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Osterrieder, J., Chen, Y., et al.", "Osterrieder, J. and Chen, Y. and others"},
		{"Baals, L. J.", "Baals, L. J."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Authors(catalog.Publication{Authors: tt.in}))
		})
	}
}

func TestEntryType(t *testing.T) {
	assert.Equal(t, "article", EntryType(catalog.Publication{Type: "Article"}))
	assert.Equal(t, "misc", EntryType(catalog.Publication{Type: "preprint"}))
	assert.Equal(t, "misc", EntryType(catalog.Publication{}))
}

func TestAll_SeparatesWithBlankLine(t *testing.T) {
	out := All([]catalog.Publication{{ID: "a"}, {ID: "b"}})

	assert.Contains(t, out, "}\n\n@misc{b,")
}

func TestWrite_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Zero(t, buf.Len())
}
