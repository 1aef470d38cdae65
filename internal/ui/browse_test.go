package ui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/output"
	"github.com/digital-finance/labsite/internal/site"
	"github.com/digital-finance/labsite/internal/theme"
)

func browseSite(t *testing.T, build bool) *site.Site {
	t.Helper()
	cat, err := catalog.LoadFile("../catalog/testdata/publications.json")
	require.NoError(t, err)

	b := index.NewBuilder(index.BuilderConfig{
		PayloadLocation: filepath.Join(t.TempDir(), "missing.json"),
	}, func(context.Context) (*catalog.Catalog, error) { return cat, nil })
	if build {
		_, err := b.Build(context.Background())
		require.NoError(t, err)
	}
	return site.New(site.Config{Catalog: cat, Builder: b})
}

func typeText(m *BrowseModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestBrowseModel_InitialView(t *testing.T) {
	// Given: a model over the fixture catalog
	m := NewBrowseModel(context.Background(), browseSite(t, true), NewStyles(theme.Light, true))

	// When: rendering
	view := m.View()

	// Then: every publication and the full metrics are shown
	assert.Contains(t, view, "2021  Credit risk in P2P lending")
	assert.Contains(t, view, "----  A note on decentralized finance")
	assert.Contains(t, view, "3 publications · 15 citations · 5.0 avg · 2 open access")
	assert.Contains(t, view, "year: all  topic: all  access: all")
	assert.Contains(t, view, "index: ")
}

func TestBrowseModel_SearchAsYouType(t *testing.T) {
	m := NewBrowseModel(context.Background(), browseSite(t, true), NewStyles(theme.Light, true))

	typeText(m, "volat")
	assert.Contains(t, m.View(), output.NoResultsMessage)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(m, "lend")
	assert.Contains(t, m.View(), "Credit risk in P2P lending #publications")
}

func TestBrowseModel_PendingUntilIndexReady(t *testing.T) {
	s := browseSite(t, false)
	m := NewBrowseModel(context.Background(), s, NewStyles(theme.Light, true))

	typeText(m, "credit")

	assert.True(t, m.results.Pending)
	assert.Contains(t, m.View(), output.PendingMessage)
}

func TestBrowseModel_FacetKeys(t *testing.T) {
	// Given: a model showing everything
	m := NewBrowseModel(context.Background(), browseSite(t, true), NewStyles(theme.Light, true))

	// When: cycling the year to the newest year
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	// Then: only that year's publication remains and metrics follow
	view := m.View()
	assert.Contains(t, view, "year: 2022")
	assert.Contains(t, view, "Explainable machine learning for asset pricing")
	assert.NotContains(t, view, "Credit risk in P2P lending")
	assert.Contains(t, view, "1 publications · 5 citations · 5.0 avg · 0 open access")

	// When: restricting to open access
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})

	// Then: nothing matches
	assert.Contains(t, m.View(), output.NoPublicationsMessage)

	// When: resetting
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Contains(t, m.View(), "year: all  topic: all  access: all")
	assert.Contains(t, m.View(), "3 publications")
}

func TestBrowseModel_TopicCycle(t *testing.T) {
	m := NewBrowseModel(context.Background(), browseSite(t, true), NewStyles(theme.Light, true))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	assert.Contains(t, m.View(), "topic: ai")
	assert.Contains(t, m.View(), "Explainable machine learning")
}

func TestBrowseModel_Quit(t *testing.T) {
	m := NewBrowseModel(context.Background(), browseSite(t, true), NewStyles(theme.Light, true))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestNext(t *testing.T) {
	values := []string{"all", "2022", "2021"}
	assert.Equal(t, "2022", next(values, "all"))
	assert.Equal(t, "all", next(values, "2021"))
	assert.Equal(t, "all", next(values, "1999"))
}
