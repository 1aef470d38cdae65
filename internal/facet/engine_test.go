package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/catalog"
)

type recordingPresenter struct {
	visible   map[int]bool
	noResults []bool
}

func newRecorder() *recordingPresenter {
	return &recordingPresenter{visible: map[int]bool{}}
}

func (r *recordingPresenter) SetVisible(i int, v bool) { r.visible[i] = v }
func (r *recordingPresenter) SetNoResults(e bool)      { r.noResults = append(r.noResults, e) }

func fixture() *catalog.Catalog {
	return catalog.New([]catalog.Publication{
		{ID: "p0", Title: "Credit risk in P2P lending", Year: 2021, Citations: 10, OpenAccess: true},
		{ID: "p1", Title: "Bitcoin price dynamics", Abstract: "We study token markets.", Year: 2022, Citations: 5},
		{ID: "p2", Title: "Undated essay on climate disclosure"},
	})
}

func TestApply_YearFacet(t *testing.T) {
	// Given: year=2021
	sel := Selection{Year: "2021", Topic: All, Access: All}
	rec := newRecorder()

	// When: applying
	res := NewEngine().Apply(fixture(), sel, rec)

	// Then: only the 2021 publication is visible
	assert.Equal(t, []int{0}, res.Indices)
	assert.Equal(t, map[int]bool{0: true, 1: false, 2: false}, rec.visible)
	assert.Equal(t, []bool{false}, rec.noResults)
}

func TestApply_TopicFacet(t *testing.T) {
	tests := []struct {
		topic string
		want  []int
	}{
		{"credit", []int{0}},
		{"crypto", []int{1}},
		{"markets", []int{1}},
		{"esg", []int{2}},
		{"ai", []int{}},
		{"astrology", []int{}},
		{"CREDIT", []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			res := NewEngine().Apply(fixture(), Selection{Topic: tt.topic}, nil)
			assert.Equal(t, tt.want, res.Indices)
		})
	}
}

func TestApply_AccessFacet(t *testing.T) {
	res := NewEngine().Apply(fixture(), Selection{Access: AccessOpen}, nil)

	assert.Equal(t, []int{0}, res.Indices)
}

func TestApply_CombinesFacetsWithAnd(t *testing.T) {
	cat := fixture()
	years := []string{All, "2021", "2022", "1999"}
	topics := append([]string{All, "unknown"}, TopicKeys()...)
	accesses := []string{All, AccessOpen}

	for _, y := range years {
		for _, tp := range topics {
			for _, a := range accesses {
				sel := Selection{Year: y, Topic: tp, Access: a}
				res := NewEngine().Apply(cat, sel, nil)
				for i := 0; i < cat.Len(); i++ {
					p := cat.At(i)
					want := YearMatch(p, sel) && TopicMatch(p, sel) && AccessMatch(p, sel)
					assert.Equal(t, want, res.Visible[i], "%s pub %d", sel, i)
				}
			}
		}
	}
}

func TestApply_EmptyResultFlagsNoResults(t *testing.T) {
	rec := newRecorder()

	res := NewEngine().Apply(fixture(), Selection{Year: "1999"}, rec)

	assert.True(t, res.Empty())
	assert.Equal(t, []bool{true}, rec.noResults)
	assert.Empty(t, res.Publications())
}

func TestApply_IsIdempotent(t *testing.T) {
	cat := fixture()
	sel := Selection{Topic: "credit", Access: AccessOpen}
	e := NewEngine()

	first := e.Apply(cat, sel, nil)
	second := e.Apply(cat, sel, nil)

	assert.Equal(t, first.Visible, second.Visible)
	assert.Equal(t, first.Indices, second.Indices)
}

func TestReset_ShowsEverything(t *testing.T) {
	rec := newRecorder()
	e := NewEngine()
	e.Apply(fixture(), Selection{Year: "1999"}, rec)

	res := e.Reset(fixture(), rec)

	assert.Equal(t, []int{0, 1, 2}, res.Indices)
	assert.Equal(t, []bool{true, false}, rec.noResults)
	assert.True(t, res.Selection.IsReset())
	require.Len(t, res.Publications(), 3)
	assert.Equal(t, "p1", res.Publications()[1].ID)
}

func TestYearMatch_UndatedNeverMatchesSpecificYear(t *testing.T) {
	p := catalog.Publication{Title: "x"}

	assert.True(t, YearMatch(p, Reset()))
	assert.False(t, YearMatch(p, Selection{Year: "0"}))
}

func TestApply_EmptyCatalog(t *testing.T) {
	rec := newRecorder()

	res := NewEngine().Apply(catalog.New(nil), Reset(), rec)

	assert.True(t, res.Empty())
	assert.Equal(t, []bool{true}, rec.noResults)
}
