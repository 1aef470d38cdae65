package facet

import (
	"log/slog"
	"strconv"

	"github.com/digital-finance/labsite/internal/catalog"
)

// Presenter receives visibility decisions. Index i is the catalog position.
// Only a nil interface value is skipped: a typed nil pointer is still
// called, so implementations must tolerate a nil receiver.
type Presenter interface {
	SetVisible(i int, visible bool)
	SetNoResults(empty bool)
}

// YearMatch is the year facet: pass-through for "all", otherwise an exact
// match. Publications without a year never match a specific year.
func YearMatch(p catalog.Publication, sel Selection) bool {
	year := normalize(sel.Year)
	if year == All {
		return true
	}
	y, err := strconv.Atoi(year)
	if err != nil || !p.HasYear() {
		return false
	}
	return p.Year == y
}

// TopicMatch is the topic facet.
func TopicMatch(p catalog.Publication, sel Selection) bool {
	topic := normalize(sel.Topic)
	if topic == All {
		return true
	}
	return matchesTopic(p.SearchText(), topic)
}

// AccessMatch is the access facet.
func AccessMatch(p catalog.Publication, sel Selection) bool {
	if normalize(sel.Access) == AccessOpen {
		return p.OpenAccess
	}
	return true
}

// Visible combines the three facets with AND.
func Visible(p catalog.Publication, sel Selection) bool {
	return YearMatch(p, sel) && TopicMatch(p, sel) && AccessMatch(p, sel)
}

// Result is the outcome of one Apply.
type Result struct {
	Selection Selection `json:"selection"`
	// Visible has one entry per catalog position.
	Visible []bool `json:"-"`
	// Indices lists the visible catalog positions in order.
	Indices []int `json:"indices"`

	cat *catalog.Catalog
}

// Empty reports whether nothing is visible.
func (r Result) Empty() bool {
	return len(r.Indices) == 0
}

// Publications returns the visible publications in catalog order.
func (r Result) Publications() []catalog.Publication {
	pubs := make([]catalog.Publication, 0, len(r.Indices))
	for _, i := range r.Indices {
		pubs = append(pubs, r.cat.At(i))
	}
	return pubs
}

// Engine evaluates selections against a catalog. It holds no state, so
// applying the same selection twice yields the same result.
type Engine struct{}

// NewEngine returns a filter engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply evaluates every publication, reports each decision to presenter and
// flags an empty result. A nil presenter is skipped.
func (e *Engine) Apply(cat *catalog.Catalog, sel Selection, presenter Presenter) Result {
	sel = sel.normalized()
	n := cat.Len()
	res := Result{
		Selection: sel,
		Visible:   make([]bool, n),
		Indices:   make([]int, 0, n),
		cat:       cat,
	}

	for i := 0; i < n; i++ {
		show := Visible(cat.At(i), sel)
		res.Visible[i] = show
		if show {
			res.Indices = append(res.Indices, i)
		}
		if presenter != nil {
			presenter.SetVisible(i, show)
		}
	}
	if presenter != nil {
		presenter.SetNoResults(res.Empty())
	}

	slog.Debug("facet_applied",
		slog.String("selection", sel.String()),
		slog.Int("visible", len(res.Indices)),
		slog.Int("total", n))
	return res
}

// Reset applies the all-pass selection.
func (e *Engine) Reset(cat *catalog.Catalog, presenter Presenter) Result {
	return e.Apply(cat, Reset(), presenter)
}
