// Package site holds the state of one browsing session over the lab's
// publications: the catalog, the current facet selection, the search
// index and the metrics shown for the visible subset.
package site

import (
	"context"
	"log/slog"
	"sync"

	"github.com/digital-finance/labsite/internal/async"
	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/search"
	"github.com/digital-finance/labsite/internal/telemetry"
)

// View is what the presentation layer shows after a filter change.
type View struct {
	Selection    facet.Selection       `json:"selection"`
	Indices      []int                 `json:"indices"`
	Publications []catalog.Publication `json:"publications"`
	Metrics      metrics.Metrics       `json:"metrics"`
	NoResults    bool                  `json:"no_results"`
}

// Config wires a Site. Presenter and Display are optional.
type Config struct {
	Catalog   *catalog.Catalog
	Builder   *index.Builder
	Executor  *search.Executor
	Presenter facet.Presenter
	Display   metrics.Display
}

// Site is the controller between the facet engine, the metrics aggregator
// and the search executor. Safe for concurrent use.
type Site struct {
	mu        sync.Mutex
	cat       *catalog.Catalog
	builder   *index.Builder
	exec      *search.Executor
	engine    *facet.Engine
	sel       facet.Selection
	view      View
	presenter facet.Presenter
	display   metrics.Display
}

// New returns a Site showing every publication. It does not start the
// index build; call Start for that.
func New(cfg Config) *Site {
	s := &Site{
		cat:       cfg.Catalog,
		builder:   cfg.Builder,
		exec:      cfg.Executor,
		engine:    facet.NewEngine(),
		sel:       facet.Reset(),
		presenter: cfg.Presenter,
		display:   cfg.Display,
	}
	if s.exec == nil && s.builder != nil {
		s.exec = search.NewExecutor(s.builder, search.DefaultOptions())
	}
	s.mu.Lock()
	s.applyLocked(s.sel)
	s.mu.Unlock()
	return s
}

// Start kicks off the index build in the background.
func (s *Site) Start(ctx context.Context) {
	if s.builder != nil {
		s.builder.Start(ctx)
	}
}

// SetPresenter replaces the presenter and display and pushes the current
// view to them.
func (s *Site) SetPresenter(p facet.Presenter, d metrics.Display) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenter = p
	s.display = d
	return s.applyLocked(s.sel)
}

// SetYear changes the year facet.
func (s *Site) SetYear(year string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := facet.ParseSelection(year, s.sel.Topic, s.sel.Access)
	if err != nil {
		return s.view, err
	}
	return s.applyLocked(sel), nil
}

// SetTopic changes the topic facet.
func (s *Site) SetTopic(topic string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := facet.ParseSelection(s.sel.Year, topic, s.sel.Access)
	if err != nil {
		return s.view, err
	}
	return s.applyLocked(sel), nil
}

// SetAccess changes the access facet.
func (s *Site) SetAccess(access string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := facet.ParseSelection(s.sel.Year, s.sel.Topic, access)
	if err != nil {
		return s.view, err
	}
	return s.applyLocked(sel), nil
}

// SetSelection replaces all three facets at once.
func (s *Site) SetSelection(sel facet.Selection) (View, error) {
	parsed, err := facet.ParseSelection(sel.Year, sel.Topic, sel.Access)
	if err != nil {
		return s.View(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(parsed), nil
}

// Reset sets every facet back to "all".
func (s *Site) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(facet.Reset())
}

// View returns the last computed view.
func (s *Site) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Selection returns the current facet selection.
func (s *Site) Selection() facet.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Catalog returns the current catalog.
func (s *Site) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat
}

// Search runs q against the index. A missing index reports Pending.
func (s *Site) Search(ctx context.Context, q string) search.Results {
	if s.exec == nil {
		if search.Normalize(q) == "" {
			return search.Results{Query: q}
		}
		return search.Results{Query: q, Pending: true}
	}
	return s.exec.Search(ctx, q)
}

// BuildIndex builds the index and waits for it, sharing a build already in
// flight.
func (s *Site) BuildIndex(ctx context.Context) error {
	if s.builder == nil {
		return index.ErrIndexNotReady
	}
	_, err := s.builder.Build(ctx)
	return err
}

// IndexStatus reports the state of the index build.
func (s *Site) IndexStatus() async.ProgressSnapshot {
	if s.builder == nil {
		return async.ProgressSnapshot{Status: string(async.StatusPending)}
	}
	return s.builder.Status()
}

// QueryMetrics returns query telemetry.
func (s *Site) QueryMetrics() telemetry.Snapshot {
	if s.exec == nil {
		return telemetry.Snapshot{}
	}
	return s.exec.Metrics()
}

// Reload swaps in a new catalog, rebuilds the index in the background and
// re-applies the current selection.
func (s *Site) Reload(ctx context.Context, cat *catalog.Catalog) View {
	s.mu.Lock()
	s.cat = cat
	view := s.applyLocked(s.sel)
	s.mu.Unlock()

	if s.builder != nil {
		s.builder.SetCatalog(cat)
		s.builder.Start(ctx)
	}
	if s.exec != nil {
		s.exec.Purge()
	}
	slog.Info("catalog_reloaded", slog.Int("publications", cat.Len()))
	return view
}

// applyLocked runs the filter and recomputes metrics over exactly the
// publications it marked visible.
func (s *Site) applyLocked(sel facet.Selection) View {
	res := s.engine.Apply(s.cat, sel, s.presenter)
	visible := res.Publications()

	var m metrics.Metrics
	if s.display != nil {
		m = metrics.Publish(visible, s.display)
	} else {
		m = metrics.Aggregate(visible)
	}

	s.sel = res.Selection
	s.view = View{
		Selection:    res.Selection,
		Indices:      res.Indices,
		Publications: visible,
		Metrics:      m,
		NoResults:    res.Empty(),
	}
	return s.view
}
