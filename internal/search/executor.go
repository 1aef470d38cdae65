// Package search resolves free-text queries against the site index.
package search

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/telemetry"
)

// Default executor options.
const (
	DefaultMaxResults = 5
	DefaultTitleBoost = 10.0
	DefaultCacheSize  = 128
)

// Result is one ranked match.
type Result struct {
	Ref    string     `json:"ref"`
	Kind   index.Kind `json:"kind"`
	Title  string     `json:"title"`
	Anchor string     `json:"anchor"`
	Score  float64    `json:"score"`
}

// Results is the outcome of one query. An empty query yields a zero
// Results; NoResults marks a query that matched nothing; Pending marks a
// query issued before the index was built.
type Results struct {
	Query     string   `json:"query"`
	Hits      []Result `json:"hits"`
	NoResults bool     `json:"no_results,omitempty"`
	Pending   bool     `json:"pending,omitempty"`
}

// IndexSource provides the current index, if one has been built.
type IndexSource interface {
	Index() (*index.Index, bool)
}

// Options configures an Executor.
type Options struct {
	MaxResults int
	TitleBoost float64
	CacheSize  int
	Metrics    *telemetry.QueryMetrics
}

// DefaultOptions returns the default options without telemetry.
func DefaultOptions() Options {
	return Options{
		MaxResults: DefaultMaxResults,
		TitleBoost: DefaultTitleBoost,
		CacheSize:  DefaultCacheSize,
	}
}

// Executor runs queries against whatever index the source currently holds.
type Executor struct {
	source  IndexSource
	opts    Options
	cache   *lru.Cache[string, Results]
	metrics *telemetry.QueryMetrics
}

// NewExecutor creates an executor. Zero options fall back to defaults.
func NewExecutor(source IndexSource, opts Options) *Executor {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.TitleBoost <= 0 {
		opts.TitleBoost = DefaultTitleBoost
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, Results](opts.CacheSize)

	return &Executor{
		source:  source,
		opts:    opts,
		cache:   cache,
		metrics: opts.Metrics,
	}
}

// Search resolves q. It never returns an error: failures are logged and
// reported as no results.
func (e *Executor) Search(ctx context.Context, q string) Results {
	norm := Normalize(q)
	if norm == "" {
		return Results{Query: q}
	}

	idx, ok := e.source.Index()
	if !ok || idx == nil {
		return Results{Query: q, Pending: true}
	}

	start := time.Now()
	key := cacheKey(idx.Generation(), norm)
	if cached, ok := e.cache.Get(key); ok {
		e.record(norm, cached, start, true)
		return cached.withQuery(q)
	}

	res := e.execute(ctx, idx, norm)
	e.cache.Add(key, res)
	e.record(norm, res, start, false)
	return res.withQuery(q)
}

func (e *Executor) execute(ctx context.Context, idx *index.Index, norm string) Results {
	bq, _, ok := Build(norm, e.opts.TitleBoost)
	if !ok {
		return Results{NoResults: true}
	}

	hits, err := idx.Search(ctx, bq, e.opts.MaxResults)
	if err != nil {
		slog.Debug("search_failed", slog.String("query", norm), slog.String("error", err.Error()))
		return Results{NoResults: true}
	}
	if len(hits) == 0 {
		return Results{NoResults: true}
	}

	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, Result{
			Ref:    h.Ref,
			Kind:   h.Kind,
			Title:  h.Title,
			Anchor: h.Anchor,
			Score:  h.Score,
		})
	}
	return Results{Hits: out}
}

func (e *Executor) record(norm string, res Results, start time.Time, cacheHit bool) {
	if e.metrics == nil {
		return
	}
	kind := telemetry.QueryKindPrefix
	if HasSyntax(norm) {
		kind = telemetry.QueryKindSyntax
	}
	e.metrics.Record(telemetry.QueryEvent{
		Query:       norm,
		Kind:        kind,
		ResultCount: len(res.Hits),
		Latency:     time.Since(start),
		CacheHit:    cacheHit,
	})
}

// Metrics returns collected query telemetry, or a zero snapshot when the
// executor was built without it.
func (e *Executor) Metrics() telemetry.Snapshot {
	if e.metrics == nil {
		return telemetry.Snapshot{}
	}
	return e.metrics.Snapshot()
}

// Purge drops all cached results.
func (e *Executor) Purge() {
	e.cache.Purge()
}

func (r Results) withQuery(q string) Results {
	r.Query = q
	if r.Hits != nil {
		r.Hits = append([]Result(nil), r.Hits...)
	}
	return r
}

func cacheKey(generation uint64, q string) string {
	return strconv.FormatUint(generation, 10) + "\x00" + q
}
