// Package telemetry keeps in-memory statistics about search queries for
// the index_status report. Nothing is persisted or sent anywhere.
package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryKind classifies how a query was executed.
type QueryKind string

const (
	// QueryKindPrefix is a plain query run as per-term prefix search.
	QueryKindPrefix QueryKind = "prefix"
	// QueryKindSyntax is a query using field, boolean or phrase syntax.
	QueryKindSyntax QueryKind = "syntax"
)

// LatencyBucket is a latency histogram bucket.
type LatencyBucket string

const (
	BucketP1    LatencyBucket = "p1"    // <1ms
	BucketP10   LatencyBucket = "p10"   // 1-10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP1000 LatencyBucket = "p1000" // >=100ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 10*time.Millisecond:
		return BucketP10
	case d < 50*time.Millisecond:
		return BucketP50
	case d < 100*time.Millisecond:
		return BucketP100
	default:
		return BucketP1000
	}
}

// QueryEvent is one executed search.
type QueryEvent struct {
	Query       string
	Kind        QueryKind
	ResultCount int
	Latency     time.Duration
	CacheHit    bool
}

// TermCount is a query term and how often it was searched.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is an immutable copy of the collected metrics.
type Snapshot struct {
	TotalQueries        int64                   `json:"total_queries"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	CacheHits           int64                   `json:"cache_hits"`
	KindCounts          map[QueryKind]int64     `json:"kind_counts"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	TopTerms            []TermCount             `json:"top_terms"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of queries with no results.
func (s Snapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// Config sizes the collector.
type Config struct {
	TopTermsCapacity    int
	ZeroResultsCapacity int
}

// DefaultConfig returns the default sizes.
func DefaultConfig() Config {
	return Config{TopTermsCapacity: 100, ZeroResultsCapacity: 50}
}

// QueryMetrics collects query telemetry. Safe for concurrent use.
type QueryMetrics struct {
	mu sync.Mutex

	total       int64
	zero        int64
	cacheHits   int64
	kinds       map[QueryKind]int64
	latencies   map[LatencyBucket]int64
	topTerms    *lru.Cache[string, int64]
	zeroResults *lru.Cache[string, time.Time]
	since       time.Time
}

// New returns a collector with the given sizes.
func New(cfg Config) *QueryMetrics {
	if cfg.TopTermsCapacity <= 0 {
		cfg.TopTermsCapacity = 100
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = 50
	}
	topTerms, _ := lru.New[string, int64](cfg.TopTermsCapacity)
	zeroResults, _ := lru.New[string, time.Time](cfg.ZeroResultsCapacity)

	return &QueryMetrics{
		kinds:       make(map[QueryKind]int64),
		latencies:   make(map[LatencyBucket]int64),
		topTerms:    topTerms,
		zeroResults: zeroResults,
		since:       time.Now(),
	}
}

// Record adds one query. A nil collector ignores it.
func (m *QueryMetrics) Record(e QueryEvent) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.kinds[e.Kind]++
	m.latencies[LatencyToBucket(e.Latency)]++
	if e.CacheHit {
		m.cacheHits++
	}
	for _, term := range ExtractTerms(e.Query) {
		count, _ := m.topTerms.Get(term)
		m.topTerms.Add(term, count+1)
	}
	if e.ResultCount == 0 {
		m.zero++
		m.zeroResults.Add(strings.TrimSpace(e.Query), time.Now())
	}
}

// Snapshot returns the current metrics. Top terms are ordered by count,
// then alphabetically; zero-result queries oldest first.
func (m *QueryMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make(map[QueryKind]int64, len(m.kinds))
	for k, v := range m.kinds {
		kinds[k] = v
	}
	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	terms := make([]TermCount, 0, m.topTerms.Len())
	for _, k := range m.topTerms.Keys() {
		if c, ok := m.topTerms.Peek(k); ok {
			terms = append(terms, TermCount{Term: k, Count: c})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	return Snapshot{
		TotalQueries:        m.total,
		ZeroResultCount:     m.zero,
		CacheHits:           m.cacheHits,
		KindCounts:          kinds,
		LatencyDistribution: latencies,
		TopTerms:            terms,
		ZeroResultQueries:   m.zeroResults.Keys(),
		Since:               m.since,
	}
}

// ExtractTerms lowercases query and keeps words of at least three letters.
func ExtractTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, `"'+-*~^():,.;`)
		if len([]rune(w)) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}
