package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want LatencyBucket
	}{
		{500 * time.Microsecond, BucketP1},
		{5 * time.Millisecond, BucketP10},
		{20 * time.Millisecond, BucketP50},
		{75 * time.Millisecond, BucketP100},
		{2 * time.Second, BucketP1000},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, LatencyToBucket(tt.d))
		})
	}
}

func TestQueryMetrics_RecordCounts(t *testing.T) {
	// Given: a collector
	m := New(DefaultConfig())

	// When: recording a hit, a miss and a cached query
	m.Record(QueryEvent{Query: "credit risk", Kind: QueryKindPrefix, ResultCount: 3, Latency: 2 * time.Millisecond})
	m.Record(QueryEvent{Query: "title:zzz", Kind: QueryKindSyntax, ResultCount: 0})
	m.Record(QueryEvent{Query: "credit", Kind: QueryKindPrefix, ResultCount: 2, CacheHit: true})

	// Then: the snapshot reflects them
	s := m.Snapshot()
	assert.Equal(t, int64(3), s.TotalQueries)
	assert.Equal(t, int64(1), s.ZeroResultCount)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(2), s.KindCounts[QueryKindPrefix])
	assert.Equal(t, int64(1), s.KindCounts[QueryKindSyntax])
	assert.Equal(t, []string{"title:zzz"}, s.ZeroResultQueries)
	require.NotEmpty(t, s.TopTerms)
	assert.Equal(t, TermCount{Term: "credit", Count: 2}, s.TopTerms[0])
	assert.InDelta(t, 33.3, s.ZeroResultPercentage(), 0.1)
}

func TestQueryMetrics_ZeroResultsBounded(t *testing.T) {
	m := New(Config{ZeroResultsCapacity: 2})

	for _, q := range []string{"a1", "b2", "c3"} {
		m.Record(QueryEvent{Query: q})
	}

	assert.Equal(t, []string{"b2", "c3"}, m.Snapshot().ZeroResultQueries)
}

func TestQueryMetrics_NilIsNoop(t *testing.T) {
	var m *QueryMetrics
	assert.NotPanics(t, func() { m.Record(QueryEvent{Query: "x"}) })
}

func TestQueryMetrics_ConcurrentRecord(t *testing.T) {
	m := New(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(QueryEvent{Query: "bitcoin volatility", ResultCount: 1})
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	assert.Equal(t, int64(1000), s.TotalQueries)
	assert.Equal(t, []TermCount{{"bitcoin", 1000}, {"volatility", 1000}}, s.TopTerms)
}

func TestExtractTerms(t *testing.T) {
	assert.Equal(t, []string{"credit", "risk"}, ExtractTerms("  Credit RISK of "))
	assert.Equal(t, []string{"title:bitcoin"}, ExtractTerms("+title:bitcoin"))
	assert.Nil(t, ExtractTerms(""))
}

func TestSnapshot_EmptyPercentage(t *testing.T) {
	assert.Zero(t, New(DefaultConfig()).Snapshot().ZeroResultPercentage())
}
