package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/digital-finance/labsite/internal/bibtex"
)

// Resource URIs.
const (
	QueryMetricsURI = "labsite://query_metrics"
	BibliographyURI = "labsite://" + bibtex.FileName
)

// QueryMetricsOutput is the query_metrics resource payload.
type QueryMetricsOutput struct {
	Summary             QueryMetricsSummary `json:"summary"`
	QueryKindCounts     map[string]int64    `json:"query_kind_counts"`
	TopTerms            []QueryTermCount    `json:"top_terms"`
	ZeroResultQueries   []string            `json:"zero_result_queries"`
	LatencyDistribution map[string]int64    `json:"latency_distribution"`
}

// QueryMetricsSummary holds the headline figures.
type QueryMetricsSummary struct {
	TotalQueries  int64   `json:"total_queries"`
	CacheHits     int64   `json:"cache_hits"`
	TimePeriod    string  `json:"time_period"`
	ZeroResultPct float64 `json:"zero_result_pct"`
}

// QueryTermCount is a term and its frequency.
type QueryTermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "query_metrics",
			URI:         QueryMetricsURI,
			Description: "Search query telemetry for this session",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			return s.ReadResource(ctx, QueryMetricsURI)
		},
	)
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        bibtex.FileName,
			URI:         BibliographyURI,
			Description: "BibTeX entries for every publication in the catalog",
			MIMEType:    "application/x-bibtex",
		},
		func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			return s.ReadResource(ctx, BibliographyURI)
		},
	)
}

// ReadResource renders the resource at uri from the current site state.
func (s *Server) ReadResource(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	switch uri {
	case QueryMetricsURI:
		content, err := json.MarshalIndent(s.queryMetrics(), "", "  ")
		if err != nil {
			return nil, MapError(err)
		}
		return textResource(uri, "application/json", string(content)), nil
	case BibliographyURI:
		return textResource(uri, "application/x-bibtex", bibtex.All(s.site.Catalog().All())), nil
	default:
		return nil, NewResourceNotFoundError(uri)
	}
}

func (s *Server) queryMetrics() QueryMetricsOutput {
	snapshot := s.site.QueryMetrics()

	out := QueryMetricsOutput{
		Summary: QueryMetricsSummary{
			TotalQueries:  snapshot.TotalQueries,
			CacheHits:     snapshot.CacheHits,
			TimePeriod:    "session",
			ZeroResultPct: snapshot.ZeroResultPercentage(),
		},
		QueryKindCounts:     make(map[string]int64, len(snapshot.KindCounts)),
		TopTerms:            make([]QueryTermCount, 0, len(snapshot.TopTerms)),
		ZeroResultQueries:   snapshot.ZeroResultQueries,
		LatencyDistribution: make(map[string]int64, len(snapshot.LatencyDistribution)),
	}
	if out.ZeroResultQueries == nil {
		out.ZeroResultQueries = []string{}
	}
	for kind, n := range snapshot.KindCounts {
		out.QueryKindCounts[string(kind)] = n
	}
	for _, tc := range snapshot.TopTerms {
		out.TopTerms = append(out.TopTerms, QueryTermCount{Term: tc.Term, Count: tc.Count})
	}
	for bucket, n := range snapshot.LatencyDistribution {
		out.LatencyDistribution[string(bucket)] = n
	}
	return out
}

func textResource(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: mimeType, Text: text},
		},
	}
}
