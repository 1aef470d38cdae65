package mcp

import (
	"github.com/digital-finance/labsite/internal/async"
	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/metrics"
)

// Tool names.
const (
	ToolSearchSite         = "search_site"
	ToolFilterPublications = "filter_publications"
	ToolPublicationMetrics = "publication_metrics"
	ToolExportBibtex       = "export_bibtex"
	ToolCoauthorGraph      = "coauthor_graph"
	ToolIndexStatus        = "index_status"
)

// SearchInput defines the input schema for the search_site tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"prefix query over section and publication titles and text"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 5"`
}

// SearchOutput defines the output schema for the search_site tool.
type SearchOutput struct {
	Query     string               `json:"query"`
	Results   []SearchResultOutput `json:"results"`
	NoResults bool                 `json:"no_results,omitempty" jsonschema:"true when the query matched nothing"`
	Pending   bool                 `json:"pending,omitempty" jsonschema:"true when the index is still being built"`
}

// SearchResultOutput is one ranked hit.
type SearchResultOutput struct {
	Title  string  `json:"title"`
	Kind   string  `json:"kind" jsonschema:"section or publication"`
	Anchor string  `json:"anchor" jsonschema:"page anchor the hit navigates to"`
	Ref    string  `json:"ref"`
	Score  float64 `json:"score"`
}

// FacetInput selects a subset of publications. Empty values mean "all".
type FacetInput struct {
	Year   string `json:"year,omitempty" jsonschema:"publication year or all"`
	Topic  string `json:"topic,omitempty" jsonschema:"one of ai, credit, crypto, esg, markets, or all"`
	Access string `json:"access,omitempty" jsonschema:"open or all"`
}

// FilterOutput defines the output schema for the filter_publications tool.
type FilterOutput struct {
	Selection    facet.Selection       `json:"selection"`
	Publications []catalog.Publication `json:"publications"`
	Metrics      metrics.Metrics       `json:"metrics"`
	NoResults    bool                  `json:"no_results"`
}

// MetricsOutput defines the output schema for the publication_metrics tool.
type MetricsOutput struct {
	Selection facet.Selection     `json:"selection"`
	Metrics   metrics.Metrics     `json:"metrics"`
	Years     []metrics.YearCount `json:"years" jsonschema:"publications per year, ascending"`
}

// BibtexInput defines the input schema for the export_bibtex tool.
type BibtexInput struct {
	IDs []string `json:"ids,omitempty" jsonschema:"publication ids; empty exports the currently visible publications"`
}

// BibtexOutput defines the output schema for the export_bibtex tool.
type BibtexOutput struct {
	Count  int    `json:"count"`
	BibTeX string `json:"bibtex"`
}

// GraphInput defines the input schema for the coauthor_graph tool (no parameters).
type GraphInput struct{}

// GraphOutput is the node-link co-authorship data.
type GraphOutput struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// GraphNode is one author.
type GraphNode struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Group        int    `json:"group" jsonschema:"1 for lab members, 2 for collaborators"`
	Publications int    `json:"publications"`
}

// GraphLink connects two co-authors.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// IndexStatusInput defines the input schema for the index_status tool (no parameters).
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	Index   async.ProgressSnapshot `json:"index"`
	Catalog CatalogInfo            `json:"catalog"`
	Queries QueryStats             `json:"queries"`
}

// CatalogInfo summarizes the loaded publications.
type CatalogInfo struct {
	Publications int   `json:"publications"`
	Years        []int `json:"years"`
}

// QueryStats summarizes query telemetry for this session.
type QueryStats struct {
	TotalQueries  int64   `json:"total_queries"`
	CacheHits     int64   `json:"cache_hits"`
	ZeroResultPct float64 `json:"zero_result_pct"`
}
