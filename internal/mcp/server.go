package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/digital-finance/labsite/internal/bibtex"
	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/graph"
	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/site"
	"github.com/digital-finance/labsite/pkg/version"
)

// ServerName is reported to clients during initialization.
const ServerName = "labsite"

// Options configures a Server.
type Options struct {
	// Team lists lab members for the co-authorship graph.
	Team []string
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// Server is the MCP server for one publication site session.
type Server struct {
	mcp    *mcp.Server
	site   *site.Site
	team   []string
	logger *slog.Logger
}

var toolInfos = []ToolInfo{
	{
		Name:        ToolSearchSite,
		Description: "Search the lab site's sections and publications. Matches word prefixes, so partial words work; titles rank above body text. Returns at most five hits with the anchor each one navigates to.",
	},
	{
		Name:        ToolFilterPublications,
		Description: "Filter the publication list by year, topic and open-access status. Facets combine with AND; omitted facets mean all. Returns the visible publications and their citation metrics.",
	},
	{
		Name:        ToolPublicationMetrics,
		Description: "Citation metrics (count, total and average citations, open-access count) and publications per year for the publications matching the given facets.",
	},
	{
		Name:        ToolExportBibtex,
		Description: "Export BibTeX entries for the given publication ids, or for the currently visible publications when no ids are given.",
	},
	{
		Name:        ToolCoauthorGraph,
		Description: "Co-authorship network of the catalog as nodes (authors) and weighted links (shared publications).",
	},
	{
		Name:        ToolIndexStatus,
		Description: "Report whether the search index is ready, where it was built from, and query statistics for this session.",
	},
}

// NewServer creates an MCP server bound to s.
func NewServer(s *site.Site, opts Options) (*Server, error) {
	if s == nil {
		return nil, errors.New("site is required")
	}

	srv := &Server{
		site:   s,
		team:   opts.Team,
		logger: slog.Default(),
	}
	srv.mcp = mcp.NewServer(
		&mcp.Implementation{Name: ServerName, Version: version.Version},
		nil,
	)
	srv.registerTools()
	srv.registerResources()
	return srv, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return ServerName, version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(toolInfos))
	copy(out, toolInfos)
	return out
}

func (s *Server) registerTools() {
	desc := make(map[string]string, len(toolInfos))
	for _, t := range toolInfos {
		desc[t.Name] = t.Description
	}

	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolSearchSite, Description: desc[ToolSearchSite]}, s.mcpSearchHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolFilterPublications, Description: desc[ToolFilterPublications]}, s.mcpFilterHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolPublicationMetrics, Description: desc[ToolPublicationMetrics]}, s.mcpMetricsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolExportBibtex, Description: desc[ToolExportBibtex]}, s.mcpBibtexHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolCoauthorGraph, Description: desc[ToolCoauthorGraph]}, s.mcpGraphHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolIndexStatus, Description: desc[ToolIndexStatus]}, s.mcpIndexStatusHandler)

	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(toolInfos)))
}

// CallTool invokes a tool by name. args are decoded into the tool's input
// type the same way the protocol layer does it.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case ToolSearchSite:
		in, err := decodeArgs[SearchInput](args)
		if err != nil {
			return nil, err
		}
		return s.handleSearch(ctx, in)
	case ToolFilterPublications:
		in, err := decodeArgs[FacetInput](args)
		if err != nil {
			return nil, err
		}
		return s.handleFilter(in)
	case ToolPublicationMetrics:
		in, err := decodeArgs[FacetInput](args)
		if err != nil {
			return nil, err
		}
		return s.handleMetrics(in)
	case ToolExportBibtex:
		in, err := decodeArgs[BibtexInput](args)
		if err != nil {
			return nil, err
		}
		return s.handleBibtex(in)
	case ToolCoauthorGraph:
		return s.handleGraph(), nil
	case ToolIndexStatus:
		return s.handleIndexStatus(), nil
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var in T
	if len(args) == 0 {
		return in, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return in, NewInvalidParamsError(err.Error())
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, NewInvalidParamsError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return in, nil
}

func (s *Server) handleSearch(ctx context.Context, in SearchInput) (SearchOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return SearchOutput{}, NewInvalidParamsError("query parameter is required")
	}
	if in.Limit < 0 {
		return SearchOutput{}, NewInvalidParamsError("limit must not be negative")
	}

	res := s.site.Search(ctx, in.Query)
	hits := res.Hits
	if in.Limit > 0 && len(hits) > in.Limit {
		hits = hits[:in.Limit]
	}

	out := SearchOutput{
		Query:     res.Query,
		Results:   make([]SearchResultOutput, 0, len(hits)),
		NoResults: res.NoResults,
		Pending:   res.Pending,
	}
	for _, h := range hits {
		out.Results = append(out.Results, SearchResultOutput{
			Title:  h.Title,
			Kind:   string(h.Kind),
			Anchor: h.Anchor,
			Ref:    h.Ref,
			Score:  h.Score,
		})
	}
	return out, nil
}

func (s *Server) handleFilter(in FacetInput) (FilterOutput, error) {
	view, err := s.site.SetSelection(facet.Selection{Year: in.Year, Topic: in.Topic, Access: in.Access})
	if err != nil {
		return FilterOutput{}, NewInvalidParamsError(err.Error())
	}
	pubs := view.Publications
	if pubs == nil {
		pubs = []catalog.Publication{}
	}
	return FilterOutput{
		Selection:    view.Selection,
		Publications: pubs,
		Metrics:      view.Metrics,
		NoResults:    view.NoResults,
	}, nil
}

func (s *Server) handleMetrics(in FacetInput) (MetricsOutput, error) {
	view, err := s.site.SetSelection(facet.Selection{Year: in.Year, Topic: in.Topic, Access: in.Access})
	if err != nil {
		return MetricsOutput{}, NewInvalidParamsError(err.Error())
	}
	return MetricsOutput{
		Selection: view.Selection,
		Metrics:   view.Metrics,
		Years:     metrics.YearHistogram(view.Publications),
	}, nil
}

func (s *Server) handleBibtex(in BibtexInput) (BibtexOutput, error) {
	var pubs []catalog.Publication
	if len(in.IDs) == 0 {
		pubs = s.site.View().Publications
	} else {
		cat := s.site.Catalog()
		for _, id := range in.IDs {
			p, ok := cat.ByID(id)
			if !ok {
				return BibtexOutput{}, NewInvalidParamsError(fmt.Sprintf("unknown publication id: %s", id))
			}
			pubs = append(pubs, p)
		}
	}
	return BibtexOutput{Count: len(pubs), BibTeX: bibtex.All(pubs)}, nil
}

func (s *Server) handleGraph() GraphOutput {
	g := graph.Build(s.site.Catalog().All(), s.team)
	out := GraphOutput{
		Nodes: make([]GraphNode, 0, len(g.Nodes)),
		Links: make([]GraphLink, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, GraphNode(n))
	}
	for _, l := range g.Links {
		out.Links = append(out.Links, GraphLink(l))
	}
	return out
}

func (s *Server) handleIndexStatus() IndexStatusOutput {
	cat := s.site.Catalog()
	q := s.site.QueryMetrics()
	years := cat.Years()
	if years == nil {
		years = []int{}
	}
	return IndexStatusOutput{
		Index: s.site.IndexStatus(),
		Catalog: CatalogInfo{
			Publications: cat.Len(),
			Years:        years,
		},
		Queries: QueryStats{
			TotalQueries:  q.TotalQueries,
			CacheHits:     q.CacheHits,
			ZeroResultPct: q.ZeroResultPercentage(),
		},
	}
}

func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	out, err := s.handleSearch(ctx, in)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	return textResult(FormatSearchResults(out)), out, nil
}

func (s *Server) mcpFilterHandler(_ context.Context, _ *mcp.CallToolRequest, in FacetInput) (
	*mcp.CallToolResult,
	FilterOutput,
	error,
) {
	out, err := s.handleFilter(in)
	if err != nil {
		return nil, FilterOutput{}, MapError(err)
	}
	return textResult(FormatPublications(out)), out, nil
}

func (s *Server) mcpMetricsHandler(_ context.Context, _ *mcp.CallToolRequest, in FacetInput) (
	*mcp.CallToolResult,
	MetricsOutput,
	error,
) {
	out, err := s.handleMetrics(in)
	if err != nil {
		return nil, MetricsOutput{}, MapError(err)
	}
	return nil, out, nil
}

func (s *Server) mcpBibtexHandler(_ context.Context, _ *mcp.CallToolRequest, in BibtexInput) (
	*mcp.CallToolResult,
	BibtexOutput,
	error,
) {
	out, err := s.handleBibtex(in)
	if err != nil {
		return nil, BibtexOutput{}, MapError(err)
	}
	return textResult(out.BibTeX), out, nil
}

func (s *Server) mcpGraphHandler(_ context.Context, _ *mcp.CallToolRequest, _ GraphInput) (
	*mcp.CallToolResult,
	GraphOutput,
	error,
) {
	return nil, s.handleGraph(), nil
}

func (s *Server) mcpIndexStatusHandler(_ context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	return nil, s.handleIndexStatus(), nil
}

func textResult(text string) *mcp.CallToolResult {
	if text == "" {
		return nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Serve runs the server on the given transport until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("mcp_server_stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}
