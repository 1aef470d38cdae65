package output

import (
	"fmt"
	"strings"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/search"
)

// Messages shown when nothing matches.
const (
	NoPublicationsMessage = "No publications match the selected filters."
	NoResultsMessage      = "No results found."
	PendingMessage        = "Search index is still loading."
)

// PublicationLine renders the one-line summary of p.
func PublicationLine(p catalog.Publication) string {
	year := "----"
	if p.HasYear() {
		year = fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%s  %s", year, p.Title)
}

// PublicationDetail renders authors, journal, citations and access.
func PublicationDetail(p catalog.Publication) string {
	parts := make([]string, 0, 4)
	if p.Authors != "" {
		parts = append(parts, p.Authors)
	}
	if p.Journal != "" {
		parts = append(parts, p.Journal)
	}
	parts = append(parts, fmt.Sprintf("%d citations", p.Citations))
	if p.OpenAccess {
		parts = append(parts, "open access")
	}
	return strings.Join(parts, " · ")
}

// Publications prints pubs, or the no-publications message.
func (w *Writer) Publications(pubs []catalog.Publication) error {
	if w.JSONMode() {
		if pubs == nil {
			pubs = []catalog.Publication{}
		}
		return w.JSON(pubs)
	}
	if len(pubs) == 0 {
		w.Line(NoPublicationsMessage)
		return nil
	}
	for _, p := range pubs {
		w.Line(PublicationLine(p))
		w.Status("", PublicationDetail(p))
		if doi := p.DOIURL(); doi != "" {
			w.Status("", doi)
		}
	}
	return nil
}

// MetricsLine renders m on one line.
func MetricsLine(m metrics.Metrics) string {
	return fmt.Sprintf("%d publications · %d citations · %.1f avg · %d open access",
		m.Count, m.TotalCitations, m.AverageCitations, m.OpenAccessCount)
}

// Metrics prints m.
func (w *Writer) Metrics(m metrics.Metrics) error {
	if w.JSONMode() {
		return w.JSON(m)
	}
	w.Line(MetricsLine(m))
	return nil
}

// SearchResults prints res. Pending and no-match results get their own
// message.
func (w *Writer) SearchResults(res search.Results) error {
	if w.JSONMode() {
		if res.Hits == nil {
			res.Hits = []search.Result{}
		}
		return w.JSON(res)
	}
	switch {
	case res.Pending:
		w.Line(PendingMessage)
	case res.NoResults:
		w.Line(NoResultsMessage)
	default:
		for i, h := range res.Hits {
			w.Linef("%d. %s  [%s %s]", i+1, h.Title, h.Kind, h.Anchor)
		}
	}
	return nil
}

// Issues prints data-check findings.
func (w *Writer) Issues(issues []catalog.Issue) error {
	if w.JSONMode() {
		if issues == nil {
			issues = []catalog.Issue{}
		}
		return w.JSON(issues)
	}
	if len(issues) == 0 {
		w.Success("No issues found")
		return nil
	}
	for _, is := range issues {
		id := is.ID
		if id == "" {
			id = "-"
		}
		w.Warningf("#%d %s [%s] %s", is.Index, id, is.Kind, is.Message)
	}
	w.Newline()
	w.Linef("%d issue(s)", len(issues))
	return nil
}
