package ui

import (
	"fmt"
	"strings"

	"github.com/digital-finance/labsite/internal/async"
	"github.com/digital-finance/labsite/internal/telemetry"
)

// RenderStatus draws the index build state and query telemetry in a panel.
func RenderStatus(build async.ProgressSnapshot, queries telemetry.Snapshot, s Styles) string {
	var b strings.Builder
	b.WriteString(s.Header.Render("Search index") + "\n")

	status := build.Status
	if build.Status == string(async.StatusFailed) {
		status = s.Warning.Render(status)
	}
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("status:   "), status)
	if build.Source != "" {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("source:   "), build.Source)
	}
	fmt.Fprintf(&b, "%s %d\n", s.Label.Render("documents:"), build.Documents)
	fmt.Fprintf(&b, "%s %d\n", s.Label.Render("build:    "), build.Generation)
	if build.ErrorMessage != "" {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("error:    "), s.Warning.Render(build.ErrorMessage))
	}

	if queries.TotalQueries > 0 {
		b.WriteString("\n" + s.Header.Render("Queries") + "\n")
		fmt.Fprintf(&b, "%s %d (%d cached, %.0f%% without results)\n",
			s.Label.Render("total:    "), queries.TotalQueries, queries.CacheHits, queries.ZeroResultPercentage())
		terms := make([]string, 0, 5)
		for i, tc := range queries.TopTerms {
			if i == 5 {
				break
			}
			terms = append(terms, fmt.Sprintf("%s (%d)", tc.Term, tc.Count))
		}
		if len(terms) > 0 {
			fmt.Fprintf(&b, "%s %s\n", s.Label.Render("top terms:"), strings.Join(terms, ", "))
		}
	}

	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
