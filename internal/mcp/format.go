package mcp

import (
	"fmt"
	"strings"

	"github.com/digital-finance/labsite/internal/output"
)

// FormatSearchResults formats search results as markdown.
func FormatSearchResults(out SearchOutput) string {
	switch {
	case out.Pending:
		return output.PendingMessage
	case out.NoResults || len(out.Results) == 0:
		return fmt.Sprintf("No results found for \"%s\"", out.Query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search Results for \"%s\"\n\n", out.Query)
	sb.WriteString(plural(len(out.Results), "result"))
	sb.WriteString("\n\n")
	for i, r := range out.Results {
		fmt.Fprintf(&sb, "%d. **%s** (%s) `%s`\n", i+1, r.Title, r.Kind, r.Anchor)
	}
	return sb.String()
}

// FormatPublications formats a filter result as markdown.
func FormatPublications(out FilterOutput) string {
	if out.NoResults {
		return output.NoPublicationsMessage
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Publications (%s)\n\n", out.Selection)
	m := out.Metrics
	fmt.Fprintf(&sb, "%s · %d citations · %.1f avg · %d open access\n\n",
		plural(m.Count, "publication"), m.TotalCitations, m.AverageCitations, m.OpenAccessCount)
	for _, p := range out.Publications {
		fmt.Fprintf(&sb, "- %s\n", output.PublicationLine(p))
		if detail := output.PublicationDetail(p); detail != "" {
			fmt.Fprintf(&sb, "  %s\n", detail)
		}
	}
	return sb.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("Found 1 %s", noun)
	}
	return fmt.Sprintf("Found %d %ss", n, noun)
}
