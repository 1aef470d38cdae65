package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips markup from s, unescapes entities and collapses
// whitespace. Abstracts from bibliographic APIs often arrive as JATS XML
// ("<jats:p>...</jats:p>").
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// HasMarkup reports whether s still contains tag-like text.
func HasMarkup(s string) bool {
	return strings.ContainsAny(s, "<>")
}
