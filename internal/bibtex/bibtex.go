// Package bibtex renders publications as BibTeX entries.
package bibtex

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/digital-finance/labsite/internal/catalog"
)

// FileName is the suggested name for an exported bibliography.
const FileName = "publications.bib"

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

// EntryType is "article" for journal articles and "misc" otherwise.
func EntryType(p catalog.Publication) string {
	if strings.EqualFold(strings.TrimSpace(p.Type), "article") {
		return "article"
	}
	return "misc"
}

// Authors joins the author list with " and ". A trailing "et al." becomes
// "others".
func Authors(p catalog.Publication) string {
	names, etAl := p.AuthorNames()
	if etAl {
		names = append(names, "others")
	}
	return strings.Join(names, " and ")
}

// Entry renders one publication. The citation key is the publication id.
func Entry(p catalog.Publication) string {
	year := ""
	if p.HasYear() {
		year = strconv.Itoa(p.Year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", EntryType(p), p.ID)
	field(&b, "title", escaper.Replace(p.Title), true)
	field(&b, "author", escaper.Replace(Authors(p)), true)
	field(&b, "journal", escaper.Replace(p.Journal), true)
	field(&b, "year", year, true)
	field(&b, "doi", p.DOI, false)
	b.WriteString("}")
	return b.String()
}

func field(b *strings.Builder, name, value string, more bool) {
	fmt.Fprintf(b, "  %s = {%s}", name, value)
	if more {
		b.WriteString(",")
	}
	b.WriteString("\n")
}

// All renders pubs separated by blank lines.
func All(pubs []catalog.Publication) string {
	entries := make([]string, 0, len(pubs))
	for _, p := range pubs {
		entries = append(entries, Entry(p))
	}
	return strings.Join(entries, "\n\n")
}

// Write writes All(pubs) followed by a newline.
func Write(w io.Writer, pubs []catalog.Publication) error {
	if len(pubs) == 0 {
		return nil
	}
	_, err := io.WriteString(w, All(pubs)+"\n")
	return err
}
