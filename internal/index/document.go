// Package index builds the in-memory search index over site sections and
// publications, preferring a pre-generated payload and falling back to the
// live catalog.
package index

import (
	"strconv"
	"strings"
)

// Kind is the class of a search document.
type Kind string

const (
	KindSection     Kind = "section"
	KindPublication Kind = "publication"
)

// PublicationsAnchor is where every publication hit routes to.
const PublicationsAnchor = "#publications"

// Field names in the index.
const (
	FieldTitle   = "title"
	FieldContent = "content"
)

// Document is one indexed unit. The index keeps its own copy.
type Document struct {
	Ref     string `json:"ref"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Anchor  string `json:"anchor"`
}

// SectionDocument projects a site section.
func SectionDocument(s PayloadSection) Document {
	return Document{
		Ref:     s.ID,
		Kind:    KindSection,
		Title:   s.Title,
		Content: s.Content,
		Anchor:  "#" + s.ID,
	}
}

// PublicationDocument projects a publication. Content is authors, journal,
// year and abstract joined by spaces.
func PublicationDocument(p PayloadPublication) Document {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Authors, p.Journal, yearText(p.Year), p.Abstract} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return Document{
		Ref:     PublicationRef(p.ID),
		Kind:    KindPublication,
		Title:   p.Title,
		Content: strings.Join(parts, " "),
		Anchor:  PublicationsAnchor,
	}
}

// PublicationRef is the document ref of publication id.
func PublicationRef(id string) string {
	return "pub-" + id
}

func yearText(y int) string {
	if y <= 0 {
		return ""
	}
	return strconv.Itoa(y)
}
