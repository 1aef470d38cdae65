// Package sections provides the static site sections indexed for search:
// a built-in list, section[id] elements of a built page, or a directory of
// markdown files.
package sections

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Section is one navigable part of the site.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Defaults returns the built-in section list.
func Defaults() []Section {
	return []Section{
		{
			ID:      "about",
			Title:   "About the Lab",
			Content: "Research group for digital finance at the intersection of financial markets, data science and artificial intelligence. We collaborate with universities and industry partners across Europe.",
		},
		{
			ID:      "research",
			Title:   "Research Areas",
			Content: "Credit risk and peer-to-peer lending, explainable machine learning in finance, cryptocurrencies and decentralized finance, sustainable and ESG investing, market microstructure and algorithmic trading.",
		},
		{
			ID:      "team",
			Title:   "Team",
			Content: "Principal investigators, postdoctoral researchers and doctoral candidates working on quantitative finance and financial technology.",
		},
		{
			ID:      "publications",
			Title:   "Publications",
			Content: "Peer-reviewed journal articles, conference papers and preprints with citation metrics, open-access status and BibTeX export. Filter by year, topic and access.",
		},
		{
			ID:      "analytics",
			Title:   "Research Analytics",
			Content: "Publications per year and the co-authorship network of lab members and collaborators.",
		},
		{
			ID:      "contact",
			Title:   "Contact",
			Content: "Get in touch for collaborations, doctoral positions and industry projects.",
		},
	}
}

// Load picks the section source: sectionsDir when set, otherwise siteHTML
// when set, otherwise Defaults.
func Load(siteHTML, sectionsDir string) ([]Section, error) {
	switch {
	case sectionsDir != "":
		return FromMarkdownDir(sectionsDir)
	case siteHTML != "":
		f, err := os.Open(siteHTML)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return FromHTML(f)
	default:
		return Defaults(), nil
	}
}

// FromHTML extracts every section[id] element of a page. The title is the
// first heading inside the section (the id when there is none) and the
// content is the remaining text with whitespace collapsed.
func FromHTML(r io.Reader) ([]Section, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse site html: %w", err)
	}

	var out []Section
	doc.Find("section[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		out = append(out, fromSelection(id, s))
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("no section[id] elements found")
	}
	return out, nil
}

// FromMarkdownDir reads every *.md file of dir in name order. The file name
// without extension is the section id.
func FromMarkdownDir(dir string) ([]Section, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no markdown sections in %s", dir)
	}
	sort.Strings(paths)

	out := make([]Section, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		sec, err := FromMarkdown(id, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, sec)
	}
	slog.Debug("sections_loaded", slog.String("dir", dir), slog.Int("sections", len(out)))
	return out, nil
}

// FromMarkdown renders one markdown document and flattens it to a Section.
func FromMarkdown(id string, md []byte) (Section, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(md, p, renderer)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rendered)))
	if err != nil {
		return Section{}, err
	}
	return fromSelection(id, doc.Find("body")), nil
}

func fromSelection(id string, s *goquery.Selection) Section {
	heading := s.Find("h1, h2, h3").First()
	title := collapse(heading.Text())
	body := s.Clone()
	body.Find("h1, h2, h3").First().Remove()
	body.Find("script, style, nav").Remove()

	if title == "" {
		title = id
	}
	return Section{ID: id, Title: title, Content: collapse(body.Text())}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
