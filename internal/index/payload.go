package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/sections"
)

// ErrMalformedPayload marks a payload that cannot be indexed.
var ErrMalformedPayload = errors.New("malformed index payload")

// maxPayloadBytes bounds what FetchPayload will read.
const maxPayloadBytes = 32 << 20

// Payload is the pre-generated index document set.
type Payload struct {
	Sections     []PayloadSection     `json:"sections"`
	Publications []PayloadPublication `json:"publications"`
}

// PayloadSection is a static section in the payload.
type PayloadSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PayloadPublication is a publication in the payload.
type PayloadPublication struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Journal  string `json:"journal"`
	Year     int    `json:"year"`
	Abstract string `json:"abstract"`
}

// UnmarshalJSON accepts the same loose field types as the catalog.
func (p *PayloadPublication) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       catalog.Text `json:"id"`
		Title    catalog.Text `json:"title"`
		Authors  catalog.Text `json:"authors"`
		Journal  catalog.Text `json:"journal"`
		Year     catalog.Int  `json:"year"`
		Abstract catalog.Text `json:"abstract"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PayloadPublication{
		ID:       string(raw.ID),
		Title:    string(raw.Title),
		Authors:  string(raw.Authors),
		Journal:  string(raw.Journal),
		Year:     max(int(raw.Year), 0),
		Abstract: string(raw.Abstract),
	}
	return nil
}

// Documents projects the payload into search documents, sections first.
func (p *Payload) Documents() []Document {
	docs := make([]Document, 0, len(p.Sections)+len(p.Publications))
	for _, s := range p.Sections {
		docs = append(docs, SectionDocument(s))
	}
	for _, pub := range p.Publications {
		docs = append(docs, PublicationDocument(pub))
	}
	return docs
}

// Validate rejects payloads that cannot produce a usable index: no
// documents, empty or duplicate refs, or untitled documents.
func (p *Payload) Validate() error {
	docs := p.Documents()
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents", ErrMalformedPayload)
	}
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		id := strings.TrimSpace(d.Ref)
		if id == "" || id == PublicationRef("") {
			return fmt.Errorf("%w: document %d has no id", ErrMalformedPayload, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformedPayload, id)
		}
		seen[id] = true
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("%w: document %q has no title", ErrMalformedPayload, id)
		}
	}
	return nil
}

// DecodePayload decodes and validates a payload.
func DecodePayload(r io.Reader) (*Payload, error) {
	var p Payload
	dec := json.NewDecoder(io.LimitReader(r, maxPayloadBytes))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchPayload loads a payload from an http(s) URL or a file path. The
// fetch is attempted once.
func FetchPayload(ctx context.Context, client *http.Client, location string) (*Payload, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("no index payload location configured")
	}

	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		f, err := os.Open(location)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return DecodePayload(f)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build payload request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch index payload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch index payload: unexpected status %d", resp.StatusCode)
	}
	return DecodePayload(resp.Body)
}

// FallbackPayload builds the payload from the given sections and the live
// catalog. It performs no I/O.
func FallbackPayload(secs []sections.Section, cat *catalog.Catalog) *Payload {
	p := &Payload{
		Sections:     make([]PayloadSection, 0, len(secs)),
		Publications: make([]PayloadPublication, 0, cat.Len()),
	}
	for _, s := range secs {
		p.Sections = append(p.Sections, PayloadSection{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	for _, pub := range cat.All() {
		p.Publications = append(p.Publications, PayloadPublication{
			ID:       pub.ID,
			Title:    pub.Title,
			Authors:  pub.Authors,
			Journal:  pub.Journal,
			Year:     pub.Year,
			Abstract: pub.Abstract,
		})
	}
	return p
}

// WritePayload writes p as indented JSON.
func WritePayload(w io.Writer, p *Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
