package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is one scored match resolved to its document.
type Hit struct {
	Document
	Score float64 `json:"score"`
}

// Index is an in-memory bleve index plus the documents it was built from.
// It is immutable once built; a rebuild produces a new Index.
type Index struct {
	mu         sync.RWMutex
	bleve      bleve.Index
	docs       map[string]Document
	generation uint64
	source     string
	closed     bool
}

// bleveDocument is what bleve sees of a Document.
type bleveDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// New indexes docs in memory. Refs must be unique.
func New(docs []Document) (*Index, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	own := make(map[string]Document, len(docs))
	batch := idx.NewBatch()
	for _, d := range docs {
		if _, dup := own[d.Ref]; dup {
			_ = idx.Close()
			return nil, fmt.Errorf("duplicate document ref %q", d.Ref)
		}
		own[d.Ref] = d
		if err := batch.Index(d.Ref, bleveDocument{Title: d.Title, Content: d.Content}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index document %s: %w", d.Ref, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("execute batch: %w", err)
	}

	return &Index{bleve: idx, docs: own}, nil
}

// newMapping indexes title and content with the standard analyzer. Term
// vectors keep positions for phrase queries. Boosts are applied at query
// time.
func newMapping() *mapping.IndexMappingImpl {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false
	text.IncludeTermVectors = true

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(FieldTitle, text)
	doc.AddFieldMappingsAt(FieldContent, text)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = standard.Name
	return m
}

// Search runs q and returns at most size hits by descending score.
func (i *Index) Search(ctx context.Context, q query.Query, size int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return nil, fmt.Errorf("index is closed")
	}

	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	res, err := i.bleve.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		d, ok := i.docs[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Document: d, Score: h.Score})
	}
	return hits, nil
}

// Document returns the indexed document with ref.
func (i *Index) Document(ref string) (Document, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	d, ok := i.docs[ref]
	return d, ok
}

// Len returns the number of documents.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs)
}

// Generation identifies the build that produced the index.
func (i *Index) Generation() uint64 {
	return i.generation
}

// Source is "payload" or "fallback".
func (i *Index) Source() string {
	return i.source
}

// Close releases the bleve index. Later searches fail.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.closed = true
	return i.bleve.Close()
}
