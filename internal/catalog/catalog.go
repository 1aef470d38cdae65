package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// idNamespace seeds synthesized publication ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("labsite:publication"))

// Catalog is the ordered, read-only publication list.
type Catalog struct {
	pubs []Publication
	byID map[string]int
}

// New builds a Catalog from records in order. Titles and abstracts are
// cleaned, missing ids are synthesized and duplicate ids get a -N suffix.
func New(records []Publication) *Catalog {
	c := &Catalog{
		pubs: make([]Publication, len(records)),
		byID: make(map[string]int, len(records)),
	}
	for i, p := range records {
		p.Title = CleanText(p.Title)
		p.Abstract = CleanText(p.Abstract)
		if p.Citations < 0 {
			p.Citations = 0
		}
		if p.Year < 0 {
			p.Year = 0
		}
		if strings.TrimSpace(p.ID) == "" {
			p.ID = StableID(p)
		}
		p.ID = c.uniqueID(strings.TrimSpace(p.ID))
		c.byID[p.ID] = i
		c.pubs[i] = p
	}
	return c
}

// StableID derives a deterministic id from title, year and DOI.
func StableID(p Publication) string {
	key := strings.ToLower(strings.TrimSpace(p.Title)) + "|" + strconv.Itoa(p.Year) + "|" + strings.ToLower(strings.TrimSpace(p.DOI))
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func (c *Catalog) uniqueID(id string) string {
	if _, taken := c.byID[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := c.byID[candidate]; !taken {
			return candidate
		}
	}
}

// Decode reads a JSON array of publication records.
func Decode(r io.Reader) (*Catalog, error) {
	var raw []record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode publications: %w", err)
	}
	pubs := make([]Publication, len(raw))
	for i, rec := range raw {
		pubs[i] = rec.publication()
	}
	return New(pubs), nil
}

// LoadFile decodes the publications file at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of publications.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.pubs)
}

// At returns the publication at position i.
func (c *Catalog) At(i int) Publication {
	return c.pubs[i]
}

// All returns a copy of the publications in catalog order.
func (c *Catalog) All() []Publication {
	if c == nil {
		return nil
	}
	return slices.Clone(c.pubs)
}

// ByID looks a publication up by id.
func (c *Catalog) ByID(id string) (Publication, bool) {
	if c == nil {
		return Publication{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Publication{}, false
	}
	return c.pubs[i], true
}

// Years returns the distinct known years, newest first.
func (c *Catalog) Years() []int {
	if c == nil {
		return nil
	}
	seen := make(map[int]bool)
	var years []int
	for _, p := range c.pubs {
		if p.HasYear() && !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}
