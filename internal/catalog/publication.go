package catalog

import (
	"strings"
)

// Publication is one entry of the lab's publication list.
// Year is 0 when unknown. Citations is never negative.
type Publication struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Journal    string `json:"journal,omitempty"`
	Year       int    `json:"year,omitempty"`
	DOI        string `json:"doi,omitempty"`
	Citations  int    `json:"citations"`
	OpenAccess bool   `json:"open_access"`
	Abstract   string `json:"abstract,omitempty"`
	Type       string `json:"type,omitempty"`
}

// HasYear reports whether the publication has a known year.
func (p Publication) HasYear() bool {
	return p.Year > 0
}

// SearchText is the lowercase title and abstract used for topic matching.
func (p Publication) SearchText() string {
	return strings.ToLower(p.Title + " " + p.Abstract)
}

// AuthorNames splits Authors into individual names.
func (p Publication) AuthorNames() (names []string, etAl bool) {
	return SplitAuthors(p.Authors)
}

// DOIURL returns the resolvable DOI link, or "" when there is no DOI.
func (p Publication) DOIURL() string {
	doi := strings.TrimSpace(p.DOI)
	if doi == "" {
		return ""
	}
	if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
		return doi
	}
	return "https://doi.org/" + doi
}

// record is the wire shape of one entry in publications.json.
type record struct {
	OpenAlexID Text `json:"openalex_id"`
	ID         Text `json:"id"`
	Title      Text `json:"title"`
	Authors    Text `json:"authors"`
	Journal    Text `json:"journal"`
	Year       Int  `json:"year"`
	DOI        Text `json:"doi"`
	Citations  Int  `json:"citations"`
	OpenAccess Bool `json:"open_access"`
	Abstract   Text `json:"abstract"`
	Type       Text `json:"type"`
}

func (r record) publication() Publication {
	id := strings.TrimSpace(string(r.OpenAlexID))
	if id == "" {
		id = strings.TrimSpace(string(r.ID))
	}
	return Publication{
		ID:         shortOpenAlexID(id),
		Title:      string(r.Title),
		Authors:    string(r.Authors),
		Journal:    string(r.Journal),
		Year:       max(int(r.Year), 0),
		DOI:        strings.TrimPrefix(strings.TrimSpace(string(r.DOI)), "https://doi.org/"),
		Citations:  max(int(r.Citations), 0),
		OpenAccess: bool(r.OpenAccess),
		Abstract:   string(r.Abstract),
		Type:       strings.TrimSpace(string(r.Type)),
	}
}

// shortOpenAlexID turns "https://openalex.org/W123" into "W123".
func shortOpenAlexID(id string) string {
	return strings.TrimPrefix(id, "https://openalex.org/")
}
