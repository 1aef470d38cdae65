package catalog

import (
	"encoding/json"
	"fmt"
)

// IssueKind classifies a data problem found by Check.
type IssueKind string

const (
	IssueTitleMarkup    IssueKind = "title_markup"
	IssueAbstractMarkup IssueKind = "abstract_markup"
	IssueMissingTitle   IssueKind = "missing_title"
	IssueMissingYear    IssueKind = "missing_year"
	IssueDuplicateID    IssueKind = "duplicate_id"
)

// Issue is one problem in the raw publication data.
type Issue struct {
	Index   int       `json:"index"`
	ID      string    `json:"id,omitempty"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// Check inspects raw records before cleaning. Records are the decoded
// file contents in order; markup problems are those New would repair.
func Check(records []Publication) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, p := range records {
		if p.Title == "" {
			issues = append(issues, Issue{Index: i, ID: p.ID, Kind: IssueMissingTitle, Message: "title is empty"})
		} else if HasMarkup(p.Title) {
			issues = append(issues, Issue{Index: i, ID: p.ID, Kind: IssueTitleMarkup, Message: "HTML in title: " + preview(p.Title, 100)})
		}
		if HasMarkup(p.Abstract) {
			issues = append(issues, Issue{Index: i, ID: p.ID, Kind: IssueAbstractMarkup, Message: "HTML in abstract: " + preview(p.Abstract, 200)})
		}
		if !p.HasYear() {
			issues = append(issues, Issue{Index: i, ID: p.ID, Kind: IssueMissingYear, Message: "year is missing"})
		}
		if p.ID != "" {
			if first, dup := seen[p.ID]; dup {
				issues = append(issues, Issue{Index: i, ID: p.ID, Kind: IssueDuplicateID, Message: fmt.Sprintf("id also used by record %d", first)})
			} else {
				seen[p.ID] = i
			}
		}
	}
	return issues
}

// DecodeRaw decodes records without cleaning or id assignment, for Check.
func DecodeRaw(data []byte) ([]Publication, error) {
	var raw []record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	pubs := make([]Publication, len(raw))
	for i, rec := range raw {
		pubs[i] = rec.publication()
	}
	return pubs, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
