// Package facet decides which publications are visible under the year,
// topic and access filters.
package facet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// All is the pass-through value for every facet.
const All = "all"

// AccessOpen restricts the access facet to open-access publications.
const AccessOpen = "open"

// ErrInvalidSelection is returned by ParseSelection for unusable input.
var ErrInvalidSelection = errors.New("invalid facet selection")

// Selection is the current value of the three facets.
type Selection struct {
	Year   string `json:"year"`
	Topic  string `json:"topic"`
	Access string `json:"access"`
}

// Reset returns the selection with every facet set to "all".
func Reset() Selection {
	return Selection{Year: All, Topic: All, Access: All}
}

// ParseSelection normalizes user input. Empty values mean "all". The year
// must be "all" or an integer and access must be "all" or "open". Unknown
// topics are accepted; they match nothing.
func ParseSelection(year, topic, access string) (Selection, error) {
	sel := Selection{
		Year:   normalize(year),
		Topic:  normalize(topic),
		Access: normalize(access),
	}
	if sel.Year != All {
		if _, err := strconv.Atoi(sel.Year); err != nil {
			return Selection{}, fmt.Errorf("%w: year %q is not a number", ErrInvalidSelection, year)
		}
	}
	if sel.Access != All && sel.Access != AccessOpen {
		return Selection{}, fmt.Errorf("%w: access must be %q or %q, got %q", ErrInvalidSelection, All, AccessOpen, access)
	}
	return sel, nil
}

// IsReset reports whether every facet is "all".
func (s Selection) IsReset() bool {
	return s.normalized() == Reset()
}

func (s Selection) normalized() Selection {
	return Selection{Year: normalize(s.Year), Topic: normalize(s.Topic), Access: normalize(s.Access)}
}

// String renders the selection for logs.
func (s Selection) String() string {
	return fmt.Sprintf("year=%s topic=%s access=%s", s.Year, s.Topic, s.Access)
}

func normalize(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return All
	}
	return v
}
