package catalog

import (
	"strings"
	"unicode"
)

// SplitAuthors parses a delimited author list into names.
//
// The site data uses "Last, F., Last2, G. H., et al.", so a comma-separated
// token made only of initials is joined back onto the preceding surname.
// Lists separated by ";" or " and " are split on that separator instead.
// etAl reports a trailing "et al." marker, which is not returned as a name.
func SplitAuthors(authors string) (names []string, etAl bool) {
	authors = strings.TrimSpace(authors)
	if authors == "" {
		return nil, false
	}

	var tokens []string
	switch {
	case strings.Contains(authors, ";"):
		tokens = strings.Split(authors, ";")
	case strings.Contains(authors, " and "):
		tokens = strings.Split(authors, " and ")
	default:
		tokens = strings.Split(authors, ",")
	}

	var parts []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if isEtAl(tok) {
			etAl = true
			continue
		}
		parts = append(parts, tok)
	}

	for i := 0; i < len(parts); i++ {
		name := parts[i]
		if i+1 < len(parts) && isInitials(parts[i+1]) && !isInitials(name) {
			name += ", " + parts[i+1]
			i++
		}
		names = append(names, name)
	}
	return names, etAl
}

func isEtAl(tok string) bool {
	t := strings.ToLower(strings.TrimSuffix(tok, "."))
	return t == "et al" || t == "others"
}

// isInitials matches "F.", "G. H.", "J.-P.", "Ch." and bare "F".
// A two-letter token needs the dot so surnames like "Li" are not initials.
func isInitials(tok string) bool {
	fields := strings.FieldsFunc(tok, func(r rune) bool { return r == ' ' || r == '-' })
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		dotted := strings.HasSuffix(f, ".")
		runes := []rune(strings.TrimSuffix(f, "."))
		switch {
		case len(runes) == 0 || !unicode.IsUpper(runes[0]):
			return false
		case len(runes) == 1:
		case len(runes) == 2 && dotted:
		default:
			return false
		}
	}
	return true
}
