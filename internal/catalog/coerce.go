package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Int is an integer field that tolerates inconsistent JSON: numbers,
// numeric-looking strings (the leading integer is used), null and garbage.
// Anything unparseable decodes to 0. Decoding never fails.
type Int int

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int) UnmarshalJSON(data []byte) error {
	*n = Int(CoerceInt(data))
	return nil
}

// CoerceInt converts a raw JSON value to an int. Fractions are truncated.
func CoerceInt(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		return LeadingInt(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

// LeadingInt parses the integer at the start of s after trimming space:
// "12 citations" is 12, "abc" is 0.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// Bool is a boolean field that accepts JSON booleans, numbers (non-zero is
// true) and the strings "true", "1" and "yes" in any case. Everything
// else, including null, is false.
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = Bool(CoerceBool(data))
	return nil
}

// CoerceBool converts a raw JSON value to a bool.
func CoerceBool(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return string(raw) == "true"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	default:
		return false
	}
}

// Text is a string field that also accepts numbers and arrays (string and
// number elements joined with ", ", other elements skipped). null and other
// shapes decode to "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var elems []Text
		if err := json.Unmarshal(data, &elems); err != nil {
			*t = ""
			return nil
		}
		parts := make([]string, 0, len(elems))
		for _, e := range elems {
			if e != "" {
				parts = append(parts, string(e))
			}
		}
		*t = Text(strings.Join(parts, ", "))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = Text(data)
	default:
		*t = ""
	}
	return nil
}
