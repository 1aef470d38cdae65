package search

import (
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/telemetry"
)

var tokenizer = unicodetok.NewUnicodeTokenizer()

// Normalize collapses whitespace. An empty result means "no query".
func Normalize(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// Terms splits q into lowercase index terms.
func Terms(q string) []string {
	stream := tokenizer.Tokenize([]byte(q))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		if t := strings.ToLower(string(tok.Term)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// HasSyntax reports whether q uses field, boost, fuzzy, phrase or
// required/excluded syntax.
func HasSyntax(q string) bool {
	if strings.ContainsAny(q, `:^~"`) {
		return true
	}
	for _, f := range strings.Fields(q) {
		if strings.HasPrefix(f, "+") || strings.HasPrefix(f, "-") {
			return true
		}
	}
	return false
}

// Build turns a normalized query into a bleve query. Plain queries match
// earlier terms exactly and the last term as a prefix, each across a
// boosted title and the content. Queries with syntax go to the query
// string parser with a trailing wildcard.
func Build(q string, titleBoost float64) (query.Query, telemetry.QueryKind, bool) {
	if HasSyntax(q) {
		qs := strings.ToLower(q)
		if r := []rune(qs); len(r) > 0 && (unicode.IsLetter(r[len(r)-1]) || unicode.IsDigit(r[len(r)-1])) {
			qs += "*"
		}
		return bleve.NewQueryStringQuery(qs), telemetry.QueryKindSyntax, true
	}

	terms := Terms(q)
	if len(terms) == 0 {
		return nil, telemetry.QueryKindPrefix, false
	}

	clauses := make([]query.Query, 0, 2*len(terms))
	for i, t := range terms {
		last := i == len(terms)-1
		clauses = append(clauses,
			fieldQuery(t, index.FieldTitle, titleBoost, last),
			fieldQuery(t, index.FieldContent, 1, last),
		)
	}
	return bleve.NewDisjunctionQuery(clauses...), telemetry.QueryKindPrefix, true
}

func fieldQuery(term, field string, boost float64, prefix bool) query.Query {
	if prefix {
		pq := bleve.NewPrefixQuery(term)
		pq.SetField(field)
		pq.SetBoost(boost)
		return pq
	}
	tq := bleve.NewTermQuery(term)
	tq.SetField(field)
	tq.SetBoost(boost)
	return tq
}
