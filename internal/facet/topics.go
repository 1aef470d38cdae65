package facet

import (
	"sort"
	"strings"
)

// Topics maps each topic key to the keywords that identify it.
// Matching is a case-insensitive substring test on title + abstract.
var Topics = map[string][]string{
	"credit":  {"credit", "risk", "default", "loan", "lending", "borrower"},
	"ai":      {"artificial intelligence", "machine learning", "deep learning", "neural", "explainab", "large language"},
	"crypto":  {"crypto", "bitcoin", "blockchain", "ethereum", "token", "defi", "decentrali"},
	"esg":     {"esg", "sustainab", "climate", "green", "environmental", "carbon"},
	"markets": {"market", "trading", "portfolio", "volatility", "asset pricing", "stock"},
}

// TopicKeys returns the known topic keys in sorted order.
func TopicKeys() []string {
	keys := make([]string, 0, len(Topics))
	for k := range Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matchesTopic reports whether text (already lowercase) contains a keyword
// of topic. Unknown topics match nothing.
func matchesTopic(text, topic string) bool {
	for _, kw := range Topics[topic] {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
