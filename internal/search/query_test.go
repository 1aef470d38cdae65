package search

import (
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/telemetry"
)

func TestHasSyntax(t *testing.T) {
	tests := []struct {
		q    string
		want bool
	}{
		{"credit risk", false},
		{"p2p-lending", false},
		{"title:credit", true},
		{"+credit -crypto", true},
		{`"asset pricing"`, true},
		{"credit^2", true},
		{"risk~1", true},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, HasSyntax(tt.q))
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"credit", "risk", "p2p"}, Terms("Credit, RISK; P2P"))
	assert.Empty(t, Terms("  ,, "))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "credit risk", Normalize("  credit \t risk\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestBuild_PlainQuery(t *testing.T) {
	// Given: a two-term query
	// When: building
	q, kind, ok := Build("credit ri", 10)

	// Then: one term and one prefix clause per field
	require.True(t, ok)
	assert.Equal(t, telemetry.QueryKindPrefix, kind)
	dq, isDisjunction := q.(*query.DisjunctionQuery)
	require.True(t, isDisjunction)
	require.Len(t, dq.Disjuncts, 4)

	title, isTerm := dq.Disjuncts[0].(*query.TermQuery)
	require.True(t, isTerm)
	assert.Equal(t, "credit", title.Term)
	assert.Equal(t, "title", title.Field())
	assert.Equal(t, 10.0, title.Boost())

	prefix, isPrefix := dq.Disjuncts[2].(*query.PrefixQuery)
	require.True(t, isPrefix)
	assert.Equal(t, "ri", prefix.Prefix)
}

func TestBuild_SyntaxQueryGetsWildcard(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Title:Bitcoin", "title:bitcoin*"},
		{`"asset pricing"`, `"asset pricing"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, kind, ok := Build(tt.in, 10)

			require.True(t, ok)
			assert.Equal(t, telemetry.QueryKindSyntax, kind)
			qs, isQS := q.(*query.QueryStringQuery)
			require.True(t, isQS)
			assert.Equal(t, tt.want, qs.Query)
		})
	}
}

func TestBuild_NoTerms(t *testing.T) {
	_, _, ok := Build(",,,", 10)
	assert.False(t, ok)
}
