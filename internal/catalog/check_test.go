package catalog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ReportsRawProblems(t *testing.T) {
	// Given: the raw fixture records
	data, err := os.ReadFile("testdata/publications.json")
	require.NoError(t, err)
	records, err := DecodeRaw(data)
	require.NoError(t, err)

	// When: checking
	issues := Check(records)

	// Then: markup and the missing year are reported
	kinds := map[IssueKind][]int{}
	for _, is := range issues {
		kinds[is.Kind] = append(kinds[is.Kind], is.Index)
	}
	assert.Equal(t, []int{0}, kinds[IssueAbstractMarkup])
	assert.Equal(t, []int{2}, kinds[IssueMissingYear])
	assert.Empty(t, kinds[IssueDuplicateID])
}

func TestCheck_DuplicateAndMissingTitle(t *testing.T) {
	issues := Check([]Publication{
		{ID: "x", Title: "<b>Bold</b>", Year: 2020},
		{ID: "x", Year: 2021},
	})

	require.Len(t, issues, 3)
	assert.Equal(t, IssueTitleMarkup, issues[0].Kind)
	assert.Equal(t, IssueMissingTitle, issues[1].Kind)
	assert.Equal(t, IssueDuplicateID, issues[2].Kind)
	assert.Contains(t, issues[2].Message, "record 0")
}
