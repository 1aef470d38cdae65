package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/theme"
)

func TestBarChart(t *testing.T) {
	// Given: a histogram with a busiest year
	hist := []metrics.YearCount{{Year: 2021, Count: 1}, {Year: 2022, Count: 4}}

	// When: rendering without color
	out := BarChart(hist, 20, NewStyles(theme.Light, true))

	// Then: one row per year, the busiest bar is full width
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "2021 "))
	assert.True(t, strings.HasSuffix(lines[0], " 1"))
	assert.True(t, strings.HasSuffix(lines[1], " 4"))
	assert.Equal(t, 5, strings.Count(lines[0], "█"))
	assert.Equal(t, 20, strings.Count(lines[1], "█"))
}

func TestBarChart_Empty(t *testing.T) {
	assert.Equal(t, NoYearData+"\n", BarChart(nil, 20, NewStyles(theme.Light, true)))
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   string
	}{
		{"empty", nil, ""},
		{"zeros", []int{0, 0}, "▁▁"},
		{"ramp", []int{0, 7, 14}, "▁▄█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.counts))
		})
	}
}

func TestYearSparkline(t *testing.T) {
	got := YearSparkline([]metrics.YearCount{{Year: 2020, Count: 1}, {Year: 2021, Count: 1}})
	assert.Equal(t, "██", got)
}
