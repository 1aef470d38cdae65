package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/digital-finance/labsite/internal/metrics"
)

// SparklineChars are the eight bar heights of a sparkline.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// NoYearData is printed when no publication has a year.
const NoYearData = "No publications with a known year."

// BarChart renders one row per year with a bar scaled to the busiest year.
func BarChart(hist []metrics.YearCount, width int, s Styles) string {
	if len(hist) == 0 {
		return NoYearData + "\n"
	}
	if width < 10 {
		width = 10
	}

	peak := 0
	for _, yc := range hist {
		peak = max(peak, yc.Count)
	}

	opts := []progress.Option{
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('█', ' '),
	}
	if s.AccentFG != "" {
		opts = append(opts, progress.WithSolidFill(s.AccentFG))
	}
	bar := progress.New(opts...)

	var b strings.Builder
	for _, yc := range hist {
		ratio := 0.0
		if peak > 0 {
			ratio = float64(yc.Count) / float64(peak)
		}
		fmt.Fprintf(&b, "%s %s %d\n", s.Label.Render(fmt.Sprintf("%d", yc.Year)), bar.ViewAs(ratio), yc.Count)
	}
	return b.String()
}

// Sparkline renders counts as block characters scaled to the largest one.
func Sparkline(counts []int) string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}

	var b strings.Builder
	for _, c := range counts {
		i := 0
		if peak > 0 {
			i = c * (len(SparklineChars) - 1) / peak
		}
		b.WriteRune(SparklineChars[min(max(i, 0), len(SparklineChars)-1)])
	}
	return b.String()
}

// YearSparkline is the sparkline of a year histogram, oldest first.
func YearSparkline(hist []metrics.YearCount) string {
	counts := make([]int, len(hist))
	for i, yc := range hist {
		counts[i] = yc.Count
	}
	return Sparkline(counts)
}
