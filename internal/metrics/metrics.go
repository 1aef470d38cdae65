// Package metrics aggregates citation statistics over a set of publications.
package metrics

import (
	"math"
	"sort"

	"github.com/digital-finance/labsite/internal/catalog"
)

// Metrics are the aggregate figures shown above the publication list.
type Metrics struct {
	Count            int     `json:"count"`
	TotalCitations   int     `json:"total_citations"`
	AverageCitations float64 `json:"average_citations"`
	OpenAccessCount  int     `json:"open_access_count"`
}

// Display receives recomputed metrics. As with facet.Presenter, only a nil
// interface value is skipped.
type Display interface {
	ShowMetrics(Metrics)
}

// Aggregate computes metrics over pubs. It is always a full recompute.
// The average is rounded to one decimal and is 0 for an empty set.
func Aggregate(pubs []catalog.Publication) Metrics {
	m := Metrics{Count: len(pubs)}
	for _, p := range pubs {
		m.TotalCitations += max(p.Citations, 0)
		if p.OpenAccess {
			m.OpenAccessCount++
		}
	}
	if m.Count > 0 {
		m.AverageCitations = math.Round(float64(m.TotalCitations)/float64(m.Count)*10) / 10
	}
	return m
}

// Publish aggregates pubs and pushes the result to d. A nil display is skipped.
func Publish(pubs []catalog.Publication, d Display) Metrics {
	m := Aggregate(pubs)
	if d != nil {
		d.ShowMetrics(m)
	}
	return m
}

// YearCount is one bar of the publications-per-year chart.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearHistogram counts publications per year in ascending year order.
// Publications without a year are ignored.
func YearHistogram(pubs []catalog.Publication) []YearCount {
	counts := make(map[int]int)
	for _, p := range pubs {
		if p.HasYear() {
			counts[p.Year]++
		}
	}

	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
