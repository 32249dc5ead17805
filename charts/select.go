package charts

import (
	"sort"

	"movie-insights/models"
)

// SelectTop returns the n most viewed movies. Ties keep their input order.
// The input slice is not modified.
func SelectTop(summaries []models.MovieSummary, n int) []models.MovieSummary {
	sorted := make([]models.MovieSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalViews > sorted[j].TotalViews
	})

	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
