package services

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
	"time"

	"movie-insights/models"
	"movie-insights/utils"
)

var (
	ErrEmptyGenre  = errors.New("insight: genre must not be empty")
	ErrInvalidYear = errors.New("insight: production year must not be negative")
)

// FigureRenderer draws the summary charts for a genre and decade.
type FigureRenderer interface {
	Render(summaries []models.MovieSummary, genre string, decade int) (image.Image, error)
}

// InsightService compares a movie pitch against the historical dataset.
type InsightService struct {
	logger   *utils.Logger
	renderer FigureRenderer
}

// NewInsightService creates an InsightService. A nil renderer skips figure generation.
func NewInsightService(logger *utils.Logger, renderer FigureRenderer) *InsightService {
	return &InsightService{logger: logger, renderer: renderer}
}

// Decade returns the first year of the decade containing year.
func Decade(year int) int {
	return year / 10 * 10
}

// FindClosestMatch filters the catalog to movies produced in the same
// decade as prodYear whose genres contain genre, aggregates their ratings
// and tags, and renders the comparison figure.
func (s *InsightService) FindClosestMatch(genre string, prodYear int, ds *models.Dataset) (*models.InsightResult, error) {
	if genre == "" {
		return nil, ErrEmptyGenre
	}
	if prodYear < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, prodYear)
	}
	started := time.Now()
	decade := Decade(prodYear)

	inDecade := FilterProductionDate(ds.Movies, decade, decade+9)
	rows := FilterGenre(ExplodeGenres(inDecade), genre)
	movies := DistinctMovies(rows)
	s.logger.Info("[insight] %d movies from the %ds, %d matching genre %q",
		len(inDecade), decade, len(movies), genre)

	ratings := RatingsForMovies(ds.Ratings, movies)
	summaries := Aggregate(ratings, movies, ds.Tags)
	s.logger.Info("[insight] Aggregated %d ratings into %d movie summaries", len(ratings), len(summaries))

	result := &models.InsightResult{
		Genre:     genre,
		Year:      prodYear,
		Decade:    decade,
		Filtered:  rows,
		Summaries: summaries,
	}

	if s.renderer != nil {
		fig, err := s.renderer.Render(summaries, genre, decade)
		if err != nil {
			return nil, fmt.Errorf("insight: render figure: %w", err)
		}
		result.Figure = fig
	}

	s.logger.Elapsed("find-closest-match", started)
	return result, nil
}

func (s *InsightService) Print(r *models.InsightResult) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🎬 %s PITCH FROM %d vs THE %dS\033[0m\n", strings.ToUpper(r.Genre), r.Year, r.Decade)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	totalViews := 0
	var ratingSum float64
	for _, m := range r.Summaries {
		totalViews += m.TotalViews
		ratingSum += m.AverageRating * float64(m.TotalViews)
	}
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Genre rows matched     : \033[1m%d\033[0m\n", len(r.Filtered))
	fmt.Printf("  Movies with ratings    : \033[1m%d\033[0m\n", len(r.Summaries))
	fmt.Printf("  Total views            : \033[1m%d\033[0m\n", totalViews)
	if totalViews > 0 {
		fmt.Printf("  Weighted avg rating    : \033[1;32m%.2f ★\033[0m\n", ratingSum/float64(totalViews))
	}
	fmt.Println()

	// Most viewed
	fmt.Printf("\033[1;33m  Most Viewed Movies\033[0m\n")
	fmt.Printf("  %s\n", thin)
	top := mostViewed(r.Summaries, 10)
	if len(top) == 0 {
		fmt.Printf("  No comparable movies found\n")
	}
	for i, m := range top {
		fmt.Printf("  \033[1m%2d.\033[0m %-42s %6d views \033[1;32m%.1f ★\033[0m\n",
			i+1, truncate(m.Title, 40), m.TotalViews, m.AverageRating)
	}
	fmt.Println()

	// Tags
	fmt.Printf("\033[1;33m  Most Common Tags\033[0m\n")
	fmt.Printf("  %s\n", thin)
	tags := tagCounts(r.Summaries)
	if len(tags) == 0 {
		fmt.Printf("  No tags recorded\n")
	}
	if len(tags) > 10 {
		tags = tags[:10]
	}
	for _, tc := range tags {
		bar := strings.Repeat("█", min(tc.count, 40))
		fmt.Printf("  %-30s %s (%d)\n", truncate(tc.tag, 28), bar, tc.count)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func mostViewed(summaries []models.MovieSummary, n int) []models.MovieSummary {
	sorted := make([]models.MovieSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalViews > sorted[j].TotalViews
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

type tagCount struct {
	tag   string
	count int
}

func tagCounts(summaries []models.MovieSummary) []tagCount {
	counts := make(map[string]int)
	for _, m := range summaries {
		for _, t := range m.Tags {
			counts[t]++
		}
	}
	out := make([]tagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, tagCount{t, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].tag < out[j].tag
	})
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
