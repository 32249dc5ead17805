package services

import (
	"sort"
	"strings"
	"time"

	"movie-insights/models"
)

// FilterTimeInterval returns the ratings whose RatedAt lies in the closed
// interval [start, end], newest first. Ratings sharing a timestamp keep
// their input order.
func FilterTimeInterval(ratings []models.Rating, start, end time.Time) []models.Rating {
	result := make([]models.Rating, 0)
	for _, r := range ratings {
		if r.RatedAt.Before(start) || r.RatedAt.After(end) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RatedAt.After(result[j].RatedAt)
	})
	return result
}

// FilterProductionDate returns the movies produced in [prodStart, prodEnd],
// preserving catalog order.
func FilterProductionDate(movies []models.Movie, prodStart, prodEnd int) []models.Movie {
	result := make([]models.Movie, 0)
	for _, m := range movies {
		if m.Year >= prodStart && m.Year <= prodEnd {
			result = append(result, m)
		}
	}
	return result
}

// ExplodeGenres flattens every movie into one row per genre.
func ExplodeGenres(movies []models.Movie) []models.GenreRow {
	rows := make([]models.GenreRow, 0, len(movies))
	for _, m := range movies {
		for _, g := range m.Genres {
			rows = append(rows, models.GenreRow{Movie: m, Genre: g})
		}
	}
	return rows
}

// FilterGenre keeps rows whose genre contains the query, so "Comedy" also
// matches "Romantic Comedy".
func FilterGenre(rows []models.GenreRow, genre string) []models.GenreRow {
	result := make([]models.GenreRow, 0)
	for _, r := range rows {
		if strings.Contains(r.Genre, genre) {
			result = append(result, r)
		}
	}
	return result
}

// DistinctMovies returns the movies referenced by rows, in first-seen order.
func DistinctMovies(rows []models.GenreRow) []models.Movie {
	seen := make(map[int64]struct{}, len(rows))
	movies := make([]models.Movie, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Movie.MovieID]; dup {
			continue
		}
		seen[r.Movie.MovieID] = struct{}{}
		movies = append(movies, r.Movie)
	}
	return movies
}
