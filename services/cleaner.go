package services

import (
	"strings"
	"unicode"

	"movie-insights/models"
	"movie-insights/utils"
)

const (
	minRating = 0.5
	maxRating = 5.0
)

// Cleaner validates a loaded dataset before it enters the pipeline.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns a copy of ds with out-of-range ratings dropped, duplicate
// catalog entries removed, and titles, genres and tags whitespace-normalised.
// Empty tags are dropped.
func (c *Cleaner) Clean(ds *models.Dataset) *models.Dataset {
	out := &models.Dataset{
		Ratings: make([]models.Rating, 0, len(ds.Ratings)),
		Movies:  make([]models.Movie, 0, len(ds.Movies)),
		Tags:    make([]models.Tag, 0, len(ds.Tags)),
	}

	for _, r := range ds.Ratings {
		if r.Rating < minRating || r.Rating > maxRating {
			c.logger.Debug("[cleaner] Dropping rating %.2f for movie %d", r.Rating, r.MovieID)
			continue
		}
		out.Ratings = append(out.Ratings, r)
	}

	seen := make(map[int64]struct{}, len(ds.Movies))
	for _, m := range ds.Movies {
		if _, dup := seen[m.MovieID]; dup {
			c.logger.Debug("[cleaner] Duplicate movie skipped: %d", m.MovieID)
			continue
		}
		seen[m.MovieID] = struct{}{}

		genres := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			if g = normaliseText(g); g != "" {
				genres = append(genres, g)
			}
		}
		m.Title = normaliseText(m.Title)
		m.Genres = genres
		out.Movies = append(out.Movies, m)
	}

	for _, t := range ds.Tags {
		t.Tag = normaliseText(t.Tag)
		if t.Tag == "" {
			continue
		}
		out.Tags = append(out.Tags, t)
	}

	c.logger.Info("[cleaner] Kept %d/%d ratings, %d/%d movies, %d/%d tags",
		len(out.Ratings), len(ds.Ratings), len(out.Movies), len(ds.Movies), len(out.Tags), len(ds.Tags))
	return out
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
