package services

import (
	"movie-insights/models"
)

type ratingStats struct {
	count int
	sum   float64
}

// Aggregate computes total views and average rating per movie and attaches
// each movie's tags. Only movies present in both ratings and movies are
// returned, in catalog order.
func Aggregate(ratings []models.Rating, movies []models.Movie, tags []models.Tag) []models.MovieSummary {
	stats := make(map[int64]*ratingStats)
	for _, r := range ratings {
		s, ok := stats[r.MovieID]
		if !ok {
			s = &ratingStats{}
			stats[r.MovieID] = s
		}
		s.count++
		s.sum += r.Rating
	}

	tagIndex := indexTags(tags)
	emitted := make(map[int64]struct{}, len(movies))
	summaries := make([]models.MovieSummary, 0, len(stats))

	for _, m := range movies {
		s, ok := stats[m.MovieID]
		if !ok {
			continue
		}
		if _, dup := emitted[m.MovieID]; dup {
			continue
		}
		emitted[m.MovieID] = struct{}{}

		movieTags := tagIndex[m.MovieID]
		if movieTags == nil {
			movieTags = []string{}
		}

		summaries = append(summaries, models.MovieSummary{
			MovieID:       m.MovieID,
			Title:         m.Title,
			Year:          m.Year,
			Genres:        m.Genres,
			TotalViews:    s.count,
			AverageRating: s.sum / float64(s.count),
			Tags:          movieTags,
		})
	}
	return summaries
}

// TagsForMovie returns every tag recorded for movieID in record order.
// The result is empty, never nil, when the movie has no tags.
func TagsForMovie(movieID int64, tags []models.Tag) []string {
	result := make([]string, 0)
	for _, t := range tags {
		if t.MovieID == movieID {
			result = append(result, t.Tag)
		}
	}
	return result
}

// RatingsForMovies narrows ratings to those whose movie is in the catalog.
func RatingsForMovies(ratings []models.Rating, movies []models.Movie) []models.Rating {
	ids := make(map[int64]struct{}, len(movies))
	for _, m := range movies {
		ids[m.MovieID] = struct{}{}
	}

	result := make([]models.Rating, 0)
	for _, r := range ratings {
		if _, ok := ids[r.MovieID]; ok {
			result = append(result, r)
		}
	}
	return result
}

// indexTags groups tag strings by movie, equivalent to calling TagsForMovie
// for every movie without rescanning the tag table each time.
func indexTags(tags []models.Tag) map[int64][]string {
	index := make(map[int64][]string)
	for _, t := range tags {
		index[t.MovieID] = append(index[t.MovieID], t.Tag)
	}
	return index
}
