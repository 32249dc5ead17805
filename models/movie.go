package models

import (
	"image"
	"time"
)

// Rating is a single user rating as loaded from ratings.csv or the ratings table.
// RatedAt is assumed to be roughly the moment the user watched the movie.
type Rating struct {
	UserID  int64
	MovieID int64
	Rating  float64
	RatedAt time.Time
}

// Movie is a catalog entry. Year is the production year parsed from the title.
type Movie struct {
	MovieID int64
	Title   string
	Year    int
	Genres  []string
}

// Tag is a free-text label a user attached to a movie.
type Tag struct {
	UserID   int64
	MovieID  int64
	Tag      string
	TaggedAt time.Time
}

// Dataset bundles the three source tables the insight pipeline reads.
type Dataset struct {
	Ratings []Rating
	Movies  []Movie
	Tags    []Tag
}

// GenreRow is one movie paired with one of its genres, the result of
// exploding Movie.Genres into one row per genre.
type GenreRow struct {
	Movie Movie
	Genre string
}

// MovieSummary holds the per-movie aggregates used by the charts.
type MovieSummary struct {
	MovieID       int64
	Title         string
	Year          int
	Genres        []string
	TotalViews    int
	AverageRating float64
	Tags          []string
}

// InsightResult is everything produced by comparing a movie pitch against history.
type InsightResult struct {
	Genre     string
	Year      int
	Decade    int
	Filtered  []GenreRow
	Summaries []MovieSummary
	Figure    image.Image
}
