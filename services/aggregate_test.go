package services

import (
	"math"
	"testing"

	"movie-insights/models"
)

func TestAggregate(t *testing.T) {
	tags := []models.Tag{
		{MovieID: 1, Tag: "funny"},
		{MovieID: 2, Tag: "slow"},
		{MovieID: 1, Tag: "classic"},
	}

	got := Aggregate(sampleRatings(), sampleMovies(), tags)

	// movies 4 and 5 have no ratings and must not appear
	if len(got) != 3 {
		t.Fatalf("len: got %d, want 3", len(got))
	}

	byID := make(map[int64]models.MovieSummary)
	for _, s := range got {
		byID[s.MovieID] = s
	}

	tests := []struct {
		id    int64
		views int
		avg   float64
		tags  int
	}{
		{1, 2, 4.5, 2},
		{2, 2, 2.0, 1},
		{3, 1, 2.5, 0},
	}
	for _, tt := range tests {
		s, ok := byID[tt.id]
		if !ok {
			t.Errorf("movie %d missing from summaries", tt.id)
			continue
		}
		if s.TotalViews != tt.views {
			t.Errorf("movie %d views: got %d, want %d", tt.id, s.TotalViews, tt.views)
		}
		if math.Abs(s.AverageRating-tt.avg) > 1e-9 {
			t.Errorf("movie %d avg: got %.4f, want %.4f", tt.id, s.AverageRating, tt.avg)
		}
		if s.Tags == nil || len(s.Tags) != tt.tags {
			t.Errorf("movie %d tags: got %v, want %d tags", tt.id, s.Tags, tt.tags)
		}
	}
	if byID[1].Tags[0] != "funny" || byID[1].Tags[1] != "classic" {
		t.Errorf("tags should keep record order: got %v", byID[1].Tags)
	}
}

func TestAggregateCatalogOrderAndDuplicates(t *testing.T) {
	movies := []models.Movie{
		{MovieID: 3, Title: "C"},
		{MovieID: 1, Title: "A"},
		{MovieID: 3, Title: "C again"},
	}
	got := Aggregate(sampleRatings(), movies, nil)

	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}
	if got[0].MovieID != 3 || got[1].MovieID != 1 {
		t.Errorf("order: got %d,%d, want 3,1", got[0].MovieID, got[1].MovieID)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, sampleMovies(), nil); len(got) != 0 {
		t.Errorf("no ratings: expected no summaries, got %d", len(got))
	}
}

func TestTagsForMovie(t *testing.T) {
	tags := []models.Tag{{MovieID: 1, Tag: "funny"}, {MovieID: 2, Tag: "dark"}}

	if got := TagsForMovie(1, tags); len(got) != 1 || got[0] != "funny" {
		t.Errorf("TagsForMovie(1): got %v", got)
	}
	got := TagsForMovie(42, tags)
	if got == nil || len(got) != 0 {
		t.Errorf("TagsForMovie(42): expected empty non-nil slice, got %v", got)
	}
}

func TestRatingsForMovies(t *testing.T) {
	got := RatingsForMovies(sampleRatings(), []models.Movie{{MovieID: 2}})
	if len(got) != 2 {
		t.Errorf("len: got %d, want 2", len(got))
	}
	for _, r := range got {
		if r.MovieID != 2 {
			t.Errorf("unexpected movie %d", r.MovieID)
		}
	}
}
