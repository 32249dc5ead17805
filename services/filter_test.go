package services

import (
	"testing"
	"time"

	"movie-insights/models"
)

func day(d int) time.Time {
	return time.Date(2000, time.January, d, 12, 0, 0, 0, time.UTC)
}

func sampleRatings() []models.Rating {
	return []models.Rating{
		{UserID: 1, MovieID: 1, Rating: 4.0, RatedAt: day(3)},
		{UserID: 1, MovieID: 2, Rating: 3.0, RatedAt: day(10)},
		{UserID: 2, MovieID: 1, Rating: 5.0, RatedAt: day(5)},
		{UserID: 3, MovieID: 3, Rating: 2.5, RatedAt: day(1)},
		{UserID: 4, MovieID: 2, Rating: 1.0, RatedAt: day(5)},
	}
}

func TestFilterTimeInterval(t *testing.T) {
	got := FilterTimeInterval(sampleRatings(), day(3), day(5))

	if len(got) != 3 {
		t.Fatalf("len: got %d, want 3", len(got))
	}
	for i, r := range got {
		if r.RatedAt.Before(day(3)) || r.RatedAt.After(day(5)) {
			t.Errorf("rating %d outside interval: %v", i, r.RatedAt)
		}
		if i > 0 && r.RatedAt.After(got[i-1].RatedAt) {
			t.Errorf("not sorted descending at %d", i)
		}
	}
	// equal timestamps keep input order
	if got[0].UserID != 2 || got[1].UserID != 4 {
		t.Errorf("tie order: got users %d,%d, want 2,4", got[0].UserID, got[1].UserID)
	}
}

func TestFilterTimeIntervalIdempotent(t *testing.T) {
	once := FilterTimeInterval(sampleRatings(), day(2), day(10))
	twice := FilterTimeInterval(once, day(2), day(10))

	if len(once) != len(twice) {
		t.Fatalf("len: got %d after refilter, want %d", len(twice), len(once))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d changed on refilter: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestFilterTimeIntervalEmpty(t *testing.T) {
	got := FilterTimeInterval(sampleRatings(), day(20), day(25))
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
	if got := FilterTimeInterval(sampleRatings(), day(5), day(3)); len(got) != 0 {
		t.Errorf("start after end: expected empty, got %d rows", len(got))
	}
}

func sampleMovies() []models.Movie {
	return []models.Movie{
		{MovieID: 1, Title: "A", Year: 1990, Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "B", Year: 1991, Genres: []string{"Drama"}},
		{MovieID: 3, Title: "C", Year: 1985, Genres: []string{"Romantic Comedy", "Drama"}},
		{MovieID: 4, Title: "D", Year: 1999, Genres: []string{"Comedy", "Romantic Comedy"}},
		{MovieID: 5, Title: "E", Year: 2000, Genres: nil},
	}
}

func TestFilterProductionDate(t *testing.T) {
	got := FilterProductionDate(sampleMovies(), 1990, 1999)

	wantIDs := []int64{1, 2, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("len: got %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].MovieID != id {
			t.Errorf("got[%d]: movie %d, want %d", i, got[i].MovieID, id)
		}
	}

	if got := FilterProductionDate(sampleMovies(), 1999, 1990); len(got) != 0 {
		t.Errorf("reversed bounds: expected empty, got %d", len(got))
	}
}

func TestExplodeAndFilterGenre(t *testing.T) {
	rows := ExplodeGenres(sampleMovies())
	if len(rows) != 6 {
		t.Fatalf("exploded rows: got %d, want 6", len(rows))
	}

	comedy := FilterGenre(rows, "Comedy")
	if len(comedy) != 4 {
		t.Fatalf("comedy rows: got %d, want 4", len(comedy))
	}
	foundRomantic := false
	for _, r := range comedy {
		if r.Genre == "Romantic Comedy" {
			foundRomantic = true
		}
	}
	if !foundRomantic {
		t.Error("substring match should include Romantic Comedy")
	}

	movies := DistinctMovies(comedy)
	if len(movies) != 3 {
		t.Errorf("distinct comedy movies: got %d, want 3", len(movies))
	}
}
