package storage

import (
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"movie-insights/models"
	"movie-insights/utils"
)

const (
	ratingsCSV = "userId,movieId,rating,timestamp\n1,1,4.0,964982703\n1,3,4.5,964981247\n2,1,5.0,964982224\n"
	moviesCSV  = "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
		"3,Grumpier Old Men (1995),Comedy|Romance\n" +
		"7,\"Sabrina, Uncut\",(no genres listed)\n"
	tagsCSV = "userId,movieId,tag,timestamp\n2,1,pixar,1445714994\n2,1,fun,1445714996\n"
)

func TestReadRatings(t *testing.T) {
	ratings, err := ReadRatings(strings.NewReader(ratingsCSV))
	if err != nil {
		t.Fatalf("ReadRatings: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("len: got %d, want 3", len(ratings))
	}
	r := ratings[1]
	if r.UserID != 1 || r.MovieID != 3 || r.Rating != 4.5 {
		t.Errorf("ratings[1]: got %+v", r)
	}
	if !r.RatedAt.Equal(time.Unix(964981247, 0)) {
		t.Errorf("RatedAt: got %v", r.RatedAt)
	}
}

func TestReadRatingsDatetimeColumn(t *testing.T) {
	in := "userId,movieId,rating,datetime_rating\n1,1,3.5,2000-07-30 18:45:03\n"
	ratings, err := ReadRatings(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRatings: %v", err)
	}
	want := time.Date(2000, 7, 30, 18, 45, 3, 0, time.UTC)
	if !ratings[0].RatedAt.Equal(want) {
		t.Errorf("RatedAt: got %v, want %v", ratings[0].RatedAt, want)
	}
}

func TestReadRatingsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"bad rating", "userId,movieId,rating,timestamp\n1,1,great,0\n", ErrMalformedRow},
		{"bad id", "userId,movieId,rating,timestamp\n1,x,4,0\n", ErrMalformedRow},
		{"short row", "userId,movieId,rating,timestamp\n1,1\n", ErrMalformedRow},
		{"missing column", "userId,rating\n1,4\n", ErrMissingColumn},
	}
	for _, tt := range tests {
		if _, err := ReadRatings(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestReadMovies(t *testing.T) {
	movies, err := ReadMovies(strings.NewReader(moviesCSV))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("len: got %d, want 3", len(movies))
	}
	if movies[0].Year != 1995 || len(movies[0].Genres) != 5 || movies[0].Genres[3] != "Comedy" {
		t.Errorf("movies[0]: got %+v", movies[0])
	}
	if movies[2].Title != "Sabrina, Uncut" || movies[2].Year != 0 {
		t.Errorf("movies[2]: got %+v", movies[2])
	}
	if movies[2].Genres == nil || len(movies[2].Genres) != 0 {
		t.Errorf("no-genre movie should have an empty genre list, got %v", movies[2].Genres)
	}
}

func TestReadMoviesYearColumn(t *testing.T) {
	in := "movieId,title,movie_year,genres\n1,Heat,1995,Action|Crime\n"
	movies, err := ReadMovies(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if movies[0].Year != 1995 {
		t.Errorf("Year: got %d, want 1995", movies[0].Year)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Toy Story (1995)", 1995},
		{"Babylon 5 (1994) ", 1994},
		{"1984 (1956)", 1956},
		{"Untitled", 0},
		{"Year (199)", 0},
	}
	for _, tt := range tests {
		if got := ParseYear(tt.title); got != tt.want {
			t.Errorf("ParseYear(%q) = %d; want %d", tt.title, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCSVLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RatingsFile, ratingsCSV)
	writeFile(t, dir, MoviesFile, moviesCSV)
	writeFile(t, dir, TagsFile, tagsCSV)

	ds, err := NewCSVLoader(dir, 3, utils.NewNopLogger()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Ratings) != 3 || len(ds.Movies) != 3 || len(ds.Tags) != 2 {
		t.Errorf("counts: got %d/%d/%d, want 3/3/2", len(ds.Ratings), len(ds.Movies), len(ds.Tags))
	}
}

func TestCSVLoaderMissingTags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RatingsFile, ratingsCSV)
	writeFile(t, dir, MoviesFile, moviesCSV)

	ds, err := NewCSVLoader(dir, 1, utils.NewNopLogger()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Tags == nil || len(ds.Tags) != 0 {
		t.Errorf("Tags: got %v, want empty", ds.Tags)
	}
}

func TestCSVLoaderMissingRatings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, MoviesFile, moviesCSV)

	if _, err := NewCSVLoader(dir, 2, utils.NewNopLogger()).Load(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load: got %v, want not-exist error", err)
	}
}

func TestCSVWriterSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	err = w.WriteSummaries([]models.MovieSummary{
		{MovieID: 1, Title: "Toy Story (1995)", Year: 1995, Genres: []string{"Animation", "Comedy"}, TotalViews: 2, AverageRating: 4.5, Tags: []string{"pixar", "fun"}},
		{MovieID: 3, Title: "Grumpier Old Men (1995)", Year: 1995, Genres: []string{"Comedy"}, TotalViews: 1, AverageRating: 4.5, Tags: []string{}},
	})
	if err != nil {
		t.Fatalf("WriteSummaries: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(SummaryHeader, ",") {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[1][3] != "Animation|Comedy" || rows[1][5] != "4.5000" || rows[1][6] != "pixar|fun" {
		t.Errorf("row 1: got %v", rows[1])
	}
}

func TestTextArrayNil(t *testing.T) {
	v, ok := textArray(nil).(driver.Valuer)
	if !ok {
		t.Fatal("textArray should return a driver.Valuer")
	}
	got, err := v.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if got != "{}" {
		t.Errorf("nil slice: got %v, want {}", got)
	}
}
