package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"movie-insights/models"
	"movie-insights/utils"
)

const (
	RatingsFile = "ratings.csv"
	MoviesFile  = "movies.csv"
	TagsFile    = "tags.csv"

	noGenres = "(no genres listed)"
)

var (
	// ErrMalformedRow wraps every row-level parse failure.
	ErrMalformedRow = errors.New("malformed row")
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("missing column")

	// yearRegexp captures the production year MovieLens appends to titles.
	yearRegexp = regexp.MustCompile(`\((\d{4})\)\s*$`)
)

// CSVLoader reads a MovieLens-style dataset directory.
type CSVLoader struct {
	dir     string
	workers int
	logger  *utils.Logger
}

// NewCSVLoader creates a loader for the ratings, movies and tags files in dir.
func NewCSVLoader(dir string, workers int, logger *utils.Logger) *CSVLoader {
	return &CSVLoader{dir: dir, workers: workers, logger: logger}
}

// Load reads the three tables concurrently. tags.csv is optional.
func (l *CSVLoader) Load() (*models.Dataset, error) {
	started := time.Now()
	ds := &models.Dataset{}
	pool := utils.NewWorkerPool(l.workers)

	pool.Submit(func() (err error) {
		ds.Ratings, err = readFile(filepath.Join(l.dir, RatingsFile), ReadRatings)
		return err
	})
	pool.Submit(func() (err error) {
		ds.Movies, err = readFile(filepath.Join(l.dir, MoviesFile), ReadMovies)
		return err
	})
	pool.Submit(func() error {
		path := filepath.Join(l.dir, TagsFile)
		tags, err := readFile(path, ReadTags)
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("[csv] %s not found, continuing without tags", path)
			ds.Tags = []models.Tag{}
			return nil
		}
		ds.Tags = tags
		return err
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("[csv] Loaded %d ratings, %d movies, %d tags from %s",
		len(ds.Ratings), len(ds.Movies), len(ds.Tags), l.dir)
	l.logger.Elapsed("csv-load", started)
	return ds, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// table is a CSV reader that resolves columns by header name.
type table struct {
	r       *csv.Reader
	columns map[string]int
	line    int
}

func newTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return &table{r: cr, columns: cols, line: 1}, nil
}

func (t *table) has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

func (t *table) require(names ...string) error {
	for _, n := range names {
		if !t.has(n) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	return nil
}

// next returns the following record, or io.EOF.
func (t *table) next() ([]string, error) {
	rec, err := t.r.Read()
	t.line++
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, t.line, err)
	}
	return rec, nil
}

func (t *table) field(rec []string, name string) (string, error) {
	i := t.columns[name]
	if i >= len(rec) {
		return "", fmt.Errorf("%w: line %d: no value for %q", ErrMalformedRow, t.line, name)
	}
	return strings.TrimSpace(rec[i]), nil
}

func (t *table) int64Field(rec []string, name string) (int64, error) {
	s, err := t.field(rec, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s=%q", ErrMalformedRow, t.line, name, s)
	}
	return n, nil
}

func (t *table) floatField(rec []string, name string) (float64, error) {
	s, err := t.field(rec, name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s=%q", ErrMalformedRow, t.line, name, s)
	}
	return f, nil
}

// timeField reads either a unix "timestamp" column or a preformatted
// "datetime_rating"/"datetime_tag" column.
func (t *table) timeField(rec []string, unixCol, datetimeCol string) (time.Time, error) {
	if t.has(unixCol) {
		secs, err := t.int64Field(rec, unixCol)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	if t.has(datetimeCol) {
		s, err := t.field(rec, datetimeCol)
		if err != nil {
			return time.Time{}, err
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: line %d: %s=%q", ErrMalformedRow, t.line, datetimeCol, s)
	}
	return time.Time{}, nil
}

// ReadRatings parses userId,movieId,rating plus either timestamp (unix
// seconds) or datetime_rating.
func ReadRatings(r io.Reader) ([]models.Rating, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("userId", "movieId", "rating"); err != nil {
		return nil, err
	}

	ratings := make([]models.Rating, 0, 1024)
	for {
		rec, err := t.next()
		if err == io.EOF {
			return ratings, nil
		}
		if err != nil {
			return nil, err
		}

		var r models.Rating
		if r.UserID, err = t.int64Field(rec, "userId"); err != nil {
			return nil, err
		}
		if r.MovieID, err = t.int64Field(rec, "movieId"); err != nil {
			return nil, err
		}
		if r.Rating, err = t.floatField(rec, "rating"); err != nil {
			return nil, err
		}
		if r.RatedAt, err = t.timeField(rec, "timestamp", "datetime_rating"); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
}

// ReadMovies parses movieId,title,genres. The year comes from a movie_year
// column when present, otherwise from the "(YYYY)" suffix of the title.
func ReadMovies(r io.Reader) ([]models.Movie, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("movieId", "title", "genres"); err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, 1024)
	for {
		rec, err := t.next()
		if err == io.EOF {
			return movies, nil
		}
		if err != nil {
			return nil, err
		}

		var m models.Movie
		if m.MovieID, err = t.int64Field(rec, "movieId"); err != nil {
			return nil, err
		}
		if m.Title, err = t.field(rec, "title"); err != nil {
			return nil, err
		}
		genres, err := t.field(rec, "genres")
		if err != nil {
			return nil, err
		}
		m.Genres = ParseGenres(genres)

		if t.has("movie_year") {
			year, err := t.int64Field(rec, "movie_year")
			if err != nil {
				return nil, err
			}
			m.Year = int(year)
		} else {
			m.Year = ParseYear(m.Title)
		}
		movies = append(movies, m)
	}
}

// ReadTags parses userId,movieId,tag plus an optional timestamp.
func ReadTags(r io.Reader) ([]models.Tag, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("movieId", "tag"); err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, 256)
	for {
		rec, err := t.next()
		if err == io.EOF {
			return tags, nil
		}
		if err != nil {
			return nil, err
		}

		var tg models.Tag
		if t.has("userId") {
			if tg.UserID, err = t.int64Field(rec, "userId"); err != nil {
				return nil, err
			}
		}
		if tg.MovieID, err = t.int64Field(rec, "movieId"); err != nil {
			return nil, err
		}
		if tg.Tag, err = t.field(rec, "tag"); err != nil {
			return nil, err
		}
		if tg.TaggedAt, err = t.timeField(rec, "timestamp", "datetime_tag"); err != nil {
			return nil, err
		}
		tags = append(tags, tg)
	}
}

// ParseYear extracts the trailing "(YYYY)" of a MovieLens title, or 0.
func ParseYear(title string) int {
	m := yearRegexp.FindStringSubmatch(title)
	if len(m) < 2 {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// ParseGenres splits a pipe-separated genre list.
func ParseGenres(raw string) []string {
	if raw == "" || raw == noGenres {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}
