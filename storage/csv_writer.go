package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"movie-insights/models"
)

// SummaryHeader is the column layout of exported summary files.
var SummaryHeader = []string{
	"movieId", "title", "movie_year", "genres", "total_views", "average_rating", "tags",
}

// CSVWriter writes movie summaries to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(SummaryHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteSummaries appends one row per summary. Genres and tags are joined with "|".
func (c *CSVWriter) WriteSummaries(summaries []models.MovieSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range summaries {
		row := []string{
			strconv.FormatInt(s.MovieID, 10),
			s.Title,
			strconv.Itoa(s.Year),
			strings.Join(s.Genres, "|"),
			strconv.Itoa(s.TotalViews),
			strconv.FormatFloat(s.AverageRating, 'f', 4, 64),
			strings.Join(s.Tags, "|"),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
