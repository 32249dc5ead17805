package storage

import "movie-insights/models"

// DatasetLoader is the interface any dataset source must satisfy.
type DatasetLoader interface {
	Load() (*models.Dataset, error)
}

// SummaryWriter is the interface for persisting aggregate summaries.
type SummaryWriter interface {
	WriteSummaries(summaries []models.MovieSummary) error
	Close() error
}

var (
	_ DatasetLoader = (*CSVLoader)(nil)
	_ DatasetLoader = (*PostgresStore)(nil)
	_ SummaryWriter = (*CSVWriter)(nil)
	_ SummaryWriter = (*PostgresStore)(nil)
)
