package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"movie-insights/models"
	"movie-insights/utils"
)

// PostgresStore loads the MovieLens tables from PostgreSQL and persists
// aggregate summaries back to it.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, retrying the initial
// ping, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	logger := retry.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS movies (
			movie_id   BIGINT PRIMARY KEY,
			title      TEXT    NOT NULL,
			movie_year INTEGER NOT NULL DEFAULT 0,
			genres     TEXT[]  NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS ratings (
			user_id  BIGINT       NOT NULL,
			movie_id BIGINT       NOT NULL,
			rating   NUMERIC(2,1) NOT NULL,
			rated_at TIMESTAMPTZ  NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
			user_id   BIGINT      NOT NULL DEFAULT 0,
			movie_id  BIGINT      NOT NULL,
			tag       TEXT        NOT NULL,
			tagged_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS movie_summaries (
			movie_id       BIGINT PRIMARY KEY,
			title          TEXT             NOT NULL,
			movie_year     INTEGER          NOT NULL DEFAULT 0,
			genres         TEXT[]           NOT NULL DEFAULT '{}',
			total_views    INTEGER          NOT NULL,
			average_rating DOUBLE PRECISION NOT NULL,
			tags           TEXT[]           NOT NULL DEFAULT '{}',
			created_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_movies_year      ON movies(movie_year);
		CREATE INDEX IF NOT EXISTS idx_ratings_movie    ON ratings(movie_id);
		CREATE INDEX IF NOT EXISTS idx_ratings_rated_at ON ratings(rated_at);
		CREATE INDEX IF NOT EXISTS idx_tags_movie       ON tags(movie_id);
	`)
	return err
}

// Load reads every movie, rating and tag.
func (ps *PostgresStore) Load() (*models.Dataset, error) {
	started := time.Now()
	ds := &models.Dataset{}
	var err error

	if ds.Movies, err = ps.fetchMovies(); err != nil {
		return nil, err
	}
	if ds.Ratings, err = ps.fetchRatings(); err != nil {
		return nil, err
	}
	if ds.Tags, err = ps.fetchTags(); err != nil {
		return nil, err
	}

	ps.logger.Info("[postgres] Loaded %d ratings, %d movies, %d tags",
		len(ds.Ratings), len(ds.Movies), len(ds.Tags))
	ps.logger.Elapsed("postgres-load", started)
	return ds, nil
}

func (ps *PostgresStore) fetchMovies() ([]models.Movie, error) {
	rows, err := ps.db.Query(`SELECT movie_id, title, movie_year, genres FROM movies ORDER BY movie_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Year, pq.Array(&m.Genres)); err != nil {
			return nil, fmt.Errorf("postgres: scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (ps *PostgresStore) fetchRatings() ([]models.Rating, error) {
	rows, err := ps.db.Query(`SELECT user_id, movie_id, rating, rated_at FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Rating, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (ps *PostgresStore) fetchTags() ([]models.Tag, error) {
	rows, err := ps.db.Query(`SELECT user_id, movie_id, tag, tagged_at FROM tags`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		var taggedAt pq.NullTime
		if err := rows.Scan(&t.UserID, &t.MovieID, &t.Tag, &taggedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan tag: %w", err)
		}
		if taggedAt.Valid {
			t.TaggedAt = taggedAt.Time
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Import replaces the movies, ratings and tags tables with ds using COPY.
func (ps *PostgresStore) Import(ds *models.Dataset) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`TRUNCATE movies, ratings, tags`); err != nil {
		return fmt.Errorf("postgres: truncate: %w", err)
	}

	err = copyRows(tx, "movies", []string{"movie_id", "title", "movie_year", "genres"}, len(ds.Movies),
		func(i int) []any {
			m := ds.Movies[i]
			return []any{m.MovieID, m.Title, m.Year, textArray(m.Genres)}
		})
	if err != nil {
		return err
	}

	err = copyRows(tx, "ratings", []string{"user_id", "movie_id", "rating", "rated_at"}, len(ds.Ratings),
		func(i int) []any {
			r := ds.Ratings[i]
			return []any{r.UserID, r.MovieID, r.Rating, r.RatedAt}
		})
	if err != nil {
		return err
	}

	err = copyRows(tx, "tags", []string{"user_id", "movie_id", "tag", "tagged_at"}, len(ds.Tags),
		func(i int) []any {
			t := ds.Tags[i]
			var taggedAt any
			if !t.TaggedAt.IsZero() {
				taggedAt = t.TaggedAt
			}
			return []any{t.UserID, t.MovieID, t.Tag, taggedAt}
		})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit import: %w", err)
	}
	ps.logger.Info("[postgres] Imported %d movies, %d ratings, %d tags",
		len(ds.Movies), len(ds.Ratings), len(ds.Tags))
	return nil
}

func copyRows(tx *sql.Tx, table string, columns []string, n int, row func(int) []any) error {
	stmt, err := tx.Prepare(pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("postgres: prepare copy %s: %w", table, err)
	}
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("postgres: copy %s row %d: %w", table, i, err)
		}
	}
	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("postgres: flush copy %s: %w", table, err)
	}
	return stmt.Close()
}

// Clear deletes all stored summaries.
func (ps *PostgresStore) Clear() error {
	if _, err := ps.db.Exec("DELETE FROM movie_summaries"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// WriteSummaries replaces the stored summaries with the given ones.
func (ps *PostgresStore) WriteSummaries(summaries []models.MovieSummary) error {
	if err := ps.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(summaries); i += batchSize {
		end := i + batchSize
		if end > len(summaries) {
			end = len(summaries)
		}
		if err := ps.insertBatch(summaries[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []models.MovieSummary) error {
	const cols = 7
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*cols)

	for idx, s := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			s.MovieID, s.Title, s.Year, textArray(s.Genres), s.TotalViews, s.AverageRating, textArray(s.Tags))
	}

	query := fmt.Sprintf(`
		INSERT INTO movie_summaries (movie_id, title, movie_year, genres, total_views, average_rating, tags)
		VALUES %s
		ON CONFLICT (movie_id) DO UPDATE SET
			total_views    = EXCLUDED.total_views,
			average_rating = EXCLUDED.average_rating,
			tags           = EXCLUDED.tags
	`, strings.Join(valueStrings, ","))

	if _, err := ps.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert summaries: %w", err)
	}
	return nil
}

// textArray encodes s as a TEXT[] value, mapping nil to an empty array
// since the array columns are NOT NULL.
func textArray(s []string) any {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
