package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"movie-insights/charts"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string
	DataDir    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	Genre       string
	Year        int
	RatingsFrom string
	RatingsTo   string

	ColorScheme string
	Panels      int
	TopN        int
	ChartWidth  int
	ChartHeight int

	FigureOutputPath string
	SummaryCSVPath   string
	StoreSummaries   bool
	PostgresImport   bool
	LoadWorkers      int

	LogLevel  string
	LogFormat string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", "csv")),
		DataDir:    getEnv("DATA_DIR", "./data"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "movies"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "movies"),
		PostgresDB:       getEnv("POSTGRES_DB", "movielens"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),

		Genre:       getEnv("INSIGHT_GENRE", "Comedy"),
		Year:        getEnvInt("INSIGHT_YEAR", 1995),
		RatingsFrom: getEnv("RATINGS_FROM", ""),
		RatingsTo:   getEnv("RATINGS_TO", ""),

		ColorScheme: getEnv("CHART_COLOR_SCHEME", charts.DefaultColorScheme),
		Panels:      getEnvInt("CHART_PANELS", charts.MaxPanels),
		TopN:        getEnvInt("CHART_TOP_N", charts.DefaultTopN),
		ChartWidth:  getEnvInt("CHART_WIDTH", charts.DefaultWidth),
		ChartHeight: getEnvInt("CHART_HEIGHT", charts.DefaultHeight),

		FigureOutputPath: getEnv("FIGURE_OUTPUT_PATH", "./output/insight.png"),
		SummaryCSVPath:   getEnv("SUMMARY_CSV_PATH", "./output/summary.csv"),
		StoreSummaries:   getEnvBool("STORE_SUMMARIES", false),
		PostgresImport:   getEnvBool("POSTGRES_IMPORT", false),
		LoadWorkers:      getEnvInt("LOAD_WORKERS", 3),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// NeedsPostgres reports whether any step reads from or writes to PostgreSQL.
func (c *Config) NeedsPostgres() bool {
	return c.DataSource == "postgres" || c.StoreSummaries || c.PostgresImport
}

// ChartConfig maps the chart settings onto the presentation configuration.
func (c *Config) ChartConfig() charts.Config {
	return charts.Config{
		ColorScheme: c.ColorScheme,
		PanelCount:  c.Panels,
		TopN:        c.TopN,
		Width:       c.ChartWidth,
		Height:      c.ChartHeight,
	}
}

// Interval parses RATINGS_FROM and RATINGS_TO. ok is false when neither is set.
// A missing bound is open: the zero time for the start, far future for the end.
func (c *Config) Interval() (start, end time.Time, ok bool, err error) {
	if c.RatingsFrom == "" && c.RatingsTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	end = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if c.RatingsFrom != "" {
		if start, err = parseTime(c.RatingsFrom); err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("config: RATINGS_FROM: %w", err)
		}
	}
	if c.RatingsTo != "" {
		if end, err = parseTime(c.RatingsTo); err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("config: RATINGS_TO: %w", err)
		}
		if len(c.RatingsTo) == len("2006-01-02") {
			// A bare date includes the whole day.
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return start, end, true, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
