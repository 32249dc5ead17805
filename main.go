package main

import (
	"fmt"
	"os"
	"time"

	"movie-insights/charts"
	"movie-insights/config"
	"movie-insights/services"
	"movie-insights/storage"
	"movie-insights/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerWith(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	logger.Info("=== Movie Insights starting ===")
	logger.Info("Config: genre %q | year %d | source %s | top %d | panels %d | scheme %s",
		cfg.Genre, cfg.Year, cfg.DataSource, cfg.TopN, cfg.Panels, cfg.ColorScheme)

	renderer, err := charts.NewRenderer(cfg.ChartConfig())
	if err != nil {
		logger.Error("Invalid chart configuration: %v", err)
		os.Exit(1)
	}

	var pg *storage.PostgresStore
	if cfg.NeedsPostgres() {
		pg, err = storage.NewPostgresStore(cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pg.Close()
	}

	var loader storage.DatasetLoader
	switch cfg.DataSource {
	case "csv":
		loader = storage.NewCSVLoader(cfg.DataDir, cfg.LoadWorkers, logger)
	case "postgres":
		loader = pg
	default:
		logger.Error("Unknown DATA_SOURCE %q (want csv or postgres)", cfg.DataSource)
		os.Exit(1)
	}

	raw, err := loader.Load()
	if err != nil {
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}

	dataset := services.NewCleaner(logger).Clean(raw)
	if len(dataset.Movies) == 0 || len(dataset.Ratings) == 0 {
		logger.Error("Dataset has no usable movies or ratings. Exiting.")
		os.Exit(1)
	}

	if cfg.PostgresImport && cfg.DataSource == "csv" {
		if err := pg.Import(dataset); err != nil {
			logger.Error("PostgreSQL import failed: %v", err)
		}
	}

	start, end, ok, err := cfg.Interval()
	if err != nil {
		logger.Error("Invalid rating window: %v", err)
		os.Exit(1)
	}
	if ok {
		before := len(dataset.Ratings)
		dataset.Ratings = services.FilterTimeInterval(dataset.Ratings, start, end)
		logger.Info("Rating window %s .. %s kept %d/%d ratings",
			start.Format("2006-01-02"), end.Format("2006-01-02"), len(dataset.Ratings), before)
	}

	insightSvc := services.NewInsightService(logger, renderer)
	result, err := insightSvc.FindClosestMatch(cfg.Genre, cfg.Year, dataset)
	if err != nil {
		logger.Error("Insight failed: %v", err)
		os.Exit(1)
	}

	if err := charts.Save(cfg.FigureOutputPath, result.Figure); err != nil {
		logger.Error("Saving figure failed: %v", err)
	} else {
		logger.Info("Figure saved to %s", cfg.FigureOutputPath)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.SummaryCSVPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		if err := csvWriter.WriteSummaries(result.Summaries); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Summaries saved to %s", cfg.SummaryCSVPath)
		}
		_ = csvWriter.Close()
	}

	if cfg.StoreSummaries {
		if err := pg.WriteSummaries(result.Summaries); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Summaries stored in PostgreSQL (table: movie_summaries)")
		}
	}

	insightSvc.Print(result)

	fmt.Printf("  Done. Figure → %s | Summaries → %s\n\n", cfg.FigureOutputPath, cfg.SummaryCSVPath)
}
