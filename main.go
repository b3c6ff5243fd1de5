package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"energy-report/internal/observability/metrics"
	"energy-report/internal/report/application"
	report "energy-report/internal/report/domain"
	"energy-report/internal/report/infrastructure/memory"
	reportrepo "energy-report/internal/report/infrastructure/postgres"
	"energy-report/internal/report/interfaces"
	"energy-report/internal/settlement/infrastructure/pricing"
	"energy-report/internal/telemetry/infrastructure/csvfile"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gonum.org/v1/plot/vg"
)

// summaryLister is implemented by stores that can enumerate the run's summaries.
type summaryLister interface {
	List(ctx context.Context) []report.Summary
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if err := run(context.Background(), logger); err != nil {
		logger.Fatalf("report run error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg, err := application.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	summaries, closeStore, err := openSummaryStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("summary store: %w", err)
	}
	defer closeStore()

	loader := csvfile.NewLoader(
		csvfile.WithPowerColumn(cfg.PowerColumn),
		csvfile.WithTimestampOffset(cfg.TimestampOffset),
	)
	prices, err := pricing.NewFixedPriceProvider(cfg.PricePerKWh)
	if err != nil {
		return fmt.Errorf("price provider: %w", err)
	}
	charts, err := interfaces.NewChartRenderer(chartOptions(cfg))
	if err != nil {
		return fmt.Errorf("chart renderer: %w", err)
	}
	reportMetrics := metrics.New()

	runner, err := application.NewRunner(cfg, loader, prices, charts, interfaces.FileExporter{}, summaries, logger,
		application.WithObserver(reportMetrics),
	)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}

	started := time.Now()
	results, runErr := runner.Run(ctx)
	finished := time.Now()
	reportMetrics.ObserveRun(finished, finished.Sub(started))

	if path := cfg.MetricsPath(); path != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			logger.Printf("metrics dir error: %v", err)
		} else if err := reportMetrics.WriteTextfile(path); err != nil {
			logger.Printf("metrics write error: %v", err)
		}
	}

	if lister, ok := summaries.(summaryLister); ok {
		logTotals(logger, lister.List(ctx))
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	logger.Printf("report run finished: files=%d failed=%d duration=%s", len(results), failed, finished.Sub(started))
	return runErr
}

func logTotals(logger *log.Logger, summaries []report.Summary) {
	for _, s := range summaries {
		logger.Printf("house=%s energy_kwh=%.2f cost=%s%.2f peak_w=%.2f", s.HouseID, s.TotalKWh, s.Currency, s.CostAmount, s.MaxPowerW)
	}
}

func openSummaryStore(ctx context.Context, cfg application.Config, logger *log.Logger) (report.SummaryRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		return memory.NewSummaryRepository(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	repo := reportrepo.NewSummaryRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Printf("summaries persisted to postgres")
	return repo, func() { db.Close() }, nil
}

func chartOptions(cfg application.Config) interfaces.ChartOptions {
	return interfaces.ChartOptions{
		Width:           vg.Length(cfg.Chart.WidthIn) * vg.Inch,
		Height:          vg.Length(cfg.Chart.HeightIn) * vg.Inch,
		MaxLabelOffsetW: cfg.Chart.MaxLabelOffsetW,
		MinLabelOffsetW: cfg.Chart.MinLabelOffsetW,
		MinLabelShift:   cfg.MinLabelShift(),
	}
}
