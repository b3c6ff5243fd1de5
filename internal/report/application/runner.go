package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"energy-report/internal/analytics/domain/statistic"
	report "energy-report/internal/report/domain"
	settlement "energy-report/internal/settlement/domain"
	telemetry "energy-report/internal/telemetry/domain"
	"energy-report/internal/telemetry/infrastructure/csvfile"
)

// TableLoader reads a source file into a table.
type TableLoader interface {
	LoadFile(path string) (*telemetry.Table, error)
}

// ChartRenderer draws the two report charts.
type ChartRenderer interface {
	RenderPowerChart(path, title string, series telemetry.Series, extrema statistic.Extrema) error
	RenderEnergyChart(path, title string, series telemetry.Series, energy statistic.EnergySeries) error
}

// Exporter writes the tabular and document artifacts.
type Exporter interface {
	WriteAppendedCSV(path string, table *telemetry.Table, column string, values []float64) error
	WriteAppendedXLSX(path string, table *telemetry.Table, column string, values []float64, summary *report.Summary) error
	WriteSummaryPDF(path string, summary *report.Summary) error
}

// Observer receives per-file outcomes.
type Observer interface {
	ObserveFile(result string, duration time.Duration)
	ObserveHouse(summary *report.Summary)
}

// Clock provides time for the runner.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Runner executes the report pipeline over every file of the input folder.
type Runner struct {
	cfg        Config
	loader     TableLoader
	integrator *statistic.Integrator
	prices     settlement.PriceProvider
	charts     ChartRenderer
	exporter   Exporter
	summaries  report.SummaryRepository
	observer   Observer
	logger     *log.Logger
	clock      Clock
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithObserver attaches an outcome observer.
func WithObserver(observer Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = observer
	}
}

// WithClock overrides the clock.
func WithClock(clock Clock) RunnerOption {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRunner constructs a Runner.
func NewRunner(cfg Config, loader TableLoader, prices settlement.PriceProvider, charts ChartRenderer, exporter Exporter, summaries report.SummaryRepository, logger *log.Logger, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		return nil, errors.New("report runner: nil loader")
	}
	if prices == nil {
		return nil, settlement.ErrNilPriceProvider
	}
	if charts == nil {
		return nil, errors.New("report runner: nil chart renderer")
	}
	if exporter == nil {
		return nil, errors.New("report runner: nil exporter")
	}
	if summaries == nil {
		return nil, errors.New("report runner: nil summary repository")
	}
	if logger == nil {
		logger = log.Default()
	}
	integrator, err := statistic.NewIntegrator(cfg.SampleInterval, cfg.JoulesPerKWh)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:        cfg,
		loader:     loader,
		integrator: integrator,
		prices:     prices,
		charts:     charts,
		exporter:   exporter,
		summaries:  summaries,
		logger:     logger,
		clock:      systemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes every input file in order. By default the first failure
// stops the batch; with ContinueOnError each failure is recorded and the
// joined error is returned after the last file.
func (r *Runner) Run(ctx context.Context) ([]report.FileResult, error) {
	files, err := ScanInputDir(r.cfg.InputDir)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("report run: input=%s output=%s files=%d", r.cfg.InputDir, r.cfg.OutputDir, len(files))

	results := make([]report.FileResult, 0, len(files))
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		started := r.clock.Now()
		summary, err := r.ProcessFile(ctx, file)
		duration := r.clock.Now().Sub(started)
		results = append(results, report.FileResult{File: file, Summary: summary, Err: err})

		if err != nil {
			r.observeFile(report.ResultError, duration)
			err = fmt.Errorf("report %s: %w", file, err)
			r.logger.Printf("report_failed file=%s error=%v", file, err)
			if !r.cfg.ContinueOnError {
				return results, err
			}
			errs = append(errs, err)
			continue
		}
		r.observeFile(report.ResultSuccess, duration)
		if r.observer != nil {
			r.observer.ObserveHouse(summary)
		}
	}
	return results, errors.Join(errs...)
}

// ProcessFile runs the pipeline for one file of the input folder.
func (r *Runner) ProcessFile(ctx context.Context, file string) (*report.Summary, error) {
	houseID := report.HouseID(file)
	if houseID == "" {
		return nil, report.ErrEmptyHouseID
	}
	artifacts, err := EnsureOutputDir(r.cfg.OutputDir, file)
	if err != nil {
		return nil, err
	}

	table, err := r.loader.LoadFile(filepath.Join(r.cfg.InputDir, file))
	if err != nil {
		return nil, err
	}
	series := table.Series(houseID)
	r.logHead(series)

	extrema, err := statistic.FindExtrema(series)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("%s max at %s", houseID, extrema.Max.At.Format(csvfile.OutputTimeLayout))
	r.logger.Printf("%s %s", houseID, extrema.MaxString())
	r.logger.Printf("%s %s", houseID, extrema.MinString())

	mean, err := statistic.MeanPower(series)
	if err != nil {
		return nil, err
	}
	irregular := series.IrregularIntervals(r.cfg.SampleInterval)
	if irregular > 0 {
		r.logger.Printf("%s warning: %d samples not spaced %s apart; energy assumes fixed spacing", houseID, irregular, r.cfg.SampleInterval)
	}

	energy := r.integrator.Integrate(series)
	r.logger.Printf("%s %s", houseID, energy.TotalString())

	cost, err := settlement.Calculate(ctx, r.prices, houseID, series.Samples[0].At, energy.Total(), r.cfg.Currency)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("%s %s", houseID, cost.String())

	title := report.DisplayName(houseID)
	if err := r.charts.RenderPowerChart(artifacts.PowerChart, title+" Power Data", series, extrema); err != nil {
		return nil, fmt.Errorf("power chart: %w", err)
	}
	if err := r.charts.RenderEnergyChart(artifacts.EnergyChart, title+" Energy Consumption", series, energy); err != nil {
		return nil, fmt.Errorf("energy chart: %w", err)
	}

	summary := &report.Summary{
		HouseID:            houseID,
		SourceFile:         file,
		Samples:            series.Len(),
		FirstAt:            series.Samples[0].At,
		LastAt:             series.Samples[series.Len()-1].At,
		MaxPowerW:          extrema.Max.Value,
		MaxAt:              extrema.Max.At,
		MinPowerW:          extrema.Min.Value,
		MinAt:              extrema.Min.At,
		MeanPowerW:         mean,
		TotalKWh:           cost.EnergyKWh,
		PricePerKWh:        cost.PricePerKWh,
		CostAmount:         cost.Amount,
		Currency:           cost.Currency,
		IrregularIntervals: irregular,
		Artifacts:          artifacts,
		GeneratedAt:        r.clock.Now(),
	}
	if !r.cfg.ExportXLSX {
		summary.Artifacts.AppendedXLSX = ""
	}
	if !r.cfg.ExportPDF {
		summary.Artifacts.SummaryPDF = ""
	}

	if err := r.exporter.WriteAppendedCSV(artifacts.AppendedCSV, table, r.cfg.EnergyColumn, energy.KWh); err != nil {
		return nil, fmt.Errorf("appended csv: %w", err)
	}
	if r.cfg.ExportXLSX {
		if err := r.exporter.WriteAppendedXLSX(artifacts.AppendedXLSX, table, r.cfg.EnergyColumn, energy.KWh, summary); err != nil {
			return nil, fmt.Errorf("appended xlsx: %w", err)
		}
	}
	if r.cfg.ExportPDF {
		if err := r.exporter.WriteSummaryPDF(artifacts.SummaryPDF, summary); err != nil {
			return nil, fmt.Errorf("summary pdf: %w", err)
		}
	}

	if err := r.summaries.Save(ctx, summary); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}
	return summary, nil
}

func (r *Runner) logHead(series telemetry.Series) {
	r.logger.Printf("%s %s (first %d of %d):", series.HouseID, r.cfg.PowerColumn, len(series.Head(r.cfg.HeadRows)), series.Len())
	for _, sample := range series.Head(r.cfg.HeadRows) {
		r.logger.Printf("  %s  %.2f", sample.At.Format(csvfile.OutputTimeLayout), sample.PowerW)
	}
}

func (r *Runner) observeFile(result string, duration time.Duration) {
	if r.observer != nil {
		r.observer.ObserveFile(result, duration)
	}
}
