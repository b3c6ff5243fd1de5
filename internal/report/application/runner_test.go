package application

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	report "energy-report/internal/report/domain"
	"energy-report/internal/report/infrastructure/memory"
	"energy-report/internal/report/interfaces"
	"energy-report/internal/settlement/infrastructure/pricing"
	telemetry "energy-report/internal/telemetry/domain"
	"energy-report/internal/telemetry/infrastructure/csvfile"
)

const house0CSV = `Time,Power
2019-01-01 00:00:00,100
2019-01-01 00:02:00,200
`

const house1CSV = `Time,Power,Voltage
2019-01-01 10:00:00,300,230
2019-01-01 10:02:00,500,231
2019-01-01 10:04:00,50,229
2019-01-01 10:06:00,500,230
2019-01-01 10:10:00,50,228
`

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingObserver struct {
	results []string
	houses  []string
}

func (o *recordingObserver) ObserveFile(result string, _ time.Duration) {
	o.results = append(o.results, result)
}

func (o *recordingObserver) ObserveHouse(summary *report.Summary) {
	o.houses = append(o.houses, summary.HouseID)
}

type harness struct {
	cfg       Config
	runner    *Runner
	summaries *memory.SummaryRepository
	observer  *recordingObserver
	logs      *bytes.Buffer
}

func newHarness(t *testing.T, files map[string]string, mutate func(*Config)) harness {
	t.Helper()
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.InputDir = filepath.Join(root, "raw_data")
	cfg.OutputDir = filepath.Join(root, "out_files")
	if mutate != nil {
		mutate(&cfg)
	}
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(cfg.InputDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	loader := csvfile.NewLoader(
		csvfile.WithPowerColumn(cfg.PowerColumn),
		csvfile.WithTimestampOffset(cfg.TimestampOffset),
	)
	prices, err := pricing.NewFixedPriceProvider(cfg.PricePerKWh)
	if err != nil {
		t.Fatalf("price provider: %v", err)
	}
	chartOpts := interfaces.DefaultChartOptions()
	chartOpts.MinLabelShift = cfg.MinLabelShift()
	charts, err := interfaces.NewChartRenderer(chartOpts)
	if err != nil {
		t.Fatalf("chart renderer: %v", err)
	}
	summaries := memory.NewSummaryRepository()
	observer := &recordingObserver{}
	logs := &bytes.Buffer{}

	runner, err := NewRunner(cfg, loader, prices, charts, interfaces.FileExporter{}, summaries, log.New(logs, "", 0),
		WithObserver(observer),
		WithClock(fixedClock{now: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)}),
	)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return harness{cfg: cfg, runner: runner, summaries: summaries, observer: observer, logs: logs}
}

func TestRunnerProducesArtifacts(t *testing.T) {
	h := newHarness(t, map[string]string{"house_0.csv": house0CSV, "house_1.csv": house1CSV}, nil)
	if err := os.Mkdir(filepath.Join(h.cfg.InputDir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	results, err := h.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, file := range []string{"house_0.csv", "house_1.csv"} {
		artifacts := report.ArtifactsFor(h.cfg.OutputDir, file)
		for _, path := range []string{artifacts.PowerChart, artifacts.EnergyChart, artifacts.AppendedCSV, artifacts.AppendedXLSX, artifacts.SummaryPDF} {
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected artifact %s: %v", path, err)
			}
		}
	}

	summary, err := h.summaries.Get(context.Background(), "house_0")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if summary.TotalKWh != 0.01 || summary.CostAmount != 0.01 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.MaxPowerW != 200 || summary.MinPowerW != 100 {
		t.Fatalf("unexpected extrema %+v", summary)
	}
	if want := time.Date(2019, 1, 1, 8, 2, 0, 0, time.UTC); !summary.MaxAt.Equal(want) {
		t.Fatalf("expected shifted max at %s, got %s", want, summary.MaxAt)
	}

	house1, err := h.summaries.Get(context.Background(), "house_1")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if want := time.Date(2019, 1, 1, 18, 2, 0, 0, time.UTC); !house1.MaxAt.Equal(want) {
		t.Fatalf("expected first max occurrence at %s, got %s", want, house1.MaxAt)
	}
	if house1.IrregularIntervals != 1 {
		t.Fatalf("expected one irregular interval, got %d", house1.IrregularIntervals)
	}

	data, err := os.ReadFile(report.ArtifactsFor(h.cfg.OutputDir, "house_0.csv").AppendedCSV)
	if err != nil {
		t.Fatalf("read appended csv: %v", err)
	}
	want := "Time,Power,Energy\n2019-01-01 08:00:00,100,0.0033333333333333335\n2019-01-01 08:02:00,200,0.01\n"
	if string(data) != want {
		t.Fatalf("unexpected appended csv:\n%s", data)
	}

	logs := h.logs.String()
	for _, line := range []string{
		"house_0 Max Power: 200.00 W at 08:02",
		"house_0 Min Power: 100.00 W at 08:00",
		"house_0 Total Energy Consumption: 0.01 kWh",
		"house_0 Total Cost (24 hour cycle): R0.01",
		"house_1 warning: 1 samples not spaced 2m0s apart",
	} {
		if !strings.Contains(logs, line) {
			t.Fatalf("missing log line %q in:\n%s", line, logs)
		}
	}

	if strings.Join(h.observer.results, ",") != "success,success" {
		t.Fatalf("unexpected observed results %v", h.observer.results)
	}
	if strings.Join(h.observer.houses, ",") != "house_0,house_1" {
		t.Fatalf("unexpected observed houses %v", h.observer.houses)
	}
}

func TestRunnerRerunIsIdempotent(t *testing.T) {
	h := newHarness(t, map[string]string{"house_0.csv": house0CSV}, nil)
	for i := 0; i < 2; i++ {
		if _, err := h.runner.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestRunnerFailFast(t *testing.T) {
	h := newHarness(t, map[string]string{
		"a_empty.csv": "Time,Power\n",
		"house_0.csv": house0CSV,
	}, nil)

	results, err := h.runner.Run(context.Background())
	if !errors.Is(err, telemetry.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected batch to stop after first file, got %d results", len(results))
	}
	if _, err := h.summaries.Get(context.Background(), "house_0"); !errors.Is(err, report.ErrSummaryNotFound) {
		t.Fatalf("expected house_0 to be skipped, got %v", err)
	}
}

func TestRunnerContinueOnError(t *testing.T) {
	h := newHarness(t, map[string]string{
		"a_empty.csv":  "Time,Power\n",
		"b_broken.csv": "Time,Voltage\n2019-01-01 00:00:00,230\n",
		"house_0.csv":  house0CSV,
	}, func(cfg *Config) { cfg.ContinueOnError = true })

	results, err := h.runner.Run(context.Background())
	if !errors.Is(err, telemetry.ErrNoData) || !errors.Is(err, telemetry.ErrMissingColumn) {
		t.Fatalf("expected joined per-file errors, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].Err != nil || results[2].Summary == nil {
		t.Fatalf("expected house_0 to succeed, got %+v", results[2])
	}
	if strings.Join(h.observer.results, ",") != "error,error,success" {
		t.Fatalf("unexpected observed results %v", h.observer.results)
	}
}

func TestRunnerSkipsOptionalExports(t *testing.T) {
	h := newHarness(t, map[string]string{"house_0.csv": house0CSV}, func(cfg *Config) {
		cfg.ExportPDF = false
		cfg.ExportXLSX = false
	})
	results, err := h.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	artifacts := report.ArtifactsFor(h.cfg.OutputDir, "house_0.csv")
	if _, err := os.Stat(artifacts.SummaryPDF); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no pdf, got %v", err)
	}
	if _, err := os.Stat(artifacts.AppendedXLSX); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no xlsx, got %v", err)
	}
	if results[0].Summary.Artifacts.SummaryPDF != "" {
		t.Fatalf("summary should not reference a skipped pdf")
	}
}

func TestRunnerCancelled(t *testing.T) {
	h := newHarness(t, map[string]string{"house_0.csv": house0CSV}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := h.runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunnerMissingInputDir(t *testing.T) {
	h := newHarness(t, nil, nil)
	if err := os.RemoveAll(h.cfg.InputDir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := h.runner.Run(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	cfg := DefaultConfig()
	prices, _ := pricing.NewFixedPriceProvider(1)
	if _, err := NewRunner(cfg, nil, prices, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
	cfg.SampleInterval = 0
	if _, err := NewRunner(cfg, csvfile.NewLoader(), prices, nil, nil, nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunnerRejectsNonFinitePowerBeforeReporting(t *testing.T) {
	h := newHarness(t, map[string]string{
		"house_0.csv": "Time,Power\n2019-01-01 00:00:00,100\n2019-01-01 00:02:00,NaN\n2019-01-01 00:04:00,200\n",
	}, nil)

	_, err := h.runner.Run(context.Background())
	if !errors.Is(err, telemetry.ErrInvalidPower) {
		t.Fatalf("expected ErrInvalidPower, got %v", err)
	}
	if strings.Contains(h.logs.String(), "Total Energy Consumption") {
		t.Fatalf("energy total logged for rejected file:\n%s", h.logs.String())
	}
	if _, err := os.Stat(report.ArtifactsFor(h.cfg.OutputDir, "house_0.csv").PowerChart); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no chart for rejected file, got %v", err)
	}
}
