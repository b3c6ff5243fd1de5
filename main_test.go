package main

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

	"gonum.org/v1/plot/vg"

	"energy-report/internal/report/application"
	"energy-report/internal/report/interfaces"
	telemetry "energy-report/internal/telemetry/domain"
)

func TestChartOptionsFromConfig(t *testing.T) {
	got := chartOptions(application.DefaultConfig())
	want := interfaces.DefaultChartOptions()
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.Width != 8*vg.Inch || got.MinLabelShift != 300*time.Minute {
		t.Fatalf("unexpected geometry %+v", got)
	}
}

func setupRunEnv(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	input := filepath.Join(root, "raw_data")
	if err := os.MkdirAll(input, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(input, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for _, key := range []string{"REPORT_CONFIG", "DATABASE_URL", "PG_DSN", "REPORT_CONTINUE_ON_ERROR"} {
		t.Setenv(key, "")
	}
	t.Setenv("REPORT_INPUT_DIR", input)
	t.Setenv("REPORT_OUTPUT_DIR", filepath.Join(root, "out_files"))
	return root
}

func TestRunLogsHouseTotals(t *testing.T) {
	root := setupRunEnv(t, map[string]string{
		"house_0.csv": "Time,Power\n2019-01-01 00:00:00,100\n2019-01-01 00:02:00,200\n",
	})
	logs := &bytes.Buffer{}
	if err := run(context.Background(), log.New(logs, "", 0)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(logs.String(), "house=house_0 energy_kwh=0.01 cost=R0.01 peak_w=200.00") {
		t.Fatalf("missing totals line in:\n%s", logs.String())
	}
	if _, err := os.Stat(filepath.Join(root, "out_files", "metrics.prom")); err != nil {
		t.Fatalf("expected metrics textfile: %v", err)
	}
}

func TestRunReturnsBatchError(t *testing.T) {
	setupRunEnv(t, map[string]string{"house_0.csv": "Time,Power\n"})
	err := run(context.Background(), log.New(&bytes.Buffer{}, "", 0))
	if !errors.Is(err, telemetry.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	setupRunEnv(t, nil)
	t.Setenv("REPORT_SAMPLE_INTERVAL", "-1s")
	err := run(context.Background(), log.New(&bytes.Buffer{}, "", 0))
	if !errors.Is(err, application.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
