package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	report "energy-report/internal/report/domain"
)

func TestObserveFile(t *testing.T) {
	m := New()
	m.ObserveFile(report.ResultSuccess, 20*time.Millisecond)
	m.ObserveFile(report.ResultSuccess, 30*time.Millisecond)
	m.ObserveFile(report.ResultError, time.Millisecond)
	m.ObserveFile("", time.Millisecond)

	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues(report.ResultSuccess)); got != 3 {
		t.Fatalf("expected 3 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues(report.ResultError)); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestObserveHouse(t *testing.T) {
	m := New()
	m.ObserveHouse(&report.Summary{HouseID: "house_0", TotalKWh: 7.5, CostAmount: 7.5, Currency: "R", MaxPowerW: 3100, IrregularIntervals: 2})
	m.ObserveHouse(nil)
	m.ObserveHouse(&report.Summary{})

	if got := testutil.ToFloat64(m.houseEnergy.WithLabelValues("house_0")); got != 7.5 {
		t.Fatalf("expected 7.5 kWh, got %v", got)
	}
	if got := testutil.ToFloat64(m.houseCost.WithLabelValues("house_0", "R")); got != 7.5 {
		t.Fatalf("expected cost 7.5, got %v", got)
	}
	if got := testutil.ToFloat64(m.housePeakPower.WithLabelValues("house_0")); got != 3100 {
		t.Fatalf("expected peak 3100, got %v", got)
	}
	if got := testutil.CollectAndCount(m.houseEnergy); got != 1 {
		t.Fatalf("expected one house series, got %d", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveFile(report.ResultSuccess, time.Millisecond)
	m.ObserveRun(time.Unix(1700000000, 0), 2*time.Second)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `energy_report_files_total{result="success"} 1`) {
		t.Fatalf("unexpected textfile contents:\n%s", data)
	}
	if !strings.Contains(string(data), "energy_report_last_run_duration_seconds 2") {
		t.Fatalf("missing run duration:\n%s", data)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFile(report.ResultSuccess, time.Second)
	m.ObserveHouse(&report.Summary{HouseID: "house_0"})
	m.ObserveRun(time.Now(), time.Second)
	if err := m.WriteTextfile("ignored"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
