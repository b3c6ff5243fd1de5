package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	report "energy-report/internal/report/domain"
)

const metricPrefix = "energy_report_"

// Metrics bundles the batch metrics of one report run.
type Metrics struct {
	registry *prometheus.Registry

	filesTotal         *prometheus.CounterVec
	fileLatency        *prometheus.HistogramVec
	houseEnergy        *prometheus.GaugeVec
	houseCost          *prometheus.GaugeVec
	housePeakPower     *prometheus.GaugeVec
	houseIrregular     *prometheus.GaugeVec
	lastRunTimestamp   prometheus.Gauge
	lastRunDurationSec prometheus.Gauge
}

// New constructs metrics on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "files_total",
				Help: "Total input files processed by result",
			},
			[]string{"result"},
		),
		fileLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "file_duration_seconds",
				Help:    "Per-file processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		houseEnergy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "house_energy_kwh",
				Help: "Total energy consumption per house",
			},
			[]string{"house"},
		),
		houseCost: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "house_cost",
				Help: "Estimated cost per house",
			},
			[]string{"house", "currency"},
		),
		housePeakPower: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "house_peak_power_watts",
				Help: "Peak power per house",
			},
			[]string{"house"},
		),
		houseIrregular: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "house_irregular_intervals",
				Help: "Samples whose spacing differs from the configured interval",
			},
			[]string{"house"},
		),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		lastRunDurationSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_duration_seconds",
			Help: "Duration of the last run in seconds",
		}),
	}
	m.registry.MustRegister(
		m.filesTotal,
		m.fileLatency,
		m.houseEnergy,
		m.houseCost,
		m.housePeakPower,
		m.houseIrregular,
		m.lastRunTimestamp,
		m.lastRunDurationSec,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFile records per-file latency and result.
func (m *Metrics) ObserveFile(result string, duration time.Duration) {
	if m == nil {
		return
	}
	if result == "" {
		result = report.ResultSuccess
	}
	m.filesTotal.WithLabelValues(result).Inc()
	m.fileLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveHouse records the figures of a finished house report.
func (m *Metrics) ObserveHouse(summary *report.Summary) {
	if m == nil || summary == nil || summary.HouseID == "" {
		return
	}
	m.houseEnergy.WithLabelValues(summary.HouseID).Set(summary.TotalKWh)
	m.houseCost.WithLabelValues(summary.HouseID, summary.Currency).Set(summary.CostAmount)
	m.housePeakPower.WithLabelValues(summary.HouseID).Set(summary.MaxPowerW)
	m.houseIrregular.WithLabelValues(summary.HouseID).Set(float64(summary.IrregularIntervals))
}

// ObserveRun records when the run finished and how long it took.
func (m *Metrics) ObserveRun(finished time.Time, duration time.Duration) {
	if m == nil {
		return
	}
	m.lastRunTimestamp.Set(float64(finished.Unix()))
	m.lastRunDurationSec.Set(duration.Seconds())
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
