package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"energy-report/internal/analytics/domain/statistic"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("report config: invalid")

// Config defines the report run. Every physical constant of the report is
// named here rather than baked into the pipeline.
type Config struct {
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	PowerColumn  string `yaml:"power_column"`
	EnergyColumn string `yaml:"energy_column"`

	// TimestampOffset is added to every source timestamp.
	TimestampOffset time.Duration `yaml:"timestamp_offset"`
	// SampleInterval is the assumed spacing used by the integrator.
	SampleInterval time.Duration `yaml:"sample_interval"`
	JoulesPerKWh   float64       `yaml:"joules_per_kwh"`
	PricePerKWh    float64       `yaml:"price_per_kwh"`
	Currency       string        `yaml:"currency"`

	Chart ChartConfig `yaml:"chart"`

	HeadRows        int    `yaml:"head_rows"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	ExportXLSX      bool   `yaml:"export_xlsx"`
	ExportPDF       bool   `yaml:"export_pdf"`
	MetricsFile     string `yaml:"metrics_file"`
	DatabaseURL     string `yaml:"database_url"`
}

// ChartConfig controls chart size and label placement.
type ChartConfig struct {
	WidthIn              float64 `yaml:"width_in"`
	HeightIn             float64 `yaml:"height_in"`
	MaxLabelOffsetW      float64 `yaml:"max_label_offset_w"`
	MinLabelOffsetW      float64 `yaml:"min_label_offset_w"`
	MinLabelShiftSamples int     `yaml:"min_label_shift_samples"`
}

// DefaultConfig returns the reference report settings.
func DefaultConfig() Config {
	return Config{
		InputDir:        "raw_data",
		OutputDir:       "out_files",
		PowerColumn:     "Power",
		EnergyColumn:    "Energy",
		TimestampOffset: 8 * time.Hour,
		SampleInterval:  120 * time.Second,
		JoulesPerKWh:    statistic.JoulesPerKWh,
		PricePerKWh:     1,
		Currency:        "R",
		Chart: ChartConfig{
			WidthIn:              8,
			HeightIn:             4,
			MaxLabelOffsetW:      15,
			MinLabelOffsetW:      60,
			MinLabelShiftSamples: 150,
		},
		HeadRows:    5,
		ExportXLSX:  true,
		ExportPDF:   true,
		MetricsFile: "metrics.prom",
	}
}

// LoadConfig loads defaults, then the yaml file named by REPORT_CONFIG, then env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("REPORT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.InputDir = getenvDefault("REPORT_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = getenvDefault("REPORT_OUTPUT_DIR", cfg.OutputDir)
	cfg.PowerColumn = getenvDefault("REPORT_POWER_COLUMN", cfg.PowerColumn)
	cfg.EnergyColumn = getenvDefault("REPORT_ENERGY_COLUMN", cfg.EnergyColumn)
	cfg.TimestampOffset = getenvDuration("REPORT_TIMESTAMP_OFFSET", cfg.TimestampOffset)
	cfg.SampleInterval = getenvDuration("REPORT_SAMPLE_INTERVAL", cfg.SampleInterval)
	cfg.PricePerKWh = getenvFloatDefault("PRICE_PER_KWH", cfg.PricePerKWh)
	cfg.Currency = getenvDefault("CURRENCY", cfg.Currency)
	cfg.ContinueOnError = getenvBoolDefault("REPORT_CONTINUE_ON_ERROR", cfg.ContinueOnError)
	cfg.ExportXLSX = getenvBoolDefault("REPORT_EXPORT_XLSX", cfg.ExportXLSX)
	cfg.ExportPDF = getenvBoolDefault("REPORT_EXPORT_PDF", cfg.ExportPDF)
	if value, ok := os.LookupEnv("REPORT_METRICS_FILE"); ok {
		cfg.MetricsFile = value
	}
	cfg.DatabaseURL = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", cfg.DatabaseURL))

	return cfg, cfg.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	switch {
	case c.InputDir == "" || c.OutputDir == "":
		return fmt.Errorf("%w: input and output dirs required", ErrInvalidConfig)
	case c.PowerColumn == "" || c.EnergyColumn == "":
		return fmt.Errorf("%w: power and energy columns required", ErrInvalidConfig)
	case c.SampleInterval <= 0:
		return fmt.Errorf("%w: sample interval must be positive", ErrInvalidConfig)
	case c.JoulesPerKWh <= 0:
		return fmt.Errorf("%w: joules per kWh must be positive", ErrInvalidConfig)
	case c.PricePerKWh < 0:
		return fmt.Errorf("%w: price per kWh must not be negative", ErrInvalidConfig)
	case c.Chart.WidthIn <= 0 || c.Chart.HeightIn <= 0:
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	case c.HeadRows < 0:
		return fmt.Errorf("%w: head rows must not be negative", ErrInvalidConfig)
	}
	return nil
}

// MinLabelShift is the leftward shift of the trough label on the time axis.
func (c Config) MinLabelShift() time.Duration {
	return time.Duration(c.Chart.MinLabelShiftSamples) * c.SampleInterval
}

// MetricsPath resolves the metrics textfile; empty disables it.
func (c Config) MetricsPath() string {
	if c.MetricsFile == "" {
		return ""
	}
	if filepath.IsAbs(c.MetricsFile) {
		return c.MetricsFile
	}
	return filepath.Join(c.OutputDir, c.MetricsFile)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
