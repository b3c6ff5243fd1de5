package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	telemetry "energy-report/internal/telemetry/domain"
)

const (
	defaultPowerColumn = "Power"

	// OutputTimeLayout is used when the shifted index is written back.
	OutputTimeLayout = "2006-01-02 15:04:05"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

// Loader parses per-house power CSV files.
type Loader struct {
	powerColumn string
	offset      time.Duration
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithPowerColumn overrides the power column header.
func WithPowerColumn(name string) LoaderOption {
	return func(l *Loader) {
		if name != "" {
			l.powerColumn = name
		}
	}
}

// WithTimestampOffset sets the shift applied to every parsed timestamp.
func WithTimestampOffset(offset time.Duration) LoaderOption {
	return func(l *Loader) {
		l.offset = offset
	}
}

// NewLoader constructs a loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{powerColumn: defaultPowerColumn}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile opens path and parses it.
func (l *Loader) LoadFile(path string) (*telemetry.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// Load parses a table from r. The first column is the timestamp index.
func (l *Loader) Load(r io.Reader) (*telemetry.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, telemetry.ErrNoData
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	powerIdx := -1
	for i, name := range header {
		if i > 0 && name == l.powerColumn {
			powerIdx = i
			break
		}
	}
	if powerIdx < 0 {
		return nil, fmt.Errorf("%w: %q", telemetry.ErrMissingColumn, l.powerColumn)
	}

	table := &telemetry.Table{
		Header:      header,
		PowerColumn: powerIdx,
	}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		at, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", telemetry.ErrInvalidTimestamp, line, record[0])
		}
		power, err := strconv.ParseFloat(strings.TrimSpace(record[powerIdx]), 64)
		if err != nil || math.IsNaN(power) || math.IsInf(power, 0) {
			return nil, fmt.Errorf("%w: line %d: %q", telemetry.ErrInvalidPower, line, record[powerIdx])
		}

		table.Rows = append(table.Rows, record)
		table.Index = append(table.Index, at.Add(l.offset))
		table.Power = append(table.Power, power)
	}
	if len(table.Rows) == 0 {
		return nil, telemetry.ErrNoData
	}
	return table, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}
