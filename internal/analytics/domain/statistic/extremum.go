package statistic

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	telemetry "energy-report/internal/telemetry/domain"
)

// LabelLayout renders an extremum timestamp as hour:minute.
const LabelLayout = "15:04"

// Extremum is a peak or trough of a power series.
type Extremum struct {
	Value float64
	At    time.Time
}

// Label returns the hour:minute of the extremum.
func (e Extremum) Label() string { return e.At.Format(LabelLayout) }

// Extrema holds the peak and trough of one series.
type Extrema struct {
	Max Extremum
	Min Extremum
}

// MaxString formats the peak for display.
func (e Extrema) MaxString() string {
	return fmt.Sprintf("Max Power: %.2f W at %s", e.Max.Value, e.Max.Label())
}

// MinString formats the trough for display.
func (e Extrema) MinString() string {
	return fmt.Sprintf("Min Power: %.2f W at %s", e.Min.Value, e.Min.Label())
}

// FindExtrema returns the peak and trough of series.
// On ties the earliest sample wins.
func FindExtrema(series telemetry.Series) (Extrema, error) {
	if series.Len() == 0 {
		return Extrema{}, ErrEmptySeries
	}
	values := series.Values()
	maxIdx := floats.MaxIdx(values)
	minIdx := floats.MinIdx(values)
	return Extrema{
		Max: Extremum{Value: values[maxIdx], At: series.Samples[maxIdx].At},
		Min: Extremum{Value: values[minIdx], At: series.Samples[minIdx].At},
	}, nil
}

// MeanPower returns the arithmetic mean of the readings.
func MeanPower(series telemetry.Series) (float64, error) {
	if series.Len() == 0 {
		return 0, ErrEmptySeries
	}
	return stat.Mean(series.Values(), nil), nil
}
