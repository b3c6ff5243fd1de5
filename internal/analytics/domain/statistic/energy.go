package statistic

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	telemetry "energy-report/internal/telemetry/domain"
)

// JoulesPerKWh converts joules to kilowatt-hours.
const JoulesPerKWh = 3_600_000

// EnergySeries is the running energy total, index-aligned with the power series.
type EnergySeries struct {
	Joules []float64
	KWh    []float64
}

// Len returns the number of points.
func (e EnergySeries) Len() int { return len(e.KWh) }

// Total returns the largest cumulative value, which is the last one for
// non-negative power.
func (e EnergySeries) Total() float64 {
	if len(e.KWh) == 0 {
		return 0
	}
	return floats.Max(e.KWh)
}

// TotalString formats the total for display.
func (e EnergySeries) TotalString() string {
	return fmt.Sprintf("Total Energy Consumption: %.2f kWh", e.Total())
}

// Integrator approximates the energy integral with the rectangular rule.
// The interval is fixed; actual timestamp deltas are ignored.
type Integrator struct {
	interval     time.Duration
	joulesPerKWh float64
}

// NewIntegrator constructs an Integrator.
func NewIntegrator(interval time.Duration, joulesPerKWh float64) (*Integrator, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if joulesPerKWh <= 0 {
		return nil, ErrInvalidUnit
	}
	return &Integrator{interval: interval, joulesPerKWh: joulesPerKWh}, nil
}

// Interval returns the sample interval.
func (i *Integrator) Interval() time.Duration { return i.interval }

// Integrate returns the cumulative energy of series.
func (i *Integrator) Integrate(series telemetry.Series) EnergySeries {
	seconds := i.interval.Seconds()
	contributions := series.Values()
	floats.Scale(seconds, contributions)
	joules := make([]float64, len(contributions))
	floats.CumSum(joules, contributions)

	kwh := make([]float64, len(joules))
	for idx, j := range joules {
		kwh[idx] = j / i.joulesPerKWh
	}
	return EnergySeries{Joules: joules, KWh: kwh}
}
