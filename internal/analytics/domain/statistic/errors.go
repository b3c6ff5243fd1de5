package statistic

import "errors"

var (
	// ErrEmptySeries is returned when a reduction is asked for an empty series.
	ErrEmptySeries = errors.New("statistic: empty series")
	// ErrInvalidInterval is returned when the sample interval is not positive.
	ErrInvalidInterval = errors.New("statistic: invalid sample interval")
	// ErrInvalidUnit is returned when the joules-per-kWh factor is not positive.
	ErrInvalidUnit = errors.New("statistic: invalid energy unit")
)
