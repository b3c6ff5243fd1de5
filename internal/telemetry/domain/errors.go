package telemetry

import "errors"

var (
	// ErrNoData is returned when a file has a header but no rows.
	ErrNoData = errors.New("telemetry: no data to process")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("telemetry: missing column")
	// ErrInvalidTimestamp is returned when the index column cannot be parsed.
	ErrInvalidTimestamp = errors.New("telemetry: invalid timestamp")
	// ErrInvalidPower is returned when a power cell is not numeric.
	ErrInvalidPower = errors.New("telemetry: invalid power value")
	// ErrRowLength is returned when the energy column does not line up with the rows.
	ErrRowLength = errors.New("telemetry: row length mismatch")
)
