package report

import "errors"

var (
	// ErrEmptyHouseID is returned when a summary has no house id.
	ErrEmptyHouseID = errors.New("report: empty house id")
	// ErrNilSummary is returned when saving a nil summary.
	ErrNilSummary = errors.New("report: nil summary")
	// ErrSummaryNotFound is returned when no summary exists for a house.
	ErrSummaryNotFound = errors.New("report: summary not found")
)
