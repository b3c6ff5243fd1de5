package settlement

import "errors"

var (
	// ErrEmptySubjectID is returned when subject id is empty.
	ErrEmptySubjectID = errors.New("settlement: empty subject id")
	// ErrNegativePrice is returned when a price below zero is configured.
	ErrNegativePrice = errors.New("settlement: negative price")
	// ErrNilPriceProvider is returned when no price source is wired.
	ErrNilPriceProvider = errors.New("settlement: nil price provider")
)
