package telemetry

import "time"

// Sample is a single power reading.
type Sample struct {
	At     time.Time
	PowerW float64
}

// Series is an ordered power-over-time sequence for one house.
// Samples are expected to be sorted and evenly spaced; neither is enforced.
type Series struct {
	HouseID string
	Samples []Sample
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Samples) }

// Values returns the power readings in sample order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		values[i] = sample.PowerW
	}
	return values
}

// Times returns the sample timestamps in sample order.
func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s.Samples))
	for i, sample := range s.Samples {
		times[i] = sample.At
	}
	return times
}

// Head returns at most n leading samples.
func (s Series) Head(n int) []Sample {
	if n < 0 {
		n = 0
	}
	if n > len(s.Samples) {
		n = len(s.Samples)
	}
	return s.Samples[:n]
}

// IrregularIntervals counts consecutive samples whose spacing differs from interval.
func (s Series) IrregularIntervals(interval time.Duration) int {
	count := 0
	for i := 1; i < len(s.Samples); i++ {
		if s.Samples[i].At.Sub(s.Samples[i-1].At) != interval {
			count++
		}
	}
	return count
}

// Table is the parsed source file: raw cells plus the shifted row index and
// the parsed power column. Header[0] names the timestamp column.
type Table struct {
	Header      []string
	Rows        [][]string
	Index       []time.Time
	Power       []float64
	PowerColumn int
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Series builds the power series keyed by the shifted timestamps.
func (t *Table) Series(houseID string) Series {
	samples := make([]Sample, len(t.Index))
	for i, at := range t.Index {
		samples[i] = Sample{At: at, PowerW: t.Power[i]}
	}
	return Series{HouseID: houseID, Samples: samples}
}
