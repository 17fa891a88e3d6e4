// Package timedataset loads the historical consumption series a forecast starts from.
package timedataset

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNoRows             = errors.New("dataset has no rows")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrMissingColumn      = errors.New("column not found in header")
	ErrUnsupportedFormat  = errors.New("unsupported dataset format")
	ErrUnparseableTime    = errors.New("unable to parse timestamp")
	ErrUnparseableValue   = errors.New("unable to parse value")
)

// TimeDataset represents a time series storing a slice of time points and optionally values.
// When values are present both must be of the same length. Time points are kept in file
// order and may contain duplicates, e.g. around daylight saving transitions.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewDataset returns a TimeDataset copying the given time and value slices. y may be nil
// for a dataset that only tracks timestamps.
func NewDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(t) == 0 {
		return nil, ErrNoRows
	}
	if y != nil && len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	td := &TimeDataset{
		T: make([]time.Time, len(t)),
	}
	copy(td.T, t)
	if y != nil {
		td.Y = make([]float64, len(y))
		copy(td.Y, y)
	}
	return td, nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// HasValues reports whether the dataset carries an observation per time point
func (td *TimeDataset) HasValues() bool {
	return td != nil && td.Y != nil
}

// LastTime returns the latest timestamp in the dataset which is not necessarily the last row
func (td *TimeDataset) LastTime() time.Time {
	if td == nil {
		return time.Time{}
	}
	return TimeSlice(td.T).Max()
}

// FirstTime returns the earliest timestamp in the dataset
func (td *TimeDataset) FirstTime() time.Time {
	if td == nil {
		return time.Time{}
	}
	return TimeSlice(td.T).Min()
}

func (td *TimeDataset) Copy() *TimeDataset {
	out := &TimeDataset{
		T: make([]time.Time, len(td.T)),
	}
	copy(out.T, td.T)
	if td.Y != nil {
		out.Y = make([]float64, len(td.Y))
		copy(out.Y, td.Y)
	}
	return out
}

// Sorted returns a copy of the dataset ordered by time. Rows sharing a timestamp keep
// their file order.
func (td *TimeDataset) Sorted() *TimeDataset {
	out := td.Copy()
	sort.Stable(byTime{out})
	return out
}

// byTime sorts the values along with their timestamps
type byTime struct {
	*TimeDataset
}

func (b byTime) Len() int           { return len(b.T) }
func (b byTime) Less(i, j int) bool { return b.T[i].Before(b.T[j]) }
func (b byTime) Swap(i, j int) {
	b.T[i], b.T[j] = b.T[j], b.T[i]
	if b.Y != nil {
		b.Y[i], b.Y[j] = b.Y[j], b.Y[i]
	}
}
