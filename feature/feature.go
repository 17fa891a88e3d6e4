// Package feature derives the calendar features a forecast regressor consumes from a
// slice of timestamps.
package feature

import "errors"

var (
	ErrUnknownFeature  = errors.New("unknown feature")
	ErrInvalidHour     = errors.New("hour must be between 0 and 23")
	ErrInconsistentSet = errors.New("feature set has columns of different lengths")
)

// Feature is a named column of a feature Set.
type Feature interface {
	String() string
}
