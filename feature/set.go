package feature

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Data pairs a feature with its per observation values
type Data struct {
	F    Feature
	Data []float64
}

// Set represents a mapping to each feature data keyed by the string representation
// of the feature.
type Set map[string]Data

// Add registers a feature column, replacing any existing column of the same name
func (s Set) Add(f Feature, data []float64) {
	s[f.String()] = Data{F: f, Data: data}
}

// Get returns the values of a single feature
func (s Set) Get(name string) ([]float64, bool) {
	d, exists := s[name]
	if !exists {
		return nil, false
	}
	return d.Data, true
}

// Rows returns the number of observations in the set
func (s Set) Rows() (int, error) {
	m := -1
	for _, d := range s {
		if m >= 0 && len(d.Data) != m {
			return 0, ErrInconsistentSet
		}
		m = len(d.Data)
	}
	if m < 0 {
		return 0, nil
	}
	return m, nil
}

// Matrix returns an m x n matrix of m observations where the n columns follow the order
// of the provided feature names. This is how a regressor's expected feature names are
// lined up with the generated columns.
func (s Set) Matrix(names []string) (*mat.Dense, error) {
	m, err := s.Rows()
	if err != nil {
		return nil, err
	}
	n := len(names)
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("%d observations and %d features, %w", m, n, ErrInconsistentSet)
	}

	obs := mat.NewDense(m, n, nil)
	for j, name := range names {
		col, exists := s.Get(name)
		if !exists {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownFeature)
		}
		obs.SetCol(j, col)
	}
	return obs, nil
}
