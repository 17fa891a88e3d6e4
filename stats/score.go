// Package stats scores a regressor's predictions against observed consumption.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValidPoints  = errors.New("no points where both predicted and actual are set")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error" yaml:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error" yaml:"mean_average_percent_error"`
	R2   float64 `json:"r_squared" yaml:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual values. Points where
// either side is NaN are ignored.
func NewScores(predicted, actual []float64) (*Scores, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return nil, err
	}

	return &Scores{
		MSE:  mse(p, a),
		MAPE: mape(p, a),
		R2:   rSquared(p, a),
	}, nil
}

// MSE computes the mean squared error. A score of 0 means a perfect match.
func MSE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mse(p, a), nil
}

// MAPE computes the mean absolute percent error skipping points where the actual value is
// zero. A score of 0 means a perfect match.
func MAPE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mape(p, a), nil
}

// RSquared computes the coefficient of determination where 1.0 is a perfect fit
func RSquared(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return rSquared(p, a), nil
}

func pairs(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return nil, nil, ErrNoValidPoints
	}
	return p, a, nil
}

func mse(predicted, actual []float64) float64 {
	res := 0.0
	for i := range actual {
		res += math.Pow(actual[i]-predicted[i], 2.0)
	}
	return res / float64(len(actual))
}

func mape(predicted, actual []float64) float64 {
	res := 0.0
	var n int
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		res += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return res / float64(n)
}

func rSquared(predicted, actual []float64) float64 {
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	// constant actuals matched exactly
	if math.IsNaN(r2) {
		return 1.0
	}
	return r2
}
