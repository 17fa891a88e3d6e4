package regressor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear predicts intercept + sum(coef_i * x_i)
type Linear struct {
	names     []string
	intercept float64
	coef      []float64
}

func NewLinear(names []string, intercept float64, coef []float64) (*Linear, error) {
	if err := validateNames(names); err != nil {
		return nil, err
	}
	if len(coef) != len(names) {
		return nil, fmt.Errorf("%d coefficients for %d features, %w", len(coef), len(names), ErrFeatureLenMismatch)
	}

	l := &Linear{
		names:     make([]string, len(names)),
		intercept: intercept,
		coef:      make([]float64, len(coef)),
	}
	copy(l.names, names)
	copy(l.coef, coef)
	return l, nil
}

func (l *Linear) FeatureNames() []string {
	names := make([]string, len(l.names))
	copy(names, l.names)
	return names
}

func (l *Linear) Predict(x mat.Matrix) ([]float64, error) {
	m, err := checkCols(x, l.names)
	if err != nil {
		return nil, err
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(len(l.coef), l.coef))

	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = l.intercept + res.AtVec(i)
	}
	return out, nil
}

// Artifact returns the serializeable form of the model
func (l *Linear) Artifact() *Artifact {
	return &Artifact{
		Type:         TypeLinear,
		FeatureNames: l.FeatureNames(),
		Intercept:    l.intercept,
		Coefficients: append([]float64(nil), l.coef...),
	}
}
