// Package linearmodel fits ordinary least squares models over a calendar feature matrix.
package linearmodel

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetSlice      = errors.New("no target values")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrTargetLenMismatch  = errors.New("target length does not match training rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrUnderdetermined    = errors.New("fewer observations than coefficients")
	ErrUntrained          = errors.New("model has not been fit")
)

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}
	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares using QR factorization
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
	trained   bool
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

func (o *OLSRegression) design(x mat.Matrix) mat.Matrix {
	if !o.opt.FitIntercept {
		return x
	}
	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)

	var withOnes mat.Dense
	withOnes.Augment(mat.NewDense(m, 1, ones), x)
	return &withOnes
}

// Fit the model to an m x n training matrix and m target values
func (o *OLSRegression) Fit(x mat.Matrix, y []float64) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetSlice
	}

	m, _ := x.Dims()
	if len(y) != m {
		return fmt.Errorf("training data has %d rows and target has %d values, %w", m, len(y), ErrTargetLenMismatch)
	}

	x = o.design(x)
	_, n := x.Dims()
	if m < n {
		return fmt.Errorf("%d observations for %d coefficients, %w", m, n, ErrUnderdetermined)
	}

	var qr mat.QR
	qr.Factorize(x)

	var c mat.Dense
	if err := qr.SolveTo(&c, false, mat.NewVecDense(m, y)); err != nil {
		return fmt.Errorf("unable to solve least squares, %w", err)
	}
	coef := mat.Col(nil, 0, &c)

	if o.opt.FitIntercept {
		o.intercept = coef[0]
		o.coef = coef[1:]
	} else {
		o.coef = coef
	}
	o.trained = true
	return nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if !o.trained {
		return nil, ErrUntrained
	}

	return predictLinear(x, o.intercept, o.coef)
}

func predictLinear(x mat.Matrix, intercept float64, coef []float64) ([]float64, error) {
	m, n := x.Dims()
	if n != len(coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(coef), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, coef))

	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = res.AtVec(i) + intercept
	}
	return out, nil
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetSlice
	}

	m, _ := x.Dims()
	if m != len(y) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d values, %w", m, len(y), ErrTargetLenMismatch)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}
	return stat.RSquaredFrom(res, y, nil), nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training matrix columns.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}
