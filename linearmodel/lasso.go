package linearmodel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultLambda     = 1.0
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

var (
	ErrNegativeLambda     = errors.New("negative lambda")
	ErrNegativeIterations = errors.New("negative iterations")
	ErrNegativeTolerance  = errors.New("negative tolerance")
)

// LassoOptions represents input options to run the Lasso Regression
type LassoOptions struct {
	// Lambda is the L1 multiplier controlling the regularization. Must be non-negative. 0.0
	// converges to ordinary least squares.
	Lambda float64

	// Iterations is the maximum number of passes over every coefficient
	Iterations int

	// Tolerance stops iterating once the largest coefficient change of a pass is below
	// Tolerance times the largest coefficient
	Tolerance float64
}

// Validate runs basic validation on Lasso options
func (l *LassoOptions) Validate() (*LassoOptions, error) {
	if l == nil {
		l = NewDefaultLassoOptions()
	}
	if l.Lambda < 0 {
		return nil, ErrNegativeLambda
	}
	if l.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if l.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	return l, nil
}

// NewDefaultLassoOptions returns a default set of Lasso Regression options
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:     DefaultLambda,
		Iterations: DefaultIterations,
		Tolerance:  DefaultTolerance,
	}
}

// LassoRegression computes the lasso regression using coordinate descent over mean centered
// features. The intercept is recovered from the means and is not regularized. Columns that are
// constant over the training data get a zero coefficient.
type LassoRegression struct {
	opt       *LassoOptions
	coef      []float64
	intercept float64
	trained   bool
}

// NewLassoRegression initializes a Lasso model ready for fitting
func NewLassoRegression(opt *LassoOptions) (*LassoRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LassoRegression{
		opt: opt,
	}, nil
}

// Fit the model to an m x n training matrix and m target values
func (l *LassoRegression) Fit(x mat.Matrix, y []float64) error {
	if l.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetSlice
	}

	m, n := x.Dims()
	if len(y) != m {
		return fmt.Errorf("training data has %d rows and target has %d values, %w", m, len(y), ErrTargetLenMismatch)
	}
	if m == 0 {
		return ErrNoTrainingMatrix
	}

	// centered feature columns along with their means and squared norms
	cols := make([][]float64, n)
	means := make([]float64, n)
	xdot := make([]float64, n)
	for j := 0; j < n; j++ {
		col := mat.Col(nil, j, x)
		means[j] = stat.Mean(col, nil)
		floats.AddConst(-means[j], col)
		cols[j] = col
		xdot[j] = floats.Dot(col, col)
	}

	yMean := stat.Mean(y, nil)
	residual := make([]float64, m)
	copy(residual, y)
	floats.AddConst(-yMean, residual)

	beta := make([]float64, n)
	for i := 0; i < l.opt.Iterations; i++ {
		maxCoef := 0.0
		maxUpdate := 0.0

		for j := 0; j < n; j++ {
			if xdot[j] == 0 {
				continue
			}
			betaCurr := beta[j]
			rho := floats.Dot(cols[j], residual) + betaCurr*xdot[j]
			betaNext := SoftThreshold(rho, l.opt.Lambda) / xdot[j]

			if betaNext != betaCurr {
				// keep residual = y - X*beta
				floats.AddScaled(residual, betaCurr-betaNext, cols[j])
			}
			beta[j] = betaNext

			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			maxUpdate = math.Max(maxUpdate, math.Abs(betaNext-betaCurr))
		}

		if maxUpdate <= l.opt.Tolerance*maxCoef {
			break
		}
	}

	l.coef = beta
	l.intercept = yMean - floats.Dot(beta, means)
	l.trained = true
	return nil
}

// Predict using the Lasso model
func (l *LassoRegression) Predict(x mat.Matrix) ([]float64, error) {
	if l.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if !l.trained {
		return nil, ErrUntrained
	}
	return predictLinear(x, l.intercept, l.coef)
}

// Score computes the coefficient of determination of the prediction
func (l *LassoRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetSlice
	}
	res, err := l.Predict(x)
	if err != nil {
		return 0.0, err
	}
	if len(res) != len(y) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d values, %w", len(res), len(y), ErrTargetLenMismatch)
	}

	score := stat.RSquaredFrom(res, y, nil)
	if math.IsNaN(score) {
		score = 1.0
	}
	return score, nil
}

// Intercept returns the computed intercept
func (l *LassoRegression) Intercept() float64 {
	return l.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training matrix columns.
func (l *LassoRegression) Coef() []float64 {
	c := make([]float64, len(l.coef))
	copy(c, l.coef)
	return c
}

// SoftThreshold shrinks x towards zero by gamma, returning 0.0 if |x| <= gamma
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(0, math.Abs(x)-gamma)
	if math.Signbit(x) {
		return -res
	}
	return res
}
