// Package baseline fits an ordinary least squares model over the calendar features of a
// historical dataset so the dashboard can run without an externally trained regressor.
package baseline

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-powercast/feature"
	"github.com/aouyang1/go-powercast/linearmodel"
	"github.com/aouyang1/go-powercast/regressor"
	"github.com/aouyang1/go-powercast/stats"
	"github.com/aouyang1/go-powercast/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoDataset         = errors.New("no dataset to fit")
	ErrNoValues          = errors.New("dataset has no values to fit against")
	ErrNoValidRows       = errors.New("dataset has no rows with a value")
	ErrNoVaryingFeatures = errors.New("every feature is constant over the dataset")
)

// Options configures the baseline fit
type Options struct {
	// Features derives the training matrix. Defaults to keeping each timestamp's own hour.
	Features *feature.Options

	// FeatureNames lists the model's columns in order. Defaults to every calendar feature.
	FeatureNames []string

	// Lambda fits a lasso regression with this L1 penalty when positive, otherwise ordinary
	// least squares
	Lambda float64
}

func NewDefaultOptions() *Options {
	return &Options{
		Features:     feature.NewHistoricalOptions(),
		FeatureNames: feature.CalendarLabels(),
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Features == nil {
		o.Features = feature.NewHistoricalOptions()
	}
	if len(o.FeatureNames) == 0 {
		o.FeatureNames = feature.CalendarLabels()
	}
	if o.Lambda < 0 {
		return nil, linearmodel.ErrNegativeLambda
	}
	return o, nil
}

// linearFitter is satisfied by the ols and lasso regressions
type linearFitter interface {
	Fit(x mat.Matrix, y []float64) error
	Intercept() float64
	Coef() []float64
}

func newFitter(opt *Options) (linearFitter, error) {
	if opt.Lambda > 0 {
		lassoOpt := linearmodel.NewDefaultLassoOptions()
		lassoOpt.Lambda = opt.Lambda
		return linearmodel.NewLassoRegression(lassoOpt)
	}
	return linearmodel.NewOLSRegression(linearmodel.NewDefaultOLSOptions())
}

// Result is a fitted baseline along with its in sample fit
type Result struct {
	Artifact *regressor.Artifact
	T        []time.Time
	Actual   []float64
	Fitted   []float64
}

// Fit trains a linear regressor mapping calendar features to the dataset values. The fitted
// series is returned in time order whatever the order of the dataset. Rows without a value
// are skipped. Features that never vary over the dataset, e.g. is_holiday without a
// holiday calendar, are kept in the artifact with a zero coefficient.
func Fit(td *timedataset.TimeDataset, opt *Options) (*Result, error) {
	if td == nil {
		return nil, ErrNoDataset
	}
	if !td.HasValues() {
		return nil, ErrNoValues
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	t, y := validRows(td.Sorted())
	if len(t) == 0 {
		return nil, ErrNoValidRows
	}

	set, err := feature.Generate(t, opt.Features)
	if err != nil {
		return nil, fmt.Errorf("unable to generate training features, %w", err)
	}

	varying, err := varyingFeatures(set, opt.FeatureNames)
	if err != nil {
		return nil, err
	}
	if len(varying) == 0 {
		return nil, ErrNoVaryingFeatures
	}

	x, err := set.Matrix(varying)
	if err != nil {
		return nil, fmt.Errorf("unable to build training matrix, %w", err)
	}

	fitter, err := newFitter(opt)
	if err != nil {
		return nil, err
	}
	if err := fitter.Fit(x, y); err != nil {
		return nil, fmt.Errorf("unable to fit baseline, %w", err)
	}

	fitCoef := make(map[string]float64, len(varying))
	for i, c := range fitter.Coef() {
		fitCoef[varying[i]] = c
	}
	coef := make([]float64, len(opt.FeatureNames))
	for i, name := range opt.FeatureNames {
		coef[i] = fitCoef[name]
	}

	model, err := regressor.NewLinear(opt.FeatureNames, fitter.Intercept(), coef)
	if err != nil {
		return nil, err
	}

	fullX, err := set.Matrix(opt.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("unable to build training matrix, %w", err)
	}
	fitted, err := model.Predict(fullX)
	if err != nil {
		return nil, err
	}

	scores, err := stats.NewScores(fitted, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score baseline, %w", err)
	}

	artifact := model.Artifact()
	artifact.TrainEndTime = td.LastTime()
	artifact.Scores = scores

	slog.Debug("fit baseline",
		"rows", len(y),
		"features", len(opt.FeatureNames),
		"varying_features", len(varying),
		"lambda", opt.Lambda,
		"r2", scores.R2,
	)

	return &Result{
		Artifact: artifact,
		T:        t,
		Actual:   y,
		Fitted:   fitted,
	}, nil
}

func validRows(td *timedataset.TimeDataset) ([]time.Time, []float64) {
	t := make([]time.Time, 0, td.Len())
	y := make([]float64, 0, td.Len())
	for i, val := range td.Y {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			continue
		}
		t = append(t, td.T[i])
		y = append(y, val)
	}
	return t, y
}

// varyingFeatures returns the names, in order, whose column takes more than one value
func varyingFeatures(set feature.Set, names []string) ([]string, error) {
	varying := make([]string, 0, len(names))
	for _, name := range names {
		col, exists := set.Get(name)
		if !exists {
			return nil, fmt.Errorf("%q, %w", name, feature.ErrUnknownFeature)
		}
		if len(col) == 0 || floats.Min(col) == floats.Max(col) {
			continue
		}
		varying = append(varying, name)
	}
	return varying, nil
}
