// Package forecast runs a pre-trained regressor over the calendar features of the days
// following the end of a historical dataset.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-powercast/feature"
	"github.com/aouyang1/go-powercast/regressor"
)

var (
	ErrNoRegressor           = errors.New("no regressor")
	ErrNoLastTime            = errors.New("no last dataset time to forecast from")
	ErrHorizonOutOfRange     = errors.New("horizon out of range")
	ErrInvalidHorizon        = errors.New("horizon is not a whole number of days")
	ErrPredictionLenMismatch = errors.New("regressor returned a different number of predictions than days")
	ErrFeatureMismatch       = errors.New("regressor expects features that cannot be generated")
)

// Forecaster generates daily forecasts from a regressor. It holds no state between calls so a
// single instance can serve concurrent requests.
type Forecaster struct {
	opt *Options
	reg regressor.Regressor
}

// New creates a forecaster over reg. If no options are provided a default is used.
func New(reg regressor.Regressor, opt *Options) (*Forecaster, error) {
	if reg == nil {
		return nil, ErrNoRegressor
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	f := &Forecaster{
		opt: opt,
		reg: reg,
	}
	if err := f.checkFeatures(); err != nil {
		return nil, err
	}
	return f, nil
}

// checkFeatures fails early if the regressor expects a column no calendar feature provides
func (f *Forecaster) checkFeatures() error {
	known := feature.CalendarFeatures()
	for _, name := range f.reg.FeatureNames() {
		if _, exists := known.Index(name); !exists {
			return fmt.Errorf("%q, %w", name, ErrFeatureMismatch)
		}
	}
	return nil
}

// FeatureNames returns the features the regressor is evaluated on, in its column order
func (f *Forecaster) FeatureNames() []string {
	return f.reg.FeatureNames()
}

// Predict forecasts each of the days following last
func (f *Forecaster) Predict(last time.Time, days int) (*Results, error) {
	t, err := NewHorizon(last, days)
	if err != nil {
		return nil, err
	}

	set, err := feature.Generate(t, f.opt.Features)
	if err != nil {
		return nil, fmt.Errorf("unable to generate features, %w", err)
	}

	names := f.reg.FeatureNames()
	x, err := set.Matrix(names)
	if err != nil {
		return nil, fmt.Errorf("unable to build feature matrix, %w", err)
	}

	predicted, err := f.reg.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("unable to predict, %w", err)
	}
	if len(predicted) != len(t) {
		return nil, fmt.Errorf("got %d predictions for %d days, %w", len(predicted), len(t), ErrPredictionLenMismatch)
	}

	rows := make([]Row, len(t))
	for i, tPnt := range t {
		rows[i] = newRow(tPnt, set, i, predicted[i])
	}

	return &Results{
		LastTime:     last,
		FeatureNames: names,
		Rows:         rows,
	}, nil
}

func newRow(t time.Time, set feature.Set, i int, predicted float64) Row {
	val := func(label string) int {
		col, exists := set.Get(label)
		if !exists {
			return 0
		}
		return int(col[i])
	}
	return Row{
		Date:      t,
		Hour:      val(feature.LabelHour),
		Day:       val(feature.LabelDay),
		Month:     val(feature.LabelMonth),
		Year:      val(feature.LabelYear),
		Weekday:   val(feature.LabelWeekday),
		Season:    val(feature.LabelSeason),
		IsWeekend: val(feature.LabelIsWeekend),
		IsHoliday: val(feature.LabelIsHoliday),
		Predicted: predicted,
	}
}
