// Package powercast wires the historical dataset, the pre-trained regressor and the calendar
// feature settings into a forecaster that predicts daily energy consumption for the days
// following the end of the dataset.
package powercast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-powercast/config"
	"github.com/aouyang1/go-powercast/forecast"
	"github.com/aouyang1/go-powercast/holiday"
	"github.com/aouyang1/go-powercast/regressor"
	"github.com/aouyang1/go-powercast/timedataset"
)

var ErrNoConfig = errors.New("no config")

// Runtime holds everything loaded once at startup. None of it changes afterwards so a
// Runtime may be shared across requests.
type Runtime struct {
	Config     *config.Config
	Dataset    *timedataset.TimeDataset
	Regressor  regressor.Regressor
	Forecaster *forecast.Forecaster

	// Holidays is the calendar is_holiday is derived from, nil when disabled
	Holidays *holiday.Calendar
}

// Setup loads the dataset and the model named by cfg and builds the forecaster
func Setup(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config, %w", err)
	}

	dsOpt, err := cfg.Dataset.Options()
	if err != nil {
		return nil, err
	}
	td, err := timedataset.LoadFile(cfg.Dataset.Path, dsOpt)
	if err != nil {
		return nil, fmt.Errorf("unable to load dataset, %w", err)
	}
	slog.Info("loaded dataset",
		"path", cfg.Dataset.Path,
		"rows", td.Len(),
		"first_time", td.FirstTime(),
		"last_time", td.LastTime(),
	)

	reg, err := regressor.LoadFile(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to load model, %w", err)
	}
	slog.Info("loaded model", "path", cfg.Model.Path, "features", reg.FeatureNames())

	cal, err := cfg.Forecast.Calendar()
	if err != nil {
		return nil, err
	}
	fcOpt, err := cfg.Forecast.Options()
	if err != nil {
		return nil, err
	}
	f, err := forecast.New(reg, fcOpt)
	if err != nil {
		return nil, fmt.Errorf("unable to create forecaster, %w", err)
	}

	return &Runtime{
		Config:     cfg,
		Dataset:    td,
		Regressor:  reg,
		Forecaster: f,
		Holidays:   cal,
	}, nil
}

// LastTime is the latest timestamp of the dataset, which is not necessarily its last row
func (r *Runtime) LastTime() time.Time {
	return r.Dataset.LastTime()
}

// Predict forecasts the days following the end of the dataset
func (r *Runtime) Predict(days int) (*forecast.Results, error) {
	return r.Forecaster.Predict(r.LastTime(), days)
}
