// Command fit trains a linear baseline over the calendar features of the historical dataset and
// saves it as a model artifact the dashboard can load.
package main

import (
	"flag"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/aouyang1/go-powercast/baseline"
	"github.com/aouyang1/go-powercast/config"
	"github.com/aouyang1/go-powercast/feature"
	"github.com/aouyang1/go-powercast/holiday"
	"github.com/aouyang1/go-powercast/internal/cli"
	"github.com/aouyang1/go-powercast/regressor"
	"github.com/aouyang1/go-powercast/render"
	"github.com/aouyang1/go-powercast/timedataset"
)

// pjmwProfile roughly follows the hourly PJM West load
var pjmwProfile = timedataset.LoadProfile{
	Base:        5600,
	DailyAmp:    700,
	WeekendDrop: 450,
	SummerAmp:   900,
	YearlyTrend: 40,
	Noise:       150,
}

func loadDataset(cfg *config.Config, simulateDays int, seed uint64) (*timedataset.TimeDataset, error) {
	if simulateDays > 0 {
		start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
		rng := rand.New(rand.NewPCG(seed, seed))
		return pjmwProfile.Simulate(start, simulateDays*24, time.Hour, rng)
	}

	opt, err := cfg.Dataset.Options()
	if err != nil {
		return nil, err
	}
	if opt.ValueColumn == "" {
		opt.ValueColumn = timedataset.DefaultValueColumn
	}
	return timedataset.LoadFile(cfg.Dataset.Path, opt)
}

func main() {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	simulate := fs.Int("simulate", 0, "fit a simulated dataset of this many days instead of reading the dataset")
	seed := fs.Uint64("seed", 1, "random seed of the simulated dataset")
	simulateOut := fs.String("simulate-out", "", "write the simulated dataset as csv to this file")
	chart := fs.String("chart", "", "write the fit and its residual as html to this file")
	lambda := fs.Float64("lambda", 0, "fit a lasso regression with this L1 penalty instead of ordinary least squares")
	fs.Parse(os.Args[1:])

	cfg, err := common.Load(fs)
	if err != nil {
		cli.Fatal("unable to load config", err)
	}

	prof, err := common.StartProfile()
	if err != nil {
		cli.Fatal("unable to start profile", err)
	}
	defer prof.Stop()

	td, err := loadDataset(cfg, *simulate, *seed)
	if err != nil {
		cli.Fatal("unable to load dataset", err)
	}
	slog.Info("fitting baseline", "rows", td.Len(), "first_time", td.FirstTime(), "last_time", td.LastTime())

	if *simulateOut != "" {
		err := cli.WriteFile(*simulateOut, func(w io.Writer) error { return td.WriteCSV(w, nil) })
		if err != nil {
			cli.Fatal("unable to write simulated dataset", err)
		}
	}

	cal, err := holiday.New(cfg.Forecast.HolidayCalendar)
	if err != nil {
		cli.Fatal("unable to load holiday calendar", err)
	}
	opt := baseline.NewDefaultOptions()
	opt.Lambda = *lambda
	if cal != nil {
		opt.Features = &feature.Options{Holidays: cal}
	}

	res, err := baseline.Fit(td, opt)
	if err != nil {
		cli.Fatal("unable to fit baseline", err)
	}

	if err := regressor.SaveFile(cfg.Model.Path, res.Artifact); err != nil {
		cli.Fatal("unable to save model", err)
	}
	slog.Info("saved model", "path", cfg.Model.Path)

	if err := res.Artifact.TablePrint(os.Stdout); err != nil {
		cli.Fatal("unable to print model", err)
	}

	if *chart != "" {
		err := cli.WriteFile(*chart, func(w io.Writer) error {
			return render.WriteFitPage(w, res.T, res.Actual, res.Fitted)
		})
		if err != nil {
			cli.Fatal("unable to write chart", err)
		}
	}
}
