// Command forecast prints or saves a forecast for the days following the dataset.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aouyang1/go-powercast"
	"github.com/aouyang1/go-powercast/forecast"
	"github.com/aouyang1/go-powercast/internal/cli"
	"github.com/aouyang1/go-powercast/render"
	"github.com/goccy/go-json"
)

var errUnknownFormat = errors.New("unknown output format")

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// validateFormat rejects an output format before anything is loaded or written
func validateFormat(format string) error {
	switch format {
	case formatTable, formatCSV, formatJSON:
		return nil
	}
	return fmt.Errorf("%q, %w", format, errUnknownFormat)
}

func write(w io.Writer, res *forecast.Results, format string) error {
	switch format {
	case formatTable:
		return res.TablePrint(w)
	case formatCSV:
		return res.WriteCSV(w)
	case formatJSON:
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	return fmt.Errorf("%q, %w", format, errUnknownFormat)
}

func main() {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	days := fs.Int("days", 0, "number of days to forecast, defaults to the configured horizon")
	format := fs.String("format", formatTable, "output format: table, csv or json")
	out := fs.String("out", "", "write the forecast to a file instead of stdout")
	chart := fs.String("chart", "", "also write the forecast chart as html to this file")
	fs.Parse(os.Args[1:])

	if err := validateFormat(*format); err != nil {
		cli.Fatal("invalid -format", err)
	}

	cfg, err := common.Load(fs)
	if err != nil {
		cli.Fatal("unable to load config", err)
	}

	prof, err := common.StartProfile()
	if err != nil {
		cli.Fatal("unable to start profile", err)
	}
	defer prof.Stop()

	n := *days
	if n == 0 {
		n = cfg.Forecast.DefaultHorizon
	}

	rt, err := powercast.Setup(cfg)
	if err != nil {
		cli.Fatal("unable to set up forecaster", err)
	}
	res, err := rt.Predict(n)
	if err != nil {
		cli.Fatal("unable to forecast", err)
	}

	writeRes := func(w io.Writer) error { return write(w, res, *format) }
	if *out == "" {
		err = writeRes(os.Stdout)
	} else {
		err = cli.WriteFile(*out, writeRes)
	}
	if err != nil {
		cli.Fatal("unable to write forecast", err)
	}

	if *chart != "" {
		if err := cli.WriteFile(*chart, func(w io.Writer) error { return render.WriteChart(w, res) }); err != nil {
			cli.Fatal("unable to write chart", err)
		}
	}
}
