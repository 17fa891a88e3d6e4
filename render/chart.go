// Package render draws forecasts and model fits as go-echarts line charts.
package render

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/aouyang1/go-powercast/forecast"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	XAxisName       = "Date"
	YAxisName       = "Predicted Energy (MW)"
	SeriesPredicted = "Predicted"
	LineColor       = "orange"
	PageTitle       = "PJM Energy Forecast"

	labelRotation = 45
)

// Title names a forecast chart by its horizon
func Title(days int) string {
	return fmt.Sprintf("Forecasted Power Demand (Next %d Days)", days)
}

// LineForecast generates an echart line chart of the predicted value for each forecasted day
func LineForecast(res *forecast.Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(
			opts.Initialization{
				PageTitle: PageTitle,
				Width:     "1000px",
				Height:    "500px",
			},
		),
		charts.WithTitleOpts(
			opts.Title{
				Title: Title(res.Len()),
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: XAxisName,
				AxisLabel: &opts.AxisLabel{
					Rotate: labelRotation,
				},
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: YAxisName,
			},
		),
	)

	dates := make([]string, 0, res.Len())
	for _, d := range res.Dates() {
		dates = append(dates, d.Format(time.DateOnly))
	}
	lineData := make([]opts.LineData, 0, res.Len())
	for _, y := range res.Predicted() {
		lineData = append(lineData, opts.LineData{Value: y})
	}

	line.SetXAxis(dates).
		AddSeries(SeriesPredicted, lineData,
			charts.WithLineChartOpts(
				opts.LineChart{
					Symbol:     "circle",
					ShowSymbol: opts.Bool(true),
				},
			),
			charts.WithLineStyleOpts(opts.LineStyle{Color: LineColor}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: LineColor}),
		)
	return line
}

// WriteChart renders the forecast chart as a standalone html page
func WriteChart(w io.Writer, res *forecast.Results) error {
	return LineForecast(res).Render(w)
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. Points where the
// first series is NaN are dropped from every series.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
		charts.WithDataZoomOpts(
			opts.DataZoom{
				Type: "slider",
			},
		),
	)

	keep := make([]bool, len(t))
	filteredT := make([]string, 0, len(t))
	for j := range t {
		if len(y) > 0 && j < len(y[0]) && math.IsNaN(y[0][j]) {
			continue
		}
		keep[j] = true
		filteredT = append(filteredT, t[j].Format(time.DateTime))
	}

	line.SetXAxis(filteredT)
	for i, series := range seriesName {
		if i >= len(y) {
			break
		}
		lineData := make([]opts.LineData, 0, len(filteredT))
		for j := 0; j < len(y[i]) && j < len(t); j++ {
			if !keep[j] {
				continue
			}
			lineData = append(lineData, opts.LineData{Value: y[i][j]})
		}
		line.AddSeries(series, lineData)
	}
	return line
}

// WriteFitPage renders the actual and fitted values along with their residual as a single html page
func WriteFitPage(w io.Writer, t []time.Time, actual, fitted []float64) error {
	if len(actual) != len(t) || len(fitted) != len(t) {
		return fmt.Errorf("got %d actual and %d fitted values for %d timestamps, %w", len(actual), len(fitted), len(t), ErrSeriesLenMismatch)
	}

	residual := make([]float64, len(t))
	for i := range t {
		residual[i] = actual[i] - fitted[i]
	}

	page := components.NewPage()
	page.SetPageTitle("Baseline Fit")
	page.AddCharts(
		LineTSeries("Baseline Fit", []string{"Actual", "Fitted"}, t, [][]float64{actual, fitted}),
		LineTSeries("Residual", []string{"Residual"}, t, [][]float64{residual}),
	)
	return page.Render(w)
}
