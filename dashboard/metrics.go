package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "powercast"
	subsystem = "dashboard"
)

// Output names what a request rendered
const (
	OutputPage  = "page"
	OutputChart = "chart"
	OutputCSV   = "csv"
	OutputAPI   = "api"
)

// Metrics tracks forecast renders on its own registry so multiple servers can coexist
type Metrics struct {
	Registry *prometheus.Registry

	Forecasts *prometheus.CounterVec
	Errors    *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Horizon   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Forecasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "forecasts_total",
				Help:      "Number of forecasts rendered by output",
			},
			[]string{"output"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "errors_total",
				Help:      "Number of failed requests by status code",
			},
			[]string{"code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "forecast_duration_seconds",
				Help:      "Time to predict and render a forecast by output",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"output"},
		),
		Horizon: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "horizon_days",
				Help:      "Requested forecast horizon in days",
				Buckets:   prometheus.LinearBuckets(5, 5, 6),
			},
		),
	}

	m.Registry.MustRegister(
		m.Forecasts,
		m.Errors,
		m.Duration,
		m.Horizon,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observe(output string, days int, start time.Time) {
	if m == nil {
		return
	}
	m.Forecasts.WithLabelValues(output).Inc()
	m.Duration.WithLabelValues(output).Observe(time.Since(start).Seconds())
	m.Horizon.Observe(float64(days))
}

func (m *Metrics) failed(code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(code).Inc()
}
