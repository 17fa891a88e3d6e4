// Package dashboard serves the interactive forecast page along with the chart, CSV download and
// JSON views of the same forecast.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-powercast/forecast"
	"github.com/aouyang1/go-powercast/holiday"
	"github.com/aouyang1/go-powercast/render"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ErrNoForecaster = errors.New("no forecaster")
	ErrNoLastTime   = errors.New("no last dataset time")
)

const (
	PageTitle       = "PJM Energy Forecasting"
	PageDescription = "Forecast energy consumption for up to 30 days using a pre-trained regression model."
	CSVFilename     = "forecast.csv"

	queryDays = "days"
)

// Suggestions lists improvements shown at the bottom of the page
var Suggestions = []string{
	"Dynamically adjust hour/day granularity.",
	"Add holiday detection from a calendar library.",
	"Visualize uncertainty bounds.",
	"Incorporate weather data as features.",
}

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Options configures the dashboard server
type Options struct {
	// DefaultHorizon is used when a request does not pass days
	DefaultHorizon int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Metrics exposes prometheus metrics on /metrics
	Metrics bool

	// AccessLog receives one line per request. Defaults to stderr.
	AccessLog io.Writer

	// Holidays lists the holidays observed within the horizon on the page. Nil hides the list.
	Holidays *holiday.Calendar
}

func NewDefaultOptions() *Options {
	return &Options{
		DefaultHorizon: forecast.DefaultHorizon,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		Metrics:        true,
		AccessLog:      os.Stderr,
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.DefaultHorizon == 0 {
		o.DefaultHorizon = forecast.DefaultHorizon
	}
	if err := forecast.ValidateHorizon(o.DefaultHorizon); err != nil {
		return nil, fmt.Errorf("default horizon, %w", err)
	}
	if o.AccessLog == nil {
		o.AccessLog = os.Stderr
	}
	return o, nil
}

// Server renders forecasts from a single forecaster and the last time of the dataset it was
// loaded with. Both are fixed for the lifetime of the server.
type Server struct {
	opt        *Options
	forecaster *forecast.Forecaster
	last       time.Time
	metrics    *Metrics
	app        *fiber.App
}

func New(f *forecast.Forecaster, last time.Time, opt *Options) (*Server, error) {
	if f == nil {
		return nil, ErrNoForecaster
	}
	if last.IsZero() {
		return nil, ErrNoLastTime
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opt:        opt,
		forecaster: f,
		last:       last,
	}
	if opt.Metrics {
		s.metrics = NewMetrics()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               PageTitle,
		ReadTimeout:           opt.ReadTimeout,
		WriteTimeout:          opt.WriteTimeout,
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}?${queryParams}\n",
		Output: opt.AccessLog,
	}))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	s.app.Get("/", s.handlePage)
	s.app.Get("/chart", s.handleChart)
	s.app.Get("/"+CSVFilename, s.handleCSV)
	s.app.Get("/api/forecast", s.handleAPI)
	s.app.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}),
		))
	}
	return s, nil
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Metrics returns the server's metrics or nil if they are disabled
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Listen serves on addr until the server is shut down
func (s *Server) Listen(addr string) error {
	slog.Info("dashboard listening", "addr", addr, "last_time", s.last, "features", s.forecaster.FeatureNames())
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) horizon(c *fiber.Ctx) (int, error) {
	raw := c.Query(queryDays)
	if strings.TrimSpace(raw) == "" {
		return s.opt.DefaultHorizon, nil
	}
	days, err := forecast.ParseHorizon(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return days, nil
}

// predict reads the horizon of the request and runs the forecaster
func (s *Server) predict(c *fiber.Ctx) (*forecast.Results, error) {
	days, err := s.horizon(c)
	if err != nil {
		return nil, err
	}
	res, err := s.forecaster.Predict(s.last, days)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %d days, %w", days, err)
	}
	return res, nil
}

type pageData struct {
	Title       string
	Description string
	ChartTitle  string
	LastTime    string
	Days        int
	MinDays     int
	MaxDays     int
	Rows        []forecast.Row
	Holidays    []pageHoliday
	Suggestions []string
}

type pageHoliday struct {
	Date string
	Name string
}

// holidays returns the holidays observed between the first and last forecasted day in date order
func (s *Server) holidays(res *forecast.Results) []pageHoliday {
	dates := res.Dates()
	if s.opt.Holidays == nil || len(dates) == 0 {
		return nil
	}
	observed := s.opt.Holidays.Observed(dates[0], dates[len(dates)-1])
	out := make([]pageHoliday, 0, len(observed))
	for date, name := range observed {
		out = append(out, pageHoliday{Date: date, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

func (s *Server) handlePage(c *fiber.Ctx) error {
	start := time.Now()
	res, err := s.predict(c)
	if err != nil {
		return err
	}

	data := pageData{
		Title:       PageTitle,
		Description: PageDescription,
		ChartTitle:  render.Title(res.Len()),
		LastTime:    s.last.Format(time.DateTime),
		Days:        res.Len(),
		MinDays:     forecast.MinHorizon,
		MaxDays:     forecast.MaxHorizon,
		Rows:        res.Rows,
		Holidays:    s.holidays(res),
		Suggestions: Suggestions,
	}

	c.Type("html", "utf-8")
	if err := pageTmpl.Execute(c, data); err != nil {
		return fmt.Errorf("unable to render page, %w", err)
	}
	s.metrics.observe(OutputPage, res.Len(), start)
	return nil
}

func (s *Server) handleChart(c *fiber.Ctx) error {
	start := time.Now()
	res, err := s.predict(c)
	if err != nil {
		return err
	}

	c.Type("html", "utf-8")
	if err := render.WriteChart(c, res); err != nil {
		return fmt.Errorf("unable to render chart, %w", err)
	}
	s.metrics.observe(OutputChart, res.Len(), start)
	return nil
}

func (s *Server) handleCSV(c *fiber.Ctx) error {
	start := time.Now()
	res, err := s.predict(c)
	if err != nil {
		return err
	}

	c.Attachment(CSVFilename)
	c.Set(fiber.HeaderContentType, "text/csv")
	if err := res.WriteCSV(c); err != nil {
		return fmt.Errorf("unable to write csv, %w", err)
	}
	s.metrics.observe(OutputCSV, res.Len(), start)
	return nil
}

// APIRow is a single forecasted day in the JSON response
type APIRow struct {
	Date      string  `json:"date"`
	Hour      int     `json:"hour"`
	Day       int     `json:"day"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Weekday   int     `json:"weekday"`
	Season    int     `json:"season"`
	IsWeekend int     `json:"is_weekend"`
	IsHoliday int     `json:"is_holiday"`
	Predicted float64 `json:"predicted"`
}

// APIResponse is the JSON form of a forecast
type APIResponse struct {
	Title        string    `json:"title"`
	LastTime     time.Time `json:"last_time"`
	Days         int       `json:"days"`
	FeatureNames []string  `json:"feature_names"`
	Rows         []APIRow  `json:"rows"`
}

func newAPIResponse(res *forecast.Results) APIResponse {
	rows := make([]APIRow, 0, res.Len())
	for _, row := range res.Rows {
		rows = append(rows, APIRow{
			Date:      row.DateString(),
			Hour:      row.Hour,
			Day:       row.Day,
			Month:     row.Month,
			Year:      row.Year,
			Weekday:   row.Weekday,
			Season:    row.Season,
			IsWeekend: row.IsWeekend,
			IsHoliday: row.IsHoliday,
			Predicted: row.Predicted,
		})
	}
	return APIResponse{
		Title:        render.Title(res.Len()),
		LastTime:     res.LastTime,
		Days:         res.Len(),
		FeatureNames: res.FeatureNames,
		Rows:         rows,
	}
}

func (s *Server) handleAPI(c *fiber.Ctx) error {
	start := time.Now()
	res, err := s.predict(c)
	if err != nil {
		return err
	}
	if err := c.JSON(newAPIResponse(res)); err != nil {
		return err
	}
	s.metrics.observe(OutputAPI, res.Len(), start)
	return nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"last_time": s.last,
		"features":  s.forecaster.FeatureNames(),
	})
}

// ErrorResponse is returned by the JSON api on failure
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	s.metrics.failed(strconv.Itoa(code))

	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		slog.Error("unable to serve forecast", "path", c.Path(), "query", string(c.Request().URI().QueryString()), "error", err.Error())
		msg = "unable to generate forecast"
	}

	c.Response().ResetBody()
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(ErrorResponse{Error: msg, Code: code})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}
