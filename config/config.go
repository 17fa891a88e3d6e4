// Package config assembles the settings of the forecast commands from defaults, an optional
// yaml file, .env files, POWERCAST_* environment variables and command line flags, applied in
// that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/aouyang1/go-powercast/feature"
	"github.com/aouyang1/go-powercast/forecast"
	"github.com/aouyang1/go-powercast/holiday"
	"github.com/aouyang1/go-powercast/timedataset"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var (
	ErrNoDatasetPath   = errors.New("no dataset path configured")
	ErrNoModelPath     = errors.New("no model path configured")
	ErrNoAddr          = errors.New("no listen address configured")
	ErrInvalidSetting  = errors.New("invalid setting")
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrUnknownLogFmt   = errors.New("unknown log format")
)

const (
	DefaultDatasetPath = "PJMW_MW_Hourly.xlsx"
	DefaultModelPath   = "model.json"
	DefaultAddr        = ":8080"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type DatasetConfig struct {
	Path        string `yaml:"path"`
	Sheet       string `yaml:"sheet"`
	TimeColumn  string `yaml:"time_column"`
	ValueColumn string `yaml:"value_column"`

	// Timezone names the IANA location of timestamps without an offset
	Timezone string `yaml:"timezone"`
}

// Options converts the dataset settings into loader options
func (d DatasetConfig) Options() (*timedataset.Options, error) {
	loc := time.UTC
	if d.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(d.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone %q, %w", d.Timezone, err)
		}
	}
	return &timedataset.Options{
		Sheet:       d.Sheet,
		TimeColumn:  d.TimeColumn,
		ValueColumn: d.ValueColumn,
		Location:    loc,
	}, nil
}

type ModelConfig struct {
	Path string `yaml:"path"`
}

type ForecastConfig struct {
	DefaultHorizon  int    `yaml:"default_horizon"`
	Hour            int    `yaml:"hour"`
	HolidayCalendar string `yaml:"holiday_calendar"`
}

// Calendar returns the configured holiday calendar, nil when holidays are disabled
func (f ForecastConfig) Calendar() (*holiday.Calendar, error) {
	return holiday.New(f.HolidayCalendar)
}

// Options converts the forecast settings into forecaster options
func (f ForecastConfig) Options() (*forecast.Options, error) {
	cal, err := f.Calendar()
	if err != nil {
		return nil, err
	}

	featOpt := feature.NewDefaultOptions()
	featOpt.Hour = f.Hour
	if cal != nil {
		featOpt.Holidays = cal
	}
	return &forecast.Options{Features: featOpt}, nil
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Metrics         bool          `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds every setting of the dashboard and the command line tools
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Model    ModelConfig    `yaml:"model"`
	Forecast ForecastConfig `yaml:"forecast"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:       DefaultDatasetPath,
			TimeColumn: timedataset.DefaultTimeColumn,
		},
		Model: ModelConfig{
			Path: DefaultModelPath,
		},
		Forecast: ForecastConfig{
			DefaultHorizon:  forecast.DefaultHorizon,
			Hour:            feature.DefaultHour,
			HolidayCalendar: holiday.CalendarNone,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			Metrics:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// LoadFile overlays the yaml file at path onto the config
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read config file, %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unable to parse config file %s, %w", path, err)
	}
	return nil
}

// Load builds a config from defaults, the optional yaml file at path, the given .env files and
// the process environment. Missing .env files are skipped. Variables already present in the
// environment take precedence over .env files.
func Load(path string, envFiles ...string) (*Config, error) {
	c := NewDefaultConfig()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if val, exists := os.LookupEnv(key); exists {
			return val, true
		}
		val, exists := dotenv[key]
		return val, exists
	}
	if err := c.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return c, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	env := make(map[string]string)
	for _, file := range files {
		if file == "" {
			continue
		}
		vals, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("unable to read env file %s, %w", file, err)
		}
		for k, v := range vals {
			if _, exists := env[k]; !exists {
				env[k] = v
			}
		}
	}
	return env, nil
}

// ApplyEnv sets every setting whose POWERCAST_* variable is found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, s := range settings {
		val, exists := lookup(s.env())
		if !exists {
			continue
		}
		if err := s.set(c, strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("%s=%q, %w", s.env(), val, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return ErrNoDatasetPath
	}
	if c.Model.Path == "" {
		return ErrNoModelPath
	}
	if _, err := c.Dataset.Options(); err != nil {
		return err
	}
	if err := forecast.ValidateHorizon(c.Forecast.DefaultHorizon); err != nil {
		return fmt.Errorf("default horizon, %w", err)
	}
	opt, err := c.Forecast.Options()
	if err != nil {
		return err
	}
	if _, err := opt.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return ErrNoAddr
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%q, %w", c.Log.Format, ErrUnknownLogFmt)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("%q, %w", l.Level, ErrUnknownLogLevel)
	}
	return lvl, nil
}
