package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aouyang1/go-powercast/feature"
	"github.com/aouyang1/go-powercast/forecast"
	"github.com/aouyang1/go-powercast/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultDatasetPath, c.Dataset.Path)
	assert.Equal(t, "Datetime", c.Dataset.TimeColumn)
	assert.Equal(t, forecast.DefaultHorizon, c.Forecast.DefaultHorizon)
	assert.Equal(t, feature.DefaultHour, c.Forecast.Hour)
	assert.Equal(t, holiday.CalendarNone, c.Forecast.HolidayCalendar)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "powercast.yaml")
	data := `
dataset:
  path: data/pjmw.csv
  value_column: PJMW_MW
  timezone: America/New_York
model:
  path: models/forest.json
forecast:
  default_horizon: 14
  holiday_calendar: us
server:
  addr: ":9000"
  read_timeout: 2s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "data/pjmw.csv", c.Dataset.Path)
	assert.Equal(t, "PJMW_MW", c.Dataset.ValueColumn)
	assert.Equal(t, "Datetime", c.Dataset.TimeColumn)
	assert.Equal(t, "models/forest.json", c.Model.Path)
	assert.Equal(t, 14, c.Forecast.DefaultHorizon)
	assert.Equal(t, feature.DefaultHour, c.Forecast.Hour)
	assert.Equal(t, holiday.CalendarUS, c.Forecast.HolidayCalendar)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, 2*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, LogFormatJSON, c.Log.Format)

	dsOpt, err := c.Dataset.Options()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", dsOpt.Location.String())

	fcOpt, err := c.Forecast.Options()
	require.NoError(t, err)
	assert.NotNil(t, fcOpt.Features.Holidays)
	assert.True(t, fcOpt.Features.Holidays.IsHoliday(time.Date(2018, 12, 25, 12, 0, 0, 0, time.UTC)))
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: [unterminated"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("POWERCAST_MODEL=from-dotenv.json\nPOWERCAST_HOUR=9\n"), 0o644))

	t.Setenv("POWERCAST_HOUR", "6")

	c, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.json", c.Model.Path)
	assert.Equal(t, 6, c.Forecast.Hour)
}

func TestApplyEnv(t *testing.T) {
	testData := map[string]struct {
		env      map[string]string
		expected func(c *Config)
		err      error
	}{
		"no variables": {
			expected: func(c *Config) {},
		},
		"strings": {
			env: map[string]string{
				"POWERCAST_DATASET":          "pjmw.csv",
				"POWERCAST_TIME_COLUMN":      "timestamp",
				"POWERCAST_HOLIDAY_CALENDAR": "us",
				"POWERCAST_LOG_FORMAT":       "json",
			},
			expected: func(c *Config) {
				c.Dataset.Path = "pjmw.csv"
				c.Dataset.TimeColumn = "timestamp"
				c.Forecast.HolidayCalendar = "us"
				c.Log.Format = "json"
			},
		},
		"numbers": {
			env: map[string]string{
				"POWERCAST_DEFAULT_HORIZON": "7",
				"POWERCAST_WRITE_TIMEOUT":   "1m",
				"POWERCAST_METRICS":         "false",
			},
			expected: func(c *Config) {
				c.Forecast.DefaultHorizon = 7
				c.Server.WriteTimeout = time.Minute
				c.Server.Metrics = false
			},
		},
		"invalid int": {
			env: map[string]string{"POWERCAST_HOUR": "noon"},
			err: ErrInvalidSetting,
		},
		"invalid duration": {
			env: map[string]string{"POWERCAST_READ_TIMEOUT": "10"},
			err: ErrInvalidSetting,
		},
		"invalid bool": {
			env: map[string]string{"POWERCAST_METRICS": "maybe"},
			err: ErrInvalidSetting,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				val, exists := td.env[key]
				return val, exists
			}

			c := NewDefaultConfig()
			err := c.ApplyEnv(lookup)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)

			expected := NewDefaultConfig()
			td.expected(expected)
			assert.Equal(t, expected, c)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-model", "cli.json", "-hour", "15"}))

	c := NewDefaultConfig()
	c.Dataset.Path = "from-file.csv"
	require.NoError(t, c.ApplyFlags(fs))

	assert.Equal(t, "cli.json", c.Model.Path)
	assert.Equal(t, 15, c.Forecast.Hour)
	// unset flags keep the loaded value instead of the flag default
	assert.Equal(t, "from-file.csv", c.Dataset.Path)

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-default-horizon", "ten"}))
	assert.ErrorIs(t, NewDefaultConfig().ApplyFlags(fs), ErrInvalidSetting)
}

func TestApplyBoolFlags(t *testing.T) {
	testData := map[string]struct {
		args     []string
		start    bool
		expected bool
		parseErr bool
	}{
		"bare": {
			args:     []string{"-metrics"},
			expected: true,
		},
		"explicit false": {
			args:     []string{"-metrics=false"},
			start:    true,
			expected: false,
		},
		"explicit true": {
			args:     []string{"-metrics=true"},
			expected: true,
		},
		"not passed": {
			start:    true,
			expected: true,
		},
		"bare followed by another flag": {
			args:     []string{"-metrics", "-addr", ":9090"},
			expected: true,
		},
		"not a bool": {
			args:     []string{"-metrics=maybe"},
			parseErr: true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			RegisterFlags(fs)
			err := fs.Parse(td.args)
			if td.parseErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			c := NewDefaultConfig()
			c.Server.Metrics = td.start
			require.NoError(t, c.ApplyFlags(fs))
			assert.Equal(t, td.expected, c.Server.Metrics)
		})
	}
}

func TestRegisterFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)

	f := fs.Lookup("metrics")
	require.NotNil(t, f)
	assert.Equal(t, "true", f.DefValue)

	f = fs.Lookup("addr")
	require.NotNil(t, f)
	assert.Equal(t, DefaultAddr, f.DefValue)
}

func TestValidate(t *testing.T) {
	testData := map[string]struct {
		modify func(c *Config)
		err    error
	}{
		"no dataset":      {modify: func(c *Config) { c.Dataset.Path = "" }, err: ErrNoDatasetPath},
		"no model":        {modify: func(c *Config) { c.Model.Path = "" }, err: ErrNoModelPath},
		"horizon too big": {modify: func(c *Config) { c.Forecast.DefaultHorizon = 31 }, err: forecast.ErrHorizonOutOfRange},
		"invalid hour":    {modify: func(c *Config) { c.Forecast.Hour = 24 }, err: feature.ErrInvalidHour},
		"unknown holiday": {modify: func(c *Config) { c.Forecast.HolidayCalendar = "mars" }, err: holiday.ErrUnknownCalendar},
		"no addr":         {modify: func(c *Config) { c.Server.Addr = "" }, err: ErrNoAddr},
		"zero timeout":    {modify: func(c *Config) { c.Server.ReadTimeout = 0 }, err: ErrInvalidTimeout},
		"bad log level":   {modify: func(c *Config) { c.Log.Level = "loud" }, err: ErrUnknownLogLevel},
		"bad log format":  {modify: func(c *Config) { c.Log.Format = "xml" }, err: ErrUnknownLogFmt},
		"bad timezone":    {modify: func(c *Config) { c.Dataset.Timezone = "Mars/Olympus" }},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c := NewDefaultConfig()
			td.modify(c)
			err := c.Validate()
			require.Error(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: LogFormatJSON}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "days", 7)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"days":7`)

	_, err = LogConfig{Level: "info", Format: "xml"}.NewLogger(&buf)
	assert.ErrorIs(t, err, ErrUnknownLogFmt)
}
