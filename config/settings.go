package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const EnvPrefix = "POWERCAST_"

// setting binds a single config field to a command line flag and an environment variable
type setting struct {
	name   string
	usage  string
	isBool bool
	get    func(c *Config) string
	set    func(c *Config, val string) error
}

func (s setting) env() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(s.name, "-", "_"))
}

func setInt(dst *int, val string) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return ErrInvalidSetting
	}
	*dst = v
	return nil
}

func setDuration(dst *time.Duration, val string) error {
	v, err := time.ParseDuration(val)
	if err != nil {
		return ErrInvalidSetting
	}
	*dst = v
	return nil
}

func setBool(dst *bool, val string) error {
	v, err := strconv.ParseBool(val)
	if err != nil {
		return ErrInvalidSetting
	}
	*dst = v
	return nil
}

var settings = []setting{
	{
		name:  "dataset",
		usage: "path to the historical .xlsx or .csv dataset",
		get:   func(c *Config) string { return c.Dataset.Path },
		set:   func(c *Config, val string) error { c.Dataset.Path = val; return nil },
	},
	{
		name:  "sheet",
		usage: "worksheet to read, defaults to the first",
		get:   func(c *Config) string { return c.Dataset.Sheet },
		set:   func(c *Config, val string) error { c.Dataset.Sheet = val; return nil },
	},
	{
		name:  "time-column",
		usage: "name of the timestamp column",
		get:   func(c *Config) string { return c.Dataset.TimeColumn },
		set:   func(c *Config, val string) error { c.Dataset.TimeColumn = val; return nil },
	},
	{
		name:  "value-column",
		usage: "name of the consumption column, required when fitting",
		get:   func(c *Config) string { return c.Dataset.ValueColumn },
		set:   func(c *Config, val string) error { c.Dataset.ValueColumn = val; return nil },
	},
	{
		name:  "timezone",
		usage: "IANA timezone of timestamps without an offset",
		get:   func(c *Config) string { return c.Dataset.Timezone },
		set:   func(c *Config, val string) error { c.Dataset.Timezone = val; return nil },
	},
	{
		name:  "model",
		usage: "path to the regressor json artifact",
		get:   func(c *Config) string { return c.Model.Path },
		set:   func(c *Config, val string) error { c.Model.Path = val; return nil },
	},
	{
		name:  "default-horizon",
		usage: "days forecasted when none are requested",
		get:   func(c *Config) string { return strconv.Itoa(c.Forecast.DefaultHorizon) },
		set:   func(c *Config, val string) error { return setInt(&c.Forecast.DefaultHorizon, val) },
	},
	{
		name:  "hour",
		usage: "hour of day each forecasted day is evaluated at",
		get:   func(c *Config) string { return strconv.Itoa(c.Forecast.Hour) },
		set:   func(c *Config, val string) error { return setInt(&c.Forecast.Hour, val) },
	},
	{
		name:  "holiday-calendar",
		usage: "holiday calendar used for is_holiday, none or us",
		get:   func(c *Config) string { return c.Forecast.HolidayCalendar },
		set:   func(c *Config, val string) error { c.Forecast.HolidayCalendar = val; return nil },
	},
	{
		name:  "addr",
		usage: "dashboard listen address",
		get:   func(c *Config) string { return c.Server.Addr },
		set:   func(c *Config, val string) error { c.Server.Addr = val; return nil },
	},
	{
		name:  "read-timeout",
		usage: "dashboard request read timeout",
		get:   func(c *Config) string { return c.Server.ReadTimeout.String() },
		set:   func(c *Config, val string) error { return setDuration(&c.Server.ReadTimeout, val) },
	},
	{
		name:  "write-timeout",
		usage: "dashboard response write timeout",
		get:   func(c *Config) string { return c.Server.WriteTimeout.String() },
		set:   func(c *Config, val string) error { return setDuration(&c.Server.WriteTimeout, val) },
	},
	{
		name:  "shutdown-timeout",
		usage: "time allowed for in flight requests on shutdown",
		get:   func(c *Config) string { return c.Server.ShutdownTimeout.String() },
		set:   func(c *Config, val string) error { return setDuration(&c.Server.ShutdownTimeout, val) },
	},
	{
		name:   "metrics",
		usage:  "expose prometheus metrics on /metrics",
		isBool: true,
		get:    func(c *Config) string { return strconv.FormatBool(c.Server.Metrics) },
		set:    func(c *Config, val string) error { return setBool(&c.Server.Metrics, val) },
	},
	{
		name:  "log-level",
		usage: "debug, info, warn or error",
		get:   func(c *Config) string { return c.Log.Level },
		set:   func(c *Config, val string) error { c.Log.Level = val; return nil },
	},
	{
		name:  "log-format",
		usage: "text or json",
		get:   func(c *Config) string { return c.Log.Format },
		set:   func(c *Config, val string) error { c.Log.Format = val; return nil },
	},
}

// flagValue holds the raw value of a setting passed on the command line. Bool settings may
// be passed bare, e.g. -metrics.
type flagValue struct {
	val    string
	isBool bool
}

func (v *flagValue) String() string {
	if v == nil {
		return ""
	}
	return v.val
}

func (v *flagValue) Set(val string) error {
	if v.isBool {
		if _, err := strconv.ParseBool(val); err != nil {
			return ErrInvalidSetting
		}
	}
	v.val = val
	return nil
}

func (v *flagValue) IsBoolFlag() bool {
	return v.isBool
}

// RegisterFlags adds a flag for every setting to fs. Flag defaults show the built in
// defaults; only flags explicitly passed are applied by ApplyFlags.
func RegisterFlags(fs *flag.FlagSet) {
	defaults := NewDefaultConfig()
	for _, s := range settings {
		v := &flagValue{val: s.get(defaults), isBool: s.isBool}
		fs.Var(v, s.name, s.usage+" (env "+s.env()+")")
	}
}

// ApplyFlags sets every setting whose flag was explicitly passed on fs
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	byName := make(map[string]setting, len(settings))
	for _, s := range settings {
		byName[s.name] = s
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		s, exists := byName[f.Name]
		if !exists || err != nil {
			return
		}
		if setErr := s.set(c, f.Value.String()); setErr != nil {
			err = fmt.Errorf("-%s=%q, %w", f.Name, f.Value.String(), setErr)
		}
	})
	return err
}
