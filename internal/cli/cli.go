// Package cli holds the flag handling shared by the powercast commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aouyang1/go-powercast/config"
	"github.com/pkg/profile"
)

var ErrUnknownProfile = errors.New("unknown profile mode")

const (
	ProfileNone  = ""
	ProfileCPU   = "cpu"
	ProfileMem   = "mem"
	ProfileBlock = "block"
	ProfileTrace = "trace"
)

// Common are the flags every command accepts on top of the config settings
type Common struct {
	ConfigPath string
	EnvFile    string
	Profile    string
	ProfileDir string
}

// RegisterCommon adds the shared flags and every config setting to fs
func RegisterCommon(fs *flag.FlagSet) *Common {
	c := &Common{}
	fs.StringVar(&c.ConfigPath, "config", "", "optional yaml config file")
	fs.StringVar(&c.EnvFile, "env-file", ".env", "optional file of POWERCAST_* variables")
	fs.StringVar(&c.Profile, "profile", ProfileNone, "write a cpu, mem, block or trace profile")
	fs.StringVar(&c.ProfileDir, "profile-dir", ".", "directory profiles are written to")
	config.RegisterFlags(fs)
	return c
}

// Load resolves the config from the config file, env file, environment and the flags
// explicitly passed on fs, in increasing precedence. The resulting logger becomes the default.
func (c *Common) Load(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath, c.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config, %w", err)
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cfg, nil
}

// Stopper ends a running profile
type Stopper interface {
	Stop()
}

type noopStopper struct{}

func (noopStopper) Stop() {}

// StartProfile starts the requested profile. The returned value must be stopped before exit.
func (c *Common) StartProfile() (Stopper, error) {
	var mode func(*profile.Profile)
	switch c.Profile {
	case ProfileNone:
		return noopStopper{}, nil
	case ProfileCPU:
		mode = profile.CPUProfile
	case ProfileMem:
		mode = profile.MemProfile
	case ProfileBlock:
		mode = profile.BlockProfile
	case ProfileTrace:
		mode = profile.TraceProfile
	default:
		return nil, fmt.Errorf("%q, %w", c.Profile, ErrUnknownProfile)
	}
	return profile.Start(mode, profile.ProfilePath(c.ProfileDir), profile.NoShutdownHook, profile.Quiet), nil
}

// WriteFile creates path and writes to it with fn
func WriteFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Fatal logs err and exits
func Fatal(msg string, err error) {
	slog.Error(msg, "error", err.Error())
	os.Exit(1)
}
