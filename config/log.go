package config

import (
	"io"
	"log/slog"
)

// NewLogger creates a structured logger at the configured level and format
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}

	opt := &slog.HandlerOptions{Level: lvl}
	switch l.Format {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opt)), nil
	case LogFormatText, "":
		return slog.New(slog.NewTextHandler(w, opt)), nil
	}
	return nil, ErrUnknownLogFmt
}
