package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

func newLogger(w io.Writer, level, format string, noColor bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var handler slog.Handler

	switch strings.ToLower(format) {
	case logFormatText:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.TimeOnly,
			NoColor:    noColor,
		})
	case logFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		return nil, fmt.Errorf("invalid log format %q (want %s or %s)", format, logFormatText, logFormatJSON)
	}

	return slog.New(handler), nil
}
