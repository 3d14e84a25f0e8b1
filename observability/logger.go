package observability

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// LoggerOptions controls NewLogger.
type LoggerOptions struct {
	Debug   bool
	NoColor bool
}

// NewLogger builds the process logger. Errors passed as attribute values
// are highlighted in red.
func NewLogger(output io.Writer, opts LoggerOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(output, &tint.Options{
		Level:      level,
		AddSource:  opts.Debug,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
		NoColor:    opts.NoColor,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
