// Package observability provides structured logging, request correlation,
// metrics and health checks for Mindful.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/felixgeelhaar/mindful/pkg/config"
)

// ServiceName is stamped on every log entry.
const ServiceName = "mindful"

// LogConfig configures NewLogger. Level and Format are the strings users
// put in LOG_LEVEL and LOG_FORMAT; unknown values fall back to info and
// text.
type LogConfig struct {
	Level     string
	Format    string
	Output    io.Writer
	AddSource bool
	Version   string
}

// NewLogger builds a slog logger whose records carry the service name,
// version and any correlation or request id found in the context.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var h slog.Handler = slog.NewTextHandler(out, opts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	}

	static := []slog.Attr{slog.String("service", ServiceName)}
	if cfg.Version != "" {
		static = append(static, slog.String("version", cfg.Version))
	}
	return slog.New(contextHandler{Handler: h.WithAttrs(static)})
}

// LoggerFromConfig builds the process logger. Production logs JSON to
// stdout with source positions; LOG_FORMAT still wins when set.
func LoggerFromConfig(cfg *config.Config, version string) *slog.Logger {
	lc := LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr, Version: version}
	if cfg.IsProduction() {
		lc.Output = os.Stdout
		lc.AddSource = true
		if lc.Format == "" {
			lc.Format = "json"
		}
	}
	if lc.Version == "" {
		lc.Version = "dev"
	}
	return NewLogger(lc)
}

// contextHandler copies correlation and request ids from the context onto
// each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
