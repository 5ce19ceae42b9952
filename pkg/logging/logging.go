// Package logging adapts log/slog to the module's types.Logger contract and to
// watermill's LoggerAdapter so every component logs through one handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/goliatone/go-mentors/pkg/types"
)

// Environments understood by NewLogger.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// NewLogger builds a slog logger for env writing to stdout.
func NewLogger(env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

// NewLoggerTo builds a slog logger for env writing to w. Local and unknown
// environments use text output; dev and prod emit JSON.
func NewLoggerTo(w io.Writer, env string) *slog.Logger {
	switch env {
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// SlogLogger implements types.Logger on top of *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; nil falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

var _ types.Logger = (*SlogLogger)(nil)

func (l *SlogLogger) Debug(msg string, fields ...any) {
	l.logger.Debug(msg, fields...)
}

func (l *SlogLogger) Info(msg string, fields ...any) {
	l.logger.Info(msg, fields...)
}

func (l *SlogLogger) Error(msg string, err error, fields ...any) {
	if err != nil {
		fields = append([]any{"error", err.Error()}, fields...)
	}
	l.logger.Error(msg, fields...)
}

// Slog exposes the wrapped logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

type ctxKey struct{}

// Into stores logger in ctx.
func Into(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger stored in ctx, or slog.Default().
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && v != nil {
		return v
	}
	return slog.Default()
}

// WatermillAdapter routes watermill logs through types.Logger. Watermill
// info logs are chatty and land at debug.
type WatermillAdapter struct {
	logger types.Logger
	fields watermill.LogFields
}

// NewWatermill returns a watermill.LoggerAdapter over logger.
func NewWatermill(logger types.Logger) *WatermillAdapter {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &WatermillAdapter{logger: logger}
}

var _ watermill.LoggerAdapter = (*WatermillAdapter)(nil)

func (w *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error(msg, err, w.flatten(fields)...)
}

func (w *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	w.logger.Debug(msg, w.flatten(fields)...)
}

func (w *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug(msg, w.flatten(fields)...)
}

func (w *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	w.logger.Debug(msg, w.flatten(fields)...)
}

func (w *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{logger: w.logger, fields: w.fields.Add(fields)}
}

func (w *WatermillAdapter) flatten(fields watermill.LogFields) []any {
	merged := w.fields.Add(fields)
	out := make([]any, 0, len(merged)*2)
	for k, v := range merged {
		out = append(out, k, v)
	}
	return out
}
