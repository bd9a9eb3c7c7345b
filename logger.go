package lvqgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lvqgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun adds a run identifier to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithAlgorithm adds an algorithm field to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogTraining logs a training run.
func (l *Logger) LogTraining(ctx context.Context, algorithm string, codes int, length int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"algorithm", algorithm,
			"codes", codes,
			"length", length,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "training completed",
			"algorithm", algorithm,
			"codes", codes,
			"length", length,
		)
	}
}

// LogCheckpoint logs a checkpoint write.
func (l *Logger) LogCheckpoint(ctx context.Context, iteration int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checkpoint failed",
			"iteration", iteration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "checkpoint saved",
			"iteration", iteration,
		)
	}
}

// LogBalance logs a codebook rebalancing.
func (l *Logger) LogBalance(ctx context.Context, added, removed, forced int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "balance failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "balance completed",
			"added", added,
			"removed", removed,
			"forced", forced,
		)
	}
}

// LogClassify logs a classification or accuracy run.
func (l *Logger) LogClassify(ctx context.Context, entries, unclassified int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "classification failed",
			"entries", entries,
			"error", err,
		)
	case unclassified > 0:
		l.WarnContext(ctx, "classification completed with empty data vectors",
			"entries", entries,
			"unclassified", unclassified,
		)
	default:
		l.DebugContext(ctx, "classification completed",
			"entries", entries,
		)
	}
}

// LogRates logs loading or saving OLVQ1 learning rates.
func (l *Logger) LogRates(ctx context.Context, name string, err error) {
	if err != nil {
		l.WarnContext(ctx, "learning rates unavailable",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "learning rates stored",
			"name", name,
		)
	}
}
