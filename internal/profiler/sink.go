package profiler

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewRotatingSink builds a slog.Logger backed by a size-rotated log file,
// for long-running batch callers that want per-run profiler reports
// persisted across many pipeline invocations without unbounded disk
// growth. This is ambient per-call logging, not a telemetry service, so
// it stays in-process with no exporter wiring.
func NewRotatingSink(path string, maxSizeMB, maxBackups, maxAgeDays int) *slog.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// LogReport writes a registry's current report to logger at Info level,
// one "source self time" record per source carrying its name, self time
// and call count as top-level attributes.
func LogReport(logger *slog.Logger, reg *Registry) {
	if logger == nil || reg == nil {
		return
	}
	for _, e := range reg.Report() {
		logger.Info("source self time",
			slog.String("source", e.Name),
			slog.Duration("self", e.Self),
			slog.Int("calls", e.Calls),
		)
	}
}

// DiscardLogger returns a logger that drops everything, the default when
// a caller doesn't want profiler trace output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
