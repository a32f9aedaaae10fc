package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// SlogAPI implements API using the log/slog package.
type SlogAPI struct {
	// attrs are attached to every record, the CLI uses this for the run id.
	attrs []any
}

// NewSlogAPI creates a SlogAPI that attaches the given key/value pairs to every report.
func NewSlogAPI(attrs ...any) SlogAPI {
	return SlogAPI{attrs: attrs}
}

func (s SlogAPI) formatParams(out *[]any, params []any) {
	*out = append(*out, s.attrs...)
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	slog.Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	pairs := []any{"id", id, "n", count}
	pairs = append(pairs, s.attrs...)
	slog.Info("count", pairs...)
}

// InitSlog installs the default slog handler, debug enables ReportDebug output.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
