// Package logging builds the structured logger shared by stegpng commands.
//
// Logs are diagnostics only and always go to stderr so that stdout can carry
// PNG or payload bytes. Each logger carries a run_id that ties together the
// records of one invocation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/segmentio/ksuid"
)

// RunIDKey is the attribute name of the per-invocation identifier
const RunIDKey = "run_id"

// ParseLevel converts a config or flag value into a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a text logger writing to w at level, tagged with a fresh run id
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(RunIDKey, NewRunID())
}

// NewRunID returns a sortable, globally unique invocation id
func NewRunID() string {
	return ksuid.New().String()
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
