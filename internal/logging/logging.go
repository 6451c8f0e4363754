// Package logging builds the slog logger every tool writes its
// diagnostics with. Records go to the given writer (stderr in practice)
// and carry the tool name and a per-run id.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidLevel = errors.New("invalid log level")

// Config selects level and handler format.
type Config struct {
	Level string // debug | info | warn | error
	JSON  bool
	Tool  string
}

// ParseLevel maps a level name to a slog.Level.
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
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidLevel, name)
}

// New returns a logger writing to w. Every record carries "tool" and a
// fresh "run_id".
func New(w io.Writer, c Config) (*slog.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if c.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	h = h.WithAttrs([]slog.Attr{
		slog.String("tool", c.Tool),
		slog.String("run_id", uuid.NewString()),
	})
	return slog.New(h), nil
}
