// Package logging builds the application logger: a log/slog front-end over
// a zerolog backend writing JSON lines to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Options describes logger construction parameters.
type Options struct {
	Level string
	// File is the log file path. The file is appended to and its directory
	// created if needed. An empty path discards all logs.
	File string
}

// New constructs a logger from opts. The returned closer releases the log
// file and must be called on exit.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(opts.File) == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	f, err := openFile(opts.File)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(f, level), f, nil
}

// NewWriter returns a logger writing JSON lines to w.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	zl := zerolog.New(w)
	handler := slogzerolog.Option{
		Level:  level,
		Logger: &zl,
	}.NewZerologHandler()
	return slog.New(handler)
}

// ParseLevel parses debug, info, warn or error. The empty string is info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level: unsupported value %q", level)
	}
}

func openFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
