//go:build !unix

// Package stderr is a no-op where fd 2 cannot be redirected.
package stderr

import (
	"log/slog"
	"os"
)

// Capture is a no-op capture.
type Capture struct{}

// Start does nothing.
func Start(_ *slog.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing.
func (c *Capture) Stop() {}
