//go:build unix

// Package stderr captures output written directly to file descriptor 2
// (by the runtime, cgo code or child processes) so that it cannot corrupt
// the TUI. Captured lines are forwarded to the logger.
package stderr

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Capture is an active stderr redirection.
type Capture struct {
	orig int
	r, w *os.File
	done chan struct{}
	once sync.Once
}

// Start redirects fd 2 into a pipe and logs every non-empty line at warn.
// If capture cannot be set up the error is returned and stderr is left
// untouched; the program can continue without it.
func Start(logger *slog.Logger) (*Capture, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{})}
	go c.forward(logger)
	return c, nil
}

func (c *Capture) forward(logger *slog.Logger) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logger.Warn("stderr", "line", line)
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Used for fatal errors that must stay visible.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits until every captured line
// has been logged. It is safe to call more than once.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = unix.Close(c.orig)
		// fd 2 no longer refers to the pipe, so closing w ends the reader.
		c.w.Close()
		<-c.done
		c.r.Close()
	})
}
