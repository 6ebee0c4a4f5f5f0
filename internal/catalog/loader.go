package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "stories-viewer/1.0 (https://github.com/llehouerou/stories)"
	maxCatalogBytes  = 8 << 20
)

// ErrTooLarge is returned when the catalog is over the size limit.
var ErrTooLarge = errors.New("catalog too large")

// FailureMessage is the text shown to the user when the catalog can't be loaded.
const FailureMessage = "Failed to load stories"

// LoadFailure is returned when the catalog can't be fetched or parsed.
type LoadFailure struct {
	Source string
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// Message returns the human-readable message for the view.
func (e *LoadFailure) Message() string {
	return FailureMessage
}

// IsLoadFailure reports whether err is a *LoadFailure.
func IsLoadFailure(err error) bool {
	var lf *LoadFailure
	return errors.As(err, &lf)
}

// Loader fetches the catalog from an http(s) URL or a local file.
type Loader struct {
	source     string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the HTTP client used for remote sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) LoaderOption {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithMaxSize overrides the maximum catalog size in bytes.
func WithMaxSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewLoader creates a loader for the given source.
func NewLoader(source string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:     source,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		maxBytes:   maxCatalogBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the configured source.
func (l *Loader) Source() string {
	return l.source
}

// Load performs a single fetch of the catalog.
// Every failure is returned as a *LoadFailure.
func (l *Loader) Load(ctx context.Context) (Catalog, error) {
	data, err := l.read(ctx)
	if err != nil {
		return nil, &LoadFailure{Source: l.source, Err: err}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, &LoadFailure{Source: l.source, Err: err}
	}
	return c, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, errors.New("no catalog source configured")
	}
	u, err := url.Parse(l.source)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l.fetch(ctx)
		case "file":
			return l.readFile(u.Path)
		}
	}
	return l.readFile(l.source)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if fi, err := os.Stat(path); err == nil && fi.Size() > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, l.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
