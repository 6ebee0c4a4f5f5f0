// Package media fetches story images and prepares them for terminal display.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder for story media
	_ "image/jpeg" // JPEG decoder for story media
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/nfnt/resize"
)

const (
	defaultTimeout = 15 * time.Second
	maxSourceSize  = 32 << 20

	// Decoding allocates width*height pixels up front, whatever the
	// compressed size.
	maxSourcePixels = 8192 * 8192

	// Typical terminal cell size in pixels.
	defaultCellWidth  = 8
	defaultCellHeight = 16

	minPixelSize = 64
)

// ErrUnsupportedSource is returned for media URLs that are neither http(s),
// file:// nor a plain path.
var ErrUnsupportedSource = errors.New("unsupported media source")

// ErrTooLarge is returned for media over the byte or pixel limits.
var ErrTooLarge = errors.New("media too large")

// Image is a story image resized for display.
type Image struct {
	URL string
	// PNG is the resized image, ready for the terminal graphics protocol.
	PNG    []byte
	Width  int
	Height int
	// SourceBytes is the size of the original media, or of the cached PNG
	// when served from cache.
	SourceBytes int64
	Cached      bool
}

// Sizer converts a cell box into the pixel box an image is resized to.
type Sizer interface {
	TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int)
}

type defaultSizer struct{}

func (defaultSizer) TargetPixelSize(w, h int) (int, int) {
	return w * defaultCellWidth, h * defaultCellHeight
}

// Fetcher loads story media from http(s) URLs or local files.
type Fetcher struct {
	client    *http.Client
	cache     *Cache
	sizer     Sizer
	userAgent string

	maxBytes  int64
	maxPixels int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithCache enables the disk cache. A nil cache disables caching.
func WithCache(c *Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithSizer sets how cell boxes map to pixels.
func WithSizer(s Sizer) Option {
	return func(f *Fetcher) {
		if s != nil {
			f.sizer = s
		}
	}
}

// WithUserAgent sets the User-Agent header of media requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithLimits overrides the maximum source size in bytes and the maximum
// decoded size in pixels. Non-positive values keep the defaults.
func WithLimits(maxBytes int64, maxPixels int) Option {
	return func(f *Fetcher) {
		if maxBytes > 0 {
			f.maxBytes = maxBytes
		}
		if maxPixels > 0 {
			f.maxPixels = maxPixels
		}
	}
}

// NewFetcher creates a fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		sizer:     defaultSizer{},
		maxBytes:  maxSourceSize,
		maxPixels: maxSourcePixels,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch loads src and resizes it to fit a box of widthCells x heightCells,
// keeping the aspect ratio.
func (f *Fetcher) Fetch(ctx context.Context, src string, widthCells, heightCells int) (*Image, error) {
	pw, ph := f.sizer.TargetPixelSize(widthCells, heightCells)
	pw = max(pw, minPixelSize)
	ph = max(ph, minPixelSize)

	if data := f.cache.Get(src, pw, ph); data != nil {
		if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
			return &Image{
				URL:         src,
				PNG:         data,
				Width:       cfg.Width,
				Height:      cfg.Height,
				SourceBytes: int64(len(data)),
				Cached:      true,
			}, nil
		}
	}

	raw, err := f.read(ctx, src)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	if cfg.Width*cfg.Height > f.maxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d pixels", ErrTooLarge, src, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}

	resized := resize.Thumbnail(uint(pw), uint(ph), img, resize.Lanczos3) //nolint:gosec // pixel sizes are small and positive

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	_ = f.cache.Put(src, pw, ph, buf.Bytes()) //nolint:errcheck // cache is best-effort

	b := resized.Bounds()
	return &Image{
		URL:         src,
		PNG:         buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		SourceBytes: int64(len(raw)),
	}, nil
}

func (f *Fetcher) read(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty url", ErrUnsupportedSource)
	}

	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse media url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.get(ctx, src)
	case "file":
		return f.readFile(ctx, u.Path)
	case "":
		return f.readFile(ctx, src)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, u.Scheme)
	}
}

func (f *Fetcher) get(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", src, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, src, f.maxBytes)
	}
	return data, nil
}

func (f *Fetcher) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fi, err := os.Stat(path); err == nil && fi.Size() > f.maxBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, path, f.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	return data, nil
}
