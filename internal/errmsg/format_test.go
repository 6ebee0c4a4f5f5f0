package errmsg

import (
	"errors"
	"testing"
)

func TestTitle(t *testing.T) {
	if got := Title(OpCatalogLoad); got != "Failed to load stories" {
		t.Errorf("Title(OpCatalogLoad) = %q", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCatalogLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "catalog load",
			op:       OpCatalogLoad,
			err:      errors.New("unexpected status 503"),
			expected: "Failed to load stories: unexpected status 503",
		},
		{
			name:     "media load",
			op:       OpMediaLoad,
			err:      errors.New("decode: unknown format"),
			expected: "Failed to load story image: decode: unknown format",
		},
		{
			name:     "wrapped error",
			op:       OpViewerOpen,
			err:      errors.Join(errors.New("invalid user index")),
			expected: "Failed to open stories: invalid user index",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.op, tt.err); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpMediaLoad,
			context:  "a.jpg",
			expected: "",
		},
		{
			name:     "with context",
			op:       OpMediaLoad,
			context:  "https://example.com/a.jpg",
			err:      errors.New("404"),
			expected: "Failed to load story image 'https://example.com/a.jpg': 404",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpConfigLoad,
			err:      errors.New("bad toml"),
			expected: "Failed to load configuration: bad toml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWith(tt.op, tt.context, tt.err); got != tt.expected {
				t.Errorf("FormatWith() = %q, want %q", got, tt.expected)
			}
		})
	}
}
