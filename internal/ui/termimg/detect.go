package termimg

import (
	"fmt"
	"os"
	"strings"
)

// EnvOverride forces a protocol regardless of configuration.
const EnvOverride = "STORIES_IMAGE_PROTOCOL"

const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

// Mode selects the image protocol.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeKitty Mode = "kitty"
	ModeSixel Mode = "sixel"
	ModeNone  Mode = "none"
)

// ParseMode parses a configured protocol name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeKitty, ModeSixel, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown image protocol %q (want auto, kitty, sixel or none)", s)
	}
}

// Detect returns the protocol for mode, or nil when images are disabled or
// the terminal supports neither protocol. A valid STORIES_IMAGE_PROTOCOL
// value takes precedence over mode.
func Detect(mode Mode) Protocol {
	if override, err := ParseMode(os.Getenv(EnvOverride)); err == nil && override != ModeAuto {
		mode = override
	}

	switch mode {
	case ModeKitty:
		return Kitty{}
	case ModeSixel:
		return NewSixel()
	case ModeNone:
		return nil
	}

	if IsKittySupported() {
		return Kitty{}
	}
	if IsSixelSupported() {
		return NewSixel()
	}
	return nil
}

// IsKittySupported reports whether the terminal advertises Kitty graphics.
func IsKittySupported() bool {
	// Contour does not support Kitty graphics, but parent terminal variables
	// like GHOSTTY_RESOURCES_DIR can leak into it.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	// KONSOLE_VERSION is like "220401"; Kitty graphics since 22.04.
	if version := os.Getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// IsSixelSupported reports whether the terminal is likely to draw Sixel.
func IsSixelSupported() bool {
	term := os.Getenv("TERM")
	switch os.Getenv("TERM_PROGRAM") {
	case "vscode", "mintty", "iTerm.app", "contour":
		return true
	}
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return true
	}
	if term == "foot" || term == "foot-extra" {
		return true
	}
	// xterm only draws sixel when built for it, but it is the best guess
	// once Kitty has been ruled out.
	return term == "xterm" || strings.HasPrefix(term, "xterm-")
}
