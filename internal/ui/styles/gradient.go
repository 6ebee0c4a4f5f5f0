package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// fallbackColor stands in for stops that are not #rrggbb (ANSI indexes).
var fallbackColor = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// RingGradient renders text in bold with the story ring colors.
func RingGradient(text string) string {
	t := T()
	return Gradient(text, true, t.RingFrom, t.RingMid, t.RingTo)
}

// Gradient colors each grapheme of text along the given stops. With a
// single grapheme or a single stop the first stop is used.
func Gradient(text string, bold bool, stops ...lipgloss.Color) string {
	if text == "" || len(stops) == 0 {
		return text
	}

	graphemes := splitGraphemes(text)
	base := lipgloss.NewStyle().Bold(bold)
	if len(graphemes) == 1 || len(stops) == 1 {
		return base.Foreground(stops[0]).Render(text)
	}

	ramp := GradientRamp(len(graphemes), stops...)
	var b strings.Builder
	for i, g := range graphemes {
		b.WriteString(base.Foreground(ramp[i]).Render(g))
	}
	return b.String()
}

// GradientRamp returns n colors spread evenly over the stops, blended in
// HCL space.
func GradientRamp(n int, stops ...lipgloss.Color) []lipgloss.Color {
	if n <= 0 || len(stops) == 0 {
		return nil
	}
	ramp := make([]lipgloss.Color, n)
	if n == 1 || len(stops) == 1 {
		for i := range ramp {
			ramp[i] = stops[0]
		}
		return ramp
	}

	points := make([]colorful.Color, len(stops))
	for i, s := range stops {
		points[i] = parseColor(s)
	}
	segments := float64(len(points) - 1)
	for i := range ramp {
		pos := float64(i) / float64(n-1) * segments
		seg := min(int(pos), len(points)-2)
		switch frac := pos - float64(seg); {
		case frac <= 0:
			ramp[i] = stops[seg]
		case frac >= 1:
			ramp[i] = stops[seg+1]
		default:
			ramp[i] = lipgloss.Color(points[seg].BlendHcl(points[seg+1], frac).Clamped().Hex())
		}
	}
	return ramp
}

func parseColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return fallbackColor
	}
	return col
}

func splitGraphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}
