package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrUnknownColor is returned for colour values that are neither a known name
// nor a hex triplet.
var ErrUnknownColor = errors.New("unknown color")

var namedColors = map[string]drawing.Color{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"brown":   {R: 165, G: 42, B: 42, A: 255},
	"pink":    {R: 255, G: 192, B: 203, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
}

// ParseColor resolves a colour name ("blue") or hex triplet ("#1f77b4",
// "#abc") to a drawing colour.
func ParseColor(value string) (drawing.Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return drawing.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
		}
	}
	return drawing.ColorFromHex(hex), nil
}

// withOpacity applies an opacity in [0, 1] to c.
func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	return c.WithAlpha(uint8(opacity*255 + 0.5))
}

// cssColor formats c as a CSS rgba() value.
func cssColor(c drawing.Color) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, float64(c.A)/255)
}
