package render

import (
	"fmt"
	"io"

	"github.com/RMahshie/phonon-explorer/internal/phonon"
)

// Format names an output backend.
type Format string

const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// StaticBranchLimit is the number of branches a PNG draws when the caller
// does not pick branches.
const StaticBranchLimit = 6

// Renderer turns a figure into an output document.
type Renderer interface {
	Render(fig *phonon.Figure, w io.Writer) error
	ContentType() string
}

// ForFormat returns the renderer for f with its default settings.
func ForFormat(f Format) (Renderer, error) {
	switch f {
	case FormatPNG, "":
		return NewStatic(), nil
	case FormatHTML:
		return NewInteractive(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == "" {
		return string(FormatPNG)
	}
	return string(f)
}

// DefaultBranchLimit returns the branch cap for f. Interactive charts draw
// every branch.
func (f Format) DefaultBranchLimit() int {
	if f == FormatHTML {
		return 0
	}
	return StaticBranchLimit
}

// padRange widens a degenerate range so chart libraries can scale it.
func padRange(min, max float64) (float64, float64) {
	if max > min {
		return min, max
	}
	return min - 1, max + 1
}
