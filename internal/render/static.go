package render

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/phonon-explorer/internal/phonon"
)

const pointsPerInch = 72.0

// Static renders figures to PNG with go-chart. Line widths are given in
// points and scaled by DPI, so the output matches a print figure of
// Width/DPI x Height/DPI inches.
type Static struct {
	Width  int
	Height int
	DPI    float64
}

// NewStatic returns a 6 x 6 inch, 300 DPI renderer.
func NewStatic() *Static {
	return &Static{Width: 1800, Height: 1800, DPI: 300}
}

func (s *Static) ContentType() string { return "image/png" }

func (s *Static) px(points float64) float64 {
	return points * s.DPI / pointsPerInch
}

// Chart builds the go-chart description of fig.
func (s *Static) Chart(fig *phonon.Figure) (*chart.Chart, error) {
	xmin, xmax := padRange(fig.XMin, fig.XMax)
	ymin, ymax := padRange(fig.YMin, fig.YMax)

	series := make([]chart.Series, 0, len(fig.Series)+len(fig.Ticks))
	var legend []chart.Series
	for _, fs := range fig.Series {
		col, err := ParseColor(fs.Color)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", fs.Label, err)
		}
		cs := chart.ContinuousSeries{
			Name:    fs.Label,
			XValues: fs.X,
			YValues: fs.Y,
			Style:   s.strokeStyle(col, fs.Stroke),
		}
		series = append(series, cs)
		if fs.ShowInLegend {
			legend = append(legend, cs)
		}
	}

	ticks := make([]chart.Tick, 0, len(fig.Ticks))
	for _, t := range fig.Ticks {
		ticks = append(ticks, chart.Tick{Value: t.Position, Label: t.Label})
		series = append(series, chart.ContinuousSeries{
			Name:    t.Label,
			XValues: []float64{t.Position, t.Position},
			YValues: []float64{ymin, ymax},
			Style: chart.Style{
				StrokeColor:     drawing.ColorBlack,
				StrokeWidth:     s.px(1),
				StrokeDashArray: []float64{s.px(3.7), s.px(1.6)},
			},
		})
	}

	pad := int(s.px(6))
	ch := &chart.Chart{
		Title:      fig.Title,
		Width:      s.Width,
		Height:     s.Height,
		DPI:        s.DPI,
		Background: chart.Style{Padding: chart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  fig.YTitle,
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: series,
	}
	// Only the first series of each dataset is named in the legend.
	legendChart := &chart.Chart{Series: legend}
	ch.Elements = []chart.Renderable{chart.Legend(legendChart)}
	return ch, nil
}

func (s *Static) strokeStyle(col drawing.Color, st phonon.Stroke) chart.Style {
	style := chart.Style{
		StrokeColor: withOpacity(col, st.Opacity),
		StrokeWidth: s.px(st.Width),
	}
	if st.Dashed {
		style.StrokeDashArray = []float64{s.px(3.7 * st.Width), s.px(1.6 * st.Width)}
	}
	return style
}

// Render writes fig as a PNG.
func (s *Static) Render(fig *phonon.Figure, w io.Writer) error {
	ch, err := s.Chart(fig)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SavePNG renders fig to a PNG file at path.
func (s *Static) SavePNG(fig *phonon.Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.Render(fig, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
