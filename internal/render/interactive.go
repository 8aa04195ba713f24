package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/RMahshie/phonon-explorer/internal/phonon"
)

// Interactive renders figures to a standalone ECharts HTML page with zoom,
// pan and hover tooltips.
type Interactive struct {
	Width  string
	Height string
}

// NewInteractive returns a renderer sized for an embedded page panel.
func NewInteractive() *Interactive {
	return &Interactive{Width: "900px", Height: "700px"}
}

func (r *Interactive) ContentType() string { return "text/html; charset=utf-8" }

// Chart builds the ECharts line chart for fig. Series of one dataset share
// its label, so ECharts groups them under a single legend entry.
func (r *Interactive) Chart(fig *phonon.Figure) (*charts.Line, error) {
	xmin, xmax := padRange(fig.XMin, fig.XMax)
	ymin, ymax := padRange(fig.YMin, fig.YMax)

	var legend []string
	for _, e := range fig.Legend() {
		legend = append(legend, e.Label)
	}

	title := fig.Title
	if title == "" {
		title = "Phonon dispersion"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: r.Width, Height: r.Height}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			Min:       xmin,
			Max:       xmax,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: fig.YTitle,
			Min:  ymin,
			Max:  ymax,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Data: legend}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: []int{0}},
			opts.DataZoom{Type: "inside", YAxisIndex: []int{0}},
		),
	)

	for i, fs := range fig.Series {
		col, err := ParseColor(fs.Color)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", fs.Label, err)
		}
		css := cssColor(withOpacity(col, fs.Stroke.Opacity))
		lineType := "solid"
		if fs.Stroke.Dashed {
			lineType = "dashed"
		}

		data := make([]opts.LineData, len(fs.X))
		for j := range fs.X {
			data[j] = opts.LineData{Value: []float64{fs.X[j], fs.Y[j]}}
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: css, Width: float32(fs.Stroke.Width), Type: lineType}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: css}),
		}
		if i == 0 {
			seriesOpts = append(seriesOpts, symmetryMarkLines(fig.Ticks)...)
		}
		line.AddSeries(fs.Label, data, seriesOpts...)
	}
	return line, nil
}

// symmetryMarkLines draws a dashed vertical line at each symmetry tick,
// labelled with the tick name.
func symmetryMarkLines(ticks []phonon.Tick) []charts.SeriesOpts {
	if len(ticks) == 0 {
		return nil
	}
	items := make([]opts.MarkLineNameXAxisItem, 0, len(ticks))
	for _, t := range ticks {
		items = append(items, opts.MarkLineNameXAxisItem{Name: t.Label, XAxis: t.Position})
	}
	return []charts.SeriesOpts{
		charts.WithMarkLineNameXAxisItemOpts(items...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none"},
			LineStyle: &opts.LineStyle{Color: "black", Type: "dashed", Width: 1},
			Label:     &opts.Label{Show: opts.Bool(true), Position: "start", Formatter: "{b}"},
		}),
	}
}

// Render writes fig as an HTML page.
func (r *Interactive) Render(fig *phonon.Figure, w io.Writer) error {
	line, err := r.Chart(fig)
	if err != nil {
		return err
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
