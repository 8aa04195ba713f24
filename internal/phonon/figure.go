package phonon

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// TickTolerance is the path-distance below which two symmetry ticks are the
// same tick.
const TickTolerance = 1e-8

// YAxisTitle labels the frequency axis of every figure.
const YAxisTitle = "ħω [meV]"

var defaultPalette = []string{"black", "blue", "red", "green", "orange", "purple"}

var defaultSymmetryLabels = []string{"Γ", "M", "K", "Γ"}

// DefaultPalette returns the colours cycled through for datasets without one.
func DefaultPalette() []string {
	return append([]string(nil), defaultPalette...)
}

// DefaultSymmetryLabels returns the Γ-M-K-Γ labelling used when neither the
// caller nor the band files name the symmetry points.
func DefaultSymmetryLabels() []string {
	return append([]string(nil), defaultSymmetryLabels...)
}

// Dataset is one band file to draw and how to draw it.
type Dataset struct {
	Path  string `json:"path" yaml:"path"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Options controls branch selection and tick labelling.
type Options struct {
	// Branches restricts every dataset to this set of branch indices. Repeats
	// are ignored. Empty means all.
	Branches []int
	// BranchLimit caps the number of branches drawn when Branches is empty.
	// Zero means no cap.
	BranchLimit int
	// SymmetryLabels name the ticks when the band files carry no labels.
	SymmetryLabels []string
}

// Stroke is the line style of a series.
type Stroke struct {
	Width   float64
	Opacity float64
	Dashed  bool
}

var (
	referenceStroke  = Stroke{Width: 1.5, Opacity: 1, Dashed: true}
	comparisonStroke = Stroke{Width: 1, Opacity: 0.7}
)

// StrokeFor returns the stroke of the dataset at index. The first dataset is
// the reference and is drawn dashed, opaque and thicker.
func StrokeFor(index int) Stroke {
	if index == 0 {
		return referenceStroke
	}
	return comparisonStroke
}

// Series is one branch of one dataset over one path segment.
type Series struct {
	Dataset      int
	Label        string
	Color        string
	Segment      int
	Branch       int
	Stroke       Stroke
	ShowInLegend bool
	X            []float64
	Y            []float64
}

// Tick marks a symmetry point on the path axis.
type Tick struct {
	Position float64
	Label    string
}

// LegendEntry is a dataset as it appears in the legend.
type LegendEntry struct {
	Label  string
	Color  string
	Stroke Stroke
}

// Figure is the backend-neutral description of a dispersion chart.
type Figure struct {
	Title  string
	Series []Series
	Ticks  []Tick
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
	YTitle string
}

// Legend returns one entry per dataset, in input order.
func (f *Figure) Legend() []LegendEntry {
	var out []LegendEntry
	for _, s := range f.Series {
		if s.ShowInLegend {
			out = append(out, LegendEntry{Label: s.Label, Color: s.Color, Stroke: s.Stroke})
		}
	}
	return out
}

// Build parses every dataset's band file and lays the results out on shared
// axes. Any unreadable or malformed file aborts the whole build.
func Build(ctx context.Context, src FileSource, datasets []Dataset, opts Options) (*Figure, error) {
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}
	for _, b := range opts.Branches {
		if b < 0 {
			return nil, fmt.Errorf("%w: %d", ErrBranchOutOfRange, b)
		}
	}

	files := make([]*BandFile, len(datasets))
	for i, ds := range datasets {
		bf, err := LoadBandFile(ctx, src, ds.Path)
		if err != nil {
			return nil, err
		}
		files[i] = bf
	}

	ref := files[0].Distances()
	for _, bf := range files[1:] {
		if err := samePath(ref, bf); err != nil {
			return nil, err
		}
	}

	fig := &Figure{
		XMin:   ref[0],
		XMax:   ref[len(ref)-1],
		YMin:   math.Inf(1),
		YMax:   math.Inf(-1),
		YTitle: YAxisTitle,
	}

	for i, bf := range files {
		ds := withDefaults(datasets[i], i)
		branches, err := selectBranches(bf, opts)
		if err != nil {
			return nil, err
		}
		stroke := StrokeFor(i)
		dist := bf.Distances()
		first := true
		for si, seg := range bf.Segments() {
			x := dist[seg.Start:seg.End]
			freqs := bf.FrequencyMatrix(seg)
			for _, b := range branches {
				y := freqs[b]
				for _, v := range y {
					fig.YMin = math.Min(fig.YMin, v)
					fig.YMax = math.Max(fig.YMax, v)
				}
				fig.Series = append(fig.Series, Series{
					Dataset:      i,
					Label:        ds.Label,
					Color:        ds.Color,
					Segment:      si,
					Branch:       b,
					Stroke:       stroke,
					ShowInLegend: first,
					X:            x,
					Y:            y,
				})
				first = false
			}
		}
		log.Debug().Str("path", bf.Path).Int("qpoints", len(bf.QPoints)).Int("branches", len(branches)).Msg("Band file laid out")
	}

	if len(fig.Series) == 0 {
		fig.YMin, fig.YMax = 0, 0
	}
	fig.Ticks = symmetryTicks(files, opts.SymmetryLabels)
	return fig, nil
}

func withDefaults(ds Dataset, index int) Dataset {
	if ds.Color == "" {
		ds.Color = defaultPalette[index%len(defaultPalette)]
	}
	if ds.Label == "" {
		ds.Label = fmt.Sprintf("Dataset %d", index+1)
	}
	return ds
}

func selectBranches(bf *BandFile, opts Options) ([]int, error) {
	n := bf.NumBands()
	if len(opts.Branches) > 0 {
		branches := uniqueBranches(opts.Branches)
		for _, b := range branches {
			if b >= n {
				return nil, &FileError{
					Path:  bf.Path,
					Field: "band",
					Err:   fmt.Errorf("%w: branch %d, file has %d", ErrBranchOutOfRange, b, n),
				}
			}
		}
		return branches, nil
	}
	if opts.BranchLimit > 0 && opts.BranchLimit < n {
		n = opts.BranchLimit
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// uniqueBranches drops repeated indices, keeping first-seen order.
func uniqueBranches(branches []int) []int {
	seen := make(map[int]bool, len(branches))
	out := make([]int, 0, len(branches))
	for _, b := range branches {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

func samePath(ref []float64, bf *BandFile) error {
	d := bf.Distances()
	if len(d) != len(ref) {
		return &FileError{
			Path:  bf.Path,
			Field: "phonon",
			Err:   fmt.Errorf("%w: %d q-points, reference has %d", ErrPathMismatch, len(d), len(ref)),
		}
	}
	for i := range d {
		if math.Abs(d[i]-ref[i]) >= TickTolerance {
			return &FileError{
				Path:  bf.Path,
				Field: fmt.Sprintf("phonon[%d].distance", i),
				Err:   fmt.Errorf("%w: %g, reference has %g", ErrPathMismatch, d[i], ref[i]),
			}
		}
	}
	return nil
}
