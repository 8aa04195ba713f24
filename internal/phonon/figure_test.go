package phonon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleSegmentDoc = `phonon:
- distance: 0.0
  band:
  - frequency: 0.0
  - frequency: 1.0
  - frequency: 2.0
- distance: 0.5
  band:
  - frequency: 1.0
  - frequency: 2.0
  - frequency: 3.0
- distance: 1.0
  band:
  - frequency: 2.0
  - frequency: 3.0
  - frequency: 4.0
`

const shorterPathDoc = `phonon:
- distance: 0.0
  band:
  - frequency: 0.0
  - frequency: 1.0
  - frequency: 2.0
- distance: 1.0
  band:
  - frequency: 2.0
  - frequency: 3.0
  - frequency: 4.0
`

func twoMethods() []Dataset {
	return []Dataset{
		{Path: "band-vasp.yaml", Color: "black", Label: "DFT"},
		{Path: "band-mlip.yaml", Color: "blue", Label: "MACE-OMAT-small"},
	}
}

func TestBuildLegendOnePerDataset(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods(), Options{})
	require.NoError(t, err)

	// 2 datasets x 3 segments x 3 branches
	assert.Len(t, fig.Series, 18)

	legend := fig.Legend()
	require.Len(t, legend, 2)
	assert.Equal(t, "DFT", legend[0].Label)
	assert.Equal(t, "black", legend[0].Color)
	assert.Equal(t, "MACE-OMAT-small", legend[1].Label)
	assert.Equal(t, "blue", legend[1].Color)

	// The legend entry is carried by the first series of each dataset.
	assert.True(t, fig.Series[0].ShowInLegend)
	assert.True(t, fig.Series[9].ShowInLegend)
	for i, s := range fig.Series {
		if i != 0 && i != 9 {
			assert.False(t, s.ShowInLegend, "series %d", i)
		}
	}
}

func TestBuildAxisRange(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, fig.XMin)
	assert.Equal(t, 3.0, fig.XMax)
	assert.Equal(t, 0.0, fig.YMin)
	five := 5.0
	assert.Equal(t, five*THzToMeV, fig.YMax)
	assert.Equal(t, YAxisTitle, fig.YTitle)
}

func TestBuildSeriesValues(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods()[:1], Options{Branches: []int{2}})
	require.NoError(t, err)
	require.Len(t, fig.Series, 3)

	seg := fig.Series[1]
	assert.Equal(t, 1, seg.Segment)
	assert.Equal(t, 2, seg.Branch)
	assert.Equal(t, []float64{1.0, 1.5, 2.0}, seg.X)

	want := []float64{4.0, 4.5, 5.0}
	require.Len(t, seg.Y, len(want))
	for i, thz := range want {
		assert.Equal(t, thz*THzToMeV, seg.Y[i])
	}
}

func TestBuildStrokes(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods(), Options{})
	require.NoError(t, err)

	for _, s := range fig.Series {
		if s.Dataset == 0 {
			assert.Equal(t, Stroke{Width: 1.5, Opacity: 1, Dashed: true}, s.Stroke)
		} else {
			assert.Equal(t, Stroke{Width: 1, Opacity: 0.7}, s.Stroke)
		}
	}
	ref, cmp := StrokeFor(0), StrokeFor(1)
	assert.Greater(t, ref.Width, cmp.Width)
	assert.Greater(t, ref.Opacity, cmp.Opacity)
	assert.True(t, ref.Dashed)
	assert.False(t, cmp.Dashed)
}

func TestBuildExplicitBranches(t *testing.T) {
	src := memSource{"a.yaml": singleSegmentDoc, "b.yaml": singleSegmentDoc}
	datasets := []Dataset{{Path: "a.yaml"}, {Path: "b.yaml"}}

	fig, err := Build(context.Background(), src, datasets, Options{Branches: []int{0, 1}})
	require.NoError(t, err)

	assert.Len(t, fig.Series, 4)
	perDataset := map[int]int{}
	for _, s := range fig.Series {
		perDataset[s.Dataset]++
		assert.Contains(t, []int{0, 1}, s.Branch)
	}
	assert.Equal(t, map[int]int{0: 2, 1: 2}, perDataset)
	assert.Len(t, fig.Legend(), 2)
}

func TestBuildRepeatedBranchesDrawOnce(t *testing.T) {
	src := memSource{"a.yaml": singleSegmentDoc, "b.yaml": singleSegmentDoc}
	datasets := []Dataset{{Path: "a.yaml"}, {Path: "b.yaml"}}

	fig, err := Build(context.Background(), src, datasets, Options{Branches: []int{1, 0, 1, 0}})
	require.NoError(t, err)

	require.Len(t, fig.Series, 4)
	assert.Equal(t, []int{1, 0, 1, 0}, []int{fig.Series[0].Branch, fig.Series[1].Branch, fig.Series[2].Branch, fig.Series[3].Branch})
	assert.Len(t, fig.Legend(), 2)
}

func TestBuildDefaults(t *testing.T) {
	src := memSource{"a.yaml": singleSegmentDoc, "b.yaml": singleSegmentDoc, "c.yaml": singleSegmentDoc}
	datasets := []Dataset{{Path: "a.yaml"}, {Path: "b.yaml"}, {Path: "c.yaml"}}

	fig, err := Build(context.Background(), src, datasets, Options{})
	require.NoError(t, err)

	legend := fig.Legend()
	require.Len(t, legend, 3)
	palette := DefaultPalette()
	for i, e := range legend {
		assert.Equal(t, palette[i], e.Color)
	}
	assert.Equal(t, []string{"black", "blue", "red"}, []string{legend[0].Color, legend[1].Color, legend[2].Color})
	assert.Equal(t, "Dataset 1", legend[0].Label)
	assert.Equal(t, "Dataset 2", legend[1].Label)
	assert.Equal(t, "Dataset 3", legend[2].Label)
}

func TestDefaultPaletteIsACopy(t *testing.T) {
	p := DefaultPalette()
	p[0] = "pink"
	assert.Equal(t, "black", DefaultPalette()[0])
	assert.Len(t, DefaultPalette(), 6)
}

func TestBuildBranchLimit(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods()[:1], Options{BranchLimit: 2})
	require.NoError(t, err)

	assert.Len(t, fig.Series, 6)
	for _, s := range fig.Series {
		assert.Less(t, s.Branch, 2)
	}
}

func TestBuildTicksDefaultLabels(t *testing.T) {
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []Tick{
		{Position: 0, Label: "Γ"},
		{Position: 1, Label: "M"},
		{Position: 2, Label: "K"},
		{Position: 3, Label: "Γ"},
	}, fig.Ticks)
}

func TestBuildTicksCustomLabels(t *testing.T) {
	opts := Options{SymmetryLabels: []string{"G", "X"}}
	fig, err := Build(context.Background(), dirSource("testdata"), twoMethods()[:1], opts)
	require.NoError(t, err)

	assert.Equal(t, []Tick{
		{Position: 0, Label: "G"},
		{Position: 1, Label: "X"},
		{Position: 2},
		{Position: 3},
	}, fig.Ticks)
}

func TestBuildTicksFromFileLabels(t *testing.T) {
	datasets := []Dataset{{Path: "band-labelled.yaml"}}
	fig, err := Build(context.Background(), dirSource("testdata"), datasets, Options{SymmetryLabels: []string{"ignored"}})
	require.NoError(t, err)

	assert.Equal(t, []Tick{
		{Position: 0, Label: "G"},
		{Position: 1, Label: "M"},
		{Position: 2, Label: "K"},
	}, fig.Ticks)
}

func TestDedupTicks(t *testing.T) {
	ticks := []Tick{
		{Position: 0, Label: "Γ"},
		{Position: 1e-9, Label: "X"},
		{Position: 1},
		{Position: 1 + 5e-9, Label: "M"},
		{Position: 2, Label: "K"},
		{Position: 2 + 1e-7, Label: "K'"},
	}

	assert.Equal(t, []Tick{
		{Position: 0, Label: "Γ"},
		{Position: 1, Label: "M"},
		{Position: 2, Label: "K"},
		{Position: 2 + 1e-7, Label: "K'"},
	}, DedupTicks(ticks))
}

func TestBuildErrors(t *testing.T) {
	src := memSource{
		"a.yaml":     singleSegmentDoc,
		"short.yaml": shorterPathDoc,
		"bad.yaml":   "phonon: {",
	}

	tests := []struct {
		name     string
		datasets []Dataset
		opts     Options
		wantErr  error
		wantPath string
	}{
		{
			name:    "no datasets",
			wantErr: ErrNoDatasets,
		},
		{
			name:     "path mismatch",
			datasets: []Dataset{{Path: "a.yaml"}, {Path: "short.yaml"}},
			wantErr:  ErrPathMismatch,
			wantPath: "short.yaml",
		},
		{
			name:     "branch beyond band count",
			datasets: []Dataset{{Path: "a.yaml"}},
			opts:     Options{Branches: []int{0, 3}},
			wantErr:  ErrBranchOutOfRange,
			wantPath: "a.yaml",
		},
		{
			name:     "negative branch",
			datasets: []Dataset{{Path: "a.yaml"}},
			opts:     Options{Branches: []int{-1}},
			wantErr:  ErrBranchOutOfRange,
		},
		{
			name:     "malformed file aborts the render",
			datasets: []Dataset{{Path: "a.yaml"}, {Path: "bad.yaml"}},
			wantErr:  ErrMalformed,
			wantPath: "bad.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := Build(context.Background(), src, tt.datasets, tt.opts)
			require.Error(t, err)
			assert.Nil(t, fig)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantPath != "" {
				var fe *FileError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, tt.wantPath, fe.Path)
			}
		})
	}
}
