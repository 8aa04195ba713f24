package phonon

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// THzToMeV converts phonopy frequencies (THz) to millielectronvolts.
const THzToMeV = 4.1357

// FileSource reads band files by path. Local directories and object storage
// both satisfy it.
type FileSource interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Band is one mode at a q-point.
type Band struct {
	Frequency *float64 `yaml:"frequency"`
}

// QPoint is one sampled point along the reciprocal-space path.
type QPoint struct {
	Distance *float64 `yaml:"distance"`
	Label    string   `yaml:"label,omitempty"`
	Bands    []Band   `yaml:"band"`
}

// BandFile is the subset of a phonopy band.yaml this package reads.
type BandFile struct {
	Path           string   `yaml:"-"`
	QPoints        []QPoint `yaml:"phonon"`
	SegmentNQPoint []int    `yaml:"segment_nqpoint"`
}

// Segment is a contiguous slice [Start, End) of a file's q-points.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of q-points in the segment.
func (s Segment) Len() int { return s.End - s.Start }

// LoadBandFile reads and validates the band file at path.
func LoadBandFile(ctx context.Context, src FileSource, path string) (*BandFile, error) {
	data, err := src.ReadFile(ctx, path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return ParseBandFile(path, data)
}

// ParseBandFile decodes data as a band file. path is only used in errors.
func ParseBandFile(path string, data []byte) (*BandFile, error) {
	var bf BandFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	bf.Path = path
	if err := bf.validate(); err != nil {
		return nil, err
	}
	return &bf, nil
}

func (bf *BandFile) validate() error {
	if len(bf.QPoints) == 0 {
		return &FileError{Path: bf.Path, Field: "phonon", Err: ErrMissingField}
	}
	nbands := len(bf.QPoints[0].Bands)
	for i, q := range bf.QPoints {
		if q.Distance == nil {
			return &FileError{Path: bf.Path, Field: fmt.Sprintf("phonon[%d].distance", i), Err: ErrMissingField}
		}
		if len(q.Bands) == 0 {
			return &FileError{Path: bf.Path, Field: fmt.Sprintf("phonon[%d].band", i), Err: ErrMissingField}
		}
		if len(q.Bands) != nbands {
			return &FileError{
				Path:  bf.Path,
				Field: fmt.Sprintf("phonon[%d].band", i),
				Err:   fmt.Errorf("%w: %d bands, expected %d", ErrMalformed, len(q.Bands), nbands),
			}
		}
		for j, b := range q.Bands {
			if b.Frequency == nil {
				return &FileError{Path: bf.Path, Field: fmt.Sprintf("phonon[%d].band[%d].frequency", i, j), Err: ErrMissingField}
			}
		}
	}

	if bf.SegmentNQPoint == nil {
		return nil
	}
	total := 0
	for _, n := range bf.SegmentNQPoint {
		if n <= 0 {
			return &FileError{Path: bf.Path, Field: "segment_nqpoint", Err: fmt.Errorf("%w: segment length %d", ErrMalformed, n)}
		}
		total += n
	}
	if total != len(bf.QPoints) {
		return &FileError{
			Path:  bf.Path,
			Field: "segment_nqpoint",
			Err:   fmt.Errorf("%w: segments cover %d q-points, file has %d", ErrMalformed, total, len(bf.QPoints)),
		}
	}
	return nil
}

// NumBands returns the band count shared by every q-point.
func (bf *BandFile) NumBands() int {
	if len(bf.QPoints) == 0 {
		return 0
	}
	return len(bf.QPoints[0].Bands)
}

// Segments partitions the q-points by segment_nqpoint, or returns a single
// segment covering the whole file.
func (bf *BandFile) Segments() []Segment {
	if len(bf.SegmentNQPoint) == 0 {
		return []Segment{{Start: 0, End: len(bf.QPoints)}}
	}
	segs := make([]Segment, 0, len(bf.SegmentNQPoint))
	start := 0
	for _, n := range bf.SegmentNQPoint {
		segs = append(segs, Segment{Start: start, End: start + n})
		start += n
	}
	return segs
}

// Distances returns the cumulative path distance of every q-point.
func (bf *BandFile) Distances() []float64 {
	out := make([]float64, len(bf.QPoints))
	for i, q := range bf.QPoints {
		out[i] = *q.Distance
	}
	return out
}

// HasLabels reports whether any q-point carries a symmetry label.
func (bf *BandFile) HasLabels() bool {
	for _, q := range bf.QPoints {
		if q.Label != "" {
			return true
		}
	}
	return false
}

// FrequencyMatrix returns the frequencies of seg in meV, indexed
// [branch][q-point].
func (bf *BandFile) FrequencyMatrix(seg Segment) [][]float64 {
	m := make([][]float64, bf.NumBands())
	for b := range m {
		row := make([]float64, seg.Len())
		for i := 0; i < seg.Len(); i++ {
			row[i] = *bf.QPoints[seg.Start+i].Bands[b].Frequency * THzToMeV
		}
		m[b] = row
	}
	return m
}
