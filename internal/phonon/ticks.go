package phonon

import "math"

// SegmentStarts returns the path distance of the first q-point of every
// segment, in path order.
func (bf *BandFile) SegmentStarts() []float64 {
	segs := bf.Segments()
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = *bf.QPoints[s.Start].Distance
	}
	return out
}

// fileTicks walks the segments in order and emits a tick at every segment
// start and every labelled q-point. Unlabelled files also get a tick at the
// end of the path.
func fileTicks(bf *BandFile) []Tick {
	starts := bf.SegmentStarts()
	var ticks []Tick
	for si, seg := range bf.Segments() {
		ticks = append(ticks, Tick{Position: starts[si], Label: bf.QPoints[seg.Start].Label})
		for _, q := range bf.QPoints[seg.Start+1 : seg.End] {
			if q.Label != "" {
				ticks = append(ticks, Tick{Position: *q.Distance, Label: q.Label})
			}
		}
	}
	if !bf.HasLabels() {
		last := bf.QPoints[len(bf.QPoints)-1]
		ticks = append(ticks, Tick{Position: *last.Distance})
	}
	return ticks
}

// DedupTicks collapses ticks closer than TickTolerance, keeping the first
// occurrence. A kept tick without a label takes the label of a later
// duplicate.
func DedupTicks(ticks []Tick) []Tick {
	var out []Tick
next:
	for _, t := range ticks {
		for i := range out {
			if math.Abs(out[i].Position-t.Position) < TickTolerance {
				if out[i].Label == "" {
					out[i].Label = t.Label
				}
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

func symmetryTicks(files []*BandFile, labels []string) []Tick {
	var all []Tick
	labelled := false
	for _, bf := range files {
		all = append(all, fileTicks(bf)...)
		labelled = labelled || bf.HasLabels()
	}
	ticks := DedupTicks(all)
	if labelled {
		return ticks
	}
	if len(labels) == 0 {
		labels = DefaultSymmetryLabels()
	}
	for i := range ticks {
		if i < len(labels) {
			ticks[i].Label = labels[i]
		}
	}
	return ticks
}
