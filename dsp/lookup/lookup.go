// Package lookup provides precomputed, cubically interpolated function tables
// that replace transcendental calls in per-sample filter code.
package lookup

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// extraValues are the guard entries around the sampled domain: one before
// position 0 and three after the last position so a 4-tap read at the upper
// bound never leaves the table.
const extraValues = 4

// OneDim samples a scalar function on [0, domain] at resolution+1 evenly
// spaced points. It is immutable after construction and safe for concurrent
// reads.
type OneDim struct {
	table      []float32
	resolution int
	domain     float64
	scale      float32
}

// NewOneDim tabulates fn over [0, domain] with the given resolution.
func NewOneDim(fn func(float64) float64, resolution int, domain float64) (*OneDim, error) {
	if fn == nil {
		return nil, fmt.Errorf("lookup: function must not be nil")
	}

	if resolution < 2 {
		return nil, fmt.Errorf("lookup: resolution must be >= 2: %d", resolution)
	}

	if math.IsNaN(domain) || math.IsInf(domain, 0) || domain <= 0 {
		return nil, fmt.Errorf("lookup: domain must be > 0 and finite: %f", domain)
	}

	step := domain / float64(resolution)
	table := make([]float32, resolution+extraValues)
	for i := range table {
		table[i] = float32(fn(float64(i-1) * step))
	}

	return &OneDim{
		table:      table,
		resolution: resolution,
		domain:     domain,
		scale:      float32(float64(resolution) / domain),
	}, nil
}

// Resolution returns the number of intervals in the table.
func (l *OneDim) Resolution() int { return l.resolution }

// Domain returns the upper bound of the sampled input range.
func (l *OneDim) Domain() float64 { return l.domain }

// CubicLookup interpolates one table position per lane. Inputs outside
// [0, domain] clamp to the boundary entries.
func (l *OneDim) CubicLookup(x poly.Float) poly.Float {
	for i, v := range x {
		x[i] = l.CubicLookupScalar(v)
	}
	return x
}

// CubicLookupScalar is the single-value form of CubicLookup.
func (l *OneDim) CubicLookupScalar(x float32) float32 {
	pos := x*l.scale + 1
	upper := float32(l.resolution + 1)
	if !(pos >= 1) {
		pos = 1
	} else if pos > upper {
		pos = upper
	}

	idx := int(pos)
	t := pos - float32(idx)
	tab := l.table[idx-1 : idx+3]

	return interp.Hermite4(t, tab[0], tab[1], tab[2], tab[3])
}

// At returns the exact table entry for grid index i in [0, resolution].
func (l *OneDim) At(i int) float32 {
	return l.table[i+1]
}
