// Package stagemix holds the tap weight tables that turn the input and the
// four stage outputs of a ladder cascade into a low, band or high response.
package stagemix

import (
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Taps is the number of mixed signals: the cascade input and four stages.
const Taps = 5

// Weights scales (input, stage1, stage2, stage3, stage4).
type Weights [Taps]float32

// Table holds the three responses a pass blend of 0, 1 and 2 selects.
type Table struct {
	Low, Band, High Weights
}

var tables = [synth.NumStyles]Table{
	synth.Style12Db: {
		Low:  Weights{0, 0, 1, 0, 0},
		Band: Weights{0, 2, -2, 0, 0},
		High: Weights{1, -2, 1, 0, 0},
	},
	synth.Style24Db: {
		Low:  Weights{0, 0, 0, 0, 1},
		Band: Weights{0, 0, 4, -8, 4},
		High: Weights{1, -4, 6, -4, 1},
	},
	synth.StyleNotchPassSwap: {
		Low:  Weights{0, 0, 1, 0, 0},
		Band: Weights{1, -2, 2, 0, 0},
		High: Weights{1, -2, 1, 0, 0},
	},
	synth.StyleDualNotchBand: {
		Low:  Weights{-1, 4, -6, 4, 0},
		Band: Weights{0, 0, 4, -8, 4},
		High: Weights{1, -2, 2, 0, 0},
	},
	synth.StyleBandPeakNotch: {
		Low:  Weights{0, 2, -2, 0, 0},
		Band: Weights{1, 2, -2, 0, 0},
		High: Weights{1, -2, 2, 0, 0},
	},
}

// ForStyle returns the table of a style. Styles without a ladder response
// use the 12 dB table.
func ForStyle(style synth.Style) Table {
	if style < 0 || style >= synth.NumStyles || style == synth.StyleShelving {
		return tables[synth.Style12Db]
	}
	return tables[style]
}

// At interpolates the table piecewise linearly: blend 0 is Low, 1 is Band
// and 2 is High.
func (t Table) At(blend float32) Weights {
	blend = max(0, min(blend, 2))

	from, to := t.Low, t.Band
	if blend > 1 {
		from, to = t.Band, t.High
		blend--
	}

	var w Weights
	for i := range w {
		w[i] = from[i] + (to[i]-from[i])*blend
	}
	return w
}

// Vector holds one weight set per lane.
type Vector [Taps]poly.Float

// Blend evaluates the table at each lane's blend.
func (t Table) Blend(blend poly.Float) Vector {
	var v Vector
	for lane, b := range blend {
		w := t.At(b)
		for i := range v {
			v[i][lane] = w[i]
		}
	}
	return v
}

// Apply returns the weighted sum of the taps.
func (v *Vector) Apply(taps *Vector) poly.Float {
	out := v[0].Mul(taps[0])
	for i := 1; i < Taps; i++ {
		out = out.MulAdd(v[i], taps[i])
	}
	return out
}

// Add advances every weight by delta.
func (v *Vector) Add(delta *Vector) {
	for i := range v {
		v[i] = v[i].Add(delta[i])
	}
}

// Ramp smooths a Vector across blocks.
type Ramp [Taps]synth.Ramp

// NewRamp returns a ramp whose lanes all snap on the first block.
func NewRamp() Ramp {
	var r Ramp
	for i := range r {
		r[i] = synth.NewRamp()
	}
	return r
}

// SetTarget sets the weights the next block ramps toward.
func (r *Ramp) SetTarget(v Vector) {
	for i := range r {
		r[i].SetTarget(v[i])
	}
}

// Reset marks lanes to snap on the next Begin.
func (r *Ramp) Reset(mask poly.Mask) {
	for i := range r {
		r[i].Reset(mask)
	}
}

// Begin starts a block of n samples.
func (r *Ramp) Begin(n int) (start, delta Vector) {
	for i := range r {
		start[i], delta[i] = r[i].Begin(n)
	}
	return start, delta
}

// Current returns the weights reached by the last block.
func (r *Ramp) Current() Vector {
	var v Vector
	for i := range r {
		v[i] = r[i].Current()
	}
	return v
}
