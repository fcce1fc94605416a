package synth

import (
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Ramp smooths a block-rate parameter linearly across each block.
//
// SetTarget records the value computed by SetupFilter. Begin starts a block:
// it returns the value the ramp holds before the first sample and the
// per-sample increment that lands exactly on the target at the last sample.
// Lanes marked by Reset jump straight to their target on the next Begin so
// a new note never glides from the previous voice's setting.
type Ramp struct {
	current poly.Float
	target  poly.Float
	pending poly.Mask
}

// NewRamp returns a ramp whose lanes all snap on the first block.
func NewRamp() Ramp {
	return Ramp{pending: poly.FullMask}
}

// SetTarget sets the value the next block ramps toward.
func (r *Ramp) SetTarget(target poly.Float) {
	r.target = target
}

// Reset marks lanes to snap to their target on the next Begin.
func (r *Ramp) Reset(mask poly.Mask) {
	r.pending = r.pending.Or(mask)
}

// Begin starts a block of n samples.
func (r *Ramp) Begin(n int) (start, delta poly.Float) {
	r.current = poly.MaskLoad(r.current, r.target, r.pending)
	r.pending = poly.Mask{}

	start = r.current
	if n > 0 {
		delta = r.target.Sub(r.current).Scale(1 / float32(n))
	}
	r.current = r.target

	return start, delta
}

// Current returns the value reached at the end of the last block.
func (r *Ramp) Current() poly.Float { return r.current }

// Target returns the pending target.
func (r *Ramp) Target() poly.Float { return r.target }
