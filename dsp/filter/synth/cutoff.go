package synth

import (
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Cutoff yields the midi cutoff of each sample in a block. It follows the
// borrowed per-sample buffer when the state carries one and otherwise ramps
// the scalar cutoff across the block.
type Cutoff struct {
	ramp   Ramp
	buffer []poly.Float
	value  poly.Float
	delta  poly.Float
	last   poly.Float
}

// NewCutoff returns a follower whose lanes snap on the first block.
func NewCutoff() Cutoff {
	return Cutoff{ramp: NewRamp()}
}

// Setup records the cutoff of the next block.
func (c *Cutoff) Setup(s *State) {
	c.ramp.SetTarget(s.MidiCutoff)
	c.buffer = s.MidiCutoffBuffer
}

// Reset makes the masked lanes jump to the next cutoff.
func (c *Cutoff) Reset(mask poly.Mask) {
	c.ramp.Reset(mask)
}

// Begin starts a block of n samples.
func (c *Cutoff) Begin(n int) {
	c.value, c.delta = c.ramp.Begin(n)
}

// Next returns the cutoff of sample i. Samples must be requested in order.
func (c *Cutoff) Next(i int) poly.Float {
	c.value = c.value.Add(c.delta)
	if i < len(c.buffer) {
		c.last = c.buffer[i]
	} else {
		c.last = c.value
	}
	return c.last
}

// End releases the borrowed buffer.
func (c *Cutoff) End() {
	c.buffer = nil
}

// Current returns the cutoff of the last rendered sample.
func (c *Cutoff) Current() poly.Float { return c.last }
