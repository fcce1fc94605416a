// Package delay provides the circular polyphonic delay memory used by the
// comb filter.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Memory is a circular delay line holding one poly.Float per sample.
// Every lane may be read at its own fractional delay.
type Memory struct {
	buffer []poly.Float
	mask   int
	offset int
}

// New returns a memory able to hold at least size samples. The storage is
// rounded up to a power of two.
func New(size int) (*Memory, error) {
	if size < 4 {
		return nil, fmt.Errorf("delay: memory size must be >= 4: %d", size)
	}

	n := 1
	for n < size {
		n <<= 1
	}

	return &Memory{buffer: make([]poly.Float, n), mask: n - 1}, nil
}

// Size returns the storage length in samples.
func (m *Memory) Size() int {
	return len(m.buffer)
}

// MaxDelay returns the largest fractional delay that keeps all four
// interpolation taps inside written history.
func (m *Memory) MaxDelay() int {
	return len(m.buffer) - 3
}

// Push writes one sample.
func (m *Memory) Push(sample poly.Float) {
	m.buffer[m.offset] = sample
	m.offset = (m.offset + 1) & m.mask
}

// At returns the sample written delay samples ago. At(1) is the most recent.
func (m *Memory) At(delay int) poly.Float {
	return m.buffer[(m.offset-delay)&m.mask]
}

// Get reads every lane at its own fractional delay with cubic interpolation.
// Delays clamp into [1, MaxDelay]. Below a delay of 2 the newest sample
// stands in for the tap that has not been written yet.
func (m *Memory) Get(delay poly.Float) poly.Float {
	var out poly.Float
	maxDelay := float32(m.MaxDelay())

	for lane, d := range delay {
		if !(d >= 1) {
			d = 1
		} else if d > maxDelay {
			d = maxDelay
		}

		p := int(d)
		t := d - float32(p)
		base := m.offset - p

		x0 := m.buffer[base&m.mask][lane]
		xm1 := x0
		if p > 1 {
			xm1 = m.buffer[(base+1)&m.mask][lane]
		}
		x1 := m.buffer[(base-1)&m.mask][lane]
		x2 := m.buffer[(base-2)&m.mask][lane]

		out[lane] = interp.Hermite4(t, xm1, x0, x1, x2)
	}

	return out
}

// Clear zeroes the history of the masked lanes only.
func (m *Memory) Clear(mask poly.Mask) {
	if !mask.Any() {
		return
	}

	var zero poly.Float
	for i := range m.buffer {
		m.buffer[i] = poly.MaskLoad(m.buffer[i], zero, mask)
	}
}

// Reset clears every lane and rewinds the write position.
func (m *Memory) Reset() {
	poly.Clear(m.buffer)
	m.offset = 0
}
