// Package onepole provides the trapezoidal one-pole stage that every
// polyphonic filter topology is assembled from.
//
// The saturation applied to the integrator is a type parameter, so a
// OnePole[Pass] compiles to the plain linear stage and OnePole[Tanh]
// saturates its state without an indirect call per sample.
package onepole

import (
	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/poly"
)

// maxWarp keeps the prewarp argument below pi/2.
const maxWarp = 0.499 * math32.Pi

// Saturator shapes the integrator state of a OnePole.
type Saturator interface {
	Saturate(x poly.Float) poly.Float
}

// Pass leaves the state untouched.
type Pass struct{}

// Saturate returns x.
func (Pass) Saturate(x poly.Float) poly.Float { return x }

// Tanh is a soft clip bounded to [-1, 1].
type Tanh struct{}

// Saturate returns poly.Tanh(x).
func (Tanh) Saturate(x poly.Float) poly.Float { return poly.Tanh(x) }

// HardTanh is a cubic clip that reaches its limit at 1.5.
type HardTanh struct{}

// Saturate returns poly.HardTanh(x).
func (HardTanh) Saturate(x poly.Float) poly.Float { return poly.HardTanh(x) }

// AlgebraicSat is x/sqrt(1+x^2).
type AlgebraicSat struct{}

// Saturate returns poly.AlgebraicSat(x).
func (AlgebraicSat) Saturate(x poly.Float) poly.Float { return poly.AlgebraicSat(x) }

// OnePole is a zero-delay-feedback one-pole low-pass stage.
//
// The coefficient passed to TickBasic and Tick is the normalized
// G = g/(1+g), where g is the prewarped integrator gain returned by
// ComputeCoefficient or one of the shared lookups.
type OnePole[S Saturator] struct {
	state   poly.Float
	current poly.Float
	sat     S
}

// TickBasic advances the stage without saturation and returns the low-pass output.
func (p *OnePole[S]) TickBasic(input, coefficient poly.Float) poly.Float {
	delta := coefficient.Mul(input.Sub(p.state))
	p.current = p.state.Add(delta)
	p.state = p.current.Add(delta)

	return p.current
}

// Tick advances the stage and passes the output through the saturator
// before it is folded back into the integrator.
func (p *OnePole[S]) Tick(input, coefficient poly.Float) poly.Float {
	delta := coefficient.Mul(input.Sub(p.state))
	p.current = p.sat.Saturate(p.state.Add(delta))
	p.state = p.current.Add(delta)

	return p.current
}

// Reset zeroes the masked lanes.
func (p *OnePole[S]) Reset(mask poly.Mask) {
	var zero poly.Float
	p.state = poly.MaskLoad(p.state, zero, mask)
	p.current = poly.MaskLoad(p.current, zero, mask)
}

// State returns the integrator state.
func (p *OnePole[S]) State() poly.Float { return p.state }

// Current returns the output of the last tick.
func (p *OnePole[S]) Current() poly.Float { return p.current }

// ComputeCoefficient converts a cutoff in Hz to the prewarped integrator
// gain g = tan(d/(1+d)) with d = pi*cutoff/sampleRate.
func ComputeCoefficient(cutoffHz, sampleRate float32) float32 {
	d := math32.Pi * cutoffHz / sampleRate
	return math32.Tan(min(maxWarp, d/(1+d)))
}

// Normalize maps a prewarped gain g to the per-tick coefficient g/(1+g).
func Normalize(g poly.Float) poly.Float {
	return g.Div(g.Add(poly.Splat(1)))
}

// Highpass derives the high-pass output from the stage input and its low-pass output.
func Highpass(input, lowpass poly.Float) poly.Float {
	return input.Sub(lowpass)
}

// Allpass derives the first-order all-pass output from the stage input and
// its low-pass output.
func Allpass(input, lowpass poly.Float) poly.Float {
	return lowpass.Add(lowpass).Sub(input)
}
