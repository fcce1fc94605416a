// Package sallenkey provides a polyphonic Sallen-Key style filter, the
// "analog" model of the filter engine.
//
// A unity-gain pre stage splits the input into a low and a high-pass pair.
// The pass blend crossfades that pair and the matching outputs of the
// resonant core: a one-pole low-pass whose output is fed back through a
// one-pole high-pass. The loop is solved instantaneously and the core
// input is soft clipped, so the filter self-oscillates close to full
// resonance without diverging. Style24Db runs a non-resonant core in front
// of the resonant one.
package sallenkey

import (
	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	maxFeedback = 1.98

	driveResonanceComp = 0.5
)

type core struct {
	pre         onepole.OnePole[onepole.Pass]
	low         onepole.OnePole[onepole.Pass]
	feedbackLow onepole.OnePole[onepole.Pass]
}

func (c *core) reset(mask poly.Mask) {
	c.pre.Reset(mask)
	c.low.Reset(mask)
	c.feedbackLow.Reset(mask)
}

// tick runs one sample; highMix is the weight of the high-pass pair.
func (c *core) tick(x, g, k, highMix poly.Float) poly.Float {
	one := poly.Splat(1)
	lowMix := one.Sub(highMix)

	preLow := c.pre.TickBasic(x, g)
	v := preLow.Mul(lowMix).MulAdd(onepole.Highpass(x, preLow), highMix)

	oneMinusG := one.Sub(g)
	s2 := c.low.State()
	s3 := c.feedbackLow.State()

	// alpha0 = 1 / (1 - k*g*(1-g))
	alpha0 := one.Div(one.Sub(k.Mul(g).Mul(oneMinusG)))
	y := g.Mul(v).Sub(g.Mul(k).Mul(oneMinusG).Mul(s3)).MulAdd(oneMinusG, s2).Mul(alpha0)

	u := v.MulAdd(k.Mul(oneMinusG), y.Sub(s3))
	u = poly.Tanh(u)

	y = c.low.TickBasic(u, g)
	c.feedbackLow.TickBasic(y, g)

	return y.Mul(lowMix).MulAdd(u.Sub(y), highMix)
}

// Filter is a polyphonic Sallen-Key style filter.
type Filter struct {
	sampleRate float64
	style      synth.Style

	cutoff   synth.Cutoff
	feedback synth.Ramp
	drive    synth.Ramp
	highMix  synth.Ramp

	cores [2]core
}

// New constructs a Sallen-Key filter.
func New(sampleRate float64) (*Filter, error) {
	if err := synth.CheckSampleRate("sallenkey", sampleRate); err != nil {
		return nil, err
	}

	return &Filter{
		sampleRate: sampleRate,
		cutoff:     synth.NewCutoff(),
		feedback:   synth.NewRamp(),
		drive:      synth.NewRamp(),
		highMix:    synth.NewRamp(),
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelAnalog }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. State is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("sallenkey", sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) {
	for i := range f.cores {
		f.cores[i].reset(mask)
	}

	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	f.highMix.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// Feedback maps a resonance percent to the loop gain with an ease-out curve.
func Feedback(percent poly.Float) poly.Float {
	inv := poly.Splat(1).Sub(percent.Clamp(0, 1))
	return poly.Splat(1).Sub(inv.Mul(inv)).Scale(maxFeedback)
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	k := Feedback(state.ResonancePercent)
	f.feedback.SetTarget(k)

	comp := poly.Splat(1).MulAdd(k, poly.Splat(driveResonanceComp))
	f.drive.SetTarget(state.Drive.Div(comp))

	f.highMix.SetTarget(state.PassBlend.Scale(0.5))
}

// ProcessWithInput implements synth.Filter.
func (f *Filter) ProcessWithInput(in, out []poly.Float) {
	n := len(in)
	if n == 0 {
		return
	}

	_ = out[n-1]

	f.cutoff.Begin(n)
	k, dk := f.feedback.Begin(n)
	drive, dDrive := f.drive.Begin(n)
	highMix, dHighMix := f.highMix.Begin(n)

	cascade := f.style == synth.Style24Db
	var zero poly.Float

	for i, x := range in {
		k = k.Add(dk)
		drive = drive.Add(dDrive)
		highMix = highMix.Add(dHighMix)

		g := synth.CutoffCoefficient(f.cutoff.Next(i), f.sampleRate)
		x = x.Mul(drive)
		if cascade {
			x = f.cores[1].tick(x, g, zero, highMix)
		}

		y := f.cores[0].tick(x, g, k, highMix)
		poly.CheckFinite("sallenkey", y)
		out[i] = y
	}

	f.cutoff.End()
}

// Drive returns the compensated input drive of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the feedback k of the last block.
func (f *Filter) Resonance() poly.Float { return f.feedback.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }
