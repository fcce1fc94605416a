// Package diode provides a polyphonic diode-ladder style filter.
//
// The driven input is soft clipped, passed through a pair of one-pole
// high-pass stages whose cutoff follows the pass blend, and fed into a
// 4-stage cascade. The resonance feedback is high-pass filtered before it
// is subtracted, which thins the low end as resonance rises. The loop is
// solved instantaneously and the solved input is saturated.
package diode

import (
	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	maxFeedback = 4.2

	// maxHighPassOffset is how far below the cutoff the pre high-pass sits
	// at pass blend 0, in semitones. At blend 2 it reaches the cutoff.
	maxHighPassOffset = 48

	// feedbackHighPassOffset places the feedback high-pass below the cutoff.
	feedbackHighPassOffset = 24

	driveResonanceComp = 0.25
)

// Filter is a polyphonic diode-ladder style filter.
type Filter struct {
	sampleRate float64
	style      synth.Style

	cutoff         synth.Cutoff
	feedback       synth.Ramp
	drive          synth.Ramp
	highPassOffset synth.Ramp

	preHighPass [2]onepole.OnePole[onepole.Pass]
	stages      [4]onepole.OnePole[onepole.Pass]
	feedbackLow onepole.OnePole[onepole.Pass]
}

// New constructs a diode filter.
func New(sampleRate float64) (*Filter, error) {
	if err := synth.CheckSampleRate("diode", sampleRate); err != nil {
		return nil, err
	}

	return &Filter{
		sampleRate:     sampleRate,
		cutoff:         synth.NewCutoff(),
		feedback:       synth.NewRamp(),
		drive:          synth.NewRamp(),
		highPassOffset: synth.NewRamp(),
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelDiode }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. State is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("diode", sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) {
	for i := range f.preHighPass {
		f.preHighPass[i].Reset(mask)
	}
	for i := range f.stages {
		f.stages[i].Reset(mask)
	}
	f.feedbackLow.Reset(mask)

	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	f.highPassOffset.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	k := state.ResonancePercent.Clamp(0, 1)
	for i, r := range k {
		k[i] = maxFeedback * math32.Sin(0.5*math32.Pi*r)
	}
	f.feedback.SetTarget(k)

	comp := poly.Splat(1).MulAdd(k, poly.Splat(driveResonanceComp))
	f.drive.SetTarget(state.Drive.Div(comp))

	offset := poly.Splat(1).Sub(state.PassBlend.Scale(0.5)).Scale(maxHighPassOffset)
	f.highPassOffset.SetTarget(offset)
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
	offset, dOffset := f.highPassOffset.Begin(n)

	one := poly.Splat(1)
	feedbackOffset := poly.Splat(feedbackHighPassOffset)
	twoPole := f.style == synth.Style12Db

	for i, x := range in {
		k = k.Add(dk)
		drive = drive.Add(dDrive)
		offset = offset.Add(dOffset)

		midi := f.cutoff.Next(i)
		g := synth.CutoffCoefficient(midi, f.sampleRate)
		gHigh := synth.CutoffCoefficient(midi.Sub(offset), f.sampleRate)
		gFeedback := synth.CutoffCoefficient(midi.Sub(feedbackOffset), f.sampleRate)

		x = poly.Tanh(x.Mul(drive))
		for s := range f.preHighPass {
			x = onepole.Highpass(x, f.preHighPass[s].TickBasic(x, gHigh))
		}

		sum := poly.Float{}
		gain := one
		for s := 3; s >= 0; s-- {
			sum = sum.MulAdd(gain, f.stages[s].State().Mul(one.Sub(g)))
			gain = gain.Mul(g)
		}

		// The feedback is y4 minus its low-passed copy.
		c := k.Mul(one.Sub(gFeedback))
		u := x.Sub(c.Mul(sum.Sub(f.feedbackLow.State()))).Div(one.MulAdd(c, gain))
		u = poly.AlgebraicSat(u)

		y1 := f.stages[0].TickBasic(u, g)
		y2 := f.stages[1].TickBasic(y1, g)
		y3 := f.stages[2].TickBasic(y2, g)
		y4 := f.stages[3].TickBasic(y3, g)
		f.feedbackLow.TickBasic(y4, gFeedback)

		y := y4
		if twoPole {
			y = y2
		}

		poly.CheckFinite("diode", y)
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

// HighPassMidi returns the pre high-pass cutoff reached by the last block.
func (f *Filter) HighPassMidi() poly.Float {
	return f.cutoff.Current().Sub(f.highPassOffset.Current())
}
