// Package dirty provides a polyphonic 4-stage cascade that keeps its
// nonlinear character instead of normalizing it away.
//
// Every stage saturates its integrator, and the resonance feedback is taken
// from the previous output sample instead of being solved instantaneously.
// The feedback gain is divided by a cutoff-dependent factor (see
// TuneResonance), so resonance deliberately varies with cutoff.
package dirty

import (
	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/filter/internal/stagemix"
	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	maxFeedback = 4.0

	driveResonanceComp = 0.5
	tuneAmount         = 0.5
)

// Filter is a polyphonic saturating 4-stage cascade.
type Filter struct {
	sampleRate float64
	style      synth.Style

	cutoff   synth.Cutoff
	feedback synth.Ramp
	drive    synth.Ramp
	mix      stagemix.Ramp

	stages [4]onepole.OnePole[onepole.Tanh]
	last   poly.Float
}

// New constructs a dirty filter.
func New(sampleRate float64) (*Filter, error) {
	if err := synth.CheckSampleRate("dirty", sampleRate); err != nil {
		return nil, err
	}

	return &Filter{
		sampleRate: sampleRate,
		cutoff:     synth.NewCutoff(),
		feedback:   synth.NewRamp(),
		drive:      synth.NewRamp(),
		mix:        stagemix.NewRamp(),
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelDirty }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. State is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("dirty", sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) {
	for i := range f.stages {
		f.stages[i].Reset(mask)
	}

	f.last = poly.MaskLoad(f.last, poly.Float{}, mask)
	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	f.mix.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// TuneResonance divides the feedback k by a factor that grows with the
// prewarped coefficient g. The unit-delay loop gains phase at high cutoffs,
// and this keeps it from howling there without fully compensating.
func TuneResonance(k, g poly.Float) poly.Float {
	return k.Div(poly.Splat(1).MulAdd(g.Mul(g), poly.Splat(tuneAmount)))
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	k := state.ResonancePercent.Clamp(0, 1)
	for i, r := range k {
		k[i] = maxFeedback * math32.Sqrt(r)
	}
	f.feedback.SetTarget(k)

	comp := poly.Splat(1).MulAdd(k, poly.Splat(driveResonanceComp))
	f.drive.SetTarget(state.Drive.Div(comp))

	f.mix.SetTarget(stagemix.ForStyle(f.style).Blend(state.PassBlend))
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
	mix, dMix := f.mix.Begin(n)

	lookup := synth.CoefficientLookup()

	for i, x := range in {
		k = k.Add(dk)
		drive = drive.Add(dDrive)
		mix.Add(&dMix)

		g := lookup.CubicLookup(synth.CutoffRatio(f.cutoff.Next(i), f.sampleRate))
		coefficient := onepole.Normalize(g)
		tuned := TuneResonance(k, g)

		var taps stagemix.Vector
		taps[0] = poly.Tanh(x.Mul(drive).Sub(tuned.Mul(f.last)))
		for s := range f.stages {
			taps[s+1] = f.stages[s].Tick(taps[s], coefficient)
		}
		f.last = taps[4]

		y := mix.Apply(&taps)
		poly.CheckFinite("dirty", y)
		out[i] = y
	}

	f.cutoff.End()
}

// Drive returns the compensated input drive of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the untuned feedback k of the last block.
func (f *Filter) Resonance() poly.Float { return f.feedback.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }
