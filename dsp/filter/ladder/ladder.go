package ladder

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/filter/internal/stagemix"
	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	defaultMaxFeedback = 4.0

	minMaxFeedback = 0.5
	maxMaxFeedback = 4.0

	// driveResonanceComp scales how much feedback lowers the input drive.
	driveResonanceComp = 0.25
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	maxFeedback float64
}

// WithMaxFeedback sets the loop gain reached at full resonance, in
// [0.5, 4]. At 4 the linearized ladder sits exactly on its
// self-oscillation boundary.
func WithMaxFeedback(k float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(k, minMaxFeedback, maxMaxFeedback, "max feedback"); err != nil {
			return err
		}

		cfg.maxFeedback = k

		return nil
	}
}

// State contains the integrator state of the four stages.
type State struct {
	Stage [4]poly.Float
}

// Filter is a polyphonic 4-stage ladder.
type Filter struct {
	sampleRate  float64
	maxFeedback float32
	style       synth.Style

	cutoff   synth.Cutoff
	feedback synth.Ramp
	drive    synth.Ramp
	mix      stagemix.Ramp

	stages [4]onepole.OnePole[onepole.Pass]
}

// New constructs a ladder filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := synth.CheckSampleRate("ladder", sampleRate); err != nil {
		return nil, err
	}

	cfg := config{maxFeedback: defaultMaxFeedback}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Filter{
		sampleRate:  sampleRate,
		maxFeedback: float32(cfg.maxFeedback),
		cutoff:      synth.NewCutoff(),
		feedback:    synth.NewRamp(),
		drive:       synth.NewRamp(),
		mix:         stagemix.NewRamp(),
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelLadder }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. State is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("ladder", sampleRate); err != nil {
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

	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	f.mix.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// State returns a copy of the stage states.
func (f *Filter) State() State {
	var s State
	for i := range f.stages {
		s.Stage[i] = f.stages[i].State()
	}
	return s
}

// Feedback maps a resonance percent to the loop gain k with a raised
// cosine, so the last part of the range is spent close to self-oscillation.
func (f *Filter) Feedback(percent poly.Float) poly.Float {
	k := percent.Clamp(0, 1)
	for i, r := range k {
		k[i] = f.maxFeedback * (0.5 - 0.5*math32.Cos(math32.Pi*r))
	}
	return k
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	k := f.Feedback(state.ResonancePercent)
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

	one := poly.Splat(1)

	for i, x := range in {
		k = k.Add(dk)
		drive = drive.Add(dDrive)
		mix.Add(&dMix)

		g := synth.CutoffCoefficient(f.cutoff.Next(i), f.sampleRate)

		// y4 = g^4*u + sum, where sum collects the stage states.
		sum := poly.Float{}
		gain := one
		for s := 3; s >= 0; s-- {
			sum = sum.MulAdd(gain, f.stages[s].State().Mul(one.Sub(g)))
			gain = gain.Mul(g)
		}

		u := x.Mul(drive).Sub(k.Mul(sum)).Div(one.MulAdd(k, gain))
		u = poly.AlgebraicSat(u)

		var taps stagemix.Vector
		taps[0] = u
		for s := range f.stages {
			taps[s+1] = f.stages[s].TickBasic(taps[s], g)
		}

		y := mix.Apply(&taps)
		poly.CheckFinite("ladder", y)
		out[i] = y
	}

	f.cutoff.End()
}

// Drive returns the compensated input drive of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the loop gain k of the last block.
func (f *Filter) Resonance() poly.Float { return f.feedback.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }

// StageMix returns the output weights of the last block.
func (f *Filter) StageMix() stagemix.Vector { return f.mix.Current() }

func validateFiniteRange(value, min, max float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("ladder: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("ladder: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}
