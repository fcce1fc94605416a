package phaser

import (
	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	// PeakStages is the number of all-pass stages per tap group.
	PeakStages = 4
	// Groups is the number of tap groups.
	Groups = 3
	// Stages is the total cascade length.
	Stages = Groups * PeakStages

	maxFeedback = 0.95

	// driveResonanceComp scales how much feedback lowers the input drive.
	driveResonanceComp = 0.5

	// Feedback cut frequencies of the clean option, in midi notes.
	cleanLowMidi  = 16
	cleanHighMidi = 135
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	clean bool
}

// WithClean removes DC and content near Nyquist from the feedback path.
func WithClean() Option {
	return func(cfg *config) error {
		cfg.clean = true
		return nil
	}
}

// Filter is a polyphonic all-pass phaser.
type Filter struct {
	sampleRate float64
	clean      bool
	invert     bool

	cutoff    synth.Cutoff
	feedback  synth.Ramp
	drive     synth.Ramp
	peakRamps [Groups]synth.Ramp

	stages  [Stages]onepole.OnePole[onepole.Pass]
	lowCut  onepole.OnePole[onepole.Pass]
	highCut onepole.OnePole[onepole.Pass]
	last    poly.Float

	lowCutCoeff  poly.Float
	highCutCoeff poly.Float
}

// New constructs a phaser.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := synth.CheckSampleRate("phaser", sampleRate); err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		clean:    cfg.clean,
		cutoff:   synth.NewCutoff(),
		feedback: synth.NewRamp(),
		drive:    synth.NewRamp(),
	}
	for i := range f.peakRamps {
		f.peakRamps[i] = synth.NewRamp()
	}

	f.setSampleRate(sampleRate)

	return f, nil
}

func (f *Filter) setSampleRate(sampleRate float64) {
	f.sampleRate = sampleRate
	f.lowCutCoeff = synth.CutoffCoefficient(poly.Splat(cleanLowMidi), sampleRate)
	f.highCutCoeff = synth.CutoffCoefficient(poly.Splat(cleanHighMidi), sampleRate)
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelPhase }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate and the clean cut coefficients.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("phaser", sampleRate); err != nil {
		return err
	}

	f.setSampleRate(sampleRate)

	return nil
}

// Clean reports whether the feedback cut pair is active.
func (f *Filter) Clean() bool { return f.clean }

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) {
	for i := range f.stages {
		f.stages[i].Reset(mask)
	}

	f.lowCut.Reset(mask)
	f.highCut.Reset(mask)
	f.last = poly.MaskLoad(f.last, poly.Float{}, mask)

	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	for i := range f.peakRamps {
		f.peakRamps[i].Reset(mask)
	}
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// Feedback maps a resonance percent to the loop gain.
func Feedback(percent poly.Float) poly.Float {
	return percent.Clamp(0, 1).Scale(maxFeedback)
}

// PeakWeights returns the tap weights for a pass blend in [0, 2]. They sum
// to one.
func PeakWeights(blend poly.Float) [Groups]poly.Float {
	b := blend.Clamp(0, synth.MaxPassBlend)
	one := poly.Splat(1)
	var zero poly.Float

	return [Groups]poly.Float{
		one.Sub(b).Max(zero),
		one.Sub(b.Sub(one).Abs()),
		b.Sub(one).Max(zero),
	}
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.invert = state.Style != 0
	f.cutoff.Setup(state)

	feedback := Feedback(state.ResonancePercent)
	f.feedback.SetTarget(feedback)
	comp := poly.Splat(1).MulAdd(feedback, poly.Splat(driveResonanceComp))
	f.drive.SetTarget(state.Drive.Div(comp))

	weights := PeakWeights(state.PassBlend)
	for i := range f.peakRamps {
		f.peakRamps[i].SetTarget(weights[i])
	}
}

// ProcessWithInput implements synth.Filter.
func (f *Filter) ProcessWithInput(in, out []poly.Float) {
	n := len(in)
	if n == 0 {
		return
	}

	_ = out[n-1]

	f.cutoff.Begin(n)
	feedback, dFeedback := f.feedback.Begin(n)
	drive, dDrive := f.drive.Begin(n)

	var peaks, dPeaks [Groups]poly.Float
	for i := range f.peakRamps {
		peaks[i], dPeaks[i] = f.peakRamps[i].Begin(n)
	}

	half := poly.Splat(0.5)

	for i, x := range in {
		feedback = feedback.Add(dFeedback)
		drive = drive.Add(dDrive)
		for j := range peaks {
			peaks[j] = peaks[j].Add(dPeaks[j])
		}

		g := synth.CutoffCoefficient(f.cutoff.Next(i), f.sampleRate)

		fb := f.last
		if f.clean {
			fb = fb.Sub(f.lowCut.TickBasic(fb, f.lowCutCoeff))
			fb = f.highCut.TickBasic(fb, f.highCutCoeff)
		}

		x = x.Mul(drive)
		u := poly.Tanh(x.MulAdd(feedback, fb))

		var sum poly.Float
		for group := range Groups {
			for stage := group * PeakStages; stage < (group+1)*PeakStages; stage++ {
				lp := f.stages[stage].TickBasic(u, g)
				u = onepole.Allpass(u, lp)
			}
			sum = sum.MulAdd(peaks[group], u)
		}

		if f.invert {
			sum = sum.Neg()
		}

		f.last = sum
		y := x.Add(sum).Mul(half)

		poly.CheckFinite("phaser", y)
		out[i] = y
	}

	f.cutoff.End()
}

// Drive returns the input gain of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the feedback gain of the last block.
func (f *Filter) Resonance() poly.Float { return f.feedback.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }
