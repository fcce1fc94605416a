// Package comb provides a polyphonic feedback comb and flanger filter.
//
// The delay period follows the cutoff: a cutoff of f Hz gives a period of
// sampleRate/f samples, read from a circular delay memory with cubic
// interpolation. A pair of one-pole shelves sits in the feedback path: the
// pass blend cuts highs below 1 and lows above 1 and is transparent at 1.
//
// Feedback styles:
//   - Comb: the input plus the filtered echo is both written and output.
//   - PositiveFlange: reads at half the period and adds the echo to the dry
//     signal.
//   - NegativeFlange: as PositiveFlange with the echo subtracted.
package comb

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/delay"
	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Feedback styles. They reuse the first three style indices.
const (
	Comb           = synth.Style12Db
	PositiveFlange = synth.Style24Db
	NegativeFlange = synth.StyleNotchPassSwap
)

const (
	defaultMaxPeriod = 8192
	minMaxPeriod     = 16
	maxMaxPeriod     = 1 << 20

	// MinPeriod is the shortest delay in samples.
	MinPeriod = 2
	// periodHeadroom keeps the interpolated read inside the memory.
	periodHeadroom = 5

	maxFeedback = 0.99

	// driveResonanceComp scales how much feedback lowers the input drive.
	driveResonanceComp = 0.5

	// shelfOffset places the shelves above and below the comb frequency, in semitones.
	shelfOffset = 24
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	maxPeriod int
}

// WithMaxPeriod sets the longest delay in samples, which bounds the lowest
// comb frequency at sampleRate/(maxPeriod-5).
func WithMaxPeriod(samples int) Option {
	return func(cfg *config) error {
		if samples < minMaxPeriod || samples > maxMaxPeriod {
			return fmt.Errorf("comb: max period must be in [%d, %d]: %d", minMaxPeriod, maxMaxPeriod, samples)
		}

		cfg.maxPeriod = samples

		return nil
	}
}

// Filter is a polyphonic feedback comb.
type Filter struct {
	sampleRate float64
	maxPeriod  int
	style      synth.Style

	cutoff   synth.Cutoff
	feedback synth.Ramp
	drive    synth.Ramp
	highGain synth.Ramp
	lowGain  synth.Ramp

	memory  *delay.Memory
	highCut onepole.OnePole[onepole.Pass]
	lowCut  onepole.OnePole[onepole.Pass]
	period  poly.Float
}

// New constructs a comb filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := synth.CheckSampleRate("comb", sampleRate); err != nil {
		return nil, err
	}

	cfg := config{maxPeriod: defaultMaxPeriod}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	memory, err := delay.New(cfg.maxPeriod)
	if err != nil {
		return nil, fmt.Errorf("comb: %w", err)
	}

	return &Filter{
		sampleRate: sampleRate,
		maxPeriod:  cfg.maxPeriod,
		cutoff:     synth.NewCutoff(),
		feedback:   synth.NewRamp(),
		drive:      synth.NewRamp(),
		highGain:   synth.NewRamp(),
		lowGain:    synth.NewRamp(),
		memory:     memory,
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelComb }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. The delay memory is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("comb", sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// MaxPeriod returns the longest delay in samples.
func (f *Filter) MaxPeriod() int { return f.maxPeriod }

// Reset zeroes the masked lanes, including their delay history.
func (f *Filter) Reset(mask poly.Mask) {
	f.memory.Clear(mask)
	f.highCut.Reset(mask)
	f.lowCut.Reset(mask)

	f.cutoff.Reset(mask)
	f.feedback.Reset(mask)
	f.drive.Reset(mask)
	f.highGain.Reset(mask)
	f.lowGain.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// FeedbackGain maps a resonance percent to the loop gain with a square root
// curve.
func FeedbackGain(percent poly.Float) poly.Float {
	return percent.Clamp(0, 1).Sqrt().Scale(maxFeedback)
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	feedback := FeedbackGain(state.ResonancePercent)
	f.feedback.SetTarget(feedback)
	comp := poly.Splat(1).MulAdd(feedback, poly.Splat(driveResonanceComp))
	f.drive.SetTarget(state.Drive.Div(comp))

	f.highGain.SetTarget(state.PassBlend.Clamp(0, 1))
	f.lowGain.SetTarget(poly.Splat(synth.MaxPassBlend).Sub(state.PassBlend).Clamp(0, 1))
}

// Period converts midi cutoffs to delay periods in samples, clamped into
// [MinPeriod, maxPeriod-5].
func (f *Filter) Period(midi poly.Float) poly.Float {
	freq := synth.CutoffRatio(midi, f.sampleRate)
	var period poly.Float
	for i, r := range freq {
		period[i] = 1 / math32.Max(r, 1e-9)
	}
	return period.Clamp(MinPeriod, float32(f.maxPeriod-periodHeadroom))
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
	highGain, dHighGain := f.highGain.Begin(n)
	lowGain, dLowGain := f.lowGain.Begin(n)

	shelf := poly.Splat(shelfOffset)
	flange := f.style == PositiveFlange || f.style == NegativeFlange

	for i, x := range in {
		feedback = feedback.Add(dFeedback)
		drive = drive.Add(dDrive)
		highGain = highGain.Add(dHighGain)
		lowGain = lowGain.Add(dLowGain)

		midi := f.cutoff.Next(i)
		f.period = f.Period(midi)
		readPeriod := f.period
		if flange {
			readPeriod = readPeriod.Scale(0.5).Max(poly.Splat(1))
		}

		echo := f.memory.Get(readPeriod)

		// High shelf cut, then low shelf cut. Both are identity at unity gain.
		gHigh := synth.CutoffCoefficient(midi.Add(shelf), f.sampleRate)
		low := f.highCut.TickBasic(echo, gHigh)
		echo = low.MulAdd(highGain, echo.Sub(low))

		gLow := synth.CutoffCoefficient(midi.Sub(shelf), f.sampleRate)
		low = f.lowCut.TickBasic(echo, gLow)
		echo = echo.Sub(low).MulAdd(lowGain, low)

		x = x.Mul(drive)

		var y poly.Float
		switch f.style {
		case PositiveFlange:
			f.memory.Push(x.MulAdd(feedback, echo))
			y = x.Add(echo)
		case NegativeFlange:
			f.memory.Push(x.Sub(feedback.Mul(echo)))
			y = x.Sub(echo)
		default:
			y = x.MulAdd(feedback, echo)
			f.memory.Push(y)
		}

		poly.CheckFinite("comb", y)
		out[i] = y
	}

	f.cutoff.End()
}

// Drive returns the input gain of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the feedback gain of the last block.
func (f *Filter) Resonance() poly.Float { return f.feedback.Current() }

// Feedback is an alias of Resonance.
func (f *Filter) Feedback() poly.Float { return f.feedback.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }

// CurrentPeriod returns the delay period of the last rendered sample.
func (f *Filter) CurrentPeriod() poly.Float { return f.period }
