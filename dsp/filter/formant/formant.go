// Package formant provides a polyphonic vowel filter made of four parallel
// state-variable band-passes.
//
// Four vowels sit on the corners of a plane addressed by the interpolate x
// and y controls. The band centers, resonances and gains follow the
// bilinear interpolation of the corner vowels per lane. Transpose shifts
// every center by the given number of semitones. The cutoff is not used.
package formant

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	maxBlockSize int
}

// WithMaxBlockSize sets the largest block processed in one pass.
func WithMaxBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 || n > 1<<16 {
			return fmt.Errorf("formant: max block size must be in [1, 65536]: %d", n)
		}

		cfg.maxBlockSize = n

		return nil
	}
}

// Filter is a polyphonic formant filter.
type Filter struct {
	sampleRate float64
	manager    *Manager
	bands      [NumFormants]Band
	drive      poly.Float
}

// New constructs a formant filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := synth.CheckSampleRate("formant", sampleRate); err != nil {
		return nil, err
	}

	cfg := config{maxBlockSize: synth.DefaultMaxBlockSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	manager, err := NewManager(sampleRate, cfg.maxBlockSize)
	if err != nil {
		return nil, err
	}

	return &Filter{sampleRate: sampleRate, manager: manager}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelFormant }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate of every band.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("formant", sampleRate); err != nil {
		return err
	}

	if err := f.manager.SetSampleRate(sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// Manager returns the band filters.
func (f *Filter) Manager() *Manager { return f.manager }

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) { f.manager.Reset(mask) }

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// Bands interpolates the vowel layout of state per lane.
func Bands(state *synth.State) [NumFormants]Band {
	layout := LayoutFor(state.Style)
	transpose := state.Transpose.Clamp(-synth.MaxTranspose, synth.MaxTranspose)

	var bands [NumFormants]Band
	for lane := range poly.Lanes {
		v := layout.At(state.InterpolateX[lane], state.InterpolateY[lane])
		for i, formant := range v {
			bands[i].Midi[lane] = formant.Midi + transpose[lane]
			bands[i].Resonance[lane] = formant.Resonance
			bands[i].Gain[lane] = formant.GainDb
		}
	}

	for i := range bands {
		bands[i].Midi = bands[i].Midi.Clamp(0, synth.MaxMidi)
		bands[i].Gain = poly.DbToMagnitude(bands[i].Gain)
	}

	return bands
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.bands = Bands(state)
	f.drive = state.Drive

	targets := f.bands
	for i := range targets {
		targets[i].Gain = targets[i].Gain.Mul(f.drive)
	}
	f.manager.Setup(targets)
}

// ProcessWithInput implements synth.Filter.
func (f *Filter) ProcessWithInput(in, out []poly.Float) {
	f.manager.Process(in, out)
}

// Centers returns the band centers of the last setup, in midi notes.
func (f *Filter) Centers() [NumFormants]poly.Float {
	var c [NumFormants]poly.Float
	for i, b := range f.bands {
		c[i] = b.Midi
	}
	return c
}

// Drive returns the input gain of the last setup.
func (f *Filter) Drive() poly.Float { return f.drive }

// Resonance returns the resonance percent of the first formant.
func (f *Filter) Resonance() poly.Float { return f.bands[0].Resonance }

// MidiCutoff returns the center of the first formant.
func (f *Filter) MidiCutoff() poly.Float { return f.bands[0].Midi }
