package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/poly"
)

// ErrSampleRate reports a sample rate that is not finite and positive.
var ErrSampleRate = errors.New("sample rate must be > 0 and finite")

// CheckSampleRate returns an ErrSampleRate-wrapping error prefixed with pkg.
func CheckSampleRate(pkg string, sampleRate float64) error {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return fmt.Errorf("%s: %w: %f", pkg, ErrSampleRate, sampleRate)
	}
	return nil
}

// Model selects a filter topology.
type Model int

const (
	ModelAnalog Model = iota
	ModelDirty
	ModelLadder
	ModelDigital
	ModelDiode
	ModelFormant
	ModelComb
	ModelPhase
	NumModels
)

func (m Model) String() string {
	switch m {
	case ModelAnalog:
		return "analog"
	case ModelDirty:
		return "dirty"
	case ModelLadder:
		return "ladder"
	case ModelDigital:
		return "digital"
	case ModelDiode:
		return "diode"
	case ModelFormant:
		return "formant"
	case ModelComb:
		return "comb"
	case ModelPhase:
		return "phase"
	default:
		return "unknown"
	}
}

// ParseModel returns the model whose String matches name.
func ParseModel(name string) (Model, error) {
	for m := range NumModels {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("synth: unknown model %q", name)
}

// Style selects a response shape within a topology. Topologies that only
// know some styles fall back to their closest one.
type Style int

const (
	Style12Db Style = iota
	Style24Db
	StyleNotchPassSwap
	StyleDualNotchBand
	StyleBandPeakNotch
	StyleShelving
	NumStyles
)

func (s Style) String() string {
	switch s {
	case Style12Db:
		return "12db"
	case Style24Db:
		return "24db"
	case StyleNotchPassSwap:
		return "notch_pass_swap"
	case StyleDualNotchBand:
		return "dual_notch_band"
	case StyleBandPeakNotch:
		return "band_peak_notch"
	case StyleShelving:
		return "shelving"
	default:
		return "unknown"
	}
}

// ParseStyle returns the style whose String matches name.
func ParseStyle(name string) (Style, error) {
	for s := range NumStyles {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("synth: unknown style %q", name)
}

// ClampStyle limits a raw style index to the known styles.
func ClampStyle(style int) Style {
	return Style(max(0, min(style, int(NumStyles)-1)))
}

// Filter is implemented by every polyphonic topology.
type Filter interface {
	Model() Model
	SampleRate() float64
	SetSampleRate(sampleRate float64) error

	// Reset zeroes the persistent state of the masked lanes and makes their
	// smoothed parameters jump to the next targets.
	Reset(mask poly.Mask)
	// HardReset resets every lane.
	HardReset()

	// SetupFilter recomputes all parameter targets from state. Calling it
	// twice with the same state yields the same targets.
	SetupFilter(state *State)
	// ProcessWithInput renders len(in) samples into out. out must be at
	// least as long as in and may alias it.
	ProcessWithInput(in, out []poly.Float)

	// Drive, Resonance and MidiCutoff expose the values reached by the last
	// block, for display.
	Drive() poly.Float
	Resonance() poly.Float
	MidiCutoff() poly.Float
}

// Process renders one block: it resets lanes that start a new voice, loads
// the controls into state, sets the filter up and runs it. Output samples
// before a reset lane's trigger offset are silenced.
func Process(f Filter, state *State, c Controls, trig Trigger, in, out []poly.Float) {
	reset := trig.ResetMask()
	if reset.Any() {
		f.Reset(reset)
	}

	state.LoadSettings(c)
	f.SetupFilter(state)
	f.ProcessWithInput(in, out)

	if reset.Any() {
		trig.silenceBeforeOffset(out[:len(in)], reset)
	}
}
