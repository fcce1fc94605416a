package synth

import (
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	// MaxMidi is the highest cutoff accepted, in midi notes.
	MaxMidi = 150

	minDriveDb = 0
	maxDriveDb = 20
	minGainDb  = -24
	maxGainDb  = 24

	// MaxPassBlend is the high-pass end of the pass blend range. 0 is
	// low-pass and 1 is band-pass.
	MaxPassBlend = 2

	// MaxTranspose bounds the formant transpose in semitones.
	MaxTranspose = 48
)

// Input names one control value read by LoadSettings.
type Input int

const (
	InputMidiCutoff Input = iota
	InputResonance
	InputDrive
	InputGain
	InputStyle
	InputPassBlend
	InputInterpolateX
	InputInterpolateY
	InputTranspose
	NumInputs
)

func (i Input) String() string {
	switch i {
	case InputMidiCutoff:
		return "midi_cutoff"
	case InputResonance:
		return "resonance"
	case InputDrive:
		return "drive"
	case InputGain:
		return "gain"
	case InputStyle:
		return "style"
	case InputPassBlend:
		return "pass_blend"
	case InputInterpolateX:
		return "interpolate_x"
	case InputInterpolateY:
		return "interpolate_y"
	case InputTranspose:
		return "transpose"
	default:
		return "unknown"
	}
}

// Controls supplies the decoded, already modulated control values of one
// voice block.
type Controls interface {
	// Control returns the block value of an input.
	Control(in Input) poly.Float
	// ControlBuffer returns per-sample values for an input, or nil when the
	// input only changes at block rate. The slice is borrowed for the
	// current block.
	ControlBuffer(in Input) []poly.Float
}

// State is the per-block parameter snapshot consumed by SetupFilter.
type State struct {
	MidiCutoff poly.Float

	// MidiCutoffBuffer holds one cutoff per sample. It is borrowed from the
	// modulation source, valid only for the current Process call, and may be
	// nil, in which case MidiCutoff applies to every sample.
	MidiCutoffBuffer []poly.Float

	ResonancePercent poly.Float

	// Drive is linear; DrivePercent is the same drive normalized to [0, 1].
	Drive        poly.Float
	DrivePercent poly.Float

	// Gain is in dB.
	Gain poly.Float

	Style        Style
	PassBlend    poly.Float
	InterpolateX poly.Float
	InterpolateY poly.Float
	Transpose    poly.Float
}

// LoadSettings pulls the control values and clamps each into its valid range.
// The cutoff buffer is referenced, not copied.
func (s *State) LoadSettings(c Controls) {
	s.MidiCutoff = c.Control(InputMidiCutoff).Clamp(0, MaxMidi)
	s.MidiCutoffBuffer = c.ControlBuffer(InputMidiCutoff)
	s.ResonancePercent = c.Control(InputResonance).Clamp(0, 1)

	driveDb := c.Control(InputDrive).Clamp(minDriveDb, maxDriveDb)
	s.Drive = poly.DbToMagnitude(driveDb)
	s.DrivePercent = driveDb.Scale(1.0 / (maxDriveDb - minDriveDb))

	s.Gain = c.Control(InputGain).Clamp(minGainDb, maxGainDb)
	s.Style = ClampStyle(int(c.Control(InputStyle)[0]))
	s.PassBlend = c.Control(InputPassBlend).Clamp(0, MaxPassBlend)
	s.InterpolateX = c.Control(InputInterpolateX).Clamp(0, 1)
	s.InterpolateY = c.Control(InputInterpolateY).Clamp(0, 1)
	s.Transpose = c.Control(InputTranspose).Clamp(-MaxTranspose, MaxTranspose)
}

// MidiAt returns the cutoff of sample i.
func (s *State) MidiAt(i int) poly.Float {
	if i < len(s.MidiCutoffBuffer) {
		return s.MidiCutoffBuffer[i]
	}
	return s.MidiCutoff
}

// DefaultState returns a neutral snapshot: cutoff at midi 60, no resonance,
// unity drive and a low-pass blend.
func DefaultState() State {
	return State{
		MidiCutoff: poly.Splat(60),
		Drive:      poly.Splat(1),
	}
}

// ValueControls is a Controls backed by fixed values. Inputs without an
// entry read as zero.
type ValueControls struct {
	Values  [NumInputs]poly.Float
	Buffers [NumInputs][]poly.Float
}

// Set stores a scalar broadcast to every lane.
func (v *ValueControls) Set(in Input, value float32) {
	v.Values[in] = poly.Splat(value)
}

// Control implements Controls.
func (v *ValueControls) Control(in Input) poly.Float { return v.Values[in] }

// ControlBuffer implements Controls.
func (v *ValueControls) ControlBuffer(in Input) []poly.Float { return v.Buffers[in] }
