package testutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// BlockSize is the block length the filter helpers render with.
const BlockSize = synth.DefaultMaxBlockSize

// NewFilterFunc builds a fresh filter for one property check.
type NewFilterFunc func(t *testing.T) synth.Filter

// Controls returns value controls set from s, with lane-varying values kept.
func Controls(s synth.State) *synth.ValueControls {
	var c synth.ValueControls
	c.Values[synth.InputMidiCutoff] = s.MidiCutoff
	c.Buffers[synth.InputMidiCutoff] = s.MidiCutoffBuffer
	c.Values[synth.InputResonance] = s.ResonancePercent
	c.Values[synth.InputDrive] = poly.MagnitudeToDb(s.Drive)
	c.Values[synth.InputGain] = s.Gain
	c.Values[synth.InputStyle] = poly.Splat(float32(s.Style))
	c.Values[synth.InputPassBlend] = s.PassBlend
	c.Values[synth.InputInterpolateX] = s.InterpolateX
	c.Values[synth.InputInterpolateY] = s.InterpolateY
	c.Values[synth.InputTranspose] = s.Transpose
	return &c
}

// RandomControls draws valid, lane-varying control values.
func RandomControls(rng *rand.Rand, style synth.Style) *synth.ValueControls {
	var c synth.ValueControls
	for l := range poly.Lanes {
		c.Values[synth.InputMidiCutoff][l] = rng.Float32() * synth.MaxMidi
		c.Values[synth.InputResonance][l] = rng.Float32()
		c.Values[synth.InputDrive][l] = rng.Float32() * 20
		c.Values[synth.InputGain][l] = rng.Float32()*48 - 24
		c.Values[synth.InputPassBlend][l] = rng.Float32() * synth.MaxPassBlend
		c.Values[synth.InputInterpolateX][l] = rng.Float32()
		c.Values[synth.InputInterpolateY][l] = rng.Float32()
		c.Values[synth.InputTranspose][l] = rng.Float32()*48 - 24
	}
	c.Values[synth.InputStyle] = poly.Splat(float32(style))

	if rng.Intn(2) == 0 {
		buf := make([]poly.Float, BlockSize)
		start := c.Values[synth.InputMidiCutoff]
		for i := range buf {
			for l := range buf[i] {
				buf[i][l] = max(0, min(synth.MaxMidi, start[l]+float32(i)*(rng.Float32()-0.5)))
			}
		}
		c.Buffers[synth.InputMidiCutoff] = buf
	}
	return &c
}

// RandomInput returns one block of noise, an impulse or a full-scale step.
func RandomInput(rng *rand.Rand) []poly.Float {
	switch rng.Intn(3) {
	case 0:
		return Impulse(BlockSize, rng.Intn(BlockSize))
	case 1:
		return DC(float32(rng.Intn(2)*2-1), BlockSize)
	default:
		return DeterministicNoise(rng.Int63(), 1, BlockSize)
	}
}

// Render sets f up from state once per block and processes in.
func Render(f synth.Filter, state *synth.State, in []poly.Float) []poly.Float {
	out := make([]poly.Float, len(in))
	for start := 0; start < len(in); start += BlockSize {
		end := min(start+BlockSize, len(in))
		f.SetupFilter(state)
		f.ProcessWithInput(in[start:end], out[start:end])
	}
	return out
}

// RequireFiniteUnderRandomSettings renders randomized parameter and input
// sequences for each style and fails on any NaN or Inf.
func RequireFiniteUnderRandomSettings(t *testing.T, newFilter NewFilterFunc, styles ...synth.Style) {
	t.Helper()

	rng := rand.New(rand.NewSource(7))
	for _, style := range styles {
		f := newFilter(t)
		var state synth.State
		for block := range 40 {
			c := RandomControls(rng, style)
			in := RandomInput(rng)
			out := make([]poly.Float, len(in))

			trig := synth.Trigger{}
			if block%9 == 8 {
				trig = synth.NoteOn(poly.VoiceMask(0), rng.Intn(BlockSize))
			}
			synth.Process(f, &state, c, trig, in, out)

			for i, v := range out {
				require.Truef(t, poly.IsFinite(v), "style %v block %d sample %d: %v", style, block, i, v)
			}
		}
	}
}

// RequireLaneResetIsolation checks that resetting lane 0 leaves every other
// lane bit-identical and makes lane 0 behave like a fresh filter.
func RequireLaneResetIsolation(t *testing.T, newFilter NewFilterFunc, state synth.State) {
	t.Helper()

	reset, untouched, fresh := newFilter(t), newFilter(t), newFilter(t)

	warmup := DeterministicNoise(11, 0.5, 3*BlockSize)
	Render(reset, &state, warmup)
	Render(untouched, &state, warmup)

	reset.Reset(poly.LaneMask(0))

	in := DeterministicNoise(12, 0.5, 2*BlockSize)
	got := Render(reset, &state, in)
	want := Render(untouched, &state, in)
	clean := Render(fresh, &state, in)

	for i := range got {
		for l := 1; l < poly.Lanes; l++ {
			require.Equalf(t, want[i][l], got[i][l], "sample %d lane %d disturbed by reset of lane 0", i, l)
		}
		require.Equalf(t, clean[i][0], got[i][0], "sample %d: reset lane differs from a fresh filter", i)
	}
}

// RequireSilenceDecays feeds noise and then silence and requires the tail to
// fall below limit.
func RequireSilenceDecays(t *testing.T, f synth.Filter, state synth.State, tail int, limit float64) {
	t.Helper()

	Render(f, &state, DeterministicNoise(21, 1, 4*BlockSize))
	out := Render(f, &state, make([]poly.Float, tail))

	last := out[len(out)-BlockSize:]
	RequireFinite(t, out)
	require.Lessf(t, PeakAbs(last), limit, "output did not decay after %d silent samples", tail)
}

// RequireSetupIdempotent checks that a second SetupFilter with the same
// state does not change the rendered block.
func RequireSetupIdempotent(t *testing.T, newFilter NewFilterFunc, state synth.State) {
	t.Helper()

	once, twice := newFilter(t), newFilter(t)
	in := DeterministicNoise(31, 0.5, BlockSize)

	Render(once, &state, in)
	Render(twice, &state, in)

	a := make([]poly.Float, BlockSize)
	b := make([]poly.Float, BlockSize)
	once.SetupFilter(&state)
	once.ProcessWithInput(in, a)
	twice.SetupFilter(&state)
	twice.SetupFilter(&state)
	twice.ProcessWithInput(in, b)

	require.Equal(t, a, b)
}
