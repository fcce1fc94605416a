package svf

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

const sampleRate = 44100

func newFilter(t *testing.T) synth.Filter {
	t.Helper()
	f, err := New(sampleRate)
	require.NoError(t, err)
	return f
}

func stateFor(style synth.Style, midi, resonance, blend float32) synth.State {
	s := synth.DefaultState()
	s.Style = style
	s.MidiCutoff = poly.Splat(midi)
	s.ResonancePercent = poly.Splat(resonance)
	s.PassBlend = poly.Splat(blend)
	return s
}

func TestNewValidation(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, synth.ErrSampleRate))

	f, err := New(sampleRate, nil, WithBasic())
	require.NoError(t, err)
	assert.Equal(t, synth.ModelDigital, f.Model())
	assert.Error(t, f.SetSampleRate(math.NaN()))
	require.NoError(t, f.SetSampleRate(48000))
	assert.Equal(t, 48000.0, f.SampleRate())
}

func TestLowPassImpulseResponse(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style12Db, 60, 0, 0)

	out := testutil.Lane(testutil.Render(f, &state, testutil.Impulse(2048, 0)), 0)

	require.Greater(t, out[0], 0.0, "first sample must not be inverted")

	peak := 0
	for i, v := range out {
		require.GreaterOrEqual(t, v, -1e-9, "sample %d changed sign", i)
		if v > out[peak] {
			peak = i
		}
	}
	require.Greater(t, peak, 0)

	for i := peak + 1; i < len(out); i++ {
		require.LessOrEqualf(t, out[i], out[i-1]+1e-7, "envelope rises at sample %d", i)
	}
	assert.Less(t, out[len(out)-1], out[peak]*1e-3)
}

func TestLowPassDCGainIsUnity(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style24Db, 70, 0, 0)

	// Small enough that the inter-stage clip stays linear.
	out := testutil.Render(f, &state, testutil.DC(0.05, 8*testutil.BlockSize))
	assert.InDelta(t, 0.05, out[len(out)-1][0], 1e-4)
}

func TestHighPassRejectsDC(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style12Db, 70, 0.3, 2)

	out := testutil.Render(f, &state, testutil.DC(0.5, 16*testutil.BlockSize))
	assert.InDelta(t, 0, out[len(out)-1][0], 1e-3)
}

func TestBandPeakNotchBandHasUnityPeak(t *testing.T) {
	f, err := New(sampleRate, WithBasic())
	require.NoError(t, err)

	state := stateFor(synth.StyleBandPeakNotch, 69, 0.8, 0)
	freq := poly.MidiToFrequency(poly.Splat(69))[0]

	in := testutil.DeterministicSine(float64(freq), sampleRate, 1, 32*testutil.BlockSize)
	out := testutil.Render(f, &state, in)

	tail := out[len(out)-4*testutil.BlockSize:]
	assert.InDelta(t, 1, testutil.PeakAbs(tail), 0.02)
}

func TestShelvingGain(t *testing.T) {
	for _, tc := range []struct {
		name  string
		blend float32
		want  float64
	}{
		{"low shelf boosts DC", 0, math.Pow(10, 12.0/20)},
		{"high shelf leaves DC", 2, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFilter(t)
			state := stateFor(synth.StyleShelving, 60, 0, tc.blend)
			state.Gain = poly.Splat(12)
			state.Drive = poly.Splat(8)

			out := testutil.Render(f, &state, testutil.DC(0.1, 32*testutil.BlockSize))
			assert.InEpsilon(t, 0.1*tc.want, float64(out[len(out)-1][0]), 0.05)
		})
	}
}

func TestResonanceQ(t *testing.T) {
	q := ResonanceQ(poly.Splat(0))
	assert.Equal(t, float32(MinResonance), q[0])

	q = ResonanceQ(poly.Splat(1))
	assert.Equal(t, float32(MaxResonance), q[0])

	assert.InDelta(t, 0.5, PercentForQ(ResonanceQ(poly.Splat(0.5))[0]), 1e-5)
}

func TestDriveCompensatedByResonance(t *testing.T) {
	f, err := New(sampleRate)
	require.NoError(t, err)

	state := stateFor(synth.Style12Db, 60, 1, 0)
	state.Drive = poly.Splat(2)
	testutil.Render(f, &state, make([]poly.Float, 4))

	want := 2 * math.Sqrt(MinResonance/MaxResonance)
	assert.InDelta(t, want, f.Drive()[0], 1e-5)
	assert.InDelta(t, MaxResonance, f.Resonance()[0], 1e-4)
	assert.InDelta(t, 60, f.MidiCutoff()[0], 1e-5)
}

func TestFiniteUnderRandomSettings(t *testing.T) {
	testutil.RequireFiniteUnderRandomSettings(t, newFilter,
		synth.Style12Db, synth.Style24Db, synth.StyleNotchPassSwap,
		synth.StyleDualNotchBand, synth.StyleBandPeakNotch, synth.StyleShelving)
}

func TestLaneResetIsolation(t *testing.T) {
	for _, style := range []synth.Style{synth.Style12Db, synth.Style24Db, synth.StyleDualNotchBand} {
		testutil.RequireLaneResetIsolation(t, newFilter, stateFor(style, 72, 0.7, 0.6))
	}
}

func TestSilenceDecays(t *testing.T) {
	f := newFilter(t)
	testutil.RequireSilenceDecays(t, f, stateFor(synth.Style24Db, 60, 1, 1), 44100, 1e-4)
}

func TestSetupIdempotent(t *testing.T) {
	testutil.RequireSetupIdempotent(t, newFilter, stateFor(synth.StyleNotchPassSwap, 80, 0.4, 1.3))
}
