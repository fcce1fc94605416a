package ladder

import (
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
	_, err := New(-1)
	assert.ErrorIs(t, err, synth.ErrSampleRate)

	_, err = New(sampleRate, WithMaxFeedback(5))
	assert.Error(t, err)

	_, err = New(sampleRate, WithMaxFeedback(math.NaN()))
	assert.Error(t, err)

	f, err := New(sampleRate, nil, WithMaxFeedback(3))
	require.NoError(t, err)
	assert.InDelta(t, 3, f.Feedback(poly.Splat(1))[0], 1e-6)
	assert.Equal(t, synth.ModelLadder, f.Model())
}

func TestFeedbackCurve(t *testing.T) {
	f, err := New(sampleRate)
	require.NoError(t, err)

	assert.InDelta(t, 0, f.Feedback(poly.Splat(0))[0], 1e-7)
	assert.InDelta(t, 2, f.Feedback(poly.Splat(0.5))[0], 1e-5)
	assert.InDelta(t, 4, f.Feedback(poly.Splat(1))[0], 1e-5)
	assert.InDelta(t, 4, f.Feedback(poly.Splat(7))[0], 1e-5)
}

func TestLowPassDCGain(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style24Db, 72, 0, 0)

	out := testutil.Render(f, &state, testutil.DC(0.01, 16*testutil.BlockSize))
	assert.InDelta(t, 0.01, out[len(out)-1][0], 1e-4)
}

func TestResonancePeakGrowsWithResonance(t *testing.T) {
	const (
		midi    = 69
		height  = 1e-3
		samples = 1 << 14
	)

	ratio := float64(synth.CutoffRatio(poly.Splat(midi), sampleRate)[0])
	peakHz := synth.ResonanceFrequency(ratio, sampleRate)

	prev := 0.0
	for _, r := range []float32{0, 0.2, 0.4, 0.6, 0.8} {
		f := newFilter(t)
		state := stateFor(synth.Style24Db, midi, r, 0)

		out := testutil.Render(f, &state, testutil.ScaledImpulse(samples, 0, height))
		testutil.RequireFinite(t, out)

		gain := testutil.MagnitudeAt(testutil.Lane(out, 0), peakHz, sampleRate) / height
		require.Greaterf(t, gain, prev, "resonance %v did not raise the peak", r)
		prev = gain
	}
}

func TestFullResonanceStaysBounded(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style24Db, 60, 1, 0)
	state.Drive = poly.Splat(10)

	out := testutil.Render(f, &state, testutil.Impulse(sampleRate, 0))
	testutil.RequireFinite(t, out)
	assert.Less(t, testutil.PeakAbs(out), 2.0)
}

func TestStyleOutputs(t *testing.T) {
	// At DC every stage equals the input, so the output is the weight sum.
	for _, tc := range []struct {
		style synth.Style
		blend float32
		want  float64
	}{
		{synth.Style12Db, 0, 1},
		{synth.Style12Db, 2, 0},
		{synth.Style24Db, 1, 0},
		{synth.StyleNotchPassSwap, 1, 1},
		{synth.StyleBandPeakNotch, 1, 1},
	} {
		f := newFilter(t)
		state := stateFor(tc.style, 80, 0, tc.blend)

		out := testutil.Render(f, &state, testutil.DC(0.01, 16*testutil.BlockSize))
		assert.InDeltaf(t, 0.01*tc.want, out[len(out)-1][0], 1e-4, "%v blend %v", tc.style, tc.blend)
	}
}

func TestStateAndAccessors(t *testing.T) {
	f, err := New(sampleRate)
	require.NoError(t, err)

	state := stateFor(synth.Style12Db, 64, 0.5, 0)
	testutil.Render(f, &state, testutil.DC(0.5, 32))

	assert.NotEqual(t, poly.Float{}, f.State().Stage[0])
	assert.InDelta(t, 1/(1+0.25*2), f.Drive()[0], 1e-5)
	assert.InDelta(t, 2, f.Resonance()[0], 1e-5)
	assert.InDelta(t, 64, f.MidiCutoff()[0], 1e-5)
	assert.Equal(t, float32(1), f.StageMix()[2][0])

	f.HardReset()
	assert.Equal(t, State{}, f.State())
}

func TestFiniteUnderRandomSettings(t *testing.T) {
	testutil.RequireFiniteUnderRandomSettings(t, newFilter,
		synth.Style12Db, synth.Style24Db, synth.StyleNotchPassSwap,
		synth.StyleDualNotchBand, synth.StyleBandPeakNotch)
}

func TestLaneResetIsolation(t *testing.T) {
	testutil.RequireLaneResetIsolation(t, newFilter, stateFor(synth.Style24Db, 70, 0.9, 0.3))
}

func TestSilenceDecays(t *testing.T) {
	f := newFilter(t)
	testutil.RequireSilenceDecays(t, f, stateFor(synth.Style24Db, 60, 0.8, 0), 44100, 1e-4)
}

func TestSetupIdempotent(t *testing.T) {
	testutil.RequireSetupIdempotent(t, newFilter, stateFor(synth.StyleDualNotchBand, 90, 0.5, 1.5))
}
