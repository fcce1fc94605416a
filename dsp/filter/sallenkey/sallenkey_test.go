package sallenkey

import (
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
	assert.ErrorIs(t, err, synth.ErrSampleRate)

	f, err := New(sampleRate)
	require.NoError(t, err)
	assert.Equal(t, synth.ModelAnalog, f.Model())
}

func TestFeedbackCurve(t *testing.T) {
	assert.Equal(t, float32(0), Feedback(poly.Splat(0))[0])
	assert.InDelta(t, maxFeedback, Feedback(poly.Splat(1))[0], 1e-6)
	assert.InDelta(t, 0.75*maxFeedback, Feedback(poly.Splat(0.5))[0], 1e-6)
}

func TestPassBlendEnds(t *testing.T) {
	for _, tc := range []struct {
		name  string
		style synth.Style
		blend float32
		want  float64
	}{
		{"low-pass passes DC", synth.Style12Db, 0, 0.01},
		{"high-pass rejects DC", synth.Style12Db, 2, 0},
		{"cascaded low-pass passes DC", synth.Style24Db, 0, 0.01},
		{"cascaded high-pass rejects DC", synth.Style24Db, 2, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFilter(t)
			state := stateFor(tc.style, 72, 0, tc.blend)

			out := testutil.Render(f, &state, testutil.DC(0.01, 32*testutil.BlockSize))
			assert.InDelta(t, tc.want, out[len(out)-1][0], 1e-4)
		})
	}
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
	for _, r := range []float32{0, 0.3, 0.6, 0.9} {
		f := newFilter(t)
		state := stateFor(synth.Style12Db, midi, r, 0)

		out := testutil.Render(f, &state, testutil.ScaledImpulse(samples, 0, height))
		gain := testutil.MagnitudeAt(testutil.Lane(out, 0), peakHz, sampleRate) / height
		require.Greaterf(t, gain, prev, "resonance %v did not raise the peak", r)
		prev = gain
	}
}

func TestFullResonanceStaysBounded(t *testing.T) {
	f := newFilter(t)
	state := stateFor(synth.Style24Db, 66, 1, 0.5)
	state.Drive = poly.Splat(10)

	out := testutil.Render(f, &state, testutil.DeterministicNoise(8, 1, 64*testutil.BlockSize))
	testutil.RequireFinite(t, out)
	assert.Less(t, testutil.PeakAbs(out), 4.0)
}

func TestFiniteUnderRandomSettings(t *testing.T) {
	testutil.RequireFiniteUnderRandomSettings(t, newFilter, synth.Style12Db, synth.Style24Db)
}

func TestLaneResetIsolation(t *testing.T) {
	testutil.RequireLaneResetIsolation(t, newFilter, stateFor(synth.Style24Db, 76, 0.7, 0.8))
}

func TestSilenceDecays(t *testing.T) {
	f := newFilter(t)
	testutil.RequireSilenceDecays(t, f, stateFor(synth.Style12Db, 64, 0.6, 0), 44100, 1e-4)
}

func TestSetupIdempotent(t *testing.T) {
	testutil.RequireSetupIdempotent(t, newFilter, stateFor(synth.Style24Db, 64, 0.5, 1))
}
