package formant

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

func stateAt(style synth.Style, x, y float32) synth.State {
	s := synth.DefaultState()
	s.Style = style
	s.InterpolateX = poly.Splat(x)
	s.InterpolateY = poly.Splat(y)
	return s
}

func TestNewValidation(t *testing.T) {
	_, err := New(math.NaN())
	assert.ErrorIs(t, err, synth.ErrSampleRate)

	_, err = New(sampleRate, WithMaxBlockSize(0))
	assert.Error(t, err)

	f, err := New(sampleRate, WithMaxBlockSize(32))
	require.NoError(t, err)
	assert.Equal(t, 32, f.Manager().MaxBlockSize())
	assert.Equal(t, synth.ModelFormant, f.Model())

	_, err = NewManager(sampleRate, 0)
	assert.Error(t, err)
}

func TestLayoutCorners(t *testing.T) {
	for _, style := range []synth.Style{AOIE, AIUO} {
		layout := LayoutFor(style)
		assert.Equal(t, layout[0], layout.At(0, 0))
		assert.Equal(t, layout[1], layout.At(1, 0))
		assert.Equal(t, layout[2], layout.At(0, 1))
		assert.Equal(t, layout[3], layout.At(1, 1))
	}

	assert.Equal(t, LayoutFor(AOIE), LayoutFor(synth.StyleShelving))
	assert.InDelta(t, 12*math.Log2(710/poly.Midi0Frequency), LayoutFor(AOIE)[0][0].Midi, 1e-3)
}

func TestVowelMorphIsContinuous(t *testing.T) {
	f, err := New(sampleRate)
	require.NoError(t, err)

	start := stateAt(AOIE, 0, 0)
	f.SetupFilter(&start)
	a := f.Centers()

	end := stateAt(AOIE, 1, 1)
	f.SetupFilter(&end)
	e := f.Centers()

	for i := range NumFormants {
		assert.NotEqualf(t, a[i][0], e[i][0], "formant %d", i)
	}

	const steps = 64
	prev := a
	for step := 1; step <= steps; step++ {
		v := float32(step) / steps
		state := stateAt(AOIE, v, v)
		f.SetupFilter(&state)
		cur := f.Centers()

		for i := range NumFormants {
			require.Lessf(t, math.Abs(float64(cur[i][0]-prev[i][0])), 1.0, "formant %d jumps at step %d", i, step)
		}
		prev = cur
	}

	for i := range NumFormants {
		assert.InDelta(t, e[i][0], prev[i][0], 1e-4)
	}
}

func TestBandsFollowCenters(t *testing.T) {
	f, err := New(sampleRate)
	require.NoError(t, err)

	state := stateAt(AIUO, 0.3, 0.8)
	testutil.Render(f, &state, testutil.DeterministicNoise(4, 0.1, 2*testutil.BlockSize))

	centers := f.Centers()
	for i := range NumFormants {
		assert.InDeltaf(t, centers[i][0], f.Manager().Band(i).MidiCutoff()[0], 1e-3, "formant %d", i)
		assert.Equal(t, synth.StyleBandPeakNotch, f.Manager().Band(i).Style())
	}
}

func TestTransposeShiftsCenters(t *testing.T) {
	base := stateAt(AOIE, 0.4, 0.6)
	shifted := base
	shifted.Transpose = poly.Splat(7)

	b := Bands(&base)
	s := Bands(&shifted)
	for i := range NumFormants {
		assert.InDelta(t, b[i].Midi[0]+7, s[i].Midi[0], 1e-4)
		assert.Equal(t, b[i].Resonance, s[i].Resonance)
	}
}

func TestLaneVaryingVowels(t *testing.T) {
	state := stateAt(AOIE, 0, 0)
	state.InterpolateX[poly.Lanes-1] = 1
	state.InterpolateY[poly.Lanes-1] = 1

	bands := Bands(&state)
	layout := LayoutFor(AOIE)
	assert.InDelta(t, layout[0][1].Midi, bands[1].Midi[0], 1e-4)
	assert.InDelta(t, layout[3][1].Midi, bands[1].Midi[poly.Lanes-1], 1e-4)
}

func TestFirstFormantPeak(t *testing.T) {
	const (
		height  = 1e-3
		samples = 1 << 14
	)

	f := newFilter(t)
	state := stateAt(AOIE, 0, 0)
	out := testutil.Render(f, &state, testutil.ScaledImpulse(samples, 0, height))
	lane := testutil.Lane(out, 0)

	peak := testutil.MagnitudeAt(lane, 710, sampleRate) / height
	assert.InDelta(t, 1, peak, 0.15)

	below := testutil.MagnitudeAt(lane, 200, sampleRate) / height
	assert.Less(t, below, 0.2)
}

func TestLongBlocksAreSplit(t *testing.T) {
	short, err := New(sampleRate, WithMaxBlockSize(16))
	require.NoError(t, err)
	long := newFilter(t)

	state := stateAt(AOIE, 0.5, 0.5)
	in := testutil.DeterministicNoise(9, 0.2, 4*testutil.BlockSize)

	// Settle the ramps so both filters hold constant targets.
	testutil.Render(short, &state, make([]poly.Float, testutil.BlockSize))
	testutil.Render(long, &state, make([]poly.Float, testutil.BlockSize))

	a := testutil.Render(short, &state, in)
	b := testutil.Render(long, &state, in)
	testutil.RequireFinite(t, a)

	diff, err := testutil.MaxAbsDiff(testutil.Lane(a, 0), testutil.Lane(b, 0))
	require.NoError(t, err)
	assert.Less(t, diff, 1e-5)
}

func TestFiniteUnderRandomSettings(t *testing.T) {
	testutil.RequireFiniteUnderRandomSettings(t, newFilter, AOIE, AIUO)
}

func TestLaneResetIsolation(t *testing.T) {
	testutil.RequireLaneResetIsolation(t, newFilter, stateAt(AIUO, 0.2, 0.9))
}

func TestSilenceDecays(t *testing.T) {
	f := newFilter(t)
	testutil.RequireSilenceDecays(t, f, stateAt(AOIE, 0.5, 0.5), 44100, 1e-4)
}

func TestSetupIdempotent(t *testing.T) {
	testutil.RequireSetupIdempotent(t, newFilter, stateAt(AOIE, 0.7, 0.1))
}

func TestProcessInPlace(t *testing.T) {
	a, b := newFilter(t), newFilter(t)
	state := stateAt(AIUO, 0.6, 0.4)

	in := testutil.DeterministicNoise(10, 0.3, testutil.BlockSize)
	want := make([]poly.Float, len(in))
	a.SetupFilter(&state)
	a.ProcessWithInput(in, want)

	buf := append([]poly.Float(nil), in...)
	b.SetupFilter(&state)
	b.ProcessWithInput(buf, buf)

	assert.Equal(t, want, buf)
}
