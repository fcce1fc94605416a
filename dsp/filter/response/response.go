// Package response renders the frequency response of a filter for display.
//
// An Analyzer drives an offscreen filter with an impulse at a reduced sample
// rate, keeps one lane of the impulse response and transforms it with an
// FFT. The display path never touches the filters that process audio.
package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/slot"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// DefaultSampleRate is the offscreen sample rate used when no option sets one.
const DefaultSampleRate = 22050

const (
	minSize = 64
	maxSize = 1 << 18
)

// Curve is the response of one lane.
type Curve struct {
	SampleRate float64
	Impulse    []float64
	Magnitudes []float64 // bins 0..N/2
}

// Analyzer computes responses with a fixed FFT size.
type Analyzer struct {
	cfg  core.ProcessorConfig
	size int
	plan *algofft.Plan[complex128]

	in, out  []poly.Float
	spectrum []complex128
	re, im   []float64
}

// New creates an analyzer for impulse responses of size samples. size must
// be a power of two. The sample rate option sets the offscreen rate and the
// block size option the render block.
func New(size int, opts ...core.ProcessorOption) (*Analyzer, error) {
	if size < minSize || size > maxSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("response: size must be a power of two in [%d, %d]: %d", minSize, maxSize, size)
	}

	cfg := core.ApplyProcessorOptions(append([]core.ProcessorOption{core.WithSampleRate(DefaultSampleRate)}, opts...)...)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1

	return &Analyzer{
		cfg:      cfg,
		size:     size,
		plan:     plan,
		in:       core.EnsureLen[poly.Float](nil, size),
		out:      core.EnsureLen[poly.Float](nil, size),
		spectrum: make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
	}, nil
}

// Size returns the impulse response length.
func (a *Analyzer) Size() int { return a.size }

// SampleRate returns the offscreen sample rate.
func (a *Analyzer) SampleRate() float64 { return a.cfg.SampleRate }

// Model builds an offscreen filter of model and measures it.
func (a *Analyzer) Model(model synth.Model, state *synth.State, lane int) (Curve, error) {
	f := slot.NewFilter(model, a.cfg.SampleRate)
	if f == nil {
		return Curve{}, fmt.Errorf("response: %w: %s", slot.ErrUnknownModel, model)
	}
	return a.Measure(f, state, lane)
}

// Measure hard-resets f, renders its impulse response from state and
// transforms lane. The cutoff buffer of state is ignored.
func (a *Analyzer) Measure(f synth.Filter, state *synth.State, lane int) (Curve, error) {
	if lane < 0 || lane >= poly.Lanes {
		return Curve{}, fmt.Errorf("response: lane must be in [0, %d): %d", poly.Lanes, lane)
	}

	if f.SampleRate() != a.cfg.SampleRate {
		if err := f.SetSampleRate(a.cfg.SampleRate); err != nil {
			return Curve{}, fmt.Errorf("response: %w", err)
		}
	}

	s := *state
	s.MidiCutoffBuffer = nil

	f.HardReset()
	core.Zero(a.in)
	a.in[0] = poly.Splat(1)

	for start := 0; start < a.size; start += a.cfg.BlockSize {
		end := min(start+a.cfg.BlockSize, a.size)
		f.SetupFilter(&s)
		f.ProcessWithInput(a.in[start:end], a.out[start:end])
	}

	curve := Curve{
		SampleRate: a.cfg.SampleRate,
		Impulse:    make([]float64, a.size),
		Magnitudes: make([]float64, len(a.re)),
	}

	for i, v := range a.out {
		curve.Impulse[i] = float64(v[lane])
		a.spectrum[i] = complex(curve.Impulse[i], 0)
	}

	if err := a.plan.Forward(a.spectrum, a.spectrum); err != nil {
		return Curve{}, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.spectrum[k])
		a.im[k] = imag(a.spectrum[k])
	}

	vecmath.Magnitude(curve.Magnitudes, a.re, a.im)

	return curve, nil
}

// Frequency returns the center of bin k in Hz.
func (c Curve) Frequency(k int) float64 {
	return float64(k) * c.SampleRate / float64(len(c.Impulse))
}

// MagnitudeAt evaluates the transform of the impulse response at freqHz
// exactly, without bin quantization.
func (c Curve) MagnitudeAt(freqHz float64) float64 {
	w := 2 * math.Pi * freqHz / c.SampleRate
	var re, im float64
	for n, x := range c.Impulse {
		s, co := math.Sincos(w * float64(n))
		re += x * co
		im -= x * s
	}
	return math.Hypot(re, im)
}

// Peak returns the frequency and magnitude of the largest bin.
func (c Curve) Peak() (freqHz, magnitude float64) {
	if len(c.Magnitudes) == 0 {
		return 0, 0
	}

	k := floats.MaxIdx(c.Magnitudes)
	return c.Frequency(k), c.Magnitudes[k]
}

// Decibels returns the magnitudes in dB, floored at floorDb.
func (c Curve) Decibels(floorDb float64) []float64 {
	out := make([]float64, len(c.Magnitudes))
	for i, m := range c.Magnitudes {
		out[i] = max(floorDb, core.LinearToDB(m))
	}
	return out
}
