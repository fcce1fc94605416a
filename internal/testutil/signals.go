package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/poly"
)

// DeterministicSine generates a sine wave broadcast to every lane.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []poly.Float {
	out := make([]poly.Float, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = poly.Splat(float32(amplitude * math.Sin(step*float64(i))))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
// Every lane carries an independent sequence.
func DeterministicNoise(seed int64, amplitude float64, length int) []poly.Float {
	out := make([]poly.Float, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		for l := range out[i] {
			out[i][l] = float32((rng.Float64()*2 - 1) * amplitude)
		}
	}
	return out
}

// Impulse generates a unit impulse at the given position on every lane.
func Impulse(length, pos int) []poly.Float {
	return ScaledImpulse(length, pos, 1)
}

// ScaledImpulse generates an impulse of the given height at pos on every lane.
func ScaledImpulse(length, pos int, height float32) []poly.Float {
	out := make([]poly.Float, length)
	if pos >= 0 && pos < length {
		out[pos] = poly.Splat(height)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float32, length int) []poly.Float {
	out := make([]poly.Float, length)
	for i := range out {
		out[i] = poly.Splat(value)
	}
	return out
}

// Lane extracts a single lane of buf as float64 samples.
func Lane(buf []poly.Float, lane int) []float64 {
	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = float64(v[lane])
	}
	return out
}

// MagnitudeAt evaluates the DFT magnitude of x at freqHz.
func MagnitudeAt(x []float64, freqHz, sampleRate float64) float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	var re, im float64
	for n, v := range x {
		re += v * math.Cos(w*float64(n))
		im -= v * math.Sin(w*float64(n))
	}
	return math.Hypot(re, im)
}
