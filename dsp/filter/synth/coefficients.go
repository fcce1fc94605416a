package synth

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/lookup"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	// MinNyquistMult caps every cutoff at this fraction of the sample rate.
	MinNyquistMult = 0.45

	// DefaultMaxBlockSize is the largest block a voice renders at once.
	DefaultMaxBlockSize = 128

	lookupResolution = 2048
	lookupDomain     = 0.5
	maxWarp          = 0.499 * math.Pi
)

var (
	coefficientLookup = sync.OnceValue(func() *lookup.OneDim {
		return mustLookup(func(ratio float64) float64 {
			d := math.Pi * ratio
			return math.Tan(math.Min(maxWarp, d/(d+1)))
		})
	})

	svfCoefficientLookup = sync.OnceValue(func() *lookup.OneDim {
		return mustLookup(func(ratio float64) float64 {
			return math.Tan(math.Min(maxWarp, math.Pi*ratio))
		})
	})
)

func mustLookup(fn func(float64) float64) *lookup.OneDim {
	l, err := lookup.NewOneDim(fn, lookupResolution, lookupDomain)
	if err != nil {
		panic(err)
	}
	return l
}

// CoefficientLookup maps a cutoff ratio f/fs to the one-pole prewarp
// tan(d/(1+d)), d = pi*f/fs. It is built on first use and shared read-only.
func CoefficientLookup() *lookup.OneDim { return coefficientLookup() }

// SvfCoefficientLookup maps a cutoff ratio f/fs to the bilinear prewarp
// tan(pi*f/fs).
func SvfCoefficientLookup() *lookup.OneDim { return svfCoefficientLookup() }

// CutoffRatio converts midi cutoffs to f/fs, clamped to [0, MinNyquistMult].
func CutoffRatio(midi poly.Float, sampleRate float64) poly.Float {
	freq := poly.MidiToFrequency(midi.Min(poly.Splat(MaxMidi)))
	return freq.Scale(float32(1/sampleRate)).Clamp(0, MinNyquistMult)
}

// CutoffCoefficient returns the normalized one-pole coefficient G = g/(1+g)
// for a midi cutoff.
func CutoffCoefficient(midi poly.Float, sampleRate float64) poly.Float {
	g := coefficientLookup().CubicLookup(CutoffRatio(midi, sampleRate))
	return g.Div(g.Add(poly.Splat(1)))
}

// ResonanceFrequency returns the frequency in Hz at which a one-pole cascade
// driven by CutoffCoefficient resonates for the given cutoff ratio.
func ResonanceFrequency(ratio, sampleRate float64) float64 {
	d := math.Pi * ratio
	return sampleRate / math.Pi * d / (d + 1)
}
