package formant

import (
	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/filter/svf"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// NumFormants is the number of band-pass filters per vowel.
const NumFormants = 4

// Vowel layouts of the four interpolation corners, selected by the style.
const (
	AOIE = synth.Style12Db
	AIUO = synth.Style24Db
)

// Formant is one resonance of a vowel.
type Formant struct {
	Midi      float32 // center as a midi note
	Resonance float32 // svf resonance percent
	GainDb    float32
}

// Vowel is a set of formants ordered by frequency.
type Vowel [NumFormants]Formant

// Layout places four vowels on the corners of the x/y plane in the order
// (0,0), (1,0), (0,1), (1,1).
type Layout [4]Vowel

// Bandwidths in Hz and the level of each formant.
var (
	bandwidths = [NumFormants]float32{50, 75, 100, 150}
	gainsDb    = [NumFormants]float32{0, -3, -6, -18}
)

// Formant frequencies in Hz. f1-f3 after Wells, f4 after Hillenbrand et al.
var (
	vowelA = newVowel(710, 1100, 2540, 3687) // bard
	vowelE = newVowel(569, 1965, 2636, 3677) // bed
	vowelI = newVowel(285, 2373, 3088, 3657) // bead
	vowelO = newVowel(599, 891, 2605, 3486)  // born
	vowelU = newVowel(309, 939, 2320, 3357)  // food
)

var layouts = map[synth.Style]Layout{
	AOIE: {vowelA, vowelO, vowelI, vowelE},
	AIUO: {vowelA, vowelI, vowelU, vowelO},
}

func newVowel(freqs ...float32) Vowel {
	var v Vowel
	for i := range v {
		v[i] = Formant{
			Midi:      12 * math32.Log2(freqs[i]/poly.Midi0Frequency),
			Resonance: svf.PercentForQ(freqs[i] / bandwidths[i]),
			GainDb:    gainsDb[i],
		}
	}
	return v
}

// LayoutFor returns the corner vowels of a style. Unknown styles use AOIE.
func LayoutFor(style synth.Style) Layout {
	if l, ok := layouts[style]; ok {
		return l
	}
	return layouts[AOIE]
}

// At interpolates the layout bilinearly at (x, y), both clamped to [0, 1].
// Centers interpolate in the midi domain and gains in dB.
func (l Layout) At(x, y float32) Vowel {
	x = max(0, min(x, 1))
	y = max(0, min(y, 1))

	w := [4]float32{(1 - x) * (1 - y), x * (1 - y), (1 - x) * y, x * y}

	var v Vowel
	for i := range v {
		for corner, weight := range w {
			f := l[corner][i]
			v[i].Midi += weight * f.Midi
			v[i].Resonance += weight * f.Resonance
			v[i].GainDb += weight * f.GainDb
		}
	}
	return v
}
