package poly

import (
	"github.com/chewxy/math32"
	approx "github.com/meko-christian/algo-approx"
)

const (
	// Midi0Frequency is the frequency of midi note 0 in Hz.
	Midi0Frequency = 8.1757989156

	ln2  = 0.6931471805599453
	ln10 = 2.302585092994046
)

// Tanh is a rational tanh approximation that reaches exactly +-1 at |x| >= 3.
func Tanh(x Float) Float {
	for i, v := range x {
		x[i] = tanh(v)
	}
	return x
}

func tanh(v float32) float32 {
	if v > 3 {
		return 1
	}
	if v < -3 {
		return -1
	}
	v2 := v * v
	return v * (27 + v2) / (27 + 9*v2)
}

// HardTanh clips to +-1.5 and bends the result onto +-1 with a cubic knee,
// so the slope reaches zero exactly at the clip point.
func HardTanh(x Float) Float {
	for i, v := range x {
		if v > 1.5 {
			v = 1.5
		} else if v < -1.5 {
			v = -1.5
		}
		x[i] = v - v*v*v*(4.0/27.0)
	}
	return x
}

// AlgebraicSat returns x / sqrt(1 + x^2).
func AlgebraicSat(x Float) Float {
	for i, v := range x {
		x[i] = v / math32.Sqrt(1+v*v)
	}
	return x
}

// Sin returns the lane-wise sine.
func Sin(x Float) Float {
	for i, v := range x {
		x[i] = math32.Sin(v)
	}
	return x
}

// Cos returns the lane-wise cosine.
func Cos(x Float) Float {
	for i, v := range x {
		x[i] = math32.Cos(v)
	}
	return x
}

// Exp2 returns 2^x per lane.
func Exp2(x Float) Float {
	for i, v := range x {
		x[i] = math32.Exp(v * ln2)
	}
	return x
}

// MidiToFrequency converts midi note numbers to Hz.
func MidiToFrequency(midi Float) Float {
	return Exp2(midi.Scale(1.0 / 12.0)).Scale(Midi0Frequency)
}

// FrequencyToMidi converts Hz to midi note numbers. Frequencies must be > 0.
func FrequencyToMidi(freq Float) Float {
	for i, v := range freq {
		freq[i] = 12 * math32.Log(v/Midi0Frequency) / ln2
	}
	return freq
}

// DbToMagnitude converts decibels to linear magnitude. It uses a fast
// exponential and is meant for control-rate values.
func DbToMagnitude(db Float) Float {
	for i, v := range db {
		db[i] = float32(approx.FastExp(float64(v) * (ln10 / 20)))
	}
	return db
}

// MagnitudeToDb converts linear magnitude to decibels.
func MagnitudeToDb(mag Float) Float {
	for i, v := range mag {
		mag[i] = 20 * math32.Log(v) / ln10
	}
	return mag
}

// IsFinite reports whether no lane holds NaN or Inf.
func IsFinite(x Float) bool {
	for _, v := range x {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
