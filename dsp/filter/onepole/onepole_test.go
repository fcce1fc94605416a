package onepole

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/poly"
)

const sampleRate = 44100

func coefficientFor(cutoffHz float32) poly.Float {
	return Normalize(poly.Splat(ComputeCoefficient(cutoffHz, sampleRate)))
}

func TestComputeCoefficient(t *testing.T) {
	if got := ComputeCoefficient(0, sampleRate); got != 0 {
		t.Fatalf("ComputeCoefficient(0) = %v, want 0", got)
	}

	d := math.Pi * 1000.0 / sampleRate
	want := math.Tan(d / (1 + d))
	got := float64(ComputeCoefficient(1000, sampleRate))
	if math.Abs(got-want) > 1e-5 {
		t.Fatalf("ComputeCoefficient(1000) = %v, want %v", got, want)
	}

	prev := float32(0)
	for hz := float32(100); hz < 0.45*sampleRate; hz *= 1.5 {
		g := ComputeCoefficient(hz, sampleRate)
		if !(g > prev) || math.IsInf(float64(g), 0) {
			t.Fatalf("coefficient not increasing at %v Hz: %v <= %v", hz, g, prev)
		}
		prev = g
	}
}

func TestTickBasicDCGain(t *testing.T) {
	var p OnePole[Pass]
	g := coefficientFor(500)
	one := poly.Splat(1)

	var out poly.Float
	for range 4000 {
		out = p.TickBasic(one, g)
	}

	for l, v := range out {
		if math.Abs(float64(v)-1) > 1e-4 {
			t.Fatalf("lane %d: DC output %v, want 1", l, v)
		}
	}
}

func TestHighpassAndAllpassAtDC(t *testing.T) {
	var p OnePole[Pass]
	g := coefficientFor(2000)
	one := poly.Splat(1)

	var lp poly.Float
	for range 2000 {
		lp = p.TickBasic(one, g)
	}

	hp := Highpass(one, lp)
	ap := Allpass(one, lp)
	if math.Abs(float64(hp[0])) > 1e-4 {
		t.Fatalf("high-pass DC = %v, want 0", hp[0])
	}
	if math.Abs(float64(ap[0])-1) > 1e-4 {
		t.Fatalf("all-pass DC = %v, want 1", ap[0])
	}
}

func TestTickSaturates(t *testing.T) {
	var p OnePole[Tanh]
	g := coefficientFor(8000)
	big := poly.Splat(50)

	for range 200 {
		out := p.Tick(big, g)
		for l, v := range out {
			if v > 1 || v < -1 {
				t.Fatalf("lane %d: saturated output %v outside [-1, 1]", l, v)
			}
		}
	}
}

func TestTickMatchesBasicWithPass(t *testing.T) {
	var a, b OnePole[Pass]
	g := coefficientFor(1200)

	for i := range 64 {
		x := poly.Splat(float32(math.Sin(float64(i) * 0.3)))
		if ya, yb := a.Tick(x, g), b.TickBasic(x, g); ya != yb {
			t.Fatalf("sample %d: Tick = %v, TickBasic = %v", i, ya, yb)
		}
	}
}

func TestResetMaskedLanesOnly(t *testing.T) {
	var p OnePole[Pass]
	g := coefficientFor(300)

	for range 32 {
		p.TickBasic(poly.Splat(1), g)
	}

	before := p.State()
	p.Reset(poly.LaneMask(0))
	after := p.State()

	if after[0] != 0 || p.Current()[0] != 0 {
		t.Fatalf("lane 0 not reset: state %v current %v", after[0], p.Current()[0])
	}
	for l := 1; l < poly.Lanes; l++ {
		if after[l] != before[l] {
			t.Fatalf("lane %d disturbed: %v -> %v", l, before[l], after[l])
		}
	}
}
