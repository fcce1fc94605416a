package poly

import (
	"math"
	"testing"
)

func ramp(start, step float32) Float {
	var f Float
	for i := range f {
		f[i] = start + step*float32(i)
	}
	return f
}

func TestArithmeticIsLaneWise(t *testing.T) {
	a := ramp(1, 1)
	b := ramp(10, -2)

	sum := a.Add(b)
	diff := a.Sub(b)
	prod := a.Mul(b)
	fma := a.MulAdd(b, Splat(2))

	for i := range a {
		if sum[i] != a[i]+b[i] {
			t.Fatalf("Add lane %d: got %v want %v", i, sum[i], a[i]+b[i])
		}
		if diff[i] != a[i]-b[i] {
			t.Fatalf("Sub lane %d: got %v want %v", i, diff[i], a[i]-b[i])
		}
		if prod[i] != a[i]*b[i] {
			t.Fatalf("Mul lane %d: got %v want %v", i, prod[i], a[i]*b[i])
		}
		if fma[i] != a[i]+2*b[i] {
			t.Fatalf("MulAdd lane %d: got %v want %v", i, fma[i], a[i]+2*b[i])
		}
	}
}

func TestComparisonsProduceMasks(t *testing.T) {
	a := ramp(0, 1)
	pivot := Splat(float32(Lanes / 2))

	gt := a.GreaterThan(pivot)
	lt := a.LessThan(pivot)
	eq := a.Equal(pivot)

	for i := range a {
		wantGT := float32(i) > pivot[i]
		if gt.IsSet(i) != wantGT {
			t.Fatalf("GreaterThan lane %d: got %v want %v", i, gt.IsSet(i), wantGT)
		}
		if gt[i] != 0 && gt[i] != ^uint32(0) {
			t.Fatalf("mask lane %d is not all-ones or all-zeros: %x", i, gt[i])
		}
		if lt.IsSet(i) != (float32(i) < pivot[i]) {
			t.Fatalf("LessThan lane %d mismatch", i)
		}
		if eq.IsSet(i) != (float32(i) == pivot[i]) {
			t.Fatalf("Equal lane %d mismatch", i)
		}
	}

	if !gt.Or(lt).Or(eq).All() {
		t.Fatal("gt|lt|eq should cover every lane")
	}
	if gt.And(lt).Any() {
		t.Fatal("gt&lt should be empty")
	}
}

func TestMaskLoadSelectsPerLane(t *testing.T) {
	whenFalse := Splat(-1)
	whenTrue := ramp(5, 1)
	mask := LaneMask(1)

	got := MaskLoad(whenFalse, whenTrue, mask)
	for i := range got {
		want := float32(-1)
		if i == 1 {
			want = whenTrue[i]
		}
		if got[i] != want {
			t.Fatalf("lane %d: got %v want %v", i, got[i], want)
		}
	}

	if got := MaskLoad(whenFalse, whenTrue, FullMask); got != whenTrue {
		t.Fatalf("full mask: got %v want %v", got, whenTrue)
	}
	if got := MaskLoad(whenFalse, whenTrue, Mask{}); got != whenFalse {
		t.Fatalf("empty mask: got %v want %v", got, whenFalse)
	}
}

func TestSumAndAverage(t *testing.T) {
	a := ramp(1, 1)
	want := float32(Lanes*(Lanes+1)) / 2
	if got := a.Sum(); got != want {
		t.Fatalf("Sum: got %v want %v", got, want)
	}
	if got := a.Average(); got != want/Lanes {
		t.Fatalf("Average: got %v want %v", got, want/Lanes)
	}
}

func TestShuffles(t *testing.T) {
	a := ramp(0, 1)

	if got := a.SwapStereo().SwapStereo(); got != a {
		t.Fatalf("SwapStereo twice should be identity: %v", got)
	}
	s := a.SwapStereo()
	if s[0] != a[1] || s[1] != a[0] {
		t.Fatalf("SwapStereo: got %v", s)
	}
	v := a.SwapVoices()
	if v[0] != a[2] || v[3] != a[1] {
		t.Fatalf("SwapVoices: got %v", v)
	}
	voice1 := a.Voice(1)
	for i := range voice1 {
		if voice1[i] != a[2+i%2] {
			t.Fatalf("Voice(1) lane %d: got %v", i, voice1[i])
		}
	}
}

func TestSaturatorsAreBounded(t *testing.T) {
	for _, x := range []float32{-100, -3, -1.5, -0.5, 0, 0.25, 1, 2.9, 1e6} {
		in := Splat(x)
		for name, f := range map[string]func(Float) Float{
			"Tanh":         Tanh,
			"HardTanh":     HardTanh,
			"AlgebraicSat": AlgebraicSat,
		} {
			y := f(in)[0]
			if y < -1 || y > 1 {
				t.Fatalf("%s(%v) = %v out of [-1,1]", name, x, y)
			}
			if (x > 0 && y <= 0) || (x < 0 && y >= 0) {
				t.Fatalf("%s(%v) = %v has wrong sign", name, x, y)
			}
		}
	}

	if got := HardTanh(Splat(1.5))[0]; got != 1 {
		t.Fatalf("HardTanh(1.5) = %v, want 1", got)
	}
}

func TestTanhTracksMathTanh(t *testing.T) {
	for x := -2.5; x <= 2.5; x += 0.01 {
		got := float64(Tanh(Splat(float32(x)))[0])
		if d := math.Abs(got - math.Tanh(x)); d > 0.03 {
			t.Fatalf("Tanh(%v) = %v, math.Tanh = %v", x, got, math.Tanh(x))
		}
	}
}

func TestMidiConversions(t *testing.T) {
	f := MidiToFrequency(Splat(69))[0]
	if math.Abs(float64(f)-440) > 0.01 {
		t.Fatalf("midi 69: got %v Hz want 440", f)
	}

	m := FrequencyToMidi(Splat(261.6256))[0]
	if math.Abs(float64(m)-60) > 1e-3 {
		t.Fatalf("261.6 Hz: got midi %v want 60", m)
	}
}

func TestDbToMagnitude(t *testing.T) {
	for _, db := range []float32{-24, -6, 0, 6, 20} {
		got := float64(DbToMagnitude(Splat(db))[0])
		want := math.Pow(10, float64(db)/20)
		if math.Abs(got-want)/want > 0.05 {
			t.Fatalf("DbToMagnitude(%v) = %v, want %v", db, got, want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(ramp(0, 1)) {
		t.Fatal("finite vector reported as non-finite")
	}
	v := Splat(1)
	v[Lanes-1] = float32(math.Inf(1))
	if IsFinite(v) {
		t.Fatal("Inf lane not detected")
	}
	v[Lanes-1] = float32(math.NaN())
	if IsFinite(v) {
		t.Fatal("NaN lane not detected")
	}
}
