package poly

import "github.com/chewxy/math32"

// Float is a vector of Lanes float32 values.
type Float [Lanes]float32

// Splat broadcasts x into every lane.
func Splat(x float32) Float {
	var f Float
	for i := range f {
		f[i] = x
	}
	return f
}

// Load copies the first Lanes values of src. Missing lanes are zero.
func Load(src []float32) Float {
	var f Float
	copy(f[:], src)
	return f
}

// Store copies the lanes into dst and returns the number copied.
func (a Float) Store(dst []float32) int {
	return copy(dst, a[:])
}

// Add returns a + b.
func (a Float) Add(b Float) Float {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Sub returns a - b.
func (a Float) Sub(b Float) Float {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// Mul returns a * b.
func (a Float) Mul(b Float) Float {
	for i := range a {
		a[i] *= b[i]
	}
	return a
}

// Div returns a / b.
func (a Float) Div(b Float) Float {
	for i := range a {
		a[i] /= b[i]
	}
	return a
}

// Scale returns a * s.
func (a Float) Scale(s float32) Float {
	for i := range a {
		a[i] *= s
	}
	return a
}

// Neg returns -a.
func (a Float) Neg() Float {
	for i := range a {
		a[i] = -a[i]
	}
	return a
}

// MulAdd returns a + b*c.
func (a Float) MulAdd(b, c Float) Float {
	for i := range a {
		a[i] += b[i] * c[i]
	}
	return a
}

// MulSub returns a - b*c.
func (a Float) MulSub(b, c Float) Float {
	for i := range a {
		a[i] -= b[i] * c[i]
	}
	return a
}

// Min returns the lane-wise minimum of a and b.
func (a Float) Min(b Float) Float {
	for i := range a {
		if b[i] < a[i] {
			a[i] = b[i]
		}
	}
	return a
}

// Max returns the lane-wise maximum of a and b.
func (a Float) Max(b Float) Float {
	for i := range a {
		if b[i] > a[i] {
			a[i] = b[i]
		}
	}
	return a
}

// Clamp limits every lane to [lo, hi].
func (a Float) Clamp(lo, hi float32) Float {
	for i := range a {
		if a[i] < lo {
			a[i] = lo
		}
		if a[i] > hi {
			a[i] = hi
		}
	}
	return a
}

// ClampVec limits every lane to [lo[i], hi[i]].
func (a Float) ClampVec(lo, hi Float) Float {
	return a.Max(lo).Min(hi)
}

// Abs returns |a|.
func (a Float) Abs() Float {
	for i := range a {
		a[i] = math32.Abs(a[i])
	}
	return a
}

// Floor rounds every lane toward negative infinity.
func (a Float) Floor() Float {
	for i := range a {
		a[i] = math32.Floor(a[i])
	}
	return a
}

// Sqrt returns the lane-wise square root.
func (a Float) Sqrt() Float {
	for i := range a {
		a[i] = math32.Sqrt(a[i])
	}
	return a
}

// Recip returns 1/a.
func (a Float) Recip() Float {
	for i := range a {
		a[i] = 1 / a[i]
	}
	return a
}

// ToInt truncates every lane toward zero.
func (a Float) ToInt() Int {
	var r Int
	for i := range a {
		r[i] = uint32(int32(a[i]))
	}
	return r
}

// Equal compares lanes for equality.
func (a Float) Equal(b Float) Mask {
	var m Mask
	for i := range a {
		m[i] = boolMask(a[i] == b[i])
	}
	return m
}

// NotEqual compares lanes for inequality.
func (a Float) NotEqual(b Float) Mask {
	return a.Equal(b).Not()
}

// GreaterThan reports a > b per lane.
func (a Float) GreaterThan(b Float) Mask {
	var m Mask
	for i := range a {
		m[i] = boolMask(a[i] > b[i])
	}
	return m
}

// GreaterThanOrEqual reports a >= b per lane.
func (a Float) GreaterThanOrEqual(b Float) Mask {
	var m Mask
	for i := range a {
		m[i] = boolMask(a[i] >= b[i])
	}
	return m
}

// LessThan reports a < b per lane.
func (a Float) LessThan(b Float) Mask {
	return b.GreaterThan(a)
}

// LessThanOrEqual reports a <= b per lane.
func (a Float) LessThanOrEqual(b Float) Mask {
	return b.GreaterThanOrEqual(a)
}

// Sum adds all lanes. It is meant for control-rate aggregation.
func (a Float) Sum() float32 {
	return kernels().Sum(a[:])
}

// Average returns the mean of all lanes.
func (a Float) Average() float32 {
	return a.Sum() / Lanes
}

// SwapStereo exchanges the two channels of every voice.
func (a Float) SwapStereo() Float {
	var r Float
	for i := range a {
		r[i] = a[i^1]
	}
	return r
}

// SwapVoices exchanges neighbouring voice pairs.
func (a Float) SwapVoices() Float {
	var r Float
	for i := range a {
		r[i] = a[i^2]
	}
	return r
}

// Voice broadcasts the two channels of voice v into every voice slot.
func (a Float) Voice(v int) Float {
	var r Float
	for i := range r {
		r[i] = a[2*v+i%2]
	}
	return r
}

// MaskLoad selects whenTrue in lanes where mask is set and whenFalse elsewhere.
func MaskLoad(whenFalse, whenTrue Float, mask Mask) Float {
	for i := range whenFalse {
		if mask[i] != 0 {
			whenFalse[i] = whenTrue[i]
		}
	}
	return whenFalse
}

// Interpolate returns from + (to-from)*t.
func Interpolate(from, to, t Float) Float {
	return from.MulAdd(to.Sub(from), t)
}
