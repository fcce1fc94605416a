package interp

// Float is the set of sample types the kernels accept.
type Float interface {
	~float32 | ~float64
}

// Linear2 interpolates between x0 and x1 at t in [0,1].
func Linear2[T Float](t, x0, x1 T) T {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4[T Float](t, xm1, x0, x1, x2 T) T {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// CatmullWeights returns the tap weights for xm1, x0, x1, x2 such that
// w[0]*xm1 + w[1]*x0 + w[2]*x1 + w[3]*x2 == Hermite4(t, xm1, x0, x1, x2).
// The weights always sum to 1.
func CatmullWeights[T Float](t T) [4]T {
	t2 := t * t
	t3 := t2 * t
	return [4]T{
		0.5 * (-t3 + 2*t2 - t),
		0.5 * (3*t3 - 5*t2 + 2),
		0.5 * (-3*t3 + 4*t2 + t),
		0.5 * (t3 - t2),
	}
}
