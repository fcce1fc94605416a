package poly

// Int is a vector of Lanes uint32 values.
type Int [Lanes]uint32

// SplatInt broadcasts x into every lane.
func SplatInt(x uint32) Int {
	var r Int
	for i := range r {
		r[i] = x
	}
	return r
}

// Add returns a + b.
func (a Int) Add(b Int) Int {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Sub returns a - b.
func (a Int) Sub(b Int) Int {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// And returns the bitwise a & b.
func (a Int) And(b Int) Int {
	for i := range a {
		a[i] &= b[i]
	}
	return a
}

// Or returns the bitwise a | b.
func (a Int) Or(b Int) Int {
	for i := range a {
		a[i] |= b[i]
	}
	return a
}

// Equal compares lanes for equality.
func (a Int) Equal(b Int) Mask {
	var m Mask
	for i := range a {
		m[i] = boolMask(a[i] == b[i])
	}
	return m
}

// GreaterThan reports a > b per lane (unsigned).
func (a Int) GreaterThan(b Int) Mask {
	var m Mask
	for i := range a {
		m[i] = boolMask(a[i] > b[i])
	}
	return m
}

// ToFloat converts every lane to float32.
func (a Int) ToFloat() Float {
	var f Float
	for i := range a {
		f[i] = float32(a[i])
	}
	return f
}

// Sum adds all lanes.
func (a Int) Sum() uint32 {
	var s uint32
	for _, v := range a {
		s += v
	}
	return s
}

// MaskLoadInt selects whenTrue in lanes where mask is set and whenFalse elsewhere.
func MaskLoadInt(whenFalse, whenTrue Int, mask Mask) Int {
	for i := range whenFalse {
		if mask[i] != 0 {
			whenFalse[i] = whenTrue[i]
		}
	}
	return whenFalse
}
