package poly

// Mask holds all-ones or all-zeros per lane.
type Mask [Lanes]uint32

const laneOn = ^uint32(0)

// FullMask has every lane set.
var FullMask = func() Mask {
	var m Mask
	for i := range m {
		m[i] = laneOn
	}
	return m
}()

// LaneMask returns a mask with only the given lanes set.
func LaneMask(lanes ...int) Mask {
	var m Mask
	for _, l := range lanes {
		if l >= 0 && l < Lanes {
			m[l] = laneOn
		}
	}
	return m
}

// VoiceMask returns a mask covering both channels of voice v.
func VoiceMask(v int) Mask {
	return LaneMask(2*v, 2*v+1)
}

// Any reports whether at least one lane is set.
func (m Mask) Any() bool {
	var acc uint32
	for _, v := range m {
		acc |= v
	}
	return acc != 0
}

// All reports whether every lane is set.
func (m Mask) All() bool {
	acc := laneOn
	for _, v := range m {
		acc &= v
	}
	return acc == laneOn
}

// IsSet reports whether lane i is set.
func (m Mask) IsSet(i int) bool {
	return m[i] != 0
}

// And returns m & o.
func (m Mask) And(o Mask) Mask {
	for i := range m {
		m[i] &= o[i]
	}
	return m
}

// Or returns m | o.
func (m Mask) Or(o Mask) Mask {
	for i := range m {
		m[i] |= o[i]
	}
	return m
}

// AndNot returns m &^ o.
func (m Mask) AndNot(o Mask) Mask {
	for i := range m {
		m[i] &^= o[i]
	}
	return m
}

// Not inverts every lane.
func (m Mask) Not() Mask {
	for i := range m {
		m[i] = ^m[i]
	}
	return m
}

func boolMask(b bool) uint32 {
	if b {
		return laneOn
	}
	return 0
}
