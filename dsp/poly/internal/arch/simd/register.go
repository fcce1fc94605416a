package simd

import (
	"github.com/cwbudde/algo-synth/dsp/poly/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/tphakala/simd/f32"
)

func init() {
	for _, level := range []cpu.SIMDLevel{cpu.SIMDSSE2, cpu.SIMDNEON} {
		registry.Global.Register(registry.OpEntry{
			Name:      "simd-" + level.String(),
			SIMDLevel: level,
			Priority:  10,
			Sum:       f32.Sum,
			Scale:     f32.Scale,
			Add:       add,
		})
	}
}

// add is a 4x-unrolled scalar kernel; the vector package has no in-place add.
func add(dst, src []float32) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]

	i := 0
	for ; i+3 < n; i += 4 {
		dst[i] += src[i]
		dst[i+1] += src[i+1]
		dst[i+2] += src[i+2]
		dst[i+3] += src[i+3]
	}

	for ; i < n; i++ {
		dst[i] += src[i]
	}
}
