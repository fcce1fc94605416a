package generic

import (
	"github.com/cwbudde/algo-synth/dsp/poly/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Sum:       Sum,
		Scale:     Scale,
		Add:       Add,
	})
}

// Sum adds all values of x.
func Sum(x []float32) float32 {
	var s float32
	for _, v := range x {
		s += v
	}
	return s
}

// Scale writes src*scale into dst.
func Scale(dst, src []float32, scale float32) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, v := range src {
		dst[i] = v * scale
	}
}

// Add accumulates src into dst.
func Add(dst, src []float32) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, v := range src {
		dst[i] += v
	}
}
