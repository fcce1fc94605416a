package poly

import (
	"sync"
	"unsafe"

	_ "github.com/cwbudde/algo-synth/dsp/poly/internal/arch/generic" // register generic kernels
	"github.com/cwbudde/algo-synth/dsp/poly/internal/arch/registry"
	_ "github.com/cwbudde/algo-synth/dsp/poly/internal/arch/simd" // register SIMD kernels
	"github.com/cwbudde/algo-vecmath/cpu"
)

var (
	kernelEntry    *registry.OpEntry
	kernelInitOnce sync.Once
)

func kernels() *registry.OpEntry {
	kernelInitOnce.Do(initKernels)
	return kernelEntry
}

func initKernels() {
	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("poly: no lane kernel registered (missing generic fallback?)")
	}

	if entry.Sum == nil || entry.Scale == nil || entry.Add == nil {
		panic("poly: selected kernel " + entry.Name + " is incomplete")
	}

	kernelEntry = entry
}

// KernelName reports which block kernel implementation is active.
func KernelName() string {
	return kernels().Name
}

// Flatten views buf as a contiguous float32 slice without copying.
func Flatten(buf []Float) []float32 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), len(buf)*Lanes)
}

// ScaleBlock writes src*scale into dst. Both slices must have the same length.
func ScaleBlock(dst, src []Float, scale float32) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	kernels().Scale(Flatten(dst[:n]), Flatten(src), scale)
}

// AddBlock accumulates src into dst. Both slices must have the same length.
func AddBlock(dst, src []Float) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	kernels().Add(Flatten(dst[:n]), Flatten(src))
}

// MixBlock writes dry*(1-mix) + wet*mix into dst. scratch must be at least
// as long as dry and is clobbered. dst may alias dry or wet.
func MixBlock(dst, dry, wet, scratch []Float, mix float32) {
	n := len(dry)
	if n == 0 {
		return
	}

	_ = wet[n-1]
	_ = scratch[n-1]

	ScaleBlock(scratch[:n], dry, 1-mix)
	ScaleBlock(dst[:n], wet[:n], mix)
	AddBlock(dst[:n], scratch[:n])
}

// Clear zeroes buf.
func Clear(buf []Float) {
	for i := range buf {
		buf[i] = Float{}
	}
}
