package comb

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func BenchmarkProcessWithInput(b *testing.B) {
	for _, style := range []synth.Style{Comb, PositiveFlange, NegativeFlange} {
		b.Run(style.String(), func(b *testing.B) {
			f, err := New(48000)
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			state := stateFor(style, 55, 0.8, 0.6)
			in := testutil.DeterministicNoise(1, 0.5, synth.DefaultMaxBlockSize)
			out := make([]poly.Float, len(in))

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				f.SetupFilter(&state)
				f.ProcessWithInput(in, out)
			}
		})
	}
}
