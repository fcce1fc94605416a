package onepole_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/filter/onepole"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

func ExampleOnePole() {
	var stage onepole.OnePole[onepole.Pass]

	g := onepole.Normalize(poly.Splat(onepole.ComputeCoefficient(1000, 44100)))

	var y poly.Float
	for range 2000 {
		y = stage.TickBasic(poly.Splat(0.5), g)
	}

	fmt.Printf("%.3f\n", y[0])

	// Output:
	// 0.500
}
