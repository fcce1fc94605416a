package svf

import (
	"github.com/chewxy/math32"

	"github.com/cwbudde/algo-synth/dsp/filter/internal/stagemix"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const (
	// MinResonance and MaxResonance bound the stage quality factor Q.
	MinResonance = 0.5
	MaxResonance = 16.0

	// dualSpread is the distance of each dual stage from the cutoff, in semitones.
	dualSpread = 12
)

// Mix taps of one stage.
const (
	tapInput = iota
	tapBand
	tapNormalBand
	tapLow
	tapHigh
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	basic bool
}

// WithBasic makes drive a plain input gain and removes the clip between
// cascaded stages.
func WithBasic() Option {
	return func(cfg *config) error {
		cfg.basic = true
		return nil
	}
}

type stage struct {
	ic1eq, ic2eq poly.Float
}

func (s *stage) reset(mask poly.Mask) {
	var zero poly.Float
	s.ic1eq = poly.MaskLoad(s.ic1eq, zero, mask)
	s.ic2eq = poly.MaskLoad(s.ic2eq, zero, mask)
}

// tick advances the stage and mixes its taps.
func (s *stage) tick(x, g, k poly.Float, mix *stagemix.Vector) poly.Float {
	one := poly.Splat(1)
	a1 := one.Div(one.Add(g.Mul(g.Add(k))))
	a2 := g.Mul(a1)
	a3 := g.Mul(a2)

	v3 := x.Sub(s.ic2eq)
	v1 := a1.Mul(s.ic1eq).MulAdd(a2, v3)
	v2 := s.ic2eq.MulAdd(a2, s.ic1eq).MulAdd(a3, v3)
	s.ic1eq = v1.Add(v1).Sub(s.ic1eq)
	s.ic2eq = v2.Add(v2).Sub(s.ic2eq)

	var taps stagemix.Vector
	taps[tapInput] = x
	taps[tapBand] = v1
	taps[tapNormalBand] = k.Mul(v1)
	taps[tapLow] = v2
	taps[tapHigh] = x.Sub(k.Mul(v1)).Sub(v2)

	return mix.Apply(&taps)
}

// Filter is a polyphonic state-variable filter.
type Filter struct {
	sampleRate float64
	basic      bool
	style      synth.Style

	cutoff    synth.Cutoff
	resonance synth.Ramp // Q
	drive     synth.Ramp
	mix       stagemix.Ramp

	stages [2]stage
}

// New constructs a state-variable filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := synth.CheckSampleRate("svf", sampleRate); err != nil {
		return nil, err
	}

	cfg := config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Filter{
		sampleRate: sampleRate,
		basic:      cfg.basic,
		cutoff:     synth.NewCutoff(),
		resonance:  synth.NewRamp(),
		drive:      synth.NewRamp(),
		mix:        stagemix.NewRamp(),
	}, nil
}

// Model implements synth.Filter.
func (f *Filter) Model() synth.Model { return synth.ModelDigital }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// SetSampleRate updates the sample rate. State is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := synth.CheckSampleRate("svf", sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate

	return nil
}

// Style returns the style of the last setup.
func (f *Filter) Style() synth.Style { return f.style }

// Reset zeroes the masked lanes.
func (f *Filter) Reset(mask poly.Mask) {
	for i := range f.stages {
		f.stages[i].reset(mask)
	}

	f.cutoff.Reset(mask)
	f.resonance.Reset(mask)
	f.drive.Reset(mask)
	f.mix.Reset(mask)
}

// HardReset zeroes every lane.
func (f *Filter) HardReset() { f.Reset(poly.FullMask) }

// ResonanceQ maps a resonance percent to the stage Q with a cubic curve.
func ResonanceQ(percent poly.Float) poly.Float {
	r := percent.Clamp(0, 1)
	r3 := r.Mul(r).Mul(r)
	return poly.Splat(MinResonance).MulAdd(r3, poly.Splat(MaxResonance-MinResonance))
}

// PercentForQ inverts ResonanceQ.
func PercentForQ(q float32) float32 {
	q = max(MinResonance, min(q, MaxResonance))
	return math32.Cbrt((q - MinResonance) / (MaxResonance - MinResonance))
}

// SetupFilter implements synth.Filter.
func (f *Filter) SetupFilter(state *synth.State) {
	f.style = state.Style
	f.cutoff.Setup(state)

	q := ResonanceQ(state.ResonancePercent)
	f.resonance.SetTarget(q)

	drive := state.Drive
	switch {
	case f.style == synth.StyleShelving:
		drive = poly.Splat(1)
	case !f.basic:
		drive = drive.Mul(poly.Splat(MinResonance).Div(q).Sqrt())
	}
	f.drive.SetTarget(drive)

	f.mix.SetTarget(f.mixFor(state))
}

func (f *Filter) mixFor(state *synth.State) stagemix.Vector {
	var mix stagemix.Vector

	var shelf poly.Float
	if f.style == synth.StyleShelving {
		// A = 10^(gain/40)
		shelf = poly.DbToMagnitude(state.Gain.Scale(0.5))
	}

	for lane, blend := range state.PassBlend {
		b := blend - 1
		var w [stagemix.Taps]float32

		switch f.style {
		case synth.StyleNotchPassSwap:
			notch := 1 - math32.Abs(b)
			w[tapLow] = max(0, -b) + notch
			w[tapHigh] = max(0, b) + notch
		case synth.StyleDualNotchBand:
			t := blend * 0.5
			w[tapLow] = 1 - t
			w[tapHigh] = 1 - t
			w[tapNormalBand] = t
		case synth.StyleBandPeakNotch:
			band := max(0, -b)
			peak := 1 - math32.Abs(b)
			notch := max(0, b)
			w[tapNormalBand] = band
			w[tapLow] = peak + notch
			w[tapHigh] = notch - peak
		case synth.StyleShelving:
			w = shelfWeights(blend, shelf[lane])
		default:
			w[tapLow] = max(0, -b)
			w[tapBand] = math32.Sqrt(max(0, 1-b*b))
			w[tapHigh] = max(0, b)
		}

		for i := range mix {
			mix[i][lane] = w[i]
		}
	}

	return mix
}

// shelfWeights crossfades low shelf (blend 0), bell (1) and high shelf (2)
// for shelf amplitude a, where the shelf gain is a^2.
func shelfWeights(blend, a float32) [stagemix.Taps]float32 {
	a2 := a * a
	low := [stagemix.Taps]float32{tapInput: 1, tapNormalBand: a - 1, tapLow: a2 - 1}
	bell := [stagemix.Taps]float32{tapInput: 1, tapNormalBand: a2 - 1}
	high := [stagemix.Taps]float32{tapInput: a2, tapNormalBand: (1 - a) * a, tapLow: 1 - a2}

	from, to, t := low, bell, blend
	if blend > 1 {
		from, to, t = bell, high, blend-1
	}

	var w [stagemix.Taps]float32
	for i := range w {
		w[i] = from[i] + (to[i]-from[i])*t
	}
	return w
}

// ProcessWithInput implements synth.Filter.
func (f *Filter) ProcessWithInput(in, out []poly.Float) {
	n := len(in)
	if n == 0 {
		return
	}

	_ = out[n-1]

	f.cutoff.Begin(n)
	q, dq := f.resonance.Begin(n)
	drive, dDrive := f.drive.Begin(n)
	mix, dMix := f.mix.Begin(n)

	lookup := synth.SvfCoefficientLookup()
	one := poly.Splat(1)
	spread := poly.Splat(dualSpread)

	for i, x := range in {
		q = q.Add(dq)
		drive = drive.Add(dDrive)
		mix.Add(&dMix)

		k := one.Div(q)
		midi := f.cutoff.Next(i)
		x = x.Mul(drive)

		var y poly.Float
		switch f.style {
		case synth.Style24Db:
			g := lookup.CubicLookup(synth.CutoffRatio(midi, f.sampleRate))
			y = f.stages[0].tick(x, g, k, &mix)
			y = f.stages[1].tick(f.clip(y), g, k, &mix)
		case synth.StyleDualNotchBand:
			g1 := lookup.CubicLookup(synth.CutoffRatio(midi.Sub(spread), f.sampleRate))
			g2 := lookup.CubicLookup(synth.CutoffRatio(midi.Add(spread), f.sampleRate))
			y = f.stages[0].tick(x, g1, k, &mix)
			y = f.stages[1].tick(f.clip(y), g2, k, &mix)
		default:
			g := lookup.CubicLookup(synth.CutoffRatio(midi, f.sampleRate))
			y = f.stages[0].tick(x, g, k, &mix)
		}

		poly.CheckFinite("svf", y)
		out[i] = y
	}

	f.cutoff.End()
}

func (f *Filter) clip(x poly.Float) poly.Float {
	if f.basic {
		return x
	}
	return poly.HardTanh(x)
}

// Drive returns the effective input gain of the last block.
func (f *Filter) Drive() poly.Float { return f.drive.Current() }

// Resonance returns the stage Q of the last block.
func (f *Filter) Resonance() poly.Float { return f.resonance.Current() }

// MidiCutoff returns the cutoff of the last rendered sample.
func (f *Filter) MidiCutoff() poly.Float { return f.cutoff.Current() }
