// Package slot hosts one swappable polyphonic filter per voice group.
//
// A Slot owns the filter of the current model, its control state and a
// dry/wet mix. The model and sample rate may change from a control
// goroutine while the audio goroutine calls Process; a mutex serializes the
// two. Replacement filters are built outside the lock.
package slot

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Slot is a mixable filter host.
type Slot struct {
	mu sync.Mutex

	cfg      core.ProcessorConfig
	registry *Registry
	model    synth.Model
	filter   synth.Filter
	state    synth.State
	mix      float32
	view     pieceControls

	wet     []poly.Float
	scratch []poly.Float
}

// New creates a slot running model. Options set the sample rate and the
// largest block rendered at once.
func New(model synth.Model, opts ...core.ProcessorOption) (*Slot, error) {
	return NewWithRegistry(DefaultRegistry(), model, opts...)
}

// NewWithRegistry is like New with a custom model registry.
func NewWithRegistry(registry *Registry, model synth.Model, opts ...core.ProcessorOption) (*Slot, error) {
	if registry == nil {
		return nil, fmt.Errorf("slot: nil registry")
	}

	cfg := core.ApplyProcessorOptions(opts...)

	filter, err := registry.Build(model, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	return &Slot{
		cfg:      cfg,
		registry: registry,
		model:    model,
		filter:   filter,
		state:    synth.DefaultState(),
		mix:      1,
		wet:      core.EnsureLen[poly.Float](nil, cfg.BlockSize),
		scratch:  core.EnsureLen[poly.Float](nil, cfg.BlockSize),
	}, nil
}

// Model returns the current model.
func (s *Slot) Model() synth.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.model
}

// SampleRate returns the current sample rate in Hz.
func (s *Slot) SampleRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.SampleRate
}

// BlockSize returns the largest block rendered in one pass.
func (s *Slot) BlockSize() int { return s.cfg.BlockSize }

// SetModel swaps in a fresh filter of model. The old filter's state is
// dropped.
func (s *Slot) SetModel(model synth.Model) error {
	s.mu.Lock()
	sampleRate := s.cfg.SampleRate
	s.mu.Unlock()

	filter, err := s.registry.Build(model, sampleRate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.SampleRate != sampleRate {
		if err := filter.SetSampleRate(s.cfg.SampleRate); err != nil {
			return err
		}
	}

	s.model = model
	s.filter = filter

	return nil
}

// SetSampleRate updates the running filter.
func (s *Slot) SetSampleRate(sampleRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.filter.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("slot: %w", err)
	}

	s.cfg.SampleRate = sampleRate

	return nil
}

// SetMix sets the wet share in [0, 1].
func (s *Slot) SetMix(mix float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mix = max(0, min(mix, 1))
}

// Mix returns the wet share.
func (s *Slot) Mix() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mix
}

// Reset clears every lane of the running filter.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.HardReset()
}

// Snapshot reports the display values of the last block.
func (s *Slot) Snapshot() (drive, resonance, midiCutoff poly.Float) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter.Drive(), s.filter.Resonance(), s.filter.MidiCutoff()
}

// Process renders in through the filter into out. Blocks longer than the
// configured block size are split; trig resets its lanes at the start of
// the first piece and silences them until its offset. out may alias in.
func (s *Slot) Process(c synth.Controls, trig synth.Trigger, in, out []poly.Float) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset := trig.ResetMask()
	step := len(s.wet)
	s.view.Controls = c
	defer func() { s.view.Controls = nil }()

	for start := 0; start < len(in); start += step {
		end := min(start+step, len(in))
		src, dst := in[start:end], out[start:end]
		wet := s.wet[:end-start]

		piece := synth.Trigger{}
		if start == 0 {
			piece = trig
		}
		s.view.start, s.view.end = start, end
		synth.Process(s.filter, &s.state, &s.view, piece, src, wet)

		if start > 0 && reset.Any() {
			silenceUntil(wet, start, trig.Offset, reset)
		}

		if s.mix == 1 {
			core.CopyInto(dst, wet)
			continue
		}
		poly.MixBlock(dst, src, wet, s.scratch, s.mix)
	}
}

// pieceControls shows one piece of a split block its own window of the
// per-sample control buffers.
type pieceControls struct {
	synth.Controls
	start, end int
}

// ControlBuffer implements synth.Controls.
func (p *pieceControls) ControlBuffer(in synth.Input) []poly.Float {
	buf := p.Controls.ControlBuffer(in)
	if p.start >= len(buf) {
		return nil
	}
	return buf[p.start:min(p.end, len(buf))]
}

// silenceUntil zeroes the reset lanes of a piece starting at sample start
// while the absolute sample index is below their offset.
func silenceUntil(out []poly.Float, start int, offset poly.Int, reset poly.Mask) {
	var zero poly.Float
	for i := range out {
		index := poly.SplatInt(uint32(start + i))
		before := offset.GreaterThan(index).And(reset)
		if !before.Any() {
			return
		}
		out[i] = poly.MaskLoad(out[i], zero, before)
	}
}
