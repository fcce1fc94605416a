package formant

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/svf"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// Band is the target of one formant band-pass.
type Band struct {
	Midi      poly.Float
	Resonance poly.Float
	Gain      poly.Float // linear
}

// Manager runs NumFormants parallel band-pass filters and sums them.
type Manager struct {
	bands   [NumFormants]*svf.Filter
	states  [NumFormants]synth.State
	scratch []poly.Float
	sum     []poly.Float
}

// NewManager builds the band filters. Blocks longer than maxBlockSize are
// processed in pieces.
func NewManager(sampleRate float64, maxBlockSize int) (*Manager, error) {
	if maxBlockSize <= 0 {
		return nil, fmt.Errorf("formant: max block size must be > 0: %d", maxBlockSize)
	}

	m := &Manager{
		scratch: core.EnsureLen[poly.Float](nil, maxBlockSize),
		sum:     core.EnsureLen[poly.Float](nil, maxBlockSize),
	}
	for i := range m.bands {
		band, err := svf.New(sampleRate, svf.WithBasic())
		if err != nil {
			return nil, fmt.Errorf("formant: band %d: %w", i, err)
		}

		m.bands[i] = band
		m.states[i] = synth.DefaultState()
		m.states[i].Style = synth.StyleBandPeakNotch
	}

	return m, nil
}

// Band returns the filter of formant i.
func (m *Manager) Band(i int) *svf.Filter { return m.bands[i] }

// MaxBlockSize returns the scratch length.
func (m *Manager) MaxBlockSize() int { return len(m.scratch) }

// SetSampleRate updates every band.
func (m *Manager) SetSampleRate(sampleRate float64) error {
	for _, band := range m.bands {
		if err := band.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}
	return nil
}

// Reset zeroes the masked lanes of every band.
func (m *Manager) Reset(mask poly.Mask) {
	for _, band := range m.bands {
		band.Reset(mask)
	}
}

// Setup sets the band targets of the next block.
func (m *Manager) Setup(targets [NumFormants]Band) {
	for i, t := range targets {
		s := &m.states[i]
		s.MidiCutoff = t.Midi
		s.ResonancePercent = t.Resonance
		s.Drive = t.Gain
		m.bands[i].SetupFilter(s)
	}
}

// Process writes the sum of all bands to out. out may alias in.
func (m *Manager) Process(in, out []poly.Float) {
	for start := 0; start < len(in); start += len(m.scratch) {
		end := min(start+len(m.scratch), len(in))
		src := in[start:end]
		sum, scratch := m.sum[:end-start], m.scratch[:end-start]

		m.bands[0].ProcessWithInput(src, sum)
		for _, band := range m.bands[1:] {
			band.ProcessWithInput(src, scratch)
			poly.AddBlock(sum, scratch)
		}

		core.CopyInto(out[start:end], sum)
	}
}
