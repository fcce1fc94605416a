package slot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/filter/comb"
	"github.com/cwbudde/algo-synth/dsp/filter/diode"
	"github.com/cwbudde/algo-synth/dsp/filter/dirty"
	"github.com/cwbudde/algo-synth/dsp/filter/formant"
	"github.com/cwbudde/algo-synth/dsp/filter/ladder"
	"github.com/cwbudde/algo-synth/dsp/filter/phaser"
	"github.com/cwbudde/algo-synth/dsp/filter/sallenkey"
	"github.com/cwbudde/algo-synth/dsp/filter/svf"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
)

// Factory builds one filter at a sample rate.
type Factory func(sampleRate float64) (synth.Filter, error)

// Registry maps models to their factories.
type Registry struct {
	factories map[synth.Model]Factory
}

// ErrUnknownModel is returned for a model without a registered factory.
var ErrUnknownModel = errors.New("unknown filter model")

var errDuplicateModel = errors.New("duplicate filter model")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[synth.Model]Factory)}
}

// Register adds a factory for the given model.
func (r *Registry) Register(model synth.Model, factory Factory) error {
	if model < 0 || model >= synth.NumModels {
		return fmt.Errorf("%w: %d", ErrUnknownModel, model)
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[model]; exists {
		return fmt.Errorf("%w: %s", errDuplicateModel, model)
	}

	r.factories[model] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(model synth.Model, factory Factory) {
	err := r.Register(model, factory)
	if err != nil {
		panic("slot registry: " + err.Error())
	}
}

// Lookup returns the factory for the given model, or nil.
func (r *Registry) Lookup(model synth.Model) Factory {
	return r.factories[model]
}

// Build constructs a filter of the given model.
func (r *Registry) Build(model synth.Model, sampleRate float64) (synth.Filter, error) {
	factory := r.Lookup(model)
	if factory == nil {
		return nil, fmt.Errorf("slot: %w: %s", ErrUnknownModel, model)
	}
	return factory(sampleRate)
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.MustRegister(synth.ModelAnalog, wrap(sallenkey.New))
	r.MustRegister(synth.ModelDirty, wrap(dirty.New))
	r.MustRegister(synth.ModelLadder, withDefaults(ladder.New))
	r.MustRegister(synth.ModelDigital, withDefaults(svf.New))
	r.MustRegister(synth.ModelDiode, wrap(diode.New))
	r.MustRegister(synth.ModelFormant, withDefaults(formant.New))
	r.MustRegister(synth.ModelComb, withDefaults(comb.New))
	r.MustRegister(synth.ModelPhase, withDefaults(phaser.New))
	return r
})

// DefaultRegistry returns the registry holding every built-in model.
func DefaultRegistry() *Registry { return defaultRegistry() }

func wrap[F synth.Filter](fn func(float64) (F, error)) Factory {
	return func(sampleRate float64) (synth.Filter, error) {
		f, err := fn(sampleRate)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func withDefaults[F synth.Filter, O any](fn func(float64, ...O) (F, error)) Factory {
	return wrap(func(sampleRate float64) (F, error) { return fn(sampleRate) })
}

// NewFilter builds a built-in filter. It returns nil for an unknown model
// or an invalid sample rate; a nil filter means the slot is empty.
func NewFilter(model synth.Model, sampleRate float64) synth.Filter {
	f, err := DefaultRegistry().Build(model, sampleRate)
	if err != nil {
		return nil
	}
	return f
}
