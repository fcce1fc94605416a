// Package synth defines the contract shared by every polyphonic filter
// topology: the per-block State snapshot, the Filter interface, block-rate
// parameter ramps, voice reset triggers and the process-wide coefficient
// lookups.
//
// A voice engine drives a filter once per block:
//
//	synth.Process(f, &state, controls, trigger, in, out)
//
// which resets the lanes whose voices just started, loads and clamps the
// control values into state, recomputes the filter's targets and renders
// the block. Filters never allocate or lock inside ProcessWithInput.
package synth
