// Package phaser provides a polyphonic phaser built from a cascade of
// one-pole all-pass stages.
//
// Twelve stages share the cutoff coefficient and are tapped after every
// group of four. The pass blend crossfades between the taps, so the notch
// count changes smoothly from four to twelve stages as the blend moves from
// 0 to 2. At the cutoff every tap is in phase with the input, which makes
// it the peak of the response.
//
// Resonance feeds the tapped sum back into the cascade with a one-sample
// delay. WithClean places a high-pass and low-pass pair in that feedback
// path only. A non-zero style inverts the all-pass sum, moving the peaks to
// notches.
package phaser
