// Package svf provides a polyphonic zero-delay-feedback state-variable
// filter (trapezoidal integration, Simper/Zavalishin form).
//
// Supported styles:
//   - Style12Db: one 2-pole stage; the pass blend morphs low, band and
//     high-pass with constant-power band weighting.
//   - Style24Db: two identical stages with a hard-tanh clip in between.
//   - StyleNotchPassSwap: low-pass through notch to high-pass.
//   - StyleDualNotchBand: two stages an octave either side of the cutoff
//     morphing from a double notch to a double band-pass.
//   - StyleBandPeakNotch: unity-peak band-pass through peak to notch.
//   - StyleShelving: low shelf, bell and high shelf driven by Gain. Drive
//     is ignored.
//
// The filter is linear within a stage. WithBasic disables the drive
// compensation and the inter-stage clip, which turns the filter into the
// plain band-pass building block used by the formant bank.
package svf
