// Package poly provides fixed-width lane vectors used by the polyphonic
// filter engine.
//
// A Float holds one sample for every lane. Lanes are laid out as
// (voice, stereo channel) pairs: lane i belongs to voice i/2 and channel i%2.
// The lane count is fixed at compile time: builds targeting amd64.v3 (AVX2
// baseline) use 8 lanes, every other build uses 4.
//
// All arithmetic is lane-wise and branch-free from the caller's point of
// view. Conditional updates use a Mask with all-ones or all-zeros per lane
// together with MaskLoad, which is how filters reset individual voices
// without disturbing the others.
//
// Block helpers (ScaleBlock, AddBlock, MixBlock) and the horizontal Sum are
// dispatched through a small kernel registry that selects a SIMD-backed or a
// generic implementation from the detected CPU features.
package poly
