// Package ladder provides a polyphonic zero-delay-feedback 4-stage ladder
// filter.
//
// The feedback loop is solved instantaneously from the stage states, and
// the solved input is saturated with an algebraic soft clip. That bounds
// the cascade, so the filter self-oscillates at full resonance without
// diverging.
//
// The output is a weighted sum of the cascade input and the four stage
// outputs. Each style provides low, band and high weight sets, and the pass
// blend interpolates between them:
//   - Style12Db / Style24Db: 2-pole or 4-pole low, band and high-pass
//   - StyleNotchPassSwap: low-pass, notch, high-pass
//   - StyleDualNotchBand: mirrored low-pass, 4-pole band, notch
//   - StyleBandPeakNotch: band, peak, notch
package ladder
