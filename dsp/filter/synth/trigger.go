package synth

import (
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// VoiceOn is the trigger value that marks a new note on a lane.
const VoiceOn = 1

// Trigger is the reset event of one block. Lanes in Mask whose Value equals
// VoiceOn restart at sample Offset within the block.
type Trigger struct {
	Mask   poly.Mask
	Value  poly.Float
	Offset poly.Int
}

// NoteOn builds a trigger that restarts the masked lanes at offset.
func NoteOn(mask poly.Mask, offset int) Trigger {
	return Trigger{
		Mask:   mask,
		Value:  poly.Splat(VoiceOn),
		Offset: poly.SplatInt(uint32(offset)),
	}
}

// ResetMask returns the lanes that must be reset this block.
func (t Trigger) ResetMask() poly.Mask {
	return t.Mask.And(t.Value.Equal(poly.Splat(VoiceOn)))
}

// silenceBeforeOffset zeroes out[i] on the reset lanes for every i before
// that lane's trigger offset.
func (t Trigger) silenceBeforeOffset(out []poly.Float, reset poly.Mask) {
	var zero poly.Float
	for i := range out {
		index := poly.SplatInt(uint32(i))
		before := t.Offset.GreaterThan(index).And(reset)
		if !before.Any() {
			return
		}
		out[i] = poly.MaskLoad(out[i], zero, before)
	}
}
