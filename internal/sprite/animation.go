package sprite

// Animation is one looping strip of tiles on a spritesheet. The visible frame
// is a pure function of the accumulated time.
type Animation struct {
	CurrentFrame   uint16
	First          uint16 // first tile index, inclusive
	Last           uint16 // last tile index, inclusive
	MillisPerFrame uint64
	MillisPassed   uint64
}

// NewAnimation returns an animation over tiles first..last (inclusive).
func NewAnimation(first, last uint16, millisPerFrame uint64) Animation {
	return Animation{First: first, Last: last, MillisPerFrame: millisPerFrame}
}

// Len returns the number of tiles in the strip. A reversed range is empty.
func (a *Animation) Len() uint64 {
	if a.Last < a.First {
		return 0
	}
	return uint64(a.Last-a.First) + 1
}

// Period is the length of one full loop in milliseconds.
func (a *Animation) Period() uint64 {
	return a.MillisPerFrame * a.Len()
}

// Advance accumulates ms milliseconds, wrapping at the loop period.
// Animations without a period do not move.
func (a *Animation) Advance(ms uint64) {
	period := a.Period()
	if period == 0 {
		return
	}
	a.MillisPassed = (a.MillisPassed%period + ms%period) % period
	a.CurrentFrame = uint16(a.MillisPassed / a.MillisPerFrame)
}

// Tile returns the spritesheet tile index currently visible.
func (a *Animation) Tile() uint16 {
	return a.First + a.CurrentFrame
}

// Reset rewinds the animation to its first frame.
func (a *Animation) Reset() {
	a.MillisPassed = 0
	a.CurrentFrame = 0
}
