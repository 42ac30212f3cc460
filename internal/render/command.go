package render

import (
	"errors"
	"fmt"
)

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y int32
	W, H uint32
}

func (r Rect) Empty() bool { return r.W == 0 || r.H == 0 }

// DrawCommand copies one entity's visual state out of the simulation.
type DrawCommand struct {
	TextureID int
	Src       Rect // texture space
	Dst       Rect // screen space
	Rotation  float64
	FlipH     bool
	FlipV     bool
	Z         float64
}

var (
	ErrUnknownTexture = errors.New("unknown texture")
	ErrEmptyRect      = errors.New("empty rectangle")
)

// ValidateCommand reports why a presenter cannot draw cmd. textures is the
// number of loaded textures.
func ValidateCommand(cmd DrawCommand, textures int) error {
	if cmd.TextureID < 0 || cmd.TextureID >= textures {
		return fmt.Errorf("texture %d of %d: %w", cmd.TextureID, textures, ErrUnknownTexture)
	}
	if cmd.Src.Empty() {
		return fmt.Errorf("src %+v: %w", cmd.Src, ErrEmptyRect)
	}
	if cmd.Dst.Empty() {
		return fmt.Errorf("dst %+v: %w", cmd.Dst, ErrEmptyRect)
	}
	return nil
}

// Frame is one drained set of per-worker draw lists. Lists are in worker
// order and each list is in entity index order. A Frame owns its lists.
type Frame struct {
	Number uint64
	Lists  [][]DrawCommand
}

// Len returns the total number of commands.
func (f *Frame) Len() int {
	n := 0
	for _, l := range f.Lists {
		n += len(l)
	}
	return n
}

// Reset prepares f to receive n lists, reusing backing storage.
func (f *Frame) Reset(number uint64, n int) {
	f.Number = number
	if cap(f.Lists) < n {
		f.Lists = make([][]DrawCommand, n)
	}
	f.Lists = f.Lists[:n]
	for i := range f.Lists {
		f.Lists[i] = f.Lists[i][:0]
	}
}

// Clone deep-copies f so it can cross to another goroutine.
func (f *Frame) Clone() Frame {
	out := Frame{Number: f.Number, Lists: make([][]DrawCommand, len(f.Lists))}
	for i, l := range f.Lists {
		out.Lists[i] = append([]DrawCommand(nil), l...)
	}
	return out
}

// Rejection records one command a presenter skipped.
type Rejection struct {
	Frame uint64
	List  int
	Index int
	Err   error
}

// Validate checks every command of f and calls draw for the valid ones in
// presentation order. It returns the rejected commands.
func (f *Frame) Validate(textures int, draw func(cmd *DrawCommand)) []Rejection {
	var rejected []Rejection
	for li, l := range f.Lists {
		for ci := range l {
			if err := ValidateCommand(l[ci], textures); err != nil {
				rejected = append(rejected, Rejection{Frame: f.Number, List: li, Index: ci, Err: err})
				continue
			}
			if draw != nil {
				draw(&l[ci])
			}
		}
	}
	return rejected
}
