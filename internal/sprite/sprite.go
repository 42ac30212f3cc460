package sprite

import "github.com/swarmloop/engine/internal/render"

// Sprite selects a tile of a spritesheet texture through one of its
// animations. Each animation keeps its own accumulated time; only the active
// one advances.
type Sprite struct {
	TextureID  int
	TileWidth  uint32
	TileHeight uint32
	Columns    uint16

	Animation  int
	Animations []Animation
}

// Active returns the selected animation, or nil when the index does not
// name one.
func (s *Sprite) Active() *Animation {
	if s.Animation < 0 || s.Animation >= len(s.Animations) {
		return nil
	}
	return &s.Animations[s.Animation]
}

// Update advances the active animation by ms milliseconds. An out of range
// animation index is a no-op.
func (s *Sprite) Update(ms uint64) {
	if a := s.Active(); a != nil {
		a.Advance(ms)
	}
}

// Switch selects animation index. The selected animation keeps whatever time
// it had accumulated when it was last active unless restart is set.
func (s *Sprite) Switch(index int, restart bool) {
	s.Animation = index
	if restart {
		if a := s.Active(); a != nil {
			a.Reset()
		}
	}
}

// TilePosition returns the pixel origin of the visible tile. ok is false when
// no animation is active.
func (s *Sprite) TilePosition() (x, y int32, ok bool) {
	a := s.Active()
	if a == nil {
		return 0, 0, false
	}
	cols := s.Columns
	if cols == 0 {
		cols = 1
	}
	tile := a.Tile()
	col := uint32(tile % cols)
	row := uint32(tile / cols)
	return int32(col * s.TileWidth), int32(row * s.TileHeight), true
}

// SourceRect is the texture-space rectangle of the visible tile.
func (s *Sprite) SourceRect() (render.Rect, bool) {
	x, y, ok := s.TilePosition()
	if !ok {
		return render.Rect{}, false
	}
	return render.Rect{X: x, Y: y, W: s.TileWidth, H: s.TileHeight}, true
}

// Clone returns a copy that does not share animation state.
func (s Sprite) Clone() Sprite {
	if s.Animations != nil {
		s.Animations = append([]Animation(nil), s.Animations...)
	}
	return s
}
