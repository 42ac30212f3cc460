package sprite

// Builder assembles a Sprite.
//
//	s := sprite.NewBuilder(0).
//		WithTileSize(32, 32).
//		WithColumns(4).
//		WithAnimations(idle, walk).
//		Build()
type Builder struct {
	s Sprite
}

func NewBuilder(textureID int) *Builder {
	return &Builder{s: Sprite{TextureID: textureID, Columns: 1}}
}

func (b *Builder) WithTileSize(width, height uint32) *Builder {
	b.s.TileWidth = width
	b.s.TileHeight = height
	return b
}

func (b *Builder) WithColumns(n uint16) *Builder {
	b.s.Columns = n
	return b
}

func (b *Builder) WithStartAnimation(index int) *Builder {
	b.s.Animation = index
	return b
}

func (b *Builder) WithAnimations(anims ...Animation) *Builder {
	b.s.Animations = append(b.s.Animations, anims...)
	return b
}

// Build returns the sprite. Every call returns an independent copy.
func (b *Builder) Build() Sprite {
	return b.s.Clone()
}
