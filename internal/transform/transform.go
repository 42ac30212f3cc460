package transform

// Transform places an entity in world space. Z orders entities within a
// draw-list consumer; the core never sorts by it.
type Transform struct {
	X, Y, Z  float64
	Width    uint32
	Height   uint32
	Rotation float64 // degrees, clockwise
	FlipH    bool
	FlipV    bool
}

func (t Transform) WithPosition(x, y float64) Transform {
	t.X = x
	t.Y = y
	return t
}

func (t Transform) WithDepth(z float64) Transform {
	t.Z = z
	return t
}

func (t Transform) WithSize(width, height uint32) Transform {
	t.Width = width
	t.Height = height
	return t
}

func (t Transform) WithRotation(deg float64) Transform {
	t.Rotation = deg
	return t
}

func (t Transform) WithHorizontalFlip() Transform {
	t.FlipH = true
	return t
}

func (t Transform) WithVerticalFlip() Transform {
	t.FlipV = true
	return t
}

// Translate moves the transform by (dx, dy).
func (t *Transform) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}
