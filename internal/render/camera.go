package render

import "math"

// Screen describes the presentation surface.
type Screen struct {
	Width   uint32
	Height  uint32
	CenterX int32
	CenterY int32
}

func NewScreen(width, height uint32) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: int32(width / 2),
		CenterY: int32(height / 2),
	}
}

// Camera is the world-space point shown at the screen center. Zoom is
// exponential: the scale factor is Zoom^10, so 1.0 is unscaled.
type Camera struct {
	X, Y float64
	Zoom float64
}

func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// Power returns the scale factor for the current zoom.
func (c Camera) Power() float64 {
	return math.Pow(c.Zoom, 10)
}

// Project maps a world-space box to a screen rectangle.
func (c Camera) Project(s Screen, x, y float64, w, h uint32) Rect {
	p := c.Power()
	return Rect{
		X: s.CenterX + int32((x-c.X)*p),
		Y: s.CenterY + int32((y-c.Y)*p),
		W: uint32(float64(w) * p),
		H: uint32(float64(h) * p),
	}
}
