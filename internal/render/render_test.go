package render

import (
	"errors"
	"testing"
)

func TestDrawBufferPublish(t *testing.T) {
	b := NewDrawBuffer(4)
	b.Set(0, DrawCommand{TextureID: 0})
	b.Set(2, DrawCommand{TextureID: 2})
	b.Set(3, DrawCommand{TextureID: 3})
	b.Clear(3)

	if got := b.CopyFront(nil); len(got) != 0 {
		t.Fatalf("front visible before publish: %v", got)
	}

	b.Publish(7)
	got := b.CopyFront(nil)
	if len(got) != 2 || got[0].TextureID != 0 || got[1].TextureID != 2 {
		t.Fatalf("front = %+v, want textures [0 2]", got)
	}
	if b.Published() != 7 {
		t.Errorf("Published = %d, want 7", b.Published())
	}

	// Writing the back side does not disturb the published list.
	b.Set(1, DrawCommand{TextureID: 1})
	again := b.CopyFront(nil)
	if len(again) != 2 {
		t.Errorf("front changed before publish: %+v", again)
	}

	// Copies are independent of later publishes.
	b.Publish(8)
	if got[1].TextureID != 2 {
		t.Errorf("copied list mutated by publish: %+v", got)
	}
}

func TestFrameResetAndClone(t *testing.T) {
	var f Frame
	f.Reset(1, 2)
	f.Lists[0] = append(f.Lists[0], DrawCommand{TextureID: 5})
	f.Lists[1] = append(f.Lists[1], DrawCommand{TextureID: 6}, DrawCommand{TextureID: 7})
	if f.Len() != 3 {
		t.Fatalf("Len = %d, want 3", f.Len())
	}

	c := f.Clone()
	f.Reset(2, 2)
	if f.Len() != 0 || f.Number != 2 {
		t.Errorf("Reset left %d commands, number %d", f.Len(), f.Number)
	}
	if c.Len() != 3 || c.Number != 1 || c.Lists[1][1].TextureID != 7 {
		t.Errorf("clone affected by reset: %+v", c)
	}
}

func TestValidateCommand(t *testing.T) {
	ok := DrawCommand{TextureID: 1, Src: Rect{W: 8, H: 8}, Dst: Rect{W: 16, H: 16}}
	tests := []struct {
		name string
		cmd  DrawCommand
		want error
	}{
		{"valid", ok, nil},
		{"negative texture", DrawCommand{TextureID: -1, Src: ok.Src, Dst: ok.Dst}, ErrUnknownTexture},
		{"texture out of range", DrawCommand{TextureID: 2, Src: ok.Src, Dst: ok.Dst}, ErrUnknownTexture},
		{"empty src", DrawCommand{TextureID: 0, Dst: ok.Dst}, ErrEmptyRect},
		{"empty dst", DrawCommand{TextureID: 0, Src: ok.Src, Dst: Rect{W: 4}}, ErrEmptyRect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.cmd, 2)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateCommand = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCameraProject(t *testing.T) {
	s := NewScreen(640, 480)
	c := NewCamera()
	c.X, c.Y = 10, 20

	got := c.Project(s, 110, 120, 64, 32)
	want := Rect{X: 420, Y: 340, W: 64, H: 32}
	if got != want {
		t.Errorf("Project = %+v, want %+v", got, want)
	}

	c.Zoom = 0
	if got := c.Project(s, 110, 120, 64, 32); got.W != 0 || got.X != s.CenterX {
		t.Errorf("zero zoom Project = %+v", got)
	}
}

func TestFrameValidate(t *testing.T) {
	ok := DrawCommand{TextureID: 0, Src: Rect{W: 8, H: 8}, Dst: Rect{W: 16, H: 16}}
	bad := ok
	bad.TextureID = 3
	f := Frame{Number: 9, Lists: [][]DrawCommand{{ok, bad}, {ok}}}

	drawn := 0
	rejected := f.Validate(1, func(*DrawCommand) { drawn++ })
	if drawn != 2 {
		t.Errorf("drawn = %d, want 2", drawn)
	}
	if len(rejected) != 1 {
		t.Fatalf("rejected = %+v, want one", rejected)
	}
	r := rejected[0]
	if r.Frame != 9 || r.List != 0 || r.Index != 1 || !errors.Is(r.Err, ErrUnknownTexture) {
		t.Errorf("rejection = %+v", r)
	}
}
