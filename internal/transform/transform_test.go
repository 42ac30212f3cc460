package transform

import "testing"

func TestBuilders(t *testing.T) {
	base := Transform{}
	got := base.WithPosition(10, -4).WithDepth(2).WithSize(64, 32).WithRotation(90).WithHorizontalFlip().WithVerticalFlip()

	want := Transform{X: 10, Y: -4, Z: 2, Width: 64, Height: 32, Rotation: 90, FlipH: true, FlipV: true}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if base != (Transform{}) {
		t.Errorf("builder mutated receiver: %+v", base)
	}
}

func TestTranslate(t *testing.T) {
	tr := Transform{}.WithPosition(1, 1)
	tr.Translate(2.5, -1)
	if tr.X != 3.5 || tr.Y != 0 {
		t.Errorf("Translate = (%v, %v), want (3.5, 0)", tr.X, tr.Y)
	}
}
