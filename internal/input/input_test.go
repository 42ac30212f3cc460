package input

import "testing"

func TestSnapshotDiff(t *testing.T) {
	tr := NewTracker()

	tr.SetKey(KeySpace, true)
	s1 := tr.Snapshot()
	if !s1.Keyboard.Pressed(KeySpace) || !s1.Keyboard.Down(KeySpace) {
		t.Fatal("space should be pressed and down on the first frame")
	}

	s2 := tr.Snapshot()
	if s2.Keyboard.Pressed(KeySpace) {
		t.Error("space still pressed on the second frame")
	}
	if !s2.Keyboard.Down(KeySpace) {
		t.Error("space no longer down")
	}

	tr.SetKey(KeySpace, false)
	s3 := tr.Snapshot()
	if !s3.Keyboard.Released(KeySpace) {
		t.Error("space not released")
	}

	// Earlier snapshots are values and stay as they were.
	if !s1.Keyboard.Pressed(KeySpace) {
		t.Error("first snapshot mutated")
	}
}

func TestDownUpWithinOneFrame(t *testing.T) {
	tr := NewTracker()
	tr.SetKey(KeyA, true)
	tr.SetKey(KeyA, false)
	s := tr.Snapshot()
	if s.Keyboard.Pressed(KeyA) || s.Keyboard.Released(KeyA) || s.Keyboard.Down(KeyA) {
		t.Error("a tap inside one frame should not register")
	}
}

func TestControllers(t *testing.T) {
	tr := NewTracker()
	tr.AddController(3)
	tr.AddController(3)
	tr.SetAxis(3, AxisLeftX, -200)
	tr.SetButton(3, ButtonStart, true)
	tr.SetButton(9, ButtonA, true)

	s := tr.Snapshot()
	if len(s.Controllers) != 1 {
		t.Fatalf("got %d controllers, want 1", len(s.Controllers))
	}
	c, ok := s.Controller(3)
	if !ok || c.Axes[AxisLeftX] != -200 || !c.Buttons[ButtonStart] {
		t.Errorf("controller 3 = %+v", c)
	}

	tr.RemoveController(3)
	after := tr.Snapshot()
	if _, ok := after.Controller(3); ok {
		t.Error("controller 3 still attached")
	}
	if _, ok := s.Controller(3); !ok {
		t.Error("earlier snapshot lost its controller")
	}
}

func TestParseKey(t *testing.T) {
	for k := Key(0); int(k) < NumKeys; k++ {
		got, ok := ParseKey(k.String())
		if !ok || got != k {
			t.Errorf("ParseKey(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKey("f13"); ok {
		t.Error("ParseKey accepted an unknown name")
	}
}
