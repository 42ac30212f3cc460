package input

// Mouse is the pointer state for one frame.
type Mouse struct {
	X, Y   int32
	Left   bool
	Middle bool
	Right  bool
	WheelX float64
	WheelY float64
}

type Axis uint8

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerLeft
	AxisTriggerRight

	NumAxes = int(AxisTriggerRight) + 1
)

type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonBack
	ButtonGuide
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight

	NumButtons = int(ButtonDPadRight) + 1
)

// Controller is one attached gamepad.
type Controller struct {
	ID      int
	Axes    [NumAxes]int16
	Buttons [NumButtons]bool
}

// Snapshot is the input state handed by value to every worker each frame.
type Snapshot struct {
	Keyboard    Keyboard
	Mouse       Mouse
	Controllers []Controller
}

// Controller returns the gamepad with the given id.
func (s *Snapshot) Controller(id int) (Controller, bool) {
	for _, c := range s.Controllers {
		if c.ID == id {
			return c, true
		}
	}
	return Controller{}, false
}

// Tracker accumulates raw device state on the presentation side and cuts one
// Snapshot per frame. The keyboard diff is computed against the previous
// snapshot instead of being cleared in place. Not safe for concurrent use.
type Tracker struct {
	keys        [NumKeys]bool
	prev        [NumKeys]bool
	mouse       Mouse
	controllers []Controller
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) SetKey(k Key, down bool) {
	if int(k) < NumKeys {
		t.keys[k] = down
	}
}

func (t *Tracker) SetMouse(m Mouse) { t.mouse = m }

func (t *Tracker) AddController(id int) {
	if t.index(id) >= 0 {
		return
	}
	t.controllers = append(t.controllers, Controller{ID: id})
}

func (t *Tracker) RemoveController(id int) {
	if i := t.index(id); i >= 0 {
		t.controllers = append(t.controllers[:i], t.controllers[i+1:]...)
	}
}

func (t *Tracker) SetAxis(id int, a Axis, v int16) {
	if i := t.index(id); i >= 0 && int(a) < NumAxes {
		t.controllers[i].Axes[a] = v
	}
}

func (t *Tracker) SetButton(id int, b Button, down bool) {
	if i := t.index(id); i >= 0 && int(b) < NumButtons {
		t.controllers[i].Buttons[b] = down
	}
}

func (t *Tracker) index(id int) int {
	for i, c := range t.controllers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns this frame's input and makes it the baseline for the next
// diff.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{Mouse: t.mouse}
	s.Keyboard.states = t.keys
	for i := range t.keys {
		s.Keyboard.changed[i] = t.keys[i] != t.prev[i]
	}
	t.prev = t.keys
	if len(t.controllers) > 0 {
		s.Controllers = append([]Controller(nil), t.controllers...)
	}
	return s
}
