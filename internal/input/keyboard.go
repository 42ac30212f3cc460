package input

// Key identifies a keyboard key independent of the platform layer.
type Key uint8

const (
	KeyEsc Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyShiftLeft
	KeyShiftRight
	KeyCtrlLeft
	KeyCtrlRight
	KeyAltLeft
	KeyAltRight
	KeyDelete
	KeyEnter
	KeySpace
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM

	NumKeys = int(KeyM) + 1
)

var keyNames = [NumKeys]string{
	"esc", "left", "right", "up", "down",
	"shift_left", "shift_right", "ctrl_left", "ctrl_right", "alt_left",
	"alt_right", "delete", "enter", "space",
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
	"q", "w", "e", "r", "t", "y", "u", "i", "o", "p",
	"a", "s", "d", "f", "g", "h", "j", "k", "l", "z",
	"x", "c", "v", "b", "n", "m",
}

func (k Key) String() string {
	if int(k) < NumKeys {
		return keyNames[k]
	}
	return "unknown"
}

// ParseKey looks a key up by its String name.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return 0, false
}

// Keyboard is an immutable per-frame keyboard view. Changed marks keys whose
// state differs from the previous frame's snapshot.
type Keyboard struct {
	states  [NumKeys]bool
	changed [NumKeys]bool
}

// Down reports whether k is held.
func (kb *Keyboard) Down(k Key) bool {
	return int(k) < NumKeys && kb.states[k]
}

// Pressed reports whether k went down this frame.
func (kb *Keyboard) Pressed(k Key) bool {
	return int(k) < NumKeys && kb.states[k] && kb.changed[k]
}

// Released reports whether k went up this frame.
func (kb *Keyboard) Released(k Key) bool {
	return int(k) < NumKeys && !kb.states[k] && kb.changed[k]
}
