package ebitenpresent

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/swarmloop/engine/internal/input"
)

var keyMap = [input.NumKeys]ebiten.Key{
	input.KeyEsc:        ebiten.KeyEscape,
	input.KeyLeft:       ebiten.KeyArrowLeft,
	input.KeyRight:      ebiten.KeyArrowRight,
	input.KeyUp:         ebiten.KeyArrowUp,
	input.KeyDown:       ebiten.KeyArrowDown,
	input.KeyShiftLeft:  ebiten.KeyShiftLeft,
	input.KeyShiftRight: ebiten.KeyShiftRight,
	input.KeyCtrlLeft:   ebiten.KeyControlLeft,
	input.KeyCtrlRight:  ebiten.KeyControlRight,
	input.KeyAltLeft:    ebiten.KeyAltLeft,
	input.KeyAltRight:   ebiten.KeyAltRight,
	input.KeyDelete:     ebiten.KeyDelete,
	input.KeyEnter:      ebiten.KeyEnter,
	input.KeySpace:      ebiten.KeySpace,
	input.Key1:          ebiten.KeyDigit1,
	input.Key2:          ebiten.KeyDigit2,
	input.Key3:          ebiten.KeyDigit3,
	input.Key4:          ebiten.KeyDigit4,
	input.Key5:          ebiten.KeyDigit5,
	input.Key6:          ebiten.KeyDigit6,
	input.Key7:          ebiten.KeyDigit7,
	input.Key8:          ebiten.KeyDigit8,
	input.Key9:          ebiten.KeyDigit9,
	input.Key0:          ebiten.KeyDigit0,
	input.KeyQ:          ebiten.KeyQ,
	input.KeyW:          ebiten.KeyW,
	input.KeyE:          ebiten.KeyE,
	input.KeyR:          ebiten.KeyR,
	input.KeyT:          ebiten.KeyT,
	input.KeyY:          ebiten.KeyY,
	input.KeyU:          ebiten.KeyU,
	input.KeyI:          ebiten.KeyI,
	input.KeyO:          ebiten.KeyO,
	input.KeyP:          ebiten.KeyP,
	input.KeyA:          ebiten.KeyA,
	input.KeyS:          ebiten.KeyS,
	input.KeyD:          ebiten.KeyD,
	input.KeyF:          ebiten.KeyF,
	input.KeyG:          ebiten.KeyG,
	input.KeyH:          ebiten.KeyH,
	input.KeyJ:          ebiten.KeyJ,
	input.KeyK:          ebiten.KeyK,
	input.KeyL:          ebiten.KeyL,
	input.KeyZ:          ebiten.KeyZ,
	input.KeyX:          ebiten.KeyX,
	input.KeyC:          ebiten.KeyC,
	input.KeyV:          ebiten.KeyV,
	input.KeyB:          ebiten.KeyB,
	input.KeyN:          ebiten.KeyN,
	input.KeyM:          ebiten.KeyM,
}

var axisMap = [...]ebiten.StandardGamepadAxis{
	input.AxisLeftX:  ebiten.StandardGamepadAxisLeftStickHorizontal,
	input.AxisLeftY:  ebiten.StandardGamepadAxisLeftStickVertical,
	input.AxisRightX: ebiten.StandardGamepadAxisRightStickHorizontal,
	input.AxisRightY: ebiten.StandardGamepadAxisRightStickVertical,
}

var buttonMap = [input.NumButtons]ebiten.StandardGamepadButton{
	input.ButtonA:             ebiten.StandardGamepadButtonRightBottom,
	input.ButtonB:             ebiten.StandardGamepadButtonRightRight,
	input.ButtonX:             ebiten.StandardGamepadButtonRightLeft,
	input.ButtonY:             ebiten.StandardGamepadButtonRightTop,
	input.ButtonBack:          ebiten.StandardGamepadButtonCenterLeft,
	input.ButtonGuide:         ebiten.StandardGamepadButtonCenterCenter,
	input.ButtonStart:         ebiten.StandardGamepadButtonCenterRight,
	input.ButtonLeftStick:     ebiten.StandardGamepadButtonLeftStick,
	input.ButtonRightStick:    ebiten.StandardGamepadButtonRightStick,
	input.ButtonLeftShoulder:  ebiten.StandardGamepadButtonFrontTopLeft,
	input.ButtonRightShoulder: ebiten.StandardGamepadButtonFrontTopRight,
	input.ButtonDPadUp:        ebiten.StandardGamepadButtonLeftTop,
	input.ButtonDPadDown:      ebiten.StandardGamepadButtonLeftBottom,
	input.ButtonDPadLeft:      ebiten.StandardGamepadButtonLeftLeft,
	input.ButtonDPadRight:     ebiten.StandardGamepadButtonLeftRight,
}
