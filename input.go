package applescene

import (
	"strings"
)

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyShift
	KeyControl
	KeyAlt

	keyCount
)

var keyNames = map[string]Key{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF, "g": KeyG,
	"h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL, "m": KeyM, "n": KeyN,
	"o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR, "s": KeyS, "t": KeyT, "u": KeyU,
	"v": KeyV, "w": KeyW, "x": KeyX, "y": KeyY, "z": KeyZ,

	"0": Key0, "1": Key1, "2": Key2, "3": Key3, "4": Key4,
	"5": Key5, "6": Key6, "7": Key7, "8": Key8, "9": Key9,
	"d0": Key0, "d1": Key1, "d2": Key2, "d3": Key3, "d4": Key4,
	"d5": Key5, "d6": Key6, "d7": Key7, "d8": Key8, "d9": Key9,

	"space": KeySpace, "enter": KeyEnter, "escape": KeyEscape, "tab": KeyTab,
	"backspace": KeyBackspace, "back": KeyBackspace, "insert": KeyInsert,
	"delete": KeyDelete, "right": KeyRight, "left": KeyLeft, "down": KeyDown, "up": KeyUp,

	"f1": KeyF1, "f2": KeyF2, "f3": KeyF3, "f4": KeyF4, "f5": KeyF5, "f6": KeyF6,
	"f7": KeyF7, "f8": KeyF8, "f9": KeyF9, "f10": KeyF10, "f11": KeyF11, "f12": KeyF12,

	"minus": KeyMinus, "oemminus": KeyMinus, "equal": KeyEqual, "oemplus": KeyEqual,

	// Left and right modifiers are folded together.
	"shift": KeyShift, "leftshift": KeyShift, "rightshift": KeyShift,
	"control": KeyControl, "ctrl": KeyControl, "leftcontrol": KeyControl, "rightcontrol": KeyControl,
	"alt": KeyAlt, "leftalt": KeyAlt, "rightalt": KeyAlt,
}

// ParseKey resolves a key token case-insensitively.
func ParseKey(name string) (Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Input holds keyboard state for the current frame. The host feeds it
// Press/Release events and calls EndFrame once the frame is consumed.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

func (in *Input) Press(keys ...Key) {
	for _, k := range keys {
		if !valid(k) {
			continue
		}
		if !in.Pressed[k] {
			in.JustPressed[k] = true
		}
		in.Pressed[k] = true
	}
}

func (in *Input) Release(keys ...Key) {
	for _, k := range keys {
		if !valid(k) {
			continue
		}
		if in.Pressed[k] {
			in.JustReleased[k] = true
		}
		in.Pressed[k] = false
	}
}

// EndFrame clears the edge flags.
func (in *Input) EndFrame() {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
}

func valid(k Key) bool {
	return k >= 0 && k < keyCount
}
