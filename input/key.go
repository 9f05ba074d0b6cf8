package input

import "strings"

// Key is the engine's key identity, independent of any platform key code.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF1
	KeyF2
	KeyF5
	KeyW
	KeyA
	KeyS
	KeyD
	KeyLeftShift
	KeyRightShift
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:    "unknown",
	KeyEscape:     "escape",
	KeyF1:         "f1",
	KeyF2:         "f2",
	KeyF5:         "f5",
	KeyW:          "w",
	KeyA:          "a",
	KeyS:          "s",
	KeyD:          "d",
	KeyLeftShift:  "left_shift",
	KeyRightShift: "right_shift",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyUp:         "up",
	KeyDown:       "down",
	KeySpace:      "space",
}

func (k Key) String() string {
	if !k.known() {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}

func (k Key) known() bool {
	return k > KeyUnknown && k < keyCount
}

// Keys returns every mappable key.
func Keys() []Key {
	out := make([]Key, 0, keyCount-1)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKey looks a key up by its String name, case-insensitively.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Keys() {
		if keyNames[k] == name {
			return k, true
		}
	}
	return KeyUnknown, false
}
