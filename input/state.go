package input

import "github.com/go-gl/mathgl/mgl32"

// State aggregates keyboard and pointer input for one frame.
//
// BeginFrame must run once per frame before events are fed in. Edge sets
// and deltas then collect every event until the next BeginFrame.
type State struct {
	down     [keyCount]bool
	pressed  [keyCount]bool
	released [keyCount]bool

	mousePosition mgl32.Vec2
	mouseDelta    mgl32.Vec2
	mouseSeen     bool
	scrollDelta   float32
}

func NewState() *State {
	return &State{}
}

// BeginFrame clears edge sets and per-frame deltas. Held keys and the
// absolute mouse position carry over.
func (s *State) BeginFrame() {
	s.pressed = [keyCount]bool{}
	s.released = [keyCount]bool{}
	s.mouseDelta = mgl32.Vec2{}
	s.scrollDelta = 0
}

func (s *State) OnKeyDown(k Key) {
	if !k.known() {
		return
	}
	if !s.down[k] {
		s.pressed[k] = true
	}
	s.down[k] = true
}

func (s *State) OnKeyUp(k Key) {
	if !k.known() {
		return
	}
	if s.down[k] {
		s.released[k] = true
	}
	s.down[k] = false
}

// OnMouseMove records an absolute pointer position and adds the movement
// since the previous one to this frame's delta. The very first report only
// seeds the position, so the camera does not jump when the cursor appears.
func (s *State) OnMouseMove(x, y float32) {
	p := mgl32.Vec2{x, y}
	if !s.mouseSeen {
		s.mouseSeen = true
		s.mousePosition = p
		return
	}
	s.mouseDelta = s.mouseDelta.Add(p.Sub(s.mousePosition))
	s.mousePosition = p
}

func (s *State) OnScroll(dy float32) {
	s.scrollDelta += dy
}

func (s *State) IsDown(k Key) bool {
	return k.known() && s.down[k]
}

func (s *State) WasPressed(k Key) bool {
	return k.known() && s.pressed[k]
}

func (s *State) WasReleased(k Key) bool {
	return k.known() && s.released[k]
}

// AnyDown reports whether at least one of keys is held.
func (s *State) AnyDown(keys ...Key) bool {
	for _, k := range keys {
		if s.IsDown(k) {
			return true
		}
	}
	return false
}

func (s *State) MousePosition() mgl32.Vec2 { return s.mousePosition }
func (s *State) MouseDelta() mgl32.Vec2    { return s.mouseDelta }
func (s *State) ScrollDelta() float32      { return s.scrollDelta }

// Pressed lists the keys that went down this frame.
func (s *State) Pressed() []Key {
	return collect(&s.pressed)
}

// Released lists the keys that went up this frame.
func (s *State) Released() []Key {
	return collect(&s.released)
}

func collect(set *[keyCount]bool) []Key {
	var out []Key
	for k, on := range set {
		if on {
			out = append(out, Key(k))
		}
	}
	return out
}
