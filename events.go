package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sandbox3d/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyF1:         input.KeyF1,
	ebiten.KeyF2:         input.KeyF2,
	ebiten.KeyF5:         input.KeyF5,
	ebiten.KeyW:          input.KeyW,
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyShiftLeft:  input.KeyLeftShift,
	ebiten.KeyShiftRight: input.KeyRightShift,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeySpace:      input.KeySpace,
}

// devicePoller is the slice of ebiten's polling API the event source reads.
type devicePoller interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
	Cursor() (int, int)
	Wheel() (float64, float64)
}

type ebitenPoller struct{}

func (ebitenPoller) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenPoller) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }
func (ebitenPoller) Cursor() (int, int)             { return ebiten.CursorPosition() }
func (ebitenPoller) Wheel() (float64, float64)      { return ebiten.Wheel() }

// eventSource turns polled device state into input.State events.
type eventSource struct {
	poller devicePoller
}

func newEventSource(p devicePoller) *eventSource {
	if p == nil {
		p = ebitenPoller{}
	}
	return &eventSource{poller: p}
}

// Poll feeds this tick's key edges, cursor position and wheel motion into
// in. BeginFrame must already have run.
func (s *eventSource) Poll(in *input.State) {
	for ek, k := range keyMap {
		if s.poller.JustPressed(ek) {
			in.OnKeyDown(k)
		}
		if s.poller.JustReleased(ek) {
			in.OnKeyUp(k)
		}
	}

	x, y := s.poller.Cursor()
	in.OnMouseMove(float32(x), float32(y))

	if _, dy := s.poller.Wheel(); dy != 0 {
		in.OnScroll(float32(dy))
	}
}
