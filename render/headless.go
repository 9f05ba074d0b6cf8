package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
)

// Submission is one recorded draw.
type Submission struct {
	Mesh  *assets.MeshData
	World mgl32.Mat4
	MVP   mgl32.Mat4
}

// Headless draws nothing. It counts draw calls and keeps the submissions of
// the current frame, which makes it useful for tests and servers without a
// display.
type Headless struct {
	width, height int
	clear         color.RGBA
	frames        int
	drawCalls     int
	submissions   []Submission
	closed        bool
}

func NewHeadless() *Headless {
	return &Headless{width: 1, height: 1}
}

func (h *Headless) Name() string  { return string(BackendHeadless) }
func (h *Headless) Enabled() bool { return !h.closed }

func (h *Headless) Resize(width, height int) {
	h.width = max(1, width)
	h.height = max(1, height)
}

func (h *Headless) Size() (int, int) {
	return h.width, h.height
}

func (h *Headless) BeginFrame(clear color.RGBA) {
	h.clear = clear
	h.drawCalls = 0
	h.submissions = h.submissions[:0]
}

func (h *Headless) Submit(mesh *assets.MeshData, world mgl32.Mat4, cam *camera.Camera) {
	if h.closed || cam == nil {
		return
	}
	h.drawCalls++
	h.submissions = append(h.submissions, Submission{
		Mesh:  mesh,
		World: world,
		MVP:   cam.ViewProjection().Mul4(world),
	})
}

func (h *Headless) EndFrame() {
	if h.closed {
		return
	}
	h.frames++
}

func (h *Headless) DrawCalls() int            { return h.drawCalls }
func (h *Headless) Frames() int               { return h.frames }
func (h *Headless) ClearColor() color.RGBA    { return h.clear }
func (h *Headless) Submissions() []Submission { return h.submissions }

func (h *Headless) Close() error {
	h.closed = true
	h.submissions = nil
	return nil
}
