package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/render/software"
)

// EnvBackend names the environment variable consulted when no backend flag
// is given.
const EnvBackend = "SANDBOX_RENDER_BACKEND"

var ErrUnknownBackend = errors.New("render: unknown backend")

// Renderer is the device the frame loop submits drawables to. One instance
// is chosen at startup and kept for the session.
type Renderer interface {
	Name() string
	Enabled() bool
	Resize(width, height int)
	BeginFrame(clear color.RGBA)
	// Submit draws mesh with the given world matrix as seen from cam. A nil
	// mesh is drawn as a placeholder by backends that draw at all.
	Submit(mesh *assets.MeshData, world mgl32.Mat4, cam *camera.Camera)
	EndFrame()
	// DrawCalls reports the submissions drawn since the last BeginFrame.
	DrawCalls() int
	Close() error
}

type Backend string

const (
	BackendSoftware Backend = "software"
	BackendHeadless Backend = "headless"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendSoftware, BackendHeadless:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// SelectBackend picks the first non-empty candidate in priority order
// (flag, environment, prefab) and falls back to the software backend.
func SelectBackend(candidates ...string) (Backend, error) {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		return ParseBackend(c)
	}
	return BackendSoftware, nil
}

func New(b Backend) (Renderer, error) {
	switch b {
	case BackendSoftware:
		return software.New(), nil
	case BackendHeadless:
		return NewHeadless(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, string(b))
	}
}

var (
	_ Renderer = (*software.Renderer)(nil)
	_ Renderer = (*Headless)(nil)
)
