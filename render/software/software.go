package software

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/common"
)

const (
	// nearW is the smallest clip-space w a vertex may have and still be
	// considered in front of the camera.
	nearW = 0.0001

	maxVertices = 65535
)

var (
	fallbackVertices = []assets.Vertex{
		{Position: mgl32.Vec3{-0.35, -0.30, 0.20}},
		{Position: mgl32.Vec3{0.35, -0.25, -0.65}},
		{Position: mgl32.Vec3{0.0, 0.40, 0.10}},
	}
	fallbackIndices = []uint32{0, 1, 2}
)

// Renderer rasterizes meshes onto the ebiten screen with DrawTriangles,
// shading each vertex by its depth.
type Renderer struct {
	screen     *ebiten.Image
	whiteImage *ebiten.Image
	white      *ebiten.Image

	width, height int
	drawCalls     int
	closed        bool

	vertices []ebiten.Vertex
	indices  []uint16
}

func New() *Renderer {
	return &Renderer{width: common.BaseWidth, height: common.BaseHeight}
}

func (r *Renderer) Name() string  { return "software" }
func (r *Renderer) Enabled() bool { return !r.closed }

// Bind sets the image the next frame draws to. The game binds the ebiten
// screen at the top of every Draw.
func (r *Renderer) Bind(screen *ebiten.Image) {
	r.screen = screen
	if screen != nil && r.white == nil {
		r.whiteImage = ebiten.NewImage(3, 3)
		r.whiteImage.Fill(color.White)
		r.white = r.whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
}

func (r *Renderer) Resize(width, height int) {
	r.width = max(1, width)
	r.height = max(1, height)
}

func (r *Renderer) BeginFrame(clear color.RGBA) {
	r.drawCalls = 0
	if r.closed || r.screen == nil {
		return
	}
	r.screen.Fill(clear)
}

func (r *Renderer) Submit(mesh *assets.MeshData, world mgl32.Mat4, cam *camera.Camera) {
	if r.closed || r.screen == nil || cam == nil {
		return
	}

	mvp := cam.ViewProjection().Mul4(world)
	var ok bool
	r.vertices, r.indices, ok = project(r.vertices[:0], r.indices[:0], mesh, mvp, r.width, r.height)
	if !ok || len(r.indices) == 0 {
		return
	}

	r.screen.DrawTriangles(r.vertices, r.indices, r.white, &ebiten.DrawTrianglesOptions{})
	r.drawCalls++
}

func (r *Renderer) EndFrame() {}

func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.screen = nil
	if r.whiteImage != nil {
		r.whiteImage.Deallocate()
		r.whiteImage, r.white = nil, nil
	}
	return nil
}

// project transforms mesh into screen-space vertices and triangle indices,
// appending to vs and is. Triangles with a vertex behind the near plane are
// dropped. It reports false when the mesh cannot be drawn at all: an index
// points past the vertex list or the mesh is too large for 16-bit indices.
func project(vs []ebiten.Vertex, is []uint16, mesh *assets.MeshData, mvp mgl32.Mat4, width, height int) ([]ebiten.Vertex, []uint16, bool) {
	vertices, indices := fallbackVertices, fallbackIndices
	if mesh != nil && len(mesh.Vertices) >= 3 {
		vertices = mesh.Vertices
		if len(mesh.Indices) >= 3 {
			indices = mesh.Indices
		}
	}
	if len(vertices) > maxVertices {
		return vs, is, false
	}

	w := float32(max(1, width))
	h := float32(max(1, height))
	behind := make([]bool, len(vertices))
	for i, v := range vertices {
		clip := mvp.Mul4x1(v.Position.Vec4(1))
		if clip.W() <= nearW {
			behind[i] = true
			vs = append(vs, ebiten.Vertex{})
			continue
		}

		inv := 1 / clip.W()
		ndcX, ndcY, ndcZ := clip.X()*inv, clip.Y()*inv, clip.Z()*inv
		depth := common.Clamp((ndcZ+1)*0.5, 0, 1)
		shade := (220 - depth*100) / 255

		vs = append(vs, ebiten.Vertex{
			DstX:   (ndcX*0.5 + 0.5) * w,
			DstY:   (1 - (ndcY*0.5 + 0.5)) * h,
			SrcX:   1,
			SrcY:   1,
			ColorR: 1,
			ColorG: shade,
			ColorB: 90.0 / 255,
			ColorA: 1,
		})
	}

	n := uint32(len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if a >= n || b >= n || c >= n {
			return vs, is[:0], false
		}
		if behind[a] || behind[b] || behind[c] {
			continue
		}
		is = append(is, uint16(a), uint16(b), uint16(c))
	}
	return vs, is, true
}
