package assets

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshHandle identifies a mesh owned by a Manager. Zero is never valid.
type MeshHandle uint32

func (h MeshHandle) Valid() bool {
	return h != 0
}

type Vertex struct {
	Position mgl32.Vec3
}

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   AABB
}

func (m *MeshData) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// ComputeAABB returns the bounds of vertices, or a zero box when empty.
func ComputeAABB(vertices []Vertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}

	out := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			out.Min[i] = min(out.Min[i], v.Position[i])
			out.Max[i] = max(out.Max[i], v.Position[i])
		}
	}
	return out
}

const (
	coneRadius     = 0.35
	coneHalfHeight = 0.45
	ConeSegments   = 24
)

// ConeMesh builds the placeholder cone used when a document carries no
// readable geometry: an apex, a base center and a ring of segments.
func ConeMesh(segments int) MeshData {
	var mesh MeshData
	if segments < 3 {
		return mesh
	}

	mesh.Vertices = make([]Vertex, 0, segments+2)
	mesh.Vertices = append(mesh.Vertices,
		Vertex{Position: mgl32.Vec3{0, coneHalfHeight, 0}},
		Vertex{Position: mgl32.Vec3{0, -coneHalfHeight, 0}},
	)
	for i := 0; i < segments; i++ {
		t := 2 * math32.Pi * float32(i) / float32(segments)
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: mgl32.Vec3{
			coneRadius * math32.Cos(t),
			-coneHalfHeight,
			coneRadius * math32.Sin(t),
		}})
	}

	mesh.Indices = make([]uint32, 0, segments*6)
	for i := 0; i < segments; i++ {
		curr := uint32(2 + i)
		next := uint32(2 + (i+1)%segments)
		mesh.Indices = append(mesh.Indices, 0, curr, next)
	}
	// base cap, wound the other way
	for i := 0; i < segments; i++ {
		curr := uint32(2 + i)
		next := uint32(2 + (i+1)%segments)
		mesh.Indices = append(mesh.Indices, 1, next, curr)
	}

	mesh.Bounds = ComputeAABB(mesh.Vertices)
	return mesh
}
