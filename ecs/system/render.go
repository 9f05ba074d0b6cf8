package system

import (
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/render"
)

// MeshSource resolves mesh handles; *assets.Manager implements it.
type MeshSource interface {
	Mesh(h assets.MeshHandle) *assets.MeshData
}

// RenderSystem submits every entity with a mesh to the renderer, in creation
// order, using its freshly composed world matrix.
type RenderSystem struct {
	meshes MeshSource
}

func NewRenderSystem(meshes MeshSource) *RenderSystem {
	return &RenderSystem{meshes: meshes}
}

// Draw returns how many entities were submitted. A handle that no longer
// resolves is still submitted with a nil mesh, which backends draw as a
// placeholder.
func (r *RenderSystem) Draw(w *ecs.World, renderer render.Renderer, cam *camera.Camera) int {
	if r == nil || w == nil || renderer == nil || cam == nil {
		return 0
	}

	submitted := 0
	for _, e := range w.Entities() {
		mc, ok := w.FindMeshComponent(e)
		if !ok {
			continue
		}
		world, ok := w.ComputeWorldMatrix(e)
		if !ok {
			continue
		}

		var mesh *assets.MeshData
		if r.meshes != nil {
			mesh = r.meshes.Mesh(mc.Handle)
		}
		renderer.Submit(mesh, world, cam)
		submitted++
	}
	return submitted
}
