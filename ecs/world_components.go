package ecs

import "github.com/milk9111/sandbox3d/ecs/component"

// AddMeshComponent attaches a mesh; the last write wins.
func (w *World) AddMeshComponent(e Entity, mesh component.Mesh) error {
	return Add(w, e, component.MeshComponent.Kind(), &mesh)
}

// FindMeshComponent returns e's mesh, or false when it has none.
func (w *World) FindMeshComponent(e Entity) (*component.Mesh, bool) {
	return Get(w, e, component.MeshComponent.Kind())
}

func (w *World) MeshComponentCount() int {
	return Count(w, component.MeshComponent.Kind())
}

func (w *World) AddCameraComponent(e Entity, cam component.Camera) error {
	return Add(w, e, component.CameraComponent.Kind(), &cam)
}

func (w *World) FindCameraComponent(e Entity) (*component.Camera, bool) {
	return Get(w, e, component.CameraComponent.Kind())
}

// FindByName returns the first entity whose Name component equals name.
func (w *World) FindByName(name string) (Entity, bool) {
	if name == "" {
		return 0, false
	}
	var found Entity
	ForEach(w, component.NameComponent.Kind(), func(e Entity, n *component.Name) {
		if !found.Valid() && n.Value == name {
			found = e
		}
	})
	return found, found.Valid()
}
