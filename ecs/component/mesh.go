package component

import "github.com/milk9111/sandbox3d/assets"

// Mesh links an entity to a mesh owned by the asset manager.
type Mesh struct {
	Handle assets.MeshHandle
}

var MeshComponent = NewComponent[Mesh]("mesh")
