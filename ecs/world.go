package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/ecs/component"
)

// World is the scene: it owns the entity hierarchy and every component
// storage. It is not safe for concurrent use; the frame loop owns it.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]any
	events   EventQueue

	// transforms aliases the TransformComponent storage in stores.
	transforms *SparseSet[component.Transform]
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{stores: make(map[component.ComponentID]any)}
	w.transforms = storage(w, component.TransformComponent.Kind(), true)
	return w
}

// CreateEntity allocates the next handle under parent and installs a default
// transform. Pass 0 for a root entity. A parent that was never created is
// rejected with component.ErrUnknownParent and nothing is allocated.
func (w *World) CreateEntity(parent Entity) (Entity, error) {
	e, err := w.entities.create(parent)
	if err != nil {
		return 0, err
	}
	w.transforms.Set(e, component.NewTransform())
	return e, nil
}

// IsAlive reports whether e was created by this world.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Parent returns e's parent, if it has one.
func (w *World) Parent(e Entity) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	return w.entities.parent(e)
}

// Transform returns e's transform for mutation, or nil for an unknown handle.
func (w *World) Transform(e Entity) *component.Transform {
	if w == nil {
		return nil
	}
	return w.transforms.Get(e)
}

// Events is the queue systems raise notifications on. The frame loop drains
// it once per frame.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Entities returns every entity in creation order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.entities.nodes))
	for _, n := range w.entities.nodes {
		out = append(out, n.entity)
	}
	return out
}

func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return w.entities.count()
}

// ComputeWorldMatrix composes parent_world * child_local from e up to its
// root. Dirty transforms on the chain are rebuilt as they are read; nothing
// above the individual local matrices is cached between calls.
func (w *World) ComputeWorldMatrix(e Entity) (mgl32.Mat4, bool) {
	if w == nil {
		return mgl32.Ident4(), false
	}
	local := w.transforms.Get(e)
	if local == nil {
		return mgl32.Ident4(), false
	}

	world := local.Matrix()
	for p, ok := w.entities.parent(e); ok; p, ok = w.entities.parent(p) {
		pt := w.transforms.Get(p)
		if pt == nil {
			break
		}
		world = pt.Matrix().Mul4(world)
	}
	return world, true
}
