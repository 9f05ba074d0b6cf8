package ecs

import "github.com/milk9111/sandbox3d/ecs/component"

// ForEach calls fn for every entity holding kind, in insertion order.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storage(w, kind, false)
	if s == nil || fn == nil {
		return
	}
	for i, e := range s.denseEntities {
		fn(e, s.denseValues[i])
	}
}

// First returns the first entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storage(w, kind, false)
	if s.Len() == 0 {
		return 0, false
	}
	return s.denseEntities[0], true
}
