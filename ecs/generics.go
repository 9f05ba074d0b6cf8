package ecs

import (
	"fmt"

	"github.com/milk9111/sandbox3d/ecs/component"
)

func storage[T any](w *World, kind component.ComponentKind[T], create bool) *SparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if raw, ok := w.stores[kind.ID()]; ok {
		s, _ := raw.(*SparseSet[T])
		return s
	}
	if !create {
		return nil
	}
	s := &SparseSet[T]{}
	w.stores[kind.ID()] = s
	return s
}

// Add attaches value to e, replacing any previous component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s: %w", kind, component.ErrNilComponent)
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("add %s to %s: %w", kind, e, component.ErrEntityNotAlive)
	}
	s := storage(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.Set(e, value)
	return nil
}

// Remove detaches the component of kind from e. Permanent kinds, such as the
// transform, stay attached.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if kind.Permanent() {
		return false
	}
	return storage(w, kind, false).Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return storage(w, kind, false).Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	v := storage(w, kind, false).Get(e)
	return v, v != nil
}

// Count returns how many entities carry a component of kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	return storage(w, kind, false).Len()
}
