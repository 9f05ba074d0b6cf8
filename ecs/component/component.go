package component

import (
	"errors"
	"strconv"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
	ErrUnknownParent        = errors.New("ecs: parent entity does not exist")
)

// ComponentID is unique per registered kind for the life of the process.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key a World stores components under. The zero
// value is invalid.
type ComponentKind[T any] struct {
	id        ComponentID
	name      string
	permanent bool
}

// KindOption tweaks a kind at registration.
type KindOption func(*kindOptions)

type kindOptions struct {
	permanent bool
}

// Permanent marks a kind every entity carries from creation until the world
// is dropped. Removal of a permanent kind is refused.
func Permanent() KindOption {
	return func(o *kindOptions) { o.permanent = true }
}

// NewComponentKind registers a kind under name, which only shows up in
// diagnostics.
func NewComponentKind[T any](name string, opts ...KindOption) ComponentKind[T] {
	var o kindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return ComponentKind[T]{
		id:        ComponentID(nextComponentID.Add(1)),
		name:      name,
		permanent: o.permanent,
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }
func (k ComponentKind[T]) Valid() bool     { return k.id != 0 }
func (k ComponentKind[T]) Permanent() bool { return k.permanent }

func (k ComponentKind[T]) String() string {
	if k.name != "" {
		return k.name
	}
	return "component#" + strconv.FormatUint(uint64(k.id), 10)
}

// ComponentHandle is what the component files export, one per type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string, opts ...KindOption) ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T](name, opts...)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
