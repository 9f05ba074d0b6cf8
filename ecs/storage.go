package ecs

import "github.com/milk9111/sandbox3d/ecs/component"

// node is one slot of the hierarchy arena. Entity n lives at index n-1.
type node struct {
	entity Entity
	parent Entity
}

// entityStore is an append-only arena of hierarchy nodes. A parent must
// already be in the arena when a child is appended, so every parent handle
// is smaller than its child's and parent chains always reach a root.
type entityStore struct {
	nodes []node
}

func (s *entityStore) create(parent Entity) (Entity, error) {
	if parent != 0 && !s.isAlive(parent) {
		return 0, component.ErrUnknownParent
	}
	e := Entity(len(s.nodes) + 1)
	s.nodes = append(s.nodes, node{entity: e, parent: parent})
	return e, nil
}

func (s *entityStore) isAlive(e Entity) bool {
	return e.Valid() && e.index() < len(s.nodes)
}

func (s *entityStore) parent(e Entity) (Entity, bool) {
	if !s.isAlive(e) {
		return 0, false
	}
	p := s.nodes[e.index()].parent
	return p, p.Valid()
}

func (s *entityStore) count() int {
	return len(s.nodes)
}
