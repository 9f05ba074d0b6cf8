package assets

import (
	"sort"

	"github.com/milk9111/sandbox3d/logging"
)

// Manager owns loaded meshes and hands out handles for them. Repeated loads
// of the same path return the cached handle.
type Manager struct {
	logger     logging.Logger
	load       func(path string) ([]MeshData, error)
	nextHandle MeshHandle
	pathCache  map[string]MeshHandle
	meshes     map[MeshHandle]*MeshData
}

func NewManager(logger logging.Logger) *Manager {
	return &Manager{
		logger:     logging.OrDiscard(logger),
		load:       Load,
		nextHandle: 1,
		pathCache:  make(map[string]MeshHandle),
		meshes:     make(map[MeshHandle]*MeshData),
	}
}

// LoadMesh loads the first mesh in the file at path. On failure it returns
// the zero handle and a *ResourceError; nothing is cached.
func (m *Manager) LoadMesh(path string) (MeshHandle, error) {
	if h, ok := m.pathCache[path]; ok {
		m.logger.Printf("assets: cache hit for mesh %s", path)
		return h, nil
	}

	meshes, err := m.load(path)
	if err == nil && len(meshes) == 0 {
		err = resourceError(path, ErrNoMeshes)
	}
	if err != nil {
		m.logger.Printf("assets: failed to load mesh %s: %v", path, err)
		return 0, err
	}

	h := m.nextHandle
	m.nextHandle++
	mesh := meshes[0]
	m.meshes[h] = &mesh
	m.pathCache[path] = h

	m.logger.Printf("assets: loaded mesh %s (%d vertices, %d triangles)", path, len(mesh.Vertices), mesh.TriangleCount())
	return h, nil
}

// AddMesh registers a mesh that was built in code rather than loaded.
func (m *Manager) AddMesh(mesh MeshData) MeshHandle {
	h := m.nextHandle
	m.nextHandle++
	m.meshes[h] = &mesh
	return h
}

// Mesh returns the mesh for h, or nil when h is invalid or unloaded.
func (m *Manager) Mesh(h MeshHandle) *MeshData {
	if !h.Valid() {
		return nil
	}
	return m.meshes[h]
}

// UnloadMesh drops the mesh and every cached path that pointed at it.
// Handles are never reused.
func (m *Manager) UnloadMesh(h MeshHandle) bool {
	if _, ok := m.meshes[h]; !ok || !h.Valid() {
		return false
	}
	delete(m.meshes, h)
	for p, cached := range m.pathCache {
		if cached == h {
			delete(m.pathCache, p)
		}
	}
	return true
}

func (m *Manager) MeshCount() int {
	return len(m.meshes)
}

// Handles returns the live handles in ascending order.
func (m *Manager) Handles() []MeshHandle {
	out := make([]MeshHandle, 0, len(m.meshes))
	for h := range m.meshes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close releases every mesh.
func (m *Manager) Close() {
	clear(m.meshes)
	clear(m.pathCache)
}
