package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	glbMagic     = "glTF"
	glbChunkJSON = 0x4E4F534A
	glbChunkBIN  = 0x004E4942

	componentUnsignedByte  = 5121
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126

	modeTriangles = 4
)

// errNoGeometry marks a document that is structurally valid but whose
// geometry lives somewhere we cannot read.
var errNoGeometry = errors.New("assets: no readable geometry")

type gltfDocument struct {
	Asset       json.RawMessage  `json:"asset"`
	Buffers     []gltfBuffer     `json:"buffers"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Accessors   []gltfAccessor   `json:"accessors"`
	Meshes      []gltfMesh       `json:"meshes"`
}

type gltfBuffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Mode       *int           `json:"mode"`
}

// Load reads a .gltf or .glb file from disk or the embedded assets and
// returns its meshes. Every failure is a *ResourceError.
func Load(p string) ([]MeshData, error) {
	ext := strings.ToLower(filepath.Ext(p))
	if ext != ".gltf" && ext != ".glb" {
		return nil, resourceError(p, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}

	data, err := LoadFile(p)
	if err != nil {
		return nil, resourceError(p, err)
	}

	dir := path.Dir(filepath.ToSlash(p))
	meshes, err := Decode(ext, data, func(uri string) ([]byte, error) {
		return LoadFile(path.Join(dir, uri))
	})
	if err != nil {
		return nil, resourceError(p, err)
	}
	return meshes, nil
}

// Decode parses a glTF document. ext selects JSON (".gltf") or binary
// (".glb") framing; external resolves buffer URIs that are neither data URIs
// nor the GLB binary chunk and may be nil.
//
// A valid document without readable triangle geometry decodes to the
// placeholder cone.
func Decode(ext string, data []byte, external func(uri string) ([]byte, error)) ([]MeshData, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var (
		jsonChunk = data
		binChunk  []byte
		err       error
	)
	switch ext {
	case ".gltf":
	case ".glb":
		jsonChunk, binChunk, err = splitGLB(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if a := bytes.TrimSpace(doc.Asset); len(a) == 0 || a[0] != '{' {
		return nil, fmt.Errorf("%w: missing asset object", ErrInvalidDocument)
	}

	buffers, err := doc.resolveBuffers(binChunk, external)
	if err != nil {
		return nil, err
	}

	meshes, err := doc.extractMeshes(buffers)
	if errors.Is(err, errNoGeometry) {
		return []MeshData{ConeMesh(ConeSegments)}, nil
	}
	if err != nil {
		return nil, err
	}
	return meshes, nil
}

func splitGLB(data []byte) ([]byte, []byte, error) {
	if len(data) < 12 || string(data[:4]) != glbMagic {
		return nil, nil, fmt.Errorf("%w: missing glTF magic", ErrInvalidDocument)
	}
	total := int(binary.LittleEndian.Uint32(data[8:12]))
	if total > len(data) {
		return nil, nil, fmt.Errorf("%w: truncated binary container", ErrInvalidDocument)
	}

	var jsonChunk, binChunk []byte
	for off := 12; off+8 <= total; {
		size := int(binary.LittleEndian.Uint32(data[off : off+4]))
		kind := binary.LittleEndian.Uint32(data[off+4 : off+8])
		start := off + 8
		if size < 0 || start+size > total {
			return nil, nil, fmt.Errorf("%w: chunk overruns container", ErrInvalidDocument)
		}
		switch kind {
		case glbChunkJSON:
			if jsonChunk == nil {
				jsonChunk = data[start : start+size]
			}
		case glbChunkBIN:
			if binChunk == nil {
				binChunk = data[start : start+size]
			}
		}
		off = start + size
	}
	if jsonChunk == nil {
		return nil, nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidDocument)
	}
	return jsonChunk, binChunk, nil
}

// resolveBuffers loads every buffer it can. Buffers that cannot be reached
// stay nil and only matter if a mesh reads from them.
func (d *gltfDocument) resolveBuffers(bin []byte, external func(string) ([]byte, error)) ([][]byte, error) {
	out := make([][]byte, len(d.Buffers))
	for i, b := range d.Buffers {
		switch {
		case b.URI == "":
			if i == 0 {
				out[i] = bin
			}
		case strings.HasPrefix(b.URI, "data:"):
			comma := strings.IndexByte(b.URI, ',')
			if comma < 0 || !strings.HasSuffix(b.URI[:comma], ";base64") {
				return nil, fmt.Errorf("%w: buffer %d: unsupported data URI", ErrInvalidDocument, i)
			}
			raw, err := base64.StdEncoding.DecodeString(b.URI[comma+1:])
			if err != nil {
				return nil, fmt.Errorf("%w: buffer %d: %v", ErrInvalidDocument, i, err)
			}
			out[i] = raw
		case external != nil:
			if raw, err := external(b.URI); err == nil {
				out[i] = raw
			}
		}
		if out[i] != nil && b.ByteLength > len(out[i]) {
			return nil, fmt.Errorf("%w: buffer %d shorter than byteLength", ErrInvalidDocument, i)
		}
	}
	return out, nil
}

func (d *gltfDocument) extractMeshes(buffers [][]byte) ([]MeshData, error) {
	var out []MeshData
	for _, m := range d.Meshes {
		var mesh MeshData
		for _, prim := range m.Primitives {
			if prim.Mode != nil && *prim.Mode != modeTriangles {
				continue
			}
			posIndex, ok := prim.Attributes["POSITION"]
			if !ok {
				continue
			}

			positions, err := d.readPositions(buffers, posIndex)
			if err != nil {
				return nil, err
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = d.readIndices(buffers, *prim.Indices, len(positions))
				if err != nil {
					return nil, err
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			if len(indices)%3 != 0 {
				return nil, fmt.Errorf("%w: mesh %q: index count %d is not a triangle list", ErrInvalidDocument, m.Name, len(indices))
			}

			base := uint32(len(mesh.Vertices))
			for _, p := range positions {
				mesh.Vertices = append(mesh.Vertices, Vertex{Position: p})
			}
			for _, idx := range indices {
				mesh.Indices = append(mesh.Indices, base+idx)
			}
		}
		if len(mesh.Vertices) == 0 {
			continue
		}
		mesh.Bounds = ComputeAABB(mesh.Vertices)
		out = append(out, mesh)
	}

	if len(out) == 0 {
		return nil, errNoGeometry
	}
	return out, nil
}

// accessorData returns the bytes backing accessor idx together with the
// stride between elements, after checking every element is in range.
func (d *gltfDocument) accessorData(buffers [][]byte, idx, elemSize int) (gltfAccessor, []byte, int, error) {
	if idx < 0 || idx >= len(d.Accessors) {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d out of range", ErrInvalidDocument, idx)
	}
	acc := d.Accessors[idx]
	if acc.BufferView == nil {
		return gltfAccessor{}, nil, 0, errNoGeometry
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: buffer view %d out of range", ErrInvalidDocument, *acc.BufferView)
	}
	view := d.BufferViews[*acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(buffers) {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: buffer %d out of range", ErrInvalidDocument, view.Buffer)
	}
	buf := buffers[view.Buffer]
	if buf == nil {
		return gltfAccessor{}, nil, 0, errNoGeometry
	}

	if view.ByteOffset < 0 || view.ByteLength < 0 || view.ByteStride < 0 || acc.ByteOffset < 0 || acc.Count < 0 {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d has a negative offset, length, stride or count", ErrInvalidDocument, idx)
	}
	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d stride %d is smaller than its %d byte element", ErrInvalidDocument, idx, stride, elemSize)
	}
	if view.ByteOffset > len(buf) || view.ByteLength > len(buf)-view.ByteOffset {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d exceeds its buffer", ErrInvalidDocument, idx)
	}
	if acc.ByteOffset > view.ByteLength {
		return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d starts past its buffer view", ErrInvalidDocument, idx)
	}
	viewEnd := view.ByteOffset + view.ByteLength
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		avail := viewEnd - start
		if avail < elemSize || acc.Count-1 > (avail-elemSize)/stride {
			return gltfAccessor{}, nil, 0, fmt.Errorf("%w: accessor %d exceeds its buffer view", ErrInvalidDocument, idx)
		}
	}
	return acc, buf[start:viewEnd], stride, nil
}

func (d *gltfDocument) readPositions(buffers [][]byte, idx int) ([]mgl32.Vec3, error) {
	if idx >= 0 && idx < len(d.Accessors) {
		acc := d.Accessors[idx]
		if acc.Type != "VEC3" || acc.ComponentType != componentFloat {
			return nil, fmt.Errorf("%w: POSITION accessor %d must be float VEC3", ErrInvalidDocument, idx)
		}
	}

	acc, data, stride, err := d.accessorData(buffers, idx, 12)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec3, acc.Count)
	for i := range out {
		off := i * stride
		for c := 0; c < 3; c++ {
			bits := binary.LittleEndian.Uint32(data[off+c*4:])
			out[i][c] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

func (d *gltfDocument) readIndices(buffers [][]byte, idx, vertexCount int) ([]uint32, error) {
	if idx < 0 || idx >= len(d.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidDocument, idx)
	}

	var size int
	switch d.Accessors[idx].ComponentType {
	case componentUnsignedByte:
		size = 1
	case componentUnsignedShort:
		size = 2
	case componentUnsignedInt:
		size = 4
	default:
		return nil, fmt.Errorf("%w: index accessor %d has component type %d", ErrInvalidDocument, idx, d.Accessors[idx].ComponentType)
	}

	acc, data, stride, err := d.accessorData(buffers, idx, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, acc.Count)
	for i := range out {
		off := i * stride
		var v uint32
		switch size {
		case 1:
			v = uint32(data[off])
		case 2:
			v = uint32(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			v = binary.LittleEndian.Uint32(data[off:])
		}
		if int(v) >= vertexCount {
			return nil, fmt.Errorf("%w: index %d out of range for %d vertices", ErrInvalidDocument, v, vertexCount)
		}
		out[i] = v
	}
	return out, nil
}
