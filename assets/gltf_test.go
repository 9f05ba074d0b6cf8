package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func packFloats(vs ...float32) []byte {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func packShorts(vs ...uint16) []byte {
	buf := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}

// triangleDoc builds a one-triangle document whose buffer is either a data
// URI or, when uri is non-empty, an external reference.
func triangleDoc(t *testing.T, uri string, indices []uint16) ([]byte, []byte) {
	t.Helper()
	pos := packFloats(0, 0, 0, 1, 0, 0, 0, 2, 0)
	idx := packShorts(indices...)
	buf := append(append([]byte{}, pos...), idx...)

	bufURI := uri
	if bufURI == "" {
		bufURI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf)
	}
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"meshes": []any{map[string]any{
			"name":       "tri",
			"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 0}, "indices": 1}},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": componentFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": componentUnsignedShort, "count": len(indices), "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": len(pos)},
			map[string]any{"buffer": 0, "byteOffset": len(pos), "byteLength": len(idx)},
		},
		"buffers": []any{map[string]any{"byteLength": len(buf), "uri": bufURI}},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out, buf
}

func glb(jsonChunk, bin []byte) []byte {
	pad := func(b []byte, fill byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, fill)
		}
		return b
	}
	jsonChunk = pad(append([]byte{}, jsonChunk...), ' ')
	bin = pad(append([]byte{}, bin...), 0)

	var out bytes.Buffer
	total := 12 + 8 + len(jsonChunk)
	if bin != nil {
		total += 8 + len(bin)
	}
	out.WriteString(glbMagic)
	_ = binary.Write(&out, binary.LittleEndian, uint32(2))
	_ = binary.Write(&out, binary.LittleEndian, uint32(total))
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(jsonChunk)))
	_ = binary.Write(&out, binary.LittleEndian, uint32(glbChunkJSON))
	out.Write(jsonChunk)
	if bin != nil {
		_ = binary.Write(&out, binary.LittleEndian, uint32(len(bin)))
		_ = binary.Write(&out, binary.LittleEndian, uint32(glbChunkBIN))
		out.Write(bin)
	}
	return out.Bytes()
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		file string
		data []byte
		want error
	}{
		{"unsupported_extension", "mesh.obj", []byte("v 0 0 0"), ErrUnsupportedFormat},
		{"empty_gltf", "empty.gltf", []byte{}, ErrEmptyFile},
		{"empty_glb", "empty.glb", []byte{}, ErrEmptyFile},
		{"missing_asset", "noasset.gltf", []byte(`{"meshes":[]}`), ErrInvalidDocument},
		{"asset_not_object", "badasset.gltf", []byte(`{"asset":"2.0"}`), ErrInvalidDocument},
		{"not_json", "garbage.gltf", []byte(`"asset" but not json`), ErrInvalidDocument},
		{"glb_without_magic", "bad.glb", []byte("GLTF0000000000000000"), ErrInvalidDocument},
		{"glb_too_short", "short.glb", []byte("glTF"), ErrInvalidDocument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := writeFile(t, c.file, c.data)
			meshes, err := Load(p)
			if meshes != nil {
				t.Fatalf("failed load must not return meshes, got %d", len(meshes))
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			var re *ResourceError
			if !errors.As(err, &re) || re.Path != p {
				t.Fatalf("expected *ResourceError for %s, got %T %v", p, err, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.gltf"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestLoadPlaceholderCone(t *testing.T) {
	p := writeFile(t, "marker.gltf", []byte(`{"asset":{"version":"2.0"}}`))
	meshes, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected one mesh, got %d", len(meshes))
	}

	cone := meshes[0]
	if len(cone.Vertices) != ConeSegments+2 || len(cone.Indices) != ConeSegments*6 {
		t.Fatalf("unexpected cone size: %d vertices, %d indices", len(cone.Vertices), len(cone.Indices))
	}
	if !cone.Bounds.Max.ApproxEqualThreshold(mgl32.Vec3{0.35, 0.45, 0.35}, 1e-5) ||
		!cone.Bounds.Min.ApproxEqualThreshold(mgl32.Vec3{-0.35, -0.45, -0.35}, 1e-5) {
		t.Fatalf("unexpected cone bounds %+v", cone.Bounds)
	}
}

func TestLoadEmbeddedModels(t *testing.T) {
	cases := []struct {
		path      string
		vertices  int
		triangles int
		max       mgl32.Vec3
	}{
		{"assets/models/cube.gltf", 8, 12, mgl32.Vec3{0.5, 0.5, 0.5}},
		{"assets/models/pyramid.gltf", 5, 6, mgl32.Vec3{0.5, 0.5, 0.5}},
		{"assets/models/cone.gltf", ConeSegments + 2, ConeSegments * 2, mgl32.Vec3{0.35, 0.45, 0.35}},
	}

	for _, c := range cases {
		t.Run(filepath.Base(c.path), func(t *testing.T) {
			meshes, err := Load(c.path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			m := meshes[0]
			if len(m.Vertices) != c.vertices || m.TriangleCount() != c.triangles {
				t.Fatalf("expected %d vertices/%d triangles, got %d/%d", c.vertices, c.triangles, len(m.Vertices), m.TriangleCount())
			}
			if !m.Bounds.Max.ApproxEqualThreshold(c.max, 1e-5) {
				t.Fatalf("expected max %v, got %v", c.max, m.Bounds.Max)
			}
		})
	}

	models, err := EmbeddedModels()
	if err != nil || len(models) != len(cases) {
		t.Fatalf("expected %d embedded models, got %v (%v)", len(cases), models, err)
	}
}

func TestDecodeDataURIBuffers(t *testing.T) {
	doc, _ := triangleDoc(t, "", []uint16{0, 1, 2})
	meshes, err := Decode(".gltf", doc, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := meshes[0]
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("expected a single triangle, got %+v", m)
	}
	if m.Vertices[2].Position != (mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("unexpected third vertex %v", m.Vertices[2].Position)
	}
	if m.Bounds.Max != (mgl32.Vec3{1, 2, 0}) {
		t.Fatalf("unexpected bounds %+v", m.Bounds)
	}
}

func TestDecodeIndexOutOfRange(t *testing.T) {
	doc, _ := triangleDoc(t, "", []uint16{0, 1, 9})
	if _, err := Decode(".gltf", doc, nil); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestDecodeRejectsMalformedAccessors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(accessors, views []any)
	}{
		{"negative_accessor_offset", func(accessors, views []any) {
			accessors[0].(map[string]any)["byteOffset"] = -12
		}},
		{"zero_count_offset_past_view", func(accessors, views []any) {
			accessors[1].(map[string]any)["count"] = 0
			accessors[1].(map[string]any)["byteOffset"] = 100
		}},
		{"negative_stride", func(accessors, views []any) {
			views[0].(map[string]any)["byteStride"] = -12
		}},
		{"negative_view_length", func(accessors, views []any) {
			views[1].(map[string]any)["byteLength"] = -4
		}},
		{"negative_view_offset", func(accessors, views []any) {
			views[0].(map[string]any)["byteOffset"] = -8
		}},
		{"stride_smaller_than_element", func(accessors, views []any) {
			views[0].(map[string]any)["byteStride"] = 4
		}},
		{"view_past_buffer", func(accessors, views []any) {
			views[1].(map[string]any)["byteOffset"] = 1000
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, _ := triangleDoc(t, "", []uint16{0, 1, 2})
			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tc.mutate(doc["accessors"].([]any), doc["bufferViews"].([]any))
			out, err := json.Marshal(doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("decode panicked: %v", r)
				}
			}()
			if _, err := Decode(".gltf", out, nil); !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestDecodeExternalBuffers(t *testing.T) {
	doc, buf := triangleDoc(t, "tri.bin", []uint16{0, 1, 2})

	t.Run("unresolved_falls_back_to_cone", func(t *testing.T) {
		meshes, err := Decode(".gltf", doc, nil)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(meshes[0].Vertices) != ConeSegments+2 {
			t.Fatalf("expected placeholder cone, got %d vertices", len(meshes[0].Vertices))
		}
	})

	t.Run("resolved", func(t *testing.T) {
		var asked string
		meshes, err := Decode(".gltf", doc, func(uri string) ([]byte, error) {
			asked = uri
			return buf, nil
		})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if asked != "tri.bin" || len(meshes[0].Vertices) != 3 {
			t.Fatalf("expected external triangle, asked %q got %d vertices", asked, len(meshes[0].Vertices))
		}
	})

	t.Run("load_relative_to_document", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "tri.bin"), buf, 0o644); err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(dir, "tri.gltf")
		if err := os.WriteFile(p, doc, 0o644); err != nil {
			t.Fatal(err)
		}
		meshes, err := Load(p)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(meshes[0].Vertices) != 3 {
			t.Fatalf("expected triangle from sibling buffer, got %d vertices", len(meshes[0].Vertices))
		}
	})
}

func TestDecodeGLB(t *testing.T) {
	doc, buf := triangleDoc(t, "", []uint16{0, 1, 2})

	// Same document, but buffer 0 points at the binary chunk.
	var parsed map[string]any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatal(err)
	}
	parsed["buffers"] = []any{map[string]any{"byteLength": len(buf)}}
	jsonChunk, err := json.Marshal(parsed)
	if err != nil {
		t.Fatal(err)
	}

	meshes, err := Decode(".glb", glb(jsonChunk, buf), nil)
	if err != nil {
		t.Fatalf("decode glb: %v", err)
	}
	if len(meshes[0].Vertices) != 3 {
		t.Fatalf("expected triangle from BIN chunk, got %d vertices", len(meshes[0].Vertices))
	}

	onlyJSON := glb([]byte(`{"asset":{"version":"2.0"}}`), nil)
	meshes, err = Decode(".glb", onlyJSON, nil)
	if err != nil || len(meshes[0].Vertices) != ConeSegments+2 {
		t.Fatalf("json-only glb should decode to the placeholder, got %v", err)
	}
}

func TestComputeAABB(t *testing.T) {
	if got := ComputeAABB(nil); got != (AABB{}) {
		t.Fatalf("empty input should give zero box, got %+v", got)
	}
	b := ComputeAABB([]Vertex{
		{Position: mgl32.Vec3{1, -2, 3}},
		{Position: mgl32.Vec3{-1, 4, 0}},
	})
	if b.Min != (mgl32.Vec3{-1, -2, 0}) || b.Max != (mgl32.Vec3{1, 4, 3}) {
		t.Fatalf("unexpected bounds %+v", b)
	}
	if b.Center() != (mgl32.Vec3{0, 1, 1.5}) {
		t.Fatalf("unexpected center %v", b.Center())
	}
}
