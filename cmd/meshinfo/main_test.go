package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/logging"
	"gopkg.in/yaml.v3"
)

func TestInspectEmbeddedModels(t *testing.T) {
	m := assets.NewManager(logging.Discard)
	reports := inspect(m, []string{"assets/models/cube.gltf", "assets/models/missing.gltf"})
	if len(reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(reports))
	}

	cube := reports[0]
	if cube.Error != "" {
		t.Fatalf("cube: %s", cube.Error)
	}
	if cube.Vertices != 8 || cube.Triangles != 12 {
		t.Fatalf("expected 8 vertices and 12 triangles, got %d/%d", cube.Vertices, cube.Triangles)
	}
	if reports[1].Error == "" {
		t.Fatalf("missing model should report an error")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := write(&buf, []meshReport{
		{Path: "a.gltf", Vertices: 3, Triangles: 1},
		{Path: "b.gltf", Error: "boom"},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "a.gltf: 3 vertices, 1 triangles") || !strings.Contains(out, "b.gltf: error: boom") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	in := []meshReport{{Path: "a.gltf", Meshes: 1, Vertices: 3, Triangles: 1, Max: [3]float32{1, 1, 0}}}
	if err := write(&buf, in, true); err != nil {
		t.Fatal(err)
	}

	var out []meshReport
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, buf.String())
	}
	if len(out) != 1 || out[0].Path != "a.gltf" || out[0].Max != in[0].Max {
		t.Fatalf("unexpected decode %+v", out)
	}
}
