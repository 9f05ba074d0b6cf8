package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/logging"
	"gopkg.in/yaml.v3"
)

type meshReport struct {
	Path      string     `yaml:"path"`
	Meshes    int        `yaml:"meshes"`
	Vertices  int        `yaml:"vertices"`
	Triangles int        `yaml:"triangles"`
	Min       [3]float32 `yaml:"min,flow"`
	Max       [3]float32 `yaml:"max,flow"`
	Size      [3]float32 `yaml:"size,flow"`
	Error     string     `yaml:"error,omitempty"`
}

func main() {
	list := flag.Bool("list", false, "list the embedded models and exit")
	asYAML := flag.Bool("yaml", false, "print reports as YAML")
	verbose := flag.Bool("v", false, "log asset manager activity to stderr")
	flag.Parse()

	if *list {
		models, err := assets.EmbeddedModels()
		if err != nil {
			log.Fatal(err)
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		models, err := assets.EmbeddedModels()
		if err != nil {
			log.Fatal(err)
		}
		paths = models
	}

	var logger logging.Logger = logging.Discard
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	reports := inspect(assets.NewManager(logger), paths)
	if err := write(os.Stdout, reports, *asYAML); err != nil {
		log.Fatal(err)
	}
	for _, r := range reports {
		if r.Error != "" {
			os.Exit(1)
		}
	}
}

// meshLoader is the part of *assets.Manager the report needs.
type meshLoader interface {
	LoadMesh(path string) (assets.MeshHandle, error)
	Mesh(h assets.MeshHandle) *assets.MeshData
}

func inspect(m meshLoader, paths []string) []meshReport {
	reports := make([]meshReport, 0, len(paths))
	for _, p := range paths {
		r := meshReport{Path: p}
		h, err := m.LoadMesh(p)
		if err != nil {
			r.Error = err.Error()
			reports = append(reports, r)
			continue
		}
		mesh := m.Mesh(h)
		if mesh == nil {
			r.Error = "mesh not resident"
			reports = append(reports, r)
			continue
		}
		r.Meshes = 1
		r.Vertices = len(mesh.Vertices)
		r.Triangles = mesh.TriangleCount()
		r.Min = [3]float32(mesh.Bounds.Min)
		r.Max = [3]float32(mesh.Bounds.Max)
		r.Size = [3]float32(mesh.Bounds.Size())
		reports = append(reports, r)
	}
	return reports
}

func write(w io.Writer, reports []meshReport, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, r := range reports {
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", r.Path, r.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %d vertices, %d triangles, bounds %v..%v (size %v)\n",
			r.Path, r.Vertices, r.Triangles, r.Min, r.Max, r.Size); err != nil {
			return err
		}
	}
	return nil
}
