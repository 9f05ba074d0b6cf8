package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is one entity in a sandbox scene. Parent names an entity
// declared earlier in the same document.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Components map[string]any `yaml:"components"`
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// TransformComponentSpec rotation is Euler XYZ in degrees.
type TransformComponentSpec struct {
	Position Vec3Spec  `yaml:"position"`
	Rotation Vec3Spec  `yaml:"rotation"`
	Scale    *Vec3Spec `yaml:"scale"`
}

// MeshComponentSpec may be written as a bare path: `mesh: assets/models/cube.gltf`.
type MeshComponentSpec struct {
	Path string `yaml:"path"`
}

func (m *MeshComponentSpec) UnmarshalYAML(value *yaml.Node) error {
	return decodePathSpec(value, &m.Path)
}

// SpinComponentSpec rate is in degrees per second.
type SpinComponentSpec struct {
	Rate Vec3Spec `yaml:"rate"`
}

type ControllerComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

// ScriptComponentSpec may be written as a bare path like MeshComponentSpec.
type ScriptComponentSpec struct {
	Path string `yaml:"path"`
}

func (s *ScriptComponentSpec) UnmarshalYAML(value *yaml.Node) error {
	return decodePathSpec(value, &s.Path)
}

type CameraComponentSpec struct {
	Primary bool `yaml:"primary"`
}

func decodePathSpec(value *yaml.Node, dst *string) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*dst = value.Value
		return nil
	case yaml.MappingNode:
		var p struct {
			Path string `yaml:"path"`
		}
		if err := value.Decode(&p); err != nil {
			return err
		}
		*dst = p.Path
		return nil
	default:
		return fmt.Errorf("expected a path or {path: ...}")
	}
}
