package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const SandboxFile = "sandbox.yaml"

// SandboxSpec describes the startup scene and the runtime tuning that can be
// hot reloaded while the sandbox runs.
type SandboxSpec struct {
	Window   WindowSpec        `yaml:"window"`
	Renderer RendererSpec      `yaml:"renderer"`
	Clock    ClockSpec         `yaml:"clock"`
	Camera   CameraSpec        `yaml:"camera"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

type WindowSpec struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable *bool  `yaml:"resizable"`
}

type RendererSpec struct {
	Backend    string     `yaml:"backend"`
	ClearColor *YAMLColor `yaml:"clear_color"`
}

type ClockSpec struct {
	MaxDelta float64 `yaml:"max_delta"`
}

// CameraSpec angles are in degrees.
type CameraSpec struct {
	Position       *Vec3Spec `yaml:"position"`
	Yaw            *float64  `yaml:"yaw"`
	Pitch          float64   `yaml:"pitch"`
	FOV            float64   `yaml:"fov"`
	Near           float64   `yaml:"near"`
	Far            float64   `yaml:"far"`
	MoveSpeed      float64   `yaml:"move_speed"`
	FastMultiplier float64   `yaml:"fast_multiplier"`
	Sensitivity    float64   `yaml:"sensitivity"`
}

var DefaultClearColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x28, A: 0xff}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSandboxSpec(filename string) (*SandboxSpec, error) {
	if filename == "" {
		filename = SandboxFile
	}
	spec, err := LoadSpec[SandboxSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// DecodeSandboxSpec parses a sandbox document held in memory.
func DecodeSandboxSpec(data []byte) (*SandboxSpec, error) {
	var spec SandboxSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal sandbox: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("prefabs: sandbox: %w", err)
	}
	return &spec, nil
}

func (s *SandboxSpec) validate() error {
	seen := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.Parent != "" && !seen[e.Parent] {
			return fmt.Errorf("entity %d (%q): parent %q must be declared before its children", i, e.Name, e.Parent)
		}
		if e.Name != "" {
			if seen[e.Name] {
				return fmt.Errorf("entity %d: duplicate name %q", i, e.Name)
			}
			seen[e.Name] = true
		}
	}
	return nil
}

// ClearRGBA returns the configured clear color or the default.
func (s *SandboxSpec) ClearRGBA() color.RGBA {
	if s == nil || s.Renderer.ClearColor == nil || s.Renderer.ClearColor.Color == nil {
		return DefaultClearColor
	}
	return s.Renderer.ClearColor.RGBA8()
}

// Vec3Spec accepts either {x, y, z} or [x, y, z].
type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector needs 3 components, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
		return nil
	case yaml.MappingNode:
		type plain Vec3Spec
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*v = Vec3Spec(p)
		return nil
	default:
		return fmt.Errorf("vector must be a mapping or a sequence")
	}
}

// MarshalYAML writes the short [x, y, z] form.
func (v Vec3Spec) MarshalYAML() (any, error) {
	var n yaml.Node
	if err := n.Encode([]float64{v.X, v.Y, v.Z}); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	return &n, nil
}

func (v Vec3Spec) Array() [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// YAMLColor is written as #rrggbb, #rrggbbaa or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA8 converts to an alpha-premultiplied 8-bit color.
func (c *YAMLColor) RGBA8() color.RGBA {
	if c == nil || c.Color == nil {
		return DefaultClearColor
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}
