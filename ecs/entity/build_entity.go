package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/component"
	"github.com/milk9111/sandbox3d/logging"
	"github.com/milk9111/sandbox3d/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// MeshLoader resolves a mesh path to a handle; *assets.Manager satisfies it.
type MeshLoader interface {
	LoadMesh(path string) (assets.MeshHandle, error)
}

// BuildContext carries the collaborators component builders need.
type BuildContext struct {
	Meshes MeshLoader
	Logger logging.Logger
}

// applyFn attaches an already decoded component. Decoding happens before the
// entity exists so a bad spec never leaves a half-built entity in the arena.
type applyFn func(w *ecs.World, e ecs.Entity) error

type componentBuildFn func(raw any, ctx *BuildContext) (applyFn, error)

var componentRegistry = map[string]componentBuildFn{
	"transform":  addTransform,
	"mesh":       addMesh,
	"spin":       addSpin,
	"controller": addController,
	"script":     addScript,
	"camera":     addCamera,
}

var componentBuildOrder = []string{
	"transform",
	"mesh",
	"camera",
	"spin",
	"controller",
	"script",
}

// BuildEntity creates one entity from its spec. A named parent must already
// exist in w.
func BuildEntity(w *ecs.World, spec entityPrefabSpec, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if ctx == nil {
		ctx = &BuildContext{}
	}
	label := spec.Name
	if label == "" {
		label = "<unnamed>"
	}

	var parent ecs.Entity
	if spec.Parent != "" {
		p, ok := w.FindByName(spec.Parent)
		if !ok {
			return 0, fmt.Errorf("build entity: %q: parent %q: %w", label, spec.Parent, component.ErrUnknownParent)
		}
		parent = p
	}

	names, err := orderedComponents(spec.Components)
	if err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", label, err)
	}

	applies := make([]applyFn, 0, len(names))
	for _, name := range names {
		apply, err := componentRegistry[name](spec.Components[name], ctx)
		if err != nil {
			return 0, fmt.Errorf("build entity: %q: add %q: %w", label, name, err)
		}
		if apply != nil {
			applies = append(applies, apply)
		}
	}

	e, err := w.CreateEntity(parent)
	if err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", label, err)
	}
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			return e, fmt.Errorf("build entity: %q: add name: %w", label, err)
		}
	}
	for i, apply := range applies {
		if err := apply(w, e); err != nil {
			return e, fmt.Errorf("build entity: %q: add %q: %w", label, names[i], err)
		}
	}

	return e, nil
}

// BuildScene builds every entity of the sandbox spec in declaration order and
// stops at the first failure.
func BuildScene(w *ecs.World, spec *prefabs.SandboxSpec, ctx *BuildContext) ([]ecs.Entity, error) {
	if spec == nil {
		return nil, errors.New("build scene: spec is nil")
	}
	built := make([]ecs.Entity, 0, len(spec.Entities))
	for _, es := range spec.Entities {
		e, err := BuildEntity(w, es, ctx)
		if err != nil {
			return built, err
		}
		built = append(built, e)
	}
	if ctx != nil {
		logging.OrDiscard(ctx.Logger).Printf("scene: built %d entities", len(built))
	}
	return built, nil
}

func orderedComponents(components map[string]any) ([]string, error) {
	var unknown []string
	for name := range components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("no builder for component %s", strings.Join(unknown, ", "))
	}

	names := make([]string, 0, len(components))
	for _, name := range componentBuildOrder {
		if _, ok := components[name]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(raw any, _ *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode transform spec: %w", err)
	}
	scale := mgl32.Vec3{1, 1, 1}
	if spec.Scale != nil {
		scale = mgl32.Vec3(spec.Scale.Array())
	}
	rotation := degreesVec(spec.Rotation)
	position := mgl32.Vec3(spec.Position.Array())

	return func(w *ecs.World, e ecs.Entity) error {
		t := w.Transform(e)
		if t == nil {
			return component.ErrEntityNotAlive
		}
		t.SetPosition(position)
		t.SetRotation(rotation)
		t.SetScale(scale)
		return nil
	}, nil
}

type meshSpec = prefabs.MeshComponentSpec

// addMesh loads eagerly. A mesh that fails to load is logged and the entity
// is built without a mesh component.
func addMesh(raw any, ctx *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[meshSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode mesh spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return nil, fmt.Errorf("mesh path is empty")
	}
	logger := logging.OrDiscard(ctx.Logger)
	if ctx.Meshes == nil {
		logger.Printf("scene: no mesh loader, skipping %q", spec.Path)
		return nil, nil
	}

	h, err := ctx.Meshes.LoadMesh(spec.Path)
	if err != nil {
		logger.Printf("scene: mesh %q: %v", spec.Path, err)
		return nil, nil
	}
	return func(w *ecs.World, e ecs.Entity) error {
		return w.AddMeshComponent(e, component.Mesh{Handle: h})
	}, nil
}

type spinSpec = prefabs.SpinComponentSpec

func addSpin(raw any, _ *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[spinSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode spin spec: %w", err)
	}
	rate := degreesVec(spec.Rate)
	return func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, component.SpinComponent.Kind(), &component.Spin{Rate: rate})
	}, nil
}

type controllerSpec = prefabs.ControllerComponentSpec

func addController(raw any, _ *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[controllerSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode controller spec: %w", err)
	}
	if spec.Speed < 0 {
		return nil, fmt.Errorf("controller speed must not be negative, got %v", spec.Speed)
	}
	if spec.Speed == 0 {
		spec.Speed = component.DefaultControllerSpeed
	}
	return func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, component.ControllerComponent.Kind(), &component.Controller{Speed: float32(spec.Speed)})
	}, nil
}

type scriptSpec = prefabs.ScriptComponentSpec

func addScript(raw any, _ *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[scriptSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode script spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return nil, fmt.Errorf("script path is empty")
	}
	return func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path})
	}, nil
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(raw any, _ *BuildContext) (applyFn, error) {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode camera spec: %w", err)
	}
	return func(w *ecs.World, e ecs.Entity) error {
		return w.AddCameraComponent(e, component.Camera{Primary: spec.Primary})
	}, nil
}

func degreesVec(v prefabs.Vec3Spec) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.DegToRad(float32(v.X)),
		mgl32.DegToRad(float32(v.Y)),
		mgl32.DegToRad(float32(v.Z)),
	}
}
