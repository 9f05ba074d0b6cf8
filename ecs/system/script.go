package system

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/component"
	"github.com/milk9111/sandbox3d/input"
	"github.com/milk9111/sandbox3d/logging"
	"github.com/milk9111/sandbox3d/prefabs"
)

// ScriptLoader returns the source of a script by path.
type ScriptLoader func(path string) ([]byte, error)

// ScriptSystem runs each entity's tengo script once per frame. A script
// defines update(engine, state); state is a map that persists across frames
// for that entity.
type ScriptSystem struct {
	logger   logging.Logger
	load     ScriptLoader
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	// broken runtimes failed to compile and stay silent until reloaded.
	broken bool
}

const scriptDispatch = `
if __phase == "update" {
	update(__engine, __state)
}
`

func NewScriptSystem(logger logging.Logger, load ScriptLoader) *ScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ScriptSystem{
		logger:   logging.OrDiscard(logger),
		load:     load,
		runtimes: map[ecs.Entity]*scriptRuntime{},
	}
}

func (s *ScriptSystem) Update(w *ecs.World, f ecs.Frame) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		if strings.TrimSpace(sc.Path) == "" || w.Transform(e) == nil {
			return
		}
		rt := s.runtime(e, sc.Path)
		if rt.broken {
			return
		}
		if err := rt.run("update", buildScriptEngine(w, e, f, rt.path, s.logger)); err != nil {
			s.logger.Printf("script: entity=%d %s update error: %v", e, rt.path, err)
		}
	})
}

// Reload drops every runtime compiled from the script at path so the next
// Update recompiles it. State kept by those scripts is reset.
func (s *ScriptSystem) Reload(path string) int {
	n := 0
	for e, rt := range s.runtimes {
		if sameScript(rt.path, path) {
			delete(s.runtimes, e)
			n++
		}
	}
	return n
}

// ReloadAll drops every compiled runtime.
func (s *ScriptSystem) ReloadAll() int {
	n := len(s.runtimes)
	clear(s.runtimes)
	return n
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) *scriptRuntime {
	if rt, ok := s.runtimes[e]; ok && rt.path == path {
		return rt
	}

	rt, err := s.compile(path)
	if err != nil {
		s.logger.Printf("script: entity=%d load %s: %v", e, path, err)
		rt = &scriptRuntime{path: path, broken: true}
	}
	s.runtimes[e] = rt
	return rt
}

func (s *ScriptSystem) compile(path string) (*scriptRuntime, error) {
	src, err := s.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &scriptRuntime{
		path:      path,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(w *ecs.World, e ecs.Entity, f ecs.Frame, path string, logger logging.Logger) *tengo.ImmutableMap {
	t := w.Transform(e)
	values := map[string]tengo.Object{
		"entity": &tengo.Int{Value: int64(e)},
		"dt":     &tengo.Float{Value: f.Metrics.DeltaSeconds},
		"time":   &tengo.Float{Value: f.Metrics.TotalSeconds},
	}
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		values["name"] = &tengo.String{Value: n.Value}
	}

	vecGetter := func(name string, get func() mgl32.Vec3) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return vec3Object(get()), nil
		}}
	}
	vecSetter := func(name string, set func(mgl32.Vec3)) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := vec3Args(name, args)
			if err != nil {
				return nil, err
			}
			set(v)
			return tengo.UndefinedValue, nil
		}}
	}

	vecGetter("position", t.Position)
	vecGetter("rotation", t.Rotation)
	vecGetter("scale", t.Scale)
	vecSetter("set_position", t.SetPosition)
	vecSetter("set_rotation", t.SetRotation)
	vecSetter("set_scale", t.SetScale)
	vecSetter("translate", t.Translate)
	vecSetter("rotate", t.Rotate)

	keyQuery := func(name string, query func(input.Key) bool) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if f.Input == nil || len(args) < 1 {
				return tengo.FalseValue, nil
			}
			k, ok := input.ParseKey(objectAsString(args[0]))
			if !ok || !query(k) {
				return tengo.FalseValue, nil
			}
			return tengo.TrueValue, nil
		}}
	}
	keyQuery("key_down", func(k input.Key) bool { return f.Input.IsDown(k) })
	keyQuery("key_pressed", func(k input.Key) bool { return f.Input.WasPressed(k) })

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		evt := ecs.Event{Type: name, Entity: e}
		if len(args) > 1 {
			evt.Data = objectToAny(args[1])
		}
		w.Events().Push(evt)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		logger.Printf("script: %s: %s", filepath.Base(path), strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vec3Object(v mgl32.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: float64(v[0])},
		&tengo.Float{Value: float64(v[1])},
		&tengo.Float{Value: float64(v[2])},
	}}
}

// vec3Args accepts either three numbers or a single three-element array.
func vec3Args(name string, args []tengo.Object) (mgl32.Vec3, error) {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	if len(args) != 3 {
		return mgl32.Vec3{}, tengo.ErrWrongNumArguments
	}

	var out mgl32.Vec3
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return mgl32.Vec3{}, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("%s[%d]", name, i),
				Expected: "float",
				Found:    a.TypeName(),
			}
		}
		out[i] = float32(f)
	}
	return out, nil
}

func sameScript(a, b string) bool {
	return filepath.Base(filepath.ToSlash(a)) == filepath.Base(filepath.ToSlash(b))
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
