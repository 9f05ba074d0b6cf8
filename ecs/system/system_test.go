package system

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/clock"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/component"
	"github.com/milk9111/sandbox3d/input"
	"github.com/milk9111/sandbox3d/logging"
	"github.com/milk9111/sandbox3d/render"
)

func frame(dt float64, in *input.State) ecs.Frame {
	return ecs.Frame{Metrics: clock.Metrics{DeltaSeconds: dt, TotalSeconds: dt}, Input: in}
}

func mustEntity(t *testing.T, w *ecs.World, parent ecs.Entity) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity(parent)
	if err != nil {
		t.Fatalf("create entity: %v", err)
	}
	return e
}

func TestControllerSystem(t *testing.T) {
	cases := []struct {
		name  string
		keys  []input.Key
		speed float32
		want  mgl32.Vec3
	}{
		{"idle", nil, 2, mgl32.Vec3{}},
		{"right", []input.Key{input.KeyRight}, 2, mgl32.Vec3{1, 0, 0}},
		{"left_up", []input.Key{input.KeyLeft, input.KeyUp}, 2, mgl32.Vec3{-1, 1, 0}},
		{"down_default_speed", []input.Key{input.KeyDown}, 0, mgl32.Vec3{0, -0.75, 0}},
		{"opposed", []input.Key{input.KeyLeft, input.KeyRight}, 2, mgl32.Vec3{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := mustEntity(t, w, 0)
			other := mustEntity(t, w, 0)
			if err := ecs.Add(w, e, component.ControllerComponent.Kind(), &component.Controller{Speed: c.speed}); err != nil {
				t.Fatal(err)
			}
			w.Transform(e).UpdateMatrix()

			in := input.NewState()
			for _, k := range c.keys {
				in.OnKeyDown(k)
			}
			NewControllerSystem().Update(w, frame(0.5, in))

			tr := w.Transform(e)
			if !tr.Position().ApproxEqualThreshold(c.want, 1e-6) {
				t.Fatalf("expected %v, got %v", c.want, tr.Position())
			}
			if moved := c.want != (mgl32.Vec3{}); tr.Dirty() != moved {
				t.Fatalf("dirty=%v but moved=%v", tr.Dirty(), moved)
			}
			if w.Transform(other).Position() != (mgl32.Vec3{}) {
				t.Fatalf("entities without a controller must not move")
			}
		})
	}
}

func TestSpinSystem(t *testing.T) {
	w := ecs.NewWorld()
	spinning := mustEntity(t, w, 0)
	still := mustEntity(t, w, 0)
	_ = ecs.Add(w, spinning, component.SpinComponent.Kind(), &component.Spin{Rate: mgl32.Vec3{0, 2, 0}})
	_ = ecs.Add(w, still, component.SpinComponent.Kind(), &component.Spin{})
	w.Transform(still).UpdateMatrix()

	s := NewSpinSystem()
	s.Update(w, frame(0.25, nil))
	s.Update(w, frame(0.25, nil))

	if got := w.Transform(spinning).Rotation(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Fatalf("expected rotation (0,1,0), got %v", got)
	}
	if !w.Transform(spinning).Dirty() {
		t.Fatalf("spinning should mark the transform dirty")
	}
	if w.Transform(still).Dirty() {
		t.Fatalf("zero spin should leave the transform clean")
	}

	s.Update(w, frame(0, nil))
	if got := w.Transform(spinning).Rotation(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Fatalf("zero delta should not rotate, got %v", got)
	}
}

type fakeMeshes map[assets.MeshHandle]*assets.MeshData

func (f fakeMeshes) Mesh(h assets.MeshHandle) *assets.MeshData {
	return f[h]
}

func TestRenderSystemSubmitsMeshEntities(t *testing.T) {
	w := ecs.NewWorld()
	parent := mustEntity(t, w, 0)
	child := mustEntity(t, w, parent)
	mustEntity(t, w, 0) // no mesh
	orphanMesh := mustEntity(t, w, 0)

	w.Transform(parent).SetPosition(mgl32.Vec3{1, 0, 0})
	w.Transform(child).SetPosition(mgl32.Vec3{0, 1, 0})

	cube := &assets.MeshData{}
	meshes := fakeMeshes{1: cube}
	_ = w.AddMeshComponent(child, component.Mesh{Handle: 1})
	_ = w.AddMeshComponent(parent, component.Mesh{Handle: 1})
	_ = w.AddMeshComponent(orphanMesh, component.Mesh{Handle: 9})

	cam := camera.New()
	cam.SetViewport(320, 240)
	cam.Update(0, nil)

	h := render.NewHeadless()
	h.BeginFrame(color.RGBA{A: 255})
	n := NewRenderSystem(meshes).Draw(w, h, cam)
	h.EndFrame()

	if n != 3 || h.DrawCalls() != 3 {
		t.Fatalf("expected 3 submissions, got %d (draw calls %d)", n, h.DrawCalls())
	}
	subs := h.Submissions()
	// creation order: parent, child, orphanMesh
	if subs[0].Mesh != cube || subs[1].Mesh != cube || subs[2].Mesh != nil {
		t.Fatalf("unexpected meshes %+v", subs)
	}
	if pos := subs[1].World.Col(3).Vec3(); !pos.ApproxEqual(mgl32.Vec3{1, 1, 0}) {
		t.Fatalf("child should be drawn at its world position, got %v", pos)
	}
}

func TestRenderSystemNilCollaborators(t *testing.T) {
	w := ecs.NewWorld()
	e := mustEntity(t, w, 0)
	_ = w.AddMeshComponent(e, component.Mesh{Handle: 1})

	r := NewRenderSystem(nil)
	if r.Draw(w, nil, camera.New()) != 0 || r.Draw(w, render.NewHeadless(), nil) != 0 {
		t.Fatalf("missing renderer or camera should draw nothing")
	}
	if r.Draw(w, render.NewHeadless(), camera.New()) != 1 {
		t.Fatalf("a nil mesh source still submits placeholders")
	}
}

func scriptLoader(scripts map[string]string) ScriptLoader {
	return func(path string) ([]byte, error) {
		src, ok := scripts[path]
		if !ok {
			return nil, errors.New("no such script")
		}
		return []byte(src), nil
	}
}

func TestScriptSystemMutatesTransform(t *testing.T) {
	scripts := map[string]string{
		"scripts/bob.tengo": `
update := func(engine, state) {
	if is_undefined(state.frames) {
		state.frames = 0
	}
	state.frames += 1
	engine.translate(engine.dt, 0, 0)
	engine.set_rotation(0, state.frames, 0)
	if engine.key_down("w") {
		engine.emit("forward", state.frames)
	}
}
`,
	}

	w := ecs.NewWorld()
	e := mustEntity(t, w, 0)
	_ = ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: "scripts/bob.tengo"})

	s := NewScriptSystem(logging.Discard, scriptLoader(scripts))
	in := input.NewState()
	s.Update(w, frame(0.5, in))
	in.OnKeyDown(input.KeyW)
	s.Update(w, frame(0.5, in))

	tr := w.Transform(e)
	if !tr.Position().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Fatalf("expected position (1,0,0), got %v", tr.Position())
	}
	if tr.Rotation() != (mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("state should persist between frames, got rotation %v", tr.Rotation())
	}
	if !tr.Dirty() {
		t.Fatalf("script writes must mark the transform dirty")
	}

	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != "forward" || events[0].Entity != e || events[0].Data != 2 {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestScriptSystemReload(t *testing.T) {
	scripts := map[string]string{
		"scripts/move.tengo": `update := func(engine, state) { engine.translate(1, 0, 0) }`,
	}
	w := ecs.NewWorld()
	e := mustEntity(t, w, 0)
	_ = ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: "scripts/move.tengo"})

	s := NewScriptSystem(logging.Discard, scriptLoader(scripts))
	s.Update(w, frame(0.1, nil))

	scripts["scripts/move.tengo"] = `update := func(engine, state) { engine.translate(0, 10, 0) }`
	s.Update(w, frame(0.1, nil))
	if got := w.Transform(e).Position(); got != (mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("compiled script should be cached until reload, got %v", got)
	}

	if n := s.Reload("/abs/path/prefabs/scripts/move.tengo"); n != 1 {
		t.Fatalf("expected one runtime dropped, got %d", n)
	}
	s.Update(w, frame(0.1, nil))
	if got := w.Transform(e).Position(); got != (mgl32.Vec3{2, 10, 0}) {
		t.Fatalf("reloaded script should run, got %v", got)
	}

	if n := s.Reload("other.tengo"); n != 0 {
		t.Fatalf("unrelated script should not drop runtimes, got %d", n)
	}
	if n := s.ReloadAll(); n != 1 {
		t.Fatalf("expected ReloadAll to drop one runtime, got %d", n)
	}
	if n := s.ReloadAll(); n != 0 {
		t.Fatalf("second ReloadAll should find nothing, got %d", n)
	}
}

func TestScriptSystemErrors(t *testing.T) {
	scripts := map[string]string{
		"broken.tengo":  `update := func(engine, state) {`,
		"badargs.tengo": `update := func(engine, state) { engine.translate("a", 0, 0) }`,
	}

	w := ecs.NewWorld()
	broken := mustEntity(t, w, 0)
	badArgs := mustEntity(t, w, 0)
	missing := mustEntity(t, w, 0)
	_ = ecs.Add(w, broken, component.ScriptComponent.Kind(), &component.Script{Path: "broken.tengo"})
	_ = ecs.Add(w, badArgs, component.ScriptComponent.Kind(), &component.Script{Path: "badargs.tengo"})
	_ = ecs.Add(w, missing, component.ScriptComponent.Kind(), &component.Script{Path: "missing.tengo"})

	s := NewScriptSystem(logging.Discard, scriptLoader(scripts))
	s.Update(w, frame(0.1, nil))
	s.Update(w, frame(0.1, nil))

	for _, e := range []ecs.Entity{broken, badArgs, missing} {
		if got := w.Transform(e).Position(); got != (mgl32.Vec3{}) {
			t.Fatalf("entity %d should not move, got %v", e, got)
		}
	}
	if !s.runtimes[broken].broken || !s.runtimes[missing].broken || s.runtimes[badArgs].broken {
		t.Fatalf("compile failures should be marked broken, runtime errors should not")
	}
}

func TestVec3Args(t *testing.T) {
	v, err := vec3Args("set_position", vec3Object(mgl32.Vec3{1, 2, 3}).Value)
	if err != nil || v != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("expected (1,2,3), got %v %v", v, err)
	}
	if _, err := vec3Args("set_position", nil); err == nil {
		t.Fatalf("missing arguments should fail")
	}
}
