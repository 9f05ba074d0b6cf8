package main

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sandbox3d/assets"
	"github.com/milk9111/sandbox3d/camera"
	"github.com/milk9111/sandbox3d/clock"
	"github.com/milk9111/sandbox3d/ecs"
	"github.com/milk9111/sandbox3d/ecs/entity"
	"github.com/milk9111/sandbox3d/ecs/system"
	"github.com/milk9111/sandbox3d/input"
	"github.com/milk9111/sandbox3d/logging"
	"github.com/milk9111/sandbox3d/prefabs"
	"github.com/milk9111/sandbox3d/render"
)

type Config struct {
	Spec     *prefabs.SandboxSpec
	SpecPath string
	// Backend and EnvBackend are consulted in that order before the prefab.
	Backend    string
	EnvBackend string
	Debug      bool
	Logger     logging.Logger
	// Interactive enables hot reload of prefabs/ and prefabs/scripts/, the
	// OS clipboard and the debug overlay.
	Interactive bool
	// Poller overrides the ebiten device poller.
	Poller devicePoller
}

type Game struct {
	logger   logging.Logger
	specPath string

	world     *ecs.World
	scheduler *ecs.Scheduler
	scripts   *system.ScriptSystem
	renderSys *system.RenderSystem

	assets   *assets.Manager
	renderer render.Renderer
	camera   *camera.Camera
	clock    *clock.Clock
	input    *input.State
	events   *eventSource

	watcher   *prefabs.Watcher
	overlay   *overlay
	clipboard *systemClipboard

	clear       color.RGBA
	metrics     clock.Metrics
	drawCalls   int
	reloads     int
	showOverlay bool
}

func NewGame(cfg Config) (*Game, error) {
	if cfg.Spec == nil {
		return nil, errors.New("new game: spec is nil")
	}
	logger := logging.OrDiscard(cfg.Logger)

	backend, err := render.SelectBackend(cfg.Backend, cfg.EnvBackend, cfg.Spec.Renderer.Backend)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	renderer, err := render.New(backend)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	logger.Printf("render: using %s backend", renderer.Name())

	g := &Game{
		logger:      logger,
		specPath:    cfg.SpecPath,
		world:       ecs.NewWorld(),
		assets:      assets.NewManager(logger),
		renderer:    renderer,
		camera:      camera.New(),
		clock:       clock.New(),
		input:       input.NewState(),
		events:      newEventSource(cfg.Poller),
		clear:       cfg.Spec.ClearRGBA(),
		showOverlay: cfg.Debug,
	}
	g.scripts = system.NewScriptSystem(logger, nil)
	g.renderSys = system.NewRenderSystem(g.assets)
	g.scheduler = ecs.NewScheduler(
		system.NewControllerSystem(),
		system.NewSpinSystem(),
		g.scripts,
	)

	applyCameraSpec(g.camera, cfg.Spec.Camera, true)
	applyClockSpec(g.clock, cfg.Spec.Clock)

	if _, err := entity.BuildScene(g.world, cfg.Spec, &entity.BuildContext{Meshes: g.assets, Logger: logger}); err != nil {
		g.Close()
		return nil, fmt.Errorf("new game: %w", err)
	}

	if cfg.Interactive {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			logger.Printf("prefabs: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
		g.clipboard = newSystemClipboard(logger)
		g.overlay = newOverlay()
	}

	return g, nil
}

func (g *Game) Update() error {
	g.input.BeginFrame()
	g.events.Poll(g.input)
	g.metrics = g.clock.Tick()

	if g.input.WasPressed(input.KeyEscape) {
		return ebiten.Termination
	}
	if g.input.WasPressed(input.KeyF1) {
		g.showOverlay = !g.showOverlay
	}
	if g.input.WasPressed(input.KeyF2) {
		g.copyPose()
	}
	if g.input.WasPressed(input.KeyF5) {
		g.reloadSpec()
		g.logger.Printf("script: reset %d runtimes", g.scripts.ReloadAll())
	}

	g.camera.Update(float32(g.metrics.DeltaSeconds), g.input)
	g.applyChanges()

	g.scheduler.Update(g.world, ecs.Frame{Metrics: g.metrics, Input: g.input})

	for _, evt := range g.world.Events().Drain() {
		g.logger.Printf("event: %s entity=%d data=%v", evt.Type, evt.Entity, evt.Data)
	}

	if g.showOverlay && g.overlay != nil {
		g.overlay.Update(g.stats())
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if b, ok := g.renderer.(interface{ Bind(*ebiten.Image) }); ok {
		b.Bind(screen)
	}
	g.renderFrame()

	if g.showOverlay && g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) renderFrame() {
	g.renderer.BeginFrame(g.clear)
	g.renderSys.Draw(g.world, g.renderer, g.camera)
	g.renderer.EndFrame()
	g.drawCalls = g.renderer.DrawCalls()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.SetViewport(outsideWidth, outsideHeight)
	g.renderer.Resize(outsideWidth, outsideHeight)
	return max(1, outsideWidth), max(1, outsideHeight)
}

// applyChanges drains pending hot-reload notifications.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Drain() {
		g.applyChange(c)
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			g.logger.Printf("prefabs: watch: %v", err)
		}
	default:
	}
}

func (g *Game) applyChange(c prefabs.Change) {
	switch c.Kind {
	case prefabs.ChangeScript:
		n := g.scripts.Reload(c.Path)
		g.reloads++
		g.logger.Printf("script: reloaded %s (%d entities)", filepath.Base(c.Path), n)
	case prefabs.ChangeSpec:
		if filepath.Base(c.Path) != filepath.Base(g.specName()) {
			return
		}
		g.reloadSpec()
	}
}

// reloadSpec re-reads the sandbox prefab and applies its runtime tuning.
// The entity list is only read at startup.
func (g *Game) reloadSpec() {
	spec, err := prefabs.LoadSandboxSpec(g.specName())
	if err != nil {
		g.logger.Printf("prefabs: reload: %v", err)
		return
	}
	applyCameraSpec(g.camera, spec.Camera, false)
	applyClockSpec(g.clock, spec.Clock)
	g.clear = spec.ClearRGBA()
	g.reloads++
	g.logger.Printf("prefabs: reloaded %s", g.specName())
}

func (g *Game) specName() string {
	if g.specPath == "" {
		return prefabs.SandboxFile
	}
	return g.specPath
}

func (g *Game) copyPose() {
	pose, err := cameraPose(g.camera)
	if err != nil {
		g.logger.Printf("camera: %v", err)
		return
	}
	if g.clipboard.WriteText(pose) {
		g.logger.Printf("camera: pose copied to clipboard")
		return
	}
	g.logger.Printf("camera: pose\n%s", pose)
}

func (g *Game) stats() frameStats {
	return frameStats{
		Metrics:   g.metrics,
		Backend:   g.renderer.Name(),
		DrawCalls: g.drawCalls,
		Entities:  g.world.EntityCount(),
		Meshes:    g.assets.MeshCount(),
		Position:  g.camera.Position(),
		Yaw:       mgl32.RadToDeg(g.camera.Yaw()),
		Pitch:     mgl32.RadToDeg(g.camera.Pitch()),
		FOV:       g.camera.FOV(),
		Reloads:   g.reloads,
	}
}

func (g *Game) Uptime() float64 {
	return g.metrics.TotalSeconds
}

// Close releases the watcher, renderer and meshes. It is safe to call twice.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
	if g.renderer != nil {
		if err := g.renderer.Close(); err != nil {
			g.logger.Printf("render: close: %v", err)
		}
	}
	if g.assets != nil {
		g.assets.Close()
	}
}
