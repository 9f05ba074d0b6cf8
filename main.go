package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sandbox3d/common"
	"github.com/milk9111/sandbox3d/logging"
	"github.com/milk9111/sandbox3d/prefabs"
	"github.com/milk9111/sandbox3d/render"
	"github.com/pkg/profile"
)

type options struct {
	prefab  string
	backend string
	profile string
	logPath string
	debug   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.prefab, "prefab", prefabs.SandboxFile, "sandbox prefab to load (prefabs/ on disk, then embedded)")
	flag.StringVar(&opts.backend, "backend", "", "render backend: software or headless (overrides $"+render.EnvBackend+")")
	flag.StringVar(&opts.profile, "profile", "", "write a cpu or mem profile to the working directory")
	flag.StringVar(&opts.logPath, "log", logging.DefaultPath, "log file; empty logs to stdout only")
	flag.BoolVar(&opts.debug, "debug", false, "start with the debug overlay visible")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens, so the profile is flushed and the log
// file closed on both the failure and the normal exit path.
func run(opts options) error {
	p, err := startProfile(opts.profile)
	if err != nil {
		return err
	}
	defer p.Stop()

	logger, closer, err := logging.New(opts.logPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	spec, err := prefabs.LoadSandboxSpec(opts.prefab)
	if err != nil {
		logger.Printf("sandbox: %v", err)
		return fmt.Errorf("sandbox: %w", err)
	}

	game, err := NewGame(Config{
		Spec:        spec,
		SpecPath:    opts.prefab,
		Backend:     opts.backend,
		EnvBackend:  os.Getenv(render.EnvBackend),
		Debug:       opts.debug,
		Logger:      logger,
		Interactive: true,
	})
	if err != nil {
		logger.Printf("sandbox: %v", err)
		return fmt.Errorf("sandbox: %w", err)
	}
	defer game.Close()

	title := spec.Window.Title
	if title == "" {
		title = "sandbox3d"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(windowSize(spec.Window))
	if spec.Window.Resizable == nil || *spec.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Printf("sandbox: %v", err)
	}
	logger.Printf("sandbox: exiting after %.1fs", game.Uptime())
	return nil
}

type stopper interface {
	Stop()
}

type noProfile struct{}

func (noProfile) Stop() {}

func startProfile(mode string) (stopper, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		return noProfile{}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu or mem)", mode)
	}
}

func windowSize(w prefabs.WindowSpec) (int, int) {
	width, height := w.Width, w.Height
	if width <= 0 {
		width = common.BaseWidth
	}
	if height <= 0 {
		height = common.BaseHeight
	}
	return width, height
}
