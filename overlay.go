package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/sandbox3d/clock"
	"golang.org/x/image/font/basicfont"
)

// frameStats is what the debug overlay shows for one frame.
type frameStats struct {
	Metrics   clock.Metrics
	Backend   string
	DrawCalls int
	Entities  int
	Meshes    int
	Position  mgl32.Vec3
	Yaw       float32 // degrees
	Pitch     float32 // degrees
	FOV       float32
	Reloads   int
}

func (s frameStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS %.1f  frame %.2f ms  t %.1fs\n", s.Metrics.FPS, s.Metrics.FrameMS, s.Metrics.TotalSeconds)
	fmt.Fprintf(&b, "backend %s  draw calls %d\n", s.Backend, s.DrawCalls)
	fmt.Fprintf(&b, "entities %d  meshes %d  reloads %d\n", s.Entities, s.Meshes, s.Reloads)
	fmt.Fprintf(&b, "pos (%.2f, %.2f, %.2f)  yaw %.1f  pitch %.1f  fov %.0f\n",
		s.Position.X(), s.Position.Y(), s.Position.Z(), s.Yaw, s.Pitch, s.FOV)
	b.WriteString("F1 overlay  F2 copy pose  F5 reload  Esc quit")
	return b.String()
}

// overlay is a translucent panel in the top-left corner with frame stats.
type overlay struct {
	ui    *ebitenui.UI
	label *widget.Text
}

func newOverlay() *overlay {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 180})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	label := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(label)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &overlay{ui: &ebitenui.UI{Container: root}, label: label}
}

func (o *overlay) Update(stats frameStats) {
	o.label.Label = stats.String()
	o.ui.Update()
}

func (o *overlay) Draw(screen *ebiten.Image) {
	o.ui.Draw(screen)
}
