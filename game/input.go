package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/renderer"
)

// Update handles input and advances one frame of wall time.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()

	if g.paused {
		return
	}
	dt := math.Min(float64(rl.GetFrameTime()), g.cfg.Physics.MaxDT)
	g.Step(dt)
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reseed(g.params)
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.panel.Visible = !g.panel.Visible
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.hud.ShowPerf = !g.hud.ShowPerf
	}

	g.handleCameraInput()
}

// handleCameraInput orbits on left drag and zooms on the wheel.
// Drags that start on the parameter panel belong to the sliders.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overPanel := g.panel.Contains(mouse) || g.inspector.Contains(mouse)
	g.inspector.HandleInput(renderer.Camera3D(g.camera), overPanel)

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !overPanel {
		d := rl.GetMouseDelta()
		s := g.cfg.Camera.Sensitivity * math.Pi / 180
		g.camera.Rotate(-float64(d.X)*s, float64(d.Y)*s)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		g.camera.Zoom(float64(wheel), g.cfg.Camera.ZoomStep)
	}
}
