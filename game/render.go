package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/camera"
	"github.com/pthm-cable/blobs/inspector"
	"github.com/pthm-cable/blobs/renderer"
	"github.com/pthm-cable/blobs/ui"
)

const controlsText = "LMB drag: orbit | Click: inspect | Wheel: zoom | Space: pause | R: reseed | H: panel | P: perf"

// sliderSpecs are the UI ranges for each parameter.
var sliderSpecs = map[Parameter]ui.Slider{
	ParamEmitterCount:   {Label: "Emitters", Min: 1, Max: 40, Integer: true},
	ParamSmoothing:      {Label: "Smoothing", Min: 0.001, Max: 0.5},
	ParamSpeed:          {Label: "Speed", Min: 0.01, Max: 2},
	ParamTargetRadius:   {Label: "Radius", Min: 0.02, Max: 0.5},
	ParamRadiusVariance: {Label: "Radius variance", Min: 0, Max: 0.95},
	ParamCellsPerAxis:   {Label: "Resolution", Min: 8, Max: 96, Integer: true},
	ParamVolumeRadius:   {Label: "Volume", Min: 0.25, Max: 3},
	ParamIsoLevel:       {Label: "Iso level", Min: -0.2, Max: 0.2},
}

// paramSliders returns one slider per parameter in declaration order.
func paramSliders() []ui.Slider {
	out := make([]ui.Slider, 0, numParameters)
	for _, p := range Parameters() {
		s := sliderSpecs[p]
		s.Name = p.String()
		out = append(out, s)
	}
	return out
}

// initPresentation creates the camera, renderer and UI.
// Drawing requires an open raylib window.
func (g *Game) initPresentation() {
	c := g.cfg.Camera
	g.camera = camera.New(c.Distance, c.Yaw, c.Pitch, c.MinDistance, c.MaxDistance, c.FOV)
	g.meshRenderer = renderer.NewMeshRenderer(g.cfg.Render)
	g.hud = ui.NewHUD()
	g.inspector = inspector.NewInspector(g.world, int32(g.cfg.Screen.Height))

	const panelWidth = 330
	g.panel = ui.NewParamPanel(int32(g.cfg.Screen.Width)-panelWidth-10, 10, panelWidth, paramSliders())
}

// paramValues maps parameter names to their current values for the panel.
func (g *Game) paramValues() map[string]float64 {
	values := make(map[string]float64, numParameters)
	for _, p := range Parameters() {
		values[p.String()] = g.params.Get(p)
	}
	return values
}

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Color{R: 18, G: 20, B: 26, A: 255})
	cam := renderer.Camera3D(g.camera)
	g.meshRenderer.Draw(cam, g.buffers, g.applied.VolumeRadius)
	g.inspector.DrawSelectionHighlight(cam)

	hud := ui.HUDData{
		Title:     g.cfg.Screen.Title,
		Emitters:  g.spawner.Count(),
		Triangles: g.buffers.TriangleCount(),
		Vertices:  g.buffers.VertexCount(),
		Tick:      g.tick,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		Perf:      g.perf.Stats(),
	}
	if g.lastErr != nil {
		hud.LastError = fmt.Sprintf("error: %v", g.lastErr)
	}
	g.hud.Draw(hud)
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsText)
	if f := g.Field(); f != nil {
		g.inspector.Draw(f)
	} else {
		g.inspector.Draw(nil)
	}

	// Panel edits land between ticks.
	res := g.panel.Draw(g.paramValues())
	for _, c := range res.Changes {
		if err := g.SetParameter(c.Name, c.Value); err != nil {
			slog.Warn("parameter rejected", "name", c.Name, "value", c.Value, "error", err)
		}
	}
	if res.Reseed {
		g.reseed(g.params)
	}
}
