package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Emitters  int
	Triangles int
	Vertices  int
	Tick      int32
	FPS       int32
	Paused    bool
	LastError string
	Perf      telemetry.PerfStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	ShowPerf bool
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), ShowPerf: true}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Emitters: %d | Triangles: %d | Vertices: %d", data.Emitters, data.Triangles, data.Vertices),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS), 10, 55, 16, rl.LightGray)

	y := int32(75)
	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
		y += 20
	}
	if data.LastError != "" {
		rl.DrawText(data.LastError, 10, y, 14, rl.Red)
		y += 20
	}

	if h.ShowPerf {
		h.drawPerf(10, y+5, data.Perf)
	}
}

func (h *HUD) drawPerf(x, y int32, s telemetry.PerfStats) {
	const width = 260
	t := h.renderer.Theme
	height := 2*t.Padding + t.LineHeight + 4 + int32(len(telemetry.Phases)+1)*t.LineHeight
	h.renderer.DrawPanel(x, y, width, height)

	x += t.Padding
	y = h.renderer.DrawSectionHeader(x, y+t.Padding, "Tick phases")
	y = h.renderer.DrawLabelValue(x, y, "tick", fmt.Sprintf("%d us", s.AvgTickDuration.Microseconds()))
	for _, phase := range telemetry.Phases {
		y = h.renderer.DrawBar(x, y, phase, s.PhasePct[phase], width-2*t.Padding)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
