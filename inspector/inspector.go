// Package inspector picks an emitter under the cursor and shows its state.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/field"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 220, B: 90, A: 255}
)

// Inspector manages emitter selection and panel rendering.
type Inspector struct {
	world     *ecs.World
	filter    ecs.Filter3[components.Position, components.Target, components.Body]
	posMap    *ecs.Map1[components.Position]
	targetMap *ecs.Map1[components.Target]
	bodyMap   *ecs.Map1[components.Body]

	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32

	// Pick scratch, parallel slices
	spheres  []Sphere
	entities []ecs.Entity
}

// NewInspector creates an inspector over the emitters of w, with its panel
// anchored at the bottom-left corner of the screen.
func NewInspector(w *ecs.World, screenHeight int32) *Inspector {
	return &Inspector{
		world:     w,
		filter:    *ecs.NewFilter3[components.Position, components.Target, components.Body](w),
		posMap:    ecs.NewMap1[components.Position](w),
		targetMap: ecs.NewMap1[components.Target](w),
		bodyMap:   ecs.NewMap1[components.Body](w),
		panelX:    10,
		panelY:    screenHeight - panelHeight() - 40,
	}
}

// Select picks the emitter nearest along the ray. A miss keeps the current
// selection.
func (ins *Inspector) Select(origin, dir r3.Vec) bool {
	ins.spheres = ins.spheres[:0]
	ins.entities = ins.entities[:0]

	query := ins.filter.Query()
	for query.Next() {
		pos, _, body := query.Get()
		ins.spheres = append(ins.spheres, Sphere{Center: pos.Vec(), Radius: body.Radius})
		ins.entities = append(ins.entities, query.Entity())
	}

	i, ok := Nearest(origin, dir, ins.spheres)
	if ok {
		ins.selected = ins.entities[i]
		ins.hasSelected = true
	}
	return ok
}

// HandleInput selects on left click and clears on right click or Escape.
// blocked suppresses selection while the cursor is over other UI.
func (ins *Inspector) HandleInput(cam rl.Camera3D, blocked bool) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) || blocked {
		return
	}
	mouse := rl.GetMousePosition()
	if ins.Contains(mouse) {
		return
	}

	ray := rl.GetScreenToWorldRay(mouse, cam)
	origin := r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)}
	if r3.Norm(dir) == 0 {
		return
	}
	ins.Select(origin, r3.Unit(dir))
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected emitter if it still exists.
// A reseed removes every emitter, which drops the selection.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	if ins.hasSelected && !ins.world.Alive(ins.selected) {
		ins.hasSelected = false
	}
	return ins.selected, ins.hasSelected
}

// Contains reports whether pt is over the visible panel.
func (ins *Inspector) Contains(pt rl.Vector2) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(pt.X) >= ins.panelX && int32(pt.X) <= ins.panelX+PanelWidth &&
		int32(pt.Y) >= ins.panelY && int32(pt.Y) <= ins.panelY+panelHeight()
}

// Readout is the derived state shown for one emitter.
type Readout struct {
	Position components.Position
	Target   components.Target
	Body     components.Body

	TargetDistance float64
	ETA            float64 // seconds to reach the target at current speed
	FieldValue     float64 // blended potential at the center
	BlendDepth     float64 // how far neighbors pull the center below its own distance
}

// Readout computes the panel values for the selection. f may be nil.
func (ins *Inspector) Readout(f field.Scalar) (Readout, bool) {
	e, ok := ins.Selected()
	if !ok {
		return Readout{}, false
	}
	r := Readout{
		Position: *ins.posMap.Get(e),
		Target:   *ins.targetMap.Get(e),
		Body:     *ins.bodyMap.Get(e),
	}
	r.TargetDistance = r3.Norm(r3.Sub(r.Target.Vec(), r.Position.Vec()))
	if r.Body.Speed > 0 {
		r.ETA = r.TargetDistance / r.Body.Speed
	}
	if f != nil {
		r.FieldValue = f.Value(r.Position.Vec())
		r.BlendDepth = -r.Body.Radius - r.FieldValue
	}
	return r, true
}

// Draw renders the inspector panel if an emitter is selected.
func (ins *Inspector) Draw(f field.Scalar) {
	r, ok := ins.Readout(f)
	if !ok {
		return
	}

	h := panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, h, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(h)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("EMITTER", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	y += DrawLabel(x, y, "Position", r3.Vec(r.Position), nil)
	y += DrawLabel(x, y, "Target", r3.Vec(r.Target), nil)
	y += DrawLabel(x, y, "Distance", r.TargetDistance, map[string]string{"fmt": "%.3f"})
	y += DrawLabel(x, y, "ETA", fmt.Sprintf("%.1fs", r.ETA), nil)
	for _, fld := range ExtractFields(&r.Body) {
		y += DrawField(x, y, fld)
	}

	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	ins.drawSectionHeader(x, y, "FIELD")
	y += 20
	if f == nil {
		rl.DrawText("(no field this frame)", x, y, 12, ColorTextDim)
		return
	}
	y += DrawLabel(x, y, "Value at center", r.FieldValue, map[string]string{"fmt": "%.4f"})
	DrawLabel(x, y, "Blend depth", r.BlendDepth, map[string]string{"fmt": "%.4f"})
}

// DrawSelectionHighlight outlines the selected emitter and its heading
// in the 3D scene.
func (ins *Inspector) DrawSelectionHighlight(cam rl.Camera3D) {
	e, ok := ins.Selected()
	if !ok {
		return
	}
	pos := vec3(ins.posMap.Get(e).Vec())
	target := vec3(ins.targetMap.Get(e).Vec())
	radius := float32(ins.bodyMap.Get(e).Radius)

	rl.BeginMode3D(cam)
	defer rl.EndMode3D()

	rl.DrawSphereWires(pos, radius*1.1, 8, 12, ColorHighlight)
	rl.DrawLine3D(pos, target, ColorHighlight)
	rl.DrawSphere(target, radius*0.1, ColorHighlight)
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// panelHeight is the fixed height of the panel contents.
func panelHeight() int32 {
	height := HeaderHeight + PanelPadding
	height += 18 * 4 // position, target, distance, ETA
	height += 18 * 2 // body fields
	height += 12     // separator
	height += 20     // field header
	height += 18 * 2 // field values
	height += PanelPadding
	return int32(height)
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
