package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Slider describes one tunable shown in the parameter panel.
type Slider struct {
	Name     string // parameter name reported in Change
	Label    string
	Min, Max float64
	Integer  bool // round to whole numbers
}

// Quantize clamps v to the slider range and rounds integer sliders.
func (s Slider) Quantize(v float64) float64 {
	v = clamp(v, s.Min, s.Max)
	if s.Integer {
		v = math.Round(v)
	}
	return v
}

// Format renders v the way the panel prints it.
func (s Slider) Format(v float64) string {
	if s.Integer {
		return fmt.Sprintf("%d", int(math.Round(v)))
	}
	return fmt.Sprintf("%.3f", v)
}

// Change is a value the user moved a slider to.
type Change struct {
	Name  string
	Value float64
}

// PanelResult is what one frame of panel interaction produced.
type PanelResult struct {
	Changes []Change
	Reseed  bool
}

// ParamPanel is a column of raygui sliders plus a reseed button.
type ParamPanel struct {
	renderer *Renderer
	sliders  []Slider
	x, y     int32
	width    int32
	Visible  bool
}

// NewParamPanel creates a panel anchored at (x, y).
func NewParamPanel(x, y, width int32, sliders []Slider) *ParamPanel {
	return &ParamPanel{
		renderer: NewRenderer(),
		sliders:  sliders,
		x:        x,
		y:        y,
		width:    width,
		Visible:  true,
	}
}

// Sliders returns the panel's slider definitions.
func (p *ParamPanel) Sliders() []Slider {
	return p.sliders
}

// Height returns the panel height in pixels.
func (p *ParamPanel) Height() int32 {
	t := p.renderer.Theme
	rows := int32(len(p.sliders))
	return 2*t.Padding + t.LineHeight + 4 + rows*(t.SliderHeight+t.Padding/2) + 28
}

// Diff returns a change for every slider whose quantized output differs
// from its current value. next holds the raw slider outputs in slider order.
// Values are compared at float32 precision because raygui works in float32
// and an untouched slider hands back its truncated input.
func (p *ParamPanel) Diff(current map[string]float64, next []float64) []Change {
	var changes []Change
	for i, s := range p.sliders {
		if i >= len(next) {
			break
		}
		v := s.Quantize(next[i])
		if float32(v) != float32(current[s.Name]) {
			changes = append(changes, Change{Name: s.Name, Value: v})
		}
	}
	return changes
}

// Draw renders the panel and returns the user's edits this frame.
// values maps slider names to their current values.
func (p *ParamPanel) Draw(values map[string]float64) PanelResult {
	if !p.Visible {
		return PanelResult{}
	}
	t := p.renderer.Theme
	p.renderer.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	y := p.renderer.DrawSectionHeader(x, p.y+t.Padding, "Parameters")
	sliderW := float32(p.width - t.LabelWidth - 3*t.Padding - 50)

	next := make([]float64, len(p.sliders))
	for i, s := range p.sliders {
		cur := values[s.Name]
		rl.DrawText(s.Label, x, y+2, t.FontSize, t.LabelColor)
		bounds := rl.Rectangle{X: float32(x + t.LabelWidth), Y: float32(y), Width: sliderW, Height: float32(t.SliderHeight)}
		next[i] = float64(gui.SliderBar(bounds, "", "", float32(cur), float32(s.Min), float32(s.Max)))
		rl.DrawText(s.Format(cur), int32(bounds.X+sliderW)+t.Padding/2, y+2, t.FontSize, t.ValueColor)
		y += t.SliderHeight + t.Padding/2
	}

	return PanelResult{
		Changes: p.Diff(values, next),
		Reseed:  gui.Button(rl.Rectangle{X: float32(x), Y: float32(y + 4), Width: 100, Height: 22}, "Reseed"),
	}
}

// Contains reports whether the screen point lies on the panel, so camera
// input can ignore drags that start there.
func (p *ParamPanel) Contains(pt rl.Vector2) bool {
	if !p.Visible {
		return false
	}
	r := rl.Rectangle{X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: float32(p.Height())}
	return pt.X >= r.X && pt.X <= r.X+r.Width && pt.Y >= r.Y && pt.Y <= r.Y+r.Height
}
