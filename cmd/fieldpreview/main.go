// Field slice preview tool - interactive cross-section of the blended field
// with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/field"
	"github.com/pthm-cable/blobs/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

// preview holds the emitters and the slice state.
type preview struct {
	world      *ecs.World
	rng        *rand.Rand
	spawner    *systems.EmitterSpawner
	kinematics *systems.KinematicsSystem

	fieldCfg   config.FieldConfig
	emitterCfg config.EmittersConfig
	sliceZ     float64

	emitters []field.Emitter
	values   []float64
	pixels   []color.RGBA
	lastErr  error
}

func newPreview(cfg *config.Config) *preview {
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(cfg.Seed))
	p := &preview{
		world:      world,
		rng:        rng,
		spawner:    systems.NewEmitterSpawner(world, rng),
		kinematics: systems.NewKinematicsSystem(world, rng),
		fieldCfg:   cfg.Field,
		emitterCfg: cfg.Emitters,
		pixels:     make([]color.RGBA, gridSize*gridSize),
	}
	p.reseed()
	return p
}

func (p *preview) bounds() float64 {
	return systems.WanderBounds(p.fieldCfg.VolumeRadius, p.fieldCfg.Smoothing)
}

func (p *preview) reseed() {
	p.spawner.Reseed(p.emitterCfg.Count, systems.SpawnParams{
		Bounds:       p.bounds(),
		TargetRadius: p.emitterCfg.TargetRadius,
		Variance:     p.emitterCfg.RadiusVariance,
		BaseSpeed:    p.emitterCfg.Speed,
	})
}

// regenerate resamples the slice into the pixel buffer.
func (p *preview) regenerate() {
	p.emitters = p.spawner.Snapshot(p.emitters[:0])
	f, err := field.New(p.emitters, p.fieldCfg.Smoothing)
	if err != nil {
		p.lastErr = err
		return
	}
	p.lastErr = nil

	r := p.fieldCfg.VolumeRadius
	p.values = SampleSlice(f, gridSize, r, p.sliceZ, p.values)
	pixel := 2 * r / gridSize
	for i, v := range p.values {
		p.pixels[i] = Colorize(v, p.fieldCfg.IsoLevel, r/2, pixel)
	}
}

func main() {
	if err := config.Init(""); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Field Slice Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	p := newPreview(cfg)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			p.kinematics.Update(float64(rl.GetFrameTime()), p.bounds())
			needsRegen = true
		}

		if needsRegen {
			p.regenerate()
			rl.UpdateTexture(texture, p.pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if p.lastErr != nil {
			rl.DrawText(p.lastErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			s := Summarize(p.values, p.fieldCfg.IsoLevel)
			inside := 100 * float64(s.Inside) / float64(len(p.values))
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Inside: %.1f%%", s.Min, s.Max, inside), 15, statsY, 16, rl.DarkGray)
		}
		rl.DrawText(fmt.Sprintf("Emitters: %d  Slice z: %.2f", p.spawner.Count(), p.sliceZ), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, lo, hi string, value, minV, maxV float32, format string) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				lo, hi, value, minV, maxV,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return next
		}

		if k := slider("Smoothing (blend width k)", "0.01", "0.5", float32(p.fieldCfg.Smoothing), 0.01, 0.5, "%.3f"); k != float32(p.fieldCfg.Smoothing) {
			p.fieldCfg.Smoothing = float64(k)
			needsRegen = true
		}
		if iso := slider("Iso level", "-0.2", "0.2", float32(p.fieldCfg.IsoLevel), -0.2, 0.2, "%.3f"); iso != float32(p.fieldCfg.IsoLevel) {
			p.fieldCfg.IsoLevel = float64(iso)
			needsRegen = true
		}
		r := float32(p.fieldCfg.VolumeRadius)
		if z := slider("Slice depth z", "-R", "R", float32(p.sliceZ), -r, r, "%.2f"); z != float32(p.sliceZ) {
			p.sliceZ = float64(z)
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Emitters (applied on reseed)", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if n := slider("Count", "1", "40", float32(p.emitterCfg.Count), 1, 40, "%.0f"); int(n) != p.emitterCfg.Count {
			p.emitterCfg.Count = int(n)
		}
		if tr := slider("Target radius", "0.02", "0.4", float32(p.emitterCfg.TargetRadius), 0.02, 0.4, "%.3f"); tr != float32(p.emitterCfg.TargetRadius) {
			p.emitterCfg.TargetRadius = float64(tr)
		}
		if rv := slider("Radius variance", "0", "0.95", float32(p.emitterCfg.RadiusVariance), 0, systems.MaxRadiusVariance, "%.2f"); rv != float32(p.emitterCfg.RadiusVariance) {
			p.emitterCfg.RadiusVariance = float64(rv)
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reseed") {
			p.reseed()
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			p.fieldCfg = cfg.Field
			p.emitterCfg = cfg.Emitters
			p.sliceZ = 0
			p.reseed()
			needsRegen = true
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text, err := SettingsYAML(p.fieldCfg, p.emitterCfg)
			if err != nil {
				log.Printf("failed to render yaml: %v", err)
			} else {
				rl.SetClipboardText(text)
			}
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
