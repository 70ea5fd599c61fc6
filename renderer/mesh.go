// Package renderer draws the triangulated surface with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/camera"
	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/mesh"
)

// MeshRenderer submits a frame's triangle buffers in immediate mode.
type MeshRenderer struct {
	Color       color.RGBA
	LightDir    r3.Vec // unit, world space, pointing toward the light
	Ambient     float64
	ShowBounds  bool
	BoundsColor color.RGBA
}

// NewMeshRenderer creates a renderer from render settings.
func NewMeshRenderer(cfg config.RenderConfig) *MeshRenderer {
	light := r3.Vec{X: cfg.LightDir[0], Y: cfg.LightDir[1], Z: cfg.LightDir[2]}
	if r3.Norm(light) == 0 {
		light = r3.Vec{Y: 1}
	}
	return &MeshRenderer{
		Color:       color.RGBA{R: cfg.SurfaceColor[0], G: cfg.SurfaceColor[1], B: cfg.SurfaceColor[2], A: 255},
		LightDir:    r3.Unit(light),
		Ambient:     cfg.Ambient,
		ShowBounds:  cfg.ShowBounds,
		BoundsColor: color.RGBA{R: 200, G: 200, B: 200, A: 90},
	}
}

// Shade returns base lit by a directional light with a Lambert term.
// ambient is the brightness of faces turned away from the light.
func Shade(normal, lightDir r3.Vec, ambient float64, base color.RGBA) color.RGBA {
	lambert := math.Max(0, r3.Dot(normal, lightDir))
	ambient = math.Max(0, math.Min(1, ambient))
	k := ambient + (1-ambient)*math.Min(1, lambert)
	return color.RGBA{
		R: uint8(float64(base.R)*k + 0.5),
		G: uint8(float64(base.G)*k + 0.5),
		B: uint8(float64(base.B)*k + 0.5),
		A: base.A,
	}
}

// Camera3D converts an orbit camera for raylib.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(o.Position()),
		Target:     vec3(o.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(o.FOV),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders b from cam. volumeRadius sizes the bounds wireframe.
func (r *MeshRenderer) Draw(cam rl.Camera3D, b *mesh.Buffers, volumeRadius float64) {
	rl.BeginMode3D(cam)
	defer rl.EndMode3D()

	for t := 0; t < b.TriangleCount(); t++ {
		v := 3 * t
		// Flat color from the mean of the vertex normals
		n := r3.Add(r3.Add(b.Normal(v), b.Normal(v+1)), b.Normal(v+2))
		if r3.Norm(n) > 0 {
			n = r3.Unit(n)
		}
		c := Shade(n, r.LightDir, r.Ambient, r.Color)
		rl.DrawTriangle3D(vertex3(b.Positions, v), vertex3(b.Positions, v+1), vertex3(b.Positions, v+2), c)
	}

	if r.ShowBounds {
		side := float32(2 * volumeRadius)
		rl.DrawCubeWires(rl.NewVector3(0, 0, 0), side, side, side, r.BoundsColor)
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func vertex3(flat []float32, i int) rl.Vector3 {
	return rl.NewVector3(flat[3*i], flat[3*i+1], flat[3*i+2])
}
