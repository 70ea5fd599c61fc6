// Package camera provides an orbit camera around the sampled volume.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxPitch keeps the orbit away from the poles where the up vector flips.
const MaxPitch = 89 * math.Pi / 180

// Orbit is a yaw/pitch/distance camera looking at Target.
// Angles are in radians; yaw 0 looks down -Z from +Z.
type Orbit struct {
	Target   r3.Vec
	Yaw      float64
	Pitch    float64
	Distance float64

	// Zoom constraints
	MinDistance, MaxDistance float64

	// FOV is the vertical field of view in degrees.
	FOV float64
}

// New creates an orbit camera. Angles are given in degrees.
func New(distance, yawDeg, pitchDeg, minDistance, maxDistance, fov float64) *Orbit {
	o := &Orbit{
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		FOV:         fov,
	}
	o.Yaw = yawDeg * math.Pi / 180
	o.SetPitch(pitchDeg * math.Pi / 180)
	o.SetDistance(distance)
	return o
}

// SetPitch sets the pitch, clamped to ±MaxPitch.
func (o *Orbit) SetPitch(p float64) {
	o.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, p))
}

// SetDistance sets the distance, clamped to the zoom range.
func (o *Orbit) SetDistance(d float64) {
	o.Distance = math.Max(o.MinDistance, math.Min(o.MaxDistance, d))
}

// Rotate adds to yaw and pitch. Yaw wraps to [-π, π).
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = wrapAngle(o.Yaw + dYaw)
	o.SetPitch(o.Pitch + dPitch)
}

// Zoom moves the camera by steps of step times the current distance.
// Positive steps move closer.
func (o *Orbit) Zoom(steps, step float64) {
	o.SetDistance(o.Distance * math.Pow(1-step, steps))
}

// Position returns the camera's world position.
func (o *Orbit) Position() r3.Vec {
	cp := math.Cos(o.Pitch)
	offset := r3.Vec{
		X: cp * math.Sin(o.Yaw),
		Y: math.Sin(o.Pitch),
		Z: cp * math.Cos(o.Yaw),
	}
	return r3.Add(o.Target, r3.Scale(o.Distance, offset))
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() r3.Vec {
	return r3.Unit(r3.Sub(o.Target, o.Position()))
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
