package inspector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a pick target.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// RaySphere returns the distance along the ray to the first intersection
// with s. dir must be a unit vector. A ray starting inside s hits at 0.
func RaySphere(origin, dir r3.Vec, s Sphere) (float64, bool) {
	oc := r3.Sub(origin, s.Center)
	b := r3.Dot(oc, dir)
	c := r3.Dot(oc, oc) - s.Radius*s.Radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if b > 0 || disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// Nearest returns the index of the closest sphere hit by the ray.
func Nearest(origin, dir r3.Vec, spheres []Sphere) (int, bool) {
	best := -1
	bestT := math.Inf(1)
	for i, s := range spheres {
		if t, ok := RaySphere(origin, dir, s); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}
