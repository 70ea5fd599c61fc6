package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NormalStep is the central-difference offset used for gradients.
const NormalStep = 1e-3

// minGradient is the smallest gradient magnitude that is normalized.
const minGradient = 1e-12

// FallbackNormal is returned where the gradient vanishes.
var FallbackNormal = r3.Vec{X: 0, Y: 1, Z: 0}

// EstimateNormal approximates the unit gradient of s at p with central
// differences (six evaluations).
func EstimateNormal(s Scalar, p r3.Vec) r3.Vec {
	h := NormalStep
	g := r3.Vec{
		X: s.Value(r3.Vec{X: p.X + h, Y: p.Y, Z: p.Z}) - s.Value(r3.Vec{X: p.X - h, Y: p.Y, Z: p.Z}),
		Y: s.Value(r3.Vec{X: p.X, Y: p.Y + h, Z: p.Z}) - s.Value(r3.Vec{X: p.X, Y: p.Y - h, Z: p.Z}),
		Z: s.Value(r3.Vec{X: p.X, Y: p.Y, Z: p.Z + h}) - s.Value(r3.Vec{X: p.X, Y: p.Y, Z: p.Z - h}),
	}
	n := r3.Norm(g)
	if !(n > minGradient) || math.IsInf(n, 0) {
		return FallbackNormal
	}
	return r3.Scale(1/n, g)
}
