// Package field evaluates the blended signed-distance potential of a set of
// emitter spheres.
package field

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoEmitters is returned when a field is built from an empty emitter set.
	ErrNoEmitters = errors.New("field: at least one emitter is required")
	// ErrInvalidSmoothing is returned for a non-positive or non-finite smoothing factor.
	ErrInvalidSmoothing = errors.New("field: smoothing factor must be positive")
)

// Emitter is a read-only snapshot of one moving sphere.
type Emitter struct {
	Position r3.Vec
	Target   r3.Vec
	Radius   float64
	Speed    float64
}

// Scalar is anything that yields a potential at a point.
type Scalar interface {
	Value(p r3.Vec) float64
}

// ScalarFunc adapts a plain function into a Scalar.
type ScalarFunc func(p r3.Vec) float64

// Value calls the wrapped function.
func (f ScalarFunc) Value(p r3.Vec) float64 {
	return f(p)
}

// Field is the smooth union of all emitter spheres for a single tick.
// It owns a private copy of the emitters, so later mutation of the caller's
// slice is never observed.
type Field struct {
	emitters []Emitter
	k        float64
}

// New builds a field over a copy of emitters blended with smoothing factor k.
func New(emitters []Emitter, k float64) (*Field, error) {
	if len(emitters) == 0 {
		return nil, ErrNoEmitters
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, ErrInvalidSmoothing
	}
	snap := make([]Emitter, len(emitters))
	copy(snap, emitters)
	return &Field{emitters: snap, k: k}, nil
}

// Len returns the number of emitters in the field.
func (f *Field) Len() int {
	return len(f.emitters)
}

// Smoothing returns the blend radius.
func (f *Field) Smoothing() float64 {
	return f.k
}

// Emitters returns a copy of the field's emitter snapshot.
func (f *Field) Emitters() []Emitter {
	out := make([]Emitter, len(f.emitters))
	copy(out, f.emitters)
	return out
}

// Value folds the per-emitter distances left to right with SmoothMin.
func (f *Field) Value(p r3.Vec) float64 {
	d := SphereSDF(p, f.emitters[0])
	for i := 1; i < len(f.emitters); i++ {
		d = SmoothMin(d, SphereSDF(p, f.emitters[i]), f.k)
	}
	return d
}

// Normal returns the unit surface normal at p.
func (f *Field) Normal(p r3.Vec) r3.Vec {
	return EstimateNormal(f, p)
}

// SphereSDF is the signed distance from p to the emitter's surface, negative inside.
func SphereSDF(p r3.Vec, e Emitter) float64 {
	return r3.Norm(r3.Sub(p, e.Position)) - e.Radius
}

// SmoothMin blends a and b with a polynomial smooth minimum of width k.
// For k <= 0 it is the plain minimum.
func SmoothMin(a, b, k float64) float64 {
	if !(k > 0) {
		return math.Min(a, b)
	}
	h := clamp(0.5+0.5*(b-a)/k, 0, 1)
	return a*h + b*(1-h) - k*h*(1-h)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
