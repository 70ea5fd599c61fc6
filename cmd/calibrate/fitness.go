package main

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/field"
	"github.com/pthm-cable/blobs/mesh"
)

// ErrAlreadyMerged is returned when the spheres overlap without any smoothing.
var ErrAlreadyMerged = errors.New("emitters already touch at zero smoothing")

// minSmoothing is the smallest k the search and the field will accept.
const minSmoothing = 1e-9

// Pair is two equal emitters on the x axis, spacing apart center to center.
type Pair struct {
	Radius   float64
	Spacing  float64
	IsoLevel float64
}

// Emitters returns the pair centered on the origin.
func (p Pair) Emitters() []field.Emitter {
	return []field.Emitter{
		{Position: r3.Vec{X: -p.Spacing / 2}, Radius: p.Radius},
		{Position: r3.Vec{X: p.Spacing / 2}, Radius: p.Radius},
	}
}

// MidpointValue is the field value halfway between the centers at smoothing k.
// The pair is joined when it drops below the iso level.
func (p Pair) MidpointValue(k float64) (float64, error) {
	f, err := field.New(p.Emitters(), k)
	if err != nil {
		return 0, err
	}
	return f.Value(r3.Vec{}), nil
}

// Calibration is the result of a merge search.
type Calibration struct {
	Smoothing   float64 // k at which the midpoint reaches the iso level
	Evaluations int
}

// Solve searches for the smoothing at which the pair's midpoint reaches
// iso - margin. The search runs Nelder-Mead over log(k) so k stays positive.
func Solve(p Pair, margin float64, maxEvals int) (Calibration, error) {
	if v, err := p.MidpointValue(minSmoothing); err != nil {
		return Calibration{}, err
	} else if v < p.IsoLevel-margin {
		return Calibration{}, ErrAlreadyMerged
	}

	target := p.IsoLevel - margin
	evals := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evals++
			k := math.Max(math.Exp(x[0]), minSmoothing)
			v, err := p.MidpointValue(k)
			if err != nil {
				return math.Inf(1)
			}
			d := v - target
			return d * d
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-20,
			Iterations: 60,
		},
	}

	// Start from the gap between the surfaces, a natural scale for k.
	x0 := []float64{math.Log(math.Max(p.Spacing-2*p.Radius, 1e-4))}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if result == nil {
		return Calibration{}, err
	}
	return Calibration{Smoothing: math.Exp(result.X[0]), Evaluations: evals}, nil
}

// Components triangulates the pair at smoothing k and counts the pieces.
func Components(p Pair, k float64, cells int) (int, error) {
	f, err := field.New(p.Emitters(), k)
	if err != nil {
		return 0, err
	}
	// Frame the pair with one radius of margin on every side.
	g := mesh.Grid{CellsPerAxis: cells, Radius: p.Spacing/2 + 2*p.Radius, IsoLevel: p.IsoLevel}
	b, err := mesh.Triangulate(f, g)
	if err != nil {
		return 0, err
	}
	if b.TriangleCount() == 0 {
		return 0, nil
	}
	return mesh.Weld(b).Components(), nil
}
