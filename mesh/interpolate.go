package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// interpEpsilon snaps crossings that sit on a corner and guards flat edges.
const interpEpsilon = 1e-5

// InterpolateVertex returns the point on segment p1-p2 where the linearly
// interpolated value reaches iso. Crossings within epsilon of an endpoint snap
// to it, and an edge whose values are equal resolves to p1.
func InterpolateVertex(p1, p2 r3.Vec, v1, v2, iso float64) r3.Vec {
	if math.Abs(iso-v1) < interpEpsilon {
		return p1
	}
	if math.Abs(iso-v2) < interpEpsilon {
		return p2
	}
	if math.Abs(v1-v2) < interpEpsilon {
		return p1
	}
	t := (iso - v1) / (v2 - v1)
	return r3.Add(p1, r3.Scale(t, r3.Sub(p2, p1)))
}
