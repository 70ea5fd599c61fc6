// Package mesh extracts a triangle mesh from a scalar field with marching cubes.
package mesh

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNilField is returned when no field is supplied.
var ErrNilField = errors.New("mesh: nil field")

// Field is a scalar potential with a surface normal estimate.
type Field interface {
	Value(p r3.Vec) float64
	Normal(p r3.Vec) r3.Vec
}

// Triangulate walks every cell of g on the calling goroutine and returns the
// triangles of the iso surface of f. Cells are visited i (x) outer, j middle,
// k inner, and triangles are emitted in that order.
func Triangulate(f Field, g Grid) (*Buffers, error) {
	if f == nil {
		return nil, ErrNilField
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	cellSize := g.CellSize()
	var verts []r3.Vec
	for i := 0; i < g.CellsPerAxis; i++ {
		verts = polygonizeSlab(f, g, i, cellSize, verts)
	}

	b := newBuffers(verts)
	estimateNormals(f, verts, b.Normals, 0, len(verts))
	return b, nil
}

// polygonizeSlab appends the triangles of every cell with x index i.
func polygonizeSlab(f Field, g Grid, i int, cellSize float64, dst []r3.Vec) []r3.Vec {
	n := g.CellsPerAxis
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			dst = polygonizeCell(f, g, i, j, k, cellSize, dst)
		}
	}
	return dst
}

// polygonizeCell classifies one cell and appends its triangles to dst.
func polygonizeCell(f Field, g Grid, i, j, k int, cellSize float64, dst []r3.Vec) []r3.Vec {
	var corners [8]r3.Vec
	var values [8]float64

	cube := 0
	for c, off := range cornerOffsets {
		corners[c] = g.latticePoint(i+off[0], j+off[1], k+off[2], cellSize)
		values[c] = f.Value(corners[c])
		if values[c] < g.IsoLevel {
			cube |= 1 << c
		}
	}

	mask := edgeTable[cube]
	if mask == 0 {
		return dst
	}

	var points [12]r3.Vec
	for e, ends := range edgeCorners {
		if mask&(1<<e) == 0 {
			continue
		}
		a, b := ends[0], ends[1]
		points[e] = InterpolateVertex(corners[a], corners[b], values[a], values[b], g.IsoLevel)
	}

	// Stored triples are reversed so the emitted winding faces outward.
	tris := &triTable[cube]
	for t := 0; tris[t] != -1; t += 3 {
		dst = append(dst, points[tris[t+2]], points[tris[t+1]], points[tris[t]])
	}
	return dst
}

// newBuffers converts positions to float32 and sizes the normal buffer.
func newBuffers(verts []r3.Vec) *Buffers {
	b := &Buffers{
		Positions: make([]float32, 0, 3*len(verts)),
		Normals:   make([]float32, 3*len(verts)),
	}
	for _, v := range verts {
		b.Positions = appendVec(b.Positions, v)
	}
	return b
}

// estimateNormals fills normals[3*lo:3*hi] from the field gradient.
func estimateNormals(f Field, verts []r3.Vec, normals []float32, lo, hi int) {
	for v := lo; v < hi; v++ {
		n := f.Normal(verts[v])
		normals[3*v] = float32(n.X)
		normals[3*v+1] = float32(n.Y)
		normals[3*v+2] = float32(n.Z)
	}
}
