package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidGrid is returned for a grid that cannot be walked.
var ErrInvalidGrid = errors.New("mesh: invalid grid")

// Grid is a uniform cubic lattice spanning [-Radius, Radius] on every axis.
type Grid struct {
	CellsPerAxis int
	Radius       float64
	IsoLevel     float64
}

// Validate reports whether the grid can be triangulated.
func (g Grid) Validate() error {
	if g.CellsPerAxis <= 0 {
		return fmt.Errorf("%w: cells per axis %d", ErrInvalidGrid, g.CellsPerAxis)
	}
	if !(g.Radius > 0) || math.IsInf(g.Radius, 0) {
		return fmt.Errorf("%w: volume radius %v", ErrInvalidGrid, g.Radius)
	}
	if math.IsNaN(g.IsoLevel) || math.IsInf(g.IsoLevel, 0) {
		return fmt.Errorf("%w: iso level %v", ErrInvalidGrid, g.IsoLevel)
	}
	return nil
}

// CellSize returns the edge length of one cell.
func (g Grid) CellSize() float64 {
	return 2 * g.Radius / float64(g.CellsPerAxis)
}

// CellDiagonal returns the length of a cell's space diagonal.
func (g Grid) CellDiagonal() float64 {
	return g.CellSize() * math.Sqrt(3)
}

// Cells returns the total number of cells.
func (g Grid) Cells() int {
	return g.CellsPerAxis * g.CellsPerAxis * g.CellsPerAxis
}

// latticePoint maps integer lattice coordinates to world space. Every cell
// derives its corners from the same integers, so shared corners coincide exactly.
func (g Grid) latticePoint(i, j, k int, cellSize float64) r3.Vec {
	return r3.Vec{
		X: -g.Radius + float64(i)*cellSize,
		Y: -g.Radius + float64(j)*cellSize,
		Z: -g.Radius + float64(k)*cellSize,
	}
}
