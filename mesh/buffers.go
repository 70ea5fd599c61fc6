package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Buffers is a non-indexed triangle soup: every three consecutive vertices
// form one triangle. Positions and Normals are flat xyz float32 triples.
type Buffers struct {
	Positions []float32
	Normals   []float32
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	if b == nil {
		return 0
	}
	return len(b.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return b.VertexCount() / 3
}

// Vertex returns vertex i's position.
func (b *Buffers) Vertex(i int) r3.Vec {
	return vecAt(b.Positions, i)
}

// Normal returns vertex i's normal.
func (b *Buffers) Normal(i int) r3.Vec {
	return vecAt(b.Normals, i)
}

// Triangle returns triangle i in emission order.
func (b *Buffers) Triangle(i int) r3.Triangle {
	return r3.Triangle{b.Vertex(3 * i), b.Vertex(3*i + 1), b.Vertex(3*i + 2)}
}

func vecAt(flat []float32, i int) r3.Vec {
	return r3.Vec{X: float64(flat[3*i]), Y: float64(flat[3*i+1]), Z: float64(flat[3*i+2])}
}

func appendVec(dst []float32, v r3.Vec) []float32 {
	return append(dst, float32(v.X), float32(v.Y), float32(v.Z))
}
