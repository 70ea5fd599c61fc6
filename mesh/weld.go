package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Indexed is a welded view of a triangle soup.
type Indexed struct {
	Vertices []r3.Vec
	Indices  []int
}

// Weld merges vertices with identical positions. Cells that share an edge
// interpolate it from the same corners in the same order, so coincident
// vertices are bit-identical and exact matching suffices.
func Weld(b *Buffers) Indexed {
	n := b.VertexCount()
	out := Indexed{Indices: make([]int, n)}
	seen := make(map[[3]float32]int, n/4)
	for v := 0; v < n; v++ {
		key := [3]float32{b.Positions[3*v], b.Positions[3*v+1], b.Positions[3*v+2]}
		id, ok := seen[key]
		if !ok {
			id = len(out.Vertices)
			seen[key] = id
			out.Vertices = append(out.Vertices, b.Vertex(v))
		}
		out.Indices[v] = id
	}
	return out
}

// Components returns the number of connected pieces of the mesh.
func (m Indexed) Components() int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for t := 0; t+2 < len(m.Indices); t += 3 {
		union(m.Indices[t], m.Indices[t+1])
		union(m.Indices[t+1], m.Indices[t+2])
	}

	roots := make(map[int]struct{})
	for i := range parent {
		roots[find(i)] = struct{}{}
	}
	return len(roots)
}

// OpenEdges counts directed edges whose reverse does not occur equally often.
// A closed surface with consistent winding has none. Edges collapsed by
// degenerate triangles are ignored.
func (m Indexed) OpenEdges() int {
	type edge struct{ a, b int }
	count := make(map[edge]int, len(m.Indices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		tri := [3]int{m.Indices[t], m.Indices[t+1], m.Indices[t+2]}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if a != b {
				count[edge{a, b}]++
			}
		}
	}

	open := 0
	for e, n := range count {
		if count[edge{e.b, e.a}] != n {
			open++
		}
	}
	return open
}
