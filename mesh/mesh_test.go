package mesh

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/field"
)

// constField is a flat potential used to force every corner to one side.
type constField float64

func (c constField) Value(r3.Vec) float64 { return float64(c) }
func (c constField) Normal(r3.Vec) r3.Vec  { return field.FallbackNormal }

func mustField(t *testing.T, ems []field.Emitter, k float64) *field.Field {
	t.Helper()
	f, err := field.New(ems, k)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestInterpolateVertex(t *testing.T) {
	p1 := r3.Vec{X: 0, Y: 0, Z: 0}
	p2 := r3.Vec{X: 1, Y: 2, Z: 0}

	tests := []struct {
		name        string
		v1, v2, iso float64
		want        r3.Vec
	}{
		{"midpoint", -1, 1, 0, r3.Vec{X: 0.5, Y: 1}},
		{"quarter", -1, 3, 0, r3.Vec{X: 0.25, Y: 0.5}},
		{"snap to p1", 1e-6, 1, 0, p1},
		{"snap to p2", -1, -1e-6, 0, p2},
		{"equal values", 0.3, 0.3, 0, p1},
		{"nearly equal values", 0.3, 0.300001, 0, p1},
		{"nonzero iso", 1, 3, 2, r3.Vec{X: 0.5, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateVertex(p1, p2, tt.v1, tt.v2, tt.iso)
			if r3.Norm(r3.Sub(got, tt.want)) > 1e-12 {
				t.Errorf("InterpolateVertex = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolateVertexDegenerateIsExact(t *testing.T) {
	p1 := r3.Vec{X: 0.1234567, Y: -9.87, Z: 3.3}
	p2 := r3.Vec{X: 5, Y: 5, Z: 5}
	if got := InterpolateVertex(p1, p2, 0.7, 0.7, 0); got != p1 {
		t.Errorf("degenerate edge returned %v, want exactly %v", got, p1)
	}
}

func TestCaseTablesConsistent(t *testing.T) {
	for cube := 0; cube < 256; cube++ {
		var want uint16
		for e, ends := range edgeCorners {
			in0 := cube&(1<<ends[0]) != 0
			in1 := cube&(1<<ends[1]) != 0
			if in0 != in1 {
				want |= 1 << e
			}
		}
		if edgeTable[cube] != want {
			t.Errorf("edgeTable[%d] = %#x, want %#x", cube, edgeTable[cube], want)
		}

		var used uint16
		n := 0
		for n < 16 && triTable[cube][n] != -1 {
			used |= 1 << triTable[cube][n]
			n++
		}
		if n%3 != 0 {
			t.Errorf("case %d has %d indices, not a multiple of 3", cube, n)
		}
		if n == 16 {
			t.Errorf("case %d is missing its sentinel", cube)
		}
		if used != want {
			t.Errorf("case %d triangles use edges %#x, active edges %#x", cube, used, want)
		}
	}

	if edgeTable[0] != 0 || edgeTable[255] != 0 {
		t.Error("empty and full cases must have no active edges")
	}
}

func TestEmptyAndFullCellsEmitNothing(t *testing.T) {
	g := Grid{CellsPerAxis: 6, Radius: 1, IsoLevel: 0}

	for _, f := range []constField{-1, 1} {
		b, err := Triangulate(f, g)
		if err != nil {
			t.Fatal(err)
		}
		if b.TriangleCount() != 0 {
			t.Errorf("constant field %v produced %d triangles", f, b.TriangleCount())
		}
	}
}

func TestTriangulateRejectsInvalidInput(t *testing.T) {
	f := mustField(t, []field.Emitter{{Radius: 0.5}}, 0.1)

	bad := []Grid{
		{CellsPerAxis: 0, Radius: 1},
		{CellsPerAxis: -4, Radius: 1},
		{CellsPerAxis: 8, Radius: 0},
		{CellsPerAxis: 8, Radius: -1},
		{CellsPerAxis: 8, Radius: 1, IsoLevel: math.NaN()},
	}
	for _, g := range bad {
		if _, err := Triangulate(f, g); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("grid %+v: expected ErrInvalidGrid, got %v", g, err)
		}
		tr := NewTriangulator(2, 1)
		if _, err := tr.Triangulate(f, g); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("parallel grid %+v: expected ErrInvalidGrid, got %v", g, err)
		}
		tr.Close()
	}

	if _, err := Triangulate(nil, Grid{CellsPerAxis: 4, Radius: 1}); !errors.Is(err, ErrNilField) {
		t.Errorf("expected ErrNilField, got %v", err)
	}
}

func TestSingleSphereClosedMesh(t *testing.T) {
	const r = 0.5
	f := mustField(t, []field.Emitter{{Radius: r}}, 0.1)
	g := Grid{CellsPerAxis: 24, Radius: 1}

	b, err := Triangulate(f, g)
	if err != nil {
		t.Fatal(err)
	}
	if b.TriangleCount() == 0 {
		t.Fatal("expected a non-empty mesh")
	}
	if len(b.Positions) != len(b.Normals) || len(b.Positions)%9 != 0 {
		t.Fatalf("bad buffer sizes: %d positions, %d normals", len(b.Positions), len(b.Normals))
	}

	diag := g.CellDiagonal()
	maxR := 0.0
	for v := 0; v < b.VertexCount(); v++ {
		d := r3.Norm(b.Vertex(v))
		maxR = math.Max(maxR, d)
		if math.Abs(d-r) > diag {
			t.Fatalf("vertex %d at radius %v, want %v within %v", v, d, r, diag)
		}
	}
	if math.Abs(maxR-r) > diag {
		t.Errorf("bounding radius %v, want %v within %v", maxR, r, diag)
	}

	m := Weld(b)
	if open := m.OpenEdges(); open != 0 {
		t.Errorf("mesh has %d open edges, want closed", open)
	}
	if c := m.Components(); c != 1 {
		t.Errorf("mesh has %d components, want 1", c)
	}
}

func TestWindingFacesOutward(t *testing.T) {
	f := mustField(t, []field.Emitter{
		{Position: r3.Vec{X: -0.2}, Radius: 0.3},
		{Position: r3.Vec{X: 0.25, Y: 0.1}, Radius: 0.25},
	}, 0.2)
	b, err := Triangulate(f, Grid{CellsPerAxis: 20, Radius: 1})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < b.TriangleCount(); i++ {
		tri := b.Triangle(i)
		face := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
		if r3.Norm(face) < 1e-9 {
			continue
		}
		n := b.Normal(3 * i)
		if r3.Dot(face, n) <= 0 {
			t.Fatalf("triangle %d winds inward: face %v, normal %v", i, face, n)
		}
	}
}

func TestNormalsAreUnitAndFinite(t *testing.T) {
	f := mustField(t, []field.Emitter{
		{Position: r3.Vec{X: 0.1}, Radius: 0.4},
		{Position: r3.Vec{Y: -0.3, Z: 0.2}, Radius: 0.2},
	}, 0.15)
	b, err := Triangulate(f, Grid{CellsPerAxis: 16, Radius: 1})
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range b.Positions {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("position component %d is %v", i, v)
		}
	}
	for v := 0; v < b.VertexCount(); v++ {
		n := b.Normal(v)
		if math.Abs(r3.Norm(n)-1) > 1e-5 {
			t.Fatalf("normal %d = %v, not unit", v, n)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	f := mustField(t, []field.Emitter{
		{Position: r3.Vec{X: -0.3, Y: 0.1}, Radius: 0.3},
		{Position: r3.Vec{X: 0.3, Z: -0.2}, Radius: 0.35},
		{Position: r3.Vec{Y: 0.4}, Radius: 0.2},
	}, 0.1)
	g := Grid{CellsPerAxis: 20, Radius: 1}

	want, err := Triangulate(f, g)
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTriangulator(4, 1)
	defer tr.Close()

	// Run twice so reused scratch slabs are exercised.
	for pass := 0; pass < 2; pass++ {
		got, err := tr.Triangulate(f, g)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Positions) != len(want.Positions) {
			t.Fatalf("pass %d: %d floats, want %d", pass, len(got.Positions), len(want.Positions))
		}
		for i := range want.Positions {
			if got.Positions[i] != want.Positions[i] || got.Normals[i] != want.Normals[i] {
				t.Fatalf("pass %d: buffers differ at %d", pass, i)
			}
		}
	}
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(p string) { r.phases = append(r.phases, p) }

func TestTriangulatorReportsPhases(t *testing.T) {
	f := mustField(t, []field.Emitter{{Radius: 0.5}}, 0.1)

	for _, workers := range []int{1, 3} {
		rec := &recordingTimer{}
		tr := NewTriangulator(workers, 1)
		tr.Timer = rec
		if _, err := tr.Triangulate(f, Grid{CellsPerAxis: 8, Radius: 1}); err != nil {
			t.Fatal(err)
		}
		tr.Close()

		if len(rec.phases) != 2 || rec.phases[0] != PhaseTriangulate || rec.phases[1] != PhaseNormals {
			t.Errorf("workers=%d: phases %v", workers, rec.phases)
		}
	}
}

func TestTwoEmittersMergeWithSmoothing(t *testing.T) {
	pair := []field.Emitter{
		{Position: r3.Vec{X: -0.025}, Radius: 0.02},
		{Position: r3.Vec{X: 0.025}, Radius: 0.02},
	}
	g := Grid{CellsPerAxis: 40, Radius: 0.05}

	tests := []struct {
		k     float64
		parts int
	}{
		// The midpoint potential is gap/2 - k/4, so the 0.01 gap closes once k > 0.02.
		{0.03, 1},
		{0.01, 2},
		{0.0001, 2},
	}

	for _, tt := range tests {
		b, err := Triangulate(mustField(t, pair, tt.k), g)
		if err != nil {
			t.Fatal(err)
		}
		m := Weld(b)
		if c := m.Components(); c != tt.parts {
			t.Errorf("k=%v: %d components, want %d", tt.k, c, tt.parts)
		}
		if open := m.OpenEdges(); open != 0 {
			t.Errorf("k=%v: %d open edges", tt.k, open)
		}
	}
}

func TestBuffersAccessors(t *testing.T) {
	b := &Buffers{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
	}
	if b.VertexCount() != 3 || b.TriangleCount() != 1 {
		t.Fatalf("counts = %d/%d, want 3/1", b.VertexCount(), b.TriangleCount())
	}
	tri := b.Triangle(0)
	if tri[1] != (r3.Vec{X: 1}) || tri[2] != (r3.Vec{Y: 1}) {
		t.Errorf("triangle = %v", tri)
	}

	var empty *Buffers
	if empty.VertexCount() != 0 {
		t.Error("nil buffers should report zero vertices")
	}
}
