package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobs/mesh"
)

func TestComputeMeshStats(t *testing.T) {
	// One triangle with vertices at radius 1, 2 and 3.
	b := &mesh.Buffers{
		Positions: []float32{1, 0, 0, 0, 2, 0, 0, 0, -3},
		Normals:   make([]float32, 9),
	}
	s := ComputeMeshStats(b)

	if s.Triangles != 1 || s.Vertices != 3 {
		t.Errorf("counts = %d/%d, want 1/3", s.Triangles, s.Vertices)
	}
	if s.BoundingRadius != 3 {
		t.Errorf("bounding radius = %v, want 3", s.BoundingRadius)
	}
	if math.Abs(s.MeanRadius-2) > 1e-12 {
		t.Errorf("mean radius = %v, want 2", s.MeanRadius)
	}
	// Sample standard deviation of {1, 2, 3}.
	if math.Abs(s.StdRadius-1) > 1e-12 {
		t.Errorf("std radius = %v, want 1", s.StdRadius)
	}
}

func TestComputeMeshStatsEmpty(t *testing.T) {
	for _, b := range []*mesh.Buffers{nil, {}} {
		if s := ComputeMeshStats(b); s != (MeshStats{}) {
			t.Errorf("expected zero stats, got %+v", s)
		}
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.25) // four ticks per window

	if c.WindowDurationTicks() != 4 {
		t.Fatalf("window = %d ticks, want 4", c.WindowDurationTicks())
	}
	if c.ShouldFlush(3) {
		t.Error("flushed too early")
	}

	for _, tris := range []int{10, 20, 30, 40} {
		c.RecordFrame(MeshStats{Triangles: tris, BoundingRadius: float64(tris) / 100, MeanRadius: 0.2})
	}
	c.RecordReseed()
	c.RecordError()

	if !c.ShouldFlush(4) {
		t.Fatal("expected flush at tick 4")
	}
	s := c.Flush(4, 7)

	if s.Frames != 4 || s.Emitters != 7 || s.Reseeds != 1 || s.Errors != 1 {
		t.Errorf("counters = %+v", s)
	}
	if s.TrianglesMin != 10 || s.TrianglesMax != 40 || s.TrianglesMean != 25 {
		t.Errorf("triangle stats = %d/%d/%v", s.TrianglesMin, s.TrianglesMax, s.TrianglesMean)
	}
	if s.BoundingRadiusMax != 0.4 || math.Abs(s.MeanRadius-0.2) > 1e-12 {
		t.Errorf("radius stats = %v/%v", s.BoundingRadiusMax, s.MeanRadius)
	}
	if s.SimTimeSec != 1.0 {
		t.Errorf("sim time = %v, want 1", s.SimTimeSec)
	}

	// Counters reset for the next window.
	next := c.Flush(8, 7)
	if next.Frames != 0 || next.Reseeds != 0 || next.WindowStartTick != 4 {
		t.Errorf("window not reset: %+v", next)
	}
}
