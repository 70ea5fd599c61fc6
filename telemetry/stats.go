package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blobs/mesh"
)

// MeshStats describes one frame's triangle buffers.
type MeshStats struct {
	Triangles      int
	Vertices       int
	BoundingRadius float64 // largest vertex distance from the origin
	MeanRadius     float64
	StdRadius      float64
}

// ComputeMeshStats summarizes b. Empty or nil buffers give zero stats.
func ComputeMeshStats(b *mesh.Buffers) MeshStats {
	n := b.VertexCount()
	s := MeshStats{Triangles: b.TriangleCount(), Vertices: n}
	if n == 0 {
		return s
	}

	radii := make([]float64, n)
	for v := range radii {
		radii[v] = r3.Norm(b.Vertex(v))
	}
	s.BoundingRadius = floats.Max(radii)
	if n == 1 {
		s.MeanRadius = radii[0]
		return s
	}
	s.MeanRadius, s.StdRadius = stat.MeanStdDev(radii, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s MeshStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("triangles", s.Triangles),
		slog.Int("vertices", s.Vertices),
		slog.Float64("bounding_radius", s.BoundingRadius),
		slog.Float64("mean_radius", s.MeanRadius),
		slog.Float64("std_radius", s.StdRadius),
	)
}

// WindowStats holds aggregated mesh statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Frames   int `csv:"frames"`
	Emitters int `csv:"emitters"`
	Reseeds  int `csv:"reseeds"`
	Errors   int `csv:"errors"`

	// Triangle counts over the window
	TrianglesMean float64 `csv:"triangles_mean"`
	TrianglesMin  int     `csv:"triangles_min"`
	TrianglesMax  int     `csv:"triangles_max"`
	TrianglesStd  float64 `csv:"triangles_std"`

	// Surface extent
	BoundingRadiusMax float64 `csv:"bounding_radius_max"`
	MeanRadius        float64 `csv:"mean_radius"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Int("emitters", s.Emitters),
		slog.Int("reseeds", s.Reseeds),
		slog.Int("errors", s.Errors),
		slog.Float64("triangles_mean", s.TrianglesMean),
		slog.Int("triangles_min", s.TrianglesMin),
		slog.Int("triangles_max", s.TrianglesMax),
		slog.Float64("triangles_std", s.TrianglesStd),
		slog.Float64("bounding_radius_max", s.BoundingRadiusMax),
		slog.Float64("mean_radius", s.MeanRadius),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("mesh",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"emitters", s.Emitters,
		"triangles_mean", int(s.TrianglesMean),
		"triangles_max", s.TrianglesMax,
		"bounding_radius", s.BoundingRadiusMax,
		"reseeds", s.Reseeds,
	)
}
