// Package telemetry records per-frame mesh statistics and phase timings.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Collector accumulates frames within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	triangles []float64
	radii     []float64
	bounding  []float64
	reseeds   int
	errors    int
}

// NewCollector creates a new stats collector.
// windowDurationSec is the window length in simulated seconds and dt the
// seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticks := int32(windowDurationSec / float64(dt))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordFrame adds one frame's mesh stats.
func (c *Collector) RecordFrame(s MeshStats) {
	c.triangles = append(c.triangles, float64(s.Triangles))
	c.radii = append(c.radii, s.MeanRadius)
	c.bounding = append(c.bounding, s.BoundingRadius)
}

// RecordReseed records an emitter set replacement.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// RecordError records a tick that failed its precondition checks.
func (c *Collector) RecordError() {
	c.errors++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, emitters int) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Frames:          len(c.triangles),
		Emitters:        emitters,
		Reseeds:         c.reseeds,
		Errors:          c.errors,
	}

	if n := len(c.triangles); n > 0 {
		s.TrianglesMin = int(floats.Min(c.triangles))
		s.TrianglesMax = int(floats.Max(c.triangles))
		s.BoundingRadiusMax = floats.Max(c.bounding)
		s.MeanRadius = stat.Mean(c.radii, nil)
		if n > 1 {
			s.TrianglesMean, s.TrianglesStd = stat.MeanStdDev(c.triangles, nil)
		} else {
			s.TrianglesMean = c.triangles[0]
		}
	}

	c.windowStartTick = currentTick
	c.triangles = c.triangles[:0]
	c.radii = c.radii[:0]
	c.bounding = c.bounding[:0]
	c.reseeds = 0
	c.errors = 0

	return s
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
