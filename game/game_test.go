package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/mesh"
	"github.com/pthm-cable/blobs/telemetry"
)

func init() {
	config.MustInit("")
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{Seed: 42, Headless: true, Workers: 2})
	t.Cleanup(g.Unload)
	if err := g.SetParameter("cells_per_axis", 16); err != nil {
		t.Fatal(err)
	}
	return g
}

func sameBuffers(a, b *mesh.Buffers) bool {
	if len(a.Positions) != len(b.Positions) || len(a.Normals) != len(b.Normals) {
		return false
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] || a.Normals[i] != b.Normals[i] {
			return false
		}
	}
	return true
}

func TestFirstTickSeedsEmitters(t *testing.T) {
	g := newTestGame(t)

	b, err := g.Step(1.0 / 60)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Emitters()); got != g.Params().EmitterCount {
		t.Errorf("%d emitters, want %d", got, g.Params().EmitterCount)
	}
	if b.TriangleCount() == 0 {
		t.Error("expected a non-empty mesh")
	}
	if g.Buffers() != b {
		t.Error("current buffers not swapped in")
	}
}

func TestZeroDtIsIdempotent(t *testing.T) {
	g := newTestGame(t)

	if _, err := g.Step(0.1); err != nil {
		t.Fatal(err)
	}
	first, err := g.AdvanceAndTriangulate(0, g.Params())
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.AdvanceAndTriangulate(0, g.Params())
	if err != nil {
		t.Fatal(err)
	}
	if first.VertexCount() != second.VertexCount() {
		t.Fatalf("vertex count changed: %d -> %d", first.VertexCount(), second.VertexCount())
	}
	for i := range first.Positions {
		if math.Abs(float64(first.Positions[i]-second.Positions[i])) > 1e-6 {
			t.Fatalf("position %d moved: %v -> %v", i, first.Positions[i], second.Positions[i])
		}
	}
}

func TestReseedIsAtomic(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.Step(0.1); err != nil {
		t.Fatal(err)
	}

	if err := g.Reseed(7); err != nil {
		t.Fatal(err)
	}
	ems := g.Emitters()
	if len(ems) != 7 {
		t.Fatalf("%d emitters after Reseed(7)", len(ems))
	}
	bounds := g.Params().WanderBounds()
	for i, e := range ems {
		for _, c := range []float64{e.Position.X, e.Position.Y, e.Position.Z, e.Target.X, e.Target.Y, e.Target.Z} {
			if math.Abs(c) > bounds {
				t.Errorf("emitter %d outside padded cube: %+v", i, e)
			}
		}
	}

	// The next tick uses the new set as-is rather than reseeding again.
	if _, err := g.AdvanceAndTriangulate(0, g.Params()); err != nil {
		t.Fatal(err)
	}
	after := g.Emitters()
	for i := range ems {
		if after[i].Radius != ems[i].Radius || after[i].Position != ems[i].Position {
			t.Fatalf("emitter %d replaced by the following tick", i)
		}
	}

	if err := g.Reseed(0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Reseed(0): expected ErrInvalidParameter, got %v", err)
	}
	if len(g.Emitters()) != 7 {
		t.Error("rejected reseed changed the emitter set")
	}
}

func TestParameterChangesReseedOnlyForCountAndSpeed(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.Step(0); err != nil {
		t.Fatal(err)
	}
	before := g.Emitters()

	if err := g.SetParameter("target_radius", 0.3); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Step(0); err != nil {
		t.Fatal(err)
	}
	if g.Emitters()[0].Radius != before[0].Radius {
		t.Error("radius change should not reseed")
	}

	if err := g.SetParameter("speed", 0.9); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Step(0); err != nil {
		t.Fatal(err)
	}
	for _, e := range g.Emitters() {
		if e.Speed < 0.45 || e.Speed >= 1.35 {
			t.Fatalf("speed %v not drawn from the new base speed", e.Speed)
		}
	}

	if err := g.SetParameter("emitter_count", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Step(0); err != nil {
		t.Fatal(err)
	}
	if n := len(g.Emitters()); n != 3 {
		t.Errorf("%d emitters after count change, want 3", n)
	}
}

func TestSetParameterErrors(t *testing.T) {
	g := newTestGame(t)
	if err := g.SetParameter("nope", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if err := g.SetParameter("smoothing", -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestFailedTickKeepsPreviousBuffers(t *testing.T) {
	g := newTestGame(t)
	good, err := g.Step(0.05)
	if err != nil {
		t.Fatal(err)
	}

	bad := g.Params()
	bad.CellsPerAxis = 0
	got, err := g.AdvanceAndTriangulate(0.05, bad)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if got != good || g.Buffers() != good {
		t.Error("failed tick replaced the current buffers")
	}

	if _, err := g.AdvanceAndTriangulate(-1, g.Params()); !errors.Is(err, ErrInvalidTimeStep) {
		t.Errorf("expected ErrInvalidTimeStep, got %v", err)
	}
}

func TestTrianglesStayInsideVolume(t *testing.T) {
	g := newTestGame(t)
	r := g.Params().VolumeRadius

	for i := 0; i < 30; i++ {
		b, err := g.Step(1.0 / 30)
		if err != nil {
			t.Fatal(err)
		}
		for j, v := range b.Positions {
			if math.Abs(float64(v)) > r+1e-6 {
				t.Fatalf("tick %d: coordinate %d = %v outside the volume", i, j, v)
			}
			if math.IsNaN(float64(v)) {
				t.Fatalf("tick %d: NaN at %d", i, j)
			}
		}
	}
}

func TestMatchesSequentialTriangulation(t *testing.T) {
	g := newTestGame(t)
	b, err := g.Step(0.2)
	if err != nil {
		t.Fatal(err)
	}

	f := mustSnapshotField(t, g)
	want, err := mesh.Triangulate(f, g.Params().Grid())
	if err != nil {
		t.Fatal(err)
	}
	if !sameBuffers(b, want) {
		t.Error("pooled triangulation differs from sequential")
	}
}

func TestStatsCallbackFlushesWindows(t *testing.T) {
	g := newTestGame(t)
	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	per := int(g.collector.WindowDurationTicks())
	for i := 0; i < 2*per; i++ {
		g.UpdateHeadless()
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].Frames != per || windows[0].TrianglesMax == 0 {
		t.Errorf("window = %+v", windows[0])
	}
	if windows[0].Reseeds != 1 || windows[1].Reseeds != 0 {
		t.Errorf("reseeds = %d, %d, want 1, 0", windows[0].Reseeds, windows[1].Reseeds)
	}
}
