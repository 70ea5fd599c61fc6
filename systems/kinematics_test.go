package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

func inCube(p r3.Vec, bounds float64) bool {
	return math.Abs(p.X) <= bounds && math.Abs(p.Y) <= bounds && math.Abs(p.Z) <= bounds
}

func TestPaddingAndWanderBounds(t *testing.T) {
	tests := []struct {
		r, k       float64
		pad, bound float64
	}{
		{1, 0, 0.3, 0.7},
		{1, 0.1, 0.6, 0.4},
		{2, 0.05, 0.9, 1.1},
		{1, 0.5, 1.8, 0}, // clamped
	}
	for _, tt := range tests {
		if got := Padding(tt.r, tt.k); math.Abs(got-tt.pad) > 1e-12 {
			t.Errorf("Padding(%v, %v) = %v, want %v", tt.r, tt.k, got, tt.pad)
		}
		if got := WanderBounds(tt.r, tt.k); math.Abs(got-tt.bound) > 1e-12 {
			t.Errorf("WanderBounds(%v, %v) = %v, want %v", tt.r, tt.k, got, tt.bound)
		}
	}
}

func TestAdvanceMovesTowardTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := r3.Vec{}
	target := r3.Vec{X: 1}

	Advance(&pos, &target, 0.5, 0.1, 0.5, rng)

	if math.Abs(pos.X-0.05) > 1e-12 || pos.Y != 0 || pos.Z != 0 {
		t.Errorf("pos = %v, want (0.05, 0, 0)", pos)
	}
	if target != (r3.Vec{X: 1}) {
		t.Errorf("target changed to %v before arrival", target)
	}
}

func TestAdvanceSnapsAndRetargets(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pos := r3.Vec{}
	target := r3.Vec{X: 0.1, Y: 0.1}
	const bounds = 0.4

	Advance(&pos, &target, 1, 1, bounds, rng)

	if pos != (r3.Vec{X: 0.1, Y: 0.1}) {
		t.Errorf("pos = %v, want snapped onto old target", pos)
	}
	if target == pos {
		t.Error("expected a fresh target after arrival")
	}
	if !inCube(target, bounds) {
		t.Errorf("new target %v outside bounds %v", target, bounds)
	}
}

func TestAdvanceAtTargetSkipsMovement(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pos := r3.Vec{X: 0.2, Y: -0.1, Z: 0.05}
	target := r3.Add(pos, r3.Vec{X: ArriveEpsilon / 2})
	start, oldTarget := pos, target

	Advance(&pos, &target, 10, 1, 0.5, rng)

	if pos != start {
		t.Errorf("pos moved to %v, want %v", pos, start)
	}
	if target == oldTarget {
		t.Error("expected target to be resampled")
	}
}

func TestAdvanceZeroStepIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	tests := []struct {
		name      string
		speed, dt float64
	}{
		{"zero dt", 1, 0},
		{"zero speed", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := r3.Vec{X: -0.3}
			target := r3.Vec{X: 0.3}
			Advance(&pos, &target, tt.speed, tt.dt, 0.5, rng)
			if pos != (r3.Vec{X: -0.3}) || target != (r3.Vec{X: 0.3}) {
				t.Errorf("state changed: pos %v target %v", pos, target)
			}
		})
	}
}

func TestKinematicsKeepsEmittersInBounds(t *testing.T) {
	w := ecs.NewWorld()
	rng := rand.New(rand.NewSource(5))
	spawner := NewEmitterSpawner(w, rng)
	kin := NewKinematicsSystem(w, rng)

	const bounds = 0.6
	spawner.Reseed(12, SpawnParams{Bounds: bounds, TargetRadius: 0.1, Variance: 0.3, BaseSpeed: 2})

	for tick := 0; tick < 500; tick++ {
		kin.Update(1.0/60, bounds)
	}

	moved := 0
	for _, e := range spawner.Snapshot(nil) {
		if !inCube(e.Position, bounds) || !inCube(e.Target, bounds) {
			t.Fatalf("emitter left the cube: %+v", e)
		}
		if e.Position != e.Target {
			moved++
		}
	}
	if moved == 0 {
		t.Error("expected emitters to be travelling")
	}
}
