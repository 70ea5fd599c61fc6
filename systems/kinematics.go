// Package systems contains ECS systems that move and spawn emitters.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
)

// ArriveEpsilon is the distance at which an emitter counts as already at its
// target. It is in the same units as emitter radii.
const ArriveEpsilon = 1e-3

// Padding is how far wander targets stay inside the volume of half-extent r.
// Larger smoothing widens the blend, so the margin grows with k.
func Padding(r, k float64) float64 {
	return r * (0.3 + 3*k)
}

// WanderBounds is the half-extent of the cube emitters wander in.
// It never goes negative; a large k collapses the cube to the origin.
func WanderBounds(r, k float64) float64 {
	return math.Max(0, r-Padding(r, k))
}

// RandomPoint returns a point uniform in [-bounds, bounds]³.
func RandomPoint(rng *rand.Rand, bounds float64) r3.Vec {
	return r3.Vec{
		X: (2*rng.Float64() - 1) * bounds,
		Y: (2*rng.Float64() - 1) * bounds,
		Z: (2*rng.Float64() - 1) * bounds,
	}
}

// Advance moves pos toward target by speed*dt.
// An emitter already within ArriveEpsilon of its target picks a new target
// and does not move this tick. One that would reach or pass its target snaps
// onto it and picks a new one.
func Advance(pos, target *r3.Vec, speed, dt, bounds float64, rng *rand.Rand) {
	toTarget := r3.Sub(*target, *pos)
	dist := r3.Norm(toTarget)
	if dist < ArriveEpsilon {
		*target = RandomPoint(rng, bounds)
		return
	}

	step := speed * dt
	if step >= dist {
		*pos = *target
		*target = RandomPoint(rng, bounds)
		return
	}
	*pos = r3.Add(*pos, r3.Scale(step/dist, toTarget))
}

// KinematicsSystem advances every emitter toward its target.
type KinematicsSystem struct {
	filter ecs.Filter3[components.Position, components.Target, components.Body]
	rng    *rand.Rand
}

// NewKinematicsSystem creates a new kinematics system.
func NewKinematicsSystem(w *ecs.World, rng *rand.Rand) *KinematicsSystem {
	return &KinematicsSystem{
		filter: *ecs.NewFilter3[components.Position, components.Target, components.Body](w),
		rng:    rng,
	}
}

// Update advances all emitters by dt seconds. New targets are drawn from
// the cube of half-extent bounds.
func (s *KinematicsSystem) Update(dt, bounds float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, target, body := query.Get()
		Advance((*r3.Vec)(pos), (*r3.Vec)(target), body.Speed, dt, bounds, s.rng)
	}
}
