package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/field"
)

// MaxRadiusVariance caps the radius spread so every radius stays positive.
const MaxRadiusVariance = 0.95

// SpawnParams controls how a fresh emitter set is generated.
type SpawnParams struct {
	Bounds       float64 // half-extent of the cube positions and targets are drawn from
	TargetRadius float64 // mean radius
	Variance     float64 // relative radius spread, clamped to [0, MaxRadiusVariance]
	BaseSpeed    float64 // speeds fall in [0.5, 1.5) times this
}

// EmitterSpawner owns the emitter entities of a world.
type EmitterSpawner struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Target, components.Body]
	filter ecs.Filter3[components.Position, components.Target, components.Body]
	rng    *rand.Rand

	count    int
	toRemove []ecs.Entity
}

// NewEmitterSpawner creates a spawner over w.
func NewEmitterSpawner(w *ecs.World, rng *rand.Rand) *EmitterSpawner {
	return &EmitterSpawner{
		world:  w,
		mapper: ecs.NewMap3[components.Position, components.Target, components.Body](w),
		filter: *ecs.NewFilter3[components.Position, components.Target, components.Body](w),
		rng:    rng,
	}
}

// Count returns the number of live emitters.
func (s *EmitterSpawner) Count() int {
	return s.count
}

// Reseed removes every emitter and creates count new ones.
// It must not run while a tick is reading emitter state.
func (s *EmitterSpawner) Reseed(count int, p SpawnParams) {
	// First pass: collect (queries must finish before the world changes)
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		s.toRemove = append(s.toRemove, query.Entity())
	}

	// Second pass: remove
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	s.count = 0

	variance := math.Min(math.Max(p.Variance, 0), MaxRadiusVariance)
	for i := 0; i < count; i++ {
		pos := components.Position(RandomPoint(s.rng, p.Bounds))
		target := components.Target(RandomPoint(s.rng, p.Bounds))
		body := components.Body{
			Radius: p.TargetRadius * (1 + variance*(2*s.rng.Float64()-1)),
			Speed:  p.BaseSpeed * (0.5 + s.rng.Float64()),
		}
		s.mapper.NewEntity(&pos, &target, &body)
		s.count++
	}
}

// Snapshot appends the current state of every emitter to dst[:0] and
// returns it. The result does not alias ECS storage.
func (s *EmitterSpawner) Snapshot(dst []field.Emitter) []field.Emitter {
	dst = dst[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, target, body := query.Get()
		dst = append(dst, field.Emitter{
			Position: pos.Vec(),
			Target:   target.Vec(),
			Radius:   body.Radius,
			Speed:    body.Speed,
		})
	}
	return dst
}
