// Package game ties emitter kinematics, the field and the triangulator into
// a per-frame loop, with optional raylib presentation.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobs/camera"
	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/field"
	"github.com/pthm-cable/blobs/inspector"
	"github.com/pthm-cable/blobs/mesh"
	"github.com/pthm-cable/blobs/renderer"
	"github.com/pthm-cable/blobs/systems"
	"github.com/pthm-cable/blobs/telemetry"
	"github.com/pthm-cable/blobs/ui"
)

// ErrInvalidTimeStep is returned for negative or non-finite dt.
var ErrInvalidTimeStep = errors.New("invalid time step")

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	Workers        int // 0 = use config
}

// Game holds the complete animator state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	spawner      *systems.EmitterSpawner
	kinematics   *systems.KinematicsSystem
	triangulator *mesh.Triangulator

	// params is edited between ticks; applied is what the last tick used.
	params     Params
	applied    Params
	hasApplied bool

	emitters []field.Emitter // per-tick snapshot
	buffers  *mesh.Buffers   // current frame
	current  *field.Field    // field the current buffers came from
	lastErr  error

	tick int32

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Presentation, nil when headless
	headless     bool
	paused       bool
	camera       *camera.Orbit
	meshRenderer *renderer.MeshRenderer
	panel        *ui.ParamPanel
	hud          *ui.HUD
	inspector    *inspector.Inspector
}

// NewGameWithOptions creates a game from the global config.
// config.Init must have been called.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	workers := cfg.Derived.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:          cfg,
		world:        world,
		rng:          rng,
		rngSeed:      opts.Seed,
		spawner:      systems.NewEmitterSpawner(world, rng),
		kinematics:   systems.NewKinematicsSystem(world, rng),
		triangulator: mesh.NewTriangulator(workers, cfg.Sampler.ParallelThreshold),
		params:       ParamsFromConfig(cfg),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:    telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		logStats:     opts.LogStats,
		headless:     opts.Headless,
	}
	g.triangulator.Timer = g.perf

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.initPresentation()
	}
	return g
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Params returns the parameters the next tick will read.
func (g *Game) Params() Params {
	return g.params
}

// SetParameter writes one named parameter. The change is observed by the
// next tick.
func (g *Game) SetParameter(name string, value float64) error {
	param, err := ParseParameter(name)
	if err != nil {
		return err
	}
	return g.params.Set(param, value)
}

// Reseed replaces the emitter set with count fresh emitters right away.
func (g *Game) Reseed(count int) error {
	if err := g.params.Set(ParamEmitterCount, float64(count)); err != nil {
		return err
	}
	g.reseed(g.params)
	return nil
}

// reseed regenerates emitters for p and marks p as applied so the next tick
// does not reseed again.
func (g *Game) reseed(p Params) {
	g.spawner.Reseed(p.EmitterCount, p.SpawnParams())
	g.applied = p
	g.hasApplied = true
	g.collector.RecordReseed()
	slog.Info("reseed",
		"count", p.EmitterCount,
		"speed", p.Speed,
		"target_radius", p.TargetRadius,
		"radius_variance", p.RadiusVariance,
		"bounds", p.WanderBounds(),
	)
}

// AdvanceAndTriangulate runs one frame: reseed if the emitter count or speed
// changed, move every emitter by dt, then triangulate a snapshot of the
// emitters under params. On error the previous frame's buffers stay current
// and are returned alongside the error.
func (g *Game) AdvanceAndTriangulate(dt float64, params Params) (*mesh.Buffers, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return g.buffers, fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}
	if err := params.Validate(); err != nil {
		return g.buffers, err
	}

	g.perf.StartPhase(telemetry.PhaseReseed)
	if !g.hasApplied || g.spawner.Count() == 0 || g.applied.needsReseed(params) {
		g.reseed(params)
	}
	g.applied = params

	g.perf.StartPhase(telemetry.PhaseKinematics)
	g.kinematics.Update(dt, params.WanderBounds())

	g.perf.StartPhase(telemetry.PhaseSnapshot)
	g.emitters = g.spawner.Snapshot(g.emitters)
	f, err := field.New(g.emitters, params.Smoothing)
	if err != nil {
		return g.buffers, err
	}

	b, err := g.triangulator.Triangulate(f, params.Grid())
	if err != nil {
		return g.buffers, err
	}
	g.buffers = b
	g.current = f
	return b, nil
}

// Step advances one tick with the current parameters and records telemetry.
func (g *Game) Step(dt float64) (*mesh.Buffers, error) {
	g.perf.StartTick()
	b, err := g.AdvanceAndTriangulate(dt, g.params)
	g.perf.EndTick()
	g.tick++

	if err != nil {
		g.collector.RecordError()
		if g.lastErr == nil || g.lastErr.Error() != err.Error() {
			slog.Error("tick failed", "tick", g.tick, "error", err)
		}
	} else {
		g.collector.RecordFrame(telemetry.ComputeMeshStats(b))
	}
	g.lastErr = err

	g.flushTelemetry()
	return b, err
}

// UpdateHeadless advances one fixed config step.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.Physics.DT)
}

// Buffers returns the current frame's mesh.
func (g *Game) Buffers() *mesh.Buffers {
	return g.buffers
}

// Field returns the field behind the current buffers, nil before the first
// successful tick.
func (g *Game) Field() *field.Field {
	return g.current
}

// Emitters returns a copy of the current emitter state.
func (g *Game) Emitters() []field.Emitter {
	return g.spawner.Snapshot(nil)
}

// Tick returns the number of ticks run so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Unload releases workers and closes output files.
func (g *Game) Unload() {
	g.triangulator.Close()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
