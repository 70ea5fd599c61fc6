package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/mesh"
	"github.com/pthm-cable/blobs/systems"
)

// Parameter errors.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// Params is the full set of tunables read by one tick. It is passed by
// value so a tick never sees a half-applied edit.
type Params struct {
	EmitterCount   int
	Smoothing      float64
	Speed          float64
	TargetRadius   float64
	RadiusVariance float64
	CellsPerAxis   int
	VolumeRadius   float64
	IsoLevel       float64
}

// ParamsFromConfig returns the configured starting parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		EmitterCount:   cfg.Emitters.Count,
		Smoothing:      cfg.Field.Smoothing,
		Speed:          cfg.Emitters.Speed,
		TargetRadius:   cfg.Emitters.TargetRadius,
		RadiusVariance: cfg.Emitters.RadiusVariance,
		CellsPerAxis:   cfg.Sampler.CellsPerAxis,
		VolumeRadius:   cfg.Field.VolumeRadius,
		IsoLevel:       cfg.Field.IsoLevel,
	}
}

// Parameter names one field of Params.
type Parameter int

const (
	ParamEmitterCount Parameter = iota
	ParamSmoothing
	ParamSpeed
	ParamTargetRadius
	ParamRadiusVariance
	ParamCellsPerAxis
	ParamVolumeRadius
	ParamIsoLevel
	numParameters
)

var parameterNames = [numParameters]string{
	ParamEmitterCount:   "emitter_count",
	ParamSmoothing:      "smoothing",
	ParamSpeed:          "speed",
	ParamTargetRadius:   "target_radius",
	ParamRadiusVariance: "radius_variance",
	ParamCellsPerAxis:   "cells_per_axis",
	ParamVolumeRadius:   "volume_radius",
	ParamIsoLevel:       "iso_level",
}

// Parameters lists every parameter in declaration order.
func Parameters() []Parameter {
	out := make([]Parameter, numParameters)
	for i := range out {
		out[i] = Parameter(i)
	}
	return out
}

func (p Parameter) String() string {
	if p < 0 || p >= numParameters {
		return fmt.Sprintf("Parameter(%d)", int(p))
	}
	return parameterNames[p]
}

// ParseParameter looks a parameter up by name.
func ParseParameter(name string) (Parameter, error) {
	for i, n := range parameterNames {
		if n == name {
			return Parameter(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

// Get returns the value of param.
func (p Params) Get(param Parameter) float64 {
	switch param {
	case ParamEmitterCount:
		return float64(p.EmitterCount)
	case ParamSmoothing:
		return p.Smoothing
	case ParamSpeed:
		return p.Speed
	case ParamTargetRadius:
		return p.TargetRadius
	case ParamRadiusVariance:
		return p.RadiusVariance
	case ParamCellsPerAxis:
		return float64(p.CellsPerAxis)
	case ParamVolumeRadius:
		return p.VolumeRadius
	case ParamIsoLevel:
		return p.IsoLevel
	}
	return math.NaN()
}

// Set writes one parameter. Values must be finite and positive, except the
// iso level, which may be any finite number, and the radius variance, which
// may be zero. Integer parameters are rounded.
func (p *Params) Set(param Parameter, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidParameter, param, value)
	}

	switch param {
	case ParamIsoLevel:
		p.IsoLevel = value
		return nil
	case ParamRadiusVariance:
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidParameter, param, value)
		}
		p.RadiusVariance = value
		return nil
	case ParamEmitterCount, ParamCellsPerAxis:
		value = math.Round(value)
	}

	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, param, value)
	}

	switch param {
	case ParamEmitterCount:
		p.EmitterCount = int(value)
	case ParamSmoothing:
		p.Smoothing = value
	case ParamSpeed:
		p.Speed = value
	case ParamTargetRadius:
		p.TargetRadius = value
	case ParamCellsPerAxis:
		p.CellsPerAxis = int(value)
	case ParamVolumeRadius:
		p.VolumeRadius = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParameter, param)
	}
	return nil
}

// Validate checks every parameter against the rules Set enforces.
func (p Params) Validate() error {
	for _, param := range Parameters() {
		probe := p
		if err := probe.Set(param, p.Get(param)); err != nil {
			return err
		}
		if probe != p {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParameter, param, p.Get(param))
		}
	}
	return nil
}

// Grid returns the sampling grid for these parameters.
func (p Params) Grid() mesh.Grid {
	return mesh.Grid{CellsPerAxis: p.CellsPerAxis, Radius: p.VolumeRadius, IsoLevel: p.IsoLevel}
}

// WanderBounds returns the half-extent of the cube emitters wander in.
func (p Params) WanderBounds() float64 {
	return systems.WanderBounds(p.VolumeRadius, p.Smoothing)
}

// SpawnParams returns emitter generation settings for these parameters.
func (p Params) SpawnParams() systems.SpawnParams {
	return systems.SpawnParams{
		Bounds:       p.WanderBounds(),
		TargetRadius: p.TargetRadius,
		Variance:     p.RadiusVariance,
		BaseSpeed:    p.Speed,
	}
}

// needsReseed reports whether moving from p to next replaces the emitter set.
// Only the count and the speed do; radius settings apply at the next reseed.
func (p Params) needsReseed(next Params) bool {
	return p.EmitterCount != next.EmitterCount || p.Speed != next.Speed
}
