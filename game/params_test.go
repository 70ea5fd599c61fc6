package game

import (
	"errors"
	"math"
	"testing"
)

func baseParams() Params {
	return Params{
		EmitterCount:   4,
		Smoothing:      0.1,
		Speed:          0.3,
		TargetRadius:   0.15,
		RadiusVariance: 0.3,
		CellsPerAxis:   12,
		VolumeRadius:   1,
		IsoLevel:       0,
	}
}

func TestParseParameterRoundTrip(t *testing.T) {
	for _, p := range Parameters() {
		got, err := ParseParameter(p.String())
		if err != nil || got != p {
			t.Errorf("ParseParameter(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseParameter("gravity"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestParamsSet(t *testing.T) {
	tests := []struct {
		param Parameter
		value float64
		want  float64
	}{
		{ParamEmitterCount, 7.4, 7},
		{ParamSmoothing, 0.02, 0.02},
		{ParamSpeed, 1.5, 1.5},
		{ParamTargetRadius, 0.2, 0.2},
		{ParamRadiusVariance, 0, 0},
		{ParamCellsPerAxis, 31.6, 32},
		{ParamVolumeRadius, 2, 2},
		{ParamIsoLevel, -0.05, -0.05},
	}
	for _, tt := range tests {
		t.Run(tt.param.String(), func(t *testing.T) {
			p := baseParams()
			if err := p.Set(tt.param, tt.value); err != nil {
				t.Fatal(err)
			}
			if got := p.Get(tt.param); got != tt.want {
				t.Errorf("Get = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamsSetRejectsInvalid(t *testing.T) {
	tests := []struct {
		param Parameter
		value float64
	}{
		{ParamEmitterCount, 0},
		{ParamEmitterCount, 0.4}, // rounds to zero
		{ParamSmoothing, 0},
		{ParamSpeed, -1},
		{ParamTargetRadius, math.NaN()},
		{ParamRadiusVariance, -0.1},
		{ParamCellsPerAxis, -8},
		{ParamVolumeRadius, math.Inf(1)},
		{ParamIsoLevel, math.NaN()},
	}
	for _, tt := range tests {
		p := baseParams()
		if err := p.Set(tt.param, tt.value); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Set(%s, %v): expected ErrInvalidParameter, got %v", tt.param, tt.value, err)
		}
		if p != baseParams() {
			t.Errorf("Set(%s, %v) modified params on error", tt.param, tt.value)
		}
	}
}

func TestIsoLevelMayBeNegative(t *testing.T) {
	p := baseParams()
	if err := p.Set(ParamIsoLevel, -3); err != nil {
		t.Errorf("negative iso level rejected: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	if err := baseParams().Validate(); err != nil {
		t.Fatal(err)
	}
	bad := baseParams()
	bad.CellsPerAxis = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestNeedsReseed(t *testing.T) {
	p := baseParams()

	for _, param := range Parameters() {
		next := p
		v := p.Get(param) * 2
		if param == ParamIsoLevel {
			v = 0.1
		}
		if err := next.Set(param, v); err != nil {
			t.Fatal(err)
		}
		want := param == ParamEmitterCount || param == ParamSpeed
		if got := p.needsReseed(next); got != want {
			t.Errorf("changing %s: needsReseed = %v, want %v", param, got, want)
		}
	}
}
