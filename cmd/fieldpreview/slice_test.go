package main

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/field"
)

func TestSampleSliceOrientation(t *testing.T) {
	// Value is y, so the top row is positive and the bottom row negative.
	f := field.ScalarFunc(func(p r3.Vec) float64 { return p.Y })
	got := SampleSlice(f, 4, 1, 0, nil)
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	if math.Abs(got[0]-0.75) > 1e-12 || math.Abs(got[15]+0.75) > 1e-12 {
		t.Errorf("corners = %v, %v; want 0.75, -0.75", got[0], got[15])
	}
}

func TestSampleSliceReusesBuffer(t *testing.T) {
	f := field.ScalarFunc(func(p r3.Vec) float64 { return p.Z })
	buf := make([]float64, 0, 64)
	got := SampleSlice(f, 8, 1, 0.3, buf)
	if &got[0] != &buf[:1][0] {
		t.Error("buffer with enough capacity was not reused")
	}
	for i, v := range got {
		if v != 0.3 {
			t.Fatalf("sample %d = %v, want slice depth 0.3", i, v)
		}
	}
}

func TestSummarizeSphere(t *testing.T) {
	f, err := field.New([]field.Emitter{{Radius: 0.5}}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	vals := SampleSlice(f, 32, 1, 0, nil)
	r := Summarize(vals, 0)

	if r.Min >= -0.45 || r.Max <= 0.8 {
		t.Errorf("range = [%v, %v]", r.Min, r.Max)
	}
	// Area fraction of a disc of radius 0.5 in a 2x2 square.
	want := math.Pi * 0.25 / 4
	if frac := float64(r.Inside) / float64(len(vals)); math.Abs(frac-want) > 0.02 {
		t.Errorf("inside fraction %v, want about %v", frac, want)
	}
}

func TestColorize(t *testing.T) {
	if c := Colorize(0.001, 0, 1, 0.01); c != contourColor {
		t.Errorf("near iso = %v, want contour", c)
	}
	in := Colorize(-0.5, 0, 1, 0.01)
	out := Colorize(0.5, 0, 1, 0.01)
	if in.R <= in.B || out.B <= out.R {
		t.Errorf("inside %v should be warm, outside %v cool", in, out)
	}
	far := Colorize(5, 0, 1, 0.01)
	if far.B >= out.B {
		t.Errorf("far sample %v should be darker than near %v", far, out)
	}
}

func TestSettingsYAMLRoundTrips(t *testing.T) {
	f := config.FieldConfig{Smoothing: 0.25, IsoLevel: 0.01, VolumeRadius: 1}
	e := config.EmittersConfig{Count: 7, Speed: 0.3, TargetRadius: 0.15, RadiusVariance: 0.2}

	text, err := SettingsYAML(f, e)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "smoothing: 0.25") {
		t.Errorf("yaml missing smoothing:\n%s", text)
	}

	var back previewSettings
	if err := yaml.Unmarshal([]byte(text), &back); err != nil {
		t.Fatal(err)
	}
	if back.Field != f || back.Emitters != e {
		t.Errorf("round trip = %+v", back)
	}
}
