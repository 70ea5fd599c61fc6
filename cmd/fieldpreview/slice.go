package main

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/field"
)

// SampleSlice evaluates f on a size x size grid in the plane z = z, spanning
// [-radius, radius] on x and y. Row 0 is the top (largest y).
func SampleSlice(f field.Scalar, size int, radius, z float64, dst []float64) []float64 {
	if cap(dst) < size*size {
		dst = make([]float64, size*size)
	}
	dst = dst[:size*size]
	step := 2 * radius / float64(size)
	for row := 0; row < size; row++ {
		y := radius - (float64(row)+0.5)*step
		for col := 0; col < size; col++ {
			x := -radius + (float64(col)+0.5)*step
			dst[row*size+col] = f.Value(r3.Vec{X: x, Y: y, Z: z})
		}
	}
	return dst
}

// SliceRange is the smallest and largest sampled value.
type SliceRange struct {
	Min, Max float64
	Inside   int // samples below the iso level
}

// Summarize returns the value range of a slice and its inside count.
func Summarize(values []float64, iso float64) SliceRange {
	r := SliceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
		if v < iso {
			r.Inside++
		}
	}
	return r
}

var (
	insideColor  = color.RGBA{R: 230, G: 120, B: 60, A: 255}
	outsideColor = color.RGBA{R: 40, G: 80, B: 160, A: 255}
	contourColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Colorize maps a field value to a pixel. Distance from the iso level fades
// toward black over falloff, and values within band of it draw the contour.
func Colorize(v, iso, falloff, band float64) color.RGBA {
	d := v - iso
	if math.Abs(d) <= band {
		return contourColor
	}
	base := outsideColor
	if d < 0 {
		base = insideColor
	}
	t := 1 - math.Min(math.Abs(d)/falloff, 1)
	t = 0.25 + 0.75*t
	return color.RGBA{
		R: uint8(float64(base.R) * t),
		G: uint8(float64(base.G) * t),
		B: uint8(float64(base.B) * t),
		A: 255,
	}
}

// previewSettings is the subset of config the preview edits.
type previewSettings struct {
	Field    config.FieldConfig    `yaml:"field"`
	Emitters config.EmittersConfig `yaml:"emitters"`
}

// SettingsYAML renders the edited field and emitter sections as config YAML.
func SettingsYAML(f config.FieldConfig, e config.EmittersConfig) (string, error) {
	out, err := yaml.Marshal(previewSettings{Field: f, Emitters: e})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
