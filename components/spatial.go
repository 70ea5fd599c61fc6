// Package components defines ECS components for emitter spheres.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position is an emitter's current center in world space.
type Position r3.Vec

// Target is the waypoint an emitter is travelling toward.
type Target r3.Vec

// Vec returns the position as a gonum vector.
func (p Position) Vec() r3.Vec { return r3.Vec(p) }

// Vec returns the target as a gonum vector.
func (t Target) Vec() r3.Vec { return r3.Vec(t) }
