package shape

import (
	"fmt"
	"math"

	"collidex/internal/core"
)

// Box returns a counter-clockwise w×h rectangle centred on its position
func Box(position core.Vector2D, w, h float64) *Polygon {
	hw, hh := w/2, h/2
	return &Polygon{
		Position: position,
		points: []core.Vector2D{
			{X: -hw, Y: -hh},
			{X: hw, Y: -hh},
			{X: hw, Y: hh},
			{X: -hw, Y: hh},
		},
	}
}

// RegularPolygon returns a counter-clockwise regular polygon with the given
// circumradius
func RegularPolygon(position core.Vector2D, radius float64, sides int) (*Polygon, error) {
	if sides < 3 {
		return nil, fmt.Errorf("regular polygon needs at least 3 sides, got %d: %w", sides, core.ErrInvalidShape)
	}
	points := make([]core.Vector2D, sides)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(sides)
		points[i] = core.Vector2D{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return &Polygon{Position: position, points: points}, nil
}

// Cuboid returns a w×h×d box centred on its position. Each face is emitted as
// a four point strip so consecutive edge pairs produce every face normal.
func Cuboid(position core.Vector3D, w, h, d float64) *Polyhedron {
	half := [3]float64{w / 2, h / 2, d / 2}
	points := make([]core.Vector3D, 0, 24)
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for _, side := range [2]float64{-1, 1} {
			for _, uv := range [4][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
				var c [3]float64
				c[axis] = side * half[axis]
				c[u] = uv[0] * half[u]
				c[v] = uv[1] * half[v]
				points = append(points, core.Vector3D{X: c[0], Y: c[1], Z: c[2]})
			}
		}
	}
	return &Polyhedron{Position: position, points: points}
}

// UVSphere returns a latitude/longitude sphere approximation. Each band
// between two rings is emitted as a strip; the pole bands contain repeated
// points whose zero-length edges the narrow phase skips.
func UVSphere(position core.Vector3D, radius float64, segments, rings int) (*Polyhedron, error) {
	if segments < 3 || rings < 2 {
		return nil, fmt.Errorf("sphere needs at least 3 segments and 2 rings, got %d/%d: %w", segments, rings, core.ErrInvalidShape)
	}
	at := func(ring, seg int) core.Vector3D {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		return core.Vector3D{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Cos(theta),
			Z: radius * math.Sin(theta) * math.Sin(phi),
		}
	}
	points := make([]core.Vector3D, 0, rings*(segments+1)*2)
	for r := 0; r < rings; r++ {
		for s := 0; s <= segments; s++ {
			points = append(points, at(r, s), at(r+1, s))
		}
	}
	return &Polyhedron{Position: position, points: points}, nil
}
