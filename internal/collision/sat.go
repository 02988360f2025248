package collision

import (
	"fmt"
	"math"

	"collidex/internal/core"
	"collidex/internal/shape"
)

// vector is the arithmetic the separating axis test needs from a point type
type vector[V any] interface {
	Add(V) V
	Sub(V) V
	Scale(float64) V
	Neg() V
	Dot(V) float64
	LengthSq() float64
	Normalize() V
}

// Response describes a confirmed intersection between shape A and shape B.
//
// Normal is the unit axis of least overlap, pointing from A towards B.
// Translating B by MTV (or A by -MTV) leaves the shapes exactly touching.
type Response[V vector[V]] struct {
	Overlap float64
	Normal  V
	MTV     V
	AInB    bool // A lies entirely inside B
	BInA    bool // B lies entirely inside A
}

// Response2D is the narrow-phase result for polygons
type Response2D = Response[core.Vector2D]

// Response3D is the narrow-phase result for polyhedra
type Response3D = Response[core.Vector3D]

func newResponse[V vector[V]]() Response[V] {
	return Response[V]{Overlap: math.MaxFloat64, AInB: true, BInA: true}
}

// accumulate folds one axis into the response. It returns false when the two
// intervals are disjoint, meaning the axis separates the shapes. Intervals
// that share only an endpoint are not disjoint: touching shapes intersect
// with zero overlap.
func (r *Response[V]) accumulate(axis V, minA, maxA, minB, maxB float64) bool {
	if minA > maxB || minB > maxA {
		return false
	}

	var overlap float64
	if minA < minB {
		r.AInB = false
		if maxA < maxB {
			overlap = maxA - minB
			r.BInA = false
		} else {
			overlap = pickOverlap(maxA-minB, maxB-minA)
		}
	} else {
		r.BInA = false
		if maxA > maxB {
			overlap = minA - maxB
			r.AInB = false
		} else {
			overlap = pickOverlap(maxA-minB, maxB-minA)
		}
	}

	if abs := math.Abs(overlap); abs < r.Overlap {
		r.Overlap = abs
		r.Normal = axis
		if overlap < 0 {
			r.Normal = axis.Neg()
		}
	}
	return true
}

// pickOverlap chooses the shorter way out when one interval contains the
// other; a negative result means B should move against the axis.
func pickOverlap(forward, backward float64) float64 {
	if forward < backward {
		return forward
	}
	return -backward
}

func (r *Response[V]) finish() {
	r.MTV = r.Normal.Scale(r.Overlap)
}

func project[V vector[V]](points []V, axis V) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		d := p.Dot(axis)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// testAxes runs the separating axis test over the candidate axes. Points are
// in each shape's local space; offset is B.Position - A.Position.
func testAxes[V vector[V]](axes []V, pointsA, pointsB []V, offset V) (Response[V], bool) {
	resp := newResponse[V]()
	for _, axis := range axes {
		minA, maxA := project(pointsA, axis)
		minB, maxB := project(pointsB, axis)
		shift := offset.Dot(axis)
		if !resp.accumulate(axis, minA, maxA, minB+shift, maxB+shift) {
			return Response[V]{}, false
		}
	}
	resp.finish()
	return resp, true
}

// polygonAxes appends the unit outward edge normals of p. Zero-length edges
// carry no direction and are skipped.
func polygonAxes(dst []core.Vector2D, p *shape.Polygon) []core.Vector2D {
	for i := 0; i < p.Len(); i++ {
		n := p.Edge(i).Perp()
		if n.LengthSq() <= core.Epsilon*core.Epsilon {
			continue
		}
		dst = append(dst, n.Normalize())
	}
	return dst
}

// polyhedronAxes appends the normalised cross products of consecutive edges.
// Pairs that are collinear or include a zero-length edge are skipped.
func polyhedronAxes(dst []core.Vector3D, p *shape.Polyhedron) []core.Vector3D {
	for i := 0; i < p.Len(); i++ {
		e1, e2 := p.Edge(i), p.Edge(i+1)
		n := e1.Cross(e2)
		if n.LengthSq() <= core.Epsilon*e1.LengthSq()*e2.LengthSq() {
			continue
		}
		dst = append(dst, n.Normalize())
	}
	return dst
}

// IntersectPolygons tests two convex polygons with the separating axis
// theorem. Candidate axes are the edge normals of a followed by those of b.
// The bool is false when a separating axis exists.
func IntersectPolygons(a, b *shape.Polygon) (Response2D, bool, error) {
	if err := checkLen("polygon", a.Len(), b.Len()); err != nil {
		return Response2D{}, false, err
	}
	axes := make([]core.Vector2D, 0, a.Len()+b.Len())
	axes = polygonAxes(axes, a)
	axes = polygonAxes(axes, b)
	if len(axes) == 0 {
		return Response2D{}, false, fmt.Errorf("polygons have no usable edges: %w", core.ErrInvalidShape)
	}
	resp, hit := testAxes(axes, a.Points(), b.Points(), b.Position.Sub(a.Position))
	return resp, hit, nil
}

// IntersectPolyhedra tests two polyhedra with the separating axis theorem.
// Candidate axes are the consecutive-edge cross products of a followed by
// those of b. This is exact only for point sequences laid out as face strips
// (see shape.Polyhedron); edge-edge axes are not generated.
func IntersectPolyhedra(a, b *shape.Polyhedron) (Response3D, bool, error) {
	if err := checkLen("polyhedron", a.Len(), b.Len()); err != nil {
		return Response3D{}, false, err
	}
	axes := make([]core.Vector3D, 0, a.Len()+b.Len())
	axes = polyhedronAxes(axes, a)
	axes = polyhedronAxes(axes, b)
	if len(axes) == 0 {
		return Response3D{}, false, fmt.Errorf("polyhedra have no usable faces: %w", core.ErrInvalidShape)
	}
	resp, hit := testAxes(axes, a.Points(), b.Points(), b.Position.Sub(a.Position))
	return resp, hit, nil
}

// IntersectAABBs is the axis-aligned fast path: the same response as
// IntersectPolygons would give for two boxes, without building axes.
func IntersectAABBs(a, b core.AABB) (Response2D, bool) {
	resp := newResponse[core.Vector2D]()
	if !resp.accumulate(core.Vector2D{X: 1}, a.Min.X, a.Max.X, b.Min.X, b.Max.X) ||
		!resp.accumulate(core.Vector2D{Y: 1}, a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y) {
		return Response2D{}, false
	}
	resp.finish()
	return resp, true
}

// IntersectAABB3Ds is the 3D axis-aligned fast path
func IntersectAABB3Ds(a, b core.AABB3D) (Response3D, bool) {
	resp := newResponse[core.Vector3D]()
	if !resp.accumulate(core.Vector3D{X: 1}, a.Min.X, a.Max.X, b.Min.X, b.Max.X) ||
		!resp.accumulate(core.Vector3D{Y: 1}, a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y) ||
		!resp.accumulate(core.Vector3D{Z: 1}, a.Min.Z, a.Max.Z, b.Min.Z, b.Max.Z) {
		return Response3D{}, false
	}
	resp.finish()
	return resp, true
}

func checkLen(kind string, a, b int) error {
	if a < 2 || b < 2 {
		return fmt.Errorf("%s needs at least 2 points, got %d and %d: %w", kind, a, b, core.ErrInvalidShape)
	}
	return nil
}
