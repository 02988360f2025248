package shape

import (
	"fmt"

	"collidex/internal/core"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a convex polygon: an ordered loop of local-space points plus a
// world-space position. World point i is Points[i] + Position. Points must be
// wound consistently; the generators in this package emit counter-clockwise
// loops.
type Polygon struct {
	Position core.Vector2D
	points   []core.Vector2D
}

// NewPolygon creates a polygon at position from the given local points
func NewPolygon(position core.Vector2D, points ...core.Vector2D) (*Polygon, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("polygon needs at least 2 points, got %d: %w", len(points), core.ErrInvalidShape)
	}
	p := &Polygon{
		Position: position,
		points:   make([]core.Vector2D, len(points)),
	}
	copy(p.points, points)
	return p, nil
}

// Len returns the number of points
func (p *Polygon) Len() int { return len(p.points) }

// Points returns the local-space loop. The slice is owned by the polygon.
func (p *Polygon) Points() []core.Vector2D { return p.points }

// SetPoints replaces the local loop
func (p *Polygon) SetPoints(points ...core.Vector2D) error {
	if len(points) < 2 {
		return fmt.Errorf("polygon needs at least 2 points, got %d: %w", len(points), core.ErrInvalidShape)
	}
	p.points = append(p.points[:0], points...)
	return nil
}

// WorldVertices returns a fresh slice of world-space points
func (p *Polygon) WorldVertices() []core.Vector2D {
	out := make([]core.Vector2D, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Add(p.Position)
	}
	return out
}

// Edge returns the directed edge from point i to point i+1 (mod n)
func (p *Polygon) Edge(i int) core.Vector2D {
	n := len(p.points)
	return p.points[(i+1)%n].Sub(p.points[i%n])
}

// Bounds returns the world-space bounding box
func (p *Polygon) Bounds() core.AABB {
	b := core.AABB{Min: p.points[0], Max: p.points[0]}
	for _, pt := range p.points[1:] {
		b.Min = b.Min.Min(pt)
		b.Max = b.Max.Max(pt)
	}
	return b.Translate(p.Position)
}

// SetPosition moves the polygon to position
func (p *Polygon) SetPosition(position core.Vector2D) { p.Position = position }

// Translate moves the polygon by offset
func (p *Polygon) Translate(offset core.Vector2D) { p.Position = p.Position.Add(offset) }

// Rotate rotates the local points counter-clockwise around the local origin
func (p *Polygon) Rotate(angle float64) {
	rot := mgl64.Rotate2D(angle)
	for i, pt := range p.points {
		p.points[i] = core.Vector2DFrom(rot.Mul2x1(pt.Vec()))
	}
}

// Scale scales the local points around the local origin. A negative factor
// on exactly one axis flips the winding, so the loop is reversed to keep it
// counter-clockwise.
func (p *Polygon) Scale(sx, sy float64) {
	p.Transform(mgl64.Scale2D(sx, sy))
	if (sx < 0) != (sy < 0) {
		reverse(p.points)
	}
}

// Transform applies a homogeneous 2D matrix to the local points
func (p *Polygon) Transform(m mgl64.Mat3) {
	for i, pt := range p.points {
		v := m.Mul3x1(mgl64.Vec3{pt.X, pt.Y, 1})
		p.points[i] = core.Vector2D{X: v[0], Y: v[1]}
	}
}

// Clone returns a deep copy
func (p *Polygon) Clone() *Polygon {
	c := &Polygon{Position: p.Position, points: make([]core.Vector2D, len(p.points))}
	copy(c.points, p.points)
	return c
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
