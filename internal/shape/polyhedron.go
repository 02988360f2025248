package shape

import (
	"fmt"

	"collidex/internal/core"

	"github.com/go-gl/mathgl/mgl64"
)

// Polyhedron is a convex polyhedron described by an ordered vertex sequence
// plus a world-space position.
//
// The narrow phase derives candidate axes from the cross product of each pair
// of consecutive directed edges, so the sequence has to be laid out as strips
// (or triangle lists) whose consecutive triples span the faces. Cuboid and
// UVSphere emit such sequences; arbitrary hull point clouds do not.
type Polyhedron struct {
	Position core.Vector3D
	points   []core.Vector3D
}

// NewPolyhedron creates a polyhedron at position from the given local points
func NewPolyhedron(position core.Vector3D, points ...core.Vector3D) (*Polyhedron, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("polyhedron needs at least 2 points, got %d: %w", len(points), core.ErrInvalidShape)
	}
	p := &Polyhedron{
		Position: position,
		points:   make([]core.Vector3D, len(points)),
	}
	copy(p.points, points)
	return p, nil
}

// Len returns the number of points
func (p *Polyhedron) Len() int { return len(p.points) }

// Points returns the local-space sequence. The slice is owned by the polyhedron.
func (p *Polyhedron) Points() []core.Vector3D { return p.points }

// WorldVertices returns a fresh slice of world-space points
func (p *Polyhedron) WorldVertices() []core.Vector3D {
	out := make([]core.Vector3D, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Add(p.Position)
	}
	return out
}

// Edge returns the directed edge from point i to point i+1 (mod n)
func (p *Polyhedron) Edge(i int) core.Vector3D {
	n := len(p.points)
	return p.points[(i+1)%n].Sub(p.points[i%n])
}

// Bounds returns the world-space bounding box
func (p *Polyhedron) Bounds() core.AABB3D {
	b := core.AABB3D{Min: p.points[0], Max: p.points[0]}
	for _, pt := range p.points[1:] {
		b.Min = b.Min.Min(pt)
		b.Max = b.Max.Max(pt)
	}
	return b.Translate(p.Position)
}

// SetPosition moves the polyhedron to position
func (p *Polyhedron) SetPosition(position core.Vector3D) { p.Position = position }

// Translate moves the polyhedron by offset
func (p *Polyhedron) Translate(offset core.Vector3D) { p.Position = p.Position.Add(offset) }

// Rotate rotates the local points by angle radians around axis
func (p *Polyhedron) Rotate(axis core.Vector3D, angle float64) {
	n := axis.Normalize()
	if n.LengthSq() == 0 {
		return
	}
	p.Transform(mgl64.HomogRotate3D(angle, n.Vec()))
}

// Scale scales the local points around the local origin
func (p *Polyhedron) Scale(sx, sy, sz float64) {
	p.Transform(mgl64.Scale3D(sx, sy, sz))
}

// Transform applies a homogeneous 3D matrix to the local points
func (p *Polyhedron) Transform(m mgl64.Mat4) {
	for i, pt := range p.points {
		p.points[i] = core.Vector3DFrom(mgl64.TransformCoordinate(pt.Vec(), m))
	}
}

// Clone returns a deep copy
func (p *Polyhedron) Clone() *Polyhedron {
	c := &Polyhedron{Position: p.Position, points: make([]core.Vector3D, len(p.points))}
	copy(c.points, p.points)
	return c
}
