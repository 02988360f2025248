package scene

import (
	"collidex/internal/core"
	"collidex/internal/shape"
)

// Entity is the minimum a Manager needs to track something
type Entity interface {
	ID() core.EntityID
	Tag() core.Tag
}

// Entity2D is a tagged polygon. Every transform marks it moved so the
// broadphase refreshes its placement on the next tick.
type Entity2D struct {
	id    core.EntityID
	tag   core.Tag
	shape *shape.Polygon
	moved bool

	// Data is free for the application, the engine never reads it
	Data any
}

// NewEntity2D wraps poly as an entity
func NewEntity2D(id core.EntityID, tag core.Tag, poly *shape.Polygon) *Entity2D {
	return &Entity2D{id: id, tag: tag, shape: poly}
}

func (e *Entity2D) ID() core.EntityID { return e.id }
func (e *Entity2D) Tag() core.Tag     { return e.tag }

// Shape returns the collision polygon. Mutating it directly bypasses the
// moved flag; call MarkMoved afterwards.
func (e *Entity2D) Shape() *shape.Polygon { return e.shape }

// Bounds returns the world-space bounds of the shape
func (e *Entity2D) Bounds() core.AABB { return e.shape.Bounds() }

// Position returns the shape position
func (e *Entity2D) Position() core.Vector2D { return e.shape.Position }

func (e *Entity2D) Moved() bool { return e.moved }
func (e *Entity2D) ClearMoved() { e.moved = false }
func (e *Entity2D) MarkMoved()  { e.moved = true }

// SetPosition moves the entity to position
func (e *Entity2D) SetPosition(position core.Vector2D) {
	e.shape.SetPosition(position)
	e.moved = true
}

// Translate moves the entity by offset
func (e *Entity2D) Translate(offset core.Vector2D) {
	e.shape.Translate(offset)
	e.moved = true
}

// Rotate rotates the shape by angle radians around its position
func (e *Entity2D) Rotate(angle float64) {
	e.shape.Rotate(angle)
	e.moved = true
}

// Scale scales the shape around its position
func (e *Entity2D) Scale(sx, sy float64) {
	e.shape.Scale(sx, sy)
	e.moved = true
}

// Entity3D is a tagged polyhedron
type Entity3D struct {
	id    core.EntityID
	tag   core.Tag
	shape *shape.Polyhedron
	moved bool

	Data any
}

// NewEntity3D wraps poly as an entity
func NewEntity3D(id core.EntityID, tag core.Tag, poly *shape.Polyhedron) *Entity3D {
	return &Entity3D{id: id, tag: tag, shape: poly}
}

func (e *Entity3D) ID() core.EntityID { return e.id }
func (e *Entity3D) Tag() core.Tag     { return e.tag }

// Shape returns the collision polyhedron
func (e *Entity3D) Shape() *shape.Polyhedron { return e.shape }

// Bounds returns the world-space bounds of the shape
func (e *Entity3D) Bounds() core.AABB3D { return e.shape.Bounds() }

// Position returns the shape position
func (e *Entity3D) Position() core.Vector3D { return e.shape.Position }

func (e *Entity3D) Moved() bool { return e.moved }
func (e *Entity3D) ClearMoved() { e.moved = false }
func (e *Entity3D) MarkMoved()  { e.moved = true }

// SetPosition moves the entity to position
func (e *Entity3D) SetPosition(position core.Vector3D) {
	e.shape.SetPosition(position)
	e.moved = true
}

// Translate moves the entity by offset
func (e *Entity3D) Translate(offset core.Vector3D) {
	e.shape.Translate(offset)
	e.moved = true
}

// Rotate rotates the shape by angle radians around axis
func (e *Entity3D) Rotate(axis core.Vector3D, angle float64) {
	e.shape.Rotate(axis, angle)
	e.moved = true
}

// Scale scales the shape around its position
func (e *Entity3D) Scale(sx, sy, sz float64) {
	e.shape.Scale(sx, sy, sz)
	e.moved = true
}
