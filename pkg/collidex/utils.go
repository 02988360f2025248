package collidex

import (
	"collidex/internal/core"
	"collidex/internal/scene"
	"collidex/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector utility functions

// NewVector2D creates a new 2D vector
func NewVector2D(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVector3D creates a new 3D vector
func NewVector3D(x, y, z float64) Vector3D {
	return Vector3D{X: x, Y: y, Z: z}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Vector2D) float64 {
	return b.Sub(a).Length()
}

// Lerp linearly interpolates between two vectors
func Lerp(a, b Vector2D, t float64) Vector2D {
	return a.Add(b.Sub(a).Scale(t))
}

// RotateVector rotates a vector by the given angle (in radians)
func RotateVector(v Vector2D, angle float64) Vector2D {
	return core.Vector2DFrom(mgl64.Rotate2D(angle).Mul2x1(v.Vec()))
}

// AABB utility functions

// NewAABB creates a new axis-aligned bounding box
func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{
		Min: Vector2D{X: minX, Y: minY},
		Max: Vector2D{X: maxX, Y: maxY},
	}
}

// NewAABB3D creates a new axis-aligned box
func NewAABB3D(lo, hi Vector3D) AABB3D {
	return AABB3D{Min: lo, Max: hi}
}

// AABBFromCenterSize creates an AABB from center point and size
func AABBFromCenterSize(center Vector2D, width, height float64) AABB {
	half := Vector2D{X: width / 2, Y: height / 2}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// AABBExpand expands an AABB by the given amount
func AABBExpand(bounds AABB, amount float64) AABB {
	pad := Vector2D{X: amount, Y: amount}
	return AABB{Min: bounds.Min.Sub(pad), Max: bounds.Max.Add(pad)}
}

// Entity utility functions

// NewPolygonEntity creates an entity from a convex point loop relative to
// position
func NewPolygonEntity(id EntityID, tag Tag, position Vector2D, points ...Vector2D) (*Entity, error) {
	poly, err := shape.NewPolygon(position, points...)
	if err != nil {
		return nil, err
	}
	return scene.NewEntity2D(id, tag, poly), nil
}

// NewBoxEntity creates a w×h rectangle entity centred on position
func NewBoxEntity(id EntityID, tag Tag, position Vector2D, width, height float64) *Entity {
	return scene.NewEntity2D(id, tag, shape.Box(position, width, height))
}

// NewRegularPolygonEntity creates a regular polygon entity
func NewRegularPolygonEntity(id EntityID, tag Tag, position Vector2D, radius float64, sides int) (*Entity, error) {
	poly, err := shape.RegularPolygon(position, radius, sides)
	if err != nil {
		return nil, err
	}
	return scene.NewEntity2D(id, tag, poly), nil
}

// NewCuboidEntity creates a w×h×d box entity centred on position
func NewCuboidEntity(id EntityID, tag Tag, position Vector3D, width, height, depth float64) *Entity3D {
	return scene.NewEntity3D(id, tag, shape.Cuboid(position, width, height, depth))
}

// NewSphereEntity creates a faceted sphere entity
func NewSphereEntity(id EntityID, tag Tag, position Vector3D, radius float64, segments, rings int) (*Entity3D, error) {
	poly, err := shape.UVSphere(position, radius, segments, rings)
	if err != nil {
		return nil, err
	}
	return scene.NewEntity3D(id, tag, poly), nil
}
