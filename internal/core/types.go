package core

// Epsilon is the tolerance used for degenerate-axis and near-zero checks
const Epsilon = 1e-9

// EntityID identifies an entity for the lifetime of a scene
type EntityID uint64

// Tag groups entities for collision pair registration (player, enemy, ...)
type Tag uint32

// Volume is a bounding volume the broadphase structures can be built over.
// AABB and AABB3D implement it so every index is written once for both
// dimensions.
type Volume[B any] interface {
	// Valid reports whether the lower corner does not exceed the upper one
	Valid() bool
	Union(other B) B
	Overlaps(other B) bool
	Contains(other B) bool
	// Perimeter is the cost metric used by the dynamic tree
	Perimeter() float64
	// DistanceSq is the squared gap between the volumes; 0 when they overlap
	DistanceSq(other B) float64
	Dims() int
	Lower(axis int) float64
	Upper(axis int) float64
	// Split returns the 2^Dims equal sub-volumes around the centre
	Split() []B
}
