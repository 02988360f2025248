package core

// AABB (Axis-Aligned Bounding Box) represents a rectangular boundary
type AABB struct {
	Min, Max Vector2D
}

// AABB3D represents an axis-aligned box in 3D space
type AABB3D struct {
	Min, Max Vector3D
}

var (
	_ Volume[AABB]   = AABB{}
	_ Volume[AABB3D] = AABB3D{}
)

// Valid reports whether Min <= Max on every axis
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y
}

// Union returns the smallest box containing both b and o
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Overlaps reports whether the boxes share any point. Touching edges count.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Contains reports whether o lies entirely inside b
func (b AABB) Contains(o AABB) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y
}

// Perimeter is the insertion cost metric: the sum of 2×extent over every axis
func (b AABB) Perimeter() float64 {
	return 2*(b.Max.X-b.Min.X) + 2*(b.Max.Y-b.Min.Y)
}

// DistanceSq returns the squared distance between the closest points of the
// boxes, 0 when they overlap
func (b AABB) DistanceSq(o AABB) float64 {
	dx := gap(b.Min.X, b.Max.X, o.Min.X, o.Max.X)
	dy := gap(b.Min.Y, b.Max.Y, o.Min.Y, o.Max.Y)
	return dx*dx + dy*dy
}

// Dims returns 2
func (b AABB) Dims() int { return 2 }

// Lower returns the minimum coordinate on the axis
func (b AABB) Lower(axis int) float64 { return b.Min.At(axis) }

// Upper returns the maximum coordinate on the axis
func (b AABB) Upper(axis int) float64 { return b.Max.At(axis) }

// Center returns the centre point
func (b AABB) Center() Vector2D {
	return Vector2D{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Size returns the extent on each axis
func (b AABB) Size() Vector2D {
	return b.Max.Sub(b.Min)
}

// Split returns the four quadrants in NW, NE, SW, SE order
func (b AABB) Split() []AABB {
	mid := b.Center()
	return []AABB{
		{Min: Vector2D{X: b.Min.X, Y: mid.Y}, Max: Vector2D{X: mid.X, Y: b.Max.Y}},
		{Min: mid, Max: b.Max},
		{Min: b.Min, Max: mid},
		{Min: Vector2D{X: mid.X, Y: b.Min.Y}, Max: Vector2D{X: b.Max.X, Y: mid.Y}},
	}
}

// Translate returns the box moved by offset
func (b AABB) Translate(offset Vector2D) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Valid reports whether Min <= Max on every axis
func (b AABB3D) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Union returns the smallest box containing both b and o
func (b AABB3D) Union(o AABB3D) AABB3D {
	return AABB3D{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Overlaps reports whether the boxes share any point. Touching faces count.
func (b AABB3D) Overlaps(o AABB3D) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether o lies entirely inside b
func (b AABB3D) Contains(o AABB3D) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y &&
		o.Min.Z >= b.Min.Z && o.Max.Z <= b.Max.Z
}

// Perimeter is the sum of 2×extent over every axis. It stands in for the
// surface area so 2D and 3D trees share one cost model.
func (b AABB3D) Perimeter() float64 {
	return 2*(b.Max.X-b.Min.X) + 2*(b.Max.Y-b.Min.Y) + 2*(b.Max.Z-b.Min.Z)
}

// DistanceSq returns the squared distance between the closest points of the
// boxes, 0 when they overlap
func (b AABB3D) DistanceSq(o AABB3D) float64 {
	dx := gap(b.Min.X, b.Max.X, o.Min.X, o.Max.X)
	dy := gap(b.Min.Y, b.Max.Y, o.Min.Y, o.Max.Y)
	dz := gap(b.Min.Z, b.Max.Z, o.Min.Z, o.Max.Z)
	return dx*dx + dy*dy + dz*dz
}

// Dims returns 3
func (b AABB3D) Dims() int { return 3 }

// Lower returns the minimum coordinate on the axis
func (b AABB3D) Lower(axis int) float64 { return b.Min.At(axis) }

// Upper returns the maximum coordinate on the axis
func (b AABB3D) Upper(axis int) float64 { return b.Max.At(axis) }

// Center returns the centre point
func (b AABB3D) Center() Vector3D {
	return Vector3D{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Size returns the extent on each axis
func (b AABB3D) Size() Vector3D {
	return b.Max.Sub(b.Min)
}

// Split returns the eight octants. Upper (Z above centre) octants come first,
// each layer in NW, NE, SW, SE order.
func (b AABB3D) Split() []AABB3D {
	mid := b.Center()
	out := make([]AABB3D, 0, 8)
	zRanges := [2][2]float64{{mid.Z, b.Max.Z}, {b.Min.Z, mid.Z}}
	for _, z := range zRanges {
		out = append(out,
			AABB3D{Min: Vector3D{X: b.Min.X, Y: mid.Y, Z: z[0]}, Max: Vector3D{X: mid.X, Y: b.Max.Y, Z: z[1]}},
			AABB3D{Min: Vector3D{X: mid.X, Y: mid.Y, Z: z[0]}, Max: Vector3D{X: b.Max.X, Y: b.Max.Y, Z: z[1]}},
			AABB3D{Min: Vector3D{X: b.Min.X, Y: b.Min.Y, Z: z[0]}, Max: Vector3D{X: mid.X, Y: mid.Y, Z: z[1]}},
			AABB3D{Min: Vector3D{X: mid.X, Y: b.Min.Y, Z: z[0]}, Max: Vector3D{X: b.Max.X, Y: mid.Y, Z: z[1]}},
		)
	}
	return out
}

// Translate returns the box moved by offset
func (b AABB3D) Translate(offset Vector3D) AABB3D {
	return AABB3D{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

func gap(minA, maxA, minB, maxB float64) float64 {
	switch {
	case maxA < minB:
		return minB - maxA
	case maxB < minA:
		return minA - maxB
	default:
		return 0
	}
}
