package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2D represents a 2D coordinate/vector
type Vector2D struct {
	X, Y float64
}

// Vector3D represents a 3D coordinate/vector
type Vector3D struct {
	X, Y, Z float64
}

// Add returns v + o
func (v Vector2D) Add(o Vector2D) Vector2D { return Vector2D{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o
func (v Vector2D) Sub(o Vector2D) Vector2D { return Vector2D{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v * s
func (v Vector2D) Scale(s float64) Vector2D { return Vector2D{X: v.X * s, Y: v.Y * s} }

// Neg returns -v
func (v Vector2D) Neg() Vector2D { return Vector2D{X: -v.X, Y: -v.Y} }

// Dot returns the dot product of v and o
func (v Vector2D) Dot(o Vector2D) float64 { return v.X*o.X + v.Y*o.Y }

// Perp returns the right-hand perpendicular (y, -x). For a counter-clockwise
// edge this is the outward normal.
func (v Vector2D) Perp() Vector2D { return Vector2D{X: v.Y, Y: -v.X} }

// LengthSq returns the squared length
func (v Vector2D) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Length returns the length of the vector
func (v Vector2D) Length() float64 { return math.Sqrt(v.LengthSq()) }

// Normalize returns a unit vector in the same direction. The zero vector
// stays zero.
func (v Vector2D) Normalize() Vector2D {
	l := v.Length()
	if l == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / l, Y: v.Y / l}
}

// Min returns the component-wise minimum
func (v Vector2D) Min(o Vector2D) Vector2D {
	return Vector2D{X: math.Min(v.X, o.X), Y: math.Min(v.Y, o.Y)}
}

// Max returns the component-wise maximum
func (v Vector2D) Max(o Vector2D) Vector2D {
	return Vector2D{X: math.Max(v.X, o.X), Y: math.Max(v.Y, o.Y)}
}

// At returns the component on the given axis (0 = X, 1 = Y)
func (v Vector2D) At(axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

// Vec converts to an mgl64 vector
func (v Vector2D) Vec() mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }

// Vector2DFrom converts an mgl64 vector
func Vector2DFrom(v mgl64.Vec2) Vector2D { return Vector2D{X: v[0], Y: v[1]} }

// Add returns v + o
func (v Vector3D) Add(o Vector3D) Vector3D {
	return Vector3D{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o
func (v Vector3D) Sub(o Vector3D) Vector3D {
	return Vector3D{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s
func (v Vector3D) Scale(s float64) Vector3D {
	return Vector3D{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns -v
func (v Vector3D) Neg() Vector3D { return Vector3D{X: -v.X, Y: -v.Y, Z: -v.Z} }

// Dot returns the dot product of v and o
func (v Vector3D) Dot(o Vector3D) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o
func (v Vector3D) Cross(o Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LengthSq returns the squared length
func (v Vector3D) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Length returns the length of the vector
func (v Vector3D) Length() float64 { return math.Sqrt(v.LengthSq()) }

// Normalize returns a unit vector in the same direction. The zero vector
// stays zero.
func (v Vector3D) Normalize() Vector3D {
	l := v.Length()
	if l == 0 {
		return Vector3D{}
	}
	return Vector3D{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// Min returns the component-wise minimum
func (v Vector3D) Min(o Vector3D) Vector3D {
	return Vector3D{X: math.Min(v.X, o.X), Y: math.Min(v.Y, o.Y), Z: math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum
func (v Vector3D) Max(o Vector3D) Vector3D {
	return Vector3D{X: math.Max(v.X, o.X), Y: math.Max(v.Y, o.Y), Z: math.Max(v.Z, o.Z)}
}

// At returns the component on the given axis (0 = X, 1 = Y, 2 = Z)
func (v Vector3D) At(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Vec converts to an mgl64 vector
func (v Vector3D) Vec() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// Vector3DFrom converts an mgl64 vector
func Vector3DFrom(v mgl64.Vec3) Vector3D { return Vector3D{X: v[0], Y: v[1], Z: v[2]} }
