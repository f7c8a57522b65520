// Package vg defines the abstract vector-drawing interface that an
// animation runtime draws through, together with the small amount of
// float32 geometry (points, affine matrices, bounding boxes) and color
// handling shared by every implementation of that interface.
package vg

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec2 is a point or direction in 2-D space.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3-D cross product of v and o.
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// LengthSquared returns |v|².
func (v Vec2) LengthSquared() float32 { return v.X*v.X + v.Y*v.Y }

// Length returns |v|.
func (v Vec2) Length() float32 { return math32.Sqrt(v.LengthSquared()) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90° counter-clockwise (in a Y-down space this is
// visually clockwise).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Distance returns the distance between a and b.
func Distance(a, b Vec2) float32 { return b.Sub(a).Length() }

// String implements fmt.Stringer.
func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Mat2D is a 2-D affine transform stored as
//
//	| xx  yx  tx |
//	| xy  yy  ty |
//
// in the order [xx, xy, yx, yy, tx, ty], so that
//
//	x' = xx*x + yx*y + tx
//	y' = xy*x + yy*y + ty
type Mat2D [6]float32

// Identity is the identity transform.
var Identity = Mat2D{1, 0, 0, 1, 0, 0}

// NewTranslate returns a translation by (tx, ty).
func NewTranslate(tx, ty float32) Mat2D { return Mat2D{1, 0, 0, 1, tx, ty} }

// NewScale returns a scale by (sx, sy) about the origin.
func NewScale(sx, sy float32) Mat2D { return Mat2D{sx, 0, 0, sy, 0, 0} }

// NewRotate returns a rotation by angle radians about the origin.
func NewRotate(angle float32) Mat2D {
	s, c := math32.Sin(angle), math32.Cos(angle)
	return Mat2D{c, s, -s, c, 0, 0}
}

// Mul returns m × o: the transform that applies o first and then m.
func (m Mat2D) Mul(o Mat2D) Mat2D {
	return Mat2D{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Apply transforms the point p.
func (m Mat2D) Apply(p Vec2) Vec2 {
	return Vec2{
		m[0]*p.X + m[2]*p.Y + m[4],
		m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyVector transforms the direction v, ignoring translation.
func (m Mat2D) ApplyVector(v Vec2) Vec2 {
	return Vec2{
		m[0]*v.X + m[2]*v.Y,
		m[1]*v.X + m[3]*v.Y,
	}
}

// Determinant returns the determinant of the linear part of m.
func (m Mat2D) Determinant() float32 { return m[0]*m[3] - m[1]*m[2] }

// Invert returns the inverse of m. ok is false when m is singular or not
// finite, in which case the returned matrix is the identity.
func (m Mat2D) Invert() (inv Mat2D, ok bool) {
	det := m.Determinant()
	if det == 0 || math32.IsInf(det, 0) || math32.IsNaN(det) {
		return Identity, false
	}
	invDet := 1 / det
	return Mat2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}, true
}

// MaxScale returns the largest factor by which m stretches any unit vector.
func (m Mat2D) MaxScale() float32 {
	sx := math32.Hypot(m[0], m[1])
	sy := math32.Hypot(m[2], m[3])
	return math32.Max(sx, sy)
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat2D) IsIdentity() bool { return m == Identity }

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinY, MaxX, MaxY float32
}

// NewAABB returns the box with the given origin and size.
func NewAABB(x, y, width, height float32) AABB {
	return AABB{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// Width returns the horizontal extent.
func (b AABB) Width() float32 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b AABB) Height() float32 { return b.MaxY - b.MinY }

// Center returns the centre point.
func (b AABB) Center() Vec2 {
	return Vec2{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// IsEmpty reports whether the box has no area.
func (b AABB) IsEmpty() bool { return b.MaxX <= b.MinX || b.MaxY <= b.MinY }

// Expand grows the box to include p.
func (b AABB) Expand(p Vec2) AABB {
	return AABB{
		MinX: math32.Min(b.MinX, p.X),
		MinY: math32.Min(b.MinY, p.Y),
		MaxX: math32.Max(b.MaxX, p.X),
		MaxY: math32.Max(b.MaxY, p.Y),
	}
}

// BoundsOf returns the bounding box of pts. It returns the zero box for an
// empty slice.
func BoundsOf(pts []Vec2) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b = b.Expand(p)
	}
	return b
}
