package physics

import "github.com/arenasim/ragdoll/vmath"

// ShapeKind discriminates collision shapes
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape is a collision shape in body-local coordinates
// Circles use Radius, boxes use HalfW/HalfH
type Shape struct {
	Kind   ShapeKind
	Radius int64
	HalfW  int64
	HalfH  int64
}

// Circle returns a circle shape with the given radius
func Circle(radius int64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// Box returns a box shape with the given full width and height
func Box(width, height int64) Shape {
	return Shape{Kind: ShapeBox, HalfW: width >> 1, HalfH: height >> 1}
}

// Moment returns the moment of inertia about the centroid for the given mass
func (s Shape) Moment(mass int64) int64 {
	switch s.Kind {
	case ShapeCircle:
		// (1/2) m r^2
		return vmath.Mul(vmath.Mul(mass, vmath.Mul(s.Radius, s.Radius)), vmath.Half)
	case ShapeBox:
		// m (w^2 + h^2) / 12
		w := s.HalfW << 1
		h := s.HalfH << 1
		return vmath.Div(vmath.Mul(mass, vmath.Mul(w, w)+vmath.Mul(h, h)), vmath.FromInt(12))
	}
	return 0
}

// Extents returns the axis-aligned half extents of the shape rotated by
// angle in Q32.32 radians
func (s Shape) Extents(angle int64) (ex, ey int64) {
	if s.Kind == ShapeCircle {
		return s.Radius, s.Radius
	}
	rot := vmath.Mul(angle, vmath.RadToRot)
	cos := vmath.Abs(vmath.Cos(rot))
	sin := vmath.Abs(vmath.Sin(rot))
	ex = vmath.Mul(s.HalfW, cos) + vmath.Mul(s.HalfH, sin)
	ey = vmath.Mul(s.HalfW, sin) + vmath.Mul(s.HalfH, cos)
	return ex, ey
}
