package vmath

// Vec is a 2D vector in Q32.32 fixed point
type Vec struct {
	X, Y int64
}

func V(x, y int64) Vec             { return Vec{X: x, Y: y} }
func VFromFloat(x, y float64) Vec  { return Vec{X: FromFloat(x), Y: FromFloat(y)} }
func (v Vec) Add(o Vec) Vec        { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec        { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Neg() Vec             { return Vec{-v.X, -v.Y} }
func (v Vec) Scale(f int64) Vec    { return Vec{Mul(v.X, f), Mul(v.Y, f)} }
func (v Vec) Dot(o Vec) int64      { return Mul(v.X, o.X) + Mul(v.Y, o.Y) }
func (v Vec) IsZero() bool         { return v.X == 0 && v.Y == 0 }

// Cross returns the 2D scalar cross product v.X*o.Y - v.Y*o.X
func (v Vec) Cross(o Vec) int64 {
	return Mul(v.X, o.Y) - Mul(v.Y, o.X)
}

// CrossScalar returns the perpendicular of v scaled by w: (-w*v.Y, w*v.X)
// Used for velocity at a point: v + w x r
func (v Vec) CrossScalar(w int64) Vec {
	return Vec{-Mul(w, v.Y), Mul(w, v.X)}
}

// Len returns the Euclidean length sqrt(x^2 + y^2)
func (v Vec) Len() int64 {
	return Sqrt(v.LenSq())
}

// LenSq returns squared length without sqrt
func (v Vec) LenSq() int64 {
	return Mul(v.X, v.X) + Mul(v.Y, v.Y)
}

// Normalize returns the unit vector, zero-safe
func (v Vec) Normalize() Vec {
	mag := v.Len()
	if mag == 0 {
		return Vec{}
	}
	return Vec{Div(v.X, mag), Div(v.Y, mag)}
}

// ClampLen limits the vector to maxLen while preserving direction
func (v Vec) ClampLen(maxLen int64) Vec {
	mag := v.Len()
	if mag <= maxLen || mag == 0 {
		return v
	}
	f := Div(maxLen, mag)
	return v.Scale(f)
}

// Rotate rotates the vector by angle in rotation units (Scale = full turn)
func (v Vec) Rotate(angle int64) Vec {
	cos := Cos(angle)
	sin := Sin(angle)
	return Vec{
		X: Mul(v.X, cos) - Mul(v.Y, sin),
		Y: Mul(v.X, sin) + Mul(v.Y, cos),
	}
}

// RotateRad rotates the vector by an angle in Q32.32 radians
func (v Vec) RotateRad(rad int64) Vec {
	return v.Rotate(Mul(rad, RadToRot))
}
