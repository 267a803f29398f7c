package physics

import "github.com/arenasim/ragdoll/vmath"

// Body is one rigid segment in the simulation space
// All quantities are Q32.32; Angle and AngVel are in radians
type Body struct {
	Label string

	Shape Shape

	Pos    vmath.Vec
	Vel    vmath.Vec
	Angle  int64
	AngVel int64

	// Force and torque accumulate between steps and are cleared after
	// integration
	force  vmath.Vec
	torque int64

	Mass       int64
	InvMass    int64
	Inertia    int64
	InvInertia int64

	// Group controls contact eligibility: zero collides with everything,
	// equal nonzero groups never collide with each other
	Group int32

	Static bool
}

// NewBody creates a dynamic body. Mass must be positive; static bodies are
// created with NewStaticBody
func NewBody(label string, shape Shape, mass int64, pos vmath.Vec) *Body {
	b := &Body{
		Label:   label,
		Shape:   shape,
		Pos:     pos,
		Mass:    mass,
		InvMass: vmath.Div(vmath.Scale, mass),
	}
	b.Inertia = shape.Moment(mass)
	if b.Inertia > 0 {
		b.InvInertia = vmath.Div(vmath.Scale, b.Inertia)
	}
	return b
}

// NewStaticBody creates an immovable body, used for arena boundaries
func NewStaticBody(label string, shape Shape, pos vmath.Vec) *Body {
	return &Body{
		Label:  label,
		Shape:  shape,
		Pos:    pos,
		Static: true,
	}
}

// ApplyForce accumulates a force through the center of mass
func (b *Body) ApplyForce(f vmath.Vec) {
	if b.Static {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyForceAt accumulates a force at a world point, inducing torque
func (b *Body) ApplyForceAt(f, worldPoint vmath.Vec) {
	if b.Static {
		return
	}
	b.force = b.force.Add(f)
	r := worldPoint.Sub(b.Pos)
	b.torque += r.Cross(f)
}

// ApplyImpulse changes velocity immediately; r is the offset from the center
// of mass to the application point
func (b *Body) ApplyImpulse(j, r vmath.Vec) {
	if b.Static {
		return
	}
	b.Vel = b.Vel.Add(j.Scale(b.InvMass))
	b.AngVel += vmath.Mul(r.Cross(j), b.InvInertia)
}

// VelocityAt returns the velocity of a world point on the body: v + w x r
func (b *Body) VelocityAt(worldPoint vmath.Vec) vmath.Vec {
	r := worldPoint.Sub(b.Pos)
	return b.Vel.Add(r.CrossScalar(b.AngVel))
}

// WorldPoint transforms a body-local point to world coordinates
func (b *Body) WorldPoint(local vmath.Vec) vmath.Vec {
	return b.Pos.Add(local.RotateRad(b.Angle))
}

// Speed returns the magnitude of linear velocity
func (b *Body) Speed() int64 {
	return b.Vel.Len()
}

// aabb returns the world-space bounding box as min/max corners
func (b *Body) aabb() (min, max vmath.Vec) {
	ex, ey := b.Shape.Extents(b.Angle)
	min = vmath.Vec{X: b.Pos.X - ex, Y: b.Pos.Y - ey}
	max = vmath.Vec{X: b.Pos.X + ex, Y: b.Pos.Y + ey}
	return min, max
}

// integrate advances the body by dt using semi-implicit Euler
func (b *Body) integrate(gravity vmath.Vec, dt int64) {
	if b.Static {
		return
	}
	b.Vel = b.Vel.Add(b.force.Scale(b.InvMass).Add(gravity).Scale(dt))
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.AngVel += vmath.Mul(vmath.Mul(b.torque, b.InvInertia), dt)
	b.Angle += vmath.Mul(b.AngVel, dt)
	b.force = vmath.Vec{}
	b.torque = 0
}
