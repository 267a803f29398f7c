package physics

import (
	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/vmath"
)

// Contact is the raw collision event handed to subscribers: the two
// contacting bodies, the contact point, the approach speed along the contact
// normal, and the combined mass of the pair
type Contact struct {
	A, B         *Body
	Point        vmath.Vec
	RelSpeed     int64
	CombinedMass int64
}

// Space owns the physics world: bodies, joints, gravity, and the static
// arena boundary. Stepping is single-threaded; all mutation happens on the
// caller's goroutine
type Space struct {
	Gravity vmath.Vec

	bodies []*Body
	joints []*Joint

	// contacts tracks persisting pairs so only begin-contacts are reported
	contacts map[pairKey]struct{}
	scratch  map[pairKey]struct{}

	onContactBegin func(Contact)
}

type pairKey struct {
	a, b int
}

// NewSpace creates an empty space with the given gravity vector
func NewSpace(gravity vmath.Vec) *Space {
	return &Space{
		Gravity:  gravity,
		contacts: make(map[pairKey]struct{}),
		scratch:  make(map[pairKey]struct{}),
	}
}

// OnContactBegin registers the collision-start subscriber. Contacts are
// delivered in deterministic body-insertion order during Step
func (s *Space) OnContactBegin(fn func(Contact)) {
	s.onContactBegin = fn
}

// AddBody inserts a body. Insertion order defines pair iteration order and
// therefore contact delivery order
func (s *Space) AddBody(b *Body) {
	s.bodies = append(s.bodies, b)
}

// AddJoint inserts a joint. Both anchors must reference bodies already in
// the space
func (s *Space) AddJoint(j *Joint) {
	s.joints = append(s.joints, j)
}

// Bodies returns the body list in insertion order
func (s *Space) Bodies() []*Body {
	return s.bodies
}

// AddBoundary creates the static arena boundary: a floor and two walls
// enclosing a width x height region with its floor at y = 0
func (s *Space) AddBoundary(width, height int64) {
	t := parameter.ArenaWallThickness
	half := width >> 1

	floor := NewStaticBody("floor", Box(width+(t<<1), t), vmath.Vec{X: 0, Y: -(t >> 1)})
	floor.Group = parameter.GroupBoundary
	left := NewStaticBody("wall-left", Box(t, height), vmath.Vec{X: -half - (t >> 1), Y: height >> 1})
	left.Group = parameter.GroupBoundary
	right := NewStaticBody("wall-right", Box(t, height), vmath.Vec{X: half + (t >> 1), Y: height >> 1})
	right.Group = parameter.GroupBoundary

	s.AddBody(floor)
	s.AddBody(left)
	s.AddBody(right)
}

// Step advances the space by dt seconds (Q32.32): joint springs, gravity,
// integration, then contact detection and impulse resolution. Begin-contact
// events fire during the call, after the pair's first impulse is resolved
func (s *Space) Step(dt int64) {
	for _, j := range s.joints {
		j.apply()
	}

	for _, b := range s.bodies {
		b.integrate(s.Gravity, dt)
	}

	s.resolveContacts()
}

// eligible reports whether a pair can generate contacts
func eligible(a, b *Body) bool {
	if a.Static && b.Static {
		return false
	}
	if a.Group != 0 && a.Group == b.Group {
		return false
	}
	return true
}

func (s *Space) resolveContacts() {
	for k := range s.scratch {
		delete(s.scratch, k)
	}

	for i := 0; i < len(s.bodies); i++ {
		for k := i + 1; k < len(s.bodies); k++ {
			a, b := s.bodies[i], s.bodies[k]
			if !eligible(a, b) {
				continue
			}

			aMin, aMax := a.aabb()
			bMin, bMax := b.aabb()
			if aMin.X > bMax.X || bMin.X > aMax.X || aMin.Y > bMax.Y || bMin.Y > aMax.Y {
				continue
			}

			m, ok := detect(a, b)
			if !ok {
				continue
			}

			relSpeed := s.resolve(a, b, m)

			key := pairKey{a: i, b: k}
			s.scratch[key] = struct{}{}
			if _, seen := s.contacts[key]; !seen && s.onContactBegin != nil {
				s.onContactBegin(Contact{
					A:            a,
					B:            b,
					Point:        m.point,
					RelSpeed:     relSpeed,
					CombinedMass: a.Mass + b.Mass,
				})
			}
		}
	}

	s.contacts, s.scratch = s.scratch, s.contacts
}

// resolve applies the collision impulse and positional correction for one
// manifold, returning the approach speed along the normal before resolution
func (s *Space) resolve(a, b *Body, m manifold) int64 {
	ra := m.point.Sub(a.Pos)
	rb := m.point.Sub(b.Pos)

	relVel := b.VelocityAt(m.point).Sub(a.VelocityAt(m.point))
	vn := relVel.Dot(m.normal)
	approach := int64(0)
	if vn < 0 {
		approach = -vn
	}

	if vn < 0 {
		raCrossN := ra.Cross(m.normal)
		rbCrossN := rb.Cross(m.normal)
		invSum := a.InvMass + b.InvMass +
			vmath.Mul(vmath.Mul(raCrossN, raCrossN), a.InvInertia) +
			vmath.Mul(vmath.Mul(rbCrossN, rbCrossN), b.InvInertia)
		if invSum > 0 {
			j := vmath.Div(vmath.Mul(-(vmath.Scale+parameter.Restitution), vn), invSum)
			impulse := m.normal.Scale(j)
			a.ApplyImpulse(impulse.Neg(), ra)
			b.ApplyImpulse(impulse, rb)
		}
	}

	// Positional correction keeps stacked segments from sinking
	depth := m.penetration - parameter.PenetrationSlop
	if depth > 0 {
		invMassSum := a.InvMass + b.InvMass
		if invMassSum > 0 {
			corr := vmath.Mul(vmath.Div(depth, invMassSum), parameter.PenetrationCorrection)
			shift := m.normal.Scale(corr)
			a.Pos = a.Pos.Sub(shift.Scale(a.InvMass))
			b.Pos = b.Pos.Add(shift.Scale(b.InvMass))
		}
	}

	return approach
}
