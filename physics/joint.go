package physics

import "github.com/arenasim/ragdoll/vmath"

// Joint is a spring-constrained articulation between two bodies, modelling
// an anatomical joint rather than a rigid hinge
//
// A nil body A anchors the spring to the fixed world point WorldAnchor,
// which the balance controller re-centers every balance tick
type Joint struct {
	Label string

	A *Body
	B *Body

	// AnchorA and AnchorB are body-local attachment points
	AnchorA vmath.Vec
	AnchorB vmath.Vec

	// WorldAnchor replaces AnchorA when A is nil
	WorldAnchor vmath.Vec

	Stiffness  int64
	Damping    int64
	RestLength int64
}

// anchors returns the current world positions of both attachment points
func (j *Joint) anchors() (pa, pb vmath.Vec) {
	if j.A == nil {
		pa = j.WorldAnchor
	} else {
		pa = j.A.WorldPoint(j.AnchorA)
	}
	pb = j.B.WorldPoint(j.AnchorB)
	return pa, pb
}

// apply accumulates the spring force on both bodies
// F = -k*(len - rest) - c*relativeVelocityAlongSpring
func (j *Joint) apply() {
	pa, pb := j.anchors()
	delta := pb.Sub(pa)
	dist := delta.Len()
	if dist == 0 {
		return
	}
	dir := vmath.Vec{X: vmath.Div(delta.X, dist), Y: vmath.Div(delta.Y, dist)}
	stretch := dist - j.RestLength

	var velA vmath.Vec
	if j.A != nil {
		velA = j.A.VelocityAt(pa)
	}
	relVel := j.B.VelocityAt(pb).Sub(velA)
	along := relVel.Dot(dir)

	mag := vmath.Mul(j.Stiffness, stretch) + vmath.Mul(j.Damping, along)
	forceOnB := dir.Scale(-mag)

	j.B.ApplyForceAt(forceOnB, pb)
	if j.A != nil {
		j.A.ApplyForceAt(forceOnB.Neg(), pa)
	}
}
