package parameter

import "github.com/arenasim/ragdoll/vmath"

// Float source constants for world physics (units: meters, seconds, kilograms)
const (
	// GravityFloat is vertical acceleration, negative is down
	GravityFloat = -30.0

	// TickSecondsFloat is the integrator step in simulated seconds
	TickSecondsFloat = 1.0 / float64(TickRate)

	// RestitutionFloat is contact bounciness applied to all segment contacts
	RestitutionFloat = 0.1

	// PenetrationSlopFloat is allowed overlap before positional correction
	PenetrationSlopFloat = 0.01

	// PenetrationCorrectionFloat is the fraction of penetration corrected per step
	PenetrationCorrectionFloat = 0.2

	// ArenaWallThicknessFloat is boundary body thickness
	ArenaWallThicknessFloat = 1.0
)

// Pre-computed Q32.32 physics constants, initialized once to avoid
// repeated float conversion in the step loop
var (
	Gravity               = vmath.FromFloat(GravityFloat)
	TickSeconds           = vmath.FromFloat(TickSecondsFloat)
	Restitution           = vmath.FromFloat(RestitutionFloat)
	PenetrationSlop       = vmath.FromFloat(PenetrationSlopFloat)
	PenetrationCorrection = vmath.FromFloat(PenetrationCorrectionFloat)
	ArenaWallThickness    = vmath.FromFloat(ArenaWallThicknessFloat)
)

// Collision groups. Group zero collides with everything, equal nonzero
// groups never collide with each other
const (
	// GroupBoundary tags static arena bodies; contacts against it are
	// never scored for damage
	GroupBoundary int32 = -1
)
