package parameter

import "github.com/arenasim/ragdoll/vmath"

// Impact scoring
const (
	// ImpactScaleFloat converts relative speed x combined mass into an impact score
	ImpactScaleFloat = 10.0

	// ImpactNoiseFloorFloat discards contact scores below this value
	ImpactNoiseFloorFloat = 50.0
)

// Severity tier thresholds on the impact score, ascending
const (
	TierRegisterFloat  = 50.0
	TierKnockbackFloat = 150.0
	TierStaggerFloat   = 300.0
	TierKnockdownFloat = 600.0
	TierKnockoutFloat  = 900.0
)

// Hit location damage multipliers
const (
	HeadMultiplierFloat  = 1.5
	LimbMultiplierFloat  = 0.7
	TorsoMultiplierFloat = 1.0
)

// Tier side effects
const (
	// StaggerSuspendEvals is AI evaluations skipped after a stagger-tier hit
	StaggerSuspendEvals = 3

	// KnockdownSuspendTicks is balance controller ticks skipped after a
	// knockdown-tier hit, letting the ragdoll actually fall
	KnockdownSuspendTicks = 8
)

var (
	ImpactScale      = vmath.FromFloat(ImpactScaleFloat)
	ImpactNoiseFloor = vmath.FromFloat(ImpactNoiseFloorFloat)

	TierRegister  = vmath.FromFloat(TierRegisterFloat)
	TierKnockback = vmath.FromFloat(TierKnockbackFloat)
	TierStagger   = vmath.FromFloat(TierStaggerFloat)
	TierKnockdown = vmath.FromFloat(TierKnockdownFloat)
	TierKnockout  = vmath.FromFloat(TierKnockoutFloat)

	HeadMultiplier  = vmath.FromFloat(HeadMultiplierFloat)
	LimbMultiplier  = vmath.FromFloat(LimbMultiplierFloat)
	TorsoMultiplier = vmath.FromFloat(TorsoMultiplierFloat)

	// KnockbackVelocityScale converts a knockback magnitude into a velocity
	// impulse on the defending segment
	KnockbackVelocityScale = vmath.FromFloat(0.05)
)
