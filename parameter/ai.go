package parameter

import "github.com/arenasim/ragdoll/vmath"

// AI locomotion tuning
const (
	// ApproachUpperFloat is the pelvis distance above which a fighter
	// transitions to APPROACH
	ApproachUpperFloat = 3.0

	// ApproachLowerFloat is the pelvis distance below which a fighter
	// transitions back to IDLE. Must stay below ApproachUpperFloat; the gap
	// is the hysteresis band
	ApproachLowerFloat = 1.5

	// ApproachForceFloat is the horizontal force on the pelvis while approaching
	ApproachForceFloat = 40.0

	// TorsoForceRatioFloat scales the approach force applied to the torso
	TorsoForceRatioFloat = 0.4

	// IdleDampingFloat multiplies horizontal velocity each evaluation while
	// idle or AI-disabled. Vertical velocity is never touched
	IdleDampingFloat = 0.85

	// MaxHorizontalSpeedFloat clamps post-force horizontal velocity to
	// suppress feedback runaway through the joint network
	MaxHorizontalSpeedFloat = 12.0

	// ForceJitterFloat bounds the seeded multiplicative variance applied to
	// the approach force; the drawn multiplier is recorded in the decision log
	ForceJitterFloat = 0.1
)

var (
	ApproachUpper      = vmath.FromFloat(ApproachUpperFloat)
	ApproachLower      = vmath.FromFloat(ApproachLowerFloat)
	ApproachForce      = vmath.FromFloat(ApproachForceFloat)
	TorsoForceRatio    = vmath.FromFloat(TorsoForceRatioFloat)
	IdleDamping        = vmath.FromFloat(IdleDampingFloat)
	MaxHorizontalSpeed = vmath.FromFloat(MaxHorizontalSpeedFloat)
	ForceJitterMin     = vmath.FromFloat(1.0 - ForceJitterFloat)
	ForceJitterMax     = vmath.FromFloat(1.0 + ForceJitterFloat)
)
