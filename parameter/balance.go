package parameter

import "github.com/arenasim/ragdoll/vmath"

// Balance controller tuning. Spring-built ragdolls are statically unstable;
// these values keep a fighter upright absent large impacts
const (
	// AngularDampingFloat multiplies torso and pelvis angular velocity each
	// balance tick, pulling rotation toward zero without an angle reset
	AngularDampingFloat = 0.9

	// SupportHeightFloat is how far above the pelvis the invisible upright
	// support anchor sits
	SupportHeightFloat = 2.5

	// SupportStiffnessFloat is the upright support spring constant
	SupportStiffnessFloat = 60.0

	// SupportDampingFloat is the upright support spring damping
	SupportDampingFloat = 8.0
)

var (
	AngularDamping   = vmath.FromFloat(AngularDampingFloat)
	SupportHeight    = vmath.FromFloat(SupportHeightFloat)
	SupportStiffness = vmath.FromFloat(SupportStiffnessFloat)
	SupportDamping   = vmath.FromFloat(SupportDampingFloat)
)
