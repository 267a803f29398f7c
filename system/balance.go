package system

import (
	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/vmath"
)

// balanceSlot is per-fighter stabilization state
type balanceSlot struct {
	f         *fighter.Fighter
	support   *physics.Joint
	suspended int
}

// BalanceSystem keeps spring-built ragdolls standing. Each balance tick it
// damps torso and pelvis angular velocity toward zero and re-centers an
// invisible upright support spring over the pelvis. This is an explicit
// stabilization policy, not biomechanics: the contract is that the torso
// returns toward upright within a bounded number of ticks absent a large
// impact
type BalanceSystem struct {
	slots  [2]balanceSlot
	logger zerolog.Logger
}

// NewBalanceSystem creates the controller and installs one world-anchored
// support joint per fighter, attached to the torso top
func NewBalanceSystem(space *physics.Space, fighters [2]*fighter.Fighter, logger zerolog.Logger) *BalanceSystem {
	s := &BalanceSystem{logger: logger.With().Str("system", "balance").Logger()}
	for i, f := range fighters {
		s.slots[i].f = f
		if f == nil || f.State() != fighter.StateSpawned {
			continue
		}
		rag := f.Ragdoll()
		torso := rag.Torso()
		pelvis := rag.Pelvis()
		j := &physics.Joint{
			Label:       "support",
			A:           nil,
			B:           torso,
			AnchorB:     vmath.Vec{X: 0, Y: torso.Shape.HalfH},
			WorldAnchor: vmath.Vec{X: pelvis.Pos.X, Y: pelvis.Pos.Y + parameter.SupportHeight},
			Stiffness:   parameter.SupportStiffness,
			Damping:     parameter.SupportDamping,
			RestLength:  0,
		}
		space.AddJoint(j)
		s.slots[i].support = j
	}
	return s
}

func (s *BalanceSystem) Name() string { return "balance" }

// Suspend skips the next n balance ticks for a fighter so a knockdown-tier
// hit can actually fell the ragdoll
func (s *BalanceSystem) Suspend(id int32, n int) {
	for i := range s.slots {
		if s.slots[i].f != nil && s.slots[i].f.ID == id && n > s.slots[i].suspended {
			s.slots[i].suspended = n
		}
	}
}

// Update performs both corrections for every standing fighter
func (s *BalanceSystem) Update(tick uint64) {
	for i := range s.slots {
		slot := &s.slots[i]
		if slot.f == nil || slot.f.State() != fighter.StateSpawned || slot.support == nil {
			continue
		}
		if slot.suspended > 0 {
			slot.suspended--
			continue
		}

		rag := slot.f.Ragdoll()
		torso := rag.Torso()
		pelvis := rag.Pelvis()

		// Damp rotation toward zero without a discontinuous angle reset
		torso.AngVel = vmath.Mul(torso.AngVel, parameter.AngularDamping)
		pelvis.AngVel = vmath.Mul(pelvis.AngVel, parameter.AngularDamping)

		// Re-center the support anchor over the pelvis's current horizontal
		// position, pulling the torso vertical
		slot.support.WorldAnchor = vmath.Vec{
			X: pelvis.Pos.X,
			Y: pelvis.Pos.Y + parameter.SupportHeight,
		}
	}
}
