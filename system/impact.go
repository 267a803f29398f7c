package system

import (
	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/event"
	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/replay"
	"github.com/arenasim/ragdoll/vmath"
)

// Tier is the ascending impact severity classification
type Tier int

const (
	TierNone Tier = iota
	TierRegister
	TierKnockback
	TierStagger
	TierKnockdown
	TierKnockout
)

// ClassifyScore maps an impact score to its severity tier
func ClassifyScore(score int64) Tier {
	switch {
	case score >= parameter.TierKnockout:
		return TierKnockout
	case score >= parameter.TierKnockdown:
		return TierKnockdown
	case score >= parameter.TierStagger:
		return TierStagger
	case score >= parameter.TierKnockback:
		return TierKnockback
	case score >= parameter.TierRegister:
		return TierRegister
	default:
		return TierNone
	}
}

// ImpactScore computes relative contact speed x combined mass x scale
func ImpactScore(relSpeed, combinedMass int64) int64 {
	return vmath.Mul(vmath.Mul(relSpeed, combinedMass), parameter.ImpactScale)
}

// DamageFromImpulse applies the weapon/armor/strength formulas:
//
//	impactScoreForDamage = impulse * weaponDamageScale * strengthMultiplier
//	damage    = max(0, impactScoreForDamage - armorDefense) * locationMultiplier
//	knockback = impulse * knockbackScale * (1 - armorKnockbackReduction)
func DamageFromImpulse(impulse int64, att, def fighter.Loadout, loc fighter.HitLocation) (damage, knockback int64) {
	scored := vmath.Mul(vmath.Mul(impulse, att.WeaponDamageScale), att.StrengthMultiplier)
	damage = scored - def.ArmorDefense
	if damage < 0 {
		damage = 0
	}
	switch loc {
	case fighter.LocationHead:
		damage = vmath.Mul(damage, parameter.HeadMultiplier)
	case fighter.LocationLimb:
		damage = vmath.Mul(damage, parameter.LimbMultiplier)
	}
	knockback = vmath.Mul(vmath.Mul(impulse, att.KnockbackScale), vmath.Scale-def.ArmorKnockbackReduction)
	return damage, knockback
}

// ImpactSystem subscribes to collision-start events, scores each contact and
// converts qualifying scores into damage, knockback and severity effects.
// Health reaching zero together with a KO-eligible impact ends the fight
type ImpactSystem struct {
	fighters [2]*fighter.Fighter
	owner    map[*physics.Body]int

	ai      *AISystem
	balance *BalanceSystem
	log     *replay.Log
	queue   *event.Queue
	logger  zerolog.Logger

	done   bool
	winner int32
	loser  int32

	// lastVisualTick rate-limits observer notifications only; the log and
	// damage state are never rate-limited
	lastVisualTick uint64
	visualSent     bool
}

func NewImpactSystem(fighters [2]*fighter.Fighter, ai *AISystem, balance *BalanceSystem, log *replay.Log, queue *event.Queue, logger zerolog.Logger) *ImpactSystem {
	s := &ImpactSystem{
		fighters: fighters,
		owner:    make(map[*physics.Body]int, 2*fighter.SegmentCount),
		ai:       ai,
		balance:  balance,
		log:      log,
		queue:    queue,
		logger:   logger.With().Str("system", "impact").Logger(),
	}
	for i, f := range fighters {
		if f == nil || f.State() != fighter.StateSpawned {
			continue
		}
		for _, b := range f.Ragdoll().Segments() {
			s.owner[b] = i
		}
	}
	return s
}

func (s *ImpactSystem) Name() string { return "impact" }

// Done reports the terminal outcome once a KO has landed
func (s *ImpactSystem) Done() (winner, loser int32, done bool) {
	return s.winner, s.loser, s.done
}

// Process scores the contacts raised by one physics tick, in delivery order
func (s *ImpactSystem) Process(tick uint64, contacts []physics.Contact) {
	for _, c := range contacts {
		if s.done {
			return
		}
		s.resolve(tick, c)
	}
}

func (s *ImpactSystem) resolve(tick uint64, c physics.Contact) {
	// Arena boundary and other static bodies never score
	if c.A.Static || c.B.Static ||
		c.A.Group == parameter.GroupBoundary || c.B.Group == parameter.GroupBoundary {
		return
	}

	idxA, okA := s.owner[c.A]
	idxB, okB := s.owner[c.B]
	if !okA || !okB || idxA == idxB {
		// Segment torn down by a reset race, or an untracked body: ignore
		s.logger.Debug().Str("a", c.A.Label).Str("b", c.B.Label).Msg("contact dropped: unowned segment pair")
		return
	}

	fa, fb := s.fighters[idxA], s.fighters[idxB]
	if fa.State() != fighter.StateSpawned || fb.State() != fighter.StateSpawned {
		return
	}

	score := ImpactScore(c.RelSpeed, c.CombinedMass)
	if score < parameter.ImpactNoiseFloor {
		return
	}
	tier := ClassifyScore(score)

	// The faster segment's owner attacks; exact ties break toward the lower
	// fighter ID so resolution is fully deterministic
	speedA, speedB := c.A.Speed(), c.B.Speed()
	var att, def *fighter.Fighter
	var defBody *physics.Body
	switch {
	case speedA > speedB:
		att, def, defBody = fa, fb, c.B
	case speedB > speedA:
		att, def, defBody = fb, fa, c.A
	case fa.ID <= fb.ID:
		att, def, defBody = fa, fb, c.B
	default:
		att, def, defBody = fb, fa, c.A
	}

	loc := fighter.Classify(defBody.Label)
	damage, knockback := DamageFromImpulse(score, att.Loadout, def.Loadout, loc)

	def.Health -= damage

	if tier >= TierKnockback {
		dir := defBody.Pos.Sub(c.Point).Normalize()
		if dir.IsZero() {
			dir = vmath.Vec{X: vmath.Scale, Y: 0}
		}
		defBody.ApplyImpulse(dir.Scale(vmath.Mul(knockback, parameter.KnockbackVelocityScale)), vmath.Vec{})
	}
	if tier >= TierStagger {
		s.ai.Suspend(def.ID, parameter.StaggerSuspendEvals)
	}
	if tier >= TierKnockdown {
		s.balance.Suspend(def.ID, parameter.KnockdownSuspendTicks)
	}

	rec := replay.Record{
		Kind:      replay.KindImpact,
		Tick:      tick,
		Attacker:  att.ID,
		Defender:  def.ID,
		Segment:   defBody.Label,
		Score:     score,
		Damage:    damage,
		Knockback: knockback,
		Tier:      int(tier),
	}
	if err := s.log.Append(rec); err != nil {
		s.logger.Error().Err(err).Msg("impact append failed")
		return
	}

	// Observer notification, rate-limited for visual counters. Never
	// affects the authoritative outcome above
	if !s.visualSent || tick-s.lastVisualTick >= parameter.VisualImpactMinTicks {
		s.queue.Push(event.Event{
			Type: event.TypeImpact,
			Tick: tick,
			Payload: &event.ImpactPayload{
				Attacker: att.ID,
				Defender: def.ID,
				Segment:  defBody.Label,
				Score:    score,
				Damage:   damage,
				Tier:     int(tier),
			},
		})
		s.lastVisualTick = tick
		s.visualSent = true
	}

	if def.Health <= 0 && tier >= TierKnockout {
		s.done = true
		s.winner = att.ID
		s.loser = def.ID
		if err := s.log.Append(replay.Record{
			Kind:   replay.KindKnockout,
			Tick:   tick,
			Winner: att.ID,
			Loser:  def.ID,
		}); err != nil {
			s.logger.Error().Err(err).Msg("ko append failed")
		}
		s.queue.Push(event.Event{
			Type:    event.TypeKnockout,
			Tick:    tick,
			Payload: &event.KnockoutPayload{Winner: att.ID, Loser: def.ID},
		})
		s.logger.Info().Int32("winner", att.ID).Int32("loser", def.ID).Uint64("tick", tick).Msg("knockout")
	}
}
