package system

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/event"
	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/replay"
	"github.com/arenasim/ragdoll/vmath"
)

// AIState is the closed set of locomotion modes
type AIState uint8

const (
	StateIdle AIState = iota
	StateApproach
)

func (s AIState) String() string {
	if s == StateApproach {
		return "approach"
	}
	return "idle"
}

// AITuning is the per-fighter decision tuning supplied by battle setup.
// Lower must stay strictly below Upper; the gap is the hysteresis band
type AITuning struct {
	ApproachUpper int64
	ApproachLower int64
}

// DefaultAITuning returns the stock thresholds
func DefaultAITuning() AITuning {
	return AITuning{
		ApproachUpper: parameter.ApproachUpper,
		ApproachLower: parameter.ApproachLower,
	}
}

// Validate rejects a collapsed or inverted hysteresis band
func (t AITuning) Validate() error {
	if t.ApproachLower >= t.ApproachUpper {
		return fmt.Errorf("ai tuning: lower threshold %v must be below upper %v",
			vmath.ToFloat(t.ApproachLower), vmath.ToFloat(t.ApproachUpper))
	}
	return nil
}

// aiSlot is per-fighter decision state
type aiSlot struct {
	tuning       AITuning
	state        AIState
	lastDistance int64
	suspended    int
	enabled      bool
	warned       bool
}

// AISystem evaluates each fighter's relationship to its opponent on its own
// cadence and emits locomotion forces. Transitions use hysteresis: APPROACH
// above the upper distance threshold, IDLE below the lower one, previous
// state retained in between
type AISystem struct {
	fighters [2]*fighter.Fighter
	slots    [2]aiSlot

	rng    *vmath.FastRand
	log    *replay.Log
	queue  *event.Queue
	logger zerolog.Logger
}

// NewAISystem wires the decision engine. The RNG feeds the approach-force
// jitter; every drawn multiplier lands in the decision log so replays are
// exact
func NewAISystem(fighters [2]*fighter.Fighter, tuning [2]AITuning, rng *vmath.FastRand, log *replay.Log, queue *event.Queue, logger zerolog.Logger) (*AISystem, error) {
	s := &AISystem{
		fighters: fighters,
		rng:      rng,
		log:      log,
		queue:    queue,
		logger:   logger.With().Str("system", "ai").Logger(),
	}
	for i := range s.slots {
		if err := tuning[i].Validate(); err != nil {
			return nil, err
		}
		s.slots[i].tuning = tuning[i]
		s.slots[i].enabled = true
	}
	return s, nil
}

func (s *AISystem) Name() string { return "ai" }

// SetEnabled toggles AI for one fighter. Disabled fighters still get
// horizontal drift damping each evaluation
func (s *AISystem) SetEnabled(id int32, enabled bool) {
	if i, ok := s.index(id); ok {
		s.slots[i].enabled = enabled
	}
}

// Suspend skips the next n evaluations for a fighter (stagger effect)
func (s *AISystem) Suspend(id int32, n int) {
	if i, ok := s.index(id); ok && n > s.slots[i].suspended {
		s.slots[i].suspended = n
	}
}

// State exposes the current mode, primarily for tests and observers
func (s *AISystem) State(id int32) AIState {
	if i, ok := s.index(id); ok {
		return s.slots[i].state
	}
	return StateIdle
}

// LastDistance returns the most recent inter-fighter distance measurement
func (s *AISystem) LastDistance(id int32) int64 {
	if i, ok := s.index(id); ok {
		return s.slots[i].lastDistance
	}
	return 0
}

func (s *AISystem) index(id int32) (int, bool) {
	for i, f := range s.fighters {
		if f != nil && f.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Update runs one evaluation per fighter in fighter order
func (s *AISystem) Update(tick uint64) {
	for i := range s.fighters {
		s.evaluate(tick, i)
	}
}

func (s *AISystem) evaluate(tick uint64, i int) {
	slot := &s.slots[i]
	f := s.fighters[i]
	opp := s.fighters[1-i]

	// A missing fighter or target skips this single evaluation, never the fight
	if f == nil || f.State() != fighter.StateSpawned ||
		opp == nil || opp.State() != fighter.StateSpawned {
		if !slot.warned {
			s.logger.Warn().Int("slot", i).Msg("ai evaluation skipped: fighter or target unavailable")
			slot.warned = true
		}
		return
	}

	rag := f.Ragdoll()
	if !slot.enabled || slot.suspended > 0 {
		if slot.suspended > 0 {
			slot.suspended--
		}
		dampHorizontal(rag)
		return
	}

	pelvis := rag.Pelvis()
	oppPelvis := opp.Ragdoll().Pelvis()

	dist := oppPelvis.Pos.Sub(pelvis.Pos).Len()
	slot.lastDistance = dist

	// Hysteresis band: no transition while the distance lies between the
	// two thresholds
	switch {
	case dist > slot.tuning.ApproachUpper:
		slot.state = StateApproach
	case dist < slot.tuning.ApproachLower:
		slot.state = StateIdle
	}

	var dir int8
	var jitter int64
	if slot.state == StateApproach {
		if oppPelvis.Pos.X >= pelvis.Pos.X {
			dir = 1
		} else {
			dir = -1
		}
		jitter = s.rng.Range(parameter.ForceJitterMin, parameter.ForceJitterMax)
		applyApproach(rag, dir, jitter)
	} else {
		dampHorizontal(rag)
	}
	clampHorizontal(rag)

	rec := replay.Record{
		Kind:        replay.KindDecision,
		Tick:        tick,
		Fighter:     f.ID,
		State:       slot.state.String(),
		Direction:   dir,
		ForceJitter: jitter,
	}
	if err := s.log.Append(rec); err != nil {
		s.logger.Error().Err(err).Msg("decision append failed")
		return
	}

	s.queue.Push(event.Event{
		Type: event.TypeDecision,
		Tick: tick,
		Payload: &event.DecisionPayload{
			FighterID: f.ID,
			State:     slot.state.String(),
			Direction: dir,
		},
	})
}

// DampOnly applies the disabled-AI drift damping to one fighter. Replay uses
// it for evaluations that produced no record (disabled or staggered slots)
func (s *AISystem) DampOnly(id int32) {
	i, ok := s.index(id)
	if !ok {
		return
	}
	f := s.fighters[i]
	if f == nil || f.State() != fighter.StateSpawned {
		return
	}
	dampHorizontal(f.Ragdoll())
}

// ApplyDecision drives locomotion from a logged record during replay, with
// live evaluation disabled. Forces are regenerated, never stored
func (s *AISystem) ApplyDecision(rec replay.Record) {
	i, ok := s.index(rec.Fighter)
	if !ok {
		return
	}
	f := s.fighters[i]
	if f == nil || f.State() != fighter.StateSpawned {
		return
	}
	rag := f.Ragdoll()
	if rec.State == StateApproach.String() {
		applyApproach(rag, rec.Direction, rec.ForceJitter)
	} else {
		dampHorizontal(rag)
	}
	clampHorizontal(rag)
}

// applyApproach pushes the pelvis at full magnitude and the torso at a
// reduced one along the horizontal offset sign
func applyApproach(rag *fighter.Ragdoll, dir int8, jitter int64) {
	force := vmath.Mul(parameter.ApproachForce, jitter)
	fx := force
	if dir < 0 {
		fx = -force
	}
	rag.Pelvis().ApplyForce(vmath.Vec{X: fx, Y: 0})
	rag.Torso().ApplyForce(vmath.Vec{X: vmath.Mul(fx, parameter.TorsoForceRatio), Y: 0})
}

// dampHorizontal curbs drift without fighting gravity: vertical velocity is
// untouched
func dampHorizontal(rag *fighter.Ragdoll) {
	for _, b := range []*physics.Body{rag.Pelvis(), rag.Torso()} {
		b.Vel.X = vmath.Mul(b.Vel.X, parameter.IdleDamping)
	}
}

// clampHorizontal suppresses feedback runaway through the joint network
func clampHorizontal(rag *fighter.Ragdoll) {
	for _, b := range []*physics.Body{rag.Pelvis(), rag.Torso()} {
		b.Vel.X = vmath.Clamp(b.Vel.X, -parameter.MaxHorizontalSpeed, parameter.MaxHorizontalSpeed)
	}
}
