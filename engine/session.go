// Package engine owns the simulation session: one self-contained fight with
// its own space, fighters, systems, clock and log. Multiple sessions can run
// side by side (e.g. server-side replay verification) without shared state.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/config"
	"github.com/arenasim/ragdoll/event"
	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/replay"
	"github.com/arenasim/ragdoll/system"
	"github.com/arenasim/ragdoll/vmath"
)

// Outcome is the hand-off to the external rewards/persistence collaborator
type Outcome struct {
	Winner int32
	Loser  int32
	Ticks  uint64
	Log    *replay.Log
}

// Session is one owned simulation instance
type Session struct {
	cfg    config.Battle
	logger zerolog.Logger

	// mu serializes Advance/Step/Reset against control calls; all
	// simulation work happens under it on the caller's goroutine
	mu sync.Mutex

	clock    *Clock
	space    *physics.Space
	fighters [2]*fighter.Fighter
	rng      *vmath.FastRand
	log      *replay.Log
	queue    *event.Queue

	ai      *system.AISystem
	balance *system.BalanceSystem
	impact  *system.ImpactSystem

	pendingContacts []physics.Contact

	frameHook func(*Session)

	paused bool
	done   bool

	// Replay mode: AI evaluation off, logged decisions applied by tick
	replayMode bool
	decisions  map[uint64]map[int32]replay.Record

	loop loopState
}

// NewSession validates the battle configuration and constructs the space,
// both fighters and all three systems. Construction fails fast; a returned
// session is fully initialized
func NewSession(cfg config.Battle, logger zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock, err := NewClock(parameter.TickDuration)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:    cfg,
		logger: logger.With().Uint64("seed", cfg.Seed).Logger(),
		clock:  clock,
		queue:  event.NewQueue(),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build constructs the world from configuration. Reset calls it again after
// tearing the previous world down
func (s *Session) build() error {
	f := vmath.FromFloat

	s.space = physics.NewSpace(vmath.Vec{X: 0, Y: f(s.cfg.Arena.Gravity)})
	s.space.AddBoundary(f(s.cfg.Arena.Width), f(s.cfg.Arena.Height))
	s.space.OnContactBegin(func(c physics.Contact) {
		s.pendingContacts = append(s.pendingContacts, c)
	})

	s.rng = vmath.NewFastRand(s.cfg.Seed)
	s.log = replay.NewLog(s.cfg.Seed)
	s.done = false
	s.pendingContacts = nil

	var tunings [2]system.AITuning
	for i, fs := range s.cfg.Fighters {
		loadout := fighter.Loadout{
			WeaponDamageScale:       f(fs.WeaponDamageScale),
			KnockbackScale:          f(fs.KnockbackScale),
			StrengthMultiplier:      f(fs.StrengthMultiplier),
			ArmorDefense:            f(fs.ArmorDefense),
			ArmorKnockbackReduction: f(fs.ArmorKnockbackReduction),
			MaxHealth:               f(fs.MaxHealth),
		}
		scale := f(fs.Scale)

		// Pelvis spawn height clears the leg stack below it
		spawn := vmath.Vec{X: f(fs.SpawnX), Y: vmath.Mul(f(2.7), scale)}

		ftr, err := fighter.New(fs.ID, fs.Name, spawn, loadout)
		if err != nil {
			return err
		}
		err = ftr.Spawn(s.space, fighter.BuildParams{
			Scale:          scale,
			Group:          int32(i + 1),
			Props:          fighter.DefaultProportions(),
			JointStiffness: f(fs.JointStiffness),
			JointDamping:   f(fs.JointDamping),
		})
		if err != nil {
			return err
		}
		s.fighters[i] = ftr

		tunings[i] = system.AITuning{
			ApproachUpper: f(fs.ApproachUpper),
			ApproachLower: f(fs.ApproachLower),
		}
	}

	ai, err := system.NewAISystem(s.fighters, tunings, s.rng, s.log, s.queue, s.logger)
	if err != nil {
		return err
	}
	s.ai = ai
	s.balance = system.NewBalanceSystem(s.space, s.fighters, s.logger)
	s.impact = system.NewImpactSystem(s.fighters, s.ai, s.balance, s.log, s.queue, s.logger)

	s.logger.Debug().
		Int32("fighterA", s.fighters[0].ID).
		Int32("fighterB", s.fighters[1].ID).
		Msg("session built")
	return nil
}

// stepOnce runs one authoritative tick in fixed order: physics step with
// impact resolution, then AI if its cadence is due, then balance if its
// cadence is due. The three loops never interleave ambiguously
func (s *Session) stepOnce(tick uint64) {
	s.pendingContacts = s.pendingContacts[:0]
	s.space.Step(parameter.TickSeconds)
	s.impact.Process(tick, s.pendingContacts)

	if winner, loser, done := s.impact.Done(); done && !s.done {
		s.done = true
		// FinalTick counts executed ticks, so the KO tick is included
		s.log.Seal(winner, loser, tick+1)
		return
	}

	if tick%parameter.AICadenceTicks == 0 {
		if s.replayMode {
			s.applyLoggedDecisions(tick)
		} else {
			s.ai.Update(tick)
		}
	}
	if tick%parameter.BalanceCadenceTicks == 0 {
		s.balance.Update(tick)
	}
}

func (s *Session) applyLoggedDecisions(tick uint64) {
	recs := s.decisions[tick]
	for _, f := range s.fighters {
		if rec, ok := recs[f.ID]; ok {
			s.ai.ApplyDecision(rec)
		} else {
			s.ai.DampOnly(f.ID)
		}
	}
}

// Advance feeds one external frame signal: elapsed wall time enters the
// accumulator (capped) and the integrator runs once per whole tick drained.
// The frame hook fires exactly once per call, even while paused
func (s *Session) Advance(elapsed time.Duration) {
	s.mu.Lock()

	if !s.paused && !s.done {
		n := s.clock.Advance(elapsed)
		start := s.clock.Ticks() - uint64(n)
		for i := 0; i < n && !s.done; i++ {
			s.stepOnce(start + uint64(i))
		}
	}

	hook := s.frameHook
	s.mu.Unlock()

	if hook != nil {
		hook(s)
	}
}

// Step forces exactly one integrator call irrespective of accumulator
// state, for frame-by-frame inspection while paused
func (s *Session) Step() {
	s.mu.Lock()
	if !s.done {
		s.stepOnce(s.clock.ForceTick())
	}
	hook := s.frameHook
	s.mu.Unlock()

	if hook != nil {
		hook(s)
	}
}

// Pause freezes physics integration; observation continues
func (s *Session) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume unfreezes integration
func (s *Session) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Paused reports whether integration is frozen
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Reset is a hard synchronization point: the real-time loop is stopped,
// stale events are drained, fighters are destroyed and the whole world is
// rebuilt with the tick counter at zero
func (s *Session) Reset() error {
	s.StopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.fighters {
		if f != nil {
			f.Destroy()
		}
	}
	s.queue.Consume()
	s.clock.Reset()
	s.paused = false

	if err := s.build(); err != nil {
		return fmt.Errorf("session reset: %w", err)
	}
	s.queue.Push(event.Event{Type: event.TypeReset})
	s.logger.Info().Msg("session reset")
	return nil
}

// RunHeadless drives the session tick by tick until KO or the externally
// imposed duration cap. On cap without KO the fighter with more remaining
// health wins; exact ties break toward the lower fighter ID
func (s *Session) RunHeadless(maxTicks uint64) Outcome {
	for !s.Done() && s.Ticks() < maxTicks {
		s.Advance(parameter.TickDuration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.log.Sealed() {
		a, b := s.fighters[0], s.fighters[1]
		winner, loser := a, b
		if b.Health > a.Health || (b.Health == a.Health && b.ID < a.ID) {
			winner, loser = b, a
		}
		s.done = true
		s.log.Seal(winner.ID, loser.ID, s.clock.Ticks())
	}
	return Outcome{
		Winner: s.log.Winner,
		Loser:  s.log.Loser,
		Ticks:  s.log.FinalTick,
		Log:    s.log,
	}
}

// Done reports whether the fight has ended
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Ticks returns the executed physics tick count
func (s *Session) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Ticks()
}

// Log exposes the decision/replay log
func (s *Session) Log() *replay.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// Events returns the observer event queue; safe for a single consumer on
// another goroutine
func (s *Session) Events() *event.Queue {
	return s.queue
}

// Fighters returns both fighters in configuration order
func (s *Session) Fighters() [2]*fighter.Fighter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fighters
}

// Space exposes the physics space for observers. Mutating it outside the
// session's goroutine is a caller bug
func (s *Session) Space() *physics.Space {
	return s.space
}

// AI exposes the decision engine for observers and tests
func (s *Session) AI() *system.AISystem {
	return s.ai
}

// SetFrameHook registers the render/observation callback fired once per
// frame, including while paused
func (s *Session) SetFrameHook(fn func(*Session)) {
	s.mu.Lock()
	s.frameHook = fn
	s.mu.Unlock()
}
