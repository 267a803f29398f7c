package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/config"
	"github.com/arenasim/ragdoll/replay"
)

// NewReplaySession builds a session that, instead of evaluating AI, applies
// the decision records of a sealed log at their recorded ticks. Physics and
// impact resolution run exactly as live
func NewReplaySession(cfg config.Battle, sealed *replay.Log, logger zerolog.Logger) (*Session, error) {
	if !sealed.Sealed() {
		return nil, fmt.Errorf("replay: log is not sealed")
	}
	if sealed.Seed != cfg.Seed {
		return nil, fmt.Errorf("replay: seed mismatch: log %d, config %d", sealed.Seed, cfg.Seed)
	}

	s, err := NewSession(cfg, logger)
	if err != nil {
		return nil, err
	}

	s.replayMode = true
	s.decisions = make(map[uint64]map[int32]replay.Record)
	for _, r := range sealed.Decisions() {
		byFighter := s.decisions[r.Tick]
		if byFighter == nil {
			byFighter = make(map[int32]replay.Record, 2)
			s.decisions[r.Tick] = byFighter
		}
		byFighter[r.Fighter] = r
	}
	for _, f := range s.fighters {
		s.ai.SetEnabled(f.ID, false)
	}
	return s, nil
}

// Replay reruns a sealed log and returns the reconstructed outcome. The run
// covers exactly the recorded tick range; FinalTick counts executed ticks,
// so timeout fights regenerate the identical impact stream
func Replay(cfg config.Battle, sealed *replay.Log, logger zerolog.Logger) (Outcome, error) {
	s, err := NewReplaySession(cfg, sealed, logger)
	if err != nil {
		return Outcome{}, err
	}
	return s.RunHeadless(sealed.FinalTick), nil
}

// Verify reruns the fight from seed and configuration with live AI and
// checks the regenerated log against the sealed one: identical winner and
// identical ordered impact sequence, or an error describing the first
// divergence
func Verify(cfg config.Battle, sealed *replay.Log, logger zerolog.Logger) error {
	if sealed.Seed != cfg.Seed {
		return fmt.Errorf("replay: seed mismatch: log %d, config %d", sealed.Seed, cfg.Seed)
	}
	s, err := NewSession(cfg, logger)
	if err != nil {
		return err
	}
	out := s.RunHeadless(sealed.FinalTick)
	return replay.Compare(sealed, out.Log)
}
