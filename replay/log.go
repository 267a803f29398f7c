// Package replay holds the ordered, append-only record of AI decisions and
// impact/KO events for one fight. A sealed log plus the originating seed and
// configuration is sufficient to reconstruct the fight deterministically.
package replay

import (
	"errors"
	"fmt"
)

// Kind discriminates record types
type Kind string

const (
	KindDecision Kind = "decision"
	KindImpact   Kind = "impact"
	KindKnockout Kind = "ko"
)

// Record is one log entry. Decisions store actions and their parameters,
// never raw forces or body snapshots; replays regenerate forces from the
// decision plus the identical starting configuration
type Record struct {
	Kind Kind   `json:"kind"`
	Tick uint64 `json:"tick"`

	// Decision fields
	Fighter   int32  `json:"fighter,omitempty"`
	State     string `json:"state,omitempty"`
	Direction int8   `json:"direction,omitempty"`
	// ForceJitter is the seeded approach-force multiplier drawn for this
	// evaluation, Q32.32. Replay applies it verbatim
	ForceJitter int64 `json:"forceJitter,omitempty"`

	// Impact fields, fixed point Q32.32 for exact reproduction
	Attacker  int32  `json:"attacker,omitempty"`
	Defender  int32  `json:"defender,omitempty"`
	Segment   string `json:"segment,omitempty"`
	Score     int64  `json:"score,omitempty"`
	Damage    int64  `json:"damage,omitempty"`
	Knockback int64  `json:"knockback,omitempty"`
	Tier      int    `json:"tier,omitempty"`

	// Knockout fields
	Winner int32 `json:"winner,omitempty"`
	Loser  int32 `json:"loser,omitempty"`
}

// ErrSealed is returned when appending to a finished log
var ErrSealed = errors.New("replay: log is sealed")

// Log is created at battle start bound to a seed, appended to during the
// fight, sealed at battle end, and handed off as an opaque record
type Log struct {
	Seed      uint64   `json:"seed"`
	Records   []Record `json:"records"`
	Winner    int32    `json:"winner"`
	Loser     int32    `json:"loser"`
	FinalTick uint64   `json:"finalTick"`

	sealed bool
}

// NewLog binds an empty log to the fight's seed
func NewLog(seed uint64) *Log {
	return &Log{Seed: seed}
}

// Append adds one record in fight order
func (l *Log) Append(r Record) error {
	if l.sealed {
		return ErrSealed
	}
	l.Records = append(l.Records, r)
	return nil
}

// Seal freezes the log with the final outcome
func (l *Log) Seal(winner, loser int32, finalTick uint64) {
	l.Winner = winner
	l.Loser = loser
	l.FinalTick = finalTick
	l.sealed = true
}

// Sealed reports whether the fight has ended
func (l *Log) Sealed() bool {
	return l.sealed
}

// Decisions returns only the decision records, in order
func (l *Log) Decisions() []Record {
	var out []Record
	for _, r := range l.Records {
		if r.Kind == KindDecision {
			out = append(out, r)
		}
	}
	return out
}

// Impacts returns the impact and knockout records, in order. This is the
// stream determinism verification compares
func (l *Log) Impacts() []Record {
	var out []Record
	for _, r := range l.Records {
		if r.Kind != KindDecision {
			out = append(out, r)
		}
	}
	return out
}

// Compare checks two logs for an identical winner and identical ordered
// impact/KO sequences. Used by replay verification
func Compare(a, b *Log) error {
	if a.Winner != b.Winner {
		return fmt.Errorf("replay: winner mismatch: %d vs %d", a.Winner, b.Winner)
	}
	ia, ib := a.Impacts(), b.Impacts()
	if len(ia) != len(ib) {
		return fmt.Errorf("replay: impact count mismatch: %d vs %d", len(ia), len(ib))
	}
	for i := range ia {
		if ia[i] != ib[i] {
			return fmt.Errorf("replay: impact %d mismatch: %+v vs %+v", i, ia[i], ib[i])
		}
	}
	return nil
}
