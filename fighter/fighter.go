package fighter

import (
	"fmt"

	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/vmath"
)

// State is the fighter lifecycle. Downstream systems can only observe a
// complete ragdoll: Spawned is set strictly after the graph is committed
type State uint8

const (
	StateUninitialized State = iota
	StateSpawned
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateSpawned:
		return "spawned"
	case StateDestroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}

// Loadout is the externally supplied combat parameter set: weapon, armor and
// stat data that modulate the damage resolver. All values Q32.32
type Loadout struct {
	WeaponDamageScale       int64
	KnockbackScale          int64
	StrengthMultiplier      int64
	ArmorDefense            int64
	ArmorKnockbackReduction int64
	MaxHealth               int64
}

// DefaultLoadout is an unarmed, unarmored fighter
func DefaultLoadout() Loadout {
	return Loadout{
		WeaponDamageScale:       vmath.Scale,
		KnockbackScale:          vmath.Scale,
		StrengthMultiplier:      vmath.Scale,
		ArmorDefense:            0,
		ArmorKnockbackReduction: 0,
		MaxHealth:               vmath.FromInt(1000),
	}
}

func (l Loadout) validate() error {
	if l.WeaponDamageScale < 0 || l.KnockbackScale < 0 || l.StrengthMultiplier <= 0 {
		return fmt.Errorf("loadout: weapon/strength scales must be positive")
	}
	if l.ArmorKnockbackReduction < 0 || l.ArmorKnockbackReduction > vmath.Scale {
		return fmt.Errorf("loadout: armor knockback reduction must be in [0,1], got %v",
			vmath.ToFloat(l.ArmorKnockbackReduction))
	}
	if l.MaxHealth <= 0 {
		return fmt.Errorf("loadout: max health must be positive, got %v", vmath.ToFloat(l.MaxHealth))
	}
	return nil
}

// Fighter wraps one ragdoll plus identity and spawn point
type Fighter struct {
	ID      int32
	Name    string
	SpawnAt vmath.Vec
	Loadout Loadout

	// Health is authoritative, owned by the impact resolver
	Health int64

	rag   *Ragdoll
	state State
}

// New returns an uninitialized fighter; Spawn builds its ragdoll
func New(id int32, name string, spawnAt vmath.Vec, loadout Loadout) (*Fighter, error) {
	if err := loadout.validate(); err != nil {
		return nil, fmt.Errorf("fighter %d (%s): %w", id, name, err)
	}
	return &Fighter{
		ID:      id,
		Name:    name,
		SpawnAt: spawnAt,
		Loadout: loadout,
		state:   StateUninitialized,
	}, nil
}

// Spawn builds the fighter's ragdoll in the space. The build is atomic and
// the state flips to Spawned only after the complete graph is committed
func (f *Fighter) Spawn(space *physics.Space, p BuildParams) error {
	if f.state == StateSpawned {
		return fmt.Errorf("fighter %d: already spawned", f.ID)
	}
	p.Origin = f.SpawnAt
	rag, err := Build(space, p)
	if err != nil {
		return fmt.Errorf("fighter %d (%s): %w", f.ID, f.Name, err)
	}
	f.rag = rag
	f.Health = f.Loadout.MaxHealth
	f.state = StateSpawned
	return nil
}

// Destroy releases the ragdoll reference. The space itself is rebuilt by the
// session on reset; in-flight contacts against a destroyed fighter are
// dropped by the resolver
func (f *Fighter) Destroy() {
	f.rag = nil
	f.state = StateDestroyed
}

// State returns the lifecycle state
func (f *Fighter) State() State {
	return f.state
}

// Ragdoll returns the skeleton, nil unless the fighter is Spawned
func (f *Fighter) Ragdoll() *Ragdoll {
	if f.state != StateSpawned {
		return nil
	}
	return f.rag
}
