// Package config loads and validates battle setup: seed, arena and
// per-fighter configuration. The simulation core consumes the typed structs;
// file handling stays here.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Arena describes the bounded fight region
type Arena struct {
	Width   float64 `json:"width" mapstructure:"width"`
	Height  float64 `json:"height" mapstructure:"height"`
	Gravity float64 `json:"gravity" mapstructure:"gravity"`
}

// FighterSetup is one fighter's identity, stats and tuning
type FighterSetup struct {
	ID     int32   `json:"id" mapstructure:"id"`
	Name   string  `json:"name" mapstructure:"name"`
	SpawnX float64 `json:"spawnX" mapstructure:"spawnX"`
	Scale  float64 `json:"scale" mapstructure:"scale"`

	// Weapon/armor/stat parameters feeding the damage resolver
	WeaponDamageScale       float64 `json:"weaponDamageScale" mapstructure:"weaponDamageScale"`
	KnockbackScale          float64 `json:"knockbackScale" mapstructure:"knockbackScale"`
	StrengthMultiplier      float64 `json:"strengthMultiplier" mapstructure:"strengthMultiplier"`
	ArmorDefense            float64 `json:"armorDefense" mapstructure:"armorDefense"`
	ArmorKnockbackReduction float64 `json:"armorKnockbackReduction" mapstructure:"armorKnockbackReduction"`
	MaxHealth               float64 `json:"maxHealth" mapstructure:"maxHealth"`

	// Ragdoll joint tuning
	JointStiffness float64 `json:"jointStiffness" mapstructure:"jointStiffness"`
	JointDamping   float64 `json:"jointDamping" mapstructure:"jointDamping"`

	// AI tuning: hysteresis thresholds, lower strictly below upper
	ApproachUpper float64 `json:"approachUpper" mapstructure:"approachUpper"`
	ApproachLower float64 `json:"approachLower" mapstructure:"approachLower"`
}

// Battle is the full input contract for one fight
type Battle struct {
	Seed     uint64          `json:"seed" mapstructure:"seed"`
	Arena    Arena           `json:"arena" mapstructure:"arena"`
	Fighters [2]FighterSetup `json:"fighters" mapstructure:"fighters"`
}

// Default returns a balanced two-fighter setup usable without a config file
func Default() Battle {
	return Battle{
		Seed: 1,
		Arena: Arena{
			Width:   24.0,
			Height:  12.0,
			Gravity: -30.0,
		},
		Fighters: [2]FighterSetup{
			defaultFighter(1, "red", -4.0),
			defaultFighter(2, "blue", 4.0),
		},
	}
}

func defaultFighter(id int32, name string, spawnX float64) FighterSetup {
	return FighterSetup{
		ID:                 id,
		Name:               name,
		SpawnX:             spawnX,
		Scale:              1.0,
		WeaponDamageScale:  1.0,
		KnockbackScale:     1.0,
		StrengthMultiplier: 1.0,
		MaxHealth:          1000.0,
		JointStiffness:     300.0,
		JointDamping:       6.0,
		ApproachUpper:      3.0,
		ApproachLower:      1.5,
	}
}

// Load reads a JSON battle file, applying Default values for missing keys
func Load(path string) (Battle, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("seed", def.Seed)
	v.SetDefault("arena.width", def.Arena.Width)
	v.SetDefault("arena.height", def.Arena.Height)
	v.SetDefault("arena.gravity", def.Arena.Gravity)

	if err := v.ReadInConfig(); err != nil {
		return Battle{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	b := def
	if err := v.Unmarshal(&b); err != nil {
		return Battle{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return Battle{}, err
	}
	return b, nil
}

// Validate rejects invalid configuration at construction time
func (b Battle) Validate() error {
	if b.Arena.Width <= 0 || b.Arena.Height <= 0 {
		return fmt.Errorf("config: arena dimensions must be positive, got %gx%g", b.Arena.Width, b.Arena.Height)
	}
	if b.Fighters[0].ID == b.Fighters[1].ID {
		return fmt.Errorf("config: fighter ids must differ, both are %d", b.Fighters[0].ID)
	}
	for i, f := range b.Fighters {
		if f.Scale <= 0 {
			return fmt.Errorf("config: fighter %d: scale must be positive, got %g", i, f.Scale)
		}
		if f.StrengthMultiplier <= 0 {
			return fmt.Errorf("config: fighter %d: strength multiplier must be positive, got %g", i, f.StrengthMultiplier)
		}
		if f.MaxHealth <= 0 {
			return fmt.Errorf("config: fighter %d: max health must be positive, got %g", i, f.MaxHealth)
		}
		if f.JointStiffness <= 0 {
			return fmt.Errorf("config: fighter %d: joint stiffness must be positive, got %g", i, f.JointStiffness)
		}
		if f.ArmorKnockbackReduction < 0 || f.ArmorKnockbackReduction > 1 {
			return fmt.Errorf("config: fighter %d: armor knockback reduction must be in [0,1], got %g", i, f.ArmorKnockbackReduction)
		}
		if f.ApproachLower >= f.ApproachUpper {
			return fmt.Errorf("config: fighter %d: ai lower threshold %g must be below upper %g", i, f.ApproachLower, f.ApproachUpper)
		}
	}
	return nil
}
