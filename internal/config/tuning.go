package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds every gameplay constant. Smoothing factors (pointer follow,
// friction, gap smoothing) are applied once per frame, not per second.
type Tuning struct {
	Clock     ClockTuning     `yaml:"clock"`
	Player    PlayerTuning    `yaml:"player"`
	Spawn     SpawnTuning     `yaml:"spawn"`
	Meteor    MeteorTuning    `yaml:"meteor"`
	Collision CollisionTuning `yaml:"collision"`
}

// ClockTuning caps the simulated step after stalls.
type ClockTuning struct {
	MaxStep time.Duration `yaml:"max_step"`
}

// PlayerTuning drives player kinematics.
type PlayerTuning struct {
	Speed          float64 `yaml:"speed"`           // Units per second while a key is held
	Friction       float64 `yaml:"friction"`        // Velocity multiplier per frame without key intent
	PointerFollow  float64 `yaml:"pointer_follow"`  // Fraction of the gap closed per frame
	TiltDeadzone   float64 `yaml:"tilt_deadzone"`   // Pointer distance below which the ship stays level
	BottomMargin   float64 `yaml:"bottom_margin"`   // Fraction of field height below the sprite
	SpriteFallback float64 `yaml:"sprite_fallback"` // Sprite height as a fraction of field height when unknown
	SpriteAspect   float64 `yaml:"sprite_aspect"`   // Fallback width = fallback height * aspect
}

// SpawnTuning drives the spawn scheduler. Gaps are in milliseconds.
type SpawnTuning struct {
	InitialGap     float64 `yaml:"initial_gap"`
	MinGap         float64 `yaml:"min_gap"`
	GapPerPoint    float64 `yaml:"gap_per_point"`
	GapSmoothing   float64 `yaml:"gap_smoothing"`
	DoubleBase     float64 `yaml:"double_base"`
	DoublePerPoint float64 `yaml:"double_per_point"`
	DoubleMax      float64 `yaml:"double_max"`
	BiasDecay      float64 `yaml:"bias_decay"`
}

// MeteorTuning drives meteor creation.
type MeteorTuning struct {
	MinSize       float64 `yaml:"min_size"`
	MaxSize       float64 `yaml:"max_size"`
	MinWidthFrac  float64 `yaml:"min_width_frac"`
	MaxWidthFrac  float64 `yaml:"max_width_frac"`
	MaxHeightFrac float64 `yaml:"max_height_frac"`
	SpawnOffset   float64 `yaml:"spawn_offset"` // Extra distance above the top edge
	BaseFall      float64 `yaml:"base_fall"`
	FallPerPoint  float64 `yaml:"fall_per_point"`
	FallBonusMax  float64 `yaml:"fall_bonus_max"`
	FallSpread    float64 `yaml:"fall_spread"`
	SpinMax       float64 `yaml:"spin_max"` // Degrees per second, both directions
}

// CollisionTuning shapes the hitboxes.
type CollisionTuning struct {
	RadiusFactor float64 `yaml:"radius_factor"` // Meteor radius = size * factor
	ShrinkWidth  float64 `yaml:"shrink_width"`  // Fraction of sprite width removed
	ShrinkHeight float64 `yaml:"shrink_height"` // Fraction of sprite height removed
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() Tuning {
	return Tuning{
		Clock: ClockTuning{
			MaxStep: 33 * time.Millisecond,
		},
		Player: PlayerTuning{
			Speed:          600,
			Friction:       0.88,
			PointerFollow:  0.35,
			TiltDeadzone:   3,
			BottomMargin:   0.04,
			SpriteFallback: 0.3,
			SpriteAspect:   0.75,
		},
		Spawn: SpawnTuning{
			InitialGap:     520,
			MinGap:         200,
			GapPerPoint:    8,
			GapSmoothing:   0.25,
			DoubleBase:     0.12,
			DoublePerPoint: 0.004,
			DoubleMax:      0.35,
			BiasDecay:      0.9,
		},
		Meteor: MeteorTuning{
			MinSize:       40,
			MaxSize:       160,
			MinWidthFrac:  0.08,
			MaxWidthFrac:  0.18,
			MaxHeightFrac: 0.12,
			SpawnOffset:   20,
			BaseFall:      360,
			FallPerPoint:  10,
			FallBonusMax:  900,
			FallSpread:    240,
			SpinMax:       90,
		},
		Collision: CollisionTuning{
			RadiusFactor: 0.38,
			ShrinkWidth:  0.22,
			ShrinkHeight: 0.15,
		},
	}
}

// LoadTuning reads a YAML file over the defaults. Fields missing from the
// file keep their default values. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate reports every value that would break the simulation.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.Clock.MaxStep > 0, "clock.max_step must be positive, got %s", t.Clock.MaxStep)
	check(t.Player.Speed >= 0, "player.speed must not be negative, got %v", t.Player.Speed)
	check(fraction(t.Player.Friction), "player.friction must be in [0,1], got %v", t.Player.Friction)
	check(fraction(t.Player.PointerFollow), "player.pointer_follow must be in [0,1], got %v", t.Player.PointerFollow)
	check(t.Player.SpriteFallback > 0, "player.sprite_fallback must be positive, got %v", t.Player.SpriteFallback)
	check(t.Spawn.MinGap > 0, "spawn.min_gap must be positive, got %v", t.Spawn.MinGap)
	check(t.Spawn.InitialGap >= t.Spawn.MinGap, "spawn.initial_gap %v is below spawn.min_gap %v", t.Spawn.InitialGap, t.Spawn.MinGap)
	check(fraction(t.Spawn.GapSmoothing), "spawn.gap_smoothing must be in [0,1], got %v", t.Spawn.GapSmoothing)
	check(fraction(t.Spawn.DoubleMax), "spawn.double_max must be in [0,1], got %v", t.Spawn.DoubleMax)
	check(fraction(t.Spawn.BiasDecay), "spawn.bias_decay must be in [0,1], got %v", t.Spawn.BiasDecay)
	check(t.Meteor.MinSize > 0, "meteor.min_size must be positive, got %v", t.Meteor.MinSize)
	check(t.Meteor.MaxSize >= t.Meteor.MinSize, "meteor.max_size %v is below meteor.min_size %v", t.Meteor.MaxSize, t.Meteor.MinSize)
	check(t.Meteor.BaseFall > 0, "meteor.base_fall must be positive, got %v", t.Meteor.BaseFall)
	check(t.Collision.RadiusFactor > 0, "collision.radius_factor must be positive, got %v", t.Collision.RadiusFactor)
	check(t.Collision.ShrinkWidth >= 0 && t.Collision.ShrinkWidth < 1, "collision.shrink_width must be in [0,1), got %v", t.Collision.ShrinkWidth)
	check(t.Collision.ShrinkHeight >= 0 && t.Collision.ShrinkHeight < 1, "collision.shrink_height must be in [0,1), got %v", t.Collision.ShrinkHeight)

	return errors.Join(errs...)
}

func fraction(v float64) bool {
	return v >= 0 && v <= 1
}
