package data

import (
	"fmt"

	"github.com/udisondev/la2go-combat/internal/model"
)

// DamageType classifies how a combat delta is mitigated by the resolver.
type DamageType int8

const (
	DamagePhysical DamageType = iota
	DamageMagical
	DamageTrue
)

func (d DamageType) String() string {
	switch d {
	case DamagePhysical:
		return "physical"
	case DamageMagical:
		return "magical"
	case DamageTrue:
		return "true"
	default:
		return fmt.Sprintf("DamageType(%d)", d)
	}
}

// ParseDamageType converts string to DamageType. Empty means physical.
func ParseDamageType(s string) (DamageType, error) {
	switch s {
	case "", "physical":
		return DamagePhysical, nil
	case "magical":
		return DamageMagical, nil
	case "true":
		return DamageTrue, nil
	default:
		return 0, fmt.Errorf("unknown damage type %q", s)
	}
}

// StatusDef describes the timed status a spell leaves on its target.
type StatusDef struct {
	Kind        model.StatusKind
	DurationMs  int64
	TransformID int32         // StatusTransform only
	OnHitSpell  model.SpellID // StatusOnHit only
}

// BuffDef describes one stat modifier granted by a spell.
type BuffDef struct {
	Attribute  model.Attribute
	Flat       int32
	Percent    int32
	DurationMs int64
}

// CombatDef describes the vital deltas of a spell and, when IntervalMs > 0,
// its periodic re-application.
// Negative deltas damage, positive deltas heal.
type CombatDef struct {
	VitalDiffs        [model.VitalCount]int32
	DamageType        DamageType
	ScalingStat       model.Attribute
	ScalingPct        int32
	CritChance        float64 // 0..1
	CritMultiplier    float64
	IntervalMs        int64
	DurationMs        int64
	OnDeathAnimations []string
	OnAliveAnimations []string
}

// IsPeriodic returns true if the spell ticks over time.
func (c *CombatDef) IsPeriodic() bool {
	return c != nil && c.IntervalMs > 0
}

// PeriodicTicks returns how many ticks follow the initial hit.
// The hit at cast time counts as the first tick, hence the -1.
func (c *CombatDef) PeriodicTicks() int {
	if !c.IsPeriodic() {
		return 0
	}
	return max(int(c.DurationMs/c.IntervalMs)-1, 0)
}

// SpellTemplate is an immutable spell definition.
// Shared across all entities: НЕ модифицировать после загрузки.
type SpellTemplate struct {
	ID       model.SpellID
	Name     string
	Polarity model.Polarity
	Status   *StatusDef
	Buffs    []BuffDef
	Combat   *CombatDef
}

// IsFriendly returns true for beneficial spells.
func (s *SpellTemplate) IsFriendly() bool {
	return s.Polarity == model.Friendly
}

// HasStatus returns true if the spell applies a status.
func (s *SpellTemplate) HasStatus() bool {
	return s.Status != nil && s.Status.Kind != 0
}

// IsPeriodic returns true if the spell applies a DoT/HoT.
func (s *SpellTemplate) IsPeriodic() bool {
	return s.Combat.IsPeriodic()
}
