package combat

import (
	"github.com/google/uuid"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/model"
)

// dotKey identifies a DoT within its target: one per (attacker, spell).
type dotKey struct {
	attacker model.ObjectID
	spell    model.SpellID
}

// DoT is a periodic damage or heal effect.
// Owned by the target's State like Status.
type DoT struct {
	id         uuid.UUID
	attacker   model.ObjectID
	target     model.ObjectID
	spell      *data.SpellTemplate
	interval   int64
	nextTickAt model.Timestamp
	remaining  int
}

func newDoT(attacker, target model.ObjectID, spell *data.SpellTemplate, now model.Timestamp) *DoT {
	c := spell.Combat
	return &DoT{
		id:         uuid.New(),
		attacker:   attacker,
		target:     target,
		spell:      spell,
		interval:   c.IntervalMs,
		nextTickAt: now + model.Timestamp(c.IntervalMs),
		remaining:  c.PeriodicTicks(),
	}
}

// ID returns the instance id.
func (d DoT) ID() uuid.UUID { return d.id }

// Attacker returns who applied the DoT.
func (d DoT) Attacker() model.ObjectID { return d.attacker }

// Target returns who carries the DoT.
func (d DoT) Target() model.ObjectID { return d.target }

// Spell returns the source spell id.
func (d DoT) Spell() model.SpellID { return d.spell.ID }

// Polarity returns the source spell polarity. Friendly DoTs heal.
func (d DoT) Polarity() model.Polarity { return d.spell.Polarity }

// NextTickAt returns when the next tick fires.
func (d DoT) NextTickAt() model.Timestamp { return d.nextTickAt }

// RemainingTicks returns ticks left.
func (d DoT) RemainingTicks() int { return d.remaining }

// Expired returns true when no ticks are left.
func (d DoT) Expired() bool { return d.remaining <= 0 }

func (d *DoT) key() dotKey {
	return dotKey{attacker: d.attacker, spell: d.spell.ID}
}

// tick fires at most one interval. Returns the attack to resolve and true
// if the tick was due.
func (d *DoT) tick(now model.Timestamp) (AttackRequest, bool) {
	if d.Expired() || now < d.nextTickAt {
		return AttackRequest{}, false
	}

	c := d.spell.Combat
	req := AttackRequest{
		Attacker:          d.attacker,
		Target:            d.target,
		Spell:             d.spell.ID,
		VitalDiffs:        c.VitalDiffs,
		DamageType:        c.DamageType,
		ScalingStat:       c.ScalingStat,
		ScalingPct:        c.ScalingPct,
		CritChance:        c.CritChance,
		CritMultiplier:    c.CritMultiplier,
		OnDeathAnimations: c.OnDeathAnimations,
		OnAliveAnimations: c.OnAliveAnimations,
		Periodic:          true,
	}

	d.remaining--
	d.nextTickAt += model.Timestamp(d.interval)
	return req, true
}
