package combat

import (
	"github.com/google/uuid"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/model"
)

// RemoveReason explains why a status left its target.
type RemoveReason uint8

const (
	RemoveExpired RemoveReason = iota
	RemoveDepleted
	RemoveCleansed
	RemoveSuperseded
	RemoveManual
)

func (r RemoveReason) String() string {
	switch r {
	case RemoveExpired:
		return "expired"
	case RemoveDepleted:
		return "depleted"
	case RemoveCleansed:
		return "cleansed"
	case RemoveSuperseded:
		return "superseded"
	default:
		return "manual"
	}
}

// Status is a timed, kinded effect on one target from one spell.
//
// Kind is the variant tag. Kind-specific payload lives in the shield and
// taunt fields and is zero for every other kind.
//
// A *Status is owned by its target's State and only touched under its lock;
// readers get value copies through State.Statuses.
type Status struct {
	id        uuid.UUID
	kind      model.StatusKind
	attacker  model.ObjectID
	target    model.ObjectID
	spell     *data.SpellTemplate
	polarity  model.Polarity
	start     model.Timestamp
	expiresAt model.Timestamp

	// StatusShield: remaining absorption per vital.
	shield [model.VitalCount]int64

	// StatusTaunt: hate forced onto the attacker, and whether the taunt
	// created the attacker's threat entry. Used to undo the taunt on removal.
	tauntBonus int64
	tauntAdded bool
}

// ID returns the instance id, stable across refreshes.
func (s Status) ID() uuid.UUID { return s.id }

// Kind returns the variant tag.
func (s Status) Kind() model.StatusKind { return s.kind }

// Attacker returns who applied the status.
func (s Status) Attacker() model.ObjectID { return s.attacker }

// Target returns who carries the status.
func (s Status) Target() model.ObjectID { return s.target }

// Spell returns the source spell id.
func (s Status) Spell() model.SpellID { return s.spell.ID }

// Template returns the source spell template.
func (s Status) Template() *data.SpellTemplate { return s.spell }

// Polarity returns the source spell polarity.
func (s Status) Polarity() model.Polarity { return s.polarity }

// Start returns when the status was (re)applied.
func (s Status) Start() model.Timestamp { return s.start }

// ExpiresAt returns the expiry timestamp.
func (s Status) ExpiresAt() model.Timestamp { return s.expiresAt }

// RemainingMs returns time left, never negative.
func (s Status) RemainingMs(now model.Timestamp) int64 {
	return max(int64(s.expiresAt-now), 0)
}

// ShieldPool returns remaining absorption for v. Zero for non-shields.
func (s Status) ShieldPool(v model.Vital) int64 { return s.shield[v] }

// Expired returns true once expiresAt has been reached.
func (s Status) Expired(now model.Timestamp) bool {
	return s.expiresAt <= now
}

// depleted returns true for a shield whose every pool is empty.
func (s *Status) depleted() bool {
	if s.kind != model.StatusShield {
		return false
	}
	for _, pool := range s.shield {
		if pool > 0 {
			return false
		}
	}
	return true
}

// absorb subtracts damage from the shield pool of v.
// Returns the damage that pierced the shield and whether the pool broke.
// A vital with no pool is not shielded and passes damage through untouched.
func (s *Status) absorb(v model.Vital, damage int64) (piercing int64, broken bool) {
	if s.kind != model.StatusShield || damage <= 0 || s.shield[v] <= 0 {
		return damage, false
	}
	s.shield[v] -= damage
	if s.shield[v] <= 0 {
		piercing = -s.shield[v]
		s.shield[v] = 0
		return piercing, true
	}
	return 0, false
}

// shieldPools computes abs(diff) + pct% of the attacker's scaling stat for
// every vital the spell touches.
func shieldPools(c *data.CombatDef, scaling int32) [model.VitalCount]int64 {
	var pools [model.VitalCount]int64
	if c == nil {
		return pools
	}
	bonus := int64(c.ScalingPct) * int64(scaling) / 100
	for v, diff := range c.VitalDiffs {
		if diff == 0 {
			continue
		}
		pools[v] = max(abs64(int64(diff))+bonus, 0)
	}
	return pools
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
