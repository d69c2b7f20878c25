package stat

import "github.com/udisondev/la2go-combat/internal/model"

// Buff is an immutable stat modifier granted by one spell.
// Identity for replacement is the source spell, not the values.
type Buff struct {
	Spell     model.SpellID
	Flat      int32
	Percent   int32
	ExpiresAt model.Timestamp
}

// NewBuff creates a buff lasting durationMs from now.
func NewBuff(spell model.SpellID, flat, percent int32, now model.Timestamp, durationMs int64) Buff {
	return Buff{
		Spell:     spell,
		Flat:      flat,
		Percent:   percent,
		ExpiresAt: now + model.Timestamp(durationMs),
	}
}

// Expired returns true once the expiry timestamp has been reached.
func (b Buff) Expired(now model.Timestamp) bool {
	return b.ExpiresAt <= now
}

// RemainingMs returns time left, never negative.
func (b Buff) RemainingMs(now model.Timestamp) int64 {
	return max(int64(b.ExpiresAt-now), 0)
}
