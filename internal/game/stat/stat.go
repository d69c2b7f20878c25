package stat

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/udisondev/la2go-combat/internal/model"
)

// ItemStatProvider supplies equipment-sourced modifiers.
// Implementations must not call back into the Stat.
type ItemStatProvider interface {
	ItemStatBuffs(owner model.ObjectID, attr model.Attribute) (flat, percent int32)
}

// Stat aggregates one attribute of one entity:
//
//	flat    = base + allocation + Σ buff.Flat + item flat
//	percent = Σ buff.Percent + item percent
//	value   = max(1, ceil(flat * (1 + percent/100)))
//
// Percent modifiers scale the flat sum once; they do not compound per buff.
//
// Thread-safe: writers come from the owner's tick, readers from anywhere.
type Stat struct {
	owner model.ObjectID
	attr  model.Attribute
	items ItemStatProvider // nil for NPCs

	mu         sync.RWMutex
	base       int32
	allocation int32
	buffs      map[model.SpellID]Buff
	changed    bool
}

// New creates a Stat with zero base.
func New(owner model.ObjectID, attr model.Attribute, items ItemStatProvider) *Stat {
	return &Stat{
		owner: owner,
		attr:  attr,
		items: items,
		buffs: make(map[model.SpellID]Buff),
	}
}

// Attribute returns the attribute this Stat aggregates.
func (s *Stat) Attribute() model.Attribute {
	return s.attr
}

// Base returns the progression-owned base value.
func (s *Stat) Base() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// SetBase sets the base value (leveling).
func (s *Stat) SetBase(base int32) {
	s.mutate(func() { s.base = base })
}

// Allocation returns the player-assigned point investment.
func (s *Stat) Allocation() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allocation
}

// SetAllocation sets the point investment.
func (s *Stat) SetAllocation(points int32) {
	s.mutate(func() { s.allocation = points })
}

// AddBuff inserts or replaces the buff from b.Spell.
func (s *Stat) AddBuff(b Buff) {
	s.mutate(func() { s.buffs[b.Spell] = b })

	slog.Debug("stat buff applied",
		"owner", s.owner,
		"attr", s.attr,
		"spell", b.Spell,
		"flat", b.Flat,
		"percent", b.Percent)
}

// RemoveBuff drops the buff from spell. Returns true if one existed.
func (s *Stat) RemoveBuff(spell model.SpellID) bool {
	removed := false
	s.mutate(func() {
		if _, ok := s.buffs[spell]; ok {
			delete(s.buffs, spell)
			removed = true
		}
	})
	return removed
}

// Update prunes buffs with ExpiresAt <= now.
// Returns true if the value changed since the previous Update, including
// changes made by AddBuff/SetBase in between. The flag is consumed.
func (s *Stat) Update(now model.Timestamp) bool {
	itemFlat, itemPct := s.itemBuffs()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.compute(itemFlat, itemPct)
	expired := 0
	for spell, b := range s.buffs {
		if b.Expired(now) {
			delete(s.buffs, spell)
			expired++
		}
	}
	if expired > 0 {
		if s.compute(itemFlat, itemPct) != before {
			s.changed = true
		}
		slog.Debug("stat buffs expired", "owner", s.owner, "attr", s.attr, "count", expired)
	}

	changed := s.changed
	s.changed = false
	return changed
}

// Value returns the effective value. Always >= 1.
func (s *Stat) Value() int32 {
	itemFlat, itemPct := s.itemBuffs()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compute(itemFlat, itemPct)
}

// Unclamped returns the value without the floor of 1, saturated to int32.
// Used where zero and negative totals are meaningful (tenacity).
func (s *Stat) Unclamped() int32 {
	itemFlat, itemPct := s.itemBuffs()

	s.mu.RLock()
	defer s.mu.RUnlock()
	flat, pct := s.totals(itemFlat, itemPct)
	return int32(saturate(apply(flat, pct)))
}

// Buffs returns active buffs ordered by spell id.
func (s *Stat) Buffs() []Buff {
	s.mu.RLock()
	out := make([]Buff, 0, len(s.buffs))
	for _, b := range s.buffs {
		out = append(out, b)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Buff) int { return cmp.Compare(a.Spell, b.Spell) })
	return out
}

// BuffCount returns the number of active buffs.
func (s *Stat) BuffCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffs)
}

// Reset drops every buff (death, logout).
func (s *Stat) Reset() {
	s.mutate(func() { clear(s.buffs) })
}

// mutate runs fn under the write lock and flags a change if the value moved.
func (s *Stat) mutate(fn func()) {
	itemFlat, itemPct := s.itemBuffs()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.compute(itemFlat, itemPct)
	fn()
	if s.compute(itemFlat, itemPct) != before {
		s.changed = true
	}
}

func (s *Stat) itemBuffs() (int32, int32) {
	if s.items == nil {
		return 0, 0
	}
	return s.items.ItemStatBuffs(s.owner, s.attr)
}

// compute must be called with mu held.
func (s *Stat) compute(itemFlat, itemPct int32) int32 {
	return Effective(s.totals(itemFlat, itemPct))
}

// totals sums flat and percent contributions. Must be called with mu held.
func (s *Stat) totals(itemFlat, itemPct int32) (flat, pct int64) {
	flat = int64(s.base) + int64(s.allocation) + int64(itemFlat)
	pct = int64(itemPct)
	for _, b := range s.buffs {
		flat += int64(b.Flat)
		pct += int64(b.Percent)
	}
	return flat, pct
}

// Effective applies percent to flat with ceiling rounding and clamps
// the result to [1, MaxInt32].
func Effective(flat, percent int64) int32 {
	v := apply(flat, percent)
	if v < 1 {
		return 1
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}

// apply returns ceil(flat * (100+percent) / 100) over saturated inputs.
func apply(flat, percent int64) int64 {
	flat = saturate(flat)
	percent = saturate(percent)

	n := flat * (100 + percent)
	if n > 0 {
		return (n + 99) / 100
	}
	return n / 100 // truncation is ceiling for n <= 0
}

func saturate(v int64) int64 {
	return min(max(v, math.MinInt32), math.MaxInt32)
}
