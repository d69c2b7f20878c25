package combat

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/game/stat"
	"github.com/udisondev/la2go-combat/internal/model"
)

// State is the combat aggregate of one entity: its stats, active statuses
// keyed by source spell, and active DoTs keyed by (attacker, spell).
//
// Writers serialize on mu. Every mutation of statuses or dots ends by
// publishing a freshly built slice through an atomic pointer, so readers
// (other entities' attack resolution, network serialization) never lock and
// never observe a half-applied change.
type State struct {
	entity *model.Entity
	deps   *Deps
	stats  [model.AttrCount]*stat.Stat

	mu       sync.Mutex
	statuses map[model.SpellID]*Status
	dots     map[dotKey]*DoT

	statusView atomic.Pointer[[]Status]
	dotView    atomic.Pointer[[]DoT]
}

func newState(e *model.Entity, deps *Deps) *State {
	s := &State{
		entity:   e,
		deps:     deps,
		statuses: make(map[model.SpellID]*Status),
		dots:     make(map[dotKey]*DoT),
	}

	var items stat.ItemStatProvider
	if e.IsPlayer() {
		items = deps.Items
	}
	for attr := range model.AttrCount {
		s.stats[attr] = stat.New(e.ID(), attr, items)
	}

	s.statusView.Store(&[]Status{})
	s.dotView.Store(&[]DoT{})
	return s
}

// ID returns the entity id.
func (s *State) ID() model.ObjectID { return s.entity.ID() }

// Entity returns the owning entity.
func (s *State) Entity() *model.Entity { return s.entity }

// Stat returns the aggregator for attr.
func (s *State) Stat(attr model.Attribute) *stat.Stat { return s.stats[attr] }

// Value returns the effective value of attr. Always >= 1.
func (s *State) Value(attr model.Attribute) int32 { return s.stats[attr].Value() }

// ApplyBuffs adds every buff of spell to the matching stats.
// Returns how many buffs were applied.
func (s *State) ApplyBuffs(spell *data.SpellTemplate, now model.Timestamp) int {
	if spell == nil {
		return 0
	}
	for _, def := range spell.Buffs {
		s.stats[def.Attribute].AddBuff(stat.NewBuff(spell.ID, def.Flat, def.Percent, now, def.DurationMs))
	}
	return len(spell.Buffs)
}

// Applied reports what ApplySpell put on the target.
type Applied struct {
	Buffs  int
	Status bool
	DoT    bool
}

// ApplySpell applies a landed spell: buffs, then status, then DoT.
func (s *State) ApplySpell(attacker model.ObjectID, spell *data.SpellTemplate, now model.Timestamp) Applied {
	return Applied{
		Buffs:  s.ApplyBuffs(spell, now),
		Status: s.ApplyStatus(attacker, spell, now),
		DoT:    s.ApplyDoT(attacker, spell, now),
	}
}

// Statuses returns the published status snapshot ordered by start time.
// The slice is shared and must not be modified.
func (s *State) Statuses() []Status {
	return *s.statusView.Load()
}

// DoTs returns the published DoT snapshot ordered by next tick.
// The slice is shared and must not be modified.
func (s *State) DoTs() []DoT {
	return *s.dotView.Load()
}

// HasStatus reports whether a status of kind is active.
func (s *State) HasStatus(kind model.StatusKind) bool {
	for _, st := range s.Statuses() {
		if st.kind == kind {
			return true
		}
	}
	return false
}

// IsInvulnerable returns true while damage must be ignored.
func (s *State) IsInvulnerable() bool { return s.HasStatus(model.StatusInvulnerable) }

// IsStealthed returns true while the entity is hidden from targeting.
func (s *State) IsStealthed() bool { return s.HasStatus(model.StatusStealth) }

// CanAct returns false while stunned or asleep.
func (s *State) CanAct() bool {
	for _, st := range s.Statuses() {
		switch st.kind {
		case model.StatusStun, model.StatusSleep:
			return false
		}
	}
	return true
}

// CanCast returns false while silenced, stunned or asleep.
func (s *State) CanCast() bool {
	return s.CanAct() && !s.HasStatus(model.StatusSilence)
}

// CanMove returns false while rooted, stunned or asleep.
func (s *State) CanMove() bool {
	return s.CanAct() && !s.HasStatus(model.StatusRoot)
}

// Transform returns the active transformation id.
func (s *State) Transform() (int32, bool) {
	for _, st := range s.Statuses() {
		if st.kind == model.StatusTransform && st.spell.Status != nil {
			return st.spell.Status.TransformID, true
		}
	}
	return 0, false
}

// OnHitSpells returns spells to trigger when this entity lands a hit.
func (s *State) OnHitSpells() []model.SpellID {
	var out []model.SpellID
	for _, st := range s.Statuses() {
		if st.kind == model.StatusOnHit && st.spell.Status != nil && st.spell.Status.OnHitSpell != 0 {
			out = append(out, st.spell.Status.OnHitSpell)
		}
	}
	return out
}

// publishStatuses must be called with mu held.
func (s *State) publishStatuses() {
	view := make([]Status, 0, len(s.statuses))
	for _, st := range s.statuses {
		view = append(view, *st)
	}
	slices.SortFunc(view, func(a, b Status) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.spell.ID, b.spell.ID)
	})
	s.statusView.Store(&view)
}

// publishDoTs must be called with mu held.
func (s *State) publishDoTs() {
	view := make([]DoT, 0, len(s.dots))
	for _, d := range s.dots {
		view = append(view, *d)
	}
	slices.SortFunc(view, compareDoTs)
	s.dotView.Store(&view)
}

func compareDoTs(a, b DoT) int {
	if c := cmp.Compare(a.nextTickAt, b.nextTickAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.attacker, b.attacker); c != 0 {
		return c
	}
	return cmp.Compare(a.spell.ID, b.spell.ID)
}

// UpdateAll is the per-tick entry point: expires buffs, statuses and DoTs
// and fires due DoT ticks. Returns true if anything client-visible changed.
//
// DoT ticks are resolved after the lock is released so the attack resolver
// can consult shields on this same State.
func (s *State) UpdateAll(now model.Timestamp) bool {
	changed := false
	for _, st := range s.stats {
		if st.Update(now) {
			changed = true
		}
	}

	s.mu.Lock()

	statusesChanged := false
	for _, st := range s.sortedStatuses() {
		if st.Expired(now) {
			s.removeStatusLocked(st, RemoveExpired)
			statusesChanged = true
		} else if st.depleted() {
			s.removeStatusLocked(st, RemoveDepleted)
			statusesChanged = true
		}
	}

	var ticks []AttackRequest
	dotsChanged := false
	dots := make([]*DoT, 0, len(s.dots))
	for _, d := range s.dots {
		dots = append(dots, d)
	}
	slices.SortFunc(dots, func(a, b *DoT) int { return compareDoTs(*a, *b) })

	for _, d := range dots {
		if d.target != s.ID() {
			slog.Warn("dot bound to another target, dropping",
				"dot", d.id, "target", d.target, "holder", s.ID())
			delete(s.dots, d.key())
			dotsChanged = true
			changed = true
			continue
		}
		if req, ok := d.tick(now); ok {
			ticks = append(ticks, req)
			dotsChanged = true
		}
		if d.Expired() {
			delete(s.dots, d.key())
			changed = true
			slog.Debug("dot expired", "dot", d.id, "spell", d.spell.ID, "target", d.target)
		}
	}

	if statusesChanged {
		s.publishStatuses()
		changed = true
	}
	if dotsChanged {
		s.publishDoTs()
	}

	s.mu.Unlock()

	for _, req := range ticks {
		s.deps.Attacks.ApplyDamage(req)
	}
	return changed
}

// ApplyDoT registers a periodic effect from attacker. Re-application by the
// same attacker and spell restarts it.
//
// Returns false without registering when the spell has no periodic data,
// when no ticks would follow the initial hit, or while the target carries a
// Cleanse of the opposite polarity.
func (s *State) ApplyDoT(attacker model.ObjectID, spell *data.SpellTemplate, now model.Timestamp) bool {
	if spell == nil || !spell.IsPeriodic() || spell.Combat.PeriodicTicks() <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.statuses {
		if st.kind == model.StatusCleanse && st.polarity.Opposes(spell.Polarity) {
			slog.Debug("dot blocked by cleanse",
				"spell", spell.ID, "target", s.ID(), "cleanse", st.spell.ID)
			return false
		}
	}

	d := newDoT(attacker, s.ID(), spell, now)
	s.dots[d.key()] = d
	s.publishDoTs()

	slog.Debug("dot applied",
		"dot", d.id,
		"spell", spell.ID,
		"attacker", attacker,
		"target", s.ID(),
		"ticks", d.remaining)
	return true
}

// RemoveDoT drops the DoT from attacker's spell. Returns true if one existed.
func (s *State) RemoveDoT(attacker model.ObjectID, spell model.SpellID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dotKey{attacker: attacker, spell: spell}
	if _, ok := s.dots[key]; !ok {
		return false
	}
	delete(s.dots, key)
	s.publishDoTs()
	return true
}

// ClearEffects drops every buff, status and DoT (death).
func (s *State) ClearEffects() {
	for _, st := range s.stats {
		st.Reset()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.sortedStatuses() {
		s.removeStatusLocked(st, RemoveManual)
	}
	clear(s.dots)
	s.publishStatuses()
	s.publishDoTs()
}

// sortedStatuses returns live statuses in snapshot order so removal side
// effects run deterministically. Must be called with mu held.
func (s *State) sortedStatuses() []*Status {
	out := make([]*Status, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b *Status) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.spell.ID, b.spell.ID)
	})
	return out
}
