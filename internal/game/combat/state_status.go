package combat

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/model"
)

// ApplyStatus puts spell's status on this entity, applied by attacker.
//
// Side effects run in a fixed order:
//  1. tenacity shortens the duration (players, non-exempt kinds)
//  2. silence/sleep/stun interrupt the current cast
//  3. NPCs register the attacker in their threat map
//  4. shields compute their per-vital pools
//  5. cleanse removes every opposite-polarity status and DoT
//  6. taunt removes other taunts and forces the target onto the attacker
//  7. the status is inserted, or refreshed in place if the spell is already on
//
// Returns false if the spell carries no status data, or is a shield
// without combat data to size its pools.
func (s *State) ApplyStatus(attacker model.ObjectID, spell *data.SpellTemplate, now model.Timestamp) bool {
	if spell == nil || !spell.HasStatus() {
		return false
	}
	def := spell.Status
	if def.Kind == model.StatusShield && spell.Combat == nil {
		return false
	}

	duration := def.DurationMs
	if s.entity.IsPlayer() {
		duration = s.deps.Tenacity.Scale(def.Kind, duration, s.Stat(model.AttrTenacity).Unclamped())
	}

	var pools [model.VitalCount]int64
	if def.Kind == model.StatusShield {
		pools = shieldPools(spell.Combat, s.attackerBaseStat(attacker, spell.Combat.ScalingStat))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if def.Kind.Interrupts() && s.entity.AbortCast() {
		s.deps.Notifier.NotifyCastCancelled(s.ID())
		slog.Debug("cast interrupted", "target", s.ID(), "status", def.Kind)
	}

	addedThreat := false
	if aggro := s.entity.AggroList(); aggro != nil && attacker != 0 {
		addedThreat = aggro.Get(attacker) == nil
		aggro.Ensure(attacker)
	}

	switch def.Kind {
	case model.StatusCleanse:
		s.cleanseLocked(spell)
	case model.StatusTaunt:
		s.supersedeTauntsLocked(attacker, spell.ID)
	}

	var tauntBonus int64
	if def.Kind == model.StatusTaunt {
		tauntBonus = s.forceTargetLocked(attacker)
	}

	st, refreshed := s.statuses[spell.ID]
	if refreshed {
		if def.Kind == model.StatusTaunt && st.attacker == attacker {
			tauntBonus += st.tauntBonus
			addedThreat = st.tauntAdded
		}
	} else {
		st = &Status{id: uuid.New(), target: s.ID()}
		s.statuses[spell.ID] = st
	}
	st.kind = def.Kind
	st.attacker = attacker
	st.spell = spell
	st.polarity = spell.Polarity
	st.start = now
	st.expiresAt = now + model.Timestamp(duration)
	st.shield = pools
	st.tauntBonus = tauntBonus
	st.tauntAdded = addedThreat && def.Kind == model.StatusTaunt

	s.publishStatuses()

	slog.Debug("status applied",
		"status", st.id,
		"kind", def.Kind,
		"spell", spell.ID,
		"attacker", attacker,
		"target", s.ID(),
		"durationMs", duration,
		"refreshed", refreshed)
	return true
}

// attackerBaseStat reads the attacker's base stat, 0 if unknown.
// Buffs and equipment of the attacker do not size shields.
func (s *State) attackerBaseStat(attacker model.ObjectID, attr model.Attribute) int32 {
	if s.deps.resolver == nil {
		return 0
	}
	a, ok := s.deps.resolver.State(attacker)
	if !ok {
		return 0
	}
	return a.Stat(attr).Base()
}

// cleanseLocked removes statuses and DoTs whose polarity opposes spell's.
func (s *State) cleanseLocked(spell *data.SpellTemplate) {
	for _, st := range s.sortedStatuses() {
		if st.polarity.Opposes(spell.Polarity) {
			s.removeStatusLocked(st, RemoveCleansed)
		}
	}

	removed := 0
	for key, d := range s.dots {
		if d.spell.Polarity.Opposes(spell.Polarity) {
			delete(s.dots, key)
			removed++
		}
	}
	if removed > 0 {
		s.publishDoTs()
		slog.Debug("dots cleansed", "target", s.ID(), "spell", spell.ID, "count", removed)
	}
}

// supersedeTauntsLocked removes every taunt except a refresh of the same
// spell by the same attacker.
func (s *State) supersedeTauntsLocked(attacker model.ObjectID, spell model.SpellID) {
	for _, st := range s.sortedStatuses() {
		if st.kind != model.StatusTaunt {
			continue
		}
		if st.spell.ID == spell && st.attacker == attacker {
			continue
		}
		s.removeStatusLocked(st, RemoveSuperseded)
	}
}

// forceTargetLocked points the target at attacker. For NPCs the attacker's
// hate becomes max+1 so it tops the threat map without a full recompute.
// Returns the hate added.
func (s *State) forceTargetLocked(attacker model.ObjectID) int64 {
	var bonus int64
	if aggro := s.entity.AggroList(); aggro != nil {
		prev := aggro.Ensure(attacker).Hate()
		forced := aggro.MaxHate() + 1
		aggro.SetHate(attacker, forced)
		bonus = forced - prev
	}
	s.entity.SetTarget(attacker)
	s.deps.Notifier.NotifyTargetChanged(s.ID(), attacker)
	return bonus
}

// removeStatusLocked deletes st and runs removal side effects.
// Callers publish the snapshot.
func (s *State) removeStatusLocked(st *Status, reason RemoveReason) {
	if s.statuses[st.spell.ID] != st {
		return
	}
	delete(s.statuses, st.spell.ID)

	if st.kind == model.StatusTaunt {
		// a superseding taunt forces its own target right after
		s.releaseTauntLocked(st, reason != RemoveSuperseded)
	}

	slog.Debug("status removed",
		"status", st.id,
		"kind", st.kind,
		"spell", st.spell.ID,
		"target", s.ID(),
		"reason", reason)
}

// releaseTauntLocked undoes the forced hate of a taunt and, when reacquire
// is set, lets an NPC pick a new target. An entry created by the taunt that
// holds no other hate or damage is dropped entirely.
func (s *State) releaseTauntLocked(st *Status, reacquire bool) {
	aggro := s.entity.AggroList()
	if aggro == nil {
		return
	}

	if info := aggro.Get(st.attacker); info != nil {
		info.AddHate(-st.tauntBonus)
		if st.tauntAdded && info.Hate() <= 0 && info.Damage() == 0 {
			aggro.Remove(st.attacker)
		}
	}

	if !reacquire {
		return
	}
	if next, changed := s.entity.ReacquireTarget(); changed {
		s.deps.Notifier.NotifyTargetChanged(s.ID(), next)
	}
}

// TryRemoveStatus removes the status from spell if it has expired, or if it
// is a shield with every pool depleted. Returns true if it was removed.
func (s *State) TryRemoveStatus(spell model.SpellID, now model.Timestamp) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[spell]
	if !ok {
		return false
	}

	switch {
	case st.Expired(now):
		s.removeStatusLocked(st, RemoveExpired)
	case st.depleted():
		s.removeStatusLocked(st, RemoveDepleted)
	default:
		return false
	}
	s.publishStatuses()
	return true
}

// RemoveStatus removes the status from spell unconditionally.
func (s *State) RemoveStatus(spell model.SpellID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[spell]
	if !ok {
		return false
	}
	s.removeStatusLocked(st, RemoveManual)
	s.publishStatuses()
	return true
}

// RemoveStatusesByKind removes every status of kind. Returns the count.
func (s *State) RemoveStatusesByKind(kind model.StatusKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, st := range s.sortedStatuses() {
		if st.kind == kind {
			s.removeStatusLocked(st, RemoveManual)
			removed++
		}
	}
	if removed > 0 {
		s.publishStatuses()
	}
	return removed
}

// DamageShield runs incoming damage to vital v through active shields in
// application order and returns what pierced all of them.
// A shield whose pool breaks is removed immediately, even before expiry.
func (s *State) DamageShield(v model.Vital, damage int64) int64 {
	if damage <= 0 {
		return damage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := damage
	touched := false
	for _, st := range s.sortedStatuses() {
		if remaining <= 0 {
			break
		}
		if st.kind != model.StatusShield || st.shield[v] <= 0 {
			continue
		}

		before := remaining
		pierced, broken := st.absorb(v, remaining)
		remaining = pierced
		touched = true

		slog.Debug("shield absorbed",
			"status", st.id,
			"target", s.ID(),
			"vital", v,
			"absorbed", before-pierced,
			"broken", broken)

		if broken {
			s.removeStatusLocked(st, RemoveDepleted)
		}
	}

	if touched {
		s.publishStatuses()
	}
	return remaining
}
