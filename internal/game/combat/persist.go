package combat

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-combat/internal/game/stat"
	"github.com/udisondev/la2go-combat/internal/model"
)

// Save captures buffs and statuses that can outlive a session.
// Taunts are bound to a live attacker and DoTs to a live cadence, so
// neither is saved.
func (s *State) Save(now model.Timestamp) model.SavedEffects {
	var out model.SavedEffects

	for attr, st := range s.stats {
		for _, b := range st.Buffs() {
			remaining := b.RemainingMs(now)
			if remaining <= 0 {
				continue
			}
			out.Buffs = append(out.Buffs, model.SavedBuff{
				Attribute:   model.Attribute(attr),
				Spell:       b.Spell,
				Flat:        b.Flat,
				Percent:     b.Percent,
				RemainingMs: remaining,
			})
		}
	}

	for _, st := range s.Statuses() {
		remaining := st.RemainingMs(now)
		if st.kind == model.StatusTaunt || remaining <= 0 {
			continue
		}
		out.Statuses = append(out.Statuses, model.SavedStatus{
			Spell:       st.spell.ID,
			Kind:        st.kind,
			Attacker:    st.attacker,
			Polarity:    st.polarity,
			RemainingMs: remaining,
			Shield:      st.shield,
		})
	}
	return out
}

// Restore reinstates saved effects relative to now without re-running
// application side effects. Statuses whose spell is no longer known are
// skipped.
func (s *State) Restore(now model.Timestamp, saved model.SavedEffects) {
	for _, b := range saved.Buffs {
		if !b.Attribute.Valid() {
			continue
		}
		s.stats[b.Attribute].AddBuff(stat.NewBuff(b.Spell, b.Flat, b.Percent, now, b.RemainingMs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, ss := range saved.Statuses {
		spell := s.deps.Spells.Get(ss.Spell)
		if spell == nil || !spell.HasStatus() || ss.Kind == model.StatusTaunt {
			slog.Warn("skipping saved status", "spell", ss.Spell, "target", s.ID())
			continue
		}
		s.statuses[spell.ID] = &Status{
			id:        uuid.New(),
			kind:      ss.Kind,
			attacker:  ss.Attacker,
			target:    s.ID(),
			spell:     spell,
			polarity:  ss.Polarity,
			start:     now,
			expiresAt: now + model.Timestamp(ss.RemainingMs),
			shield:    ss.Shield,
		}
		restored++
	}
	if restored > 0 {
		s.publishStatuses()
	}

	slog.Debug("effects restored",
		"target", s.ID(),
		"buffs", len(saved.Buffs),
		"statuses", restored)
}
