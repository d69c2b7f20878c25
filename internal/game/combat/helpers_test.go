package combat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/model"
)

type targetChange struct {
	entity model.ObjectID
	target model.ObjectID
}

type recordingNotifier struct {
	mu        sync.Mutex
	cancelled []model.ObjectID
	targets   []targetChange
}

func (n *recordingNotifier) NotifyCastCancelled(entity model.ObjectID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, entity)
}

func (n *recordingNotifier) NotifyTargetChanged(entity, target model.ObjectID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, targetChange{entity: entity, target: target})
}

func (n *recordingNotifier) cancelCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.cancelled)
}

func (n *recordingNotifier) targetCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.targets)
}

func (n *recordingNotifier) lastTarget() (targetChange, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.targets) == 0 {
		return targetChange{}, false
	}
	return n.targets[len(n.targets)-1], true
}

type recordingAttacks struct {
	mu   sync.Mutex
	reqs []AttackRequest
}

func (a *recordingAttacks) ApplyDamage(req AttackRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reqs = append(a.reqs, req)
}

func (a *recordingAttacks) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.reqs)
}

type fixture struct {
	reg      *Registry
	notifier *recordingNotifier
	attacks  *recordingAttacks
	spells   *data.SpellTable
}

func newFixture(t *testing.T, spells ...*data.SpellTemplate) *fixture {
	t.Helper()
	f := &fixture{
		notifier: &recordingNotifier{},
		attacks:  &recordingAttacks{},
		spells:   data.NewSpellTable(spells...),
	}
	f.reg = NewRegistry(Deps{
		Attacks:  f.attacks,
		Notifier: f.notifier,
		Spells:   f.spells,
	})
	return f
}

func (f *fixture) add(t *testing.T, id model.ObjectID, kind model.EntityKind) *State {
	t.Helper()
	st, err := f.reg.Add(model.NewEntity(id, "test", kind, 10, 1000, 500))
	require.NoError(t, err)
	return st
}

func statusSpell(id model.SpellID, kind model.StatusKind, polarity model.Polarity, durationMs int64) *data.SpellTemplate {
	return &data.SpellTemplate{
		ID:       id,
		Name:     kind.String(),
		Polarity: polarity,
		Status:   &data.StatusDef{Kind: kind, DurationMs: durationMs},
	}
}

func shieldSpell(id model.SpellID, hp int32, scaling model.Attribute, scalingPct int32, durationMs int64) *data.SpellTemplate {
	s := statusSpell(id, model.StatusShield, model.Friendly, durationMs)
	s.Combat = &data.CombatDef{ScalingStat: scaling, ScalingPct: scalingPct, CritMultiplier: 1}
	s.Combat.VitalDiffs[model.VitalHP] = hp
	return s
}

func dotSpell(id model.SpellID, polarity model.Polarity, hp int32, intervalMs, durationMs int64) *data.SpellTemplate {
	s := &data.SpellTemplate{
		ID:       id,
		Name:     "dot",
		Polarity: polarity,
		Combat: &data.CombatDef{
			IntervalMs:     intervalMs,
			DurationMs:     durationMs,
			CritMultiplier: 1,
		},
	}
	s.Combat.VitalDiffs[model.VitalHP] = hp
	return s
}

func statusSpells(st *State) []model.SpellID {
	var out []model.SpellID
	for _, s := range st.Statuses() {
		out = append(out, s.Spell())
	}
	return out
}
