package combat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/model"
)

func TestUpdateAll_BuffExpiry(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)
	st.Stat(model.AttrStrength).SetBase(10)
	st.UpdateAll(0)

	spell := &data.SpellTemplate{
		ID:       1,
		Polarity: model.Friendly,
		Buffs:    []data.BuffDef{{Attribute: model.AttrStrength, Flat: 5, Percent: 50, DurationMs: 1000}},
	}
	require.Equal(t, 1, st.ApplyBuffs(spell, 0))
	assert.Equal(t, int32(23), st.Value(model.AttrStrength))

	assert.True(t, st.UpdateAll(500), "buff addition is reported once")
	assert.False(t, st.UpdateAll(600))

	assert.True(t, st.UpdateAll(1000))
	assert.Equal(t, int32(10), st.Value(model.AttrStrength))
}

func TestUpdateAll_NothingActive(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)
	st.UpdateAll(0)

	assert.False(t, st.UpdateAll(1000))
}

func TestApplySpell(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)

	spell := dotSpell(1, model.Unfriendly, -5, 1000, 4000)
	spell.Status = &data.StatusDef{Kind: model.StatusSilence, DurationMs: 2000}
	spell.Buffs = []data.BuffDef{{Attribute: model.AttrWisdom, Flat: -2, DurationMs: 2000}}

	got := st.ApplySpell(2, spell, 0)

	assert.Equal(t, Applied{Buffs: 1, Status: true, DoT: true}, got)
	assert.True(t, st.HasStatus(model.StatusSilence))
	assert.Len(t, st.DoTs(), 1)
	assert.Equal(t, 1, st.Stat(model.AttrWisdom).BuffCount())
}

func TestQueries(t *testing.T) {
	tests := []struct {
		kind         model.StatusKind
		act, cast    bool
		move         bool
		invulnerable bool
		stealthed    bool
	}{
		{model.StatusStun, false, false, false, false, false},
		{model.StatusSleep, false, false, false, false, false},
		{model.StatusSilence, true, false, true, false, false},
		{model.StatusRoot, true, true, false, false, false},
		{model.StatusInvulnerable, true, true, true, true, false},
		{model.StatusStealth, true, true, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := newFixture(t)
			st := f.add(t, 1, model.KindNpc)
			require.True(t, st.ApplyStatus(2, statusSpell(10, tt.kind, model.Unfriendly, 1000), 0))

			assert.Equal(t, tt.act, st.CanAct())
			assert.Equal(t, tt.cast, st.CanCast())
			assert.Equal(t, tt.move, st.CanMove())
			assert.Equal(t, tt.invulnerable, st.IsInvulnerable())
			assert.Equal(t, tt.stealthed, st.IsStealthed())
		})
	}
}

func TestQueries_TransformAndOnHit(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)

	_, ok := st.Transform()
	assert.False(t, ok)

	transform := statusSpell(10, model.StatusTransform, model.Friendly, 1000)
	transform.Status.TransformID = 7
	onHit := statusSpell(11, model.StatusOnHit, model.Friendly, 1000)
	onHit.Status.OnHitSpell = 1500

	require.True(t, st.ApplyStatus(1, transform, 0))
	require.True(t, st.ApplyStatus(1, onHit, 0))

	id, ok := st.Transform()
	assert.True(t, ok)
	assert.Equal(t, int32(7), id)
	assert.Equal(t, []model.SpellID{1500}, st.OnHitSpells())
}

func TestSnapshots_AreImmutable(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)

	require.True(t, st.ApplyStatus(1, shieldSpell(10, 100, model.AttrIntelligence, 0, 60000), 0))
	before := st.Statuses()

	st.DamageShield(model.VitalHP, 30)
	require.True(t, st.ApplyStatus(2, statusSpell(11, model.StatusRoot, model.Unfriendly, 1000), 5))

	require.Len(t, before, 1)
	assert.Equal(t, int64(100), before[0].ShieldPool(model.VitalHP))
	assert.Equal(t, int64(70), st.Statuses()[0].ShieldPool(model.VitalHP))
	assert.Equal(t, []model.SpellID{10, 11}, statusSpells(st))
}

func TestClearEffects(t *testing.T) {
	f := newFixture(t)
	npc := f.add(t, 1, model.KindNpc)

	npc.ApplyBuffs(&data.SpellTemplate{
		ID:    1,
		Buffs: []data.BuffDef{{Attribute: model.AttrDexterity, Flat: 3, DurationMs: 5000}},
	}, 0)
	require.True(t, npc.ApplyStatus(2, statusSpell(10, model.StatusTaunt, model.Unfriendly, 5000), 0))
	require.True(t, npc.ApplyDoT(2, dotSpell(50, model.Unfriendly, -1, 1000, 5000), 0))

	npc.ClearEffects()

	assert.Empty(t, npc.Statuses())
	assert.Empty(t, npc.DoTs())
	assert.Zero(t, npc.Stat(model.AttrDexterity).BuffCount())
	assert.Nil(t, npc.Entity().AggroList().Get(2), "taunt threat is released")
}

func TestSaveRestore(t *testing.T) {
	spells := []*data.SpellTemplate{
		shieldSpell(10, 100, model.AttrIntelligence, 0, 10000),
		statusSpell(11, model.StatusTaunt, model.Unfriendly, 10000),
		statusSpell(12, model.StatusStealth, model.Friendly, 10000),
	}
	f := newFixture(t, spells...)
	src := f.add(t, 1, model.KindPlayer)

	src.ApplyBuffs(&data.SpellTemplate{
		ID:    1,
		Buffs: []data.BuffDef{{Attribute: model.AttrStrength, Flat: 5, Percent: 10, DurationMs: 8000}},
	}, 0)
	for _, s := range spells {
		require.True(t, src.ApplyStatus(1, s, 0))
	}
	src.DamageShield(model.VitalHP, 40)

	saved := src.Save(2000)
	require.Len(t, saved.Buffs, 1)
	assert.Equal(t, int64(6000), saved.Buffs[0].RemainingMs)
	require.Len(t, saved.Statuses, 2, "taunt is not saved")

	dst := f.add(t, 2, model.KindPlayer)
	dst.Restore(100000, saved)

	assert.Equal(t, int32(5), dst.Stat(model.AttrStrength).Buffs()[0].Flat)
	assert.Equal(t, []model.SpellID{10, 12}, statusSpells(dst))
	assert.Equal(t, int64(60), dst.Statuses()[0].ShieldPool(model.VitalHP))
	assert.Equal(t, model.Timestamp(108000), dst.Statuses()[0].ExpiresAt())
	assert.True(t, dst.IsStealthed())
}

func TestRestore_SkipsUnknownSpell(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)

	st.Restore(0, model.SavedEffects{
		Statuses: []model.SavedStatus{{Spell: 999, Kind: model.StatusStun, RemainingMs: 1000}},
	})
	assert.Empty(t, st.Statuses())
}

func TestState_ConcurrentReaders(t *testing.T) {
	f := newFixture(t)
	st := f.add(t, 1, model.KindNpc)

	var stop atomic.Bool
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				statuses := st.Statuses()
				for i := 1; i < len(statuses); i++ {
					if statuses[i-1].Start() > statuses[i].Start() {
						t.Error("status snapshot out of order")
						return
					}
				}
				for _, d := range st.DoTs() {
					if d.Target() != st.ID() {
						t.Error("dot bound to another target")
						return
					}
				}
				_ = st.CanCast()
				_ = st.Value(model.AttrStrength)
			}
		}()
	}

	for i := range 500 {
		now := model.Timestamp(i * 10)
		spell := model.SpellID(i % 13)
		st.ApplyStatus(2, statusSpell(spell, model.StatusRoot, model.Unfriendly, 200), now)
		st.ApplyDoT(model.ObjectID(i%3+2), dotSpell(100+spell, model.Unfriendly, -1, 50, 400), now)
		st.UpdateAll(now)
	}
	stop.Store(true)
	wg.Wait()
}

func BenchmarkState_Statuses(b *testing.B) {
	reg := NewRegistry(Deps{})
	st, err := reg.Add(model.NewEntity(1, "bench", model.KindNpc, 10, 1000, 100))
	require.NoError(b, err)
	for i := range 8 {
		st.ApplyStatus(2, statusSpell(model.SpellID(i+1), model.StatusRoot, model.Unfriendly, 60000), 0)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_ = st.CanCast()
	}
}
