package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-combat/internal/model"
)

func newResolverFixture(t *testing.T, roll float64) (*Registry, *State, *State) {
	t.Helper()
	reg := NewRegistry(Deps{})
	reg.SetAttackResolver(NewVitalResolver(reg, func() float64 { return roll }))

	attacker, err := reg.Add(model.NewEntity(1, "mage", model.KindPlayer, 20, 500, 300))
	require.NoError(t, err)
	target, err := reg.Add(model.NewEntity(2, "wolf", model.KindNpc, 3, 1000, 100))
	require.NoError(t, err)
	return reg, attacker, target
}

func hpRequest(diff int32) AttackRequest {
	req := AttackRequest{Attacker: 1, Target: 2, Spell: 50, CritMultiplier: 1}
	req.VitalDiffs[model.VitalHP] = diff
	return req
}

func TestVitalResolver_Damage(t *testing.T) {
	reg, attacker, target := newResolverFixture(t, 1)
	attacker.Stat(model.AttrIntelligence).SetBase(50)

	req := hpRequest(-100)
	req.ScalingStat = model.AttrIntelligence
	req.ScalingPct = 20
	NewVitalResolver(reg, nil).ApplyDamage(req)

	// 100 + 20% of 50
	assert.Equal(t, int32(890), target.Entity().Vital(model.VitalHP))

	info := target.Entity().AggroList().Get(1)
	require.NotNil(t, info)
	assert.Equal(t, int64(110), info.Damage())
	assert.Equal(t, model.CalcHateValue(110, 3), info.Hate())
}

func TestVitalResolver_Crit(t *testing.T) {
	reg, _, target := newResolverFixture(t, 0.1)

	req := hpRequest(-100)
	req.CritChance = 0.5
	req.CritMultiplier = 2
	NewVitalResolver(reg, func() float64 { return 0.1 }).ApplyDamage(req)
	assert.Equal(t, int32(800), target.Entity().Vital(model.VitalHP))

	NewVitalResolver(reg, func() float64 { return 0.9 }).ApplyDamage(req)
	assert.Equal(t, int32(700), target.Entity().Vital(model.VitalHP))
}

func TestVitalResolver_ShieldAbsorbsFirst(t *testing.T) {
	reg, _, target := newResolverFixture(t, 1)
	require.True(t, target.ApplyStatus(2, shieldSpell(10, 60, model.AttrIntelligence, 0, 60000), 0))

	NewVitalResolver(reg, nil).ApplyDamage(hpRequest(-100))

	assert.Equal(t, int32(960), target.Entity().Vital(model.VitalHP))
	assert.False(t, target.HasStatus(model.StatusShield))
}

func TestVitalResolver_Invulnerable(t *testing.T) {
	reg, _, target := newResolverFixture(t, 1)
	require.True(t, target.ApplyStatus(2, statusSpell(10, model.StatusInvulnerable, model.Friendly, 60000), 0))

	NewVitalResolver(reg, nil).ApplyDamage(hpRequest(-100))

	assert.Equal(t, int32(1000), target.Entity().Vital(model.VitalHP))
}

func TestVitalResolver_Heal(t *testing.T) {
	reg, _, target := newResolverFixture(t, 1)
	target.Entity().ReduceVital(model.VitalHP, 50)

	NewVitalResolver(reg, nil).ApplyDamage(hpRequest(200))

	assert.Equal(t, int32(1000), target.Entity().Vital(model.VitalHP), "heal clamps to max")
}

func TestVitalResolver_UnknownTarget(t *testing.T) {
	reg, _, _ := newResolverFixture(t, 1)
	req := hpRequest(-100)
	req.Target = 99

	assert.NotPanics(t, func() { NewVitalResolver(reg, nil).ApplyDamage(req) })
}

func TestDoT_ResolvedThroughShield(t *testing.T) {
	_, _, target := newResolverFixture(t, 1)
	require.True(t, target.ApplyStatus(2, shieldSpell(10, 15, model.AttrIntelligence, 0, 60000), 0))
	require.True(t, target.ApplyDoT(1, dotSpell(50, model.Unfriendly, -10, 1000, 4000), 0))

	target.UpdateAll(1000)
	assert.Equal(t, int32(1000), target.Entity().Vital(model.VitalHP))

	target.UpdateAll(2000)
	assert.Equal(t, int32(995), target.Entity().Vital(model.VitalHP))
	assert.False(t, target.HasStatus(model.StatusShield))

	target.UpdateAll(3000)
	assert.Equal(t, int32(985), target.Entity().Vital(model.VitalHP))
	assert.Empty(t, target.DoTs())
}
