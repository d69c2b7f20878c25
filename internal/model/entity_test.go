package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntity(t *testing.T) {
	npc := NewEntity(10, "Orc", KindNpc, 20, 500, 100)
	player := NewEntity(11, "Hero", KindPlayer, 20, 300, 200)

	assert.True(t, npc.IsNpc())
	assert.NotNil(t, npc.AggroList())
	assert.True(t, player.IsPlayer())
	assert.Nil(t, player.AggroList())
	assert.Equal(t, int32(500), npc.Vital(VitalHP))
	assert.Equal(t, int32(200), player.Vital(VitalMP))
}

func TestEntity_ReduceRestoreVital(t *testing.T) {
	e := NewEntity(1, "Hero", KindPlayer, 1, 100, 50)

	assert.Equal(t, int32(30), e.ReduceVital(VitalHP, 30))
	assert.Equal(t, int32(70), e.Vital(VitalHP))

	assert.Equal(t, int32(70), e.ReduceVital(VitalHP, 500), "reduction clamps at zero")
	assert.True(t, e.IsDead())

	assert.Equal(t, int32(100), e.RestoreVital(VitalHP, 1000), "restore clamps at max")
	assert.Equal(t, int32(0), e.ReduceVital(VitalHP, -5))
}

func TestEntity_SetMaxVital(t *testing.T) {
	e := NewEntity(1, "Hero", KindPlayer, 1, 100, 50)

	e.SetMaxVital(VitalHP, 40)
	assert.Equal(t, int32(40), e.Vital(VitalHP))

	e.SetMaxVital(VitalHP, 0)
	assert.Equal(t, int32(1), e.MaxVital(VitalHP), "HP max never drops below 1")
}

func TestEntity_AbortCast(t *testing.T) {
	e := NewEntity(1, "Mage", KindPlayer, 1, 100, 50)

	require.False(t, e.AbortCast(), "idle entity has nothing to abort")

	e.StartCast(1001, 2, 5000)
	require.True(t, e.IsCasting())
	assert.Equal(t, SpellID(1001), e.CastSpell())

	assert.True(t, e.AbortCast())
	assert.False(t, e.IsCasting())
	assert.Equal(t, SpellID(0), e.CastSpell())
}

func TestEntity_ReacquireTarget(t *testing.T) {
	npc := NewEntity(10, "Orc", KindNpc, 20, 500, 100)
	npc.AggroList().AddHate(1, 5)
	npc.AggroList().AddHate(2, 50)

	next, changed := npc.ReacquireTarget()
	assert.Equal(t, ObjectID(2), next)
	assert.True(t, changed)

	_, changed = npc.ReacquireTarget()
	assert.False(t, changed)

	player := NewEntity(11, "Hero", KindPlayer, 1, 100, 50)
	player.SetTarget(10)
	next, changed = player.ReacquireTarget()
	assert.Equal(t, ObjectID(10), next)
	assert.False(t, changed)
}
