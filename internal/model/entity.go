package model

import (
	"sync"
	"sync/atomic"
)

// Entity описывает участника боя (игрок или NPC).
// Хранит витальные показатели, состояние каста и текущую цель.
//
// Vitals are guarded by mu. Cast state and target are atomic so that
// effects applied from other goroutines can interrupt a cast lock-free.
type Entity struct {
	id    ObjectID
	name  string
	kind  EntityKind
	level int32

	mu      sync.RWMutex
	current [VitalCount]int32
	max     [VitalCount]int32

	casting    atomic.Bool
	castSpell  atomic.Int32  // SpellID being cast
	castTarget atomic.Uint32 // ObjectID of cast target
	castEndsAt atomic.Int64  // Timestamp when the cast completes

	target atomic.Uint32 // ObjectID of current target

	aggro *AggroList // только у NPC
}

// NewEntity создаёт сущность с полными HP/MP.
// NPC получают собственный AggroList.
func NewEntity(id ObjectID, name string, kind EntityKind, level, maxHP, maxMP int32) *Entity {
	e := &Entity{
		id:    id,
		name:  name,
		kind:  kind,
		level: level,
	}
	e.max[VitalHP] = max(maxHP, 1)
	e.max[VitalMP] = max(maxMP, 0)
	e.current = e.max
	if kind == KindNpc {
		e.aggro = NewAggroList()
	}
	return e
}

// ID возвращает ObjectID (immutable).
func (e *Entity) ID() ObjectID { return e.id }

// Name возвращает имя.
func (e *Entity) Name() string { return e.name }

// Kind возвращает тип сущности.
func (e *Entity) Kind() EntityKind { return e.kind }

// IsPlayer возвращает true для игроков.
func (e *Entity) IsPlayer() bool { return e.kind == KindPlayer }

// IsNpc возвращает true для NPC.
func (e *Entity) IsNpc() bool { return e.kind == KindNpc }

// Level возвращает уровень.
func (e *Entity) Level() int32 { return e.level }

// AggroList returns the NPC threat map, nil for players.
func (e *Entity) AggroList() *AggroList { return e.aggro }

// Vital возвращает текущее значение витального показателя.
func (e *Entity) Vital(v Vital) int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current[v]
}

// MaxVital возвращает максимум витального показателя.
func (e *Entity) MaxVital(v Vital) int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.max[v]
}

// SetMaxVital устанавливает максимум и обрезает текущее значение.
func (e *Entity) SetMaxVital(v Vital, value int32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if value < 0 {
		value = 0
	}
	if v == VitalHP && value < 1 {
		value = 1
	}
	e.max[v] = value
	if e.current[v] > value {
		e.current[v] = value
	}
}

// ReduceVital уменьшает показатель (clamp к 0) и возвращает фактически снятое.
func (e *Entity) ReduceVital(v Vital, amount int32) int32 {
	if amount <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	applied := min(amount, e.current[v])
	e.current[v] -= applied
	return applied
}

// RestoreVital увеличивает показатель (clamp к максимуму) и возвращает фактически добавленное.
func (e *Entity) RestoreVital(v Vital, amount int32) int32 {
	if amount <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	applied := min(amount, e.max[v]-e.current[v])
	e.current[v] += applied
	return applied
}

// IsDead возвращает true если HP <= 0.
func (e *Entity) IsDead() bool {
	return e.Vital(VitalHP) <= 0
}

// StartCast records an in-progress spell cast.
func (e *Entity) StartCast(spell SpellID, target ObjectID, endsAt Timestamp) {
	e.castSpell.Store(int32(spell))
	e.castTarget.Store(uint32(target))
	e.castEndsAt.Store(int64(endsAt))
	e.casting.Store(true)
}

// IsCasting returns true while a cast is in progress.
func (e *Entity) IsCasting() bool {
	return e.casting.Load()
}

// CastSpell returns the spell being cast, 0 when idle.
func (e *Entity) CastSpell() SpellID {
	return SpellID(e.castSpell.Load())
}

// AbortCast clears cast timer, target and slot.
// Returns true if a cast was actually in progress.
func (e *Entity) AbortCast() bool {
	was := e.casting.Swap(false)
	e.castSpell.Store(0)
	e.castTarget.Store(0)
	e.castEndsAt.Store(0)
	return was
}

// Target returns the current target, 0 when none.
func (e *Entity) Target() ObjectID {
	return ObjectID(e.target.Load())
}

// SetTarget assigns the current target.
func (e *Entity) SetTarget(id ObjectID) {
	e.target.Store(uint32(id))
}

// ReacquireTarget points an NPC at the most hated attacker in its threat map.
// Returns the new target and true if it changed. No-op for players.
func (e *Entity) ReacquireTarget() (ObjectID, bool) {
	if e.aggro == nil {
		return e.Target(), false
	}
	next := e.aggro.GetMostHated()
	prev := ObjectID(e.target.Swap(uint32(next)))
	return next, prev != next
}
