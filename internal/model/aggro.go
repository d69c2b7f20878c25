package model

import (
	"sync"
	"sync/atomic"
)

// AggroInfo tracks hate and damage from a single attacker.
type AggroInfo struct {
	hate   atomic.Int64
	damage atomic.Int64
}

// Hate returns current hate value (atomic read).
func (a *AggroInfo) Hate() int64 {
	return a.hate.Load()
}

// AddHate adds hate value (atomic).
func (a *AggroInfo) AddHate(amount int64) {
	a.hate.Add(amount)
}

// SetHate overwrites hate value (atomic).
func (a *AggroInfo) SetHate(value int64) {
	a.hate.Store(value)
}

// Damage returns total damage dealt (atomic read).
func (a *AggroInfo) Damage() int64 {
	return a.damage.Load()
}

// AddDamage adds damage value (atomic).
func (a *AggroInfo) AddDamage(amount int64) {
	a.damage.Add(amount)
}

// AggroList is an NPC's threat map: who attacked it and how much it hates them.
// Presence in the list also makes the attacker loot-eligible.
// Thread-safe via sync.Map.
type AggroList struct {
	entries sync.Map // map[ObjectID]*AggroInfo
}

// NewAggroList creates a new empty AggroList.
func NewAggroList() *AggroList {
	return &AggroList{}
}

// Ensure creates a zero-hate entry for objectID unless one exists.
func (l *AggroList) Ensure(objectID ObjectID) *AggroInfo {
	return l.getOrCreate(objectID)
}

// AddHate adds hate for an attacker. Creates entry if not exists.
func (l *AggroList) AddHate(objectID ObjectID, hate int64) {
	l.getOrCreate(objectID).AddHate(hate)
}

// SetHate overwrites hate for an attacker. Creates entry if not exists.
func (l *AggroList) SetHate(objectID ObjectID, hate int64) {
	l.getOrCreate(objectID).SetHate(hate)
}

// AddDamage records damage from an attacker. Creates entry if not exists.
func (l *AggroList) AddDamage(objectID ObjectID, damage int64) {
	l.getOrCreate(objectID).AddDamage(damage)
}

// MaxHate returns the highest hate in the list, or 0 if the list is empty.
func (l *AggroList) MaxHate() int64 {
	var maxHate int64
	first := true
	l.entries.Range(func(_, value any) bool {
		hate := value.(*AggroInfo).Hate()
		if first || hate > maxHate {
			maxHate = hate
			first = false
		}
		return true
	})
	return maxHate
}

// GetMostHated returns objectID of the attacker with highest hate.
// Ties resolve to the lowest objectID. Returns 0 if list is empty.
func (l *AggroList) GetMostHated() ObjectID {
	var maxHate int64
	var mostHatedID ObjectID

	l.entries.Range(func(key, value any) bool {
		objectID := key.(ObjectID)
		hate := value.(*AggroInfo).Hate()

		if mostHatedID == 0 || hate > maxHate || (hate == maxHate && objectID < mostHatedID) {
			maxHate = hate
			mostHatedID = objectID
		}
		return true
	})

	return mostHatedID
}

// Get returns AggroInfo for a specific attacker.
// Returns nil if not found.
func (l *AggroList) Get(objectID ObjectID) *AggroInfo {
	value, ok := l.entries.Load(objectID)
	if !ok {
		return nil
	}
	return value.(*AggroInfo)
}

// Remove removes an attacker from the hate list.
func (l *AggroList) Remove(objectID ObjectID) {
	l.entries.Delete(objectID)
}

// Clear removes all entries from the hate list.
func (l *AggroList) Clear() {
	l.entries.Range(func(key, _ any) bool {
		l.entries.Delete(key)
		return true
	})
}

// IsEmpty returns true if hate list has no entries.
func (l *AggroList) IsEmpty() bool {
	empty := true
	l.entries.Range(func(_, _ any) bool {
		empty = false
		return false
	})
	return empty
}

// Hates returns a point-in-time copy of objectID → hate.
func (l *AggroList) Hates() map[ObjectID]int64 {
	out := make(map[ObjectID]int64)
	l.entries.Range(func(key, value any) bool {
		out[key.(ObjectID)] = value.(*AggroInfo).Hate()
		return true
	})
	return out
}

// getOrCreate returns existing AggroInfo or creates a new one.
// Fast path: Load() first to avoid allocating &AggroInfo{} on every call.
func (l *AggroList) getOrCreate(objectID ObjectID) *AggroInfo {
	if v, ok := l.entries.Load(objectID); ok {
		return v.(*AggroInfo)
	}
	v, _ := l.entries.LoadOrStore(objectID, &AggroInfo{})
	return v.(*AggroInfo)
}

// CalcHateValue converts damage into hate for an NPC of the given level.
// Formula: (damage * 100) / (npcLevel + 7)
func CalcHateValue(damage int32, npcLevel int32) int64 {
	if npcLevel < 1 {
		npcLevel = 1
	}
	return (int64(damage) * 100) / int64(npcLevel+7)
}
