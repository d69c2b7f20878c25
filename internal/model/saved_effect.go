package model

// SavedBuff хранит бафф, сохранённый при выходе персонажа из игры.
// RemainingMs is relative so the buff survives clock restarts.
type SavedBuff struct {
	Attribute   Attribute
	Spell       SpellID
	Flat        int32
	Percent     int32
	RemainingMs int64
}

// SavedStatus хранит статус, сохранённый при выходе персонажа из игры.
type SavedStatus struct {
	Spell       SpellID
	Kind        StatusKind
	Attacker    ObjectID
	Polarity    Polarity
	RemainingMs int64
	Shield      [VitalCount]int64
}

// SavedEffects is everything persisted for one character.
type SavedEffects struct {
	Buffs    []SavedBuff
	Statuses []SavedStatus
}

// IsEmpty returns true when nothing needs to be stored.
func (s SavedEffects) IsEmpty() bool {
	return len(s.Buffs) == 0 && len(s.Statuses) == 0
}
