package model

import "fmt"

// ObjectID is the unique id of an entity in the world.
// Zero is reserved for "no entity".
type ObjectID uint32

// SpellID identifies a spell template.
type SpellID int32

// Timestamp is game clock time in milliseconds.
type Timestamp int64

// EntityKind distinguishes player-like from NPC-like entities.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindNpc
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindNpc:
		return "npc"
	default:
		return fmt.Sprintf("EntityKind(%d)", k)
	}
}

// Polarity is whether a spell or effect is beneficial or harmful.
type Polarity uint8

const (
	Friendly Polarity = iota
	Unfriendly
)

// Opposes reports whether two polarities differ.
func (p Polarity) Opposes(other Polarity) bool {
	return p != other
}

func (p Polarity) String() string {
	switch p {
	case Friendly:
		return "friendly"
	case Unfriendly:
		return "unfriendly"
	default:
		return fmt.Sprintf("Polarity(%d)", p)
	}
}

// ParsePolarity parses "friendly" / "unfriendly".
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "friendly":
		return Friendly, nil
	case "unfriendly":
		return Unfriendly, nil
	default:
		return 0, fmt.Errorf("unknown polarity %q", s)
	}
}
