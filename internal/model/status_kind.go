package model

import "fmt"

// StatusKind tags a timed status effect.
type StatusKind uint8

const (
	StatusSilence StatusKind = iota + 1
	StatusSleep
	StatusStun
	StatusShield
	StatusTaunt
	StatusCleanse
	StatusStealth
	StatusInvulnerable
	StatusOnHit
	StatusTransform
	StatusRoot
)

var statusKindNames = map[StatusKind]string{
	StatusSilence:      "silence",
	StatusSleep:        "sleep",
	StatusStun:         "stun",
	StatusShield:       "shield",
	StatusTaunt:        "taunt",
	StatusCleanse:      "cleanse",
	StatusStealth:      "stealth",
	StatusInvulnerable: "invulnerable",
	StatusOnHit:        "on_hit",
	StatusTransform:    "transform",
	StatusRoot:         "root",
}

func (k StatusKind) String() string {
	if name, ok := statusKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StatusKind(%d)", k)
}

// Interrupts reports whether applying this kind cancels an in-progress cast.
func (k StatusKind) Interrupts() bool {
	switch k {
	case StatusSilence, StatusSleep, StatusStun:
		return true
	default:
		return false
	}
}

// ParseStatusKind resolves a kind by its snake_case name.
func ParseStatusKind(s string) (StatusKind, error) {
	for k, name := range statusKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown status kind %q", s)
}
