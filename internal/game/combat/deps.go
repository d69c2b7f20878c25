package combat

import (
	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/game/stat"
	"github.com/udisondev/la2go-combat/internal/model"
)

// Resolver looks up the combat state of an entity by id.
// Effects hold ids, never pointers to other entities.
type Resolver interface {
	State(id model.ObjectID) (*State, bool)
}

// AttackRequest is one damage/heal application, produced by DoT ticks.
type AttackRequest struct {
	Attacker          model.ObjectID
	Target            model.ObjectID
	Spell             model.SpellID
	VitalDiffs        [model.VitalCount]int32
	DamageType        data.DamageType
	ScalingStat       model.Attribute
	ScalingPct        int32
	CritChance        float64
	CritMultiplier    float64
	OnDeathAnimations []string
	OnAliveAnimations []string
	Periodic          bool
}

// AttackResolver applies damage and heals.
// It is always invoked with no State lock held, so it may call back into
// DamageShield or the read surface of any State.
type AttackResolver interface {
	ApplyDamage(req AttackRequest)
}

// Notifier forwards client-visible changes to the network layer.
// Calls are fire-and-forget: they must not block and must not call back
// into the engine, since they run under the target's State lock.
type Notifier interface {
	NotifyCastCancelled(entity model.ObjectID)
	NotifyTargetChanged(entity, target model.ObjectID)
}

// SpellSource resolves spell templates (restoring persisted statuses).
type SpellSource interface {
	Get(id model.SpellID) *data.SpellTemplate
}

// TenacityRules controls how a player's tenacity shortens incoming statuses.
type TenacityRules struct {
	// Exempt kinds keep their full duration.
	Exempt map[model.StatusKind]bool
	// MaxPercent caps the reduction, 0..100.
	MaxPercent int32
}

// DefaultTenacityRules exempts every beneficial status kind and allows
// tenacity to remove up to 100% of a duration.
func DefaultTenacityRules() TenacityRules {
	return TenacityRules{
		Exempt: map[model.StatusKind]bool{
			model.StatusShield:       true,
			model.StatusCleanse:      true,
			model.StatusStealth:      true,
			model.StatusInvulnerable: true,
			model.StatusOnHit:        true,
			model.StatusTransform:    true,
		},
		MaxPercent: 100,
	}
}

// Scale shortens durationMs by tenacity percent: d * (1 - t/100).
func (r TenacityRules) Scale(kind model.StatusKind, durationMs int64, tenacity int32) int64 {
	if r.Exempt[kind] {
		return durationMs
	}
	t := min(max(tenacity, 0), min(max(r.MaxPercent, 0), 100))
	return durationMs * int64(100-t) / 100
}

// Deps are the collaborators shared by every State of a Registry.
// Nil fields fall back to no-ops.
type Deps struct {
	Attacks  AttackResolver
	Notifier Notifier
	Items    stat.ItemStatProvider
	Spells   SpellSource
	Tenacity TenacityRules

	resolver Resolver // set by the owning Registry
}

type nopNotifier struct{}

func (nopNotifier) NotifyCastCancelled(model.ObjectID) {}
func (nopNotifier) NotifyTargetChanged(model.ObjectID, model.ObjectID) {}

type nopAttacks struct{}

func (nopAttacks) ApplyDamage(AttackRequest) {}

type noSpells struct{}

func (noSpells) Get(model.SpellID) *data.SpellTemplate { return nil }

func (d Deps) withDefaults() Deps {
	if d.Attacks == nil {
		d.Attacks = nopAttacks{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Spells == nil {
		d.Spells = noSpells{}
	}
	if d.Tenacity.Exempt == nil {
		d.Tenacity = DefaultTenacityRules()
	}
	return d
}
