package combat

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/udisondev/la2go-combat/internal/model"
)

// VitalResolver is a minimal AttackResolver: it scales the spell deltas by
// the attacker's stat, rolls a crit, runs damage through shields and
// applies the rest to the target's vitals. Heals restore vitals.
//
// Mitigation by damage type is left to richer resolvers.
type VitalResolver struct {
	states Resolver
	roll   func() float64
}

// NewVitalResolver creates a resolver. roll returns [0,1); nil uses math/rand/v2.
func NewVitalResolver(states Resolver, roll func() float64) *VitalResolver {
	if roll == nil {
		roll = rand.Float64
	}
	return &VitalResolver{states: states, roll: roll}
}

// ApplyDamage implements AttackResolver.
func (r *VitalResolver) ApplyDamage(req AttackRequest) {
	target, ok := r.states.State(req.Target)
	if !ok {
		slog.Warn("attack on unknown target", "target", req.Target, "spell", req.Spell)
		return
	}
	e := target.Entity()
	if e.IsDead() {
		return
	}

	var scaling int32
	if attacker, ok := r.states.State(req.Attacker); ok {
		scaling = attacker.Value(req.ScalingStat)
	}
	bonus := int64(req.ScalingPct) * int64(scaling) / 100

	crit := req.CritChance > 0 && r.roll() < req.CritChance

	for v, diff := range req.VitalDiffs {
		if diff == 0 {
			continue
		}
		vital := model.Vital(v)

		amount := abs64(int64(diff)) + bonus
		if crit && req.CritMultiplier > 0 {
			amount = int64(float64(amount) * req.CritMultiplier)
		}
		amount = min(max(amount, 0), math.MaxInt32)

		if diff > 0 {
			e.RestoreVital(vital, int32(amount))
			continue
		}

		if target.IsInvulnerable() {
			continue
		}
		pierced := target.DamageShield(vital, amount)
		applied := e.ReduceVital(vital, int32(pierced))

		if aggro := e.AggroList(); aggro != nil && vital == model.VitalHP && applied > 0 && req.Attacker != 0 {
			aggro.AddDamage(req.Attacker, int64(applied))
			aggro.AddHate(req.Attacker, model.CalcHateValue(applied, e.Level()))
		}
	}

	animations := req.OnAliveAnimations
	if e.IsDead() {
		animations = req.OnDeathAnimations
	}
	slog.Debug("attack resolved",
		"attacker", req.Attacker,
		"target", req.Target,
		"spell", req.Spell,
		"periodic", req.Periodic,
		"crit", crit,
		"animations", animations)
}
