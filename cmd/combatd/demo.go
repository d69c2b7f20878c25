package main

import (
	"context"
	"log/slog"

	"github.com/udisondev/la2go-combat/internal/clock"
	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/game/combat"
	"github.com/udisondev/la2go-combat/internal/model"
)

const (
	demoPlayer model.ObjectID = 1
	demoNpc    model.ObjectID = 1000
)

// demoSpells are cast at startup when COMBAT_DEMO is set:
// the player shields and buffs itself, then poisons and taunts the NPC.
var demoSpells = []struct {
	caster, target model.ObjectID
	spell          model.SpellID
}{
	{demoPlayer, demoPlayer, 1001},
	{demoPlayer, demoPlayer, 1300},
	{demoPlayer, demoNpc, 1500},
	{demoPlayer, demoNpc, 1200},
}

// seedDemo registers one player and one NPC and lands a few spells so the
// tick loop has something to resolve.
func seedDemo(ctx context.Context, registry *combat.Registry, spells *data.SpellTable, clk clock.Clock, store *effectStore) error {
	player, err := registry.Add(model.NewEntity(demoPlayer, "Demo", model.KindPlayer, 20, 800, 300))
	if err != nil {
		return err
	}
	player.Stat(model.AttrIntelligence).SetBase(30)
	player.Stat(model.AttrTenacity).SetBase(10)

	if _, err := registry.Add(model.NewEntity(demoNpc, "Training Dummy", model.KindNpc, 15, 5000, 0)); err != nil {
		return err
	}

	now := clk.Now()
	if store != nil {
		if err := store.restore(ctx, player, now); err != nil {
			return err
		}
	}

	for _, c := range demoSpells {
		spell, err := spells.Lookup(c.spell)
		if err != nil {
			slog.Warn("demo spell missing", "spell", c.spell, "err", err)
			continue
		}
		target, ok := registry.State(c.target)
		if !ok {
			continue
		}
		applied := target.ApplySpell(c.caster, spell, now)
		slog.Info("demo spell landed",
			"spell", spell.Name,
			"caster", c.caster,
			"target", c.target,
			"buffs", applied.Buffs,
			"status", applied.Status,
			"dot", applied.DoT)
	}
	return nil
}
