package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/la2go-combat/internal/db"
	"github.com/udisondev/la2go-combat/internal/game/combat"
	"github.com/udisondev/la2go-combat/internal/model"
)

// effectStore persists player effects across logout.
type effectStore struct {
	repo *db.EffectRepository
}

// restore loads saved effects of a player into st.
func (s *effectStore) restore(ctx context.Context, st *combat.State, now model.Timestamp) error {
	saved, err := s.repo.Load(ctx, int64(st.ID()))
	if err != nil {
		return fmt.Errorf("loading effects of %d: %w", st.ID(), err)
	}
	if saved.IsEmpty() {
		return nil
	}
	st.Restore(now, saved)
	return nil
}

// saveAll stores the effects of every registered player.
func (s *effectStore) saveAll(ctx context.Context, registry *combat.Registry, now model.Timestamp) error {
	var errs []error
	saved := 0
	registry.Range(func(st *combat.State) bool {
		if !st.Entity().IsPlayer() {
			return true
		}
		if err := s.repo.Save(ctx, int64(st.ID()), st.Save(now)); err != nil {
			errs = append(errs, err)
			return true
		}
		saved++
		return true
	})

	slog.Info("player effects saved", "players", saved, "failed", len(errs))
	return errors.Join(errs...)
}
