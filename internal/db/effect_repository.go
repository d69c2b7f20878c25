package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/la2go-combat/internal/model"
)

// EffectRepository manages character_buffs and character_statuses tables.
// Effects are stored with their remaining duration, so a restore is relative
// to the engine clock at login.
type EffectRepository struct {
	db *pgxpool.Pool
}

// NewEffectRepository creates a new EffectRepository.
func NewEffectRepository(db *pgxpool.Pool) *EffectRepository {
	return &EffectRepository{db: db}
}

// Load loads every saved effect of a character.
func (r *EffectRepository) Load(ctx context.Context, charID int64) (model.SavedEffects, error) {
	var out model.SavedEffects

	buffs, err := r.loadBuffs(ctx, charID)
	if err != nil {
		return out, err
	}
	statuses, err := r.loadStatuses(ctx, charID)
	if err != nil {
		return out, err
	}

	out.Buffs = buffs
	out.Statuses = statuses
	return out, nil
}

func (r *EffectRepository) loadBuffs(ctx context.Context, charID int64) ([]model.SavedBuff, error) {
	query := `
		SELECT attribute, spell_id, flat, percent, remaining_ms
		FROM character_buffs
		WHERE character_id = $1
		ORDER BY attribute, spell_id
	`

	rows, err := r.db.Query(ctx, query, charID)
	if err != nil {
		return nil, fmt.Errorf("querying buffs for character %d: %w", charID, err)
	}
	defer rows.Close()

	var buffs []model.SavedBuff
	for rows.Next() {
		var (
			b    model.SavedBuff
			attr int16
		)
		if err := rows.Scan(&attr, &b.Spell, &b.Flat, &b.Percent, &b.RemainingMs); err != nil {
			return nil, fmt.Errorf("scanning buff row: %w", err)
		}
		b.Attribute = model.Attribute(attr)
		buffs = append(buffs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating buff rows: %w", err)
	}
	return buffs, nil
}

func (r *EffectRepository) loadStatuses(ctx context.Context, charID int64) ([]model.SavedStatus, error) {
	query := `
		SELECT spell_id, kind, attacker_id, polarity, remaining_ms, shield_hp, shield_mp
		FROM character_statuses
		WHERE character_id = $1
		ORDER BY spell_id
	`

	rows, err := r.db.Query(ctx, query, charID)
	if err != nil {
		return nil, fmt.Errorf("querying statuses for character %d: %w", charID, err)
	}
	defer rows.Close()

	var statuses []model.SavedStatus
	for rows.Next() {
		var (
			s              model.SavedStatus
			kind, polarity int16
			attacker       int64
		)
		if err := rows.Scan(&s.Spell, &kind, &attacker, &polarity, &s.RemainingMs,
			&s.Shield[model.VitalHP], &s.Shield[model.VitalMP]); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		s.Kind = model.StatusKind(kind)
		s.Polarity = model.Polarity(polarity)
		s.Attacker = model.ObjectID(attacker)
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status rows: %w", err)
	}
	return statuses, nil
}

// SaveTx replaces the saved effects of a character within an existing transaction.
func (r *EffectRepository) SaveTx(ctx context.Context, tx pgx.Tx, charID int64, effects model.SavedEffects) error {
	if err := r.deleteTx(ctx, tx, charID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, b := range effects.Buffs {
		batch.Queue(
			`INSERT INTO character_buffs (character_id, attribute, spell_id, flat, percent, remaining_ms)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			charID, int16(b.Attribute), b.Spell, b.Flat, b.Percent, b.RemainingMs,
		)
	}
	for _, s := range effects.Statuses {
		batch.Queue(
			`INSERT INTO character_statuses
			 (character_id, spell_id, kind, attacker_id, polarity, remaining_ms, shield_hp, shield_mp)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			charID, s.Spell, int16(s.Kind), int64(s.Attacker), int16(s.Polarity), s.RemainingMs,
			s.Shield[model.VitalHP], s.Shield[model.VitalMP],
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting effects for character %d: %w", charID, err)
	}
	return nil
}

// Save replaces the saved effects of a character using a standalone transaction.
func (r *EffectRepository) Save(ctx context.Context, charID int64, effects model.SavedEffects) error {
	return r.inTx(ctx, charID, func(tx pgx.Tx) error {
		return r.SaveTx(ctx, tx, charID, effects)
	})
}

// Delete removes every saved effect of a character.
func (r *EffectRepository) Delete(ctx context.Context, charID int64) error {
	return r.inTx(ctx, charID, func(tx pgx.Tx) error {
		return r.deleteTx(ctx, tx, charID)
	})
}

func (r *EffectRepository) deleteTx(ctx context.Context, tx pgx.Tx, charID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_buffs WHERE character_id = $1`, charID); err != nil {
		return fmt.Errorf("deleting buffs for character %d: %w", charID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM character_statuses WHERE character_id = $1`, charID); err != nil {
		return fmt.Errorf("deleting statuses for character %d: %w", charID, err)
	}
	return nil
}

func (r *EffectRepository) inTx(ctx context.Context, charID int64, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("effects rollback failed", "characterID", charID, "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing effects for character %d: %w", charID, err)
	}
	return nil
}
