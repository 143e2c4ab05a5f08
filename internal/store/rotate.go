package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tierstore/tierstore/internal/model"
)

// Rotate runs an explicit rotation pass over the bank.
func (s *SQLiteStore) Rotate(ctx context.Context, bank string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.rotateLocked(ctx, tx, bank); err != nil {
		return err
	}
	return tx.Commit()
}

// rotateLocked enforces tier thresholds strictly hot→warm→cold→archive,
// moving the oldest excess records of each tier one tier down. A threshold
// of 0 disables rotation out of that tier. Pinned records never leave the
// hot tier. Rotation relocates records; it never deletes.
func (s *SQLiteStore) rotateLocked(ctx context.Context, tx *sql.Tx, bank string) error {
	thr := s.cfg.ThresholdsFor(bank)
	steps := []struct {
		from, to string
		limit    int
	}{
		{model.TierHot, model.TierWarm, thr.Hot},
		{model.TierWarm, model.TierCold, thr.Warm},
		{model.TierCold, model.TierArchive, thr.Cold},
	}

	for _, step := range steps {
		if step.limit <= 0 {
			continue
		}
		count, err := tierCount(ctx, tx, bank, step.from)
		if err != nil {
			return err
		}
		excess := count - step.limit
		if excess <= 0 {
			continue
		}
		if err := moveOldest(ctx, tx, bank, step.from, step.to, excess); err != nil {
			return fmt.Errorf("move %s to %s: %w", step.from, step.to, err)
		}
	}
	return nil
}

// moveOldest relocates up to n of the oldest records (by arrival order
// within the source tier) to the destination tier, preserving their
// relative order at the destination's tail.
func moveOldest(ctx context.Context, tx *sql.Tx, bank, from, to string, n int) error {
	query := `SELECT id FROM records WHERE bank = ? AND tier = ?`
	if from == model.TierHot {
		query += ` AND semantic_tier != 'pinned'`
	}
	query += ` ORDER BY pos ASC LIMIT ?`

	rows, err := tx.QueryContext(ctx, query, bank, from, n)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	pos, err := nextPos(ctx, tx, bank, to)
	if err != nil {
		return err
	}
	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			`UPDATE records SET tier = ?, pos = ? WHERE bank = ? AND id = ?`,
			to, pos, bank, id)
		if err != nil {
			return err
		}
		pos++
	}
	return nil
}

func tierCount(ctx context.Context, tx *sql.Tx, bank, tier string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE bank = ? AND tier = ?`, bank, tier).Scan(&n)
	return n, err
}
