package store

import (
	"context"
	"fmt"

	"github.com/tierstore/tierstore/internal/model"
)

// Compact rewrites a tier's record log removing blank entries. Order and
// content of the remaining records are untouched; a non-blank record is
// never dropped. The rewrite is all-or-nothing per tier: on failure the
// tier is left exactly as it was. Returns the number of records retained.
//
// Blank records cannot enter through Store (it rejects them) but can
// arrive via Import of hand-edited or damaged export files.
func (s *SQLiteStore) Compact(ctx context.Context, bank, tier string) (int, error) {
	if tier == "" {
		tier = model.TierArchive
	}
	if !validTier(tier) {
		return 0, fmt.Errorf("%w: unknown tier %q", ErrCompactFailed, tier)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompactFailed, err)
	}
	defer tx.Rollback()

	// Drop index entries of the blanks first so nothing dangles.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM tokens WHERE bank = ? AND record_id IN (
			SELECT id FROM records WHERE bank = ? AND tier = ? AND TRIM(content) = ''
		)`, bank, bank, tier)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompactFailed, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM records WHERE bank = ? AND tier = ? AND TRIM(content) = ''`,
		bank, tier)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompactFailed, err)
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE bank = ? AND tier = ?`,
		bank, tier).Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompactFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompactFailed, err)
	}
	return remaining, nil
}

func validTier(tier string) bool {
	for _, t := range model.PhysicalTiers {
		if t == tier {
			return true
		}
	}
	return false
}
