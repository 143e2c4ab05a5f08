package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tierstore/tierstore/internal/fingerprint"
	"github.com/tierstore/tierstore/internal/model"
)

// ExportAll returns every record, optionally filtered by bank, in seq
// order. The output round-trips through Import.
func (s *SQLiteStore) ExportAll(ctx context.Context, bank string) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []interface{}
	if bank != "" {
		query += ` WHERE bank = ?`
		args = append(args, bank)
	}
	query += ` ORDER BY seq_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Import inserts exported records, preserving their tier placement,
// semantic tier, importance, and use count. Duplicates (same bank and id)
// are skipped; fresh seq ids keep the global counter monotonic. Blank
// content is tolerated here — Compact cleans it up later. Returns the
// number of records imported.
func (s *SQLiteStore) Import(ctx context.Context, records []model.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, r := range records {
		tier := r.Tier
		if !validTier(tier) {
			tier = model.TierHot
		}
		if r.ID == "" {
			r.ID = fingerprint.Content(r.Content)
		}
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM records WHERE bank = ? AND id = ?`, r.Bank, r.ID).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return imported, fmt.Errorf("dedup check: %w", err)
		}

		pos, err := nextPos(ctx, tx, r.Bank, tier)
		if err != nil {
			return imported, err
		}
		semTier := r.SemanticTier
		if semTier == "" {
			semTier = model.SemanticMid
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (bank, id, content, confidence, verification_level,
			                      source, validated_by, meta, tier, pos,
			                      semantic_tier, importance, use_count, seq_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Bank, r.ID, r.Content, clamp01(r.Confidence), r.VerificationLevel,
			r.Source, r.ValidatedBy, r.Meta, tier, pos,
			semTier, clamp01(r.Importance), r.UseCount, s.seq.Next())
		if err != nil {
			return imported, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return imported, err
	}

	// Index the imported records outside the transaction, best-effort.
	for _, r := range records {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		if r.ID == "" {
			r.ID = fingerprint.Content(r.Content)
		}
		if err := s.indexRecord(ctx, r.Bank, r.ID, r.Content); err != nil {
			slog.Warn("token index update failed", "bank", r.Bank, "id", r.ID, "err", err)
		}
	}

	return imported, nil
}
