package store

import (
	"context"
	"fmt"

	"github.com/tierstore/tierstore/internal/token"
)

// indexRecord adds a record's tokens to the bank's inverted index.
func (s *SQLiteStore) indexRecord(ctx context.Context, bank, id, content string) error {
	for _, tok := range token.Unique(content) {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO tokens (bank, token, record_id) VALUES (?, ?, ?)`,
			bank, tok, id)
		if err != nil {
			return fmt.Errorf("index token %q: %w", tok, err)
		}
	}
	return nil
}

// RebuildIndex recomputes the bank's token index from scratch by scanning
// every tier. Idempotent; returns the number of records indexed.
func (s *SQLiteStore) RebuildIndex(ctx context.Context, bank string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE bank = ?`, bank); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, content FROM records WHERE bank = ?`, bank)
	if err != nil {
		return 0, err
	}

	type rec struct{ id, content string }
	var recs []rec
	for rows.Next() {
		var r rec
		if err := rows.Scan(&r.id, &r.content); err != nil {
			rows.Close()
			return 0, err
		}
		recs = append(recs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, r := range recs {
		for _, tok := range token.Unique(r.content) {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO tokens (bank, token, record_id) VALUES (?, ?, ?)`,
				bank, tok, r.id)
			if err != nil {
				return 0, fmt.Errorf("index record %s: %w", r.id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(recs), nil
}
