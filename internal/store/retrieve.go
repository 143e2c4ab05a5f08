package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tierstore/tierstore/internal/model"
	"github.com/tierstore/tierstore/internal/rank"
	"github.com/tierstore/tierstore/internal/token"
)

const defaultRetrieveLimit = 20

// Retrieve finds records matching the query and returns them ranked.
//
// Two-phase search: the token index produces a candidate set (union over
// query tokens), which is then refined to records whose content contains
// every token. When the index yields nothing usable the search falls back
// to a full substring scan across tiers, oldest-authoritative first, so
// partially-indexed data is never unsearchable. Returned records get their
// use count bumped.
func (s *SQLiteStore) Retrieve(ctx context.Context, p RetrieveParams) ([]model.Record, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultRetrieveLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(p.Query))
	tokens := token.Unique(query)

	var results []model.Record
	if len(tokens) == 0 {
		// No query: return everything in the bank.
		all, err := s.scanTiers(ctx, p.Bank, "")
		if err != nil {
			return nil, err
		}
		results = all
	} else {
		matched, err := s.indexLookup(ctx, p.Bank, tokens)
		if err != nil {
			return nil, err
		}
		if matched == nil {
			// Empty or inconsistent index: degrade to a linear scan.
			scanned, err := s.scanTiers(ctx, p.Bank, query)
			if err != nil {
				return nil, err
			}
			results = scanned
		} else {
			results = matched
		}
	}

	rank.Sort(results, s.seq.Current())
	if len(results) > limit {
		results = results[:limit]
	}

	s.bumpUseCounts(ctx, p.Bank, results)
	return results, nil
}

// indexLookup resolves query tokens through the inverted index and applies
// the conjunctive refinement. A nil return (no error) means the index had
// nothing usable and the caller should fall back to a scan.
func (s *SQLiteStore) indexLookup(ctx context.Context, bank string, tokens []string) ([]model.Record, error) {
	placeholders := strings.Repeat("?,", len(tokens))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(tokens)+1)
	args = append(args, bank)
	for _, t := range tokens {
		args = append(args, t)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT record_id FROM tokens WHERE bank = ? AND token IN (`+placeholders+`)`,
		args...)
	if err != nil {
		slog.Warn("token index lookup failed", "bank", bank, "err", err)
		return nil, nil
	}
	var candidates []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		candidates = append(candidates, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	records, err := s.recordsByID(ctx, bank, candidates)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 && len(candidates) > 0 {
		// Index references ids absent from every tier. Self-healing:
		// ignore the index and let the caller scan.
		slog.Warn("token index inconsistent, falling back to scan",
			"bank", bank, "dangling", len(candidates))
		return nil, nil
	}

	// Conjunctive refinement: every query token must appear in the
	// content, not just any of them.
	var matched []model.Record
	for _, r := range records {
		content := strings.ToLower(r.Content)
		all := true
		for _, tok := range tokens {
			if !strings.Contains(content, tok) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// scanTiers walks every record of the bank, oldest-authoritative tiers
// first (archive up to hot), keeping records whose content contains query
// as a substring. An empty query keeps everything.
func (s *SQLiteStore) scanTiers(ctx context.Context, bank, query string) ([]model.Record, error) {
	var results []model.Record
	for i := len(model.PhysicalTiers) - 1; i >= 0; i-- {
		tier := model.PhysicalTiers[i]
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+recordColumns+` FROM records
			 WHERE bank = ? AND tier = ? ORDER BY pos ASC`, bank, tier)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			r, err := scanRecord(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			if query == "" || strings.Contains(strings.ToLower(r.Content), query) {
				results = append(results, r)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *SQLiteStore) recordsByID(ctx context.Context, bank string, ids []string) ([]model.Record, error) {
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, bank)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE bank = ? AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("records by id: %w", err)
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

// bumpUseCounts increments the use counter of retrieved records.
// Best-effort, like the index: a failure here never fails the read.
func (s *SQLiteStore) bumpUseCounts(ctx context.Context, bank string, records []model.Record) {
	for _, r := range records {
		_, err := s.db.ExecContext(ctx,
			`UPDATE records SET use_count = use_count + 1 WHERE bank = ? AND id = ?`,
			bank, r.ID)
		if err != nil {
			slog.Warn("use count update failed", "bank", bank, "id", r.ID, "err", err)
			return
		}
	}
}
