package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tierstore/tierstore/internal/classify"
	"github.com/tierstore/tierstore/internal/config"
	"github.com/tierstore/tierstore/internal/fingerprint"
	"github.com/tierstore/tierstore/internal/model"
	"github.com/tierstore/tierstore/internal/seq"
)

// SQLiteStore implements Store using SQLite. A single mutex keeps every
// write plus its index update and rotation atomic with respect to
// concurrent reads; the store is single-writer by design.
type SQLiteStore struct {
	db  *sql.DB
	cfg config.Config
	seq *seq.Counter
	mu  sync.Mutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at cfg.DBPath. The
// sequence counter resumes from the highest persisted seq id so recency
// stays monotonic across restarts.
func NewSQLiteStore(cfg config.Config) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, cfg: cfg}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var maxSeq int64
	if err := db.QueryRow(`SELECT COALESCE(MAX(seq_id), 0) FROM records`).Scan(&maxSeq); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	s.seq = seq.NewAt(maxSeq)

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		bank          TEXT NOT NULL,
		id            TEXT NOT NULL,
		content       TEXT NOT NULL,
		confidence    REAL NOT NULL DEFAULT 0,
		verification_level TEXT NOT NULL DEFAULT '',
		source        TEXT NOT NULL DEFAULT '',
		validated_by  TEXT NOT NULL DEFAULT '',
		meta          TEXT NOT NULL DEFAULT '',
		tier          TEXT NOT NULL,
		pos           INTEGER NOT NULL,
		semantic_tier TEXT NOT NULL DEFAULT 'mid',
		importance    REAL NOT NULL DEFAULT 0,
		use_count     INTEGER NOT NULL DEFAULT 0,
		seq_id        INTEGER NOT NULL,
		PRIMARY KEY (bank, id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_seq ON records(seq_id);
	CREATE INDEX IF NOT EXISTS idx_records_bank_tier_pos ON records(bank, tier, pos);

	CREATE TABLE IF NOT EXISTS tokens (
		bank      TEXT NOT NULL,
		token     TEXT NOT NULL,
		record_id TEXT NOT NULL,
		PRIMARY KEY (bank, token, record_id)
	);
	CREATE INDEX IF NOT EXISTS idx_tokens_bank_record ON tokens(bank, record_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Store writes a fact into the bank's hot tier. A fact whose fingerprint
// already exists anywhere in the bank is a no-op returning the existing id
// with Duplicate set. The token index update is best-effort and runs after
// the write commits.
func (s *SQLiteStore) Store(ctx context.Context, p StoreParams) (*StoreResult, error) {
	content := strings.TrimSpace(p.Fact.Content)
	if content == "" {
		return nil, ErrInvalidFact
	}

	semTier := model.SemanticMid
	importance := clamp01(p.Fact.Confidence)
	if p.Context != nil {
		asg := classify.Assign(p.Fact, *p.Context)
		if !asg.Store() {
			return &StoreResult{Skipped: true}, nil
		}
		semTier = asg.Tier
		importance = asg.Importance
	}

	id := p.Fact.ID
	if id == "" {
		id = fingerprint.Content(content)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM records WHERE bank = ? AND id = ?`, p.Bank, id).Scan(&exists)
	if err == nil {
		return &StoreResult{StoredID: id, Duplicate: true}, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("dedup check: %w", err)
	}

	seqID := s.seq.Next()
	pos, err := nextPos(ctx, tx, p.Bank, model.TierHot)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (bank, id, content, confidence, verification_level,
		                      source, validated_by, meta, tier, pos,
		                      semantic_tier, importance, use_count, seq_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		p.Bank, id, content, clamp01(p.Fact.Confidence), p.Fact.VerificationLevel,
		p.Fact.Source, p.Fact.ValidatedBy, p.Fact.Meta, model.TierHot, pos,
		semTier, importance, seqID)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	if err := s.rotateLocked(ctx, tx, p.Bank); err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// The index is an acceleration structure, not a source of truth:
	// a failed update degrades retrieval to a scan but never blocks the
	// committed write.
	if err := s.indexRecord(ctx, p.Bank, id, content); err != nil {
		slog.Warn("token index update failed",
			"bank", p.Bank, "id", id, "err", err)
	}

	return &StoreResult{StoredID: id, Duplicate: false}, nil
}

// Count returns per-tier record counts. Every physical tier is present in
// the result, zero when empty; an unknown bank yields all zeros.
func (s *SQLiteStore) Count(ctx context.Context, bank string) (map[string]int, error) {
	counts := make(map[string]int, len(model.PhysicalTiers))
	for _, t := range model.PhysicalTiers {
		counts[t] = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tier, COUNT(*) FROM records WHERE bank = ? GROUP BY tier`, bank)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, err
		}
		counts[tier] = n
	}
	return counts, rows.Err()
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nextPos returns the next arrival position within a bank's tier.
func nextPos(ctx context.Context, tx *sql.Tx, bank, tier string) (int64, error) {
	var pos int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(pos), 0) + 1 FROM records WHERE bank = ? AND tier = ?`,
		bank, tier).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("next pos: %w", err)
	}
	return pos, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const recordColumns = `bank, id, content, confidence, verification_level,
	source, validated_by, meta, tier, semantic_tier, importance, use_count, seq_id`

func scanRecord(row scanner) (model.Record, error) {
	var r model.Record
	err := row.Scan(
		&r.Bank, &r.ID, &r.Content, &r.Confidence, &r.VerificationLevel,
		&r.Source, &r.ValidatedBy, &r.Meta, &r.Tier, &r.SemanticTier,
		&r.Importance, &r.UseCount, &r.SeqID,
	)
	return r, err
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
