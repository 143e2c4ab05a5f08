// Package store provides the tiered record bank interface and its SQLite
// implementation.
//
// Each bank keeps its records in four capacity-bounded physical tiers
// (hot, warm, cold, archive). Writes land in the hot tier and overflow
// rotates downward one tier per pass; archive is terminal. Records are
// deduplicated by content fingerprint across all tiers of a bank, and a
// token inverted index accelerates retrieval. The index is best-effort
// only: retrieval always falls back to a full scan when it is empty or
// inconsistent.
package store

import (
	"context"
	"errors"

	"github.com/tierstore/tierstore/internal/model"
)

// ErrInvalidFact is returned by Store when the fact has empty content.
var ErrInvalidFact = errors.New("invalid fact: content is required")

// ErrCompactFailed wraps failures during tier compaction. The tier is left
// untouched when compaction fails.
var ErrCompactFailed = errors.New("compact failed")

// StoreParams holds parameters for storing a fact.
type StoreParams struct {
	Bank string
	Fact model.Fact
	// Context, when present, routes the fact through the tier classifier.
	// A discard classification skips the write entirely.
	Context *model.Context
}

// StoreResult reports the outcome of a store operation.
type StoreResult struct {
	StoredID  string `json:"stored_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
	// Skipped is true when the classifier rejected the fact.
	Skipped bool `json:"skipped,omitempty"`
}

// RetrieveParams holds parameters for retrieving records.
type RetrieveParams struct {
	Bank  string
	Query string
	Limit int // 0 means default
}

// Store defines the per-bank record operations. Unknown banks are created
// lazily by every operation; a bank is a logical namespace, not a
// provisioned resource.
type Store interface {
	// Store writes a fact to the bank's hot tier, deduplicating by
	// content fingerprint across all tiers. Triggers rotation.
	Store(ctx context.Context, p StoreParams) (*StoreResult, error)

	// Retrieve returns records matching the query, ranked. An empty
	// query returns all records.
	Retrieve(ctx context.Context, p RetrieveParams) ([]model.Record, error)

	// RebuildIndex recomputes the bank's token index from scratch.
	// Returns the number of records indexed.
	RebuildIndex(ctx context.Context, bank string) (int, error)

	// Compact rewrites a tier's log dropping blank records only. An
	// empty tier name compacts the archive tier. Returns the number of
	// records retained.
	Compact(ctx context.Context, bank, tier string) (int, error)

	// Count returns per-tier record counts for the bank.
	Count(ctx context.Context, bank string) (map[string]int, error)

	// Rotate runs an explicit rotation pass over the bank.
	Rotate(ctx context.Context, bank string) error

	// Close closes the store.
	Close() error
}
