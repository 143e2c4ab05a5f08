package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/tierstore/tierstore/internal/config"
	"github.com/tierstore/tierstore/internal/model"
)

func newRotationStore(t *testing.T, thr config.Thresholds) *SQLiteStore {
	t.Helper()
	cfg := testConfig(t)
	cfg.Rotation = thr
	s, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func totalCount(t *testing.T, s *SQLiteStore, bank string) int {
	t.Helper()
	counts, err := s.Count(context.Background(), bank)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func TestRotationEnforcesThresholds(t *testing.T) {
	ctx := context.Background()
	s := newRotationStore(t, config.Thresholds{Hot: 3, Warm: 2, Cold: 2})

	for i := 0; i < 10; i++ {
		mustStore(t, s, "b", fmt.Sprintf("record number %d", i))
	}

	counts, _ := s.Count(ctx, "b")
	if counts[model.TierHot] > 3 {
		t.Errorf("hot count %d exceeds threshold 3", counts[model.TierHot])
	}
	if counts[model.TierWarm] > 2 {
		t.Errorf("warm count %d exceeds threshold 2", counts[model.TierWarm])
	}
	if counts[model.TierCold] > 2 {
		t.Errorf("cold count %d exceeds threshold 2", counts[model.TierCold])
	}
}

func TestRotationNeverLosesRecords(t *testing.T) {
	s := newRotationStore(t, config.Thresholds{Hot: 2, Warm: 2, Cold: 2})

	const n = 25
	for i := 0; i < n; i++ {
		mustStore(t, s, "b", fmt.Sprintf("unique fact %d", i))
	}

	if got := totalCount(t, s, "b"); got != n {
		t.Errorf("expected %d records after rotation, got %d", n, got)
	}
}

func TestRotationMovesOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := newRotationStore(t, config.Thresholds{Hot: 2})

	mustStore(t, s, "b", "oldest")
	mustStore(t, s, "b", "middle")
	mustStore(t, s, "b", "newest") // hot exceeds 2: "oldest" moves to warm

	recs, err := s.ExportAll(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		switch r.Content {
		case "oldest":
			if r.Tier != model.TierWarm {
				t.Errorf("oldest record should be warm, got %q", r.Tier)
			}
		case "middle", "newest":
			if r.Tier != model.TierHot {
				t.Errorf("%q should still be hot, got %q", r.Content, r.Tier)
			}
		}
	}
}

func TestZeroThresholdDisablesRotation(t *testing.T) {
	ctx := context.Background()
	s := newRotationStore(t, config.Thresholds{Hot: 0, Warm: 0, Cold: 0})

	for i := 0; i < 20; i++ {
		mustStore(t, s, "b", fmt.Sprintf("fact %d", i))
	}

	counts, _ := s.Count(ctx, "b")
	if counts[model.TierHot] != 20 {
		t.Errorf("zero threshold must keep everything hot, got %d", counts[model.TierHot])
	}
}

func TestPerBankThresholdOverride(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Rotation = config.Thresholds{Hot: 100}
	cfg.RotationPerBank = map[string]config.Thresholds{
		"tight": {Hot: 1},
	}
	s, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	mustStore(t, s, "tight", "one")
	mustStore(t, s, "tight", "two")
	mustStore(t, s, "loose", "one")
	mustStore(t, s, "loose", "two")

	tight, _ := s.Count(ctx, "tight")
	if tight[model.TierHot] != 1 || tight[model.TierWarm] != 1 {
		t.Errorf("per-bank override not applied: %v", tight)
	}
	loose, _ := s.Count(ctx, "loose")
	if loose[model.TierHot] != 2 {
		t.Errorf("global threshold should keep loose bank hot: %v", loose)
	}
}

func TestPinnedExemptFromRotation(t *testing.T) {
	ctx := context.Background()
	s := newRotationStore(t, config.Thresholds{Hot: 1})

	pinned := &model.Context{Intent: "IDENTITY", Verdict: "TRUE", Tags: []string{"identity"}}
	if _, err := s.Store(ctx, StoreParams{
		Bank:    "b",
		Fact:    model.Fact{Content: "my name is Josh", Confidence: 0.9},
		Context: pinned,
	}); err != nil {
		t.Fatal(err)
	}
	mustStore(t, s, "b", "ordinary fact one")
	mustStore(t, s, "b", "ordinary fact two")

	recs, _ := s.ExportAll(ctx, "b")
	for _, r := range recs {
		if r.SemanticTier == model.SemanticPinned && r.Tier != model.TierHot {
			t.Errorf("pinned record rotated out of hot to %q", r.Tier)
		}
	}
}

func TestExplicitRotate(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Rotation = config.Thresholds{Hot: 0}
	s, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		mustStore(t, s, "b", fmt.Sprintf("fact %d", i))
	}

	// Tighten the threshold and rotate explicitly.
	s.cfg.Rotation = config.Thresholds{Hot: 2}
	if err := s.Rotate(ctx, "b"); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	counts, _ := s.Count(ctx, "b")
	if counts[model.TierHot] != 2 {
		t.Errorf("expected 2 hot after explicit rotate, got %d", counts[model.TierHot])
	}
	if counts[model.TierWarm] != 3 {
		t.Errorf("expected 3 warm after explicit rotate, got %d", counts[model.TierWarm])
	}
}
