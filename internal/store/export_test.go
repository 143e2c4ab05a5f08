package store

import (
	"context"
	"testing"

	"github.com/tierstore/tierstore/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	mustStore(t, src, "a", "fact in bank a")
	mustStore(t, src, "b", "fact in bank b")

	records, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 exported records, got %d", len(records))
	}

	dst := newTestStore(t)
	imported, err := dst.Import(ctx, records)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 {
		t.Errorf("expected 2 imported, got %d", imported)
	}

	results, err := dst.Retrieve(ctx, RetrieveParams{Bank: "a", Query: "fact"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("imported record not retrievable, got %d results", len(results))
	}
}

func TestImportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustStore(t, s, "a", "already here")
	records, _ := s.ExportAll(ctx, "a")

	imported, err := s.Import(ctx, records)
	if err != nil {
		t.Fatal(err)
	}
	if imported != 0 {
		t.Errorf("expected 0 imported for duplicates, got %d", imported)
	}
	if got := totalCount(t, s, "a"); got != 1 {
		t.Errorf("import created a duplicate copy: %d records", got)
	}
}

func TestImportPreservesTierPlacement(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	imported, err := s.Import(ctx, []model.Record{
		{Bank: "a", ID: "r1", Content: "archived fact", Tier: model.TierArchive, SemanticTier: model.SemanticShort},
	})
	if err != nil {
		t.Fatal(err)
	}
	if imported != 1 {
		t.Fatalf("expected 1 imported, got %d", imported)
	}

	counts, _ := s.Count(ctx, "a")
	if counts[model.TierArchive] != 1 {
		t.Errorf("expected record in archive, got %v", counts)
	}
}

func TestImportToleratesBlankContent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Import(ctx, []model.Record{
		{Bank: "a", ID: "blank", Content: "", Tier: model.TierCold},
	})
	if err != nil {
		t.Fatalf("import of blank record must succeed: %v", err)
	}

	processed, err := s.Compact(ctx, "a", model.TierCold)
	if err != nil {
		t.Fatal(err)
	}
	if processed != 0 {
		t.Errorf("expected compact to remove the blank, %d left", processed)
	}
}
