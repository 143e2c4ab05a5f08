package rank

import (
	"testing"

	"github.com/tierstore/tierstore/internal/model"
)

func hit(tier string) model.Record {
	return model.Record{SemanticTier: tier, Importance: 0.5, UseCount: 0, SeqID: 10}
}

func TestTierOrderingStrict(t *testing.T) {
	pinned := Score(hit(model.SemanticPinned), 100)
	mid := Score(hit(model.SemanticMid), 100)
	short := Score(hit(model.SemanticShort), 100)

	if !(pinned > mid && mid > short) {
		t.Errorf("expected pinned (%v) > mid (%v) > short (%v)", pinned, mid, short)
	}
}

func TestTierDominatesEverything(t *testing.T) {
	// A maxed-out short hit must still lose to a minimal mid hit.
	short := model.Record{SemanticTier: model.SemanticShort, Importance: 1.0, UseCount: 1000, SeqID: 100}
	mid := model.Record{SemanticTier: model.SemanticMid, Importance: 0.0, UseCount: 0, SeqID: 1}
	if Score(short, 100) >= Score(mid, 100) {
		t.Errorf("short (%v) must not reach mid (%v)", Score(short, 100), Score(mid, 100))
	}
}

func TestImportanceBoost(t *testing.T) {
	high := hit(model.SemanticMid)
	high.Importance = 1.0
	low := hit(model.SemanticMid)
	low.Importance = 0.1
	if Score(high, 100) <= Score(low, 100) {
		t.Error("higher importance must score higher")
	}
}

func TestUseCountBoost(t *testing.T) {
	used := hit(model.SemanticMid)
	used.UseCount = 10
	fresh := hit(model.SemanticMid)
	if Score(used, 100) <= Score(fresh, 100) {
		t.Error("higher use count must score higher")
	}
}

func TestRecencyNeverLowers(t *testing.T) {
	recent := hit(model.SemanticMid)
	recent.SeqID = 1000
	old := hit(model.SemanticMid)
	old.SeqID = 10
	if Score(recent, 1000) < Score(old, 1000) {
		t.Error("higher seq id must never score lower")
	}
}

func TestDeterministic(t *testing.T) {
	r := model.Record{SemanticTier: model.SemanticMid, Importance: 0.7, UseCount: 5, SeqID: 100}
	a := Score(r, 200)
	b := Score(r, 200)
	c := Score(r, 200)
	if a != b || b != c {
		t.Errorf("scores not deterministic: %v, %v, %v", a, b, c)
	}
}

func TestSortOrdersByScoreThenSeq(t *testing.T) {
	records := []model.Record{
		{ID: "a", SemanticTier: model.SemanticShort, SeqID: 3},
		{ID: "b", SemanticTier: model.SemanticPinned, SeqID: 1},
		{ID: "c", SemanticTier: model.SemanticMid, SeqID: 2},
		{ID: "d", SemanticTier: model.SemanticMid, SeqID: 4},
	}
	Sort(records, 4)

	got := []string{records[0].ID, records[1].ID, records[2].ID, records[3].ID}
	want := []string{"b", "d", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
