package restock

import (
	"testing"

	"nosticpos/backend/internal/domain"
)

func TestSuggestionsFlagAtOrBelowReorderLevel(t *testing.T) {
	inventory := []domain.InventoryItem{
		{ID: 1, Name: "Tub", StockQuantity: 20, ReorderLevel: 8},
		{ID: 2, Name: "Cone", StockQuantity: 8, ReorderLevel: 8},
		{ID: 3, Name: "Cookie", StockQuantity: 2, ReorderLevel: 8},
	}

	recs := Suggestions(inventory)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ItemID != 3 {
		t.Fatalf("expected most depleted item first, got %d", recs[0].ItemID)
	}
	if recs[0].SuggestedQuantity != 38 {
		t.Fatalf("expected suggestion 38 for item 3, got %d", recs[0].SuggestedQuantity)
	}
	if recs[1].ItemID != 2 || recs[1].SuggestedQuantity != 32 {
		t.Fatalf("expected item 2 with suggestion 32, got %+v", recs[1])
	}
}

func TestSuggestionsNotClamped(t *testing.T) {
	// Zero reorder level and zero stock yields a zero suggestion, which is
	// reported rather than dropped.
	recs := Suggestions([]domain.InventoryItem{
		{ID: 1, StockQuantity: 0, ReorderLevel: 0},
		{ID: 2, StockQuantity: 6, ReorderLevel: 1},
	})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].ItemID != 1 || recs[0].SuggestedQuantity != 0 {
		t.Fatalf("unexpected recommendation: %+v", recs[0])
	}
}

func TestSuggestionsEmptyInventory(t *testing.T) {
	if recs := Suggestions(nil); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}
