// Package restock flags inventory at or below its reorder level and
// suggests a replenishment quantity.
package restock

import (
	"slices"

	"nosticpos/backend/internal/domain"
)

// Suggestions returns one recommendation per depleted item, most depleted
// first. The suggested quantity is reorder_level*5 minus current stock and
// is reported as computed, even when that is zero.
func Suggestions(inventory []domain.InventoryItem) []domain.RestockRecommendation {
	recs := make([]domain.RestockRecommendation, 0, 8)
	for _, item := range inventory {
		if item.StockQuantity > item.ReorderLevel {
			continue
		}
		recs = append(recs, domain.RestockRecommendation{
			ItemID:            item.ID,
			Name:              item.Name,
			Flavor:            item.Flavor,
			CurrentStock:      item.StockQuantity,
			ReorderLevel:      item.ReorderLevel,
			SuggestedQuantity: item.ReorderLevel*5 - item.StockQuantity,
		})
	}

	slices.SortFunc(recs, func(a, b domain.RestockRecommendation) int {
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock - b.CurrentStock
		}
		return int(a.ItemID - b.ItemID)
	})
	return recs
}
