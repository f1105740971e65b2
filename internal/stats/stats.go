// Package stats derives sales aggregates from ledger rows. Nothing here is
// persisted; every number is recomputed from the sale records handed in.
package stats

import (
	"slices"

	"nosticpos/backend/internal/domain"
)

// Compute folds sale records into revenue, profit and unit totals.
func Compute(sales []domain.SaleRecord) domain.AggregatedStats {
	var agg domain.AggregatedStats
	for _, sale := range sales {
		agg.TotalRevenueCents += sale.TotalRevenueCents
		agg.TotalProfitCents += sale.TotalProfitCents
		agg.TotalItems += sale.Quantity
	}
	return agg
}

// TopSellingItems groups sales by item, sorts by units sold descending and
// truncates to limit. A limit below one yields an empty result. Items
// missing from the inventory snapshot keep their id but carry empty name
// and flavor.
func TopSellingItems(sales []domain.SaleRecord, inventory []domain.InventoryItem, limit int) []domain.TopItem {
	if limit < 1 {
		return []domain.TopItem{}
	}

	byItem := make(map[int64]*domain.TopItem, 16)
	order := make([]int64, 0, 16)
	for _, sale := range sales {
		entry, exists := byItem[sale.ItemID]
		if !exists {
			entry = &domain.TopItem{ItemID: sale.ItemID}
			byItem[sale.ItemID] = entry
			order = append(order, sale.ItemID)
		}
		entry.Quantity += sale.Quantity
		entry.RevenueCents += sale.TotalRevenueCents
		entry.ProfitCents += sale.TotalProfitCents
	}

	names := make(map[int64]domain.InventoryItem, len(inventory))
	for _, item := range inventory {
		names[item.ID] = item
	}

	items := make([]domain.TopItem, 0, len(order))
	for _, id := range order {
		entry := *byItem[id]
		if item, exists := names[id]; exists {
			entry.Name = item.Name
			entry.Flavor = item.Flavor
		}
		items = append(items, entry)
	}

	slices.SortFunc(items, func(a, b domain.TopItem) int {
		if a.Quantity != b.Quantity {
			return b.Quantity - a.Quantity
		}
		if a.RevenueCents != b.RevenueCents {
			if b.RevenueCents > a.RevenueCents {
				return 1
			}
			return -1
		}
		return int(a.ItemID - b.ItemID)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
