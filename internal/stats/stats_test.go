package stats

import (
	"testing"
	"time"

	"nosticpos/backend/internal/domain"
)

func TestComputeFoldsLedgerRows(t *testing.T) {
	sales := []domain.SaleRecord{
		{ItemID: 1, Quantity: 2, TotalRevenueCents: 10000, TotalProfitCents: 3000},
		{ItemID: 2, Quantity: 1, TotalRevenueCents: 4500, TotalProfitCents: 1350},
	}

	agg := Compute(sales)
	if agg.TotalRevenueCents != 14500 {
		t.Fatalf("expected revenue 14500, got %d", agg.TotalRevenueCents)
	}
	if agg.TotalProfitCents != 4350 {
		t.Fatalf("expected profit 4350, got %d", agg.TotalProfitCents)
	}
	if agg.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", agg.TotalItems)
	}
}

func TestComputeEmpty(t *testing.T) {
	agg := Compute(nil)
	if agg.TotalRevenueCents != 0 || agg.TotalProfitCents != 0 || agg.TotalItems != 0 {
		t.Fatalf("expected zero aggregates, got %+v", agg)
	}
}

func TestTopSellingItemsGroupsAndSorts(t *testing.T) {
	sales := []domain.SaleRecord{
		{ItemID: 1, Quantity: 1, TotalRevenueCents: 5000, TotalProfitCents: 1500},
		{ItemID: 2, Quantity: 4, TotalRevenueCents: 8000, TotalProfitCents: 2400},
		{ItemID: 1, Quantity: 2, TotalRevenueCents: 10000, TotalProfitCents: 3000},
		{ItemID: 3, Quantity: 1, TotalRevenueCents: 1200, TotalProfitCents: 360},
	}
	inventory := []domain.InventoryItem{
		{ID: 1, Name: "Tub", Flavor: "Vanilla"},
		{ID: 2, Name: "Cone", Flavor: "Plain"},
	}

	top := TopSellingItems(sales, inventory, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].ItemID != 2 || top[0].Quantity != 4 {
		t.Fatalf("expected item 2 with qty 4 first, got %+v", top[0])
	}
	if top[1].ItemID != 1 || top[1].Quantity != 3 || top[1].RevenueCents != 15000 {
		t.Fatalf("expected merged item 1 second, got %+v", top[1])
	}
	if top[1].Name != "Tub" || top[1].Flavor != "Vanilla" {
		t.Fatalf("expected names joined from inventory, got %+v", top[1])
	}
}

func TestTopSellingItemsNonPositiveLimit(t *testing.T) {
	sales := []domain.SaleRecord{
		{ItemID: 1, Quantity: 1, TotalRevenueCents: 5000, TotalProfitCents: 1500},
	}

	if top := TopSellingItems(sales, nil, 0); len(top) != 0 {
		t.Fatalf("expected empty result for limit 0, got %d rows", len(top))
	}
	if top := TopSellingItems(sales, nil, -3); len(top) != 0 {
		t.Fatalf("expected empty result for negative limit, got %d rows", len(top))
	}
}

func TestTopSellingItemsMissingInventoryKeepsID(t *testing.T) {
	sales := []domain.SaleRecord{
		{ItemID: 42, Quantity: 1, TotalRevenueCents: 1000, TotalProfitCents: 300},
	}

	top := TopSellingItems(sales, nil, 5)
	if len(top) != 1 {
		t.Fatalf("expected 1 row, got %d", len(top))
	}
	if top[0].ItemID != 42 || top[0].Name != "" || top[0].Flavor != "" {
		t.Fatalf("expected bare id for missing item, got %+v", top[0])
	}
}

func TestRangeTodayCoversWholeDay(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, end, kind := Range(RangeToday, now, time.Time{}, time.Time{})
	if kind != RangeToday {
		t.Fatalf("expected today kind, got %s", kind)
	}
	if !start.Equal(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start of day, got %s", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Day() != 26 {
		t.Fatalf("expected end of day, got %s", end)
	}
}

func TestRangeWeekCoversSundayThroughSaturday(t *testing.T) {
	// 2026-08-26 is a Wednesday; the week runs Sunday 2026-08-23 through the
	// end of Saturday 2026-08-29.
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, end, kind := Range(RangeWeek, now, time.Time{}, time.Time{})
	if kind != RangeWeek {
		t.Fatalf("expected week kind, got %s", kind)
	}
	want := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected week start %s, got %s", want, start)
	}
	if end.Day() != 29 || end.Hour() != 23 || end.Weekday() != time.Saturday {
		t.Fatalf("expected end of Saturday, got %s", end)
	}
}

func TestRangeMonthCoversCalendarMonth(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, end, _ := Range(RangeMonth, now, time.Time{}, time.Time{})
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected month start %s, got %s", want, start)
	}
	if end.Day() != 31 || end.Month() != time.August || end.Hour() != 23 {
		t.Fatalf("expected end of August, got %s", end)
	}
}

func TestRangeRollingWindows(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, _, _ := Range(Range7Days, now, time.Time{}, time.Time{})
	if !start.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("unexpected 7days start %s", start)
	}
	start, _, _ = Range(Range30Days, now, time.Time{}, time.Time{})
	if !start.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected 30days start %s", start)
	}
}

func TestRangeCustomFallsBackToToday(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, end, kind := Range(RangeCustom, now, time.Time{}, time.Time{})
	if kind != RangeToday {
		t.Fatalf("expected fallback to today, got %s", kind)
	}
	if !start.Equal(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)) || end.Day() != 26 || end.Hour() != 23 {
		t.Fatalf("unexpected fallback bounds %s..%s", start, end)
	}

	// End before start also falls back.
	_, _, kind = Range(RangeCustom, now, now, now.AddDate(0, 0, -1))
	if kind != RangeToday {
		t.Fatalf("expected inverted custom window to fall back, got %s", kind)
	}
}

func TestRangeCustomCoversWholeDays(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	customStart := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	customEnd := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)

	start, end, kind := Range(RangeCustom, now, customStart, customEnd)
	if kind != RangeCustom {
		t.Fatalf("expected custom kind, got %s", kind)
	}
	if start.Hour() != 0 || start.Day() != 1 {
		t.Fatalf("expected start of day, got %s", start)
	}
	if end.Day() != 3 || end.Hour() != 23 {
		t.Fatalf("expected end of day, got %s", end)
	}

	kind = ""
	start, _, kind = Range("bogus", now, time.Time{}, time.Time{})
	if kind != RangeToday || start.Hour() != 0 {
		t.Fatalf("expected unknown kind to resolve to today")
	}
}
