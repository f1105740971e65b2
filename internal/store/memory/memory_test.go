package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/store"
)

func TestListInventoryOrderedByCategory(t *testing.T) {
	s := NewSeeded()

	items, err := s.ListInventory(context.Background())
	if err != nil {
		t.Fatalf("list inventory failed: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("expected seeded inventory")
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Category > items[i].Category {
			t.Fatalf("inventory not ordered by category at index %d", i)
		}
	}
}

func TestRecordCheckoutAtomicOnShortStock(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	before, err := s.GetItem(ctx, 5)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}

	lines := []domain.CheckoutLine{
		{ItemID: 5, Quantity: 1, TotalRevenueCents: 1500, TotalProfitCents: 450},
		{ItemID: 6, Quantity: 10000, TotalRevenueCents: 1, TotalProfitCents: 0},
	}
	_, err = s.RecordCheckout(ctx, lines, time.Now().UTC())
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, err := s.GetItem(ctx, 5)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if after.StockQuantity != before.StockQuantity {
		t.Fatalf("expected stock untouched after failed checkout, got %d want %d", after.StockQuantity, before.StockQuantity)
	}

	sales, err := s.ListSalesBetween(ctx, time.Now().UTC().Add(-time.Minute), time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("list sales failed: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no ledger rows, got %d", len(sales))
	}
}

func TestRecordCheckoutJournalsSale(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	at := time.Now().UTC()

	records, err := s.RecordCheckout(ctx, []domain.CheckoutLine{
		{ItemID: 7, Quantity: 2, TotalRevenueCents: 13000, TotalProfitCents: 3900},
	}, at)
	if err != nil {
		t.Fatalf("record checkout failed: %v", err)
	}
	if len(records) != 1 || records[0].ID == 0 {
		t.Fatalf("expected one ledger row with an id, got %+v", records)
	}

	history, err := s.ListStockHistory(ctx, 7, 10)
	if err != nil {
		t.Fatalf("list stock history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one journal entry, got %d", len(history))
	}
	if history[0].Reason != domain.StockReasonSale || history[0].QuantityChange != -2 {
		t.Fatalf("unexpected journal entry: %+v", history[0])
	}
}

func TestRecordCheckoutUnknownItem(t *testing.T) {
	s := NewSeeded()

	_, err := s.RecordCheckout(context.Background(), []domain.CheckoutLine{
		{ItemID: 9999, Quantity: 1, TotalRevenueCents: 100, TotalProfitCents: 30},
	}, time.Now().UTC())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSalesBetweenInclusiveAndDescending(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	first := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	if _, err := s.RecordCheckout(ctx, []domain.CheckoutLine{{ItemID: 1, Quantity: 1, TotalRevenueCents: 8500, TotalProfitCents: 2550}}, first); err != nil {
		t.Fatalf("record checkout failed: %v", err)
	}
	if _, err := s.RecordCheckout(ctx, []domain.CheckoutLine{{ItemID: 1, Quantity: 1, TotalRevenueCents: 8500, TotalProfitCents: 2550}}, second); err != nil {
		t.Fatalf("record checkout failed: %v", err)
	}

	sales, err := s.ListSalesBetween(ctx, first, second)
	if err != nil {
		t.Fatalf("list sales failed: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected bounds to be inclusive, got %d rows", len(sales))
	}
	if !sales[0].Timestamp.Equal(second) {
		t.Fatalf("expected newest first, got %s", sales[0].Timestamp)
	}

	sales, err = s.ListSalesBetween(ctx, first.Add(time.Second), second)
	if err != nil {
		t.Fatalf("list sales failed: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 row after tightening lower bound, got %d", len(sales))
	}
}

func TestCreateItemAssignsSequentialIDs(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	a, err := s.CreateItem(ctx, domain.InventoryItem{Name: "A", Category: "test", SellingPriceCents: 100})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := s.CreateItem(ctx, domain.InventoryItem{Name: "B", Category: "test", SellingPriceCents: 100})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.ID != a.ID+1 {
		t.Fatalf("expected sequential ids, got %d then %d", a.ID, b.ID)
	}
}

func TestUpdateUserPasswordUnknownUser(t *testing.T) {
	s := NewSeeded()

	err := s.UpdateUserPassword(context.Background(), "ghost@nosticpos.local", "secret")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeededUsersCoverAllRoles(t *testing.T) {
	s := NewSeeded()

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}

	roles := map[string]bool{}
	for _, user := range users {
		roles[user.Role] = true
	}
	for _, role := range []string{domain.RoleAdmin, domain.RoleManager, domain.RoleCashier} {
		if !roles[role] {
			t.Fatalf("expected seeded %s account", role)
		}
	}
}
