package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"nosticpos/backend/internal/cache"
	"nosticpos/backend/internal/cart"
	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/restock"
	"nosticpos/backend/internal/stats"
	"nosticpos/backend/internal/store"
	"nosticpos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const todaySummaryKey = "summary:today"

type Service struct {
	repo      store.Repository
	carts     *cart.Manager
	summaries cache.SummaryCache
}

func New(repo store.Repository, carts *cart.Manager, summaries cache.SummaryCache) *Service {
	if carts == nil {
		carts = cart.NewManager()
	}
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}

	return &Service{
		repo:      repo,
		carts:     carts,
		summaries: summaries,
	}
}

// deriveCostCents fixes the cost price at 70% of the selling price. Every
// path that changes the selling price goes through this.
func deriveCostCents(sellingCents int64) int64 {
	return int64(math.Round(float64(sellingCents) * 0.70))
}

func (s *Service) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.ListInventory(ctx)
}

func (s *Service) CreateItem(ctx context.Context, req domain.InventoryCreateRequest) (domain.InventoryItem, error) {
	actor, err := requireRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Flavor = strings.TrimSpace(req.Flavor)
	req.Category = strings.TrimSpace(req.Category)

	if req.Name == "" || req.Category == "" {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}
	if req.SellingPriceCents < 1 || req.StockQuantity < 0 || req.ReorderLevel < 0 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}

	item := domain.InventoryItem{
		Name:              req.Name,
		Flavor:            req.Flavor,
		Category:          req.Category,
		SellingPriceCents: req.SellingPriceCents,
		CostPriceCents:    deriveCostCents(req.SellingPriceCents),
		StockQuantity:     req.StockQuantity,
		ReorderLevel:      req.ReorderLevel,
	}

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	if created.StockQuantity > 0 {
		s.journalStock(ctx, created.ID, created.StockQuantity, domain.StockReasonRestock)
	}
	log.Printf("[service] item created id=%d name=%q by=%s", created.ID, created.Name, actor.Email)

	return *created, nil
}

func (s *Service) UpdateItem(ctx context.Context, id int64, req domain.InventoryUpdateRequest) (domain.InventoryItem, error) {
	_, err := requireRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if id < 1 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Flavor != nil {
		updated.Flavor = strings.TrimSpace(*req.Flavor)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		updated.Category = category
	}
	if req.SellingPriceCents != nil {
		if *req.SellingPriceCents < 1 {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		updated.SellingPriceCents = *req.SellingPriceCents
		updated.CostPriceCents = deriveCostCents(*req.SellingPriceCents)
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		updated.StockQuantity = *req.StockQuantity
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		updated.ReorderLevel = *req.ReorderLevel
	}

	saved, err := s.repo.UpdateItem(ctx, updated)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	if diff := saved.StockQuantity - existing.StockQuantity; diff != 0 {
		reason := domain.StockReasonAdjustment
		if diff > 0 {
			reason = domain.StockReasonRestock
		}
		s.journalStock(ctx, saved.ID, diff, reason)
	}

	return *saved, nil
}

func (s *Service) UpdatePrice(ctx context.Context, id int64, req domain.PriceUpdateRequest) (domain.InventoryItem, error) {
	_, err := requireRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if id < 1 || req.SellingPriceCents < 1 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	updated := *existing
	updated.SellingPriceCents = req.SellingPriceCents
	updated.CostPriceCents = deriveCostCents(req.SellingPriceCents)

	saved, err := s.repo.UpdateItem(ctx, updated)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return *saved, nil
}

func (s *Service) StatsForRange(ctx context.Context, kind string, customStart time.Time, customEnd time.Time) (domain.StatsResponse, error) {
	_, err := requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.StatsResponse{}, err
	}

	start, end, resolved := stats.Range(kind, time.Now().UTC(), customStart, customEnd)
	sales, err := s.repo.ListSalesBetween(ctx, start, end)
	if err != nil {
		return domain.StatsResponse{}, err
	}

	return domain.StatsResponse{
		Range: resolved,
		Start: start,
		End:   end,
		Stats: stats.Compute(sales),
	}, nil
}

func (s *Service) TopItems(ctx context.Context, kind string, customStart time.Time, customEnd time.Time, limit int) (domain.TopItemsResponse, error) {
	_, err := requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.TopItemsResponse{}, err
	}

	start, end, resolved := stats.Range(kind, time.Now().UTC(), customStart, customEnd)
	sales, err := s.repo.ListSalesBetween(ctx, start, end)
	if err != nil {
		return domain.TopItemsResponse{}, err
	}
	inventory, err := s.repo.ListInventory(ctx)
	if err != nil {
		return domain.TopItemsResponse{}, err
	}

	return domain.TopItemsResponse{
		Range: resolved,
		Items: stats.TopSellingItems(sales, inventory, limit),
	}, nil
}

func (s *Service) RestockSuggestions(ctx context.Context) (domain.RestockResponse, error) {
	_, err := requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.RestockResponse{}, err
	}

	inventory, err := s.repo.ListInventory(ctx)
	if err != nil {
		return domain.RestockResponse{}, err
	}

	return domain.RestockResponse{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Recommendations: restock.Suggestions(inventory),
	}, nil
}

func (s *Service) StockHistory(ctx context.Context, itemID int64, limit int) ([]domain.StockHistory, error) {
	_, err := requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 50
	}
	return s.repo.ListStockHistory(ctx, itemID, limit)
}

func (s *Service) ViewCart(ctx context.Context, terminalID string) (domain.CartView, error) {
	_, err := requireRole(ctx, domain.RoleCashier, domain.RoleAdmin)
	if err != nil {
		return domain.CartView{}, err
	}
	return s.carts.View(normalizeTerminal(terminalID)), nil
}

func (s *Service) AddToCart(ctx context.Context, req domain.AddToCartRequest) (domain.CartView, error) {
	_, err := requireRole(ctx, domain.RoleCashier, domain.RoleAdmin)
	if err != nil {
		return domain.CartView{}, err
	}
	if req.ItemID < 1 {
		return domain.CartView{}, store.ErrInvalidInput
	}

	item, err := s.repo.GetItem(ctx, req.ItemID)
	if err != nil {
		return domain.CartView{}, err
	}
	if item.StockQuantity < 1 {
		return domain.CartView{}, store.ErrInsufficientStock
	}

	view, err := s.carts.Add(normalizeTerminal(req.TerminalID), *item)
	if err != nil {
		return domain.CartView{}, err
	}
	return view, nil
}

func (s *Service) SetCartQuantity(ctx context.Context, terminalID string, itemID int64, quantity int) (domain.CartView, error) {
	_, err := requireRole(ctx, domain.RoleCashier, domain.RoleAdmin)
	if err != nil {
		return domain.CartView{}, err
	}
	return s.carts.SetQuantity(normalizeTerminal(terminalID), itemID, quantity)
}

func (s *Service) RemoveFromCart(ctx context.Context, terminalID string, itemID int64) (domain.CartView, error) {
	_, err := requireRole(ctx, domain.RoleCashier, domain.RoleAdmin)
	if err != nil {
		return domain.CartView{}, err
	}
	return s.carts.Remove(normalizeTerminal(terminalID), itemID), nil
}

// Checkout commits the terminal's cart as one atomic sale. The ledger rows
// carry pre-tax revenue; tax appears only on the receipt totals. The cart
// is cleared only after the store commit succeeds.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.Receipt, error) {
	actor, err := requireRole(ctx, domain.RoleCashier, domain.RoleAdmin)
	if err != nil {
		return domain.Receipt{}, err
	}

	terminalID := normalizeTerminal(req.TerminalID)
	lines, err := s.carts.Lines(terminalID)
	if err != nil {
		return domain.Receipt{}, err
	}

	now := time.Now().UTC()
	checkoutLines := make([]domain.CheckoutLine, 0, len(lines))
	receiptLines := make([]domain.ReceiptLine, 0, len(lines))
	for _, line := range lines {
		qty := int64(line.Quantity)
		checkoutLines = append(checkoutLines, domain.CheckoutLine{
			ItemID:            line.Item.ID,
			Quantity:          line.Quantity,
			TotalRevenueCents: line.Item.SellingPriceCents * qty,
			TotalProfitCents:  (line.Item.SellingPriceCents - line.Item.CostPriceCents) * qty,
		})
		receiptLines = append(receiptLines, domain.ReceiptLine{
			ItemID:            line.Item.ID,
			Name:              line.Item.Name,
			Flavor:            line.Item.Flavor,
			Quantity:          line.Quantity,
			UnitPriceCents:    line.Item.SellingPriceCents,
			LineSubtotalCents: line.Item.SellingPriceCents * qty,
		})
	}

	if _, err := s.repo.RecordCheckout(ctx, checkoutLines, now); err != nil {
		return domain.Receipt{}, err
	}
	s.carts.Clear(terminalID)

	totals := cart.Totals(lines)
	receipt := domain.Receipt{
		ID:            xid.New("rcpt"),
		TerminalID:    terminalID,
		Lines:         receiptLines,
		SubtotalCents: totals.SubtotalCents,
		TaxCents:      totals.TaxCents,
		TotalCents:    totals.TotalCents,
		ProfitCents:   totals.ProfitCents,
		CreatedAt:     now,
	}

	log.Printf("[service] checkout terminal=%s lines=%d total_cents=%d by=%s", terminalID, len(receiptLines), receipt.TotalCents, actor.Email)
	return receipt, nil
}

// TodaySummary serves the dashboard snapshot. The cache is written by the
// background poller; a miss falls through to a live computation.
func (s *Service) TodaySummary(ctx context.Context) (domain.TodaySummary, error) {
	_, err := requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.TodaySummary{}, err
	}

	cached, hit, err := s.summaries.Get(ctx, todaySummaryKey)
	if err != nil {
		log.Printf("[service] WARN: summary cache get failed: %v", err)
	}
	if hit && cached != nil {
		return *cached, nil
	}

	return s.RefreshTodaySummary(ctx)
}

// RefreshTodaySummary recomputes today's aggregates and writes them to the
// cache. The poller calls this on its interval.
func (s *Service) RefreshTodaySummary(ctx context.Context) (domain.TodaySummary, error) {
	now := time.Now().UTC()
	start, end, _ := stats.Range(stats.RangeToday, now, time.Time{}, time.Time{})
	sales, err := s.repo.ListSalesBetween(ctx, start, end)
	if err != nil {
		return domain.TodaySummary{}, err
	}

	summary := domain.TodaySummary{
		Date:       now.Format("2006-01-02"),
		Stats:      stats.Compute(sales),
		ComputedAt: now,
	}
	if err := s.summaries.Set(ctx, todaySummaryKey, &summary, 2*time.Minute); err != nil {
		log.Printf("[service] WARN: summary cache set failed: %v", err)
	}
	return summary, nil
}

func (s *Service) journalStock(ctx context.Context, itemID int64, change int, reason string) {
	err := s.repo.AppendStockHistory(ctx, domain.StockHistory{
		ID:             xid.New("sh"),
		ItemID:         itemID,
		QuantityChange: change,
		Reason:         reason,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[service] WARN: failed to journal stock change item=%d: %v", itemID, err)
	}
}

func requireRole(ctx context.Context, roles ...string) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, fmt.Errorf("authentication required")
	}
	for _, role := range roles {
		if actor.Role == role {
			return actor, nil
		}
	}
	return domain.Actor{}, fmt.Errorf("%s role required", strings.Join(roles, " or "))
}

func normalizeTerminal(terminalID string) string {
	terminalID = strings.TrimSpace(terminalID)
	if terminalID == "" {
		return "terminal-1"
	}
	return terminalID
}
