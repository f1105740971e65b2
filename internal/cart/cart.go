// Package cart keeps per-terminal order state in memory between the first
// scan and checkout. Carts hold inventory snapshots: the prices captured at
// add time are the prices the checkout records.
package cart

import (
	"errors"
	"math"
	"slices"
	"sync"

	"nosticpos/backend/internal/domain"
)

// TaxRatePercent is applied to the cart subtotal and rounded to the
// nearest cent.
const TaxRatePercent = 5

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrLineMissing = errors.New("item not in cart")
	ErrStockLimit  = errors.New("quantity exceeds available stock")
)

type Manager struct {
	mu    sync.Mutex
	carts map[string]map[int64]domain.CartLine
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]map[int64]domain.CartLine)}
}

// Add puts one more unit of the item into the terminal's cart. The quantity
// is capped by the stock count on the snapshot; a second snapshot for an
// item already in the cart refreshes the stored prices.
func (m *Manager) Add(terminalID string, item domain.InventoryItem) (domain.CartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[terminalID]
	if lines == nil {
		lines = make(map[int64]domain.CartLine)
		m.carts[terminalID] = lines
	}

	line := lines[item.ID]
	if line.Quantity+1 > item.StockQuantity {
		return domain.CartView{}, ErrStockLimit
	}
	line.Item = item
	line.Quantity++
	lines[item.ID] = line

	return m.viewLocked(terminalID), nil
}

// SetQuantity replaces the quantity of a line. Zero or negative removes
// the line.
func (m *Manager) SetQuantity(terminalID string, itemID int64, quantity int) (domain.CartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[terminalID]
	line, exists := lines[itemID]
	if !exists {
		return domain.CartView{}, ErrLineMissing
	}
	if quantity < 1 {
		delete(lines, itemID)
		return m.viewLocked(terminalID), nil
	}
	if quantity > line.Item.StockQuantity {
		return domain.CartView{}, ErrStockLimit
	}
	line.Quantity = quantity
	lines[itemID] = line
	return m.viewLocked(terminalID), nil
}

// Remove deletes the line if present. Removing an absent line is a no-op,
// so repeated removals succeed.
func (m *Manager) Remove(terminalID string, itemID int64) domain.CartView {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts[terminalID], itemID)
	return m.viewLocked(terminalID)
}

func (m *Manager) View(terminalID string) domain.CartView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked(terminalID)
}

// Lines returns a copy of the cart contents for checkout. The cart is left
// untouched; Clear is called only after the store commit succeeds.
func (m *Manager) Lines(terminalID string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[terminalID]
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return sortedLines(lines), nil
}

func (m *Manager) Clear(terminalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, terminalID)
}

func (m *Manager) viewLocked(terminalID string) domain.CartView {
	lines := sortedLines(m.carts[terminalID])
	return domain.CartView{
		TerminalID: terminalID,
		Lines:      lines,
		Totals:     Totals(lines),
	}
}

// Totals computes the money summary for a set of cart lines. Tax is the
// flat rate applied to the subtotal, rounded to the nearest cent.
func Totals(lines []domain.CartLine) domain.CartTotals {
	var totals domain.CartTotals
	for _, line := range lines {
		qty := int64(line.Quantity)
		totals.SubtotalCents += line.Item.SellingPriceCents * qty
		totals.ProfitCents += (line.Item.SellingPriceCents - line.Item.CostPriceCents) * qty
	}
	totals.TaxCents = int64(math.Round(float64(totals.SubtotalCents) * float64(TaxRatePercent) / 100))
	totals.TotalCents = totals.SubtotalCents + totals.TaxCents
	return totals
}

func sortedLines(lines map[int64]domain.CartLine) []domain.CartLine {
	result := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, line)
	}
	slices.SortFunc(result, func(a, b domain.CartLine) int {
		return int(a.Item.ID - b.Item.ID)
	})
	return result
}
