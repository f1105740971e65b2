package domain

import "time"

// InventoryItem is a sellable product with a live stock count. Money is
// stored in integer cents. CostPriceCents is derived as 70% of the selling
// price by every mutation path in this service but stored independently,
// so rows edited outside the service can carry any ratio.
type InventoryItem struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Flavor            string    `json:"flavor"`
	Category          string    `json:"category"`
	SellingPriceCents int64     `json:"selling_price_cents"`
	CostPriceCents    int64     `json:"cost_price_cents"`
	StockQuantity     int       `json:"stock_quantity"`
	ReorderLevel      int       `json:"reorder_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type InventoryCreateRequest struct {
	Name              string `json:"name"`
	Flavor            string `json:"flavor"`
	Category          string `json:"category"`
	SellingPriceCents int64  `json:"selling_price_cents"`
	StockQuantity     int    `json:"stock_quantity"`
	ReorderLevel      int    `json:"reorder_level"`
}

type InventoryUpdateRequest struct {
	Name              *string `json:"name,omitempty"`
	Flavor            *string `json:"flavor,omitempty"`
	Category          *string `json:"category,omitempty"`
	SellingPriceCents *int64  `json:"selling_price_cents,omitempty"`
	StockQuantity     *int    `json:"stock_quantity,omitempty"`
	ReorderLevel      *int    `json:"reorder_level,omitempty"`
}

type PriceUpdateRequest struct {
	SellingPriceCents int64 `json:"selling_price_cents"`
}

// SaleRecord is an immutable ledger row. Revenue and profit are snapshots
// computed at sale time and never recomputed when prices change later.
// ItemID is a weak reference: the item may be removed externally and the
// ledger row keeps pointing at it.
type SaleRecord struct {
	ID                int64     `json:"id"`
	ItemID            int64     `json:"item_id"`
	Quantity          int       `json:"quantity"`
	TotalRevenueCents int64     `json:"total_revenue_cents"`
	TotalProfitCents  int64     `json:"total_profit_cents"`
	Timestamp         time.Time `json:"timestamp"`
}

// StockHistory journals every stock mutation with the reason it happened.
type StockHistory struct {
	ID             string    `json:"id"`
	ItemID         int64     `json:"item_id"`
	QuantityChange int       `json:"quantity_change"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

const (
	StockReasonSale       = "sale"
	StockReasonAdjustment = "manual_adjustment"
	StockReasonRestock    = "restock"
)

// CartLine pairs an inventory snapshot with the requested quantity. The
// snapshot prices are what a checkout will record, even if the stored item
// changes price while the cart is open.
type CartLine struct {
	Item     InventoryItem `json:"item"`
	Quantity int           `json:"quantity"`
}

type CartTotals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
	ProfitCents   int64 `json:"profit_cents"`
}

type CartView struct {
	TerminalID string     `json:"terminal_id"`
	Lines      []CartLine `json:"lines"`
	Totals     CartTotals `json:"totals"`
}

type AddToCartRequest struct {
	TerminalID string `json:"terminal_id"`
	ItemID     int64  `json:"item_id"`
}

type UpdateCartQuantityRequest struct {
	TerminalID string `json:"terminal_id"`
	Quantity   int    `json:"quantity"`
}

type CheckoutRequest struct {
	TerminalID string `json:"terminal_id"`
}

// CheckoutLine is one ledger entry plus the stock decrement it implies.
type CheckoutLine struct {
	ItemID            int64 `json:"item_id"`
	Quantity          int   `json:"quantity"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	TotalProfitCents  int64 `json:"total_profit_cents"`
}

type ReceiptLine struct {
	ItemID            int64  `json:"item_id"`
	Name              string `json:"name"`
	Flavor            string `json:"flavor"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	LineSubtotalCents int64  `json:"line_subtotal_cents"`
}

type Receipt struct {
	ID            string        `json:"id"`
	TerminalID    string        `json:"terminal_id"`
	Lines         []ReceiptLine `json:"lines"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
	ProfitCents   int64         `json:"profit_cents"`
	CreatedAt     time.Time     `json:"created_at"`
}

// AggregatedStats is derived on demand from SaleRecords; never persisted.
type AggregatedStats struct {
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	TotalProfitCents  int64 `json:"total_profit_cents"`
	TotalItems        int   `json:"total_items"`
}

// TopItem is one leaderboard row. Name and Flavor stay empty when the item
// is missing from the inventory snapshot.
type TopItem struct {
	ItemID       int64  `json:"item_id"`
	Name         string `json:"name"`
	Flavor       string `json:"flavor"`
	Quantity     int    `json:"quantity"`
	RevenueCents int64  `json:"revenue_cents"`
	ProfitCents  int64  `json:"profit_cents"`
}

type StatsResponse struct {
	Range string          `json:"range"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Stats AggregatedStats `json:"stats"`
}

type TopItemsResponse struct {
	Range string    `json:"range"`
	Items []TopItem `json:"items"`
}

// RestockRecommendation suggests a replenishment quantity for a depleted
// item. SuggestedQuantity = reorder_level*5 - stock_quantity, reported as
// computed, including a zero when both inputs are zero.
type RestockRecommendation struct {
	ItemID            int64  `json:"item_id"`
	Name              string `json:"name"`
	Flavor            string `json:"flavor"`
	CurrentStock      int    `json:"current_stock"`
	ReorderLevel      int    `json:"reorder_level"`
	SuggestedQuantity int    `json:"suggested_quantity"`
}

type RestockResponse struct {
	GeneratedAt     string                  `json:"generated_at"`
	Recommendations []RestockRecommendation `json:"recommendations"`
}

type TodaySummary struct {
	Date       string          `json:"date"`
	Stats      AggregatedStats `json:"stats"`
	ComputedAt time.Time       `json:"computed_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type SessionResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Actor struct {
	Email string
	Role  string
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Email     string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}
