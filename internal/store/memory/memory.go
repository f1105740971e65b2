package memory

import (
	"context"
	"log"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/store"
	"nosticpos/backend/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	items        map[int64]domain.InventoryItem
	nextItemID   int64
	sales        []domain.SaleRecord
	nextSaleID   int64
	stockHistory []domain.StockHistory
	usersByEmail map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD, SEED_MANAGER_PASSWORD and
// SEED_CASHIER_PASSWORD environment variables. If unset, hardcoded dev
// defaults are used and a warning is logged.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	managerPwd := envOr("SEED_MANAGER_PASSWORD", "manager123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_MANAGER_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD, SEED_MANAGER_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		email    string
		password string
		role     string
	}{
		{"admin@nosticpos.local", adminPwd, domain.RoleAdmin},
		{"manager@nosticpos.local", managerPwd, domain.RoleManager},
		{"cashier@nosticpos.local", cashierPwd, domain.RoleCashier},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.email, err)
		}
		users[u.email] = domain.UserAccount{
			Email:     u.email,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()
	seed := []domain.InventoryItem{
		{Name: "Ice Cream Tub", Flavor: "Vanilla Bean", Category: "ice-cream", SellingPriceCents: 8500, StockQuantity: 24, ReorderLevel: 8},
		{Name: "Ice Cream Tub", Flavor: "Dark Chocolate", Category: "ice-cream", SellingPriceCents: 8500, StockQuantity: 18, ReorderLevel: 8},
		{Name: "Ice Cream Tub", Flavor: "Strawberry Swirl", Category: "ice-cream", SellingPriceCents: 8500, StockQuantity: 15, ReorderLevel: 6},
		{Name: "Ice Cream Cup", Flavor: "Mango Sorbet", Category: "ice-cream", SellingPriceCents: 4500, StockQuantity: 30, ReorderLevel: 10},
		{Name: "Waffle Cone", Flavor: "Plain", Category: "cones", SellingPriceCents: 1500, StockQuantity: 60, ReorderLevel: 20},
		{Name: "Waffle Cone", Flavor: "Chocolate Dipped", Category: "cones", SellingPriceCents: 2000, StockQuantity: 40, ReorderLevel: 15},
		{Name: "Milkshake", Flavor: "Cookies and Cream", Category: "drinks", SellingPriceCents: 6500, StockQuantity: 20, ReorderLevel: 6},
		{Name: "Milkshake", Flavor: "Banana", Category: "drinks", SellingPriceCents: 6000, StockQuantity: 12, ReorderLevel: 6},
		{Name: "Iced Coffee", Flavor: "Classic", Category: "drinks", SellingPriceCents: 5000, StockQuantity: 25, ReorderLevel: 8},
		{Name: "Brownie", Flavor: "Fudge", Category: "bakes", SellingPriceCents: 4000, StockQuantity: 16, ReorderLevel: 5},
		{Name: "Cookie", Flavor: "Salted Caramel", Category: "bakes", SellingPriceCents: 3000, StockQuantity: 22, ReorderLevel: 8},
		{Name: "Topping Pack", Flavor: "Rainbow Sprinkles", Category: "toppings", SellingPriceCents: 1200, StockQuantity: 35, ReorderLevel: 10},
	}

	items := make(map[int64]domain.InventoryItem, len(seed))
	for i, item := range seed {
		item.ID = int64(i + 1)
		item.CostPriceCents = deriveCostCents(item.SellingPriceCents)
		item.CreatedAt = now
		item.UpdatedAt = now
		items[item.ID] = item
	}

	return &Store{
		items:        items,
		nextItemID:   int64(len(seed) + 1),
		sales:        make([]domain.SaleRecord, 0, 128),
		nextSaleID:   1,
		stockHistory: make([]domain.StockHistory, 0, 128),
		usersByEmail: seedUsers(),
	}
}

func deriveCostCents(sellingCents int64) int64 {
	return int64(math.Round(float64(sellingCents) * 0.70))
}

func (s *Store) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b domain.InventoryItem) int {
		if a.Category == b.Category {
			if a.Name == b.Name {
				return cmpString(a.Flavor, b.Flavor)
			}
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})

	return items, nil
}

func (s *Store) GetItem(_ context.Context, id int64) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyItem := item
	return &copyItem, nil
}

func (s *Store) CreateItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" || item.Category == "" || item.SellingPriceCents < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.StockQuantity < 0 || item.ReorderLevel < 0 {
		return nil, store.ErrInvalidInput
	}

	now := time.Now().UTC()
	item.ID = s.nextItemID
	s.nextItemID++
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = item
	created := item
	return &created, nil
}

func (s *Store) UpdateItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" || item.Category == "" || item.SellingPriceCents < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.StockQuantity < 0 || item.ReorderLevel < 0 {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.items[item.ID]
	if !exists {
		return nil, store.ErrNotFound
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	s.items[item.ID] = item
	updated := item
	return &updated, nil
}

func (s *Store) ListSalesBetween(_ context.Context, from time.Time, to time.Time) ([]domain.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.SaleRecord, 0, len(s.sales))
	for _, sale := range s.sales {
		if sale.Timestamp.Before(from) || sale.Timestamp.After(to) {
			continue
		}
		result = append(result, sale)
	}

	slices.SortFunc(result, func(a, b domain.SaleRecord) int {
		if a.Timestamp.Equal(b.Timestamp) {
			return int(b.ID - a.ID)
		}
		if a.Timestamp.After(b.Timestamp) {
			return -1
		}
		return 1
	})

	return result, nil
}

// RecordCheckout decrements stock and appends one ledger row per line in one
// critical section. Either every line commits or none does: if any item is
// missing or short on stock, the store is left untouched.
func (s *Store) RecordCheckout(_ context.Context, lines []domain.CheckoutLine, at time.Time) ([]domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return nil, store.ErrInvalidInput
	}
	for _, line := range lines {
		if line.Quantity < 1 || line.TotalRevenueCents < 0 {
			return nil, store.ErrInvalidInput
		}
		item, exists := s.items[line.ItemID]
		if !exists {
			return nil, store.ErrNotFound
		}
		if item.StockQuantity < line.Quantity {
			return nil, store.ErrInsufficientStock
		}
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	records := make([]domain.SaleRecord, 0, len(lines))
	for _, line := range lines {
		item := s.items[line.ItemID]
		item.StockQuantity -= line.Quantity
		item.UpdatedAt = at
		s.items[line.ItemID] = item

		record := domain.SaleRecord{
			ID:                s.nextSaleID,
			ItemID:            line.ItemID,
			Quantity:          line.Quantity,
			TotalRevenueCents: line.TotalRevenueCents,
			TotalProfitCents:  line.TotalProfitCents,
			Timestamp:         at,
		}
		s.nextSaleID++
		s.sales = append(s.sales, record)
		records = append(records, record)

		s.stockHistory = append(s.stockHistory, domain.StockHistory{
			ID:             xid.New("sh"),
			ItemID:         line.ItemID,
			QuantityChange: -line.Quantity,
			Reason:         domain.StockReasonSale,
			Timestamp:      at,
		})
	}

	return records, nil
}

func (s *Store) AppendStockHistory(_ context.Context, entry domain.StockHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ItemID < 1 || entry.Reason == "" {
		return store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("sh")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.stockHistory = append(s.stockHistory, entry)
	return nil
}

func (s *Store) ListStockHistory(_ context.Context, itemID int64, limit int) ([]domain.StockHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StockHistory, 0, len(s.stockHistory))
	for _, entry := range s.stockHistory {
		if itemID > 0 && entry.ItemID != itemID {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.StockHistory) int {
		if a.Timestamp.Equal(b.Timestamp) {
			return cmpString(b.ID, a.ID)
		}
		if a.Timestamp.After(b.Timestamp) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || strings.TrimSpace(user.Password) == "" || user.Role == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByEmail[user.Email]; exists {
		return store.ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByEmail[user.Email] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByEmail))
	for _, user := range s.usersByEmail {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Email, b.Email)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, email string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByEmail[email]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByEmail[email] = user
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
