package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/store"
	"nosticpos/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, flavor, category, selling_price_cents, cost_price_cents, stock_quantity, reorder_level, created_at, updated_at
		FROM inventory_items
		ORDER BY category, name, flavor
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 128)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Flavor, &item.Category, &item.SellingPriceCents, &item.CostPriceCents, &item.StockQuantity, &item.ReorderLevel, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.CreatedAt = item.CreatedAt.UTC()
		item.UpdatedAt = item.UpdatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, flavor, category, selling_price_cents, cost_price_cents, stock_quantity, reorder_level, created_at, updated_at
		FROM inventory_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Flavor, &item.Category, &item.SellingPriceCents, &item.CostPriceCents, &item.StockQuantity, &item.ReorderLevel, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Name == "" || item.Category == "" || item.SellingPriceCents < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.StockQuantity < 0 || item.ReorderLevel < 0 {
		return nil, store.ErrInvalidInput
	}

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO inventory_items (name, flavor, category, selling_price_cents, cost_price_cents, stock_quantity, reorder_level, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		RETURNING id
	`, item.Name, item.Flavor, item.Category, item.SellingPriceCents, item.CostPriceCents, item.StockQuantity, item.ReorderLevel, now).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	item.CreatedAt = now
	item.UpdatedAt = now
	created := item
	return &created, nil
}

func (s *Store) UpdateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Name == "" || item.Category == "" || item.SellingPriceCents < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.StockQuantity < 0 || item.ReorderLevel < 0 {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = $2, flavor = $3, category = $4, selling_price_cents = $5, cost_price_cents = $6, stock_quantity = $7, reorder_level = $8, updated_at = now()
		WHERE id = $1
	`, item.ID, item.Name, item.Flavor, item.Category, item.SellingPriceCents, item.CostPriceCents, item.StockQuantity, item.ReorderLevel)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	item.UpdatedAt = time.Now().UTC()
	updated := item
	return &updated, nil
}

func (s *Store) ListSalesBetween(ctx context.Context, from time.Time, to time.Time) ([]domain.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, quantity, total_revenue_cents, total_profit_cents, ts
		FROM sales
		WHERE ts >= $1 AND ts <= $2
		ORDER BY ts DESC, id DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.SaleRecord, 0, 256)
	for rows.Next() {
		var sale domain.SaleRecord
		if err := rows.Scan(&sale.ID, &sale.ItemID, &sale.Quantity, &sale.TotalRevenueCents, &sale.TotalProfitCents, &sale.Timestamp); err != nil {
			return nil, err
		}
		sale.Timestamp = sale.Timestamp.UTC()
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

// RecordCheckout runs the whole checkout in one serializable transaction.
// Inventory rows are locked before the stock floor check, so two terminals
// selling the last unit race on the row lock instead of both committing.
func (s *Store) RecordCheckout(ctx context.Context, lines []domain.CheckoutLine, at time.Time) ([]domain.SaleRecord, error) {
	if len(lines) == 0 {
		return nil, store.ErrInvalidInput
	}
	for _, line := range lines {
		if line.ItemID < 1 || line.Quantity < 1 || line.TotalRevenueCents < 0 {
			return nil, store.ErrInvalidInput
		}
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	ids := uniqueItemIDs(lines)
	stockRows, err := pgTx.QueryContext(ctx, `
		SELECT id, stock_quantity
		FROM inventory_items
		WHERE id = ANY($1)
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	stockMap := make(map[int64]int, len(ids))
	for stockRows.Next() {
		var id int64
		var qty int
		if err := stockRows.Scan(&id, &qty); err != nil {
			_ = stockRows.Close()
			return nil, err
		}
		stockMap[id] = qty
	}
	if err := stockRows.Err(); err != nil {
		_ = stockRows.Close()
		return nil, err
	}
	_ = stockRows.Close()

	for _, line := range lines {
		qty, exists := stockMap[line.ItemID]
		if !exists {
			return nil, store.ErrNotFound
		}
		if qty < line.Quantity {
			return nil, store.ErrInsufficientStock
		}
		stockMap[line.ItemID] = qty - line.Quantity
	}

	records := make([]domain.SaleRecord, 0, len(lines))
	for _, line := range lines {
		_, err = pgTx.ExecContext(ctx, `
			UPDATE inventory_items
			SET stock_quantity = stock_quantity - $2, updated_at = now()
			WHERE id = $1
		`, line.ItemID, line.Quantity)
		if err != nil {
			return nil, err
		}

		record := domain.SaleRecord{
			ItemID:            line.ItemID,
			Quantity:          line.Quantity,
			TotalRevenueCents: line.TotalRevenueCents,
			TotalProfitCents:  line.TotalProfitCents,
			Timestamp:         at,
		}
		err = pgTx.QueryRowContext(ctx, `
			INSERT INTO sales (item_id, quantity, total_revenue_cents, total_profit_cents, ts)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, record.ItemID, record.Quantity, record.TotalRevenueCents, record.TotalProfitCents, record.Timestamp).Scan(&record.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)

		_, err = pgTx.ExecContext(ctx, `
			INSERT INTO stock_history (id, item_id, quantity_change, reason, ts)
			VALUES ($1,$2,$3,$4,$5)
		`, xid.New("sh"), line.ItemID, -line.Quantity, domain.StockReasonSale, at)
		if err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) AppendStockHistory(ctx context.Context, entry domain.StockHistory) error {
	if entry.ItemID < 1 || entry.Reason == "" {
		return store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("sh")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_history (id, item_id, quantity_change, reason, ts)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.ItemID, entry.QuantityChange, entry.Reason, entry.Timestamp)
	return err
}

func (s *Store) ListStockHistory(ctx context.Context, itemID int64, limit int) ([]domain.StockHistory, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, quantity_change, reason, ts
		FROM stock_history
		WHERE ($1 = 0 OR item_id = $1)
		ORDER BY ts DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.StockHistory, 0, limit)
	for rows.Next() {
		var entry domain.StockHistory
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.QuantityChange, &entry.Reason, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.Timestamp = entry.Timestamp.UTC()
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = domain.RoleCashier
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (email, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Email, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, password, role, active, created_at
		FROM app_users
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Email, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, email string, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE email = $1
	`, email, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func uniqueItemIDs(lines []domain.CheckoutLine) []int64 {
	set := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if line.ItemID < 1 {
			continue
		}
		set[line.ItemID] = struct{}{}
	}

	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
