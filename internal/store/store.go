package store

import (
	"context"
	"errors"
	"time"

	"nosticpos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
)

type Repository interface {
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error)
	CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	ListSalesBetween(ctx context.Context, from time.Time, to time.Time) ([]domain.SaleRecord, error)
	RecordCheckout(ctx context.Context, lines []domain.CheckoutLine, at time.Time) ([]domain.SaleRecord, error)
	AppendStockHistory(ctx context.Context, entry domain.StockHistory) error
	ListStockHistory(ctx context.Context, itemID int64, limit int) ([]domain.StockHistory, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, email string, password string) error
}
