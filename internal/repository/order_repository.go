package repository

import (
	"context"
	"time"

	"cake-order-service/internal/domain"
)

type OrderRepository interface {
	// CountCreatedBetween counts orders with from <= created_at < to.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	// CreateWithItems persists the order and its items in one bounded transaction.
	CreateWithItems(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByProductId(ctx context.Context, productId uint64) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another and reports
	// whether a row was changed.
	UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus) (bool, error)
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	FindByID(ctx context.Context, id uint64) (*domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	Update(ctx context.Context, item *domain.CartItem) error
	Delete(ctx context.Context, userID, id uint64) (bool, error)
	// DeleteByIDs removes all listed items in one statement. Ids that no
	// longer exist are ignored.
	DeleteByIDs(ctx context.Context, ids []uint64) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
}
