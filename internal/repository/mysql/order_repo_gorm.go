package mysql

import (
	"context"
	"errors"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db     *gorm.DB
	budget *repository.TxBudget
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, budget *repository.TxBudget, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderRepo{db: db, budget: budget, logger: logger}
}

func (r *orderRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&n).Error
	return n, err
}

// CreateWithItems inserts the order row and its items in one transaction
// bounded by the repository's transaction budget.
func (r *orderRepo) CreateWithItems(ctx context.Context, order *domain.Order) error {
	err := r.budget.Run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
				return err
			}
			if order.ID == 0 {
				return errors.New("failed to assign order ID")
			}
			if len(order.Items) == 0 {
				return nil
			}
			for i := range order.Items {
				order.Items[i].OrderID = order.ID
			}
			return tx.Create(&order.Items).Error
		})
	})
	if err != nil {
		order.ID = 0
		err = translateError(err)
		if _, ok := repository.AsUniqueViolation(err); !ok {
			r.logger.Error("order insert failed", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		}
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByProductId(ctx context.Context, productId uint64) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Where("product_id = ?", productId).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
