package services

import (
	"context"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/infra"
	"cake-order-service/internal/orderform"
	"cake-order-service/internal/pricing"
	"cake-order-service/internal/repository"

	"go.uber.org/zap"
)

// CartService keeps carts consistent with the live catalog. Items are
// validated when written and again every time the cart is read; items that
// stopped validating are deleted on read.
type CartService struct {
	repo    repository.CartRepository
	catalog infra.ProductCatalog
	logger  *zap.Logger
}

func NewCartService(r repository.CartRepository, c infra.ProductCatalog, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{repo: r, catalog: c, logger: logger}
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint64, quantity int64, data domain.OrderFormData) (*domain.CartItem, error) {
	if err := s.checkLine(ctx, productID, quantity, data); err != nil {
		return nil, err
	}
	item := &domain.CartItem{
		UserID:        userID,
		ProductID:     productID,
		Quantity:      quantity,
		OrderFormData: data,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateCartItem changes quantity and, when data is non-nil, the form data.
// The resulting line is validated against the current product either way.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, itemID uint64, quantity int64, data domain.OrderFormData) (*domain.CartItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = item.OrderFormData
	}
	if err := s.checkLine(ctx, item.ProductID, quantity, data); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.OrderFormData = data
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) DeleteCartItem(ctx context.Context, userID, itemID uint64) error {
	ok, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// ListValidCartItems returns the user's cart priced against the live catalog.
// Lines whose product is gone, unsellable, short on stock or whose form data no
// longer validates are left out and deleted in one batch. A failed delete is
// logged; the next read retries it.
func (s *CartService) ListValidCartItems(ctx context.Context, userID uint64) ([]domain.CartLine, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make(map[uint64]*domain.Product)
	lines := make([]domain.CartLine, 0, len(items))
	var stale []uint64
	for _, item := range items {
		prod, seen := products[item.ProductID]
		if !seen {
			prod, err = s.catalog.GetProductById(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			products[item.ProductID] = prod
		}

		if reason := staleReason(prod, item); reason != "" {
			s.logger.Debug("cart item no longer valid",
				zap.Uint64("cartItemId", item.ID), zap.String("reason", reason))
			stale = append(stale, item.ID)
			continue
		}

		unit := prod.SalePrice + pricing.CustomFieldPrice(prod.OrderForm, item.OrderFormData)
		lines = append(lines, domain.CartLine{
			Item:        item,
			ProductName: prod.Name,
			StoreID:     prod.StoreID,
			UnitPrice:   unit,
			LinePrice:   unit * item.Quantity,
		})
	}

	if len(stale) > 0 {
		if err := s.repo.DeleteByIDs(ctx, stale); err != nil {
			s.logger.Warn("failed to prune cart items",
				zap.Uint64("userId", userID), zap.Uint64s("cartItemIds", stale), zap.Error(err))
		} else {
			s.logger.Info("pruned cart items",
				zap.Uint64("userId", userID), zap.Uint64s("cartItemIds", stale))
		}
	}
	return lines, nil
}

func staleReason(prod *domain.Product, item domain.CartItem) string {
	if prod == nil {
		return "product not found"
	}
	if err := prod.Sellability(); err != nil {
		return err.Error()
	}
	if prod.Stock < item.Quantity {
		return "out of stock"
	}
	if err := orderform.Validate(prod.OrderForm, item.OrderFormData); err != nil {
		return err.Error()
	}
	return ""
}

func (s *CartService) checkLine(ctx context.Context, productID uint64, quantity int64, data domain.OrderFormData) error {
	if quantity < 1 {
		return domain.NewError(domain.CodeInvalidQuantity, "quantity must be at least 1")
	}
	prod, err := s.catalog.GetProductById(ctx, productID)
	if err != nil {
		return err
	}
	if prod == nil {
		return domain.ErrProductNotFound
	}
	if err := prod.Sellability(); err != nil {
		return err
	}
	if prod.Stock < quantity {
		return domain.Errorf(domain.CodeProductOutOfStock, "only %d left in stock", prod.Stock)
	}
	return orderform.Validate(prod.OrderForm, data)
}

func (s *CartService) ownedItem(ctx context.Context, userID, itemID uint64) (*domain.CartItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != userID {
		return nil, domain.ErrCartItemNotFound
	}
	return item, nil
}
