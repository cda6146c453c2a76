package services

import (
	"context"
	"sync"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/infra"
	rabbit "cake-order-service/internal/infra/rabbitmq"
	"cake-order-service/internal/options"
	"cake-order-service/internal/ordernumber"
	"cake-order-service/internal/pricing"
	"cake-order-service/internal/repository"

	"go.uber.org/zap"
)

const OrderCreatedTopic = "order.created"

type OrderService struct {
	repo      repository.OrderRepository
	catalog   infra.ProductCatalog
	publisher rabbit.PublisherInterface
	allocator *ordernumber.Allocator
	logger    *zap.Logger

	publishing sync.WaitGroup
}

func NewOrderService(r repository.OrderRepository, c infra.ProductCatalog, pub rabbit.PublisherInterface, a *ordernumber.Allocator, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = rabbit.NoopPublisher{}
	}
	if a == nil {
		a = ordernumber.NewAllocator(r, ordernumber.Config{}, logger)
	}
	return &OrderService{
		repo:      r,
		catalog:   c,
		publisher: pub,
		allocator: a,
		logger:    logger,
	}
}

// OrderItemRequest is one line of a checkout as submitted by the buyer.
type OrderItemRequest struct {
	PickupDate       time.Time
	Size             options.Selection
	Flavor           options.Selection
	LetteringMessage *string
	RequestMessage   *string
	Quantity         int64
	ImageURLs        []string
}

type PickupInfo struct {
	ContactName  string
	ContactPhone string
}

type CreateOrderRequest struct {
	UserID        uint64
	ProductID     uint64
	Items         []OrderItemRequest
	TotalQuantity int64
	TotalPrice    int64
	Pickup        PickupInfo
}

type CreateOrderResult struct {
	OrderID uint64 `json:"id"`
}

// CreateOrder validates a checkout against the live catalog, recomputes its
// totals and persists it under a freshly allocated order number. Only the new
// order id is returned.
func (u *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	prod, err := u.catalog.GetProductById(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, domain.ErrProductNotFound
	}
	if err := prod.Sellability(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, domain.NewError(domain.CodeInvalidOrderItems, "order has no items")
	}

	resolver := options.NewResolver(prod)
	items := make([]domain.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity < 1 {
			return nil, domain.Errorf(domain.CodeInvalidOrderItems, "item %d: quantity must be at least 1", i)
		}
		if it.PickupDate.IsZero() {
			return nil, domain.Errorf(domain.CodeInvalidOrderItems, "item %d: pickup date is required", i)
		}
		size, err := resolver.Size(it.Size)
		if err != nil {
			return nil, err
		}
		flavor, err := resolver.Flavor(it.Flavor)
		if err != nil {
			return nil, err
		}

		itemPrice := pricing.ItemPrice(prod.SalePrice, size, flavor)
		items = append(items, buildOrderItem(it, size, flavor, itemPrice))
		lines = append(lines, pricing.Line{ItemPrice: itemPrice, Quantity: it.Quantity})
	}

	totalQuantity, totalPrice, err := pricing.Totals(lines)
	if err != nil {
		return nil, err
	}
	if totalQuantity != req.TotalQuantity {
		return nil, domain.Errorf(domain.CodeInvalidTotalQuantity,
			"total quantity %d does not match items (%d)", req.TotalQuantity, totalQuantity)
	}
	if totalPrice != req.TotalPrice {
		return nil, domain.Errorf(domain.CodeInvalidTotalPrice,
			"total price %d does not match items (%d)", req.TotalPrice, totalPrice)
	}

	order := &domain.Order{
		UserID:        req.UserID,
		ProductID:     prod.ID,
		StoreID:       prod.StoreID,
		TotalQuantity: totalQuantity,
		TotalPrice:    totalPrice,
		Status:        prod.InitialOrderStatus(),
		ContactName:   req.Pickup.ContactName,
		ContactPhone:  req.Pickup.ContactPhone,
		Items:         items,
	}

	_, err = u.allocator.Allocate(ctx, func(ctx context.Context, number string) error {
		order.ID = 0
		order.CreatedAt = time.Time{}
		order.UpdatedAt = time.Time{}
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		order.OrderNumber = number
		return u.repo.CreateWithItems(ctx, order)
	})
	if err != nil {
		if ordernumber.IsExhausted(err) {
			u.logger.Warn("order number retries exhausted",
				zap.Uint64("productId", req.ProductID), zap.Uint64("userId", req.UserID), zap.Error(err))
			return nil, err
		}
		if _, ok := domain.CodeOf(err); ok {
			return nil, err
		}
		u.logger.Error("order creation failed",
			zap.Uint64("productId", req.ProductID), zap.Uint64("userId", req.UserID), zap.Error(err))
		return nil, domain.WrapError(domain.CodeOrderCreateFailed, domain.KindInternal, "order could not be created", err)
	}

	u.logger.Info("order created",
		zap.Uint64("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("status", string(order.Status)))

	u.publishing.Add(1)
	go func(evt domain.OrderCreatedEvent) {
		defer u.publishing.Done()
		u.publishOrderCreatedEvent(context.Background(), evt)
	}(domain.NewOrderCreatedEvent(order))

	return &CreateOrderResult{OrderID: order.ID}, nil
}

func buildOrderItem(it OrderItemRequest, size, flavor *options.Snapshot, itemPrice int64) domain.OrderItem {
	item := domain.OrderItem{
		PickupDate:       it.PickupDate,
		LetteringMessage: it.LetteringMessage,
		RequestMessage:   it.RequestMessage,
		Quantity:         it.Quantity,
		ItemPrice:        itemPrice,
		ImageURLs:        append([]string{}, it.ImageURLs...),
	}
	if size != nil {
		id, name, price := size.ID, size.DisplayName, size.Price
		item.SizeID = &id
		item.SizeDisplayName = &name
		item.SizePrice = &price
		item.SizeLengthCm = size.LengthCm
		item.SizeDescription = size.Description
	}
	if flavor != nil {
		id, name, price := flavor.ID, flavor.DisplayName, flavor.Price
		item.FlavorID = &id
		item.FlavorDisplayName = &name
		item.FlavorPrice = &price
	}
	return item
}

func (u *OrderService) publishOrderCreatedEvent(ctx context.Context, evt domain.OrderCreatedEvent) {
	if err := u.publisher.Publish(ctx, OrderCreatedTopic, evt); err != nil {
		u.logger.Error("failed to publish order event",
			zap.String("topic", OrderCreatedTopic), zap.Uint64("orderId", evt.OrderID), zap.Error(err))
		return
	}
	u.logger.Debug("order event published", zap.Uint64("orderId", evt.OrderID))
}

// Wait blocks until in-flight event publications finish.
func (u *OrderService) Wait() {
	u.publishing.Wait()
}

func (u *OrderService) GetOrderById(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) GetOrderByProductId(ctx context.Context, productId uint64) ([]domain.Order, error) {
	orders, err := u.repo.FindByProductId(ctx, productId)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// ChangeOrderStatus moves an order along the status machine. The update is
// conditional on the status that was read, so a concurrent change wins and
// this call fails.
func (u *OrderService) ChangeOrderStatus(ctx context.Context, id uint64, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, domain.Errorf(domain.CodeInvalidStatusTransition, "unknown status %q", next)
	}
	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Status.CanTransition(next); err != nil {
		return nil, err
	}

	ok, err := u.repo.UpdateStatus(ctx, id, o.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Errorf(domain.CodeInvalidStatusTransition, "order %d changed concurrently", id)
	}

	u.logger.Info("order status changed",
		zap.Uint64("orderId", id), zap.String("from", string(o.Status)), zap.String("to", string(next)))
	o.Status = next
	return o, nil
}
