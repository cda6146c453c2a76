// Package memory holds in-process repositories used for local runs without a
// database and for tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/repository"
)

type OrderRepo struct {
	mu       sync.RWMutex
	m        map[uint64]*domain.Order
	byNumber map[string]uint64
	nextID   uint64
	nextItem uint64
	budget   *repository.TxBudget
	now      func() time.Time
}

func NewOrderRepo(budget *repository.TxBudget) *OrderRepo {
	return &OrderRepo{
		m:        make(map[uint64]*domain.Order),
		byNumber: make(map[string]uint64),
		budget:   budget,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the creation timestamp source.
func (r *OrderRepo) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *OrderRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, o := range r.m {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) CreateWithItems(ctx context.Context, order *domain.Order) error {
	return r.budget.Run(ctx, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()

		if _, taken := r.byNumber[order.OrderNumber]; taken {
			return &repository.UniqueViolationError{
				Constraint: "uk_orders_order_number",
				Column:     "order_number",
			}
		}

		r.nextID++
		now := r.now()
		order.ID = r.nextID
		order.CreatedAt = now
		order.UpdatedAt = now
		for i := range order.Items {
			r.nextItem++
			order.Items[i].ID = r.nextItem
			order.Items[i].OrderID = order.ID
		}

		r.m[order.ID] = copyOrder(order)
		r.byNumber[order.OrderNumber] = order.ID
		return nil
	})
}

func (r *OrderRepo) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *OrderRepo) FindByProductId(_ context.Context, productId uint64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.m {
		if o.ProductID == productId {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id uint64, from, to domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = r.now()
	return true, nil
}

// Len returns the number of stored orders.
func (r *OrderRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

type CartRepo struct {
	mu     sync.RWMutex
	m      map[uint64]*domain.CartItem
	nextID uint64
}

func NewCartRepo() *CartRepo {
	return &CartRepo{m: make(map[uint64]*domain.CartItem)}
}

func (r *CartRepo) ListByUser(_ context.Context, userID uint64) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.CartItem
	for _, it := range r.m {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CartRepo) FindByID(_ context.Context, id uint64) (*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *CartRepo) Create(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	item.ID = r.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	c := *item
	r.m[item.ID] = &c
	return nil
}

func (r *CartRepo) Update(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.m[item.ID]
	if !ok {
		return nil
	}
	existing.Quantity = item.Quantity
	existing.OrderFormData = item.OrderFormData
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CartRepo) Delete(_ context.Context, userID, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.m[id]
	if !ok || it.UserID != userID {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}

func (r *CartRepo) DeleteByIDs(_ context.Context, ids []uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.m, id)
	}
	return nil
}

// ProductRepo is a product table held in memory.
type ProductRepo struct {
	mu sync.RWMutex
	m  map[uint64]*domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{m: make(map[uint64]*domain.Product)}
}

// Put stores or replaces a product.
func (r *ProductRepo) Put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	r.m[p.ID] = &c
}

// Load stores every product of a JSON array read from src.
func (r *ProductRepo) Load(src io.Reader) (int, error) {
	var products []domain.Product
	if err := json.NewDecoder(src).Decode(&products); err != nil {
		return 0, fmt.Errorf("decode products: %w", err)
	}
	for i := range products {
		if products[i].ID == 0 {
			return 0, fmt.Errorf("product at index %d has no id", i)
		}
		r.Put(&products[i])
	}
	return len(products), nil
}

func (r *ProductRepo) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

var (
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.CartRepository    = (*CartRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
)
