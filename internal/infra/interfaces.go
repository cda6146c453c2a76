package infra

import (
	"context"

	"cake-order-service/internal/domain"
)

// ProductCatalog reads the live catalog. A missing product is (nil, nil).
type ProductCatalog interface {
	GetProductById(ctx context.Context, id uint64) (*domain.Product, error)
}

var _ ProductCatalog = (*ProductClient)(nil)
var _ ProductCatalog = (*RepositoryCatalog)(nil)
