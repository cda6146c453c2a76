package services

import (
	"context"
	"encoding/json"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/options"
)

const (
	TestProductID  = uint64(1)
	TestStoreID    = uint64(7)
	TestUserID     = uint64(42)
	TestSalePrice  = int64(45000)
	TestSizePrice  = int64(5000)
	TestStockLevel = int64(10)
)

func CreateMockProduct(id uint64, productType domain.ProductType) *domain.Product {
	return &domain.Product{
		ID:          id,
		StoreID:     TestStoreID,
		Name:        "Strawberry Cake",
		ProductType: productType,
		Status:      domain.ProductActive,
		Visibility:  domain.VisibilityEnable,
		SalePrice:   TestSalePrice,
		Stock:       TestStockLevel,
		SizeOptions: json.RawMessage(`[
			{"id":"s1","visible":"ENABLE","displayName":"1호","price":5000,"lengthCm":15},
			{"id":"s2","visible":"DISABLE","displayName":"2호","price":9000}
		]`),
		FlavorOptions: json.RawMessage(`[{"id":"f1","visible":"ENABLE","displayName":"Vanilla","price":0}]`),
	}
}

func CreateMockFormProduct(id uint64, values ...string) *domain.Product {
	p := CreateMockProduct(id, domain.ProductTypeCustom)
	opts := make([]domain.OrderFormOption, 0, len(values))
	for _, v := range values {
		opts = append(opts, domain.OrderFormOption{Value: v, Label: v, Price: 3000})
	}
	p.OrderForm = &domain.OrderFormSchema{Fields: []domain.OrderFormField{
		{ID: "size", Type: domain.FieldSelectbox, Label: "Size", Required: true, Options: opts},
	}}
	return p
}

func strPtr(s string) *string { return &s }

func sizedItem(quantity int64) OrderItemRequest {
	return OrderItemRequest{
		PickupDate: time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC),
		Size:       options.Selection{ID: strPtr("s1")},
		Flavor:     options.Selection{ID: strPtr("f1")},
		Quantity:   quantity,
	}
}

func noSleep(context.Context, time.Duration) error { return nil }
