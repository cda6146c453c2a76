package domain

import "time"

type OrderCreatedEvent struct {
	OrderID       uint64      `json:"orderId"`
	OrderNumber   string      `json:"orderNumber"`
	UserID        uint64      `json:"userId"`
	ProductID     uint64      `json:"productId"`
	StoreID       uint64      `json:"storeId"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalPrice    int64       `json:"totalPrice"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		ProductID:     o.ProductID,
		StoreID:       o.StoreID,
		TotalQuantity: o.TotalQuantity,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}
