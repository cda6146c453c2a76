package domain

import "time"

// CartItem is one line of a user's cart.
type CartItem struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint64        `json:"userId" gorm:"not null;index"`
	ProductID     uint64        `json:"productId" gorm:"not null;index"`
	Quantity      int64         `json:"quantity" gorm:"not null"`
	OrderFormData OrderFormData `json:"orderFormData,omitempty" gorm:"type:json;serializer:json"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CartLine is a cart item that passed read-time validation, priced against the
// live catalog.
type CartLine struct {
	Item        CartItem `json:"item"`
	ProductName string   `json:"productName"`
	StoreID     uint64   `json:"storeId"`
	UnitPrice   int64    `json:"unitPrice"`
	LinePrice   int64    `json:"linePrice"`
}
