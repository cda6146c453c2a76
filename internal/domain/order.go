package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCanceled  OrderStatus = "CANCELED"
)

type Order struct {
	ID            uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber   string      `json:"orderNumber" gorm:"size:32;not null;uniqueIndex:uk_orders_order_number"`
	UserID        uint64      `json:"userId" gorm:"not null;index"`
	ProductID     uint64      `json:"productId" gorm:"not null;index"`
	StoreID       uint64      `json:"storeId" gorm:"not null;index"`
	TotalQuantity int64       `json:"totalQuantity" gorm:"not null"`
	TotalPrice    int64       `json:"totalPrice" gorm:"not null"`
	Status        OrderStatus `json:"status" gorm:"size:16;not null;default:'PENDING'"`
	ContactName   string      `json:"contactName" gorm:"size:64"`
	ContactPhone  string      `json:"contactPhone" gorm:"size:32"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is an immutable snapshot of what was ordered. Size and flavor
// details are copied from the catalog at order time.
type OrderItem struct {
	ID                uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           uint64    `json:"orderId" gorm:"not null;index"`
	PickupDate        time.Time `json:"pickupDate" gorm:"not null"`
	SizeID            *string   `json:"sizeId,omitempty" gorm:"size:64"`
	SizeDisplayName   *string   `json:"sizeDisplayName,omitempty" gorm:"size:128"`
	SizeLengthCm      *float64  `json:"sizeLengthCm,omitempty"`
	SizeDescription   *string   `json:"sizeDescription,omitempty" gorm:"size:512"`
	SizePrice         *int64    `json:"sizePrice,omitempty"`
	FlavorID          *string   `json:"flavorId,omitempty" gorm:"size:64"`
	FlavorDisplayName *string   `json:"flavorDisplayName,omitempty" gorm:"size:128"`
	FlavorPrice       *int64    `json:"flavorPrice,omitempty"`
	LetteringMessage  *string   `json:"letteringMessage,omitempty" gorm:"size:512"`
	RequestMessage    *string   `json:"requestMessage,omitempty" gorm:"size:1024"`
	Quantity          int64     `json:"quantity" gorm:"not null"`
	ItemPrice         int64     `json:"itemPrice" gorm:"not null"`
	ImageURLs         []string  `json:"imageUrls" gorm:"type:json;serializer:json"`
}

// CanTransition reports whether an order may move from s to next. CONFIRMED
// and CANCELED are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) error {
	if s == StatusConfirmed && next != StatusConfirmed {
		return NewError(CodeCannotRevertConfirmed, "confirmed orders cannot change status")
	}
	if s == StatusPending && (next == StatusConfirmed || next == StatusCanceled) {
		return nil
	}
	return Errorf(CodeInvalidStatusTransition, "cannot move order from %s to %s", s, next)
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}
