package domain

import "encoding/json"

type ProductType string

const (
	// ProductTypeBasic is a ready-made cake sold from stock.
	ProductTypeBasic ProductType = "BASIC_CAKE"
	// ProductTypeCustom is made to order and needs seller confirmation.
	ProductTypeCustom ProductType = "CUSTOM_CAKE"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

// Visibility is shared by products and their size/flavor options.
type Visibility string

const (
	VisibilityEnable  Visibility = "ENABLE"
	VisibilityDisable Visibility = "DISABLE"
)

// Product is the catalog view this service reads. Size and flavor options are
// kept as the raw stored JSON; they are parsed defensively at resolution time.
type Product struct {
	ID            uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreID       uint64           `json:"storeId" gorm:"not null;index"`
	Name          string           `json:"name" gorm:"size:255;not null"`
	ProductType   ProductType      `json:"productType" gorm:"size:32;not null"`
	Status        ProductStatus    `json:"status" gorm:"size:32;not null"`
	Visibility    Visibility       `json:"visibility" gorm:"size:16;not null"`
	SalePrice     int64            `json:"salePrice" gorm:"not null"`
	Stock         int64            `json:"stock" gorm:"not null"`
	SizeOptions   json.RawMessage  `json:"sizeOptions,omitempty" gorm:"type:json"`
	FlavorOptions json.RawMessage  `json:"flavorOptions,omitempty" gorm:"type:json"`
	OrderForm     *OrderFormSchema `json:"orderForm,omitempty" gorm:"type:json;serializer:json"`
}

// Sellability returns nil when the product can currently be ordered, otherwise
// the typed reason it cannot.
func (p *Product) Sellability() error {
	if p.Status != ProductActive {
		return NewError(CodeProductInactive, "product is not on sale")
	}
	if p.Visibility != VisibilityEnable {
		return NewError(CodeProductNotAvailable, "product is not available")
	}
	return nil
}

// InitialOrderStatus is the status a new order for this product starts in.
func (p *Product) InitialOrderStatus() OrderStatus {
	if p.ProductType == ProductTypeBasic {
		return StatusConfirmed
	}
	return StatusPending
}
