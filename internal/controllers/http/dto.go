package http

import (
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/options"
	"cake-order-service/internal/services"
)

type AddCartItemRequest struct {
	ProductID     uint64               `json:"productId" binding:"required"`
	Quantity      int64                `json:"quantity"`
	OrderFormData domain.OrderFormData `json:"orderFormData"`
}

type UpdateCartItemRequest struct {
	Quantity      int64                `json:"quantity"`
	OrderFormData domain.OrderFormData `json:"orderFormData"`
}

// OrderItemRequest carries size and flavor details only so that the service
// can reject details that were sent without an option id.
type OrderItemRequest struct {
	PickupDate        time.Time `json:"pickupDate"`
	SizeID            *string   `json:"sizeId"`
	SizeDisplayName   *string   `json:"sizeDisplayName"`
	SizePrice         *int64    `json:"sizePrice"`
	SizeLengthCm      *float64  `json:"sizeLengthCm"`
	SizeDescription   *string   `json:"sizeDescription"`
	FlavorID          *string   `json:"flavorId"`
	FlavorDisplayName *string   `json:"flavorDisplayName"`
	FlavorPrice       *int64    `json:"flavorPrice"`
	LetteringMessage  *string   `json:"letteringMessage"`
	RequestMessage    *string   `json:"requestMessage"`
	Quantity          int64     `json:"quantity"`
	ImageURLs         []string  `json:"imageUrls"`
}

type CreateOrderRequest struct {
	ProductID     uint64             `json:"productId" binding:"required"`
	Items         []OrderItemRequest `json:"items"`
	TotalQuantity int64              `json:"totalQuantity"`
	TotalPrice    int64              `json:"totalPrice" binding:"min=0"`
	ContactName   string             `json:"contactName"`
	ContactPhone  string             `json:"contactPhone"`
}

type CreateOrderResponse struct {
	ID uint64 `json:"id"`
}

type ChangeOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (r CreateOrderRequest) toService(userID uint64) services.CreateOrderRequest {
	items := make([]services.OrderItemRequest, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, services.OrderItemRequest{
			PickupDate: it.PickupDate,
			Size: options.Selection{
				ID:          it.SizeID,
				DisplayName: it.SizeDisplayName,
				Price:       it.SizePrice,
				LengthCm:    it.SizeLengthCm,
				Description: it.SizeDescription,
			},
			Flavor: options.Selection{
				ID:          it.FlavorID,
				DisplayName: it.FlavorDisplayName,
				Price:       it.FlavorPrice,
			},
			LetteringMessage: it.LetteringMessage,
			RequestMessage:   it.RequestMessage,
			Quantity:         it.Quantity,
			ImageURLs:        it.ImageURLs,
		})
	}
	return services.CreateOrderRequest{
		UserID:        userID,
		ProductID:     r.ProductID,
		Items:         items,
		TotalQuantity: r.TotalQuantity,
		TotalPrice:    r.TotalPrice,
		Pickup: services.PickupInfo{
			ContactName:  r.ContactName,
			ContactPhone: r.ContactPhone,
		},
	}
}
