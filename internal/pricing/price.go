// Package pricing computes authoritative prices on the server side.
package pricing

import (
	"math"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/options"
	"cake-order-service/internal/orderform"
)

// ItemPrice is the unit price of an order item.
func ItemPrice(basePrice int64, size, flavor *options.Snapshot) int64 {
	price := basePrice
	if size != nil {
		price += size.Price
	}
	if flavor != nil {
		price += flavor.Price
	}
	return price
}

// CustomFieldPrice sums the declared price of every option selected across
// the schema's selectbox fields. Textboxes and unselected fields add nothing.
// Data is expected to have passed orderform.Validate.
func CustomFieldPrice(schema *domain.OrderFormSchema, data domain.OrderFormData) int64 {
	if !schema.HasFields() || len(data) == 0 {
		return 0
	}
	var total int64
	for _, f := range schema.Fields {
		if f.Type != domain.FieldSelectbox {
			continue
		}
		prices := make(map[string]int64, len(f.Options))
		for _, o := range f.Options {
			prices[o.Value] = o.Price
		}
		for _, v := range orderform.SelectedValues(f, data) {
			total += prices[v]
		}
	}
	return total
}

// Line is one priced line used for aggregate verification.
type Line struct {
	ItemPrice int64
	Quantity  int64
}

// Totals returns Σ quantity and Σ itemPrice×quantity. Negative lines and
// sums that do not fit in an int64 are rejected with INVALID_ORDER_ITEMS.
func Totals(lines []Line) (quantity, price int64, err error) {
	for _, l := range lines {
		if l.Quantity < 0 || l.ItemPrice < 0 {
			return 0, 0, domain.NewError(domain.CodeInvalidOrderItems, "negative quantity or price")
		}
		if l.ItemPrice != 0 && l.Quantity > math.MaxInt64/l.ItemPrice {
			return 0, 0, domain.NewError(domain.CodeInvalidOrderItems, "line total is too large")
		}
		lineTotal := l.ItemPrice * l.Quantity
		if quantity > math.MaxInt64-l.Quantity || price > math.MaxInt64-lineTotal {
			return 0, 0, domain.NewError(domain.CodeInvalidOrderItems, "order total is too large")
		}
		quantity += l.Quantity
		price += lineTotal
	}
	return quantity, price, nil
}
