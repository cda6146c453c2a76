// Package options resolves cake size and flavor selections against a
// product's stored option catalog.
package options

import (
	"encoding/json"
	"math"

	"cake-order-service/internal/domain"
)

// Option is a catalog entry that survived parsing.
type Option struct {
	ID          string
	Visible     domain.Visibility
	DisplayName string
	Price       int64
	LengthCm    *float64
	Description *string
}

// Snapshot is the denormalized copy embedded into an order item.
type Snapshot struct {
	ID          string
	DisplayName string
	Price       int64
	LengthCm    *float64
	Description *string
}

// Parse decodes a stored option array. Entries that are not well formed are
// dropped instead of failing the whole catalog; a catalog that is not an
// array at all yields no options.
func Parse(raw json.RawMessage) []Option {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	out := make([]Option, 0, len(entries))
	for _, e := range entries {
		if opt, ok := parseEntry(e); ok {
			out = append(out, opt)
		}
	}
	return out
}

func parseEntry(raw json.RawMessage) (Option, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Option{}, false
	}

	id, ok := m["id"].(string)
	if !ok || id == "" {
		return Option{}, false
	}
	visible, ok := m["visible"].(string)
	if !ok || (visible != string(domain.VisibilityEnable) && visible != string(domain.VisibilityDisable)) {
		return Option{}, false
	}
	name, ok := m["displayName"].(string)
	if !ok {
		return Option{}, false
	}
	price, ok := m["price"].(float64)
	if !ok || price < 0 || price != math.Trunc(price) {
		return Option{}, false
	}

	opt := Option{
		ID:          id,
		Visible:     domain.Visibility(visible),
		DisplayName: name,
		Price:       int64(price),
	}
	if l, ok := m["lengthCm"].(float64); ok {
		opt.LengthCm = &l
	}
	if d, ok := m["description"].(string); ok {
		opt.Description = &d
	}
	return opt, true
}

// Selection is what a buyer submitted for one option dimension. Only ID is
// meaningful; the other fields exist so that fabricated details sent without
// an id can be rejected.
type Selection struct {
	ID          *string
	DisplayName *string
	Price       *int64
	LengthCm    *float64
	Description *string
}

func (s Selection) hasDetails() bool {
	return s.DisplayName != nil || s.Price != nil || s.LengthCm != nil || s.Description != nil
}

// Resolve looks up sel in catalog. It returns a nil snapshot when nothing was
// selected.
func Resolve(catalog []Option, sel Selection, kind string) (*Snapshot, error) {
	if sel.ID == nil {
		if sel.hasDetails() {
			return nil, domain.Errorf(domain.CodeInvalidOrderItems, "%s details were sent without a %s id", kind, kind)
		}
		return nil, nil
	}

	for _, opt := range catalog {
		if opt.ID != *sel.ID {
			continue
		}
		if opt.Visible != domain.VisibilityEnable {
			return nil, domain.Errorf(domain.CodeInvalidOrderItems, "%s %q is not available", kind, opt.ID)
		}
		return &Snapshot{
			ID:          opt.ID,
			DisplayName: opt.DisplayName,
			Price:       opt.Price,
			LengthCm:    opt.LengthCm,
			Description: opt.Description,
		}, nil
	}
	return nil, domain.Errorf(domain.CodeInvalidOrderItems, "%s %q does not exist", kind, *sel.ID)
}

// Resolver resolves both dimensions for one product.
type Resolver struct {
	sizes   []Option
	flavors []Option
}

// NewResolver parses the product's size and flavor catalogs once.
func NewResolver(p *domain.Product) *Resolver {
	return &Resolver{
		sizes:   Parse(p.SizeOptions),
		flavors: Parse(p.FlavorOptions),
	}
}

func (r *Resolver) Size(sel Selection) (*Snapshot, error) {
	return Resolve(r.sizes, sel, "size")
}

func (r *Resolver) Flavor(sel Selection) (*Snapshot, error) {
	return Resolve(r.flavors, sel, "flavor")
}
