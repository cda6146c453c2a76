package domain

type FieldType string

const (
	FieldTextbox   FieldType = "textbox"
	FieldSelectbox FieldType = "selectbox"
)

// OrderFormSchema describes the extra fields a buyer fills in for a product.
type OrderFormSchema struct {
	Fields []OrderFormField `json:"fields"`
}

type OrderFormField struct {
	ID            string            `json:"id"`
	Type          FieldType         `json:"type"`
	Label         string            `json:"label"`
	Required      bool              `json:"required"`
	AllowMultiple bool              `json:"allowMultiple,omitempty"`
	Options       []OrderFormOption `json:"options,omitempty"`
	Placeholder   string            `json:"placeholder,omitempty"`
}

type OrderFormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Price int64  `json:"price"`
}

// OrderFormData maps field ids to a string or a list of strings. It arrives
// from buyers as loosely typed JSON and is never trusted before validation.
type OrderFormData map[string]any

// HasFields reports whether the schema declares at least one field.
func (s *OrderFormSchema) HasFields() bool {
	return s != nil && len(s.Fields) > 0
}
