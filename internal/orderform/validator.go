// Package orderform validates buyer-submitted order form data against the
// product's current form schema.
package orderform

import (
	"sort"
	"strings"

	"cake-order-service/internal/domain"
)

// fieldKind is the closed set of shapes a schema field can take.
type fieldKind int

const (
	kindTextbox fieldKind = iota
	kindSingleSelect
	kindMultiSelect
	kindUnknown
)

func kindOf(f domain.OrderFormField) fieldKind {
	switch f.Type {
	case domain.FieldTextbox:
		return kindTextbox
	case domain.FieldSelectbox:
		if f.AllowMultiple {
			return kindMultiSelect
		}
		return kindSingleSelect
	}
	return kindUnknown
}

// value is submitted data normalised into one of its accepted shapes.
type value struct {
	isText bool
	isList bool
	text   string
	list   []string
}

func normalise(raw any) value {
	switch v := raw.(type) {
	case string:
		return value{isText: true, text: v}
	case []string:
		return value{isList: true, list: v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return value{}
			}
			out = append(out, s)
		}
		return value{isList: true, list: out}
	}
	return value{}
}

// Validate checks data against schema. It is pure and returns nil or a
// *domain.Error carrying one of the ORDER_FORM_* codes.
func Validate(schema *domain.OrderFormSchema, data domain.OrderFormData) error {
	if !schema.HasFields() {
		if len(data) > 0 {
			return domain.NewError(domain.CodeOrderFormDataInvalid, "product does not accept order form data")
		}
		return nil
	}
	if data == nil {
		return domain.NewError(domain.CodeOrderFormDataRequired, "order form data is required")
	}

	fields := make(map[string]domain.OrderFormField, len(schema.Fields))
	for _, f := range schema.Fields {
		fields[f.ID] = f
	}

	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if missingRequired(f, data) {
			return domain.Errorf(domain.CodeOrderFormFieldReq, "%s is required", fieldName(f))
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return domain.Errorf(domain.CodeOrderFormSchemaChange, "field %q is no longer part of the order form", key)
		}
	}

	for _, key := range keys {
		f := fields[key]
		raw := data[key]
		if raw == nil {
			continue
		}
		v := normalise(raw)
		if err := checkShape(f, v); err != nil {
			return err
		}
		if err := checkOptions(f, v); err != nil {
			return err
		}
	}
	return nil
}

func missingRequired(f domain.OrderFormField, data domain.OrderFormData) bool {
	raw, ok := data[f.ID]
	if !ok || raw == nil {
		return true
	}
	v := normalise(raw)
	switch kindOf(f) {
	case kindTextbox:
		return v.isText && strings.TrimSpace(v.text) == ""
	case kindSingleSelect:
		return v.isText && v.text == ""
	case kindMultiSelect:
		return v.isList && len(v.list) == 0
	}
	return false
}

func checkShape(f domain.OrderFormField, v value) error {
	switch kindOf(f) {
	case kindTextbox, kindSingleSelect:
		if v.isText {
			return nil
		}
	case kindMultiSelect:
		if v.isList && !hasDuplicates(v.list) {
			return nil
		}
	}
	return domain.Errorf(domain.CodeOrderFormFieldInvalid, "%s has an invalid value", fieldName(f))
}

// hasDuplicates reports whether an option was picked more than once.
func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

func checkOptions(f domain.OrderFormField, v value) error {
	if f.Type != domain.FieldSelectbox || f.Options == nil {
		return nil
	}
	offered := make(map[string]struct{}, len(f.Options))
	for _, o := range f.Options {
		offered[o.Value] = struct{}{}
	}

	selected := v.list
	if v.isText {
		// An empty single selection on an optional field means nothing was picked.
		if v.text == "" {
			return nil
		}
		selected = []string{v.text}
	}
	for _, s := range selected {
		if _, ok := offered[s]; !ok {
			return domain.Errorf(domain.CodeOrderFormSchemaChange, "option %q of %s is no longer offered", s, fieldName(f))
		}
	}
	return nil
}

// SelectedValues returns the option values picked for a selectbox field. Data
// is expected to have passed Validate.
func SelectedValues(f domain.OrderFormField, data domain.OrderFormData) []string {
	raw, ok := data[f.ID]
	if !ok || raw == nil {
		return nil
	}
	v := normalise(raw)
	if v.isList {
		return v.list
	}
	if v.isText && v.text != "" {
		return []string{v.text}
	}
	return nil
}

func fieldName(f domain.OrderFormField) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}
