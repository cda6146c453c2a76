package orderform

import (
	"encoding/json"
	"testing"

	"cake-order-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeSchema() *domain.OrderFormSchema {
	return &domain.OrderFormSchema{Fields: []domain.OrderFormField{
		{
			ID:       "size",
			Type:     domain.FieldSelectbox,
			Label:    "Size",
			Required: true,
			Options: []domain.OrderFormOption{
				{Value: "1호", Label: "1호", Price: 0},
				{Value: "2호", Label: "2호", Price: 5000},
			},
		},
		{ID: "note", Type: domain.FieldTextbox, Label: "Note"},
		{
			ID:            "toppings",
			Type:          domain.FieldSelectbox,
			Label:         "Toppings",
			AllowMultiple: true,
			Options: []domain.OrderFormOption{
				{Value: "berry", Price: 3000},
				{Value: "choco", Price: 2000},
			},
		},
	}}
}

func assertCode(t *testing.T, err error, want domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	code, ok := domain.CodeOf(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, want, code)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		schema   *domain.OrderFormSchema
		data     domain.OrderFormData
		wantCode domain.ErrorCode
	}{
		{name: "no schema and no data", schema: nil, data: nil},
		{name: "empty schema and empty data", schema: &domain.OrderFormSchema{}, data: domain.OrderFormData{}},
		{name: "data without schema", schema: nil, data: domain.OrderFormData{"size": "1호"}, wantCode: domain.CodeOrderFormDataInvalid},
		{name: "schema without data", schema: sizeSchema(), data: nil, wantCode: domain.CodeOrderFormDataRequired},
		{name: "required select missing", schema: sizeSchema(), data: domain.OrderFormData{}, wantCode: domain.CodeOrderFormFieldReq},
		{name: "required select empty", schema: sizeSchema(), data: domain.OrderFormData{"size": ""}, wantCode: domain.CodeOrderFormFieldReq},
		{name: "valid single select", schema: sizeSchema(), data: domain.OrderFormData{"size": "2호"}},
		{name: "valid with optional fields", schema: sizeSchema(), data: domain.OrderFormData{
			"size": "1호", "note": "happy birthday", "toppings": []any{"berry", "choco"},
		}},
		{name: "unknown key", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "color": "red"}, wantCode: domain.CodeOrderFormSchemaChange},
		{name: "textbox with list", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "note": []any{"a"}}, wantCode: domain.CodeOrderFormFieldInvalid},
		{name: "multi select with string", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "toppings": "berry"}, wantCode: domain.CodeOrderFormFieldInvalid},
		{name: "multi select with non string element", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "toppings": []any{"berry", 3.0}}, wantCode: domain.CodeOrderFormFieldInvalid},
		{name: "single select with number", schema: sizeSchema(), data: domain.OrderFormData{"size": 1.0}, wantCode: domain.CodeOrderFormFieldInvalid},
		{name: "removed single option", schema: sizeSchema(), data: domain.OrderFormData{"size": "3호"}, wantCode: domain.CodeOrderFormSchemaChange},
		{name: "removed multi option", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "toppings": []string{"berry", "mint"}}, wantCode: domain.CodeOrderFormSchemaChange},
		{name: "multi select picks an option twice", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "toppings": []any{"berry", "berry"}}, wantCode: domain.CodeOrderFormFieldInvalid},
		{name: "empty optional multi select", schema: sizeSchema(), data: domain.OrderFormData{"size": "1호", "toppings": []any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, tt.data)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestValidate_RequiredTextbox(t *testing.T) {
	schema := &domain.OrderFormSchema{Fields: []domain.OrderFormField{
		{ID: "lettering", Type: domain.FieldTextbox, Label: "Lettering", Required: true},
	}}

	for _, blank := range []string{"", " ", "\t\n  "} {
		assertCode(t, Validate(schema, domain.OrderFormData{"lettering": blank}), domain.CodeOrderFormFieldReq)
	}
	assertCode(t, Validate(schema, domain.OrderFormData{}), domain.CodeOrderFormFieldReq)
	assert.NoError(t, Validate(schema, domain.OrderFormData{"lettering": "Congrats"}))
}

func TestValidate_KeyFromEarlierSchemaVersion(t *testing.T) {
	previous := sizeSchema()
	data := domain.OrderFormData{"size": "1호", "note": "hello"}
	require.NoError(t, Validate(previous, data))

	current := &domain.OrderFormSchema{Fields: previous.Fields[:1]}
	assertCode(t, Validate(current, data), domain.CodeOrderFormSchemaChange)
}

func TestValidate_RemovedOptionAfterCapture(t *testing.T) {
	schema := sizeSchema()
	data := domain.OrderFormData{"size": "1호"}
	require.NoError(t, Validate(schema, data))

	schema.Fields[0].Options = schema.Fields[0].Options[1:]
	assertCode(t, Validate(schema, data), domain.CodeOrderFormSchemaChange)
}

func TestValidate_DecodedJSON(t *testing.T) {
	var data domain.OrderFormData
	require.NoError(t, json.Unmarshal([]byte(`{"size":"2호","toppings":["choco"]}`), &data))
	assert.NoError(t, Validate(sizeSchema(), data))
}

func TestSelectedValues(t *testing.T) {
	schema := sizeSchema()
	data := domain.OrderFormData{"size": "2호", "toppings": []any{"berry", "choco"}}

	assert.Equal(t, []string{"2호"}, SelectedValues(schema.Fields[0], data))
	assert.Equal(t, []string{"berry", "choco"}, SelectedValues(schema.Fields[2], data))
	assert.Nil(t, SelectedValues(schema.Fields[1], domain.OrderFormData{}))
}
