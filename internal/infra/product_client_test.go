package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cake-order-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductClient_GetProductById(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id":1,"storeId":3,"name":"Strawberry","productType":"BASIC_CAKE",
				"status":"ACTIVE","visibility":"ENABLE","salePrice":45000,"stock":4,
				"sizeOptions":[{"id":"s1","visible":"ENABLE","displayName":"1호","price":5000}],
				"orderForm":{"fields":[{"id":"note","type":"textbox","label":"Note","required":false}]}
			}`))
		case "/products/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL, time.Second)

	p, err := client.GetProductById(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint64(3), p.StoreID)
	assert.Equal(t, domain.ProductTypeBasic, p.ProductType)
	assert.Equal(t, int64(45000), p.SalePrice)
	assert.JSONEq(t, `[{"id":"s1","visible":"ENABLE","displayName":"1호","price":5000}]`, string(p.SizeOptions))
	require.NotNil(t, p.OrderForm)
	assert.Len(t, p.OrderForm.Fields, 1)

	p, err = client.GetProductById(context.Background(), 2)
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = client.GetProductById(context.Background(), 3)
	assert.ErrorContains(t, err, "status 502")
}
