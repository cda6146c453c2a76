package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/repository"
)

// ProductClient reads products from the catalog service over HTTP.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ProductClient) GetProductById(ctx context.Context, id uint64) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", id, err)
	}
	return &p, nil
}

// RepositoryCatalog serves the catalog straight from the products table.
type RepositoryCatalog struct {
	repo repository.ProductRepository
}

func NewRepositoryCatalog(repo repository.ProductRepository) *RepositoryCatalog {
	return &RepositoryCatalog{repo: repo}
}

func (c *RepositoryCatalog) GetProductById(ctx context.Context, id uint64) (*domain.Product, error) {
	return c.repo.FindByID(ctx, id)
}
