// Package catalog read side of the product catalog.
package catalog

import (
	"context"
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// ListProductsRequest query parameters for product listing
type ListProductsRequest struct {
	Category string `form:"category"`
	InStock  bool   `form:"in_stock"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// ProductResponse product as shown to clients
type ProductResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url"`
	Price       shared.Money `json:"price"`
	Stock       int          `json:"stock"`
	Available   bool         `json:"available"`
}

// ApplicationService catalog queries
type ApplicationService struct {
	products catalog.Repository
}

func NewApplicationService(products catalog.Repository) *ApplicationService {
	return &ApplicationService{products: products}
}

// ListProducts lists products, optionally restricted to one category or to
// products in stock.
func (s *ApplicationService) ListProducts(ctx context.Context, req ListProductsRequest) ([]ProductResponse, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category != "" && !catalog.ValidCategory(category) {
		return nil, shared.NewValidationError("product", "category", "unknown category "+req.Category)
	}

	products, err := s.products.List(ctx, catalog.Filter{
		Category:    category,
		InStockOnly: req.InStock,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return nil, err
	}
	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp, nil
}

// GetProduct returns catalog.ErrProductNotFound for unknown ids.
func (s *ApplicationService) GetProduct(ctx context.Context, productID string) (*ProductResponse, error) {
	p, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Stock:       p.Stock,
		Available:   p.Available(),
	}
}
