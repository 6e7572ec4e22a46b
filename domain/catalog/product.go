/*
Package catalog read-only view of the product catalog.

Products are owned by the catalog collaborator; the cart and order
subdomains only resolve them to obtain a current price and display data.
Callers must not assume a price is stable across lookups.
*/
package catalog

import (
	"context"
	"errors"

	"storefront/domain/shared"
)

// Categories accepted by the storefront.
var Categories = []string{"gpu", "cpu", "ram", "motherboard", "storage", "case", "psu", "peripherals"}

// ErrProductNotFound product identifier does not resolve
var ErrProductNotFound = errors.New("product not found")

// Product catalog entry.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url"`
	Price       shared.Money `json:"price"`
	Stock       int          `json:"stock"`
}

// Available reports whether the product currently has stock.
func (p *Product) Available() bool { return p.Stock > 0 }

// Lookup resolves a product identifier to its current state.
type Lookup interface {
	FindProduct(ctx context.Context, productID string) (*Product, error)
}

// Filter listing criteria.
type Filter struct {
	Category    string
	InStockOnly bool
	Limit       int
	Offset      int
}

// Repository lookup plus listing.
type Repository interface {
	Lookup
	List(ctx context.Context, filter Filter) ([]*Product, error)
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// NewProductNotFoundError wraps ErrProductNotFound with the missing id.
func NewProductNotFoundError(productID string) error {
	return shared.NewDomainError(ErrProductNotFound, "product", "product_id", "product not found: "+productID)
}
