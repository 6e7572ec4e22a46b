package order

import (
	"context"
	"math"

	"storefront/domain/catalog"
)

// MaxItemQuantity upper bound of an order item quantity after merging duplicates.
const MaxItemQuantity = math.MaxInt32

// LineRequest an unpriced product/quantity pair from a caller
type LineRequest struct {
	ProductID string
	Quantity  int
}

// DomainService order domain service.
// It reads from the catalog but never persists anything.
type DomainService struct {
	products catalog.Lookup
}

// NewDomainService creates the order domain service.
func NewDomainService(products catalog.Lookup) *DomainService {
	return &DomainService{products: products}
}

// ResolveItems validates quantities, merges duplicate product ids (first
// occurrence keeps its position) and prices each line at the current catalog
// price. Client-supplied prices never reach this point.
func (s *DomainService) ResolveItems(ctx context.Context, lines []LineRequest) ([]ItemRequest, error) {
	if len(lines) == 0 {
		return nil, NewEmptyOrderError()
	}

	order := make([]string, 0, len(lines))
	quantities := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > MaxItemQuantity {
			return nil, NewInvalidQuantityError(line.ProductID, line.Quantity)
		}
		merged, seen := quantities[line.ProductID]
		if !seen {
			order = append(order, line.ProductID)
		}
		if merged > MaxItemQuantity-line.Quantity {
			return nil, NewInvalidQuantityError(line.ProductID, line.Quantity)
		}
		quantities[line.ProductID] = merged + line.Quantity
	}

	items := make([]ItemRequest, 0, len(order))
	for _, productID := range order {
		product, err := s.products.FindProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		items = append(items, ItemRequest{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantities[productID],
			UnitPrice:   product.Price,
		})
	}
	return items, nil
}
