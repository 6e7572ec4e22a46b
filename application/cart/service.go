/*
Package cart application service for the shopping cart.

Every mutation runs in one unit of work that locks the customer's cart row,
so concurrent adds of the same product serialize into a single line.
*/
package cart

import (
	"context"
	"errors"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/pricing"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService cart use cases
type ApplicationService struct {
	carts    cart.Repository
	products catalog.Lookup
	// display serves the product fields of cart views; never used to price
	display catalog.Lookup
	engine  *pricing.Engine
	uow     shared.UnitOfWork
}

// Option configures the ApplicationService.
type Option func(*ApplicationService)

// WithDisplayLookup reads product display data for cart views from a
// separate, possibly cached, lookup. Price snapshots always come from the
// lookup passed to NewApplicationService.
func WithDisplayLookup(display catalog.Lookup) Option {
	return func(s *ApplicationService) {
		if display != nil {
			s.display = display
		}
	}
}

func NewApplicationService(
	carts cart.Repository,
	products catalog.Lookup,
	engine *pricing.Engine,
	uow shared.UnitOfWork,
	opts ...Option,
) *ApplicationService {
	s := &ApplicationService{carts: carts, products: products, display: products, engine: engine, uow: uow}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockOrCreate returns the locked cart of customerID, creating it on first use.
// Must run inside a unit of work. A concurrent creator makes Save fail with a
// duplicate key or conflict, which the unit of work retries.
func (s *ApplicationService) lockOrCreate(ctx context.Context, customerID string) (*cart.Cart, error) {
	c, err := s.carts.LockByCustomerID(ctx, customerID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cart.ErrCartNotFound) {
		return nil, err
	}
	c, err = cart.NewCart(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreateCart idempotent.
func (s *ApplicationService) GetOrCreateCart(ctx context.Context, actor shared.Actor) (*cart.Cart, error) {
	var c *cart.Cart
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.lockOrCreate(ctx, actor.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem adds quantity of a product to the caller's cart. An existing line
// for the product is incremented and keeps its price snapshot.
func (s *ApplicationService) AddItem(ctx context.Context, actor shared.Actor, req AddItemRequest) (*LineItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, cart.NewInvalidQuantityError(req.Quantity)
	}

	var item cart.LineItem
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		product, err := s.products.FindProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		c, err := s.lockOrCreate(ctx, actor.CustomerID)
		if err != nil {
			return err
		}
		if item, err = c.AddItem(product, req.Quantity); err != nil {
			return err
		}
		if err := s.carts.Save(ctx, c); err != nil {
			return err
		}
		s.uow.RegisterDirty(ctx, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("Cart item added",
		zap.String("customer_id", actor.CustomerID),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", item.Quantity()),
	)
	resp := toLineItemResponse(item)
	return &resp, nil
}

// UpdateItemQuantity sets an absolute quantity; <= 0 is rejected and leaves
// the item unchanged.
func (s *ApplicationService) UpdateItemQuantity(ctx context.Context, actor shared.Actor, itemID string, req UpdateQuantityRequest) (*LineItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, cart.NewInvalidQuantityError(req.Quantity)
	}

	var item cart.LineItem
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.LockByItemID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := cart.AuthorizeOwner(c, actor); err != nil {
			return err
		}
		if item, err = c.UpdateQuantity(itemID, req.Quantity); err != nil {
			return err
		}
		if err := s.carts.Save(ctx, c); err != nil {
			return err
		}
		s.uow.RegisterDirty(ctx, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toLineItemResponse(item)
	return &resp, nil
}

// RemoveItem deletes a line from the caller's cart.
func (s *ApplicationService) RemoveItem(ctx context.Context, actor shared.Actor, itemID string) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.LockByItemID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := cart.AuthorizeOwner(c, actor); err != nil {
			return err
		}
		if _, err := c.RemoveItem(itemID); err != nil {
			return err
		}
		if err := s.carts.Save(ctx, c); err != nil {
			return err
		}
		s.uow.RegisterDirty(ctx, c)
		return nil
	})
}

// ListItems returns the cart in insertion order joined with current product
// display data. Lines whose product disappeared stay listed as unavailable.
func (s *ApplicationService) ListItems(ctx context.Context, actor shared.Actor) (*CartView, error) {
	c, err := s.GetOrCreateCart(ctx, actor)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		ID:         c.ID(),
		CustomerID: c.CustomerID(),
		Items:      make([]CartItemView, 0, c.Len()),
		Subtotal:   shared.ZeroMoney(s.engine.Currency()),
	}
	lines := make([]pricing.Line, 0, c.Len())
	for _, item := range c.Items() {
		iv := CartItemView{LineItemResponse: toLineItemResponse(item)}
		product, err := s.display.FindProduct(ctx, item.ProductID())
		switch {
		case err == nil:
			iv.ProductName = product.Name
			iv.ImageURL = product.ImageURL
			iv.Category = product.Category
			iv.Available = product.Available()
		case errors.Is(err, catalog.ErrProductNotFound):
			logger.Ctx(ctx).Warn("Cart references unknown product", zap.String("product_id", item.ProductID()))
		default:
			return nil, err
		}
		view.Items = append(view.Items, iv)
		lines = append(lines, pricing.Line{Price: item.UnitPrice(), Quantity: item.Quantity(), Selected: true})
	}

	if view.Subtotal, err = s.engine.ComputeSubtotal(lines); err != nil {
		return nil, err
	}
	return view, nil
}

// Quote prices the selected lines (all when none selected) at their snapshot
// prices. An invalid coupon returns the undiscounted quote together with
// pricing.ErrInvalidCoupon.
func (s *ApplicationService) Quote(ctx context.Context, actor shared.Actor, req QuoteRequest) (*QuoteResponse, error) {
	c, err := s.carts.FindByCustomerID(ctx, actor.CustomerID)
	if err != nil && !errors.Is(err, cart.ErrCartNotFound) {
		return nil, err
	}

	var selected []cart.LineItem
	if c != nil {
		if selected, err = c.Select(req.ItemIDs); err != nil {
			return nil, err
		}
	} else if len(req.ItemIDs) > 0 {
		return nil, cart.NewItemNotFoundError(req.ItemIDs[0])
	}

	lines := make([]pricing.Line, len(selected))
	ids := make([]string, len(selected))
	for i, item := range selected {
		lines[i] = pricing.Line{Price: item.UnitPrice(), Quantity: item.Quantity(), Selected: true}
		ids[i] = item.ID()
	}

	quote, err := s.engine.Price(ctx, lines, req.CouponCode)
	if err != nil && !errors.Is(err, pricing.ErrInvalidCoupon) {
		return nil, err
	}
	return &QuoteResponse{ItemIDs: ids, Quote: quote}, err
}

func toLineItemResponse(item cart.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:        item.ID(),
		CartID:    item.CartID(),
		ProductID: item.ProductID(),
		Quantity:  item.Quantity(),
		UnitPrice: item.UnitPrice(),
		Subtotal:  item.Subtotal(),
		AddedAt:   item.AddedAt(),
	}
}
