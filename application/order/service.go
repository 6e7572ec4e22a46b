/*
Package order application service for order placement and lifecycle.

Orders are priced from the catalog at placement, never from client input.
Each use case runs in one unit of work: the order, any cart changes and the
domain events written to the outbox commit together or not at all.
*/
package order

import (
	"context"
	"errors"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/pricing"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService order use cases
type ApplicationService struct {
	orders        order.Repository
	carts         cart.Repository
	domainService *order.DomainService
	engine        *pricing.Engine
	uow           shared.UnitOfWork
}

func NewApplicationService(
	orders order.Repository,
	carts cart.Repository,
	products catalog.Lookup,
	engine *pricing.Engine,
	uow shared.UnitOfWork,
) *ApplicationService {
	return &ApplicationService{
		orders:        orders,
		carts:         carts,
		domainService: order.NewDomainService(products),
		engine:        engine,
		uow:           uow,
	}
}

// materialize prices lines, applies the coupon and persists the new order.
// An invalid coupon fails the placement.
func (s *ApplicationService) materialize(ctx context.Context, customerID string, lines []order.LineRequest, couponCode string) (*order.Order, error) {
	requests, err := s.domainService.ResolveItems(ctx, lines)
	if err != nil {
		return nil, err
	}

	priced := make([]pricing.Line, len(requests))
	for i, req := range requests {
		priced[i] = pricing.Line{Price: req.UnitPrice, Quantity: req.Quantity, Selected: true}
	}
	quote, err := s.engine.Price(ctx, priced, couponCode)
	if err != nil {
		return nil, err
	}

	discount := order.Discount{Amount: quote.Discount}
	if quote.Applied {
		discount.CouponCode = quote.CouponCode
	}
	o, err := order.NewOrder(customerID, requests, discount)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.uow.RegisterNew(ctx, o)
	return o, nil
}

// PlaceOrder creates an order from product ids and quantities.
func (s *ApplicationService) PlaceOrder(ctx context.Context, actor shared.Actor, req PlaceOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, order.NewEmptyOrderError()
	}

	var o *order.Order
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.materialize(ctx, actor.CustomerID, toLineRequests(req.Items), req.CouponCode)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("Order placed",
		zap.String("order_id", o.ID()),
		zap.String("customer_id", o.CustomerID()),
		zap.String("amount_due", o.AmountDue().String()),
	)
	return toOrderResponse(o), nil
}

// Checkout converts the selected cart lines (all lines when none are
// selected) into an order and removes exactly those lines from the cart.
func (s *ApplicationService) Checkout(ctx context.Context, actor shared.Actor, req CheckoutRequest) (*OrderResponse, error) {
	var o *order.Order
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.LockByCustomerID(ctx, actor.CustomerID)
		if err != nil {
			if errors.Is(err, cart.ErrCartNotFound) {
				return order.NewEmptyOrderError()
			}
			return err
		}
		selected, err := c.Select(req.ItemIDs)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return order.NewEmptyOrderError()
		}

		lines := make([]order.LineRequest, len(selected))
		for i, item := range selected {
			lines[i] = order.LineRequest{ProductID: item.ProductID(), Quantity: item.Quantity()}
		}
		if o, err = s.materialize(ctx, actor.CustomerID, lines, req.CouponCode); err != nil {
			return err
		}

		for _, item := range selected {
			if _, err := c.RemoveItem(item.ID()); err != nil {
				return err
			}
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

	logger.Ctx(ctx).Info("Cart checked out",
		zap.String("order_id", o.ID()),
		zap.String("customer_id", o.CustomerID()),
		zap.Int("items", len(o.Items())),
	)
	return toOrderResponse(o), nil
}

func (s *ApplicationService) loadOwned(ctx context.Context, actor shared.Actor, orderID string) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AuthorizeOwner(o, actor); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *ApplicationService) GetOrder(ctx context.Context, actor shared.Actor, orderID string) (*OrderResponse, error) {
	o, err := s.loadOwned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrders the caller's orders, newest first.
func (s *ApplicationService) ListOrders(ctx context.Context, actor shared.Actor) ([]*OrderResponse, error) {
	orders, err := s.orders.FindByCustomerID(ctx, actor.CustomerID)
	if err != nil {
		return nil, err
	}
	resp := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return resp, nil
}

// ListOrderItems items of one order in placement order.
func (s *ApplicationService) ListOrderItems(ctx context.Context, actor shared.Actor, orderID string) ([]OrderItemResponse, error) {
	o, err := s.loadOwned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	items := o.Items()
	resp := make([]OrderItemResponse, len(items))
	for i, item := range items {
		resp[i] = toOrderItemResponse(item)
	}
	return resp, nil
}

func (s *ApplicationService) GetOrderItem(ctx context.Context, actor shared.Actor, itemID string) (*OrderItemResponse, error) {
	o, item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := order.AuthorizeOwner(o, actor); err != nil {
		return nil, err
	}
	resp := toOrderItemResponse(item)
	return &resp, nil
}

// UpdateStatus moves the order along its lifecycle. Only cancelling is open
// to the owner; the fulfilment transitions are administrative.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor shared.Actor, orderID string, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(o *order.Order) error {
		if err := order.AuthorizeTransition(o, actor, target); err != nil {
			return err
		}
		return o.TransitionTo(target)
	})
}

// Cancel cancels a pending or paid order on behalf of its owner or an admin.
func (s *ApplicationService) Cancel(ctx context.Context, actor shared.Actor, orderID string, req CancelOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *order.Order) error {
		if err := order.AuthorizeOwner(o, actor); err != nil {
			return err
		}
		return o.Cancel(req.Reason)
	})
}

// mutate loads the order, applies change (which authorizes first) and saves.
func (s *ApplicationService) mutate(ctx context.Context, orderID string, change func(o *order.Order) error) (*OrderResponse, error) {
	var o *order.Order
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if o, err = s.orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		if err := change(o); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		s.uow.RegisterDirty(ctx, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("Order updated", zap.String("order_id", o.ID()), zap.String("status", o.Status().String()))
	return toOrderResponse(o), nil
}

// Delete hard-deletes an order; administrators only. The order.deleted
// event is the audit record.
func (s *ApplicationService) Delete(ctx context.Context, actor shared.Actor, orderID string) error {
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.AuthorizeAdmin(actor); err != nil {
			return err
		}
		o.MarkDeleted(actor.CustomerID)
		if err := s.orders.Delete(ctx, o); err != nil {
			return err
		}
		s.uow.RegisterRemoved(ctx, o)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Ctx(ctx).Info("Order deleted", zap.String("order_id", orderID), zap.String("deleted_by", actor.CustomerID))
	return nil
}
