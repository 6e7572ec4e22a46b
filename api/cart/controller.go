/*
Package cart shopping cart endpoints. Every route requires a bearer token;
the cart is always the caller's own.
*/
package cart

import (
	stdErrors "errors"
	"io"

	"storefront/api/ctxutil"
	"storefront/api/response"
	cartapp "storefront/application/cart"
	orderapp "storefront/application/order"
	"storefront/domain/pricing"

	"github.com/gin-gonic/gin"
)

// Controller cart controller
type Controller struct {
	cartService  *cartapp.ApplicationService
	orderService *orderapp.ApplicationService
}

func NewController(cartService *cartapp.ApplicationService, orderService *orderapp.ApplicationService) *Controller {
	return &Controller{cartService: cartService, orderService: orderService}
}

// RegisterRoutes registers cart routes on an authenticated group.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", c.GetCart)
		cartGroup.POST("/items", c.AddItem)
		cartGroup.PATCH("/items/:id", c.UpdateItem)
		cartGroup.DELETE("/items/:id", c.RemoveItem)
		cartGroup.POST("/quote", c.Quote)
		cartGroup.POST("/checkout", c.Checkout)
	}
}

// GetCart GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	view, err := c.cartService.ListItems(ctx.Request.Context(), actor)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, view, "cart retrieved successfully")
}

// AddItem POST /api/v1/cart/items
func (c *Controller) AddItem(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	item, err := c.cartService.AddItem(ctx.Request.Context(), actor, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, item, "item added to cart")
}

// UpdateItem PATCH /api/v1/cart/items/:id
func (c *Controller) UpdateItem(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req cartapp.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	item, err := c.cartService.UpdateItemQuantity(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "cart item updated")
}

// RemoveItem DELETE /api/v1/cart/items/:id
func (c *Controller) RemoveItem(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	if err := c.cartService.RemoveItem(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, nil, "cart item removed")
}

// Quote POST /api/v1/cart/quote
//
// An invalid coupon answers 422 but still carries the undiscounted quote.
func (c *Controller) Quote(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req cartapp.QuoteRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	quote, err := c.cartService.Quote(ctx.Request.Context(), actor, req)
	if err != nil {
		if stdErrors.Is(err, pricing.ErrInvalidCoupon) && quote != nil {
			response.HandleAppErrorWithData(ctx, err, quote)
			return
		}
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, quote, "quote computed")
}

// Checkout POST /api/v1/cart/checkout
func (c *Controller) Checkout(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req orderapp.CheckoutRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	order, err := c.orderService.Checkout(ctx.Request.Context(), actor, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, order, "order placed from cart")
}

// bindOptionalJSON treats an empty body as the zero request.
func bindOptionalJSON(ctx *gin.Context, req interface{}) error {
	if err := ctx.ShouldBindJSON(req); err != nil && !stdErrors.Is(err, io.EOF) {
		return err
	}
	return nil
}
