/*
Package order order and order item endpoints.

Error handling:
 1. binding errors go through response.HandleBindError (422)
 2. everything else goes through response.HandleAppError, which maps domain
    sentinels via errors.FromDomainError
*/
package order

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	orderapp "storefront/application/order"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller order controller
type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes registers order routes on an authenticated group.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", c.ListOrders)
		orders.POST("", c.PlaceOrder)
		orders.GET("/:id", c.GetOrder)
		orders.PATCH("/:id", c.UpdateStatus)
		orders.POST("/:id/cancel", c.Cancel)
		orders.DELETE("/:id", c.Delete)
	}

	items := router.Group("/order-items")
	{
		items.GET("", c.ListOrderItems)
		items.GET("/:id", c.GetOrderItem)
		items.POST("", c.RejectItemWrite)
		items.PATCH("/:id", c.RejectItemWrite)
		items.PUT("/:id", c.RejectItemWrite)
		items.DELETE("/:id", c.RejectItemWrite)
	}
}

// PlaceOrder POST /api/v1/orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req orderapp.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	order, err := c.orderService.PlaceOrder(ctx.Request.Context(), actor, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, order, "order created successfully")
}

// ListOrders GET /api/v1/orders
func (c *Controller) ListOrders(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	orders, err := c.orderService.ListOrders(ctx.Request.Context(), actor)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// GetOrder GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	order, err := c.orderService.GetOrder(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// UpdateStatus PATCH /api/v1/orders/:id
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req orderapp.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	order, err := c.orderService.UpdateStatus(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order status updated successfully")
}

// Cancel POST /api/v1/orders/:id/cancel; the body is optional.
func (c *Controller) Cancel(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	var req orderapp.CancelOrderRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleBindError(ctx, err)
			return
		}
	}

	order, err := c.orderService.Cancel(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order cancelled")
}

// Delete DELETE /api/v1/orders/:id
func (c *Controller) Delete(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	if err := c.orderService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, nil, "order deleted")
}

// ListOrderItems GET /api/v1/order-items?order_id=
func (c *Controller) ListOrderItems(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	orderID := ctx.Query("order_id")
	if orderID == "" {
		response.HandleAppError(ctx, errors.Validation("order_id query parameter is required"))
		return
	}

	items, err := c.orderService.ListOrderItems(ctx.Request.Context(), actor, orderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "order items retrieved successfully")
}

// GetOrderItem GET /api/v1/order-items/:id
func (c *Controller) GetOrderItem(ctx *gin.Context) {
	actor, ok := ctxutil.RequireActor(ctx)
	if !ok {
		return
	}
	item, err := c.orderService.GetOrderItem(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "order item retrieved successfully")
}

// RejectItemWrite order items are snapshots taken at placement.
func (c *Controller) RejectItemWrite(ctx *gin.Context) {
	response.HandleAppError(ctx, errors.OrderItemImmutable())
}
