// Package product public catalog endpoints.
package product

import (
	stdErrors "errors"

	"storefront/api/response"
	catalogapp "storefront/application/catalog"
	"storefront/domain/catalog"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller product controller
type Controller struct {
	catalogService *catalogapp.ApplicationService
}

func NewController(catalogService *catalogapp.ApplicationService) *Controller {
	return &Controller{catalogService: catalogService}
}

// RegisterRoutes registers the public product routes.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", c.ListProducts)
		products.GET("/:id", c.GetProduct)
	}
}

// ListProducts GET /api/v1/products?category=&limit=&offset=
func (c *Controller) ListProducts(ctx *gin.Context) {
	var req catalogapp.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	products, err := c.catalogService.ListProducts(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleList(ctx, products, req.Limit, req.Offset, "products retrieved successfully")
}

// GetProduct GET /api/v1/products/:id
//
// An unknown id is a plain 404 here; elsewhere a missing product is an
// unprocessable reference (422).
func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.catalogService.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if stdErrors.Is(err, catalog.ErrProductNotFound) {
			err = errors.Wrap(err, errors.CodeNotFound, "product not found")
		}
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, product, "product retrieved successfully")
}
