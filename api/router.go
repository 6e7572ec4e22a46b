package api

import (
	"net/http"

	"storefront/api/cart"
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/api/order"
	"storefront/api/product"
	"storefront/config"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	healthController  *health.Controller
	productController *product.Controller
	cartController    *cart.Controller
	orderController   *order.Controller
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	productController *product.Controller,
	cartController *cart.Controller,
	orderController *order.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters
	engine.Use(middleware.RequestIDMiddleware())                      // 1. request id first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. recovery
	engine.Use(middleware.LoggingMiddleware())                        // 3. access log
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. rate limiting
	engine.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))

	return &Router{
		engine:            engine,
		config:            cfg,
		healthController:  healthController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	public := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(public)
		r.productController.RegisterRoutes(public)
	}

	authed := r.engine.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(&r.config.Auth))
	{
		r.cartController.RegisterRoutes(authed)
		r.orderController.RegisterRoutes(authed)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
