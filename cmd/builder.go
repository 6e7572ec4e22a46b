package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/api"
	apicart "storefront/api/cart"
	"storefront/api/health"
	apiorder "storefront/api/order"
	"storefront/api/product"
	cartapp "storefront/application/cart"
	catalogapp "storefront/application/catalog"
	orderapp "storefront/application/order"
	"storefront/config"
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/pricing"
	"storefront/domain/shared"
	"storefront/infrastructure/cache"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/mysql"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const startupTimeout = 30 * time.Second

// backends the persistence ports chosen by database.type.
type backends struct {
	products catalog.Repository
	carts    cart.Repository
	orders   order.Repository
	coupons  pricing.CouponBook
	uow      shared.UnitOfWork
	// outbox set when events must be relayed in-process
	outbox mysql.OutboxStore
}

// AppBuilder builds an App from configuration.
type AppBuilder struct {
	cfg        *config.Config
	skipLogger bool
	health     *health.Controller
	closers    []func() error
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg, health: health.NewController(cfg)}
}

// WithoutLoggerInit keeps the current global logger; used by tests.
func (b *AppBuilder) WithoutLoggerInit() *AppBuilder {
	b.skipLogger = true
	return b
}

// Build wires every component. On error, resources opened so far are released.
func (b *AppBuilder) Build() (app *App, err error) {
	if !b.skipLogger {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	defer func() {
		if err != nil {
			for i := len(b.closers) - 1; i >= 0; i-- {
				_ = b.closers[i]()
			}
		}
	}()

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))
	if b.cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty; every authenticated request will be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var be *backends
	switch b.cfg.Database.Type {
	case "mysql":
		be, err = b.buildMySQL(ctx)
	default:
		be, err = b.buildMemory()
	}
	if err != nil {
		return nil, err
	}

	catalogReader := be.products
	if b.cfg.Redis.Enabled {
		catalogReader = b.withProductCache(be.products)
	}
	svc := newServices(be, catalogReader, b.cfg.Pricing.Currency)

	router := api.NewRouter(b.cfg,
		b.health,
		product.NewController(svc.catalog),
		apicart.NewController(svc.cart, svc.order),
		apiorder.NewController(svc.order),
	)
	router.SetupRoutes()

	app = &App{
		config: b.cfg,
		router: router,
		server: &http.Server{
			Addr:         ":" + b.cfg.Server.Port,
			Handler:      router.GetEngine(),
			ReadTimeout:  b.cfg.Server.ReadTimeout,
			WriteTimeout: b.cfg.Server.WriteTimeout,
		},
	}

	if be.outbox != nil {
		publisher, closePublisher, err := NewOutboxPublisher(b.cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, closePublisher)
		if app.relay, err = mysql.NewOutboxWorker(be.outbox, publisher,
			b.cfg.Worker.PollInterval, b.cfg.Worker.BatchSize, b.cfg.Worker.MaxRetries); err != nil {
			return nil, err
		}
	}

	app.closers = b.closers
	return app, nil
}

// services the application layer of one App.
type services struct {
	catalog *catalogapp.ApplicationService
	cart    *cartapp.ApplicationService
	order   *orderapp.ApplicationService
}

// newServices wires the application services. catalogReader may be a cached
// view of be.products; it only serves product pages and cart display data.
// Anything that snapshots a price reads be.products directly, so a stale
// cache entry can never price an order or resolve a delisted product.
func newServices(be *backends, catalogReader catalog.Repository, currency string) *services {
	engine := pricing.NewEngine(be.coupons, currency)
	cartService := cartapp.NewApplicationService(be.carts, be.products, engine, be.uow,
		cartapp.WithDisplayLookup(catalogReader))
	return &services{
		catalog: catalogapp.NewApplicationService(catalogReader),
		cart:    cartService,
		order:   orderapp.NewApplicationService(be.orders, be.carts, be.products, engine, be.uow),
	}
}

// buildMemory in-process store seeded with a demo catalog.
func (b *AppBuilder) buildMemory() (*backends, error) {
	logger.Info("Using in-memory persistence layer")

	coupons, err := CouponsFromConfig(b.cfg.Pricing.Coupons)
	if err != nil {
		return nil, err
	}
	book, err := pricing.NewStaticCouponBook(coupons...)
	if err != nil {
		return nil, err
	}

	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	products.Put(memory.SeedProducts(b.cfg.Pricing.Currency)...)

	return &backends{
		products: products,
		carts:    memory.NewCartRepository(store),
		orders:   memory.NewOrderRepository(store),
		coupons:  book,
		uow:      memory.NewUnitOfWork(store),
		outbox:   store,
	}, nil
}

func (b *AppBuilder) buildMySQL(ctx context.Context) (*backends, error) {
	logger.Info("Using MySQL/GORM persistence layer")

	db, err := mysql.Open(b.cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	b.closers = append(b.closers, sqlDB.Close)
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	b.health.AddCheck("database", sqlDB.PingContext)

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	coupons, err := CouponsFromConfig(b.cfg.Pricing.Coupons)
	if err != nil {
		return nil, err
	}
	couponRepo := mysql.NewCouponRepository(db)
	if err := couponRepo.Upsert(ctx, coupons...); err != nil {
		return nil, fmt.Errorf("failed to load coupons: %w", err)
	}

	uow := mysql.NewUnitOfWork(db)
	uow.SetRetryConfig(retry.FromAppConfig(b.cfg))

	return &backends{
		products: mysql.NewProductRepository(db),
		carts:    mysql.NewCartRepository(db),
		orders:   mysql.NewOrderRepository(db),
		coupons:  couponRepo,
		uow:      uow,
	}, nil
}

func (b *AppBuilder) withProductCache(next catalog.Repository) catalog.Repository {
	client := redis.NewClient(&redis.Options{
		Addr:     b.cfg.Redis.Addr,
		Password: b.cfg.Redis.Password,
		DB:       b.cfg.Redis.DB,
	})
	b.closers = append(b.closers, client.Close)
	b.health.AddCheck("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	logger.Info("Product cache enabled", zap.String("addr", b.cfg.Redis.Addr), zap.Duration("ttl", b.cfg.Redis.TTL))
	return cache.NewCachedRepository(next, cache.NewRedisProductCache(client, b.cfg.Redis.TTL))
}
