package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"feira/internal/config"
	"feira/internal/handlers"
	"feira/internal/metrics"
	"feira/internal/middleware"
	"feira/internal/revocation"
	"feira/internal/services"
	"feira/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// App owns every long-lived handle of the process.
type App struct {
	Fiber  *fiber.App
	Stores *Stores
	Auth   *services.AuthService

	cfg     *config.Config
	log     *slog.Logger
	mq      *rabbitmq.Client
	closers []func() error
}

// New connects the stores, revocation list and broker selected by cfg and
// builds the HTTP application on top of them.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	a.Stores = stores
	a.closers = append(a.closers, stores.Close)

	var revoked revocation.Store = revocation.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rs, err := revocation.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		revoked = rs
		a.closers = append(a.closers, rs.Close)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return nil, err
		}
		a.mq = mq
		publisher = mq
		a.closers = append(a.closers, mq.Close)
	}

	a.Auth = services.NewAuthService(stores.Vendors, revoked, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(stores.Products)
	orderService := services.NewOrderService(stores.Orders, stores.Products, stores.Vendors, publisher, cfg.TrustClientPrices)
	storeService := services.NewStoreService(stores.Vendors, stores.Products)
	dashboardService := services.NewDashboardService(stores.Orders, cfg.Location)

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "feira",
		ErrorHandler: handlers.ErrorHandler,
		UnescapePath: true,
		// Params and body strings outlive the request in the memory store.
		Immutable: true,
		BodyLimit:    10 * 1024 * 1024, // images travel inline as base64
	})
	a.Fiber.Use(requestid.New())
	a.Fiber.Use(middleware.RequestLogger(log))
	a.Fiber.Use(middleware.Metrics())
	// Inside the logger and metrics so a panic is reported as a 500 by both.
	a.Fiber.Use(recover.New())
	a.Fiber.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	a.Fiber.Get("/health", a.health)
	a.Fiber.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := a.Fiber.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Feira online vendor API"})
	})

	authRequired := middleware.AuthRequired(a.Auth)
	handlers.NewAuthHandler(a.Auth).RegisterRoutes(api, authRequired)
	handlers.NewProductHandler(productService).RegisterRoutes(api, authRequired)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, authRequired)
	handlers.NewStoreHandler(storeService).RegisterRoutes(api)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(api, authRequired)

	return a, nil
}

func corsConfig(origins []string) cors.Config {
	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll || len(origins) == 0 {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}
}

func (a *App) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	health, store := "healthy", "ok"
	status := fiber.StatusOK
	if err := a.Stores.Ping(ctx); err != nil {
		health, store = "degraded", "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": health,
		"time":   time.Now().Format(time.RFC3339),
		"store":  store,
		"driver": a.cfg.StoreDriver,
		"events": a.mq != nil,
	})
}

// StartConsumers logs every order event from the broker until ctx is done.
// It does nothing when no broker is configured.
func (a *App) StartConsumers(ctx context.Context) error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeOrderEvents(ctx, rabbitmq.LogOrderEvent(a.log))
}

// Close releases every handle in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
