// Package api boots the sales administration HTTP API: configuration,
// observability, persistence, domain services, and the gin router.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/server"

	catalogmemory "github.com/orderdesk/sales-admin-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/orderdesk/sales-admin-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/orderdesk/sales-admin-api/internal/domains/catalog/application"
	catalogdomain "github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"

	clientsmemory "github.com/orderdesk/sales-admin-api/internal/domains/clients/adapters/memory"
	clientspostgres "github.com/orderdesk/sales-admin-api/internal/domains/clients/adapters/persistence/postgres"
	clientsapp "github.com/orderdesk/sales-admin-api/internal/domains/clients/application"
	clientsdomain "github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"

	deliveriesmemory "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/adapters/memory"
	deliveriespostgres "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/adapters/persistence/postgres"
	deliveriesapp "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/application"

	metricsmemory "github.com/orderdesk/sales-admin-api/internal/domains/metrics/adapters/memory"
	metricspostgres "github.com/orderdesk/sales-admin-api/internal/domains/metrics/adapters/persistence/postgres"
	metricsapp "github.com/orderdesk/sales-admin-api/internal/domains/metrics/application"

	ordersmemory "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/orderdesk/sales-admin-api/internal/domains/orders/application"

	usersmemory "github.com/orderdesk/sales-admin-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/orderdesk/sales-admin-api/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/orderdesk/sales-admin-api/internal/domains/users/application"
	usersdomain "github.com/orderdesk/sales-admin-api/internal/domains/users/domain"

	catalogports "github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
	clientsports "github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
	deliveriesports "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
	metricsports "github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
	ordersports "github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"

	"github.com/orderdesk/sales-admin-api/internal/platform/migrations"
	platformobservability "github.com/orderdesk/sales-admin-api/internal/platform/observability"
	platformpostgres "github.com/orderdesk/sales-admin-api/internal/platform/postgres"
)

const serviceName = "sales-admin-api"

// Run boots the HTTP API with observability, repositories, and routes wired.
// It blocks serving requests until the listener fails or the process exits.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	if cfg.JWTSecret == devJWTSecret {
		logger.Warn("JWT_SECRET not set, signing tokens with the built-in development secret")
	}

	repos, cleanupRepos, err := buildRepositories(ctx, logger, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer cleanupRepos()

	coreOrderService := ordersapp.NewService(repos.orders)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	catalogService := catalogapp.NewService(repos.products, repos.categories)
	clientService := clientsapp.NewService(repos.clients)
	deliveryService := deliveriesapp.NewService(repos.deliveries)
	metricsService := metricsapp.NewService(repos.metrics)

	tokens := usersapp.NewTokenManager(usersapp.DefaultTokenConfig(cfg.JWTSecret))
	userService := usersapp.NewService(repos.users, usersapp.NewPasswordHasher(), tokens)
	if err := seedAdminAccount(ctx, userService, cfg, logger); err != nil {
		return err
	}

	handlers := server.ApiHandleFunctions{
		ProductAPI:  server.NewProductAPI(catalogService),
		CategoryAPI: server.NewCategoryAPI(catalogService),
		ClientAPI:   server.NewClientAPI(clientService),
		OrderAPI:    server.NewOrderAPI(orderService),
		DeliveryAPI: server.NewDeliveryAPI(deliveryService),
		MetricsAPI:  server.NewMetricsAPI(metricsService),
		AuthAPI:     server.NewAuthAPI(userService),
		UserAPI:     server.NewUserAPI(userService),
	}

	router := server.NewRouter(handlers, userService)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("sales admin API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("sales admin API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// seedAdminAccount ensures the configured bootstrap ADMIN account exists.
// Registration over HTTP always yields the USER role, so this is the only
// way the first admin comes into being.
func seedAdminAccount(ctx context.Context, users usersports.Service, cfg Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, user administration routes will be unreachable")
		return nil
	}
	_, err := users.Register(ctx, usersports.RegisterInput{
		Email:    cfg.AdminEmail,
		Name:     "Administrator",
		Password: cfg.AdminPassword,
		Role:     string(usersdomain.RoleAdmin),
	})
	if err != nil {
		if errors.Is(err, usersports.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	logger.Info("seeded admin account", slog.String("email", cfg.AdminEmail))
	return nil
}

// repositories bundles one persistence adapter per bounded context. All seven
// come from the same backend so cross-context invariants (stock, cascades)
// hold.
type repositories struct {
	products   catalogports.ProductRepository
	categories catalogports.CategoryRepository
	clients    clientsports.Repository
	orders     ordersports.Repository
	deliveries deliveriesports.Repository
	metrics    metricsports.Repository
	users      usersports.Repository
}

// buildRepositories connects to PostgreSQL when a DSN is configured and
// falls back to in-memory adapters otherwise. In memory mode the catalog
// and client adapters mirror their entities into the order and delivery
// ledgers, so the full workflow is reachable; each ledger still tracks
// stock independently and realigns to the catalog value on product updates.
func buildRepositories(ctx context.Context, logger *slog.Logger, dsn string) (repositories, func(), error) {
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}, nil
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}, nil
	}
	if err := migrations.Run(db); err != nil {
		postgresCleanup(db)()
		return repositories{}, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("repositories configured with postgres")
	return postgresRepositories(db), postgresCleanup(db), nil
}

func memoryRepositories() repositories {
	orderRepo := ordersmemory.NewRepository()
	deliveryRepo := deliveriesmemory.NewRepository()
	return repositories{
		products: catalogmemory.NewProductRepository().
			WithOrderPurger(orderRepo).
			WithProductMirror(orderProductMirror{repo: orderRepo}).
			WithProductMirror(deliveryProductMirror{repo: deliveryRepo}),
		categories: catalogmemory.NewCategoryRepository(),
		clients: clientsmemory.NewRepository().
			WithOrderCounter(orderRepo).
			WithBuyerMirror(orderBuyerMirror{repo: orderRepo}),
		orders:     orderRepo,
		deliveries: deliveryRepo,
		metrics:    metricsmemory.NewRepository(),
		users:      usersmemory.NewRepository(),
	}
}

// orderProductMirror feeds catalog product changes into the order
// workflow's ledger so API-created products are orderable in memory mode.
type orderProductMirror struct {
	repo *ordersmemory.Repository
}

func (m orderProductMirror) UpsertProduct(p *catalogdomain.Product) {
	m.repo.SeedProduct(ordersports.ProductRef{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	})
}

func (m orderProductMirror) RemoveProduct(id int64) {
	m.repo.RemoveProduct(id)
}

// deliveryProductMirror keeps the delivery ledger's product set aligned
// with the catalog.
type deliveryProductMirror struct {
	repo *deliveriesmemory.Repository
}

func (m deliveryProductMirror) UpsertProduct(p *catalogdomain.Product) {
	m.repo.SeedProduct(deliveriesports.ProductRef{ID: p.ID, Title: p.Title}, p.StockQuantity)
}

func (m deliveryProductMirror) RemoveProduct(id int64) {
	m.repo.RemoveProduct(id)
}

// orderBuyerMirror feeds client changes into the order workflow's buyer
// directory so API-created clients can place orders in memory mode.
type orderBuyerMirror struct {
	repo *ordersmemory.Repository
}

func (m orderBuyerMirror) UpsertBuyer(c *clientsdomain.Client) {
	m.repo.SeedBuyer(ordersports.BuyerRef{ID: c.ID, Name: c.Name, Email: c.Email})
}

func (m orderBuyerMirror) RemoveBuyer(id int64) {
	m.repo.RemoveBuyer(id)
}

func postgresRepositories(db *gorm.DB) repositories {
	return repositories{
		products:   catalogpostgres.NewProductRepository(db),
		categories: catalogpostgres.NewCategoryRepository(db),
		clients:    clientspostgres.NewRepository(db),
		orders:     orderspostgres.NewRepository(db),
		deliveries: deliveriespostgres.NewRepository(db),
		metrics:    metricspostgres.NewRepository(db),
		users:      userspostgres.NewRepository(db),
	}
}

func postgresCleanup(db *gorm.DB) func() {
	return func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		_ = sqlDB.Close()
	}
}
