package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/controllers"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/routes"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/billing"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/catalog"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/checkout"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/customers"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/dashboard"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/documents"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/orders"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/settings"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/shifts"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/storecredit"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/suppliers"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/transactions"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/users"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/assistant"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth/session"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/metrics"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/migrate"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/redis"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	healthStores := map[string]controllers.Pinger{
		"postgres": dbClient,
		"redis":    redisClient,
	}

	settingsParams := settings.ServiceParams{
		Repo:     settings.NewRepository(dbClient.DB()),
		Defaults: cfg.POS,
	}
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS)
		if err != nil {
			logg.Error(context.Background(), "failed to create gcs client", err)
			os.Exit(1)
		}
		settingsParams.Storage = gcsClient
		healthStores["gcs"] = gcsClient
	}
	settingsService, err := settings.NewService(settingsParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    users.NewRepository(dbClient.DB()),
		Sessions: sessionManager,
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:       catalog.NewRepository(dbClient.DB()),
		DBClient:   dbClient,
		Cache:      redisClient,
		CacheTTL:   cfg.POS.CatalogCacheTTL,
		Thresholds: settingsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Repo:        checkout.NewRepository(dbClient.DB()),
		DBClient:    dbClient,
		Markup:      settingsService,
		Invalidator: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	transactionsService, err := transactions.NewService(transactions.ServiceParams{
		Repo:             transactions.NewRepository(dbClient.DB()),
		DBClient:         dbClient,
		MinConsolidation: cfg.POS.ConsolidationMinCount,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create transactions service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		Repo:     billing.NewRepository(dbClient.DB()),
		DBClient: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	suppliersService, err := suppliers.NewService(suppliers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	creditService, err := storecredit.NewService(storecredit.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create store credit service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		DBClient: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	shiftsService, err := shifts.NewService(shifts.ServiceParams{
		Repo: shifts.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shifts service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:       dashboard.NewRepository(dbClient.DB()),
		Thresholds: settingsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(transactionsService, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	assistantClient := assistant.NewClient(cfg.OpenAI)
	if assistantClient == nil {
		logg.Warn(context.Background(), "assistant disabled, no openai api key")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		SessionChecker:  sessionManager,
		HTTPMetrics:     httpMetrics,
		MetricsGatherer: registry,
		HealthStores:    healthStores,

		Auth:         authService,
		Users:        usersService,
		Catalog:      catalogService,
		Checkout:     checkoutService,
		Transactions: transactionsService,
		Billing:      billingService,
		Customers:    customersService,
		Suppliers:    suppliersService,
		StoreCredit:  creditService,
		Orders:       ordersService,
		Shifts:       shiftsService,
		Settings:     settingsService,
		Dashboard:    dashboardService,
		Documents:    documentsService,

		AssistantClient: assistantClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
