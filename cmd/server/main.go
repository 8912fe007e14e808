package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	catalogapp "github.com/erp/contable/internal/application/catalog"
	eventapp "github.com/erp/contable/internal/application/event"
	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	partnerapp "github.com/erp/contable/internal/application/partner"
	purchasingapp "github.com/erp/contable/internal/application/purchasing"
	reportapp "github.com/erp/contable/internal/application/report"
	"github.com/erp/contable/internal/application/softdelete"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/auth"
	"github.com/erp/contable/internal/infrastructure/cache"
	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/event"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/infrastructure/persistence"
	"github.com/erp/contable/internal/infrastructure/storage"
	"github.com/erp/contable/internal/infrastructure/telemetry"
	"github.com/erp/contable/internal/interfaces/http/handler"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/erp/contable/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/erp/contable/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Contable API
//	@version		1.0
//	@description	Multi-tenant accounting core: talonarios, invoice numbering, chart of accounts, journal and reports.

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	ctx := context.Background()

	// The OTLP log pipeline exists before the logger so every entry can be teed into it
	logsProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	log, err := logger.New(cfg.Log,
		logger.WithTee(logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))),
		logger.WithFields(zap.String("service", cfg.Telemetry.ServiceName), zap.String("env", cfg.App.Env)),
	)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	providers := &telemetry.Providers{Logs: logsProvider}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error flushing telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting Contable",
		zap.String("app", cfg.App.Name),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	providers.Tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	providers.Meter, err = telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	providers.Profiler, err = telemetry.StartProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if providers.Profiler.IsEnabled() {
		providers.Tracer.EnableSpanProfiles()
	}
	meter := providers.Meter.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithBoundValues(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(ctx, &cfg.Database,
		persistence.WithGormLogger(gormLog),
		persistence.WithConnectRetry(cfg.Database.ConnectRetries, time.Second),
		persistence.WithStartupLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	if err := telemetry.RegisterPoolMetrics(meter, sqlDB); err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	talonarioRepo := persistence.NewGormTalonarioRepository(db.DB)
	facturaRepo := persistence.NewGormFacturaRepository(db.DB)
	cuentaRepo := persistence.NewGormCuentaRepository(db.DB)
	centroCostoRepo := persistence.NewGormCentroCostoRepository(db.DB)
	asientoRepo := persistence.NewGormAsientoRepository(db.DB)
	proveedorRepo := persistence.NewGormProveedorRepository(db.DB)
	productoRepo := persistence.NewGormProductoRepository(db.DB)
	ordenCompraRepo := persistence.NewGormOrdenCompraRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Events raised inside a unit of work land in the outbox in the same transaction
	serializer := event.NewDomainEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer, cfg.Event.MaxRetries)
	scope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)

	idempotencyStore, err := cache.OpenIdempotencyStore(ctx, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	var reportStorage reportapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Report bucket not ready; exports will fail until it exists",
				zap.String("bucket", s3.Bucket()),
				zap.Error(err),
			)
		}
		reportStorage = s3
	}

	// Application services
	talonarioService := invoicingapp.NewTalonarioService(talonarioRepo)
	numberingService := invoicingapp.NewNumberingService(scope.Invoicing(), talonarioRepo, facturaRepo, log)
	if cfg.Idempotency.Enabled {
		numberingService.SetIdempotencyStore(idempotencyStore, cfg.Idempotency.TTL)
	}
	accountService := accountingapp.NewAccountService(cuentaRepo, centroCostoRepo)
	costCenterService := accountingapp.NewCostCenterService(centroCostoRepo)
	journalService := accountingapp.NewJournalService(scope.Accounting(), asientoRepo, log)
	supplierService := partnerapp.NewSupplierService(proveedorRepo)
	productService := catalogapp.NewProductService(productoRepo, accountService)
	orderService := purchasingapp.NewOrderService(scope.Purchasing(), ordenCompraRepo, proveedorRepo,
		catalogapp.NewProductAvailability(productoRepo))
	guard := softdelete.NewGuard(scope.SoftDelete(), log)
	reportService := reportapp.NewService(asientoRepo, facturaRepo, reportStorage, log)
	if cfg.Storage.PresignExpiration > 0 {
		reportService.SetDownloadExpiry(cfg.Storage.PresignExpiration)
	}
	outboxService := eventapp.NewOutboxService(outboxRepo, cfg.Event.BacklogLimit)

	// Business metrics and event delivery
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          meter,
		Logger:         log,
		OutboxProvider: outboxRepo,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	providers.Business = businessMetrics
	businessMetrics.StartPeriodicCollection(ctx, time.Minute)

	eventBus := event.NewInMemoryEventBus(log)
	// Counters must not double count when the outbox redelivers
	eventBus.Subscribe(event.NewIdempotentHandler(
		eventapp.NewMetricsHandler(businessMetrics),
		idempotencyStore,
		shared.IdempotencyConfig{Enabled: true, TTL: cfg.Idempotency.TTL},
		log,
	).Named("metrics"))
	eventBus.Subscribe(eventapp.NewLoggingHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			ClaimTimeout:     cfg.Event.ClaimTimeout,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		Swagger:        cfg.Swagger,
		TracingEnabled: cfg.Telemetry.Enabled,
		Production:     cfg.IsProduction(),
		Meter:          meter,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	handler.NewSystemHandler(cfg.App.Name, version, sqlDB, outboxService).RegisterRoutes(&engine.RouterGroup)

	var verifier middleware.TokenVerifier
	if cfg.JWT.Secret != "" {
		verifier = auth.NewVerifier(cfg.JWT)
	} else {
		log.Warn("JWT secret not set; API requests are not authenticated and the tenant comes from X-Tenant-ID")
	}

	router.NewAPI(engine, router.APIConfig{Verifier: verifier, Logger: log}).Mount(
		handler.NewTalonarioHandler(talonarioService),
		handler.NewFacturaHandler(numberingService),
		handler.NewCuentaHandler(accountService),
		handler.NewCentroCostoHandler(costCenterService),
		handler.NewAsientoHandler(journalService),
		handler.NewProveedorHandler(supplierService),
		handler.NewProductoHandler(productService),
		handler.NewOrdenCompraHandler(orderService),
		handler.NewDesactivacionHandler(guard),
		handler.NewReporteHandler(reportService),
	)
	router.LogRoutes(engine, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
