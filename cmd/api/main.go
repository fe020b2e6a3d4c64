package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/config"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/fiscal"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/routes"
	"github.com/sangkips/hotel-ledger-api/internal/scheduler"
	"github.com/sangkips/hotel-ledger-api/pkg/logger"
	"github.com/sangkips/hotel-ledger-api/pkg/printer"
	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	bootLog := logger.Must("info", "json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db, log); err != nil {
		return err
	}

	// Initialize repositories
	tx := repository.NewTransactor(db, cfg.Ledger.LockTimeout)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	folioRepo := repository.NewFolioRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	seriesRepo := repository.NewVoucherSeriesRepository(db)
	sessionRepo := repository.NewCashierSessionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCfg := metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env}
	ledgerMetrics := metrics.NewLedgerMetrics(registry, metricsCfg)
	httpMetrics := metrics.NewHTTPMetrics(registry, metricsCfg)

	// External collaborators
	var submitter service.FiscalSubmitter
	if cfg.Fiscal.Enabled() {
		submitter = fiscal.NewClient(cfg.Fiscal, log)
	} else {
		log.Info("fiscal gateway not configured, invoices stay pending")
	}

	thermal, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address, cfg.Printer.Timeout)
	if err != nil {
		return err
	}
	defer thermal.Close()

	// Initialize services
	voucherService := service.NewVoucherSeriesService(tx, seriesRepo, ledgerMetrics, log)
	folioService := service.NewFolioService(tx, folioRepo, paymentRepo, productRepo, reservationRepo, tenantRepo,
		cfg.Ledger.PaymentRefPrefix, ledgerMetrics, log)
	posService := service.NewPosService(tx, folioService, folioRepo, reservationRepo, log)
	cashierService := service.NewCashierService(tx, sessionRepo, paymentRepo, ledgerMetrics, log)
	invoiceService := service.NewInvoiceService(tx, folioRepo, seriesRepo, invoiceRepo, tenantRepo,
		voucherService, submitter, ledgerMetrics, log)
	productService := service.NewProductService(productRepo)
	tenantService := service.NewTenantService(tx, tenantRepo, voucherService, service.TenantDefaults{
		TaxRate:       decimal.NewFromFloat(cfg.Ledger.DefaultTaxRatePct),
		FacturaSeries: cfg.Ledger.DefaultFacturaCode,
		BoletaSeries:  cfg.Ledger.DefaultBoletaCode,
	}, log)
	printerService := service.NewPrinterService(thermal, folioRepo, sessionRepo, reservationRepo, tenantRepo,
		cfg.Printer.Type, cfg.Printer.Width, log)
	maintenanceService := service.NewMaintenanceService(idempotencyRepo, voucherService, ledgerMetrics, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:        handler.NewHealthHandler(sqlDB),
		Cashier:       handler.NewCashierHandler(cashierService),
		Pos:           handler.NewPosHandler(posService),
		Folio:         handler.NewFolioHandler(folioService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		VoucherSeries: handler.NewVoucherSeriesHandler(voucherService),
		Product:       handler.NewProductHandler(productService),
		Tenant:        handler.NewTenantHandler(tenantService),
		Printer:       handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewTenantRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours),
		Cfg:             cfg,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		HTTPMetrics:     httpMetrics,
		Gatherer:        registry,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		rateLimiter.Run(gctx, 5*time.Minute)
		return nil
	})

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(maintenanceService, cfg.Scheduler, log)
		g.Go(func() error {
			return jobs.Run(gctx)
		})
	}

	return g.Wait()
}
