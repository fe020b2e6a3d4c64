package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/config"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

// AdminRole may manage voucher series and tenant settings
const AdminRole = "admin"

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health        *handler.HealthHandler
	Cashier       *handler.CashierHandler
	Pos           *handler.PosHandler
	Folio         *handler.FolioHandler
	Invoice       *handler.InvoiceHandler
	VoucherSeries *handler.VoucherSeriesHandler
	Product       *handler.ProductHandler
	Tenant        *handler.TenantHandler
	Printer       *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TenantRateLimiter
	HTTPMetrics     *metrics.HTTPMetrics
	Gatherer        prometheus.Gatherer
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	if deps.HTTPMetrics != nil {
		router.Use(metrics.GinMiddleware(deps.HTTPMetrics))
	}
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			TTL:    deps.Cfg.Ledger.IdempotencyTTL,
			Logger: deps.Logger,
		})

		registerCashierRoutes(protected, h)
		registerPosRoutes(protected, h, idempotent)
		registerFolioRoutes(protected, h, idempotent)
		registerVoucherSeriesRoutes(protected, h)
		registerProductRoutes(protected, h)
		registerTenantRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerCashierRoutes(protected *gin.RouterGroup, h *Handlers) {
	cashier := protected.Group("/cashier")
	{
		cashier.GET("", h.Cashier.List)
		cashier.GET("/current", h.Cashier.Current)
		cashier.POST("/open", h.Cashier.Open)
		cashier.GET("/:id", h.Cashier.Get)
		cashier.POST("/:id/close", h.Cashier.Close)
	}
}

func registerPosRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	pos := protected.Group("/pos")
	{
		pos.POST("/walk-in-sale", idempotent, h.Pos.WalkInSale)
		pos.POST("/room-charge", h.Pos.RoomCharge)
	}
}

func registerFolioRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	folios := protected.Group("/folios")
	{
		folios.POST("", h.Folio.Open)
		folios.POST("/payments/to-folio", idempotent, h.Folio.PaymentToFolio)
		folios.GET("/:id", h.Folio.Get)
		folios.POST("/:id/charges", h.Folio.AddCharge)
		folios.POST("/:id/invoice", h.Invoice.Issue)
	}

	protected.GET("/invoices/:id", h.Invoice.Get)
}

func registerVoucherSeriesRoutes(protected *gin.RouterGroup, h *Handlers) {
	series := protected.Group("/tenant-voucher-series")
	{
		series.GET("", h.VoucherSeries.List)
		series.POST("/:id/next-number", h.VoucherSeries.NextNumber)

		admin := series.Group("")
		admin.Use(middleware.RequireRole(AdminRole))
		admin.POST("", h.VoucherSeries.Create)
		admin.POST("/:id/deactivate", h.VoucherSeries.Deactivate)
		admin.POST("/:id/default", h.VoucherSeries.SetDefault)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
	}
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("/current", h.Tenant.GetCurrent)
		tenants.PUT("/current/tax-rate", middleware.RequireRole(AdminRole), h.Tenant.UpdateTaxRate)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/folios/:id", h.Printer.PrintFolio)
		printer.POST("/cashier/:id", h.Printer.PrintCashierClose)
	}
}
