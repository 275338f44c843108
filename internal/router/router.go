package router

import (
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/config"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/handler"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/middleware"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/service"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.APIRateLimit, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo)
	stockSvc := service.NewStockService(productRepo, movementRepo, dispatcher, cfg.LowStockThreshold)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, dispatcher, cfg.LowStockThreshold)
	reportSvc := service.NewReportService(saleRepo, rdb)
	receiptSvc := service.NewReceiptService(saleRepo, settingRepo, cfg.ReceiptStoragePath)
	settingSvc := service.NewSettingService(settingRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc, reportSvc, receiptSvc)
	stockH := handler.NewStockMovementsHandler(stockSvc)
	settingsH := handler.NewSettingsHandler(settingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleCajero)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/session", anyRole, authH.Session)

		// Catalog — everyone reads, only admin writes
		api.GET("/products", anyRole, productsH.List)
		api.GET("/products/:id", anyRole, productsH.Get)
		products := api.Group("/products", adminOnly)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		// Sales — cashiers sell, admin manages history and reports
		api.POST("/sales", anyRole, salesH.Create)
		api.GET("/sales", anyRole, salesH.List)
		api.GET("/sales/reports/summary", adminOnly, salesH.ReportSummary)
		api.GET("/sales/:id", anyRole, salesH.Get)
		api.GET("/sales/:id/receipt", anyRole, salesH.Receipt)
		api.DELETE("/sales/:id", adminOnly, salesH.Delete)
		api.DELETE("/sales", adminOnly, salesH.Clear)

		// Stock ledger
		api.GET("/stock-movements/product/:id", anyRole, stockH.ListByProduct)
		api.GET("/stock-movements/current-stock", anyRole, stockH.CurrentStock)
		stock := api.Group("/stock-movements", adminOnly)
		{
			stock.POST("", stockH.Create)
			stock.GET("", stockH.List)
			stock.GET("/summary", stockH.Summary)
		}

		// Settings — reads for everyone, writes admin-only
		api.GET("/settings", anyRole, settingsH.List)
		api.GET("/settings/:key", anyRole, settingsH.Get)
		api.PUT("/settings/:key", adminOnly, settingsH.Set)
		api.DELETE("/settings/:key", adminOnly, settingsH.Delete)

		users := api.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
