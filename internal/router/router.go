package router

import (
	"context"
	"time"

	"koalgroup/internal/apierror"
	"koalgroup/internal/config"
	"koalgroup/internal/handler"
	"koalgroup/internal/infra"
	"koalgroup/internal/middleware"
	"koalgroup/internal/repository"
	"koalgroup/internal/service"
	"koalgroup/internal/token"
	"koalgroup/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the HTTP layer is built on.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Issuer *token.Issuer
	// Queue receives newly requested reports.
	Queue  service.ReportQueue
	MailCB *infra.CircuitBreaker
	DLQ    *worker.DeadLetters
	// Now overrides the service clock in tests.
	Now func() time.Time
}

// New wires all dependencies and returns a configured Gin engine. The rate
// limiters' purge loops stop with ctx.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.NewRateLimiter("api", cfg.RateLimit, time.Minute, apierror.MsgTooManyRequests)
	loginLimiter := middleware.NewRateLimiter("login", cfg.LoginLimit, time.Minute, apierror.MsgTooManyLogins)
	apiLimiter.StartPurge(ctx)
	loginLimiter.StartPurge(ctx)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware())

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(d.DB)
	projectRepo := repository.NewProjectRepository(d.DB)
	productionRepo := repository.NewProductionRecordRepository(d.DB)
	accessLogRepo := repository.NewAccessLogRepository(d.DB)
	gasRepo := repository.NewGasRecordRepository(d.DB)
	workFrontRepo := repository.NewWorkFrontRepository(d.DB)
	inventoryRepo := repository.NewInventoryItemRepository(d.DB)
	toolRepo := repository.NewToolRepository(d.DB)
	reportRepo := repository.NewReportRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, d.Issuer, cfg.JWTRotateRefresh)
	userSvc := service.NewUserService(userRepo)
	projectSvc := service.NewProjectService(projectRepo, userRepo)
	productionSvc := service.NewProductionRecordService(productionRepo, projectRepo, userRepo)
	accessLogSvc := service.NewAccessLogService(accessLogRepo, userRepo, d.Now)
	gasSvc := service.NewGasRecordService(gasRepo)
	workFrontSvc := service.NewWorkFrontService(workFrontRepo, projectRepo, userRepo)
	inventorySvc := service.NewInventoryItemService(inventoryRepo, d.Now)
	toolSvc := service.NewToolService(toolRepo, userRepo)
	reportSvc := service.NewReportService(reportRepo, projectRepo, d.Queue, d.Now)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.MailCB, d.DLQ))

	api := r.Group("/api")
	{
		api.POST("/token", loginLimiter.Middleware(), authH.Login)
		api.POST("/token/refresh", authH.Refresh)
		api.POST("/token/blacklist", authH.Blacklist)
		api.POST("/register", loginLimiter.Middleware(), authH.Register)
	}

	// Protected routes; row visibility is decided per caller by the services.
	protected := api.Group("", middleware.JWTAuth(d.Issuer))
	{
		handler.NewUsersHandler(userSvc).Register(protected.Group("/users"))
		handler.NewProjectsHandler(projectSvc).Register(protected.Group("/projects"))
		handler.NewProductionRecordsHandler(productionSvc).Register(protected.Group("/production-records"))
		handler.NewAccessLogsHandler(accessLogSvc).Register(protected.Group("/access-logs"))
		handler.NewGasRecordsHandler(gasSvc).Register(protected.Group("/gas-records"))
		handler.NewWorkFrontsHandler(workFrontSvc).Register(protected.Group("/work-fronts"))
		handler.NewInventoryItemsHandler(inventorySvc).Register(protected.Group("/inventory-items"))
		handler.NewToolsHandler(toolSvc).Register(protected.Group("/tools"))
		reportsH.Register(protected.Group("/reports"))
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
