package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forgeline/qc-system/internal/api/handler"
	"github.com/forgeline/qc-system/internal/api/middleware"
	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/service"
	"github.com/forgeline/qc-system/internal/infrastructure/config"
	qcmongo "github.com/forgeline/qc-system/internal/infrastructure/db/mongo"
	qcredis "github.com/forgeline/qc-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("qc"))

	// --- Dependencies ---
	userRepo := qcmongo.NewUserRepository(db)
	auditRepo := qcmongo.NewAuditRepository(db)
	bucketRepo := qcmongo.NewBucketRepository(db)
	revocations := qcredis.NewRevocationStore(rdb)

	authService := service.NewAuthService(userRepo, auditRepo, revocations, cfg.JWTSecret, cfg.JWTExpire, log)
	entryService := service.NewEntryService(bucketRepo, log)
	reportService := service.NewReportService(bucketRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Env == "production")
	adminHandler := handler.NewAdminHandler(authService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authenticated := middleware.Auth(cfg.JWTSecret, userRepo, revocations)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify, authenticated)
	auth.POST("/logout", authHandler.Logout, authenticated)
	auth.PUT("/changepassword", authHandler.ChangePassword, authenticated)

	admin := auth.Group("/admin", authenticated, middleware.AdminOnly())
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.PUT("/users/:id/password", adminHandler.ResetPassword)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Department routes ---
	for _, dept := range domain.EntryDepartments {
		h := handler.NewEntryHandler(entryService, dept)
		g := e.Group("/api/"+string(dept), authenticated, middleware.DepartmentGate(dept))
		g.GET("/current-date", h.CurrentDate)
		g.GET("/grouped", h.Grouped)
		g.GET("/by-date", h.GetByDate)
		g.GET("/filter", h.Filter)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	for _, dept := range domain.SectionDepartments {
		h := handler.NewReportHandler(reportService, dept)
		g := e.Group("/api/"+string(dept), authenticated, middleware.DepartmentGate(dept))
		g.GET("/current-date", h.CurrentDate)
		g.GET("/grouped", h.Range)
		g.GET("/by-date", h.GetByDate)
		g.GET("/filter", h.Range)
		g.POST("/table-update", h.TableUpdate)
		g.DELETE("/:id", h.Delete, middleware.AdminOnly())
	}

	// --- Ops routes (no auth required) ---
	e.GET("/api/health", healthHandler.Health)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
