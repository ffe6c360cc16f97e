package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/landworks/registry-system/internal/api/handler"
	"github.com/landworks/registry-system/internal/api/middleware"
	"github.com/landworks/registry-system/internal/core/access"
	"github.com/landworks/registry-system/internal/core/ports"
)

// Dependencies carries everything the router needs. Services are constructed
// in cmd/server so the receipt pipeline and the HTTP layer share instances.
type Dependencies struct {
	AuthService        ports.AuthService
	LandService        ports.LandService
	TransactionService ports.TransactionService
	StatsService       ports.StatsService

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	landHandler := handler.NewLandHandler(deps.LandService)
	txHandler := handler.NewTransactionHandler(deps.TransactionService, deps.StatsService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	auth := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register, auth, middleware.RequirePermission(access.PermUserManage))
	e.PUT("/auth/password", authHandler.ChangePassword, auth)

	// --- Land plot routes ---
	plots := e.Group("/v1/plots", auth)
	plots.POST("", landHandler.Create, middleware.RequirePermission(access.PermLandWrite))
	plots.GET("", landHandler.List, middleware.RequirePermission(access.PermLandRead))
	plots.GET("/:id", landHandler.Get, middleware.RequirePermission(access.PermLandRead))
	plots.PUT("/:id", landHandler.Update, middleware.RequirePermission(access.PermLandWrite))
	plots.PATCH("/:id/status", landHandler.UpdateStatus, middleware.RequirePermission(access.PermLandWrite))

	// --- Transaction routes ---
	txs := e.Group("/v1/transactions", auth)
	txs.POST("", txHandler.Record, middleware.RequirePermission(access.PermTransactionWrite))
	txs.GET("", txHandler.List, middleware.RequirePermission(access.PermTransactionRead))
	txs.GET("/statistics", txHandler.Statistics, middleware.RequirePermission(access.PermTransactionRead))
	txs.POST("/commission", txHandler.CalculateCommission, middleware.RequirePermission(access.PermTransactionRead))
	txs.GET("/:id", txHandler.Get, middleware.RequirePermission(access.PermTransactionRead))
	txs.PATCH("/:id", txHandler.Update, middleware.RequirePermission(access.PermTransactionWrite))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
