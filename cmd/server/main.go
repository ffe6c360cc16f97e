package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/landworks/registry-system/internal/api"
	"github.com/landworks/registry-system/internal/core/service"
	"github.com/landworks/registry-system/internal/infrastructure/config"
	mongodb "github.com/landworks/registry-system/internal/infrastructure/db/mongo"
	redisdb "github.com/landworks/registry-system/internal/infrastructure/db/redis"
	"github.com/landworks/registry-system/internal/infrastructure/queue"
	"github.com/landworks/registry-system/internal/infrastructure/receipts"
	"github.com/landworks/registry-system/pkg/logger"
)

const tokenTTL = 24 * time.Hour

// @title        Land Registry API
// @version      1.0
// @description  Land plot registry with sale transaction recording, commission
// @description  computation and role-gated access.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	landRepo := mongodb.NewLandRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":        userRepo.EnsureIndexes,
		"land_plots":   landRepo.EnsureIndexes,
		"transactions": txRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Receipt pipeline ---
	generator, err := receipts.NewFileGenerator(cfg.ReceiptDir)
	if err != nil {
		log.Fatal().Err(err).Msg("receipt directory unavailable")
	}
	receiptService := service.NewReceiptService(txRepo, generator, log)
	dispatcher := queue.NewDispatcher(cfg.ReceiptWorkers, receiptService, log)
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL, log)
	landService := service.NewLandService(landRepo, log)
	txService := service.NewTransactionService(txRepo, landRepo, userRepo, cfg.CommissionRate(), dispatcher, log)
	statsService := service.NewStatsService(txRepo, redisdb.NewStatsCache(rdb), log)

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := authService.SeedAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Fatal().Err(err).Msg("admin seeding failed")
		}
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		AuthService:        authService,
		LandService:        landService,
		TransactionService: txService,
		StatsService:       statsService,
		Mongo:              db,
		Redis:              rdb,
		JWTSecret:          cfg.JWTSecret,
		Logger:             log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting land registry server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
