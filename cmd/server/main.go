// Command server runs the maintenance HTTP API: it loads configuration,
// opens the database, seeds the stage registry, wires the repositories,
// handlers and middleware, starts the broker consumer and serves.
package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gearguard/maintenance-api/internal/config"
	"github.com/gearguard/maintenance-api/internal/database"
	"github.com/gearguard/maintenance-api/internal/handler"
	"github.com/gearguard/maintenance-api/internal/middleware"
	"github.com/gearguard/maintenance-api/internal/queue"
	"github.com/gearguard/maintenance-api/internal/repository"
	"github.com/gearguard/maintenance-api/internal/router"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	teams := repository.NewTeamRepo(db)
	equipment := repository.NewEquipmentRepo(db)
	requests := repository.NewRequestRepo(db)
	stages := repository.NewStageRepo(db)

	// Seed the stage registry before accepting traffic so every request
	// handler can assume the four lifecycle stages exist.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := stages.EnsureDefaults(ctx); err != nil {
		cancel()
		logger.Fatal("stage registry bootstrap failed", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RateLimit(rateCfg, rdb))

	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin)
	requestHandler := handler.NewRequestHandler(requests, equipment, teams, stages)
	equipmentHandler := handler.NewEquipmentHandler(equipment, requests, stages)
	teamHandler := handler.NewTeamHandler(teams, users)
	healthHandler := handler.NewHealthHandler(db)

	router.RegisterHealth(e, healthHandler)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterRequests(e, requestHandler, cfg.JWTSecret)
	router.RegisterEquipment(e, equipmentHandler, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterTeams(e, teamHandler, cfg.JWTSecret)

	go queue.StartMaintenanceConsumer()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
