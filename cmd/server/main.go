package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/sports-library/internal/api"
	"alcyxob/sports-library/internal/config"
	"alcyxob/sports-library/internal/logging"
	"alcyxob/sports-library/internal/service"
	"alcyxob/sports-library/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger.Info("Starting sports library server", zap.String("backend", cfg.Store.Backend))

	// --- Library ---
	ctx := context.Background()
	registry := service.NewRegistry(logger.Named("store"))
	lib, err := registry.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("Could not open library", zap.Error(err))
	}
	defer func() {
		logger.Info("Closing library...")
		if err := registry.CloseAll(context.Background()); err != nil {
			logger.Error("Failed to close library", zap.Error(err))
		}
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, logger.Named("s3"))
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		logger.Info("S3 bucket not configured, backups disabled")
	}

	// --- Initialize Services ---
	userService := service.NewUserService(lib)
	planService := service.NewPlanService(lib)
	trackService := service.NewTrackService(lib)
	backupService := service.NewBackupService(lib, fileStorage, logger.Named("backup"))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, logger.Named("http"), userService, planService, trackService, backupService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting.")
}
