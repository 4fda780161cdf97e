package main

import (
	"context"
	"errors"
	"fmt"
	"lager_server/api"
	"lager_server/camera"
	"lager_server/config"
	"lager_server/database"
	"lager_server/services"
	"lager_server/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	logger := config.NewLogger(cfg, true)
	mwLogger := config.NewLogger(cfg, false)

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := config.Validate(cfg); err != nil {
		logger.Fatal("Invalid configuration", gecho.Field("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
	defer db.Close()

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", gecho.Field("error", err))
	}

	sm := services.NewServiceManager(logger, cfg, db, disk)
	defer sm.CacheService.Close()

	if err := sm.BarcodeService.EnsureDirectory(ctx); err != nil {
		logger.Fatal("Failed to create barcode directory", gecho.Field("error", err))
	}

	cam := camera.New(cfg.Camera, cfg.Storage.PhotoDir, disk, logger)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, mwLogger, sm, disk, cam),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Cancels running scans through their request contexts.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}
