package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/health"

	"github.com/fjod/go_cart/storefront/internal/catalogsvc"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/telemetry"
)

func main() {
	cfg := config.LoadCatalog()
	logger.SetLevel(cfg.LogLevel)
	log := logger.L()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "catalog", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("failed to init tracing")
	}

	repo, err := catalogsvc.NewRepository(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("migrations completed successfully")

	hs := health.NewServer()
	go catalogsvc.WatchHealth(ctx, hs, repo, 5*time.Second)

	grpcServer := catalogsvc.NewGRPCServer(hs)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.WithError(err).Fatal("failed to listen")
	}

	go func() {
		log.WithField("port", cfg.GRPCPort).Info("catalog health listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Fatal("failed to serve grpc")
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      catalogsvc.NewHandler(repo).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("catalog API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down catalog...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	grpcServer.GracefulStop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to flush traces")
	}

	log.Info("catalog stopped")
}
