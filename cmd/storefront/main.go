package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/events"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	log := logger.L()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("failed to init tracing")
	}

	kv, err := storage.Open(ctx, storage.Options{
		Driver:        cfg.StoreDriver,
		DSN:           cfg.StoreDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		MongoURI:      cfg.MongoURI,
		MongoDBName:   cfg.MongoDBName,
	})
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open cart storage")
	}
	log.WithField("driver", cfg.StoreDriver).Info("cart storage opened")

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		log.WithField("brokers", cfg.KafkaBrokers).WithField("topic", cfg.KafkaTopic).Info("publishing cart events to kafka")
	}

	opts := []cart.Option{
		cart.WithKey(cfg.StorageKey),
		cart.WithPublisher(publisher),
	}
	if cfg.StrictAddStockCheck {
		opts = append(opts, cart.WithStrictAddStockCheck())
	}

	catalogClient := catalog.NewClient(cfg.CatalogAPIURL, cfg.RequestTimeout)
	store := cart.New(catalogClient, kv, opts...)

	initCtx, cancelInit := context.WithTimeout(ctx, cfg.RequestTimeout)
	err = store.Init(initCtx)
	cancelInit()
	if err != nil {
		log.WithError(err).Fatal("failed to restore cart")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(store, kv, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).WithField("catalog", cfg.CatalogAPIURL).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.WithError(err).Error("failed to close event publisher")
	}
	if err := kv.Close(); err != nil {
		log.WithError(err).Error("failed to close cart storage")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to flush traces")
	}

	log.Info("server exited")
}
