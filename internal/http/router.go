package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_cart/storefront/internal/logger"
)

// Pinger reports whether the cart's backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter mounts the cart API under /api/v1/cart and a health check at /health
func NewRouter(store CartStore, storage Pinger, timeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(store, timeout)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", healthHandler(storage))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateAmount)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}

func healthHandler(storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("health check failed")
			respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "cart storage unreachable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
