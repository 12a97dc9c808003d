package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/notify"
)

const maxRequestBodySize = 1 << 20 // 1MB

// CartStore is the cart the handler operates on
type CartStore interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
}

type CartHandler struct {
	store   CartStore
	timeout time.Duration
}

func NewCartHandler(store CartStore, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateAmountRequestDTO struct {
	Amount int `json:"amount"`
}

type CartResponse struct {
	Cart         domain.Cart     `json:"cart"`
	Size         int             `json:"size"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Notification string          `json:"notification,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newCartResponse(h.store.Cart(), ""))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.store.AddProduct(ctx, req.ProductID); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newCartResponse(h.store.Cart(), ""))
}

func (h *CartHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateAmountRequestDTO
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.store.UpdateProductAmount(ctx, productID, req.Amount); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(h.store.Cart(), ""))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.RemoveProduct(ctx, productID); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(h.store.Cart(), ""))
}

// respondCartError answers with the unchanged cart and the shopper notification
func (h *CartHandler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	status := cartErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).WithError(err).Warn("cart operation failed")
	}
	respondJSON(w, status, newCartResponse(h.store.Cart(), notify.Message(err)))
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, cart.ErrProductNotInCart),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cart.ErrPersistFailed):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, cart.ErrAddFailed), errors.Is(err, cart.ErrUpdateFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newCartResponse(c domain.Cart, notification string) CartResponse {
	return CartResponse{
		Cart:         c,
		Size:         c.Size(),
		Subtotal:     c.Subtotal(),
		Notification: notification,
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
