package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/internal/core/service"
)

// GET v1/checkout (200 OK)
// POST v1/checkout (201 Created, 402 Payment required, 409 Conflict)
// POST v1/checkout/retry (201 Created, 402 Payment required, 409 Conflict)
// POST v1/checkout/cancel (200 OK)
// GET v1/orders (200 OK)

type CheckoutHandler struct {
	checkout port.OrderPlacer
	orders   port.History[domain.Order]
}

func RegisterCheckout(
	mux *http.ServeMux,
	checkout port.OrderPlacer,
	orders port.History[domain.Order],
) {
	h := CheckoutHandler{checkout, orders}
	mux.HandleFunc("GET /v1/checkout", h.GetCheckout)
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
	mux.HandleFunc("POST /v1/checkout/retry", h.PostRetry)
	mux.HandleFunc("POST /v1/checkout/cancel", h.PostCancel)
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
}

func (h CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetCheckout"
	writeJSON(w, op, http.StatusOK, h.status())
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	order, err := h.checkout.Place(r.Context())
	h.respond(w, op, order, err)
}

func (h CheckoutHandler) PostRetry(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostRetry"
	order, err := h.checkout.Retry(r.Context())
	h.respond(w, op, order, err)
}

func (h CheckoutHandler) PostCancel(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCancel"
	h.checkout.Cancel()
	writeJSON(w, op, http.StatusOK, h.status())
}

func (h CheckoutHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetOrders"
	writeJSON(w, op, http.StatusOK, h.orders.Entries())
}

func (h CheckoutHandler) status() CheckoutStatus {
	s := CheckoutStatus{State: h.checkout.State()}
	if err := h.checkout.LastError(); err != nil {
		s.Error = err.Error()
	}
	return s
}

func (h CheckoutHandler) respond(
	w http.ResponseWriter, op string, order domain.Order, err error,
) {
	if err == nil {
		writeJSON(w, op, http.StatusCreated, order)
		return
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, "cart is empty", http.StatusConflict)
	case errors.Is(err, service.ErrCheckoutInProgress):
		http.Error(w, "checkout is in progress", http.StatusConflict)
	case errors.Is(err, service.ErrNothingToRetry):
		http.Error(w, "nothing to retry", http.StatusConflict)
	case errors.Is(err, service.ErrPaymentFailed):
		http.Error(w, "payment failed", http.StatusPaymentRequired)
	default:
		http.Error(w, "checkout is unavailable", http.StatusServiceUnavailable)
	}
	slog.Warn("checkout is not completed", "op", op, "err", err)
}
