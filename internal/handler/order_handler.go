package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	coupons service.CouponService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, coupons service.CouponService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		coupons: coupons,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/order/placeorder requests.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.OrderRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	placed, err := h.service.PlaceOrder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, placed)
}

// ListByUser handles GET /api/order/getordersbyuser/{userId} requests.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID, chi.URLParam(r, "userId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, orders)
}

// GetByID handles GET /api/order/{orderId} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), userID, chi.URLParam(r, "orderId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, order)
}

// ApplyCoupon handles POST /api/order/apply-coupon requests. It reports the
// discount a code gives on the submitted cart total without touching the cart.
func (h *OrderHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyCouponRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	total := decimal.Zero
	if req.CartTotal != nil {
		total = *req.CartTotal
	}

	discount, err := h.coupons.CheckoutDiscount(r.Context(), req.CouponCode, total)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, discount)
}

// List handles GET /api/admin/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/admin/orders/{orderId}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.OrderStatusRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, order)
}
