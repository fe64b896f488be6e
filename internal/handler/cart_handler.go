package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// cartResponse is the envelope of every cart endpoint.
type cartResponse struct {
	Success  bool            `json:"success"`
	CartData *model.CartView `json:"cartData"`
}

// CartHandler handles shopping cart requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) respond(w http.ResponseWriter, view *model.CartView, err error) {
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Success: true, CartData: view})
}

// Add handles POST /api/cart/add/{userId} requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.AddToCartRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.AddItem(r.Context(), userID, &req)
	h.respond(w, view, err)
}

// Get handles GET /api/cart/getcart/{userId} requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.GetCart(r.Context(), userID)
	h.respond(w, view, err)
}

// Remove handles DELETE /api/cart/remove/{userId}/{productId} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.RemoveItem(r.Context(), userID, chi.URLParam(r, "productId"))
	h.respond(w, view, err)
}

// Clear handles DELETE /api/cart/clear/{userId} requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.Clear(r.Context(), userID)
	h.respond(w, view, err)
}

// ApplyCoupon handles POST /api/cart/apply-coupon requests.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.ApplyCouponRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.ApplyCoupon(r.Context(), userID, req.CouponCode)
	h.respond(w, view, err)
}

// RemoveCoupon handles DELETE /api/cart/apply-coupon requests.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	view, err := h.service.RemoveCoupon(r.Context(), userID)
	h.respond(w, view, err)
}
