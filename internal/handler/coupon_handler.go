package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CouponHandler handles coupon administration.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// Create handles POST /api/admin/coupons requests.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, c)
}

// List handles GET /api/admin/coupons requests.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, coupons)
}

// Deactivate handles DELETE /api/admin/coupons/{couponId} requests.
func (h *CouponHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "couponId")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "Coupon deactivated")
}
