package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AddressHandler handles saved address requests of the session user.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// List handles GET /api/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	addresses, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, addresses)
}

// Create handles POST /api/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.AddressRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	address, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, address)
}

// Update handles PUT /api/addresses/{addressId}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.AddressRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	address, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "addressId"), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, address)
}

// Delete handles DELETE /api/addresses/{addressId}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "addressId")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "Address deleted")
}
