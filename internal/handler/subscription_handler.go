package handler

import (
	"net/http"

	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SubscriptionHandler handles quiz subscription requests.
type SubscriptionHandler struct {
	service service.SubscriptionService
	logger  zerolog.Logger
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(service service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger.With().Str("handler", "subscription").Logger(),
	}
}

// Subscribe handles POST /api/quizzes/{quizId}/subscribe requests.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	sub, err := h.service.Subscribe(r.Context(), userID, chi.URLParam(r, "quizId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, sub)
}

// Revoke handles DELETE /api/quizzes/{quizId}/subscribe requests.
func (h *SubscriptionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.Revoke(r.Context(), userID, chi.URLParam(r, "quizId")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "Subscription revoked")
}

// List handles GET /api/quizzes/subscriptions requests.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	subs, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, subs)
}

// Access handles GET /api/quizzes/{quizId}/access requests.
func (h *SubscriptionHandler) Access(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	access, err := h.service.Access(r.Context(), userID, chi.URLParam(r, "quizId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, access)
}
