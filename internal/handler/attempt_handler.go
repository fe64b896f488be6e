package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AttemptHandler handles quiz attempt requests.
type AttemptHandler struct {
	service service.AttemptService
	logger  zerolog.Logger
}

// NewAttemptHandler creates a new attempt handler.
func NewAttemptHandler(service service.AttemptService, logger zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		service: service,
		logger:  logger.With().Str("handler", "attempt").Logger(),
	}
}

// Start handles POST /api/quizzes/attempts/start requests.
func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.StartAttemptRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	attempt, err := h.service.Start(r.Context(), userID, req.QuizID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, attempt)
}

// Answer handles POST /api/quizzes/attempts/{attemptId}/answer requests.
func (h *AttemptHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req model.SubmitAnswerRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	attempt, err := h.service.SubmitAnswer(r.Context(), userID, chi.URLParam(r, "attemptId"), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, attempt)
}

// Complete handles POST /api/quizzes/attempts/{attemptId}/complete requests.
func (h *AttemptHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	result, err := h.service.Complete(r.Context(), userID, chi.URLParam(r, "attemptId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, result)
}

// History handles GET /api/quizzes/attempts/history requests, optionally filtered by ?quizId.
func (h *AttemptHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	history, err := h.service.History(r.Context(), userID, r.URL.Query().Get("quizId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, history)
}

// Details handles GET /api/quizzes/attempts/{attemptId} requests.
func (h *AttemptHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	details, err := h.service.Details(r.Context(), userID, chi.URLParam(r, "attemptId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, details)
}
