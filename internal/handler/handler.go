package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"prepkart/internal/middleware"
	"prepkart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dataResponse is the success envelope of most endpoints.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// messageResponse is the success envelope of endpoints without a payload.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var errInvalidBody = model.BadRequest(model.ErrCodeInvalidJSON, "Invalid request body")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent, so an encode failure cannot change the response.
	_ = json.NewEncoder(w).Encode(data)
}

// writeData wraps data in the success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: message})
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Success: false, StatusCode: status, Message: message})
}

// handleError maps domain errors to their status codes. Anything else is
// logged and reported as a generic 500.
func handleError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status := statusFor(de.Kind)
		logger.Debug().Str("code", de.Code).Int("status", status).Msg(de.Message)
		writeError(w, status, de.Message)
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindBadRequest:
		return http.StatusBadRequest
	case model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// page parses the limit and offset query parameters.
func page(r *http.Request) (limit, offset int, err error) {
	limit, offset = 10, 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			return 0, 0, model.BadRequest(model.ErrCodeInvalidInput, "invalid limit parameter")
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil {
			return 0, 0, model.BadRequest(model.ErrCodeInvalidInput, "invalid offset parameter")
		}
	}
	return limit, offset, nil
}

// sessionUser returns the authenticated user id set by the session middleware.
func sessionUser(r *http.Request) (uuid.UUID, error) {
	id := middleware.UserID(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, model.ErrUnauthorised
	}
	return id, nil
}

// pathUser checks that the {userId} path parameter names the session user.
func pathUser(r *http.Request) (uuid.UUID, error) {
	id, err := sessionUser(r)
	if err != nil {
		return uuid.Nil, err
	}
	raw := chi.URLParam(r, "userId")
	if raw == "" {
		return uuid.Nil, model.BadRequest(model.ErrCodeMissingField, "User ID is required")
	}
	if pathID, err := uuid.Parse(raw); err != nil || pathID != id {
		return uuid.Nil, model.ErrForbidden
	}
	return id, nil
}
