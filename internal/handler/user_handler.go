package handler

import (
	"net/http"
	"time"

	"prepkart/internal/middleware"
	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/rs/zerolog"
)

const sessionCookieMaxAge = 30 * 24 * time.Hour

// UserHandler handles OTP signup, login and session requests.
type UserHandler struct {
	service       service.UserService
	secureCookies bool
	logger        zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, secureCookies bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:       service,
		secureCookies: secureCookies,
		logger:        logger.With().Str("handler", "user").Logger(),
	}
}

func (h *UserHandler) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Signup handles POST /api/users/signup requests.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.RequestSignupOTP(r.Context(), &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "OTP sent")
}

// Login handles POST /api/users/login requests.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.RequestLoginOTP(r.Context(), &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "OTP sent")
}

// VerifyOTP handles POST /api/users/verify-otp requests and sets the session cookies.
func (h *UserHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	session, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, session.AccessToken, sessionCookieMaxAge)
	h.setCookie(w, middleware.SessionTokenCookie, session.SessionToken, sessionCookieMaxAge)
	writeData(w, http.StatusOK, session.User)
}

// Logout handles POST /api/users/logout requests.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, "", -time.Second)
	h.setCookie(w, middleware.SessionTokenCookie, "", -time.Second)
	writeMessage(w, "Logged out")
}

// Me handles GET /api/users/me requests.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, user)
}
