package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prepkart/internal/middleware"
	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func TestUserHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{"OTP sent", nil, http.StatusOK},
		{"Phone already registered", model.ErrUserExists, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			h := NewUserHandler(svc, false, zerolog.Nop())

			svc.On("RequestSignupOTP", mock.Anything, &model.SignupRequest{Username: "asha", Phone: "+919876543210"}).
				Return(tt.mockError).Once()

			req := newRequest(t, http.MethodPost, "/api/users/signup", uuid.Nil,
				model.SignupRequest{Username: "asha", Phone: "+919876543210"})
			w := httptest.NewRecorder()
			h.Signup(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_Login(t *testing.T) {
	svc := new(MockUserService)
	h := NewUserHandler(svc, false, zerolog.Nop())

	svc.On("RequestLoginOTP", mock.Anything, &model.LoginRequest{Phone: "+919876543210"}).
		Return(model.ErrUserNotFound).Once()

	req := newRequest(t, http.MethodPost, "/api/users/login", uuid.Nil, model.LoginRequest{Phone: "+919876543210"})
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_VerifyOTP(t *testing.T) {
	user := &model.User{ID: uuid.New(), Username: "asha", Phone: "+919876543210", Role: model.RoleUser}

	t.Run("sets session cookies", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, true, zerolog.Nop())

		svc.On("VerifyOTP", mock.Anything, &model.VerifyOTPRequest{Phone: user.Phone, OTP: "123456"}).
			Return(&model.Session{User: user, AccessToken: "access", SessionToken: "session"}, nil).Once()

		req := newRequest(t, http.MethodPost, "/api/users/verify-otp", uuid.Nil,
			model.VerifyOTPRequest{Phone: user.Phone, OTP: "123456"})
		w := httptest.NewRecorder()
		h.VerifyOTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		cookies := cookiesByName(w)
		require.Contains(t, cookies, middleware.AccessTokenCookie)
		require.Contains(t, cookies, middleware.SessionTokenCookie)
		assert.Equal(t, "access", cookies[middleware.AccessTokenCookie].Value)
		assert.Equal(t, "session", cookies[middleware.SessionTokenCookie].Value)
		assert.True(t, cookies[middleware.AccessTokenCookie].HttpOnly)
		assert.True(t, cookies[middleware.SessionTokenCookie].Secure)

		data, ok := decodeBody(t, w)["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), data["_id"])
		assert.NotContains(t, w.Body.String(), "access\"")
		svc.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, false, zerolog.Nop())

		svc.On("VerifyOTP", mock.Anything, mock.AnythingOfType("*model.VerifyOTPRequest")).
			Return(nil, model.ErrInvalidOTP).Once()

		req := newRequest(t, http.MethodPost, "/api/users/verify-otp", uuid.Nil,
			model.VerifyOTPRequest{Phone: user.Phone, OTP: "000000"})
		w := httptest.NewRecorder()
		h.VerifyOTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Result().Cookies())
		svc.AssertExpectations(t)
	})
}

func TestUserHandler_Logout(t *testing.T) {
	userID := uuid.New()
	svc := new(MockUserService)
	h := NewUserHandler(svc, false, zerolog.Nop())

	svc.On("Logout", mock.Anything, userID).Return(nil).Once()

	req := newRequest(t, http.MethodPost, "/api/users/logout", userID, nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := cookiesByName(w)
	require.Contains(t, cookies, middleware.SessionTokenCookie)
	assert.Empty(t, cookies[middleware.SessionTokenCookie].Value)
	assert.Negative(t, cookies[middleware.SessionTokenCookie].MaxAge)
	svc.AssertExpectations(t)
}

func TestUserHandler_Me(t *testing.T) {
	userID := uuid.New()

	t.Run("returns profile", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, false, zerolog.Nop())

		svc.On("Me", mock.Anything, userID).Return(&model.User{ID: userID, Username: "asha"}, nil).Once()

		req := newRequest(t, http.MethodGet, "/api/users/me", userID, nil)
		w := httptest.NewRecorder()
		h.Me(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires session", func(t *testing.T) {
		h := NewUserHandler(new(MockUserService), false, zerolog.Nop())

		req := newRequest(t, http.MethodGet, "/api/users/me", uuid.Nil, nil)
		w := httptest.NewRecorder()
		h.Me(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
