package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"prepkart/internal/handler"
	"prepkart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectAll struct{}

func (rejectAll) Authenticate(ctx context.Context, sessionToken, accessToken string) (*model.User, error) {
	return nil, model.ErrUnauthorised
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	return New(Handlers{
		User:         handler.NewUserHandler(nil, false, logger),
		Address:      handler.NewAddressHandler(nil, logger),
		Catalog:      handler.NewCatalogHandler(nil, logger),
		Cart:         handler.NewCartHandler(nil, logger),
		Order:        handler.NewOrderHandler(nil, nil, logger),
		Attempt:      handler.NewAttemptHandler(nil, logger),
		Subscription: handler.NewSubscriptionHandler(nil, logger),
		Coupon:       handler.NewCouponHandler(nil, logger),
	}, rejectAll{}, "test-key", logger)
}

func TestRoutes(t *testing.T) {
	routes, ok := newTestRouter().(chi.Routes)
	require.True(t, ok)

	registered := map[string]bool{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /health",
		"POST /api/users/signup",
		"POST /api/users/login",
		"POST /api/users/verify-otp",
		"POST /api/users/logout",
		"GET /api/users/me",
		"GET /api/addresses",
		"POST /api/addresses",
		"PUT /api/addresses/{addressId}",
		"DELETE /api/addresses/{addressId}",
		"GET /api/books",
		"GET /api/books/{bookId}",
		"GET /api/books/{bookId}/ebook",
		"GET /api/quizzes",
		"GET /api/quizzes/{quizId}",
		"POST /api/cart/add/{userId}",
		"GET /api/cart/getcart/{userId}",
		"DELETE /api/cart/remove/{userId}/{productId}",
		"DELETE /api/cart/clear/{userId}",
		"POST /api/cart/apply-coupon",
		"DELETE /api/cart/apply-coupon",
		"POST /api/order/placeorder",
		"GET /api/order/getordersbyuser/{userId}",
		"GET /api/order/{orderId}",
		"POST /api/order/apply-coupon",
		"POST /api/quizzes/attempts/start",
		"GET /api/quizzes/attempts/history",
		"GET /api/quizzes/attempts/{attemptId}",
		"POST /api/quizzes/attempts/{attemptId}/answer",
		"POST /api/quizzes/attempts/{attemptId}/complete",
		"GET /api/quizzes/subscriptions",
		"POST /api/quizzes/{quizId}/subscribe",
		"DELETE /api/quizzes/{quizId}/subscribe",
		"GET /api/quizzes/{quizId}/access",
		"POST /api/admin/books",
		"PUT /api/admin/books/{bookId}/stock",
		"POST /api/admin/quizzes",
		"GET /api/admin/coupons",
		"POST /api/admin/coupons",
		"DELETE /api/admin/coupons/{couponId}",
		"GET /api/admin/orders",
		"PUT /api/admin/orders/{orderId}/status",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %q not registered", route)
	}
}

func TestRouterGuards(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"session route without cookies", http.MethodGet, "/api/users/me", "", http.StatusUnauthorized},
		{"cart route without cookies", http.MethodGet, "/api/cart/getcart/abc", "", http.StatusUnauthorized},
		{"admin route without key", http.MethodGet, "/api/admin/coupons", "", http.StatusUnauthorized},
		{"admin route with wrong key", http.MethodGet, "/api/admin/orders", "nope", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/products", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
