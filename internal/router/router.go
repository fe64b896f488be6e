package router

import (
	"net/http"

	"prepkart/internal/handler"
	"prepkart/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	User         *handler.UserHandler
	Address      *handler.AddressHandler
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Attempt      *handler.AttemptHandler
	Subscription *handler.SubscriptionHandler
	Coupon       *handler.CouponHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth middleware.Authenticator, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Outermost first: RequestID -> Recovery -> Logging -> CORS
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users/signup", h.User.Signup)
		r.Post("/users/login", h.User.Login)
		r.Post("/users/verify-otp", h.User.VerifyOTP)

		r.Get("/books", h.Catalog.ListBooks)
		r.Get("/books/{bookId}", h.Catalog.GetBook)
		r.Get("/quizzes", h.Catalog.ListQuizzes)
		r.Get("/quizzes/{quizId}", h.Catalog.GetQuiz)

		// Session routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(auth, logger))

			r.Post("/users/logout", h.User.Logout)
			r.Get("/users/me", h.User.Me)

			r.Get("/addresses", h.Address.List)
			r.Post("/addresses", h.Address.Create)
			r.Put("/addresses/{addressId}", h.Address.Update)
			r.Delete("/addresses/{addressId}", h.Address.Delete)

			r.Get("/books/{bookId}/ebook", h.Catalog.EbookLink)

			r.Route("/cart", func(r chi.Router) {
				r.Post("/add/{userId}", h.Cart.Add)
				r.Get("/getcart/{userId}", h.Cart.Get)
				r.Delete("/remove/{userId}/{productId}", h.Cart.Remove)
				r.Delete("/clear/{userId}", h.Cart.Clear)
				r.Post("/apply-coupon", h.Cart.ApplyCoupon)
				r.Delete("/apply-coupon", h.Cart.RemoveCoupon)
			})

			r.Route("/order", func(r chi.Router) {
				r.Post("/placeorder", h.Order.Place)
				r.Get("/getordersbyuser/{userId}", h.Order.ListByUser)
				r.Post("/apply-coupon", h.Order.ApplyCoupon)
				r.Get("/{orderId}", h.Order.GetByID)
			})

			r.Post("/quizzes/attempts/start", h.Attempt.Start)
			r.Get("/quizzes/attempts/history", h.Attempt.History)
			r.Get("/quizzes/attempts/{attemptId}", h.Attempt.Details)
			r.Post("/quizzes/attempts/{attemptId}/answer", h.Attempt.Answer)
			r.Post("/quizzes/attempts/{attemptId}/complete", h.Attempt.Complete)

			r.Get("/quizzes/subscriptions", h.Subscription.List)
			r.Post("/quizzes/{quizId}/subscribe", h.Subscription.Subscribe)
			r.Delete("/quizzes/{quizId}/subscribe", h.Subscription.Revoke)
			r.Get("/quizzes/{quizId}/access", h.Subscription.Access)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(apiKey, logger))

			r.Post("/books", h.Catalog.CreateBook)
			r.Put("/books/{bookId}/stock", h.Catalog.SetBookStock)
			r.Post("/quizzes", h.Catalog.CreateQuiz)

			r.Get("/coupons", h.Coupon.List)
			r.Post("/coupons", h.Coupon.Create)
			r.Delete("/coupons/{couponId}", h.Coupon.Deactivate)

			r.Get("/orders", h.Order.List)
			r.Put("/orders/{orderId}/status", h.Order.UpdateStatus)
		})
	})

	return r
}
