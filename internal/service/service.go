package service

import (
	"context"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService defines read and admin operations on books and quizzes.
type CatalogService interface {
	// ListBooks retrieves books with pagination.
	ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error)

	// GetBook retrieves a single book by ID.
	GetBook(ctx context.Context, id string) (*model.Book, error)

	// ListQuizzes retrieves active quizzes without their questions.
	ListQuizzes(ctx context.Context, limit, offset int) ([]model.PublicQuiz, error)

	// GetQuiz retrieves a quiz with questions but without answers.
	GetQuiz(ctx context.Context, id string) (*model.PublicQuiz, error)

	// CreateBook adds a book to the catalogue.
	CreateBook(ctx context.Context, req *model.BookRequest) (*model.Book, error)

	// SetBookStock overwrites the stock level of a book.
	SetBookStock(ctx context.Context, id string, stock int) error

	// CreateQuiz adds a quiz with its questions.
	CreateQuiz(ctx context.Context, req *model.QuizRequest) (*model.Quiz, error)

	// EbookLink returns a download link for an ebook the user is entitled to.
	EbookLink(ctx context.Context, userID uuid.UUID, bookID string) (*model.EbookLink, error)
}

// CartService defines operations on the per-user cart.
type CartService interface {
	// GetCart returns the priced cart of a user.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)

	// AddItem adds a line or replaces the quantity of an existing one.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartView, error)

	// RemoveItem drops the line of a product.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.CartView, error)

	// Clear empties the cart and drops its coupon.
	Clear(ctx context.Context, userID uuid.UUID) (*model.CartView, error)

	// ApplyCoupon attaches a usable coupon to the cart.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.CartView, error)

	// RemoveCoupon detaches the coupon from the cart.
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.CartView, error)
}

// CouponService defines coupon administration and usability checks.
type CouponService interface {
	// Create validates and stores a new coupon.
	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)

	// List retrieves all coupons.
	List(ctx context.Context) ([]model.Coupon, error)

	// Deactivate marks a coupon inactive.
	Deactivate(ctx context.Context, id string) error

	// Apply returns the active coupon for code if it can be used on amount.
	// An expired coupon is deactivated.
	Apply(ctx context.Context, code string, amount decimal.Decimal) (*model.Coupon, error)

	// CheckoutDiscount reports the discount a code gives on cartTotal.
	CheckoutDiscount(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponDiscount, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// PlaceOrder validates items, updates inventory and entitlements and stores the order.
	PlaceOrder(ctx context.Context, sessionUserID uuid.UUID, req *model.OrderRequest) (*model.OrderPlaced, error)

	// ListByUser retrieves order summaries of a user, newest first.
	ListByUser(ctx context.Context, sessionUserID uuid.UUID, userID string) ([]model.OrderSummary, error)

	// GetByID retrieves an order owned by the session user.
	GetByID(ctx context.Context, sessionUserID uuid.UUID, orderID string) (*model.Order, error)

	// List retrieves all orders for administrators.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error)
}

// AttemptService defines the quiz attempt lifecycle.
type AttemptService interface {
	// Start returns the open attempt on a quiz or starts a new one.
	Start(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAttempt, error)

	// SubmitAnswer records the answer to one question.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, attemptID string, req *model.SubmitAnswerRequest) (*model.QuizAttempt, error)

	// Complete scores and closes an attempt.
	Complete(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptResult, error)

	// History lists attempts of a user, optionally for one quiz.
	History(ctx context.Context, userID uuid.UUID, quizID string) ([]model.AttemptSummary, error)

	// Details returns an attempt with its answers joined to the questions.
	Details(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptDetails, error)
}

// SubscriptionService defines quiz subscription management.
type SubscriptionService interface {
	// Subscribe grants access to a quiz.
	Subscribe(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizSubscription, error)

	// Revoke removes access to a quiz.
	Revoke(ctx context.Context, userID uuid.UUID, quizID string) error

	// List retrieves the active subscriptions of a user.
	List(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error)

	// Access reports whether the user may take a quiz.
	Access(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAccess, error)
}

// UserService defines OTP authentication and sessions.
type UserService interface {
	// RequestSignupOTP sends a code to a new phone number.
	RequestSignupOTP(ctx context.Context, req *model.SignupRequest) error

	// RequestLoginOTP sends a code to a registered phone number.
	RequestLoginOTP(ctx context.Context, req *model.LoginRequest) error

	// VerifyOTP completes a signup or login and issues session tokens.
	VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.Session, error)

	// Logout clears the tokens of a user.
	Logout(ctx context.Context, userID uuid.UUID) error

	// Me retrieves the profile of a user with entitlements.
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// Authenticate resolves the user owning a token pair.
	Authenticate(ctx context.Context, sessionToken, accessToken string) (*model.User, error)
}

// AddressService defines saved address management.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error)
	Update(ctx context.Context, userID uuid.UUID, addressID string, req *model.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID uuid.UUID, addressID string) error
}
